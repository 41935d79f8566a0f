package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRateLimited is returned when the upstream answers 429.
	ErrRateLimited = errors.New("reasoning engine rate limited")
	// ErrPaymentRequired is returned when the upstream answers 402.
	ErrPaymentRequired = errors.New("reasoning engine credits exhausted")
)

// UpstreamError is any other non-success answer from the upstream.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// StatusError maps a non-2xx upstream answer onto the error taxonomy.
func StatusError(provider string, statusCode int, body string) error {
	switch statusCode {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", provider, ErrRateLimited)
	case http.StatusPaymentRequired:
		return fmt.Errorf("%s: %w", provider, ErrPaymentRequired)
	}
	return &UpstreamError{Provider: provider, StatusCode: statusCode, Body: body}
}
