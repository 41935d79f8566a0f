package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"wms-ops-agent/pkg/llm"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "rate limited", err: llm.StatusError("gateway", 429, "slow down"), want: KindRateLimited},
		{name: "payment", err: fmt.Errorf("round 2: %w", llm.StatusError("gateway", 402, "")), want: KindPaymentRequired},
		{name: "upstream", err: llm.StatusError("gateway", 500, "boom"), want: KindUpstream},
		{name: "canceled", err: fmt.Errorf("chat: %w", context.Canceled), want: KindCanceled},
		{name: "other", err: errors.New("dial tcp: refused"), want: KindUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorKind(tt.err))
		})
	}
}

func TestObserve(t *testing.T) {
	before := testutil.ToFloat64(toolCalls.WithLabelValues("move_item", "blocked"))
	ObserveToolCall("move_item", "blocked", 20*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(toolCalls.WithLabelValues("move_item", "blocked")))

	beforeErr := testutil.ToFloat64(engineErrors.WithLabelValues(KindRateLimited))
	assert.Equal(t, KindRateLimited, ObserveEngineError(llm.ErrRateLimited))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(engineErrors.WithLabelValues(KindRateLimited)))
}
