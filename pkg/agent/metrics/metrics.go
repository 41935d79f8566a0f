// Package metrics holds the prometheus collectors of the agent loop.
// They are registered with promauto on the default registry, which
// /metrics serves.
package metrics

import (
	"context"
	"errors"
	"time"

	"wms-ops-agent/pkg/llm"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// toolCalls counts tool executions by tool name and result outcome.
	toolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ops_agent",
			Name:      "tool_calls_total",
			Help:      "Tool executions by tool and outcome.",
		},
		[]string{"tool", "outcome"},
	)

	toolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ops_agent",
			Name:      "tool_duration_seconds",
			Help:      "Duration of tool executions in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"tool"},
	)

	// rounds observes how many engine rounds a turn needed.
	rounds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ops_agent",
			Name:      "rounds",
			Help:      "Reasoning engine rounds per turn.",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 8, 10},
		},
	)

	engineErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ops_agent",
			Name:      "engine_errors_total",
			Help:      "Reasoning engine failures by kind.",
		},
		[]string{"kind"},
	)
)

// Error kinds, also used as the error_type of HTTP responses.
const (
	KindRateLimited     = "rate_limited"
	KindPaymentRequired = "payment_required"
	KindUpstream        = "upstream_error"
	KindCanceled        = "canceled"
)

// ErrorKind maps an engine error onto a label-safe kind.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, llm.ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, llm.ErrPaymentRequired):
		return KindPaymentRequired
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	}
	return KindUpstream
}

// UnknownTool labels calls to tools that are not registered.
const UnknownTool = "unknown"

func ObserveToolCall(tool, outcome string, elapsed time.Duration) {
	toolCalls.WithLabelValues(tool, outcome).Inc()
	toolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

func ObserveRounds(n int) {
	rounds.Observe(float64(n))
}

// ObserveEngineError records a failed engine call and returns its kind.
func ObserveEngineError(err error) string {
	kind := ErrorKind(err)
	engineErrors.WithLabelValues(kind).Inc()
	return kind
}
