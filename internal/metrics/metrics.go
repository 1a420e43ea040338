// Package metrics defines the Prometheus metrics the dispatch engine emits.
//
// Naming follows Prometheus conventions: wabot_ prefix, _total suffix for
// counters, _seconds suffix for duration histograms.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InvocationsTotal counts dispatched command executions by command and
	// terminal status ("ok" or "error").
	InvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wabot_invocations_total",
			Help: "Total command executions by command and status.",
		},
		[]string{"command", "status"},
	)

	// RejectionsTotal counts pipeline rejections by gate.
	RejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wabot_rejections_total",
			Help: "Total dispatch rejections by gate.",
		},
		[]string{"gate"},
	)

	// HandlerDurationSeconds is a histogram of handler execution time.
	HandlerDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wabot_handler_duration_seconds",
			Help:    "Duration of command handler executions in seconds.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"command"},
	)

	// UnknownCommandsTotal counts inbound texts that looked like a command but
	// matched nothing.
	UnknownCommandsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wabot_unknown_commands_total",
			Help: "Total unmatched command attempts.",
		},
	)
)
