package metrics

import (
	"time"

	"chatrelay/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// InvocationMetrics tracks relay invocations.
//
// Metrics:
//   - chatrelay_relay_invocations_total: invocations by outcome and response status
//   - chatrelay_relay_invocation_duration_seconds: handler latency by outcome
type InvocationMetrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewInvocationMetrics creates and registers invocation metrics.
func NewInvocationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *InvocationMetrics {
	im := &InvocationMetrics{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "invocations_total",
				Help:      "Total number of relay invocations by outcome and response status",
			},
			[]string{"outcome", "status"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "invocation_duration_seconds",
				Help:      "Duration of relay invocations in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(im.total, im.duration)

	return im
}

// Record records a completed invocation.
func (im *InvocationMetrics) Record(outcome, status string, duration time.Duration) {
	im.total.WithLabelValues(outcome, status).Inc()
	im.duration.WithLabelValues(outcome).Observe(duration.Seconds())
}
