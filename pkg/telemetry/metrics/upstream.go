package metrics

import (
	"time"

	"chatrelay/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics tracks calls to the chat-completion API.
//
// Metrics:
//   - chatrelay_relay_upstream_requests_total: upstream exchanges by provider and status
//   - chatrelay_relay_upstream_duration_seconds: upstream latency
//   - chatrelay_relay_upstream_errors_total: upstream failures by type
//   - chatrelay_relay_upstream_tokens_total: tokens reported by the upstream
type UpstreamMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
	tokens   *prometheus.CounterVec
}

// NewUpstreamMetrics creates and registers upstream metrics.
func NewUpstreamMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *UpstreamMetrics {
	um := &UpstreamMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_requests_total",
				Help:      "Total number of upstream chat-completion requests by status",
			},
			[]string{"provider", "status"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_duration_seconds",
				Help:      "Upstream chat-completion latency in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"provider"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_errors_total",
				Help:      "Total number of upstream failures by type",
			},
			[]string{"provider", "type"},
		),

		tokens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_tokens_total",
				Help:      "Total number of tokens reported by the upstream",
			},
			[]string{"provider", "model", "type"},
		),
	}

	registry.MustRegister(um.requests, um.duration, um.errors, um.tokens)

	return um
}

// Record records one upstream exchange.
func (um *UpstreamMetrics) Record(provider, status string, duration time.Duration) {
	um.requests.WithLabelValues(provider, status).Inc()
	um.duration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordError records an upstream failure.
func (um *UpstreamMetrics) RecordError(provider, errorType string) {
	um.errors.WithLabelValues(provider, errorType).Inc()
}

// RecordTokens records prompt and completion token counts.
func (um *UpstreamMetrics) RecordTokens(provider, model string, prompt, completion int) {
	if prompt > 0 {
		um.tokens.WithLabelValues(provider, model, "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		um.tokens.WithLabelValues(provider, model, "completion").Add(float64(completion))
	}
}
