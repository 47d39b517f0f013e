package metrics

import (
	"strconv"
	"time"

	"chatrelay/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector owns the relay's Prometheus metrics and their registry.
//
// All methods are safe on a nil *Collector, which records nothing. The
// relay handler therefore never checks whether metrics are enabled.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	invocations *InvocationMetrics
	upstream    *UpstreamMetrics
}

// NewCollector creates a collector and registers its metrics, plus the Go
// runtime and process collectors, with registry. A nil registry gets a
// fresh one; the global default registry is never used.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{registry: registry}
	if cfg != nil {
		c.config = *cfg
	}

	if c.config.Namespace == "" {
		c.config.Namespace = config.DefaultMetricsNamespace
	}
	if c.config.Subsystem == "" {
		c.config.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(c.config.DurationBuckets) == 0 {
		c.config.DurationBuckets = config.DefaultDurationBuckets
	}

	c.invocations = NewInvocationMetrics(&c.config, registry)
	c.upstream = NewUpstreamMetrics(&c.config, registry)

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// RecordInvocation records one completed relay invocation.
//
// Parameters:
//   - outcome: how the invocation ended (e.g., "success", "invalid_json")
//   - status: the HTTP status returned to the caller
//   - duration: time spent in the handler
func (c *Collector) RecordInvocation(outcome string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.invocations.Record(outcome, strconv.Itoa(status), duration)
}

// RecordUpstream records one upstream exchange that produced an HTTP status.
func (c *Collector) RecordUpstream(provider string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.upstream.Record(provider, strconv.Itoa(status), duration)
}

// RecordUpstreamError records an upstream failure by kind
// (e.g., "api_error", "parse_error", "transport_error").
// Transport failures have no status and are counted with status "none".
func (c *Collector) RecordUpstreamError(provider, errorType string, duration time.Duration) {
	if c == nil {
		return
	}
	if errorType == "transport_error" {
		c.upstream.Record(provider, "none", duration)
	}
	c.upstream.RecordError(provider, errorType)
}

// RecordTokens adds token usage reported by the upstream.
func (c *Collector) RecordTokens(provider, model string, prompt, completion int) {
	if c == nil {
		return
	}
	c.upstream.RecordTokens(provider, model, prompt, completion)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}
