// Package metrics provides Prometheus metrics for the relay.
//
// # Metrics
//
//   - invocations_total{outcome,status}: every relay invocation, labelled with
//     the outcome (success, method_not_allowed, config_error, invalid_json,
//     missing_prompt, upstream_error, internal_error) and the response status
//   - invocation_duration_seconds{outcome}
//   - upstream_requests_total{provider,status}: status is "none" when the
//     exchange failed before a response arrived
//   - upstream_duration_seconds{provider}
//   - upstream_errors_total{provider,type}
//   - upstream_tokens_total{provider,model,type}
//
// Names are prefixed with the configured namespace and subsystem
// (chatrelay_relay_ by default).
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordInvocation("success", 200, time.Since(start))
//	mux.Handle("/metrics", collector.Handler())
//
// A nil *Collector is valid and discards everything.
package metrics
