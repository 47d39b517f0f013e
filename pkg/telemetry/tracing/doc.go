// Package tracing provides OpenTelemetry tracing for the relay.
//
// When telemetry.tracing.enabled is set, New builds an SDK TracerProvider
// that batches spans to an OTLP gRPC collector, samples according to the
// configured strategy (always, never, ratio; all parent-based) and installs
// the W3C traceparent propagator. Otherwise a no-op tracer is returned, and
// a nil *Tracer behaves the same way.
//
// Spans produced per invocation:
//
//	HTTP POST              server span from HTTPMiddleware
//	└── relay.invoke       outcome and response status
//	    └── upstream.chat_completion   provider, model, upstream status, tokens
package tracing
