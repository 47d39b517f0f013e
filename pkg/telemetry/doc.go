// Package telemetry groups the relay's observability packages.
//
// # Components
//
//   - logging: structured slog logging with credential and PII redaction
//   - metrics: Prometheus counters and histograms for invocations and upstream calls
//   - tracing: OpenTelemetry spans exported over OTLP/gRPC
//   - health: liveness, readiness and version endpoints
//
// Each component is built from its section of config.TelemetryConfig and
// passed explicitly to the relay handler and the server. A nil metrics
// collector or tracer disables that signal.
//
// # Redaction
//
// Log attributes are redacted before they reach the handler:
//
//   - Bearer tokens: Bearer abc123 → Bearer ***
//   - API keys: sk-abc123 → sk-***
//   - Emails: user@example.com → ***@***
//
// Attributes with sensitive keys (api_key, authorization, token, ...) are
// masked regardless of value. Custom patterns can be configured.
package telemetry
