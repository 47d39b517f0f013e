package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys set by the relay.
const (
	AttrProvider       = "chatrelay.provider"
	AttrModel          = "chatrelay.model"
	AttrOutcome        = "chatrelay.outcome"
	AttrStatusCode     = "http.status_code"
	AttrUpstreamStatus = "chatrelay.upstream.status_code"

	AttrTokensPrompt     = "chatrelay.tokens.prompt"
	AttrTokensCompletion = "chatrelay.tokens.completion"
	AttrTokensTotal      = "chatrelay.tokens.total"
)

// SetUpstreamAttributes sets provider and model on a span.
func SetUpstreamAttributes(span trace.Span, provider, model string) {
	span.SetAttributes(
		attribute.String(AttrProvider, provider),
		attribute.String(AttrModel, model),
	)
}

// SetUpstreamStatus records the HTTP status the upstream replied with.
func SetUpstreamStatus(span trace.Span, status int) {
	if status > 0 {
		span.SetAttributes(attribute.Int(AttrUpstreamStatus, status))
	}
}

// SetTokenAttributes records token usage reported by the upstream.
func SetTokenAttributes(span trace.Span, prompt, completion, total int) {
	span.SetAttributes(
		attribute.Int(AttrTokensPrompt, prompt),
		attribute.Int(AttrTokensCompletion, completion),
		attribute.Int(AttrTokensTotal, total),
	)
}

// SetOutcome records how an invocation ended.
func SetOutcome(span trace.Span, outcome string, status int) {
	span.SetAttributes(
		attribute.String(AttrOutcome, outcome),
		attribute.Int(AttrStatusCode, status),
	)
}
