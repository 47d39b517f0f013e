package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/trace"

	"chatrelay/pkg/config"
	"chatrelay/pkg/providers"
	"chatrelay/pkg/security/secrets"
	"chatrelay/pkg/telemetry/logging"
	"chatrelay/pkg/telemetry/metrics"
	"chatrelay/pkg/telemetry/tracing"
)

// Completer sends one chat-completion request upstream.
// *openrouter.Provider implements it.
type Completer interface {
	SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error)
	GetName() string
}

// SecretSource resolves the upstream credential by name.
// Every secrets.Provider implements it.
type SecretSource interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// Options are the fixed parameters of every upstream request.
// Zero fields take the package defaults.
type Options struct {
	Model          string
	SystemPrompt   string
	AppTitle       string
	CredentialName string

	// MaxBodyBytes bounds the body read by ServeHTTP.
	MaxBodyBytes int64
}

// OptionsFromConfig builds Options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Model:          cfg.Relay.Model,
		SystemPrompt:   cfg.Relay.SystemPrompt,
		AppTitle:       cfg.Relay.AppTitle,
		CredentialName: cfg.Relay.CredentialEnv,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
	}
}

func (o *Options) applyDefaults() {
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.SystemPrompt == "" {
		o.SystemPrompt = DefaultSystemPrompt
	}
	if o.AppTitle == "" {
		o.AppTitle = DefaultAppTitle
	}
	if o.CredentialName == "" {
		o.CredentialName = DefaultCredentialName
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
}

// Handler is the relay function. It is safe for concurrent use.
type Handler struct {
	opts      Options
	completer Completer
	secrets   SecretSource
	logger    *logging.Logger
	metrics   *metrics.Collector
	tracer    *tracing.Tracer
}

// NewHandler creates a relay handler. The logger, metrics collector and
// tracer may be nil.
func NewHandler(opts Options, completer Completer, secretSource SecretSource, logger *logging.Logger, collector *metrics.Collector, tracer *tracing.Tracer) *Handler {
	opts.applyDefaults()
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Handler{
		opts:      opts,
		completer: completer,
		secrets:   secretSource,
		logger:    logger,
		metrics:   collector,
		tracer:    tracer,
	}
}

// Options returns the effective options.
func (h *Handler) Options() Options {
	return h.opts
}

// Handle runs one invocation. It always returns a response: faults,
// including panics, become a 500 "Internal server error" response.
func (h *Handler) Handle(ctx context.Context, req Request) (resp Response) {
	start := time.Now()
	ctx, span := h.tracer.Start(ctx, "relay.invoke")

	outcome := OutcomeInternalError
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%v", r)
			h.logger.ErrorContext(ctx, "relay panic recovered",
				"error", err,
				"stack", string(debug.Stack()),
			)
			tracing.SetError(span, err)
			resp = InternalErrorResponse(err)
			outcome = OutcomeInternalError
		}

		tracing.SetOutcome(span, outcome, resp.StatusCode)
		h.metrics.RecordInvocation(outcome, resp.StatusCode, time.Since(start))
		span.End()
	}()

	resp, outcome = h.handle(ctx, req)
	return resp
}

func (h *Handler) handle(ctx context.Context, req Request) (Response, string) {
	if req.HTTPMethod != http.MethodPost {
		h.logger.DebugContext(ctx, "rejected request method", "method", req.HTTPMethod)
		return newResponse(http.StatusMethodNotAllowed, MsgMethodNotAllowed, nil), OutcomeMethodNotAllowed
	}

	apiKey, err := h.secrets.GetSecret(ctx, h.opts.CredentialName)
	if err != nil || apiKey == "" {
		args := []any{"credential", h.opts.CredentialName}
		if err != nil && !errors.Is(err, secrets.ErrNotFound) {
			args = append(args, "error", err)
		}
		h.logger.ErrorContext(ctx, "API key is missing from environment variables", args...)
		return newResponse(http.StatusInternalServerError, MsgAPIKeyMissing, nil), OutcomeConfigError
	}

	body, err := req.rawBody()
	if err != nil {
		h.logger.DebugContext(ctx, "request body is not valid base64")
		return newResponse(http.StatusBadRequest, MsgInvalidJSON, nil), OutcomeInvalidJSON
	}

	prompt, err := parsePrompt(body)
	switch {
	case errors.Is(err, errInvalidJSON):
		h.logger.DebugContext(ctx, "request body is not valid JSON")
		return newResponse(http.StatusBadRequest, MsgInvalidJSON, nil), OutcomeInvalidJSON
	case err != nil:
		h.logger.DebugContext(ctx, "request body has no prompt")
		return newResponse(http.StatusBadRequest, MsgMissingPrompt, nil), OutcomeMissingPrompt
	}

	completion, err := h.complete(ctx, apiKey, prompt)
	if err != nil {
		var apiErr *providers.ProviderError
		if errors.As(err, &apiErr) {
			h.logger.ErrorContext(ctx, "upstream API error",
				"status", apiErr.StatusCode,
				"details", apiErr.Message,
			)
			return newResponse(apiErr.StatusCode, externalErrorPrefix+apiErr.Message, nil), OutcomeUpstreamError
		}

		h.logger.ErrorContext(ctx, "relay execution error", "error", err)
		return InternalErrorResponse(err), OutcomeInternalError
	}

	return newResponse(http.StatusOK, completion.Content, map[string]string{HeaderAllowOrigin: "*"}), OutcomeSuccess
}

// complete performs the single upstream exchange inside its own span and
// records upstream metrics.
func (h *Handler) complete(ctx context.Context, apiKey, prompt string) (*providers.CompletionResponse, error) {
	name := h.completer.GetName()

	ctx, span := h.tracer.Start(ctx, "upstream.chat_completion", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	tracing.SetUpstreamAttributes(span, name, h.opts.Model)

	req := &providers.CompletionRequest{
		Model: h.opts.Model,
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: h.opts.SystemPrompt},
			{Role: providers.RoleUser, Content: prompt},
		},
		Title:  h.opts.AppTitle,
		APIKey: apiKey,
	}

	start := time.Now()
	resp, err := h.completer.SendCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		tracing.SetError(span, err)
		h.recordUpstreamError(span, name, err, duration)
		return nil, err
	}
	if resp == nil {
		err = &providers.ResponseShapeError{Provider: name, Field: "choices[0]"}
		h.metrics.RecordUpstreamError(name, errorTypeShape, duration)
		tracing.SetError(span, err)
		return nil, err
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	tracing.SetUpstreamStatus(span, status)
	tracing.SetTokenAttributes(span, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
	tracing.SetStatus(span, nil)

	h.metrics.RecordUpstream(name, status, duration)
	h.metrics.RecordTokens(name, h.opts.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	return resp, nil
}

func (h *Handler) recordUpstreamError(span trace.Span, name string, err error, duration time.Duration) {
	var (
		apiErr       *providers.ProviderError
		parseErr     *providers.ParseError
		shapeErr     *providers.ResponseShapeError
		transportErr *providers.TransportError
	)

	switch {
	case errors.As(err, &apiErr):
		tracing.SetUpstreamStatus(span, apiErr.StatusCode)
		h.metrics.RecordUpstream(name, apiErr.StatusCode, duration)
		h.metrics.RecordUpstreamError(name, errorTypeAPI, duration)
	case errors.As(err, &parseErr):
		tracing.SetUpstreamStatus(span, parseErr.StatusCode)
		if parseErr.StatusCode > 0 {
			h.metrics.RecordUpstream(name, parseErr.StatusCode, duration)
		}
		h.metrics.RecordUpstreamError(name, errorTypeParse, duration)
	case errors.As(err, &shapeErr):
		h.metrics.RecordUpstreamError(name, errorTypeShape, duration)
	case errors.As(err, &transportErr):
		h.metrics.RecordUpstreamError(name, errorTypeTransport, duration)
	default:
		h.metrics.RecordUpstreamError(name, errorTypeUnknown, duration)
	}
}

// InternalErrorResponse is the 500 response for an unexpected fault.
func InternalErrorResponse(err error) Response {
	return newResponse(http.StatusInternalServerError, internalErrorPrefix+err.Error(), nil)
}
