package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"chatrelay/pkg/providers"
	"chatrelay/pkg/telemetry/tracing"
)

const (
	// DefaultBaseURL is the public OpenRouter API root.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// ChatCompletionsPath is appended to the base URL.
	ChatCompletionsPath = "/chat/completions"
)

// Provider is the OpenRouter chat-completion adapter.
type Provider struct {
	*providers.HTTPProvider
	endpoint string
}

// NewProvider creates a new OpenRouter provider instance.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	if config.Name == "" {
		config.Name = "openrouter"
	}
	if config.Type == "" {
		config.Type = "openrouter"
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	p := &Provider{
		HTTPProvider: providers.NewHTTPProvider(config),
		endpoint:     strings.TrimRight(config.BaseURL, "/") + ChatCompletionsPath,
	}

	slog.Debug("openrouter provider initialized",
		"provider", config.Name,
		"endpoint", p.endpoint,
	)

	return p, nil
}

// NewProviderWithClient is NewProvider with a caller-supplied http.Client.
func NewProviderWithClient(config providers.ProviderConfig, client *http.Client) (*Provider, error) {
	p, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	p.HTTPProvider = providers.NewHTTPProviderWithClient(p.GetConfig(), client)
	return p, nil
}

// Endpoint returns the full chat-completions URL.
func (p *Provider) Endpoint() string {
	return p.endpoint
}

// SendCompletion posts one chat completion and maps the outcome.
//
// The body is parsed as JSON before the status is inspected, so a non-JSON
// error page yields *providers.ParseError rather than *providers.ProviderError.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	cfg := p.GetConfig()

	body, err := json.Marshal(transformRequest(req))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	apiKey := req.APIKey
	if apiKey == "" {
		apiKey = cfg.APIKey
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if apiKey != "" {
		headers["Authorization"] = "Bearer " + apiKey
	}
	if cfg.Referer != "" {
		headers["HTTP-Referer"] = cfg.Referer
	}
	if cfg.TitleHeader && req.Title != "" {
		headers["X-Title"] = req.Title
	}
	tracing.InjectToMap(ctx, headers)

	raw, err := p.DoRequest(ctx, http.MethodPost, p.endpoint, body, headers)
	if err != nil {
		return nil, err
	}

	// A null body has neither an error object nor choices to read.
	if bytes.Equal(bytes.TrimSpace(raw.Body), []byte("null")) {
		field := "choices"
		if !raw.OK() {
			field = "error"
		}
		return nil, &providers.ResponseShapeError{Provider: cfg.Name, Field: field}
	}

	var decoded ChatResponse
	if err := p.DecodeJSON(raw, &decoded); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, err
		}
		// Valid JSON that is not an object carries no fields.
		slog.DebugContext(ctx, "response body is not an object", "provider", cfg.Name, "status", raw.StatusCode)
		decoded = ChatResponse{}
	}

	if !raw.OK() {
		return nil, &providers.ProviderError{
			Provider:   cfg.Name,
			StatusCode: raw.StatusCode,
			Message:    decoded.APIErr().Detail(),
		}
	}

	resp, err := transformResponse(cfg.Name, &decoded)
	if err != nil {
		return nil, err
	}
	resp.StatusCode = raw.StatusCode
	return resp, nil
}
