package providers

import (
	"fmt"
	"strings"
	"time"
)

// Message represents a single message in a conversation.
type Message struct {
	// Role identifies the message sender (system, user, assistant)
	Role string `json:"role"`

	// Content is the message text content
	Content string `json:"content"`
}

// TokenUsage tracks token consumption for a request.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionRequest represents a provider-agnostic completion request.
type CompletionRequest struct {
	// Model is the upstream model identifier (e.g., "mistralai/mistral-7b-instruct-v0.2")
	Model string `json:"model"`

	// Messages is the ordered message sequence sent to the model
	Messages []Message `json:"messages"`

	// Title identifies the calling application to the upstream
	Title string `json:"title,omitempty"`

	// APIKey overrides ProviderConfig.APIKey for this request only.
	// It is never serialized.
	APIKey string `json:"-"`
}

// CompletionResponse represents a provider-agnostic completion response.
type CompletionResponse struct {
	// ID is the upstream response identifier
	ID string `json:"id"`

	// Model is the model that generated the response
	Model string `json:"model"`

	// Content is the text of the first choice
	Content string `json:"content"`

	// FinishReason indicates why generation stopped
	FinishReason string `json:"finish_reason"`

	// Usage contains token consumption information, when reported
	Usage TokenUsage `json:"usage"`

	// StatusCode is the upstream HTTP status
	StatusCode int `json:"-"`
}

// RequestStats counts upstream exchanges made by a provider.
type RequestStats struct {
	TotalRequests  int64     `json:"total_requests"`
	FailedRequests int64     `json:"failed_requests"`
	LastRequest    time.Time `json:"last_request,omitempty"`
	LastError      string    `json:"last_error,omitempty"`
}

// ProviderConfig contains configuration for a single provider instance.
type ProviderConfig struct {
	// Name is the provider identifier used in logs and metrics
	Name string

	// Type is the adapter type (openrouter)
	Type string

	// BaseURL is the API base URL, without the endpoint path
	BaseURL string

	// APIKey is the default bearer credential
	APIKey string

	// Timeout bounds one upstream exchange. Zero means no timeout.
	Timeout time.Duration

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool
	IdleConnTimeout time.Duration

	// Referer is sent as the HTTP-Referer header when set
	Referer string

	// TitleHeader also sends the request title as an X-Title header.
	// The title is always sent as a body field.
	TitleHeader bool
}

// Validate checks the fields every adapter depends on.
func (c ProviderConfig) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ConfigError{Provider: c.Type, Field: "name", Message: "must not be empty"}
	}
	if c.BaseURL == "" {
		return &ConfigError{Provider: c.Name, Field: "base_url", Message: "must not be empty"}
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return &ConfigError{
			Provider: c.Name,
			Field:    "base_url",
			Message:  fmt.Sprintf("must be an http(s) URL, got %q", c.BaseURL),
		}
	}
	if c.Timeout < 0 {
		return &ConfigError{Provider: c.Name, Field: "timeout", Message: "must not be negative"}
	}
	return nil
}

// Message role constants
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Finish reason constants
const (
	FinishReasonStop          = "stop"
	FinishReasonLength        = "length"
	FinishReasonContentFilter = "content_filter"
)
