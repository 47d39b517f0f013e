package openrouter

import (
	"bytes"
	"encoding/json"
	"strings"

	"chatrelay/pkg/providers"
)

// OpenRouter API request/response types

// ChatRequest is the body POSTed to /chat/completions.
//
// Title is serialized as a body field named "X-Title". OpenRouter documents
// X-Title as a request header; the body field is kept for wire compatibility
// with existing deployments and ProviderConfig.TitleHeader adds the header.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Title    string        `json:"X-Title,omitempty"`
}

// ChatMessage represents a message in OpenRouter format.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the top level of both the success and the error body.
// Fields stay raw and are decoded only when read, so drift in a field the
// relay ignores cannot fail an otherwise usable reply.
type ChatResponse struct {
	ID      json.RawMessage `json:"id"`
	Model   json.RawMessage `json:"model"`
	Choices json.RawMessage `json:"choices"`
	Usage   json.RawMessage `json:"usage"`
	Error   json.RawMessage `json:"error"`
}

// chatChoice is one element of choices.
type chatChoice struct {
	Message      json.RawMessage `json:"message"`
	FinishReason json.RawMessage `json:"finish_reason"`
}

// chatReply is the message of a choice.
type chatReply struct {
	Content json.RawMessage `json:"content"`
}

// ChatUsage represents token usage.
type ChatUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// APIErr decodes the error object, or returns nil when there is none or it
// is not an object.
func (r *ChatResponse) APIErr() *APIError {
	if isNull(r.Error) {
		return nil
	}
	var apiErr APIError
	if err := json.Unmarshal(r.Error, &apiErr); err != nil {
		return nil
	}
	return &apiErr
}

// TokenUsage decodes usage. Counts sent as strings or floats are accepted;
// anything else counts as zero.
func (r *ChatResponse) TokenUsage() ChatUsage {
	var fields map[string]json.RawMessage
	if isNull(r.Usage) || json.Unmarshal(r.Usage, &fields) != nil {
		return ChatUsage{}
	}
	return ChatUsage{
		PromptTokens:     tokenCount(fields["prompt_tokens"]),
		CompletionTokens: tokenCount(fields["completion_tokens"]),
		TotalTokens:      tokenCount(fields["total_tokens"]),
	}
}

func tokenCount(raw json.RawMessage) int {
	var n json.Number
	if isNull(raw) || json.Unmarshal(raw, &n) != nil {
		return 0
	}
	if i, err := n.Int64(); err == nil {
		return int(i)
	}
	if f, err := n.Float64(); err == nil {
		return int(f)
	}
	return 0
}

// stringField decodes raw as a string, or returns "" for any other type.
func stringField(raw json.RawMessage) string {
	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// APIError is the error object OpenRouter returns on failure.
// Message is kept raw because upstreams are not consistent about its type.
type APIError struct {
	Message json.RawMessage `json:"message,omitempty"`
	Code    interface{}     `json:"code,omitempty"`
}

// Detail returns the human-readable error message, or UnknownAPIError
// when the upstream sent none.
func (e *APIError) Detail() string {
	if e == nil || len(e.Message) == 0 {
		return providers.UnknownAPIError
	}

	var s string
	if err := json.Unmarshal(e.Message, &s); err == nil {
		if s == "" {
			return providers.UnknownAPIError
		}
		return s
	}

	raw := strings.TrimSpace(string(e.Message))
	if raw == "null" {
		return providers.UnknownAPIError
	}
	return raw
}

// transformRequest transforms a provider-agnostic request to OpenRouter format.
func transformRequest(req *providers.CompletionRequest) *ChatRequest {
	out := &ChatRequest{
		Model:    req.Model,
		Messages: make([]ChatMessage, len(req.Messages)),
		Title:    req.Title,
	}

	for i, msg := range req.Messages {
		out.Messages[i] = ChatMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	return out
}

// transformResponse reads choices[0].message.content from a successful
// body. Only that path must be well formed; a null or absent content is
// the empty reply.
func transformResponse(name string, resp *ChatResponse) (*providers.CompletionResponse, error) {
	shape := func(field string) error {
		return &providers.ResponseShapeError{Provider: name, Field: field}
	}

	var choices []json.RawMessage
	if isNull(resp.Choices) {
		return nil, shape("choices[0]")
	}
	if err := json.Unmarshal(resp.Choices, &choices); err != nil {
		return nil, shape("choices")
	}
	if len(choices) == 0 || isNull(choices[0]) {
		return nil, shape("choices[0]")
	}

	var choice chatChoice
	if err := json.Unmarshal(choices[0], &choice); err != nil {
		return nil, shape("choices[0]")
	}
	if isNull(choice.Message) {
		return nil, shape("choices[0].message")
	}

	var reply chatReply
	if err := json.Unmarshal(choice.Message, &reply); err != nil {
		return nil, shape("choices[0].message")
	}

	var content string
	if !isNull(reply.Content) {
		if err := json.Unmarshal(reply.Content, &content); err != nil {
			return nil, shape("choices[0].message.content")
		}
	}

	usage := resp.TokenUsage()
	return &providers.CompletionResponse{
		ID:           stringField(resp.ID),
		Model:        stringField(resp.Model),
		Content:      content,
		FinishReason: normalizeFinishReason(stringField(choice.FinishReason)),
		Usage: providers.TokenUsage{
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalTokens:      usage.TotalTokens,
		},
	}, nil
}

// normalizeFinishReason maps OpenRouter finish reasons to provider-agnostic values.
func normalizeFinishReason(reason string) string {
	switch reason {
	case "stop", "end_turn", "eos":
		return providers.FinishReasonStop
	case "length", "max_tokens":
		return providers.FinishReasonLength
	case "content_filter":
		return providers.FinishReasonContentFilter
	default:
		return reason
	}
}
