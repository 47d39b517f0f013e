package providers

import "context"

// Provider is the interface upstream chat-completion adapters implement.
//
// A provider performs exactly one HTTP exchange per SendCompletion call. It
// never retries: every failure is surfaced to the caller once, classified
// with the error types in errors.go.
//
// Example usage:
//
//	provider, err := openrouter.NewProvider(config)
//	if err != nil {
//	    return err
//	}
//
//	req := &CompletionRequest{
//	    Model: "mistralai/mistral-7b-instruct-v0.2",
//	    Messages: []Message{
//	        {Role: RoleUser, Content: "Hello!"},
//	    },
//	}
//
//	resp, err := provider.SendCompletion(ctx, req)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(resp.Content)
type Provider interface {
	// SendCompletion sends a completion request and returns the normalized
	// response. A non-2xx reply is returned as *ProviderError, an unparsable
	// body as *ParseError, a 2xx body without choices as *ResponseShapeError
	// and a network failure as *TransportError.
	SendCompletion(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// GetName returns the provider's configured name (e.g., "openrouter").
	GetName() string

	// GetConfig returns the provider's configuration.
	GetConfig() ProviderConfig

	// Stats returns request counters since the provider was created.
	Stats() RequestStats

	// Close releases idle connections. The provider must not be used afterwards.
	Close() error
}
