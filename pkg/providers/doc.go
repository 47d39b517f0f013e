// Package providers defines the upstream chat-completion abstraction used by
// the relay.
//
// # Overview
//
// A Provider sends one CompletionRequest to an upstream chat-completion API
// and returns a normalized CompletionResponse. Failures are classified so the
// caller can map them onto its own HTTP contract:
//
//   - *ProviderError: the upstream answered with a non-2xx status; Message
//     carries the upstream's error.message or UnknownAPIError.
//   - *ParseError: the upstream body was not JSON (any status).
//   - *ResponseShapeError: a 2xx body lacked the fields a reply needs.
//   - *TransportError: the exchange itself failed (DNS, connect, reset).
//
// # Base HTTP Provider
//
// HTTPProvider holds the pooled http.Client and request counters. Adapters
// embed it and call DoRequest, which performs exactly one attempt. There is
// no retry and no backoff: the relay surfaces every fault once.
//
// # Basic Usage
//
//	provider, err := openrouter.NewProvider(providers.ProviderConfig{
//	    Name:    "openrouter",
//	    Type:    "openrouter",
//	    BaseURL: "https://openrouter.ai/api/v1",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	resp, err := provider.SendCompletion(ctx, &providers.CompletionRequest{
//	    Model:    "mistralai/mistral-7b-instruct-v0.2",
//	    Messages: []providers.Message{{Role: providers.RoleUser, Content: "Hello!"}},
//	    APIKey:   key,
//	})
package providers
