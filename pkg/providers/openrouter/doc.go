// Package openrouter implements the OpenRouter chat-completion adapter.
//
// It sends a single non-streaming POST to {base_url}/chat/completions with a
// bearer credential and maps the reply to the providers error taxonomy:
//
//   - 2xx with choices[0]          -> *providers.CompletionResponse
//   - 2xx without choices          -> *providers.ResponseShapeError
//   - non-2xx                      -> *providers.ProviderError (error.message
//     or "Unknown API error")
//   - body that is not JSON        -> *providers.ParseError
//   - connection failure           -> *providers.TransportError
//
// # Basic Usage
//
//	provider, err := openrouter.NewProvider(providers.ProviderConfig{
//	    APIKey: os.Getenv("AIunclesamAPIkey"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	resp, err := provider.SendCompletion(ctx, &providers.CompletionRequest{
//	    Model: "mistralai/mistral-7b-instruct-v0.2",
//	    Messages: []providers.Message{
//	        {Role: providers.RoleUser, Content: "Hello!"},
//	    },
//	    Title: "Netlify Chat Demo App",
//	})
package openrouter
