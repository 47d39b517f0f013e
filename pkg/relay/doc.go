// Package relay implements the chatbot function: it validates a caller's
// prompt, forwards it to the upstream chat-completion API with a
// server-held credential and maps the outcome to a {"message": ...} JSON
// response.
//
// # Invocation Order
//
// Every invocation runs the same straight-line sequence and returns at the
// first failing check:
//
//  1. Method: anything but POST is 405.
//  2. Credential: a missing or empty key is 500, whatever the body holds.
//  3. Body: unparsable JSON is 400.
//  4. Prompt: a missing, empty or non-string prompt is 400.
//  5. Upstream: exactly one chat-completion request, no retry.
//  6. A non-2xx upstream reply keeps its status: "External API Error: <details>".
//  7. Success is 200 with Access-Control-Allow-Origin: * and the first choice's content.
//  8. Anything else (network failure, unparsable or malformed upstream body,
//     a panic) is 500: "Internal server error: <description>".
//
// # Usage
//
//	handler := relay.NewHandler(relay.Options{}, provider, secrets.NewEnvProvider(""), logger, collector, tracer)
//	resp := handler.Handle(ctx, relay.Request{HTTPMethod: "POST", Body: `{"prompt":"Hi"}`})
//
// Handler also implements http.Handler for mounting on a server.
//
// The handler holds no per-invocation state. The credential is resolved
// on every call, so identical inputs against identical upstream behavior
// always produce identical responses.
package relay
