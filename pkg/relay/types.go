package relay

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Request is a normalized inbound function event.
type Request struct {
	// HTTPMethod is the request method, compared case-sensitively against "POST".
	HTTPMethod string `json:"httpMethod"`

	// Body is the raw request body.
	Body string `json:"body"`

	// IsBase64Encoded marks Body as base64 encoded.
	IsBase64Encoded bool `json:"isBase64Encoded,omitempty"`

	// Headers are informational only; the relay never reads them.
	Headers map[string]string `json:"headers,omitempty"`
}

// Response is the relay's reply.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body"`
}

// String renders the response like a raw HTTP reply: status line,
// headers sorted by name, a blank line, then the body.
func (r Response) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "HTTP %d %s\n", r.StatusCode, http.StatusText(r.StatusCode))

	names := make([]string, 0, len(r.Headers))
	for name := range r.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "%s: %s\n", name, r.Headers[name])
	}

	sb.WriteString("\n")
	sb.WriteString(r.Body)
	return sb.String()
}

// MessageBody is the JSON shape of every response body.
type MessageBody struct {
	Message string `json:"message"`
}

// Message decodes the response body's message. It returns "" when the body
// is not a MessageBody.
func (r Response) Message() string {
	var body MessageBody
	if err := json.Unmarshal([]byte(r.Body), &body); err != nil {
		return ""
	}
	return body.Message
}

var (
	errInvalidJSON   = errors.New("request body is not valid JSON")
	errMissingPrompt = errors.New("request body has no prompt")
)

// rawBody returns the request body bytes, decoding base64 when flagged.
func (r Request) rawBody() ([]byte, error) {
	if !r.IsBase64Encoded {
		return []byte(r.Body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(r.Body)
	if err != nil {
		return nil, errInvalidJSON
	}
	return decoded, nil
}

// parsePrompt extracts the prompt from a request body. The body must be
// valid JSON; the prompt must be a non-empty string field of a JSON object.
func parsePrompt(body []byte) (string, error) {
	if !json.Valid(body) {
		return "", errInvalidJSON
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		// Valid JSON that is not an object (array, string, number).
		return "", errMissingPrompt
	}

	raw, ok := payload["prompt"]
	if !ok {
		return "", errMissingPrompt
	}

	var prompt string
	if err := json.Unmarshal(raw, &prompt); err != nil || prompt == "" {
		return "", errMissingPrompt
	}

	return prompt, nil
}

// newResponse builds a response with a {"message": msg} body. HTML
// characters are not escaped so the body matches what a JavaScript
// JSON.stringify would produce.
func newResponse(status int, msg string, headers map[string]string) Response {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a struct with one string field cannot fail.
	_ = enc.Encode(MessageBody{Message: msg})

	return Response{
		StatusCode: status,
		Headers:    headers,
		Body:       string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))),
	}
}
