package relay

import (
	"errors"
	"io"
	"net/http"
)

// ServeHTTP adapts an HTTP request to Handle. Bodies over
// Options.MaxBodyBytes are treated as invalid JSON.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := Request{
		HTTPMethod: r.Method,
		Headers:    flattenHeaders(r.Header),
	}

	if r.Body != nil {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes))
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			h.logger.DebugContext(r.Context(), "request body exceeds limit", "limit", tooLarge.Limit)
			// An empty body fails the JSON check after the credential check.
			body = nil
		case err != nil:
			h.logger.DebugContext(r.Context(), "failed to read request body", "error", err)
			body = nil
		}
		req.Body = string(body)
	}

	resp := h.Handle(r.Context(), req)
	WriteResponse(w, resp)
}

// WriteResponse writes resp to w as a JSON response.
func WriteResponse(w http.ResponseWriter, resp Response) {
	header := w.Header()
	for k, v := range resp.Headers {
		header.Set(k, v)
	}
	header.Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_, _ = io.WriteString(w, resp.Body)
}

// flattenHeaders keeps the first value of each header, the shape function
// platforms hand to handlers.
func flattenHeaders(h http.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
