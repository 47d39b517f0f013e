package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// HTTPProvider is the base implementation for HTTP-based provider adapters.
// It owns the pooled HTTP client and the request counters.
//
// Concrete adapters embed this struct and add SendCompletion.
type HTTPProvider struct {
	// config contains the provider configuration
	config ProviderConfig

	// client is the HTTP client with connection pooling
	client *http.Client

	// stats counts upstream exchanges
	stats   RequestStats
	statsMu sync.RWMutex
}

// RawResponse is one completed upstream exchange.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status code is in the 2xx range.
func (r *RawResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// NewHTTPProvider creates a new base HTTP provider with connection pooling.
func NewHTTPProvider(config ProviderConfig) *HTTPProvider {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &HTTPProvider{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
	}
}

// NewHTTPProviderWithClient creates a base provider around an existing client.
// Tests use it to inject failing transports.
func NewHTTPProviderWithClient(config ProviderConfig, client *http.Client) *HTTPProvider {
	return &HTTPProvider{config: config, client: client}
}

// GetName returns the provider's configured name.
func (p *HTTPProvider) GetName() string {
	return p.config.Name
}

// GetType returns the provider's type.
func (p *HTTPProvider) GetType() string {
	return p.config.Type
}

// GetConfig returns the provider's configuration.
func (p *HTTPProvider) GetConfig() ProviderConfig {
	return p.config
}

// Stats returns a snapshot of the request counters.
func (p *HTTPProvider) Stats() RequestStats {
	p.statsMu.RLock()
	defer p.statsMu.RUnlock()
	return p.stats
}

// recordRequest records the outcome of one exchange.
func (p *HTTPProvider) recordRequest(err error) {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()

	p.stats.TotalRequests++
	p.stats.LastRequest = time.Now()
	if err != nil {
		p.stats.FailedRequests++
		p.stats.LastError = err.Error()
	}
}

// DoRequest performs exactly one HTTP exchange and reads the whole body.
// Any status code is returned as a RawResponse; only failures to complete
// the exchange are returned as errors (*TransportError).
func (p *HTTPProvider) DoRequest(ctx context.Context, method, url string, body []byte, headers map[string]string) (*RawResponse, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.DebugContext(ctx, "sending request to provider",
		"provider", p.config.Name,
		"method", method,
		"url", url,
	)

	resp, err := p.client.Do(req)
	if err != nil {
		terr := &TransportError{Provider: p.config.Name, Cause: err}
		p.recordRequest(terr)
		return nil, terr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		terr := &TransportError{
			Provider: p.config.Name,
			Cause:    fmt.Errorf("failed to read response: %w", err),
		}
		p.recordRequest(terr)
		return nil, terr
	}

	raw := &RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}
	if raw.OK() {
		p.recordRequest(nil)
	} else {
		p.recordRequest(fmt.Errorf("status %d", resp.StatusCode))
	}
	return raw, nil
}

// DecodeJSON unmarshals an upstream body, returning *ParseError on failure.
func (p *HTTPProvider) DecodeJSON(raw *RawResponse, v interface{}) error {
	if err := json.Unmarshal(raw.Body, v); err != nil {
		return &ParseError{
			Provider:    p.config.Name,
			StatusCode:  raw.StatusCode,
			RawResponse: string(raw.Body),
			Cause:       fmt.Errorf("failed to unmarshal response: %w", err),
		}
	}
	return nil
}

// Close closes idle connections held by the client.
func (p *HTTPProvider) Close() error {
	p.client.CloseIdleConnections()
	slog.Debug("provider closed", "provider", p.config.Name)
	return nil
}
