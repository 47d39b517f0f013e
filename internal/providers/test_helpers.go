package providers

import (
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"chatrelay/pkg/providers"
)

// TestConfig returns a test provider configuration.
func TestConfig(name, providerType string) providers.ProviderConfig {
	return providers.ProviderConfig{
		Name:                name,
		Type:                providerType,
		BaseURL:             "http://localhost:8080",
		APIKey:              "test-key",
		Timeout:             5 * time.Second,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     30 * time.Second,
	}
}

// TestConfigWithURL returns a test config with a specific base URL.
func TestConfigWithURL(name, providerType, baseURL string) providers.ProviderConfig {
	config := TestConfig(name, providerType)
	config.BaseURL = baseURL
	return config
}

// TestMessage creates a test message.
func TestMessage(role, content string) providers.Message {
	return providers.Message{
		Role:    role,
		Content: content,
	}
}

// TestCompletionRequest creates a test completion request.
func TestCompletionRequest(model string, messages ...providers.Message) *providers.CompletionRequest {
	return &providers.CompletionRequest{
		Model:    model,
		Messages: messages,
	}
}

// FailingTransport is an http.RoundTripper that always fails to connect.
type FailingTransport struct {
	Err error
}

// RoundTrip implements http.RoundTripper.
func (f FailingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
}

// FailingClient returns an http.Client whose every request fails on connect.
func FailingClient() *http.Client {
	return &http.Client{Transport: FailingTransport{}}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertErrorType fails the test if err is not of the expected type.
func AssertErrorType(t *testing.T, err error, expectedType interface{}) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	switch expectedType.(type) {
	case *providers.ProviderError:
		var target *providers.ProviderError
		if !errors.As(err, &target) {
			t.Fatalf("expected ProviderError, got %T: %v", err, err)
		}
	case *providers.ParseError:
		var target *providers.ParseError
		if !errors.As(err, &target) {
			t.Fatalf("expected ParseError, got %T: %v", err, err)
		}
	case *providers.ResponseShapeError:
		var target *providers.ResponseShapeError
		if !errors.As(err, &target) {
			t.Fatalf("expected ResponseShapeError, got %T: %v", err, err)
		}
	case *providers.TransportError:
		var target *providers.TransportError
		if !errors.As(err, &target) {
			t.Fatalf("expected TransportError, got %T: %v", err, err)
		}
	default:
		t.Fatalf("unknown error type: %T", expectedType)
	}
}

// AssertEqual fails the test if got != expected.
func AssertEqual(t *testing.T, got, expected interface{}) {
	t.Helper()
	if got != expected {
		t.Fatalf("expected %v, got %v", expected, got)
	}
}
