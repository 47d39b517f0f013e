package providers

import (
	"fmt"
)

// UnknownAPIError is the detail used when an upstream error body carries no
// error.message.
const UnknownAPIError = "Unknown API error"

// ProviderError represents a non-2xx reply from the upstream.
// Message holds the upstream's error.message, or UnknownAPIError.
type ProviderError struct {
	// Provider is the name of the provider that returned the error
	Provider string

	// StatusCode is the upstream HTTP status code
	StatusCode int

	// Message is the human-readable detail reported by the upstream
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %q error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ParseError represents a response body that is not valid JSON.
// The upstream body is parsed before its status is inspected, so this
// error can occur for any status code.
type ParseError struct {
	// Provider is the name of the provider that returned the malformed response
	Provider string

	// StatusCode is the upstream HTTP status code
	StatusCode int

	// RawResponse is the raw response body that failed to parse
	RawResponse string

	// Cause is the underlying parse error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %q response parse error: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ResponseShapeError represents a successful reply whose body lacks the
// expected fields (for example an empty choices array).
type ResponseShapeError struct {
	// Provider is the name of the provider
	Provider string

	// Field is the missing or malformed field path
	Field string
}

// Error implements the error interface.
func (e *ResponseShapeError) Error() string {
	return fmt.Sprintf("provider %q response is missing %s", e.Provider, e.Field)
}

// TransportError represents a failure to complete the HTTP exchange
// (DNS, connect, TLS, reset, context cancellation).
type TransportError struct {
	// Provider is the name of the provider
	Provider string

	// Cause is the underlying network error
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("provider %q request failed: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ConfigError represents a provider configuration error.
type ConfigError struct {
	// Provider is the name of the provider with invalid configuration
	Provider string

	// Field is the configuration field that is invalid
	Field string

	// Message describes the configuration error
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q configuration error for field %q: %s",
		e.Provider, e.Field, e.Message)
}
