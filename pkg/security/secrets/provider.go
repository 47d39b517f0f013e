// Package secrets resolves the upstream credential at invocation time.
package secrets

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is matched by errors.Is for every "secret absent" failure.
var ErrNotFound = errors.New("secret not found")

// Provider retrieves secrets from a backend.
//
// Implementations must read the backend on every call: the relay relies on
// a credential change taking effect on the next invocation.
type Provider interface {
	// GetSecret retrieves a secret by name. An absent or empty secret is
	// reported as an error wrapping ErrNotFound.
	GetSecret(ctx context.Context, name string) (string, error)

	// Provider returns the provider name (env, file, static, chain).
	Provider() string
}

// NotFoundError reports that a provider has no value for a secret.
type NotFoundError struct {
	Provider string
	Name     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s provider has no value for %q", ErrNotFound, e.Provider, e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
