package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Chain tries providers in order and returns the first value found.
//
// A provider reporting ErrNotFound is skipped; any other error stops the
// lookup, so a misconfigured backend is not silently masked by a later
// one. Nothing is cached.
type Chain struct {
	providers []Provider
}

// NewChain creates a chain over providers, tried in the given order.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// GetSecret returns the first value any provider has for name.
func (c *Chain) GetSecret(ctx context.Context, name string) (string, error) {
	for _, provider := range c.providers {
		value, err := provider.GetSecret(ctx, name)
		if err == nil {
			slog.DebugContext(ctx, "secret resolved", "provider", provider.Provider())
			return value, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%s provider: %w", provider.Provider(), err)
		}
	}

	return "", &NotFoundError{Provider: c.Provider(), Name: name}
}

// Provider returns the provider name.
func (c *Chain) Provider() string {
	return "chain"
}
