package secrets

import (
	"context"
	"os"
)

// EnvProvider loads secrets from environment variables.
//
// The variable name is Prefix followed by the secret name, verbatim. Names
// are case-sensitive, so "AIunclesamAPIkey" is read from exactly that
// variable.
type EnvProvider struct {
	Prefix string // Optional prefix for environment variables
}

// NewEnvProvider creates a new environment variable secret provider.
func NewEnvProvider(prefix string) *EnvProvider {
	return &EnvProvider{
		Prefix: prefix,
	}
}

// GetSecret reads the environment variable for name. An unset or empty
// variable is not found.
func (p *EnvProvider) GetSecret(ctx context.Context, name string) (string, error) {
	value := os.Getenv(p.Prefix + name)
	if value == "" {
		return "", &NotFoundError{Provider: p.Provider(), Name: p.Prefix + name}
	}

	return value, nil
}

// Provider returns the provider name.
func (p *EnvProvider) Provider() string {
	return "env"
}
