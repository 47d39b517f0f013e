package secrets

import (
	"context"
	"sync"
)

// StaticProvider serves secrets from an in-memory map. It backs the
// invoke command's --api-key flag and tests.
type StaticProvider struct {
	mu      sync.RWMutex
	secrets map[string]string
}

// NewStaticProvider creates a provider holding a copy of values.
func NewStaticProvider(values map[string]string) *StaticProvider {
	p := &StaticProvider{secrets: make(map[string]string, len(values))}
	for k, v := range values {
		p.secrets[k] = v
	}
	return p
}

// GetSecret returns the stored value. Missing and empty values are not found.
func (p *StaticProvider) GetSecret(ctx context.Context, name string) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	value := p.secrets[name]
	if value == "" {
		return "", &NotFoundError{Provider: p.Provider(), Name: name}
	}
	return value, nil
}

// Set stores or replaces a value. An empty value removes the secret.
func (p *StaticProvider) Set(name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if value == "" {
		delete(p.secrets, name)
		return
	}
	p.secrets[name] = value
}

// Provider returns the provider name.
func (p *StaticProvider) Provider() string {
	return "static"
}
