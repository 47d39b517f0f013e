package main

import (
	"fmt"

	"chatrelay/pkg/config"
	"chatrelay/pkg/providers"
	"chatrelay/pkg/providers/openrouter"
	"chatrelay/pkg/security/secrets"
)

// newSecretSource returns the credential lookup chain: the environment,
// then relay.secrets_dir when configured. extra providers are consulted
// first.
func newSecretSource(cfg *config.Config, extra ...secrets.Provider) (*secrets.Chain, error) {
	chain := append([]secrets.Provider{}, extra...)
	chain = append(chain, secrets.NewEnvProvider(""))

	if cfg.Relay.SecretsDir != "" {
		fp, err := secrets.NewFileProvider(cfg.Relay.SecretsDir)
		if err != nil {
			return nil, fmt.Errorf("relay.secrets_dir: %w", err)
		}
		chain = append(chain, fp)
	}

	return secrets.NewChain(chain...), nil
}

// newUpstream creates the OpenRouter provider from the upstream section.
// The API key is left empty: the relay passes it per request.
func newUpstream(cfg *config.Config) (*openrouter.Provider, error) {
	return openrouter.NewProvider(providers.ProviderConfig{
		Name:                "openrouter",
		Type:                "openrouter",
		BaseURL:             cfg.Upstream.BaseURL,
		Timeout:             cfg.Upstream.Timeout,
		MaxIdleConns:        cfg.Upstream.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Upstream.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.Upstream.IdleConnTimeout,
		Referer:             cfg.Upstream.Referer,
		TitleHeader:         cfg.Upstream.TitleHeader,
	})
}
