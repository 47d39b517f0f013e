package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"listen address without port", func(c *Config) { c.Server.ListenAddress = "localhost" }, "server.listen_address"},
		{"relative function path", func(c *Config) { c.Server.FunctionPath = "chatbot" }, "server.function_path"},
		{"function path under health", func(c *Config) { c.Server.FunctionPath = "/health/chat" }, "server.function_path"},
		{"zero shutdown timeout", func(c *Config) { c.Server.ShutdownTimeout = 0 }, "server.shutdown_timeout"},
		{"tls without cert", func(c *Config) { c.Server.TLS.Enabled = true; c.Server.TLS.KeyFile = "k.pem" }, "server.tls.cert_file"},
		{"tls without key", func(c *Config) { c.Server.TLS.Enabled = true; c.Server.TLS.CertFile = "c.pem" }, "server.tls.key_file"},
		{"tls 1.1", func(c *Config) { c.Server.TLS.MinVersion = "1.1" }, "server.tls.min_version"},
		{"zero body limit", func(c *Config) { c.Server.MaxBodyBytes = 0 }, "server.max_body_bytes"},
		{"empty model", func(c *Config) { c.Relay.Model = " " }, "relay.model"},
		{"empty credential env", func(c *Config) { c.Relay.CredentialEnv = "" }, "relay.credential_env"},
		{"credential env with equals", func(c *Config) { c.Relay.CredentialEnv = "A=B" }, "relay.credential_env"},
		{"ftp base url", func(c *Config) { c.Upstream.BaseURL = "ftp://example.com" }, "upstream.base_url"},
		{"negative upstream timeout", func(c *Config) { c.Upstream.Timeout = -1 }, "upstream.timeout"},
		{"bad log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
		{"metrics path collision", func(c *Config) { c.Telemetry.Metrics.Path = c.Server.FunctionPath }, "telemetry.metrics.path"},
		{"tracing without endpoint", func(c *Config) { c.Telemetry.Tracing.Enabled = true }, "telemetry.tracing.endpoint"},
		{"bad sampler", func(c *Config) { c.Telemetry.Tracing.Sampler = "sometimes" }, "telemetry.tracing.sampler"},
		{"ratio out of range", func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 }, "telemetry.tracing.sample_ratio"},
		{"empty redact pattern", func(c *Config) {
			c.Telemetry.Logging.RedactPatterns = []RedactPattern{{Name: "x"}}
		}, "telemetry.logging.redact_patterns[0].pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error for field %q, got %v", tt.wantField, verr)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Relay.Model = ""
	cfg.Upstream.BaseURL = ""

	err := Validate(cfg)
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(verr.Errors), verr)
	}
	if !strings.Contains(err.Error(), "with 2 errors") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
