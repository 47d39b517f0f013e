package config

import (
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"listen address", cfg.Server.ListenAddress, "127.0.0.1:8888"},
		{"function path", cfg.Server.FunctionPath, "/.netlify/functions/chatbot"},
		{"write timeout", cfg.Server.WriteTimeout, time.Duration(0)},
		{"max body", cfg.Server.MaxBodyBytes, int64(1 << 20)},
		{"model", cfg.Relay.Model, "mistralai/mistral-7b-instruct-v0.2"},
		{"app title", cfg.Relay.AppTitle, "Netlify Chat Demo App"},
		{"credential env", cfg.Relay.CredentialEnv, "AIunclesamAPIkey"},
		{"base url", cfg.Upstream.BaseURL, "https://openrouter.ai/api/v1"},
		{"upstream timeout", cfg.Upstream.Timeout, time.Duration(0)},
		{"log level", cfg.Telemetry.Logging.Level, "info"},
		{"metrics enabled", cfg.Telemetry.Metrics.Enabled, true},
		{"metrics namespace", cfg.Telemetry.Metrics.Namespace, "chatrelay"},
		{"tracing enabled", cfg.Telemetry.Tracing.Enabled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{ListenAddress: ":1234"},
		Relay:  RelayConfig{Model: "custom"},
	}
	ApplyDefaults(cfg)

	if cfg.Server.ListenAddress != ":1234" {
		t.Errorf("listen address overwritten: %q", cfg.Server.ListenAddress)
	}
	if cfg.Relay.Model != "custom" {
		t.Errorf("model overwritten: %q", cfg.Relay.Model)
	}
	if cfg.Relay.SystemPrompt != DefaultSystemPrompt {
		t.Errorf("system prompt not defaulted: %q", cfg.Relay.SystemPrompt)
	}
}

func TestApplyDefaults_BucketsNotShared(t *testing.T) {
	a := Default()
	a.Telemetry.Metrics.DurationBuckets[0] = 99

	if DefaultDurationBuckets[0] == 99 {
		t.Fatal("defaults slice was mutated through a config")
	}
}
