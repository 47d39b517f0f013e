package config

import "time"

// Config is the root configuration structure for chatrelay.
type Config struct {
	// Server contains the HTTP listener settings and the path the relay
	// function is mounted at.
	Server ServerConfig `yaml:"server"`

	// Relay contains the fixed parameters of every upstream request.
	Relay RelayConfig `yaml:"relay"`

	// Upstream contains the OpenRouter connection settings.
	Upstream UpstreamConfig `yaml:"upstream"`

	// Telemetry contains logging, metrics and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Watch reloads the configuration file on change when true.
	// Only telemetry.logging.level is applied without a restart.
	Watch bool `yaml:"watch"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// ListenAddress is the address to bind (host:port).
	// Default: "127.0.0.1:8888"
	ListenAddress string `yaml:"listen_address"`

	// FunctionPath is the URL path the relay handler is mounted at.
	// Default: "/.netlify/functions/chatbot"
	FunctionPath string `yaml:"function_path"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Zero means no timeout, so a slow upstream is never cut off.
	// Default: 0
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes limits the inbound request body. Larger bodies are
	// treated as invalid JSON.
	// Default: 1048576 (1 MiB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// TLS enables HTTPS on the listener.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig contains listener TLS settings. Certificates are re-read from
// disk when their modification time changes.
type TLSConfig struct {
	// Enabled serves HTTPS instead of plain HTTP.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the path to the PEM-encoded certificate chain.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded private key.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the minimum TLS version to accept ("1.2" or "1.3").
	// Default: "1.3"
	MinVersion string `yaml:"min_version"`

	// CipherSuites restricts the TLS 1.2 cipher suites. Empty uses Go's defaults.
	CipherSuites []string `yaml:"cipher_suites"`

	// ReloadInterval is how often the certificate files are checked for changes.
	// Default: 5m
	ReloadInterval time.Duration `yaml:"cert_reload_interval"`
}

// RelayConfig contains the relay's fixed request parameters.
type RelayConfig struct {
	// Model is the upstream model identifier.
	Model string `yaml:"model"`

	// SystemPrompt is sent as the first message of every request.
	SystemPrompt string `yaml:"system_prompt"`

	// AppTitle identifies the application to the upstream.
	AppTitle string `yaml:"app_title"`

	// CredentialEnv is the environment variable holding the upstream
	// API key. It is read on every invocation.
	CredentialEnv string `yaml:"credential_env"`

	// SecretsDir optionally names a directory of secret files consulted
	// after the environment, one file per secret named CredentialEnv.
	SecretsDir string `yaml:"secrets_dir"`
}

// UpstreamConfig contains OpenRouter connection settings.
type UpstreamConfig struct {
	// BaseURL is the API root; "/chat/completions" is appended.
	// Default: "https://openrouter.ai/api/v1"
	BaseURL string `yaml:"base_url"`

	// Timeout bounds one upstream exchange. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout"`

	// Referer is sent as HTTP-Referer when set.
	Referer string `yaml:"referer"`

	// TitleHeader also sends relay.app_title as an X-Title header.
	TitleHeader bool `yaml:"title_header"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the maximum idle connections per host.
	// Default: 10
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long an idle connection is kept.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	AddSource bool `yaml:"add_source"`

	// RedactPII enables redaction of credentials and PII in logs.
	// Default: true
	RedactPII bool `yaml:"redact_pii"`

	// RedactPatterns contains custom redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "chatrelay"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "relay"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for upstream latency (seconds).
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "chatrelay"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
