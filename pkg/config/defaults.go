package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8888"
	DefaultFunctionPath    = "/.netlify/functions/chatbot"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = time.Duration(0)
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxBodyBytes    = int64(1 << 20)
	DefaultTLSMinVersion   = "1.3"
	DefaultTLSReload       = 5 * time.Minute

	// Relay defaults
	DefaultModel         = "mistralai/mistral-7b-instruct-v0.2"
	DefaultSystemPrompt  = "You are a friendly, concise, and helpful Netlify chat bot powered by OpenRouter. Respond briefly."
	DefaultAppTitle      = "Netlify Chat Demo App"
	DefaultCredentialEnv = "AIunclesamAPIkey"

	// Upstream defaults
	DefaultUpstreamBaseURL     = "https://openrouter.ai/api/v1"
	DefaultUpstreamTimeout     = time.Duration(0)
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultRedactPII        = true
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "chatrelay"
	DefaultMetricsSubsystem = "relay"
	DefaultTracingEnabled   = false
	DefaultTracingSampler   = "ratio"
	DefaultTracingRatio     = 0.1
	DefaultTracingService   = "chatrelay"
	DefaultOTLPTimeout      = 10 * time.Second
)

// DefaultDurationBuckets are the upstream latency histogram buckets (seconds).
var DefaultDurationBuckets = []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60}

// Default returns a configuration with every field set to its default.
// Boolean fields whose default is true are only settable here, since
// ApplyDefaults cannot tell an explicit false from an absent key.
func Default() *Config {
	cfg := &Config{
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{RedactPII: DefaultRedactPII},
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
			Tracing: TracingConfig{Enabled: DefaultTracingEnabled},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-valued field with its default.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.FunctionPath == "" {
		cfg.Server.FunctionPath = DefaultFunctionPath
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Server.TLS.MinVersion == "" {
		cfg.Server.TLS.MinVersion = DefaultTLSMinVersion
	}
	if cfg.Server.TLS.ReloadInterval == 0 {
		cfg.Server.TLS.ReloadInterval = DefaultTLSReload
	}

	// Relay defaults
	if cfg.Relay.Model == "" {
		cfg.Relay.Model = DefaultModel
	}
	if cfg.Relay.SystemPrompt == "" {
		cfg.Relay.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.Relay.AppTitle == "" {
		cfg.Relay.AppTitle = DefaultAppTitle
	}
	if cfg.Relay.CredentialEnv == "" {
		cfg.Relay.CredentialEnv = DefaultCredentialEnv
	}

	// Upstream defaults
	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = DefaultUpstreamBaseURL
	}
	if cfg.Upstream.MaxIdleConns == 0 {
		cfg.Upstream.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.Upstream.MaxIdleConnsPerHost == 0 {
		cfg.Upstream.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if cfg.Upstream.IdleConnTimeout == 0 {
		cfg.Upstream.IdleConnTimeout = DefaultIdleConnTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingRatio
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Telemetry.Tracing.OTLP.Timeout == 0 {
		cfg.Telemetry.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}
}
