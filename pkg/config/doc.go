// Package config provides configuration management for chatrelay.
//
// Configuration is read from a YAML file, completed with defaults and then
// overridden by environment variables:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("chatrelay.yaml")
//
// LoadOrDefault accepts an empty or missing path and falls back to the
// defaults, which reproduce the hosted function exactly.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention CHATRELAY_SECTION_FIELD:
//
//   - CHATRELAY_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - CHATRELAY_UPSTREAM_BASE_URL overrides upstream.base_url
//   - CHATRELAY_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// The upstream credential itself is never part of the configuration. Only
// the name of the variable holding it (relay.credential_env) is, and the
// relay reads that variable on every invocation.
//
// # Configuration Precedence
//
//  1. Default values (defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Hot Reload
//
// Watcher observes the configuration file with fsnotify and hands every
// successfully re-loaded Config to a callback. The serve command uses it to
// change the log level of a running process.
package config
