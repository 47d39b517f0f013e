// Package logging provides structured logging with credential redaction.
//
// The package wraps log/slog. Every record passes through a handler that
//   - adds request_id (and trace_id/span_id when a span is active) from the context,
//   - masks values under sensitive keys such as api_key or authorization,
//   - rewrites bearer tokens and sk- keys found inside string values.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:     "info",
//	    Format:    "json",
//	    RedactPII: true,
//	})
//	slog.SetDefault(logger.Slog())
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.ErrorContext(ctx, "upstream failed", "authorization", "Bearer sk-or-abc")
//	// {"msg":"upstream failed","request_id":"req-123","authorization":"Bear***"}
//
// The level is held in a slog.LevelVar so SetLevel takes effect on every
// logger derived from the same root, which is how config reloads change
// verbosity of a running server.
package logging
