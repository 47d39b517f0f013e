// Package server hosts the relay function over HTTP, standing in for the
// serverless platform the function was written for.
//
// # Routes
//
//   - POST <server.function_path> (default /.netlify/functions/chatbot): the relay
//   - GET /health: liveness
//   - GET /health/ready: readiness (credential resolvable)
//   - GET /health/upstream: upstream request counters
//   - GET /version: build information
//   - GET <telemetry.metrics.path>: Prometheus metrics, when enabled
//
// # Middleware Chain
//
// Outermost first: recovery, request ID, access logging, tracing.
//
// # TLS
//
// With server.tls.enabled the listener serves HTTPS. The certificate is
// loaded at start and reloaded when the files change:
//
//	server:
//	  tls:
//	    enabled: true
//	    cert_file: /etc/chatrelay/tls/cert.pem
//	    key_file: /etc/chatrelay/tls/key.pem
//	    min_version: "1.3"
//	    cert_reload_interval: 5m
//
// # Usage
//
//	srv := server.New(cfg, server.Deps{Relay: handler, Logger: logger, Metrics: collector})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until ctx is cancelled, then shuts down gracefully within
// server.shutdown_timeout. Callers own signal handling; the serve command
// passes a context from cli.SetupSignalHandler.
package server
