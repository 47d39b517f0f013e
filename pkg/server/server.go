package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"chatrelay/pkg/config"
	"chatrelay/pkg/providers"
	"chatrelay/pkg/relay/middleware"
	relaytls "chatrelay/pkg/security/tls"
	"chatrelay/pkg/telemetry/health"
	"chatrelay/pkg/telemetry/logging"
	"chatrelay/pkg/telemetry/metrics"
	"chatrelay/pkg/telemetry/tracing"
)

// Route paths besides the function and metrics paths.
const (
	PathHealth         = "/health"
	PathReady          = "/health/ready"
	PathUpstreamHealth = "/health/upstream"
	PathVersion        = "/version"
)

// Deps are the components the server mounts. Only Relay is required.
type Deps struct {
	// Relay serves the function path.
	Relay http.Handler

	Logger  *logging.Logger
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Health  *health.Checker

	// UpstreamStats backs /health/upstream when set.
	UpstreamStats func() providers.RequestStats

	Build health.BuildInfo
}

// Server hosts the relay function over HTTP.
type Server struct {
	config     *config.Config
	deps       Deps
	logger     *logging.Logger
	httpServer *http.Server

	mu        sync.RWMutex
	running   bool
	addr      net.Addr
	ready     chan struct{}
	stopOnce  sync.Once
	stopErr   error
	readyOnce sync.Once
}

// New creates a server for cfg.
func New(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewDiscard()
	}
	if deps.Relay == nil {
		deps.Relay = http.NotFoundHandler()
	}
	if deps.Health == nil {
		deps.Health = health.New(0)
	}
	return &Server{
		config: cfg,
		deps:   deps,
		logger: logger,
		ready:  make(chan struct{}),
	}
}

// Start listens on server.listen_address and blocks until ctx is cancelled
// or the listener fails. It then shuts down
// gracefully within server.shutdown_timeout.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server is already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var tlsConfig *tls.Config
	if s.config.Server.TLS.Enabled {
		var err error
		tlsConfig, err = s.configureTLS(ctx)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	ln, err := net.Listen("tcp", s.config.Server.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.ListenAddress, err)
	}
	if tlsConfig != nil {
		ln = tls.NewListener(ln, tlsConfig)
	}

	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
		TLSConfig:    tlsConfig,
	}
	s.running = true
	s.addr = ln.Addr()
	s.mu.Unlock()
	s.readyOnce.Do(func() { close(s.ready) })

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting relay server",
			"address", ln.Addr().String(),
			"function_path", s.config.Server.FunctionPath,
			"tls_enabled", tlsConfig != nil,
		)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
	case err := <-errCh:
		s.markStopped()
		return err
	}

	return s.Shutdown(context.Background())
}

// configureTLS loads the listener certificate and keeps it fresh until ctx
// is done.
func (s *Server) configureTLS(ctx context.Context) (*tls.Config, error) {
	cfg := s.config.Server.TLS
	reloader := relaytls.NewCertificateReloader(cfg.CertFile, cfg.KeyFile, cfg.ReloadInterval, s.logger)
	if err := reloader.Start(ctx); err != nil {
		return nil, err
	}
	return relaytls.NewServerConfig(cfg, reloader)
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Shutdown stops accepting connections and waits for in-flight requests,
// bounded by server.shutdown_timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() {
		s.mu.RLock()
		srv, running := s.httpServer, s.running
		s.mu.RUnlock()
		if !running || srv == nil {
			return
		}

		timeout := s.config.Server.ShutdownTimeout
		s.logger.Info("initiating graceful shutdown", "timeout", timeout.String())

		shutdownCtx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			s.stopErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.markStopped()
		s.logger.Info("relay server stopped")
	})

	return s.stopErr
}

func (s *Server) markStopped() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns true while the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Handler returns the routed handler wrapped in the middleware chain:
// recovery, request ID, access logging, then tracing.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle(s.config.Server.FunctionPath, s.deps.Relay)
	mux.Handle(PathHealth, s.deps.Health.LivenessHandler())
	mux.Handle(PathReady, s.deps.Health.ReadinessHandler())
	mux.Handle(PathVersion, health.VersionHandler(s.deps.Build))

	if stats := s.deps.UpstreamStats; stats != nil {
		mux.Handle(PathUpstreamHealth, health.JSONHandler(func() any { return stats() }))
	}

	if s.config.Telemetry.Metrics.Enabled && s.deps.Metrics != nil {
		mux.Handle(s.config.Telemetry.Metrics.Path, s.deps.Metrics.Handler())
	}

	var handler http.Handler = mux
	handler = tracing.HTTPMiddleware(s.deps.Tracer)(handler)
	handler = middleware.LoggingMiddleware(s.logger)(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.RecoveryMiddleware(s.logger)(handler)

	return handler
}
