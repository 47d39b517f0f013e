package server

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chatrelay/internal/testcerts"
	"chatrelay/pkg/config"
	"chatrelay/pkg/providers"
	"chatrelay/pkg/relay"
	"chatrelay/pkg/security/secrets"
	"chatrelay/pkg/telemetry/health"
	"chatrelay/pkg/telemetry/metrics"
)

type echoCompleter struct{}

func (echoCompleter) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	return &providers.CompletionResponse{Content: "echo: " + req.Messages[1].Content}, nil
}

func (echoCompleter) GetName() string { return "echo" }

type panicHandler struct{}

func (panicHandler) ServeHTTP(http.ResponseWriter, *http.Request) { panic("kaboom") }

func newTestServer(t *testing.T, relayHandler http.Handler) (*Server, *metrics.Collector) {
	t.Helper()
	cfg := config.Default()
	cfg.Server.ListenAddress = "127.0.0.1:0"
	cfg.Server.ShutdownTimeout = 2 * time.Second

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	if relayHandler == nil {
		relayHandler = relay.NewHandler(
			relay.Options{},
			echoCompleter{},
			secrets.NewStaticProvider(map[string]string{relay.DefaultCredentialName: "k"}),
			nil, collector, nil,
		)
	}

	srv := New(cfg, Deps{
		Relay:         relayHandler,
		Metrics:       collector,
		UpstreamStats: func() providers.RequestStats { return providers.RequestStats{TotalRequests: 4, FailedRequests: 1} },
		Build:         health.NewBuildInfo("test", "none", "unknown"),
	})
	return srv, collector
}

func TestHandler_Routes(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+config.DefaultFunctionPath, "application/json", strings.NewReader(`{"prompt":"Hi"}`))
	if err != nil {
		t.Fatalf("POST function: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK || string(body) != `{"message":"echo: Hi"}` {
		t.Errorf("function = %d %s", resp.StatusCode, body)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing Access-Control-Allow-Origin on success")
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}

	for _, path := range []string{PathHealth, PathReady, PathVersion, PathUpstreamHealth, config.DefaultMetricsPath} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, resp.StatusCode)
		}
	}

	resp, err = http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown path = %d, want 404", resp.StatusCode)
	}
}

func TestHandler_UpstreamStats(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, PathUpstreamHealth, nil))

	var stats providers.RequestStats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalRequests != 4 || stats.FailedRequests != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestHandler_FunctionRejectsGet(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, config.DefaultFunctionPath, nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestHandler_MetricsDisabled(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	srv.config.Telemetry.Metrics.Enabled = false

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, config.DefaultMetricsPath, nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandler_RecoversPanics(t *testing.T) {
	srv, _ := newTestServer(t, panicHandler{})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, config.DefaultFunctionPath, nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if w.Body.String() != `{"message":"Internal server error: kaboom"}` {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestStart_Shutdown(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	select {
	case <-srv.Ready():
	case err := <-done:
		t.Fatalf("Start() returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not become ready")
	}

	if !srv.IsRunning() {
		t.Error("IsRunning() = false after start")
	}

	resp, err := http.Get("http://" + srv.Addr().String() + PathHealth)
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()

	if err := srv.Start(ctx); err == nil {
		t.Error("second Start() should fail")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
}

func TestStart_ListenError(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	srv.config.Server.ListenAddress = "256.0.0.1:bad"

	if err := srv.Start(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}

func TestStart_TLS(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	pair := testcerts.WriteValid(t, t.TempDir(), "localhost")
	srv.config.Server.TLS = config.TLSConfig{
		Enabled:        true,
		CertFile:       pair.CertFile,
		KeyFile:        pair.KeyFile,
		MinVersion:     "1.3",
		ReloadInterval: time.Minute,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	select {
	case <-srv.Ready():
	case err := <-done:
		t.Fatalf("Start() returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not become ready")
	}

	client := &http.Client{Transport: &http.Transport{
		TLSClientConfig: &tls.Config{RootCAs: pair.Pool(), ServerName: "localhost", MinVersion: tls.VersionTLS13},
	}}
	resp, err := client.Get("https://" + srv.Addr().String() + PathHealth)
	if err != nil {
		t.Fatalf("GET /health over TLS: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.TLS == nil || resp.TLS.Version != tls.VersionTLS13 {
		t.Errorf("expected a TLS 1.3 connection, got %+v", resp.TLS)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Start() error = %v", err)
	}
}

func TestStart_TLSMissingCertificate(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	srv.config.Server.TLS = config.TLSConfig{
		Enabled:  true,
		CertFile: "/nonexistent/cert.pem",
		KeyFile:  "/nonexistent/key.pem",
	}

	err := srv.Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to configure TLS") {
		t.Fatalf("expected TLS configuration error, got %v", err)
	}
	if srv.IsRunning() {
		t.Error("server should not be running")
	}
}
