package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chatrelay/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:         true,
		Namespace:       "test",
		Subsystem:       "relay",
		DurationBuckets: []float64{0.1, 0.5, 1.0, 5.0},
	}
}

func TestNewCollector_Defaults(t *testing.T) {
	collector := NewCollector(&config.MetricsConfig{}, nil)

	if collector.Registry() == nil {
		t.Fatal("expected a registry")
	}
	if collector.config.Namespace != "chatrelay" || collector.config.Subsystem != "relay" {
		t.Errorf("unexpected defaults: %+v", collector.config)
	}

	collector.RecordInvocation("success", 200, time.Millisecond)
	families, err := collector.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "chatrelay_relay_invocations_total" {
			found = true
		}
	}
	if !found {
		t.Error("chatrelay_relay_invocations_total not registered")
	}
}

func TestCollector_RecordInvocation(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	tests := []struct {
		outcome string
		status  int
	}{
		{"success", 200},
		{"method_not_allowed", 405},
		{"config_error", 500},
		{"invalid_json", 400},
		{"missing_prompt", 400},
		{"upstream_error", 429},
		{"internal_error", 500},
	}

	for _, tt := range tests {
		collector.RecordInvocation(tt.outcome, tt.status, 10*time.Millisecond)
	}
	collector.RecordInvocation("success", 200, 20*time.Millisecond)

	if got := testutil.ToFloat64(collector.invocations.total.WithLabelValues("success", "200")); got != 2 {
		t.Errorf("success count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.invocations.total.WithLabelValues("upstream_error", "429")); got != 1 {
		t.Errorf("upstream_error count = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(collector.invocations.total); got != len(tests) {
		t.Errorf("label sets = %d, want %d", got, len(tests))
	}
}

func TestCollector_RecordUpstream(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordUpstream("openrouter", 200, 300*time.Millisecond)
	collector.RecordUpstream("openrouter", 429, 100*time.Millisecond)
	collector.RecordUpstreamError("openrouter", "api_error", 100*time.Millisecond)
	collector.RecordUpstreamError("openrouter", "transport_error", time.Second)

	if got := testutil.ToFloat64(collector.upstream.requests.WithLabelValues("openrouter", "429")); got != 1 {
		t.Errorf("429 count = %v", got)
	}
	if got := testutil.ToFloat64(collector.upstream.requests.WithLabelValues("openrouter", "none")); got != 1 {
		t.Errorf("transport failures should be counted with status none, got %v", got)
	}
	if got := testutil.ToFloat64(collector.upstream.errors.WithLabelValues("openrouter", "api_error")); got != 1 {
		t.Errorf("api_error count = %v", got)
	}
	if got := testutil.CollectAndCount(collector.upstream.duration); got != 1 {
		t.Errorf("duration series = %d", got)
	}
}

func TestCollector_RecordTokens(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordTokens("openrouter", "m", 10, 20)
	collector.RecordTokens("openrouter", "m", 0, 5)

	if got := testutil.ToFloat64(collector.upstream.tokens.WithLabelValues("openrouter", "m", "prompt")); got != 10 {
		t.Errorf("prompt tokens = %v", got)
	}
	if got := testutil.ToFloat64(collector.upstream.tokens.WithLabelValues("openrouter", "m", "completion")); got != 25 {
		t.Errorf("completion tokens = %v", got)
	}
}

func TestCollector_NilIsNoop(t *testing.T) {
	var collector *Collector

	collector.RecordInvocation("success", 200, time.Millisecond)
	collector.RecordUpstream("openrouter", 200, time.Millisecond)
	collector.RecordUpstreamError("openrouter", "parse_error", time.Millisecond)
	collector.RecordTokens("openrouter", "m", 1, 1)

	if collector.Registry() != nil {
		t.Error("nil collector should have no registry")
	}

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("nil collector handler status = %d", rec.Code)
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordInvocation("missing_prompt", 400, time.Millisecond)

	server := httptest.NewServer(collector.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `test_relay_invocations_total{outcome="missing_prompt",status="400"} 1`) {
		t.Errorf("metric not exposed:\n%s", body)
	}
}
