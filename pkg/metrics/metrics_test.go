package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/adityaanikam/AI-agent-project/pkg/metrics"
)

func TestConfigFinalize(t *testing.T) {
	cfg := metrics.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.Path != "/metrics" || cfg.Namespace != "flowbit" {
		t.Errorf("defaults = %q/%q", cfg.Path, cfg.Namespace)
	}

	bad := metrics.Config{Path: "metrics"}
	if err := bad.Finalize(nil); err == nil {
		t.Error("expected error for relative path")
	}
}

func TestHandlerServesRegisteredCollectors(t *testing.T) {
	sys := metrics.New(&metrics.Config{Namespace: "flowbit", Enabled: true})

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: sys.Namespace(),
		Name:      "test_events_total",
		Help:      "Test events.",
	})
	sys.Registerer().MustRegister(counter)
	counter.Add(3)

	rec := httptest.NewRecorder()
	sys.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "flowbit_test_events_total 3") {
		t.Errorf("body missing counter:\n%s", body)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Error("body missing go runtime collector")
	}
}

func TestRegisterReturnsExisting(t *testing.T) {
	sys := metrics.New(&metrics.Config{Namespace: "flowbit"})
	opts := prometheus.CounterOpts{Namespace: "flowbit", Name: "shared_total", Help: "Shared."}

	first := metrics.Register(sys.Registerer(), prometheus.NewCounterVec(opts, []string{"kind"}))
	second := metrics.Register(sys.Registerer(), prometheus.NewCounterVec(opts, []string{"kind"}))

	if first != second {
		t.Error("second registration should return the existing collector")
	}
}
