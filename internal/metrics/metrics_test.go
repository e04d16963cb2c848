package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getGaugeValue(g prometheus.Gauge) float64 {
	var m dto.Metric
	if err := g.(prometheus.Metric).Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

func getCounterVecValue(cv *prometheus.CounterVec, labels ...string) float64 {
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestMetrics_CatalogRequestsTotal(t *testing.T) {
	before := getCounterVecValue(CatalogRequestsTotal, "search", "success")
	CatalogRequestsTotal.WithLabelValues("search", "success").Inc()
	after := getCounterVecValue(CatalogRequestsTotal, "search", "success")

	if after != before+1 {
		t.Errorf("Expected success counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestMetrics_FlowsTotal(t *testing.T) {
	before := getCounterVecValue(FlowsTotal, "episodes", "failed")
	FlowsTotal.WithLabelValues("episodes", "failed").Inc()
	after := getCounterVecValue(FlowsTotal, "episodes", "failed")

	if after != before+1 {
		t.Errorf("Expected failed counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestMetrics_CircuitBreakerOpen(t *testing.T) {
	CircuitBreakerOpen.Set(1)
	if val := getGaugeValue(CircuitBreakerOpen); val != 1 {
		t.Errorf("Expected breaker gauge to be 1, got %.0f", val)
	}
	CircuitBreakerOpen.Set(0)
}

func TestMetrics_NewHTTPServer(t *testing.T) {
	srv := NewHTTPServer("localhost", 9090)

	if srv.Addr != "localhost:9090" {
		t.Errorf("Expected address 'localhost:9090', got '%s'", srv.Addr)
	}

	if srv.Handler == nil {
		t.Fatal("Expected handler to be set")
	}

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 from /metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "catalog_circuit_breaker_open") {
		t.Error("Expected catalog metrics to be exposed")
	}
}

func TestMetrics_NewHTTPServer_DefaultPort(t *testing.T) {
	srv := NewHTTPServer("0.0.0.0", 0)

	if srv.Addr != "0.0.0.0:9090" {
		t.Errorf("Expected address '0.0.0.0:9090', got '%s'", srv.Addr)
	}
}

func TestMetrics_NewHTTPServer_Gatherer(t *testing.T) {
	reg := prometheus.NewRegistry()
	sample := prometheus.NewCounter(prometheus.CounterOpts{Name: "sample_total", Help: "sample"})
	reg.MustRegister(sample)
	sample.Inc()

	srv := newHTTPServer("localhost", 9191, reg)
	if srv.ReadHeaderTimeout == 0 {
		t.Error("Expected a read header timeout")
	}

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, "sample_total 1") {
		t.Errorf("Expected isolated registry to be served, got:\n%s", body)
	}
	if strings.Contains(body, "catalog_requests_total") {
		t.Error("Expected default registry metrics to be absent")
	}
}
