package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultPort is used when the metrics port is left at zero.
const DefaultPort = 9090

// NewHTTPServer creates an HTTP server that exposes the default Prometheus
// registry at /metrics.
func NewHTTPServer(address string, port int) *http.Server {
	return newHTTPServer(address, port, prometheus.DefaultGatherer)
}

func newHTTPServer(address string, port int, gatherer prometheus.Gatherer) *http.Server {
	if port == 0 {
		port = DefaultPort
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", address, port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
