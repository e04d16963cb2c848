package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Catalog client metrics
var (
	CatalogRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total number of catalog API calls by operation and outcome.",
		},
		[]string{"operation", "status"},
	)

	CatalogRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Duration of catalog API calls.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	CircuitBreakerOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_circuit_breaker_open",
			Help: "1 while the catalog circuit breaker is open.",
		},
	)
)

// Interaction flow metrics
var (
	FlowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flows_total",
			Help: "Total number of search and episode flows by outcome.",
		},
		[]string{"flow", "outcome"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests served by the web controller.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "code"},
	)
)

func init() {
	prometheus.MustRegister(
		CatalogRequestsTotal,
		CatalogRequestDuration,
		CircuitBreakerOpen,
		FlowsTotal,
		HTTPRequestDuration,
	)
}
