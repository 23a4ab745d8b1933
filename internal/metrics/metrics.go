package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsRegistry holds all Prometheus metrics for the router
type MetricsRegistry struct {
	registry *prometheus.Registry

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Route store metrics
	RoutesConfigured prometheus.Gauge
	RouteWritesTotal *prometheus.CounterVec

	// Routed traffic
	RoutedRequestsTotal *prometheus.CounterVec
	ProxyDuration       prometheus.Histogram

	// Discovery cache
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
}

// NewMetricsRegistry initializes a MetricsRegistry on its own prometheus registry
// so several can coexist in one process.
func NewMetricsRegistry() *MetricsRegistry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &MetricsRegistry{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "router_admin_http_requests_total",
				Help: "Total admin HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "router_admin_http_request_duration_seconds",
				Help:    "Admin HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "router_admin_http_requests_in_flight",
				Help: "Number of admin HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		RoutesConfigured: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "router_routes_configured",
				Help: "Current number of routes in the routing cache",
			},
		),
		RouteWritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "router_route_writes_total",
				Help: "Route persistence operations by operation and result",
			},
			[]string{"operation", "result"},
		),

		RoutedRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "router_routed_requests_total",
				Help: "Requests handled by the routing server by route type and result",
			},
			[]string{"type", "result"},
		),
		ProxyDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "router_proxy_duration_seconds",
				Help:    "Upstream round trip time of proxied requests",
				Buckets: prometheus.DefBuckets,
			},
		),

		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "router_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "router_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
	}
}

// Registry exposes the underlying prometheus registry.
func (m *MetricsRegistry) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *MetricsRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
