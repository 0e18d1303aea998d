// Package metrics exposes the server's Prometheus instruments.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the dashboard server. A nil
// receiver is a no-op so tests can run handlers without a registry.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ProviderRequestsTotal   *prometheus.CounterVec
	ProviderRequestDuration *prometheus.HistogramVec

	FavoriteMutationsTotal *prometheus.CounterVec
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockrit_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockrit_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),

		ProviderRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockrit_provider_requests_total",
			Help: "Market data provider calls by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		ProviderRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockrit_provider_request_duration_seconds",
			Help:    "Market data provider call latency by endpoint",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		FavoriteMutationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockrit_favorite_mutations_total",
			Help: "Favorite additions and removals",
		}, []string{"action"}),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ProviderRequestsTotal,
		m.ProviderRequestDuration,
		m.FavoriteMutationsTotal,
	)

	return m
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObserveProvider records one market data provider call.
func (m *Metrics) ObserveProvider(endpoint string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ProviderRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	m.ProviderRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveFavoriteMutation records a favorite add or remove.
func (m *Metrics) ObserveFavoriteMutation(action string) {
	if m == nil {
		return
	}
	m.FavoriteMutationsTotal.WithLabelValues(action).Inc()
}
