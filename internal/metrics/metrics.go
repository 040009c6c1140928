// Package metrics exposes Prometheus collectors for the proxy service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	classificationsTotal       *prometheus.CounterVec
	storeLookupsTotal          *prometheus.CounterVec
	storeLookupDurationSeconds prometheus.Histogram
	injectionsTotal            *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ogproxy_http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ogproxy_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)

		classificationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ogproxy_classifications_total",
				Help: "Total number of agent classifications, labeled by verdict.",
			},
			[]string{"verdict"},
		)

		storeLookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ogproxy_store_lookups_total",
				Help: "Total number of prospect store lookups, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		storeLookupDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ogproxy_store_lookup_duration_seconds",
				Help:    "Histogram of prospect store lookup latencies.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
		)

		injectionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ogproxy_injections_total",
				Help: "Total number of metadata injections, labeled by outcome.",
			},
			[]string{"outcome"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveClassification increments the classification counter.
func ObserveClassification(verdict string) {
	classificationsTotal.WithLabelValues(verdict).Inc()
}

// ObserveStoreLookup records a prospect store lookup and its latency.
func ObserveStoreLookup(outcome string, duration time.Duration) {
	storeLookupsTotal.WithLabelValues(outcome).Inc()
	storeLookupDurationSeconds.Observe(duration.Seconds())
}

// ObserveInjection increments the injection counter for the given outcome.
func ObserveInjection(outcome string) {
	injectionsTotal.WithLabelValues(outcome).Inc()
}
