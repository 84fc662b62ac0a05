// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preparation_status_transitions_total",
			Help: "Total number of applied status transitions by entity",
		},
		[]string{"entity", "from", "to"},
	)

	BatchItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preparation_batch_items_total",
			Help: "Total number of batch items processed by outcome",
		},
		[]string{"action", "result"},
	)

	DashboardCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_cache_requests_total",
			Help: "Dashboard statistics cache lookups by result",
		},
		[]string{"result"},
	)

	DashboardBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dashboard_build_duration_seconds",
			Help:    "Time spent computing dashboard statistics on cache miss",
			Buckets: prometheus.DefBuckets,
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
