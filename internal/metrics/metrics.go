// Package metrics holds the Prometheus collectors of the console.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// APIRequests counts calls to the classifieds API by endpoint and status code.
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_api_requests_total",
		Help: "Total number of calls made to the classifieds API",
	}, []string{"endpoint", "code"})

	// APILatency tracks API call latency by endpoint.
	APILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "console_api_request_duration_seconds",
		Help:    "Latency of calls made to the classifieds API in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// ForcedLogouts counts sessions dropped because the API answered 401.
	ForcedLogouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "console_forced_logouts_total",
		Help: "Total number of sessions purged after an unauthorized API response",
	})

	// CacheLookups counts query cache reads by result (fresh, stale, miss).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_query_cache_lookups_total",
		Help: "Total number of query cache lookups by result",
	}, []string{"result"})

	// CacheWorkspaces is the number of browsers holding a query cache.
	CacheWorkspaces = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "console_query_cache_workspaces",
		Help: "Current number of per-browser query caches",
	})

	// PageRenders counts rendered screens by route pattern and status.
	PageRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_http_requests_total",
		Help: "Total number of console HTTP requests by route and status",
	}, []string{"route", "code"})
)

// Handler serves the collected metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
