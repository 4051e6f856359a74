package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_upstream_requests_total",
			Help: "Bybit API requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screener_cache_hits_total",
			Help: "Metric table reads served from a fresh cache entry",
		},
	)

	CacheRecomputes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screener_cache_recomputes_total",
			Help: "Full metric table recomputations by metric",
		},
		[]string{"metric"},
	)
)
