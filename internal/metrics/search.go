package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search outcomes used as the "outcome" label.
const (
	SearchOutcomeOK           = "ok"
	SearchOutcomeError        = "error"
	SearchOutcomeCacheHit     = "cache_hit"
	SearchOutcomeShortCircuit = "short_circuit"
)

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "opsmap",
			Name:      "search_requests_total",
			Help:      "Total number of search requests by outcome",
		},
		[]string{"outcome"},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "opsmap",
			Name:      "search_duration_seconds",
			Help:      "Time spent querying the store and ranking results",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "opsmap",
			Name:      "search_results",
			Help:      "Number of results returned per uncached search",
			Buckets:   []float64{0, 1, 5, 10, 20, 50},
		},
	)

	ResultCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "opsmap",
			Name:      "search_cache_total",
			Help:      "Search result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(ResultCacheTotal)
	searchMetricsRegistered = true
}
