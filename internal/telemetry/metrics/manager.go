package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterCollectionFetches   *prometheus.CounterVec
	CounterCountsCacheHits     prometheus.Counter
	CounterCountsCacheMisses   prometheus.Counter
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge

	// histograms
	HistRequestDuration prometheus.Histogram
	HistStoreListDur    prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("mygym", "test_admin", prometheus.NewRegistry())
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterCollectionFetches := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "collection_fetches",
		Help:      "The total number of collection page fetches, per collection",
	}, []string{"collection"})
	counterCountsCacheHits := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "counts_cache_hits",
		Help:      "Dashboard/meta counts served from the in-process cache",
	})
	counterCountsCacheMisses := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "counts_cache_misses",
		Help:      "Dashboard/meta counts recomputed from the store",
	})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})

	histRequestDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Duration of handled HTTP requests",
		Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10},
	})
	histStoreListDur := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "store_list_duration_seconds",
		Help:      "Duration of store collection list queries",
		Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterCollectionFetches:   counterCollectionFetches,
		CounterCountsCacheHits:     counterCountsCacheHits,
		CounterCountsCacheMisses:   counterCountsCacheMisses,
		CounterHandleRequestPanic:  counterHandleRequestPanic,
		CounterRateLimitedRequests: counterRateLimitedRequests,
		GaugeRequests:              gaugeRequests,
		GaugeLifeSignal:            gaugeLifeSignal,
		HistRequestDuration:        histRequestDuration,
		HistStoreListDur:           histStoreListDur,
	}
}
