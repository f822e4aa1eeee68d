package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_hits_total",
			Help: "Reads served from the in-memory cache",
		},
		[]string{"cache"},
	)

	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_misses_total",
			Help: "Reads that required an upstream fetch",
		},
		[]string{"cache"},
	)

	cacheDeduped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_deduped_fetches_total",
			Help: "Concurrent reads coalesced into another caller's fetch",
		},
		[]string{"cache"},
	)

	cacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_invalidations_total",
			Help: "Explicit invalidations marking a key stale",
		},
		[]string{"cache"},
	)
)
