// Package metrics exposes Prometheus metrics for the cache and compression
// cores.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // promauto collectors are registered once at init.
var (
	// CacheHits counts semantic cache hits.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ember",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total number of semantic cache hits",
	})

	// CacheMisses counts semantic cache misses, including below-threshold
	// matches and expired entries.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ember",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total number of semantic cache misses",
	})

	// CacheEvictions counts capacity evictions.
	CacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ember",
		Subsystem: "cache",
		Name:      "evictions_total",
		Help:      "Total number of entries evicted to make room",
	})

	// CacheExpired counts TTL expirations, lazy and swept.
	CacheExpired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ember",
		Subsystem: "cache",
		Name:      "expired_total",
		Help:      "Total number of entries removed after TTL expiry",
	})

	// CacheEntries tracks the current entry count.
	CacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ember",
		Subsystem: "cache",
		Name:      "entries",
		Help:      "Current number of cached entries",
	})

	// CacheSimilarity observes the similarity score of cache hits.
	CacheSimilarity = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ember",
		Subsystem: "cache",
		Name:      "hit_similarity",
		Help:      "Cosine similarity of cache hits",
		Buckets:   []float64{0.80, 0.85, 0.90, 0.925, 0.95, 0.975, 0.99, 1.0},
	})

	// CompressionRatio observes compressed/original byte ratios.
	CompressionRatio = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ember",
		Subsystem: "compression",
		Name:      "ratio",
		Help:      "Compressed to original byte ratio per request",
		Buckets:   []float64{0.2, 0.4, 0.6, 0.7, 0.8, 0.9, 1.0, 1.2},
	})

	// TokensSaved counts approximate tokens saved by prompt compression.
	TokensSaved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ember",
		Subsystem: "compression",
		Name:      "tokens_saved_total",
		Help:      "Approximate tokens saved by prompt compression",
	})
)
