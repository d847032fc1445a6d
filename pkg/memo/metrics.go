package memo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safetable",
			Subsystem: "memo",
			Name:      "hits_total",
			Help:      "Lookups served from the memo store.",
		},
		[]string{"op"},
	)

	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safetable",
			Subsystem: "memo",
			Name:      "misses_total",
			Help:      "Lookups that were absent or expired.",
		},
		[]string{"op"},
	)

	cacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "safetable",
			Subsystem: "memo",
			Name:      "evictions_total",
			Help:      "Entries evicted to stay within capacity.",
		},
		[]string{"op"},
	)
)
