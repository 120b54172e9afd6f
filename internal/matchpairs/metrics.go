package matchpairs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResolvedTotal tracks MatchedPairs resolved, by match type.
	ResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "binscan_matchpairs_resolved_total",
			Help: "Total number of matched pairs resolved, by match type",
		},
		[]string{"match_type"},
	)

	// FuzzyClassificationsTotal tracks fuzzy-match outcomes.
	FuzzyClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "binscan_matchpairs_fuzzy_classifications_total",
			Help: "Total number of fuzzy match candidates, by classification",
		},
		[]string{"classification"},
	)

	// CacheHitsTotal tracks persistent-cache hits during fuzzy resolution.
	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binscan_matchpairs_cache_hits_total",
		Help: "Total number of fuzzy candidates resolved from the persistent decision cache",
	})
)
