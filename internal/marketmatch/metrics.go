package marketmatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MarketPairsTotal tracks MarketPairs emitted, by the event-level match type
// that produced the parent event pair.
var MarketPairsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "binscan_marketmatch_pairs_total",
		Help: "Total number of intra-event market pairs emitted, by match type",
	},
	[]string{"match_type"},
)
