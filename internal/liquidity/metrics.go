package liquidity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NoLiquidityTotal counts analyses where one side's book was empty.
	NoLiquidityTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binscan_liquidity_no_liquidity_total",
		Help: "Total number of liquidity analyses with an empty book on either side",
	})

	// SpreadClosedTotal counts analyses where the best asks alone did not clear the profit floor.
	SpreadClosedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binscan_liquidity_spread_closed_total",
		Help: "Total number of liquidity analyses where the spread closed before any size was walkable",
	})

	// VenueALimitedTotal counts analyses limited by venue-A book depth.
	VenueALimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binscan_liquidity_venue_a_limited_total",
		Help: "Total number of liquidity analyses limited by venue-A book depth",
	})

	// VenueBLimitedTotal counts analyses limited by venue-B book depth.
	VenueBLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binscan_liquidity_venue_b_limited_total",
		Help: "Total number of liquidity analyses limited by venue-B book depth",
	})

	// SpreadExhaustedTotal counts analyses that walked some size without one
	// side's depth alone limiting it: the per-contract profit fell to the
	// floor, or both ladders ran out together.
	SpreadExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binscan_liquidity_spread_exhausted_total",
		Help: "Total number of liquidity analyses that stopped at the profit floor or with both ladders exhausted together",
	})

	// MaxContractsAnalyzed tracks the distribution of walkable size per analysis.
	MaxContractsAnalyzed = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "binscan_liquidity_max_contracts",
		Help:    "Maximum contracts walkable per liquidity analysis",
		Buckets: prometheus.ExponentialBuckets(10, 2, 10),
	})
)
