package scan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ScanDuration tracks end-to-end batch scan latency.
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "binscan_scan_duration_seconds",
		Help:    "Duration of a full batch scan tick",
		Buckets: prometheus.DefBuckets,
	})

	// CandidatePairsTotal counts candidate pairs resolved per tick, across all ticks.
	CandidatePairsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binscan_scan_candidate_pairs_total",
		Help: "Total number of candidate event pairs resolved across all scan ticks",
	})

	// MarketPairsFoundTotal counts intra-event market pairs produced across all ticks.
	MarketPairsFoundTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binscan_scan_market_pairs_total",
		Help: "Total number of intra-event market pairs produced across all scan ticks",
	})

	// FetchErrorsTotal counts per-candidate fetch failures (network error or not found).
	FetchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binscan_scan_fetch_errors_total",
		Help: "Total number of candidate event fetches that failed",
	})

	// BlockingReductionPct tracks the most recent fuzzy-candidate blocking pass's reduction.
	BlockingReductionPct = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "binscan_scan_blocking_reduction_pct",
		Help: "Percentage reduction in candidate pairs from the most recent blocking pass",
	})
)
