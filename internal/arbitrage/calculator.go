// Package arbitrage implements the cheapest-cost arbitrage calculator (§4.6):
// given a MarketPair's per-venue YES prices, it picks the cheaper of the two
// synthetic-dollar constructions and classifies the result as guaranteed,
// simple, or (for UI display) a bare spread entry.
package arbitrage

import (
	"fmt"
	"sort"
	"time"

	"github.com/rmcole/binscan/pkg/types"
)

// Default thresholds from §6's tunable constants, fee-adjusted.
const (
	// DefaultArbMinGuaranteed is the minimum fee-adjusted spread
	// (1-cost-VenueAFeePct-VenueBFeePct) that counts as a guaranteed arbitrage.
	DefaultArbMinGuaranteed = 0.0
	// DefaultSimpleSpreadMin is the minimum |yesA-yesB| that counts as a
	// "simple" (non-guaranteed) opportunity worth surfacing.
	DefaultSimpleSpreadMin = 0.02
)

// Config controls the calculator's classification thresholds.
type Config struct {
	MinGuaranteedSpread float64 // ARB_MIN_GUARANTEED
	MinSimpleSpread     float64 // SIMPLE_SPREAD_MIN
	VenueAFeePct        float64 // POLY_FEE, already a fraction (0.02 = 2%)
	VenueBFeePct        float64 // KALSHI_FEE
}

// DefaultConfig returns the §6 tunable defaults: MIN_SPREAD_PCT=2.0,
// POLY_FEE=2.0, KALSHI_FEE=1.0 (expressed here as fractions).
func DefaultConfig() Config {
	return Config{
		MinGuaranteedSpread: DefaultArbMinGuaranteed,
		MinSimpleSpread:     DefaultSimpleSpreadMin,
		VenueAFeePct:        0.02,
		VenueBFeePct:        0.01,
	}
}

// strategy is the internal result of choosing the cheaper synthetic-dollar
// construction for a MarketPair.
type strategy struct {
	side types.StrategySide
	cost float64
}

// cheapestStrategy returns the lower-cost of the two ways to construct a
// synthetic dollar: buy YES-A + NO-B, or buy YES-B + NO-A.
func cheapestStrategy(yesA, yesB float64) strategy {
	costAB := yesA + (1 - yesB) // buy YES-A, NO-B
	costBA := yesB + (1 - yesA) // buy YES-B, NO-A

	if costAB <= costBA {
		return strategy{side: types.BuyYesAThenNoB, cost: costAB}
	}
	return strategy{side: types.BuyYesBThenNoA, cost: costBA}
}

// Calculate derives the arbitrage opportunity for a single MarketPair, or
// (false) if the pair clears neither the guaranteed nor the simple threshold.
// CreateOpportunitiesFromAllPairs should be used instead when every pair
// (including non-profitable ones) needs a UI-facing entry.
func Calculate(cfg Config, pair types.MarketPair, now time.Time) (types.ArbitrageOpportunity, bool) {
	strat := cheapestStrategy(pair.YesPriceA, pair.YesPriceB)
	fees := cfg.VenueAFeePct + cfg.VenueBFeePct
	spread := 1 - strat.cost - fees

	if spread > cfg.MinGuaranteedSpread {
		profit := spread
		opp := types.ArbitrageOpportunity{
			Pair:             pair,
			Strategy:         strat.side,
			Type:             types.TypeGuaranteed,
			ProfitPct:        spread * 100,
			GuaranteedProfit: &profit,
			Action:           actionString(strat.side, pair),
			DetectedAt:       now,
		}
		OpportunitiesDetectedTotal.Inc()
		OpportunityProfitBPS.Observe(spread * 10000)
		return opp, true
	}

	rawSpread := absFloat(pair.YesPriceA - pair.YesPriceB)
	if rawSpread >= cfg.MinSimpleSpread {
		opp := types.ArbitrageOpportunity{
			Pair:       pair,
			Strategy:   strat.side,
			Type:       types.TypeSimple,
			ProfitPct:  rawSpread * 100,
			Action:     actionString(strat.side, pair),
			DetectedAt: now,
		}
		OpportunitiesDetectedTotal.Inc()
		OpportunityProfitBPS.Observe(rawSpread * 10000)
		return opp, true
	}

	OpportunitiesRejectedTotal.WithLabelValues("below_threshold").Inc()
	return types.ArbitrageOpportunity{}, false
}

// FindArbitrageOpportunities calculates an opportunity for every pair that
// clears a profitability threshold, sorted descending by ProfitPct.
func FindArbitrageOpportunities(cfg Config, pairs []types.MarketPair, now time.Time) []types.ArbitrageOpportunity {
	out := make([]types.ArbitrageOpportunity, 0, len(pairs))
	for _, p := range pairs {
		if opp, ok := Calculate(cfg, p, now); ok {
			out = append(out, opp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProfitPct > out[j].ProfitPct })
	return out
}

// CreateOpportunitiesFromAllPairs returns an opportunity for every pair,
// including non-profitable ones, for UI display: entries that don't clear
// either threshold carry Type=spread with the raw |yesA-yesB| spread.
func CreateOpportunitiesFromAllPairs(cfg Config, pairs []types.MarketPair, now time.Time) []types.ArbitrageOpportunity {
	out := make([]types.ArbitrageOpportunity, 0, len(pairs))
	for _, p := range pairs {
		if opp, ok := Calculate(cfg, p, now); ok {
			out = append(out, opp)
			continue
		}
		strat := cheapestStrategy(p.YesPriceA, p.YesPriceB)
		rawSpread := absFloat(p.YesPriceA - p.YesPriceB)
		out = append(out, types.ArbitrageOpportunity{
			Pair:       p,
			Strategy:   strat.side,
			Type:       types.TypeSpread,
			ProfitPct:  rawSpread * 100,
			Action:     actionString(strat.side, p),
			DetectedAt: now,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ProfitPct > out[j].ProfitPct })
	return out
}

func actionString(side types.StrategySide, pair types.MarketPair) string {
	switch side {
	case types.BuyYesAThenNoB:
		return fmt.Sprintf("Buy YES @ %.2f (venue A), buy NO @ %.2f (venue B)", pair.YesPriceA, pair.NoPriceB)
	default:
		return fmt.Sprintf("Buy YES @ %.2f (venue B), buy NO @ %.2f (venue A)", pair.YesPriceB, pair.NoPriceA)
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
