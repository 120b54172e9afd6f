// Package liquidity walks the two ask ladders behind an arbitrage
// opportunity, level by level, to quantify how much size is actually
// executable before the combined cost stops clearing the profit floor (§4.7).
package liquidity

import (
	"time"

	"github.com/rmcole/binscan/pkg/types"
)

// Config controls the profitability floor the walker stops at.
type Config struct {
	MinProfit float64 // stop walking once 1-(priceA+priceB)-fees <= MinProfit
	FeesTotal float64 // VenueAFeePct + VenueBFeePct
}

// DefaultConfig mirrors arbitrage.DefaultConfig's fee assumptions with no
// additional profit floor beyond break-even.
func DefaultConfig() Config {
	return Config{MinProfit: 0, FeesTotal: 0.03}
}

// ladderSide picks which of a UnifiedOrderBook's ask ladders a strategy buys.
func ladderSide(strategy types.StrategySide, bookA, bookB types.UnifiedOrderBook) (asksA, asksB []types.OrderBookLevel) {
	switch strategy {
	case types.BuyYesAThenNoB:
		return bookA.YesAsks, bookB.NoAsks
	default: // BuyYesBThenNoA
		return bookB.YesAsks, bookA.NoAsks
	}
}

// Analyze walks the two ask ladders selected by opp.Strategy in lock-step,
// consuming min(depth) at each level pair until the combined cost no longer
// clears cfg.MinProfit net of cfg.FeesTotal.
func Analyze(cfg Config, opp types.ArbitrageOpportunity, bookA, bookB types.UnifiedOrderBook, now time.Time) types.LiquidityAnalysis {
	asksA, asksB := ladderSide(opp.Strategy, bookA, bookB)

	analysis := types.LiquidityAnalysis{Opportunity: opp}

	if len(asksA) == 0 || len(asksB) == 0 {
		analysis.LimitedBy = types.LimitedByNoLiquidity
		NoLiquidityTotal.Inc()
		return analysis
	}

	bestCost := asksA[0].Price + asksB[0].Price
	if 1-bestCost-cfg.FeesTotal <= cfg.MinProfit {
		analysis.LimitedBy = types.LimitedBySpreadClosed
		analysis.BestAskA = asksA[0].Price
		analysis.BestAskB = asksB[0].Price
		SpreadClosedTotal.Inc()
		return analysis
	}

	remainingA := make([]float64, len(asksA))
	for i, l := range asksA {
		remainingA[i] = l.Size
	}
	remainingB := make([]float64, len(asksB))
	for i, l := range asksB {
		remainingB[i] = l.Size
	}

	i, j := 0, 0
	exhaustedA, exhaustedB := false, false

	for i < len(asksA) && j < len(asksB) {
		priceA := asksA[i].Price
		priceB := asksB[j].Price
		profitPerContract := 1 - (priceA + priceB) - cfg.FeesTotal
		if profitPerContract <= cfg.MinProfit {
			break
		}

		avail := remainingA[i]
		if remainingB[j] < avail {
			avail = remainingB[j]
		}

		analysis.MaxContracts += avail
		analysis.MaxInvestment += avail * (priceA + priceB)
		analysis.MaxProfit += avail * profitPerContract

		analysis.Ladder = append(analysis.Ladder, types.LadderStep{
			PriceA:              priceA,
			PriceB:              priceB,
			Contracts:           avail,
			ProfitPerContract:   profitPerContract,
			CumulativeContracts: analysis.MaxContracts,
			CumulativeProfit:    analysis.MaxProfit,
		})

		remainingA[i] -= avail
		remainingB[j] -= avail

		if remainingA[i] <= 0 {
			i++
		}
		if remainingB[j] <= 0 {
			j++
		}
	}

	exhaustedA = i >= len(asksA)
	exhaustedB = j >= len(asksB)

	switch {
	case analysis.MaxContracts == 0:
		analysis.LimitedBy = types.LimitedBySpreadClosed
		analysis.BestAskA = asksA[0].Price
		analysis.BestAskB = asksB[0].Price
		SpreadClosedTotal.Inc()
	case exhaustedA && !exhaustedB:
		analysis.LimitedBy = types.LimitedByVenueADepth
		VenueALimitedTotal.Inc()
	case exhaustedB && !exhaustedA:
		analysis.LimitedBy = types.LimitedByVenueBDepth
		VenueBLimitedTotal.Inc()
	default:
		analysis.LimitedBy = types.LimitedBySpreadExhaust
		SpreadExhaustedTotal.Inc()
	}

	if analysis.MaxInvestment > 0 {
		analysis.AvgProfitPct = analysis.MaxProfit / analysis.MaxInvestment * 100
	}

	MaxContractsAnalyzed.Observe(analysis.MaxContracts)
	return analysis
}
