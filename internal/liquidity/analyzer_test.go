package liquidity

import (
	"testing"
	"time"

	"github.com/rmcole/binscan/pkg/types"
)

func TestAnalyze_LiquidityWalk(t *testing.T) {
	// Lock-step walk of yesAsks-A = [(0.45,100),(0.47,200)] against
	// noAsks-B = [(0.40,50),(0.42,300)] at zero fees: each step consumes
	// min(remaining-A-at-level, remaining-B-at-level) and advances whichever
	// side(s) hit zero, carrying over any leftover on the other side.
	cfg := Config{MinProfit: 0, FeesTotal: 0}
	opp := types.ArbitrageOpportunity{Strategy: types.BuyYesAThenNoB}
	bookA := types.UnifiedOrderBook{
		YesAsks: []types.OrderBookLevel{{Price: 0.45, Size: 100}, {Price: 0.47, Size: 200}},
	}
	bookB := types.UnifiedOrderBook{
		NoAsks: []types.OrderBookLevel{{Price: 0.40, Size: 50}, {Price: 0.42, Size: 300}},
	}

	analysis := Analyze(cfg, opp, bookA, bookB, time.Now())

	if analysis.LimitedBy != types.LimitedByVenueADepth {
		t.Errorf("limitedBy = %v, want A-depth", analysis.LimitedBy)
	}
	// Steps: 50@(.45,.40) profit .15, 50@(.45,.42) profit .13, 200@(.47,.42) profit .11.
	if diff := analysis.MaxContracts - 300; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("maxContracts = %v, want 300", analysis.MaxContracts)
	}
	wantInvestment := 50*0.85 + 50*0.87 + 200*0.89
	if diff := analysis.MaxInvestment - wantInvestment; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("maxInvestment = %v, want %v", analysis.MaxInvestment, wantInvestment)
	}
	wantProfit := 50*0.15 + 50*0.13 + 200*0.11
	if diff := analysis.MaxProfit - wantProfit; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("maxProfit = %v, want %v", analysis.MaxProfit, wantProfit)
	}
	if len(analysis.Ladder) != 3 {
		t.Fatalf("ladder steps = %d, want 3", len(analysis.Ladder))
	}
}

func TestAnalyze_SpreadClosed(t *testing.T) {
	// S5: yesAsks-A best=0.55, noAsks-B best=0.50 => cost 1.05, spread_closed
	cfg := Config{MinProfit: 0, FeesTotal: 0}
	opp := types.ArbitrageOpportunity{Strategy: types.BuyYesAThenNoB}
	bookA := types.UnifiedOrderBook{YesAsks: []types.OrderBookLevel{{Price: 0.55, Size: 100}}}
	bookB := types.UnifiedOrderBook{NoAsks: []types.OrderBookLevel{{Price: 0.50, Size: 100}}}

	analysis := Analyze(cfg, opp, bookA, bookB, time.Now())

	if analysis.LimitedBy != types.LimitedBySpreadClosed {
		t.Errorf("limitedBy = %v, want spread_closed", analysis.LimitedBy)
	}
	if analysis.MaxContracts != 0 {
		t.Errorf("maxContracts = %v, want 0", analysis.MaxContracts)
	}
	if analysis.BestAskA != 0.55 || analysis.BestAskB != 0.50 {
		t.Errorf("diagnostic best asks not populated: %v %v", analysis.BestAskA, analysis.BestAskB)
	}
}

func TestAnalyze_NoLiquidity(t *testing.T) {
	cfg := DefaultConfig()
	opp := types.ArbitrageOpportunity{Strategy: types.BuyYesAThenNoB}
	bookA := types.UnifiedOrderBook{}
	bookB := types.UnifiedOrderBook{NoAsks: []types.OrderBookLevel{{Price: 0.4, Size: 10}}}

	analysis := Analyze(cfg, opp, bookA, bookB, time.Now())
	if analysis.LimitedBy != types.LimitedByNoLiquidity {
		t.Errorf("limitedBy = %v, want no_liquidity", analysis.LimitedBy)
	}
}

func TestAnalyze_LadderTotalsMatchInvariant(t *testing.T) {
	// Invariant 4: sum(level.contracts) = maxContracts, sum(level.contracts*profitPerContract) = maxProfit.
	cfg := Config{MinProfit: 0, FeesTotal: 0}
	opp := types.ArbitrageOpportunity{Strategy: types.BuyYesAThenNoB}
	bookA := types.UnifiedOrderBook{
		YesAsks: []types.OrderBookLevel{{Price: 0.40, Size: 30}, {Price: 0.41, Size: 70}},
	}
	bookB := types.UnifiedOrderBook{
		NoAsks: []types.OrderBookLevel{{Price: 0.30, Size: 40}, {Price: 0.32, Size: 60}},
	}

	analysis := Analyze(cfg, opp, bookA, bookB, time.Now())

	var sumContracts, sumProfit float64
	for _, step := range analysis.Ladder {
		sumContracts += step.Contracts
		sumProfit += step.Contracts * step.ProfitPerContract
	}
	if diff := sumContracts - analysis.MaxContracts; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("sum(contracts) = %v, maxContracts = %v", sumContracts, analysis.MaxContracts)
	}
	if diff := sumProfit - analysis.MaxProfit; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("sum(contracts*profit) = %v, maxProfit = %v", sumProfit, analysis.MaxProfit)
	}
}
