package arbitrage

import (
	"testing"
	"time"

	"github.com/rmcole/binscan/pkg/types"
)

func TestCalculate_GuaranteedArb(t *testing.T) {
	// S3: yesA=0.45, yesB=0.60 => cost=0.45+0.40=0.85, guaranteed, profit%=15.0
	cfg := Config{MinGuaranteedSpread: 0, MinSimpleSpread: 0.02}
	pair := types.MarketPair{YesPriceA: 0.45, YesPriceB: 0.60, NoPriceA: 0.55, NoPriceB: 0.40}

	opp, ok := Calculate(cfg, pair, time.Now())
	if !ok {
		t.Fatal("expected an opportunity")
	}
	if opp.Type != types.TypeGuaranteed {
		t.Errorf("type = %v, want guaranteed", opp.Type)
	}
	if opp.Strategy != types.BuyYesAThenNoB {
		t.Errorf("strategy = %v, want buyYES-A+NO-B", opp.Strategy)
	}
	if diff := opp.ProfitPct - 15.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("profit%% = %v, want 15.0", opp.ProfitPct)
	}
	if opp.GuaranteedProfit == nil || *opp.GuaranteedProfit < 0.1499 || *opp.GuaranteedProfit > 0.1501 {
		t.Errorf("guaranteedProfit = %v, want ~0.15", opp.GuaranteedProfit)
	}
}

func TestCalculate_SimpleSpread(t *testing.T) {
	cfg := DefaultConfig()
	// yesA=0.50 yesB=0.525: costAB=0.50+0.475=0.975, costBA=0.525+0.50=1.025 -> cheapest 0.975
	// spread after fees (0.03) = 1-0.975-0.03 = -0.005, so no guaranteed clearance, while the
	// raw spread |0.50-0.525| = 0.025 clears the 0.02 simple threshold.
	pair := types.MarketPair{YesPriceA: 0.50, YesPriceB: 0.525}
	opp, ok := Calculate(cfg, pair, time.Now())
	if !ok {
		t.Fatal("expected an opportunity")
	}
	if opp.Type != types.TypeSimple {
		t.Errorf("type = %v, want simple", opp.Type)
	}
}

func TestCalculate_NoOpportunity(t *testing.T) {
	cfg := DefaultConfig()
	pair := types.MarketPair{YesPriceA: 0.50, YesPriceB: 0.505}
	_, ok := Calculate(cfg, pair, time.Now())
	if ok {
		t.Error("expected no opportunity for a near-identical price pair under fees")
	}
}

func TestFindArbitrageOpportunities_SortedDescending(t *testing.T) {
	cfg := Config{MinGuaranteedSpread: 0, MinSimpleSpread: 0}
	pairs := []types.MarketPair{
		{YesPriceA: 0.50, YesPriceB: 0.52},
		{YesPriceA: 0.45, YesPriceB: 0.60},
		{YesPriceA: 0.30, YesPriceB: 0.33},
	}
	opps := FindArbitrageOpportunities(cfg, pairs, time.Now())
	for i := 1; i < len(opps); i++ {
		if opps[i-1].ProfitPct < opps[i].ProfitPct {
			t.Fatalf("not sorted descending at index %d: %v < %v", i, opps[i-1].ProfitPct, opps[i].ProfitPct)
		}
	}
}

func TestCreateOpportunitiesFromAllPairs_IncludesUnprofitable(t *testing.T) {
	cfg := DefaultConfig()
	pairs := []types.MarketPair{
		{YesPriceA: 0.50, YesPriceB: 0.505},
	}
	opps := CreateOpportunitiesFromAllPairs(cfg, pairs, time.Now())
	if len(opps) != 1 {
		t.Fatalf("len = %d, want 1", len(opps))
	}
	if opps[0].Type != types.TypeSpread {
		t.Errorf("type = %v, want spread for an unprofitable pair", opps[0].Type)
	}
}

func TestProperty_CostLessThanOneWhenSpreadPositive(t *testing.T) {
	// Invariant 3: for yesA+noA~=1, yesB+noB~=1, calculateArbitrage returns a
	// strategy whose cost <= 1 when spread > 0.
	cfg := Config{MinGuaranteedSpread: 0, MinSimpleSpread: 0}
	cases := []types.MarketPair{
		{YesPriceA: 0.45, YesPriceB: 0.60},
		{YesPriceA: 0.10, YesPriceB: 0.95},
		{YesPriceA: 0.70, YesPriceB: 0.25},
	}
	for _, pair := range cases {
		strat := cheapestStrategy(pair.YesPriceA, pair.YesPriceB)
		if strat.cost > 1+1e-9 {
			t.Errorf("pair %+v: cost %v > 1", pair, strat.cost)
		}
	}
}
