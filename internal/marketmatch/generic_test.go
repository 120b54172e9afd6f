package marketmatch

import (
	"testing"

	"github.com/rmcole/binscan/pkg/types"
)

func TestMatchGeneric(t *testing.T) {
	marketsA := []types.MarketRef{
		{Question: "Will the Fed cut interest rates in June 2025", YesPrice: 0.4},
		{Question: "Will inflation exceed 3 percent in 2025", YesPrice: 0.2},
	}
	marketsB := []types.MarketRef{
		{Question: "Will the Federal Reserve cut interest rates in June 2025", YesPrice: 0.42, Ticker: "KXFED-25JUN"},
		{Question: "Some unrelated market about weather", YesPrice: 0.1, Ticker: "KXWEATHER"},
	}

	pairs := matchGeneric(marketsA, marketsB)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].TickerB != "KXFED-25JUN" {
		t.Errorf("TickerB = %q, want KXFED-25JUN", pairs[0].TickerB)
	}
}

func TestMatchGeneric_SkipsEmptyTokens(t *testing.T) {
	marketsA := []types.MarketRef{{Question: "a b c"}}
	marketsB := []types.MarketRef{{Question: "x y z"}}
	if pairs := matchGeneric(marketsA, marketsB); len(pairs) != 0 {
		t.Errorf("expected no pairs for short-token questions, got %d", len(pairs))
	}
}

func TestMatchGeneric_NoDoubleAssignment(t *testing.T) {
	marketsA := []types.MarketRef{
		{Question: "Will the Federal Reserve raise interest rates this quarter"},
		{Question: "Will the Federal Reserve cut interest rates this quarter"},
	}
	marketsB := []types.MarketRef{
		{Question: "Will the Federal Reserve change interest rates this quarter", Ticker: "ONLY-ONE"},
	}
	pairs := matchGeneric(marketsA, marketsB)
	if len(pairs) != 1 {
		t.Fatalf("expected exactly 1 pair (no double-assignment of venue-B market), got %d", len(pairs))
	}
}
