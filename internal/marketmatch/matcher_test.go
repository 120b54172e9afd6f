package marketmatch

import (
	"testing"

	"github.com/rmcole/binscan/internal/teams"
	"github.com/rmcole/binscan/pkg/types"
)

func TestMatcher_Match_NBA(t *testing.T) {
	m := New(teams.New())
	pair := types.MatchedPair{Name: "NBA: PHX @ MIA", Category: "nba", MatchType: types.MatchGame}

	marketsA := []types.MarketRef{
		{Question: "Suns vs. Heat: who wins?", YesPrice: 0.55, NoPrice: 0.45},
	}
	marketsB := []types.MarketRef{
		{Question: "Will the Suns win?", Ticker: "KXNBAGAME-26JAN13PHXMIA-SUNS", YesPrice: 0.53},
	}

	out := m.Match(pair, "NBA: Suns @ Heat", "NBA game", marketsA, marketsB)
	if len(out) != 1 {
		t.Fatalf("expected 1 market pair, got %d", len(out))
	}
	if out[0].Matched.Category != "nba" {
		t.Errorf("Matched.Category = %q", out[0].Matched.Category)
	}
}

func TestMatcher_Match_GenericFallback(t *testing.T) {
	m := New(teams.New())
	pair := types.MatchedPair{Name: "Fed rate decision", Category: "econ", MatchType: types.MatchFuzzy}

	marketsA := []types.MarketRef{{Question: "Will the Fed cut interest rates in June 2025", YesPrice: 0.4}}
	marketsB := []types.MarketRef{{Question: "Will the Federal Reserve cut interest rates in June 2025", YesPrice: 0.42, Ticker: "KXFED-25JUN"}}

	out := m.Match(pair, "Fed rate decision", "Fed rate decision", marketsA, marketsB)
	if len(out) != 1 {
		t.Fatalf("expected 1 generic pair, got %d", len(out))
	}
}

func TestDetectLeague(t *testing.T) {
	table := teams.New()
	if league := DetectLeague("Will the Suns beat the Heat tonight", table, []string{"nba", "nfl"}); league != "nba" {
		t.Errorf("DetectLeague = %q, want nba", league)
	}
	if league := DetectLeague("Weather forecast for tomorrow", table, []string{"nba", "nfl"}); league != "" {
		t.Errorf("DetectLeague = %q, want empty", league)
	}
}
