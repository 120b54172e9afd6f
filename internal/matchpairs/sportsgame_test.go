package matchpairs

import (
	"testing"
	"time"

	"github.com/rmcole/binscan/internal/teams"
	"github.com/rmcole/binscan/pkg/types"
)

// S2: sports-game synthesis, both directions.
func TestResolveSportsGame_S2(t *testing.T) {
	table := teams.New()

	pair, ok := ResolveSportsGame("nba-phx-mia-2026-01-13", types.VenueA, table)
	if !ok {
		t.Fatal("expected venue-A slug to resolve")
	}
	if pair.VenueBIdentifier != "KXNBAGAME-26JAN13PHXMIA" {
		t.Errorf("VenueBIdentifier = %q, want KXNBAGAME-26JAN13PHXMIA", pair.VenueBIdentifier)
	}

	pair2, ok := ResolveSportsGame("KXNBAGAME-26JAN13PHXMIA", types.VenueB, table)
	if !ok {
		t.Fatal("expected venue-B ticker to resolve")
	}
	if pair2.VenueAIdentifier != "nba-phx-mia-2026-01-13" {
		t.Errorf("VenueAIdentifier = %q, want nba-phx-mia-2026-01-13", pair2.VenueAIdentifier)
	}
}

func TestResolveSportsGame_UnknownTeamSkipped(t *testing.T) {
	table := teams.New()
	_, ok := ResolveSportsGame("nba-xyz-mia-2026-01-13", types.VenueA, table)
	if ok {
		t.Fatal("expected unknown team code to fail resolution")
	}
}

func TestSportsGame_GenerateRoundTrip(t *testing.T) {
	g := SportsGame{Away: "PHX", Home: "MIA", Date: time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC)}
	if got := g.GenerateVenueASlug(); got != "nba-phx-mia-2026-01-13" {
		t.Errorf("GenerateVenueASlug = %q", got)
	}
	if got := g.GenerateVenueBTicker(); got != "KXNBAGAME-26JAN13PHXMIA" {
		t.Errorf("GenerateVenueBTicker = %q", got)
	}
}
