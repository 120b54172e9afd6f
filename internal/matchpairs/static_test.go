package matchpairs

import (
	"testing"

	"github.com/rmcole/binscan/pkg/types"
)

func TestStaticCatalog_Find(t *testing.T) {
	cat := NewStaticCatalog([]StaticEntry{
		{Name: "US Recession 2025", Category: "econ", VenueASlug: "us-recession-in-2025", VenueBTicker: "KXRECESSION-25"},
	})

	pair, ok := cat.Find("US-Recession-In-2025", types.VenueA)
	if !ok {
		t.Fatal("expected slug lookup (case-insensitive) to succeed")
	}
	if pair.VenueBIdentifier != "KXRECESSION-25" {
		t.Errorf("VenueBIdentifier = %q", pair.VenueBIdentifier)
	}
	if pair.MatchType != types.MatchStatic {
		t.Errorf("MatchType = %v, want static", pair.MatchType)
	}

	pair2, ok := cat.Find("kxrecession-25", types.VenueB)
	if !ok {
		t.Fatal("expected ticker lookup (case-insensitive) to succeed")
	}
	if pair2.VenueAIdentifier != "us-recession-in-2025" {
		t.Errorf("VenueAIdentifier = %q", pair2.VenueAIdentifier)
	}
}

func TestStaticCatalog_Miss(t *testing.T) {
	cat := NewStaticCatalog(nil)
	if _, ok := cat.Find("anything", types.VenueA); ok {
		t.Error("expected miss on empty catalog")
	}
}
