package orderbook

import (
	"math"
	"net/http"
	"testing"
	"time"

	"github.com/rmcole/binscan/pkg/types"
)

func TestParseVenueA_DropsInvalidLevels(t *testing.T) {
	yes := types.VenueARawBook{
		Bids: []types.PriceLevel{
			{Price: "0.45", Size: "100"},
			{Price: "0.50", Size: "0"},    // dropped: zero size
			{Price: "1.5", Size: "10"},    // dropped: out of (0,1)
			{Price: "0.40", Size: "50"},
		},
		Asks: []types.PriceLevel{
			{Price: "0.47", Size: "200"},
			{Price: "0.46", Size: "150"},
		},
	}
	no := types.VenueARawBook{}

	book := ParseVenueA("mkt", yes, no, time.Now())
	if len(book.YesBids) != 2 {
		t.Fatalf("expected 2 valid bids, got %d", len(book.YesBids))
	}
	if err := Validate(book); err != nil {
		t.Errorf("Validate: %v", err)
	}
	// Bids descending.
	if book.YesBids[0].Price < book.YesBids[1].Price {
		t.Errorf("bids not descending: %+v", book.YesBids)
	}
	// Asks ascending.
	if book.YesAsks[0].Price > book.YesAsks[1].Price {
		t.Errorf("asks not ascending: %+v", book.YesAsks)
	}
}

// Invariant 2: venueB.yesAsks[i].price ≈ 1 - venueB.noBids[i].price.
func TestParseVenueB_ComplementDerivation(t *testing.T) {
	raw := types.VenueBRawBook{
		YesDollars: []types.VenueBLevelTuple{{Price: "55", Qty: 100}, {Price: "53", Qty: 50}},
		NoDollars:  []types.VenueBLevelTuple{{Price: "40", Qty: 80}},
	}

	book := ParseVenueB("mkt", raw, time.Now())
	if err := Validate(book); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if len(book.NoAsks) != 2 {
		t.Fatalf("expected 2 noAsks derived from yesBids, got %d", len(book.NoAsks))
	}
	if len(book.YesAsks) != 1 {
		t.Fatalf("expected 1 yesAsk derived from noBids, got %d", len(book.YesAsks))
	}

	wantYesAsk := 1 - 0.40
	if math.Abs(book.YesAsks[0].Price-wantYesAsk) > 1e-9 {
		t.Errorf("yesAsks[0].Price = %v, want %v", book.YesAsks[0].Price, wantYesAsk)
	}
}

func TestParseVenueB_CentsToUnitConversion(t *testing.T) {
	raw := types.VenueBRawBook{
		YesDollars: []types.VenueBLevelTuple{{Price: "45", Qty: 10}},
	}
	book := ParseVenueB("mkt", raw, time.Now())
	if math.Abs(book.YesBids[0].Price-0.45) > 1e-9 {
		t.Errorf("YesBids[0].Price = %v, want 0.45", book.YesBids[0].Price)
	}
}

func TestCheckVenueBStatus_RethrowsRateLimit(t *testing.T) {
	if err := CheckVenueBStatus(http.StatusTooManyRequests); err != ErrRateLimited {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
	if err := CheckVenueBStatus(http.StatusInternalServerError); err != nil {
		t.Errorf("expected nil for 500 (degrades to empty book), got %v", err)
	}
	if err := CheckVenueBStatus(http.StatusOK); err != nil {
		t.Errorf("expected nil for 200, got %v", err)
	}
}

func TestValidate_RejectsOutOfRangePrice(t *testing.T) {
	book := types.UnifiedOrderBook{
		YesBids: []types.OrderBookLevel{{Price: 1.5, Size: 1}},
	}
	if err := Validate(book); err == nil {
		t.Error("expected validation error for out-of-range price")
	}
}
