// Package orderbook normalizes each venue's raw order-book response into a
// UnifiedOrderBook and exposes the complement-derivation math venue B
// requires.
package orderbook

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/rmcole/binscan/pkg/types"
	"github.com/shopspring/decimal"
)

// ErrRateLimited is returned by venue-B fetches on HTTP 429, per §4.5: it is
// re-thrown rather than degraded to an empty book so the caller's retry
// layer can back off and try again.
var ErrRateLimited = errors.New("orderbook: venue rate limited (HTTP 429)")

// ParseVenueA builds a UnifiedOrderBook from the YES-token and NO-token book
// responses of venue A's two-endpoint order-book API.
func ParseVenueA(marketID string, yesRaw, noRaw types.VenueARawBook, fetchedAt time.Time) types.UnifiedOrderBook {
	return types.UnifiedOrderBook{
		Venue:     types.VenueA,
		MarketID:  marketID,
		YesBids:   sortDescending(parseLevels(yesRaw.Bids)),
		YesAsks:   sortAscending(parseLevels(yesRaw.Asks)),
		NoBids:    sortDescending(parseLevels(noRaw.Bids)),
		NoAsks:    sortAscending(parseLevels(noRaw.Asks)),
		FetchedAt: fetchedAt,
	}
}

// ParseVenueB builds a UnifiedOrderBook from venue B's single-endpoint
// response, deriving each side's asks as the complement of the other side's
// bids: a NO bid of x implies a YES ask at 1-x, and symmetrically for NO
// asks from YES bids. The complement is computed in exact decimal arithmetic
// since venue B's prices are integer cents and a float64 subtraction can
// drift off the cent grid.
func ParseVenueB(marketID string, raw types.VenueBRawBook, fetchedAt time.Time) types.UnifiedOrderBook {
	yesBids := parseTuples(raw.YesDollars)
	noBids := parseTuples(raw.NoDollars)

	return types.UnifiedOrderBook{
		Venue:     types.VenueB,
		MarketID:  marketID,
		YesBids:   sortDescending(yesBids),
		NoAsks:    sortAscending(complementLevels(yesBids)),
		NoBids:    sortDescending(noBids),
		YesAsks:   sortAscending(complementLevels(noBids)),
		FetchedAt: fetchedAt,
	}
}

// CheckVenueBStatus maps an HTTP status code to ErrRateLimited for 429, or
// nil for any other status (including non-2xx, which callers degrade to an
// empty book per §4.5/§7).
func CheckVenueBStatus(statusCode int) error {
	if statusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	return nil
}

func parseLevels(raw []types.PriceLevel) []types.OrderBookLevel {
	out := make([]types.OrderBookLevel, 0, len(raw))
	for _, lvl := range raw {
		price, err := strconv.ParseFloat(lvl.Price, 64)
		if err != nil {
			continue
		}
		size, err := strconv.ParseFloat(lvl.Size, 64)
		if err != nil {
			continue
		}
		if size <= 0 || price <= 0 || price >= 1 {
			continue
		}
		out = append(out, types.OrderBookLevel{Price: price, Size: size})
	}
	return out
}

func parseTuples(raw []types.VenueBLevelTuple) []types.OrderBookLevel {
	out := make([]types.OrderBookLevel, 0, len(raw))
	for _, t := range raw {
		priceCents, err := strconv.ParseFloat(t.Price, 64)
		if err != nil {
			continue
		}
		price := priceCents / 100
		if t.Qty <= 0 || price <= 0 || price >= 1 {
			continue
		}
		out = append(out, types.OrderBookLevel{Price: price, Size: t.Qty})
	}
	return out
}

// complementLevels derives the opposite side's ask ladder from a bid ladder:
// ask.price = 1 - bid.price, computed in exact decimal arithmetic.
func complementLevels(bids []types.OrderBookLevel) []types.OrderBookLevel {
	one := decimal.NewFromInt(1)
	out := make([]types.OrderBookLevel, 0, len(bids))
	for _, b := range bids {
		bidPrice := decimal.NewFromFloat(b.Price)
		askPrice, _ := one.Sub(bidPrice).Float64()
		if askPrice <= 0 || askPrice >= 1 || b.Size <= 0 {
			continue
		}
		out = append(out, types.OrderBookLevel{Price: askPrice, Size: b.Size})
	}
	return out
}

func sortDescending(levels []types.OrderBookLevel) []types.OrderBookLevel {
	sort.Slice(levels, func(i, j int) bool { return levels[i].Price > levels[j].Price })
	return levels
}

func sortAscending(levels []types.OrderBookLevel) []types.OrderBookLevel {
	sort.Slice(levels, func(i, j int) bool { return levels[i].Price < levels[j].Price })
	return levels
}

// Validate checks the invariants §8 invariant 1 requires of a UnifiedOrderBook.
func Validate(book types.UnifiedOrderBook) error {
	if err := validateSide("yesBids", book.YesBids, false); err != nil {
		return err
	}
	if err := validateSide("yesAsks", book.YesAsks, true); err != nil {
		return err
	}
	if err := validateSide("noBids", book.NoBids, false); err != nil {
		return err
	}
	if err := validateSide("noAsks", book.NoAsks, true); err != nil {
		return err
	}
	return nil
}

func validateSide(name string, levels []types.OrderBookLevel, ascending bool) error {
	for i, lvl := range levels {
		if lvl.Price <= 0 || lvl.Price >= 1 {
			return fmt.Errorf("orderbook: %s[%d] price %v out of (0,1)", name, i, lvl.Price)
		}
		if lvl.Size <= 0 {
			return fmt.Errorf("orderbook: %s[%d] size %v not positive", name, i, lvl.Size)
		}
		if i == 0 {
			continue
		}
		if ascending && levels[i-1].Price > lvl.Price {
			return fmt.Errorf("orderbook: %s not ascending at index %d", name, i)
		}
		if !ascending && levels[i-1].Price < lvl.Price {
			return fmt.Errorf("orderbook: %s not descending at index %d", name, i)
		}
	}
	return nil
}
