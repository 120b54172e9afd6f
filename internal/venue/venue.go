// Package venue declares the capability set every venue transport adapter
// implements, so the pair resolver and scan orchestrator depend only on the
// interface, never on a concrete REST client.
package venue

import (
	"context"

	"github.com/rmcole/binscan/pkg/types"
)

// Client is the capability set a venue transport adapter provides:
// fetchEventByIdentifier, fetchOrderBook and parseBook, per the dynamic
// dispatch design in §9 ("model as a capability set... implemented twice").
type Client interface {
	// FetchEvent resolves an event by its venue-native identifier (slug for
	// venue A, ticker for venue B) and returns the event plus its markets.
	FetchEvent(ctx context.Context, identifier string) (types.EventRef, []types.MarketRef, error)

	// FetchOrderBook fetches and parses the order book for one market.
	FetchOrderBook(ctx context.Context, market types.MarketRef) (types.UnifiedOrderBook, error)

	// Venue reports which exchange this client talks to.
	Venue() types.Venue
}

// ListedEvent pairs an EventRef with its markets, as returned by Lister, so
// blocking.BuildIndex has the title plus the per-market question tokens it
// needs without a second round-trip.
type ListedEvent struct {
	Event   types.EventRef
	Markets []types.MarketRef
}

// Lister is the optional capability a venue transport adapter provides for
// seeding the blocking index (§4.2) ahead of fuzzy matching: a page of
// recent/open events that haven't necessarily been through the static or
// dynamic resolvers yet. Unlike Client, this is not required for the static/
// dynamic/sports-game resolution paths, which only ever need FetchEvent.
type Lister interface {
	// ListEvents returns up to limit recently-active events.
	ListEvents(ctx context.Context, limit int) ([]ListedEvent, error)
}
