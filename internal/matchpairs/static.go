package matchpairs

import (
	"strings"

	"github.com/rmcole/binscan/pkg/types"
)

// StaticEntry is one row of the static catalog (market-mappings.json's "static"
// array): a hand-curated correspondence between a venue-A slug and a venue-B
// ticker that never needs date-templating or fuzzy scoring.
type StaticEntry struct {
	Name         string
	Category     string
	VenueASlug   string
	VenueBTicker string
	VenueBSeries string // optional, used when the ticker is part of a series
}

// StaticCatalog resolves exact slug/ticker lookups, case-folded per venue
// convention (slugs compare lowercase, tickers compare uppercase).
type StaticCatalog struct {
	bySlug   map[string]StaticEntry
	byTicker map[string]StaticEntry
}

// NewStaticCatalog builds a catalog from the parsed market-mappings.json entries.
func NewStaticCatalog(entries []StaticEntry) *StaticCatalog {
	c := &StaticCatalog{
		bySlug:   make(map[string]StaticEntry, len(entries)),
		byTicker: make(map[string]StaticEntry, len(entries)),
	}
	for _, e := range entries {
		c.bySlug[strings.ToLower(e.VenueASlug)] = e
		c.byTicker[strings.ToUpper(e.VenueBTicker)] = e
	}
	return c
}

// Find looks up the counterpart of identifier on the given venue, returning
// the fully-populated MatchedPair on success.
func (c *StaticCatalog) Find(identifier string, venue types.Venue) (types.MatchedPair, bool) {
	switch venue {
	case types.VenueA:
		entry, ok := c.bySlug[strings.ToLower(identifier)]
		if !ok {
			return types.MatchedPair{}, false
		}
		return toMatchedPair(entry), true
	case types.VenueB:
		entry, ok := c.byTicker[strings.ToUpper(identifier)]
		if !ok {
			return types.MatchedPair{}, false
		}
		return toMatchedPair(entry), true
	default:
		return types.MatchedPair{}, false
	}
}

func toMatchedPair(e StaticEntry) types.MatchedPair {
	return types.MatchedPair{
		Name:             e.Name,
		Category:         e.Category,
		VenueAIdentifier: strings.ToLower(e.VenueASlug),
		VenueBIdentifier: strings.ToUpper(e.VenueBTicker),
		MatchType:        types.MatchStatic,
	}
}

// Entries returns every catalog entry, for pre-seeding a scan's candidate list.
func (c *StaticCatalog) Entries() []StaticEntry {
	out := make([]StaticEntry, 0, len(c.bySlug))
	for _, e := range c.bySlug {
		out = append(out, e)
	}
	return out
}
