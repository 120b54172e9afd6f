package types

import "time"

// Venue tags which of the two exchanges a reference belongs to.
type Venue string

const (
	VenueA Venue = "A"
	VenueB Venue = "B"
)

// EventRef identifies an event (a grouping of related binary markets) on one venue.
type EventRef struct {
	Venue    Venue
	ID       string
	Slug     string // venue-A slug or venue-B event_ticker
	Title    string
	Category string
}

// MarketRef identifies a single binary market belonging to an EventRef, with
// prices already normalized to [0,1].
type MarketRef struct {
	Venue      Venue
	ID         string
	Question   string
	EventID    string
	EndTime    time.Time
	YesPrice   float64
	NoPrice    float64
	YesTokenID string // venue-A clob token id for the YES outcome
	NoTokenID  string // venue-A clob token id for the NO outcome
	Ticker     string // venue-B market ticker
}

// MatchType records which resolver produced a MatchedPair.
type MatchType string

const (
	MatchStatic  MatchType = "static"
	MatchDynamic MatchType = "dynamic"
	MatchGame    MatchType = "game"
	MatchFuzzy   MatchType = "fuzzy"
)

// MatchedPair is an event-level correspondence between the two venues, produced
// by the pair resolver before any market-level alignment has happened.
type MatchedPair struct {
	Name             string
	Category         string
	VenueAIdentifier string // slug
	VenueBIdentifier string // ticker or series ticker
	Date             *time.Time
	MatchType        MatchType
}

// MarketPair aligns one binary market on venue A with its counterpart on venue B.
type MarketPair struct {
	Matched MatchedPair

	QuestionA string
	QuestionB string

	YesPriceA float64
	NoPriceA  float64
	YesPriceB float64
	NoPriceB  float64

	YesTokenIDA string
	NoTokenIDA  string
	TickerB     string

	Confidence float64
	Spread     float64 // |yesA - yesB|
}
