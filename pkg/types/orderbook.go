package types

import (
	"encoding/json"
	"strconv"
	"time"
)

// OrderBookLevel is one price/size level of a sorted order-book ladder.
// price and size are always strictly positive; callers that parse these from
// raw venue responses are responsible for dropping non-positive entries.
type OrderBookLevel struct {
	Price float64
	Size  float64
}

// UnifiedOrderBook is the venue-agnostic order-book snapshot produced by both
// per-venue parsers. yesBids/noBids are sorted descending by price; yesAsks/noAsks
// are sorted ascending.
type UnifiedOrderBook struct {
	Venue       Venue
	MarketID    string
	YesBids     []OrderBookLevel
	YesAsks     []OrderBookLevel
	NoBids      []OrderBookLevel
	NoAsks      []OrderBookLevel
	FetchedAt   time.Time
}

// OrderbookMessage represents a message from the venue-A WebSocket feed.
type OrderbookMessage struct {
	EventType string       `json:"event_type"` // "book", "price_change", "last_trade_price"
	AssetID   string       `json:"asset_id"`
	Market    string       `json:"market"`
	Timestamp int64        `json:"-"` // parsed from string via UnmarshalJSON
	Hash      string       `json:"hash,omitempty"`
	Bids      []PriceLevel `json:"bids,omitempty"`
	Asks      []PriceLevel `json:"asks,omitempty"`
}

// UnmarshalJSON handles venue-A's string-encoded timestamp field.
func (o *OrderbookMessage) UnmarshalJSON(data []byte) error {
	type Alias OrderbookMessage
	aux := &struct {
		TimestampStr string `json:"timestamp"`
		*Alias
	}{
		Alias: (*Alias)(o),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.TimestampStr != "" {
		timestamp, err := strconv.ParseInt(aux.TimestampStr, 10, 64)
		if err != nil {
			return err
		}
		o.Timestamp = timestamp
	}

	return nil
}

// PriceLevel is a single raw price level as returned by venue-A REST/WS, with
// price and size still string-encoded.
type PriceLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// VenueARawBook is the unparsed response of venue-A's GET /book?token_id=.
type VenueARawBook struct {
	Bids []PriceLevel `json:"bids"`
	Asks []PriceLevel `json:"asks"`
}

// VenueBRawBook is the unparsed response of venue-B's
// GET /markets/<ticker>/orderbook: two arrays of [priceStr, qty] tuples.
type VenueBRawBook struct {
	YesDollars []VenueBLevelTuple `json:"yes_dollars"`
	NoDollars  []VenueBLevelTuple `json:"no_dollars"`
}

// VenueBLevelTuple is one [priceStr, qty] tuple from venue B's order-book
// endpoint; qty is transmitted as a JSON number.
type VenueBLevelTuple struct {
	Price string
	Qty   float64
}

// UnmarshalJSON decodes a 2-element JSON array [priceStr, qty].
func (t *VenueBLevelTuple) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &t.Price); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &t.Qty)
}
