// Package venueb implements the venue capability set against venue B's
// cent-price, ticker-keyed REST API.
package venueb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rmcole/binscan/internal/orderbook"
	"github.com/rmcole/binscan/internal/venue"
	"github.com/rmcole/binscan/pkg/retry"
	"github.com/rmcole/binscan/pkg/types"
	"go.uber.org/zap"
)

// Client talks to venue B's event-discovery and order-book endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retryCfg   retry.Config
	logger     *zap.Logger
}

// NewClient returns a venue-B client against baseURL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retryCfg:   retry.DefaultConfig(logger),
		logger:     logger,
	}
}

func (c *Client) Venue() types.Venue { return types.VenueB }

type eventsResponse struct {
	Events []eventPayload `json:"events"`
}

type eventPayload struct {
	EventTicker string          `json:"event_ticker"`
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	Markets     []marketPayload `json:"markets"`
}

type marketPayload struct {
	Ticker            string `json:"ticker"`
	Title             string `json:"title"`
	CloseTime         string `json:"close_time"`
	YesBidCents       int    `json:"yes_bid"`
	NoBidCents        int    `json:"no_bid"`
	LastPriceDollars  string `json:"last_price_dollars"`
}

// FetchEvent fetches GET /events?series_ticker=<S>&status=open&limit=100 and
// returns the event whose event_ticker matches identifier.
func (c *Client) FetchEvent(ctx context.Context, identifier string) (types.EventRef, []types.MarketRef, error) {
	requestURL := fmt.Sprintf("%s/events?%s", c.baseURL, url.Values{
		"series_ticker": []string{identifier},
		"status":        []string{"open"},
		"limit":         []string{"100"},
	}.Encode())

	var parsed eventsResponse
	var transportErr error
	err := retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		body, status, doErr := c.get(ctx, requestURL)
		if doErr != nil {
			return doErr
		}
		if rateErr := orderbook.CheckVenueBStatus(status); rateErr != nil {
			return rateErr
		}
		if status != http.StatusOK {
			// Non-429 transport failure: surfaces to the caller, which skips
			// this pair (§7), rather than burning the 429 backoff schedule.
			transportErr = fmt.Errorf("venue-b: unexpected status %d fetching event %q", status, identifier)
			return nil
		}
		return json.Unmarshal(body, &parsed)
	})
	if err != nil {
		return types.EventRef{}, nil, fmt.Errorf("fetch event %q: %w", identifier, err)
	}
	if transportErr != nil {
		return types.EventRef{}, nil, transportErr
	}

	for _, raw := range parsed.Events {
		if raw.EventTicker != identifier {
			continue
		}
		event := types.EventRef{
			Venue:    types.VenueB,
			ID:       raw.EventTicker,
			Slug:     raw.EventTicker,
			Title:    raw.Title,
			Category: raw.Category,
		}
		markets := make([]types.MarketRef, 0, len(raw.Markets))
		for _, m := range raw.Markets {
			markets = append(markets, parseMarket(raw.EventTicker, m))
		}
		return event, markets, nil
	}
	return types.EventRef{}, nil, fmt.Errorf("venue-b: event %q not found", identifier)
}

// ListEvents fetches GET /events?status=open&limit=<limit>, returning every
// event's flattened EventRef and MarketRefs so the blocking index can be
// seeded without a per-series round-trip. This satisfies the venue.Lister
// capability; it is not part of the static/dynamic/sports-game resolution
// paths, which only ever call FetchEvent.
func (c *Client) ListEvents(ctx context.Context, limit int) ([]venue.ListedEvent, error) {
	requestURL := fmt.Sprintf("%s/events?%s", c.baseURL, url.Values{
		"status": []string{"open"},
		"limit":  []string{strconv.Itoa(limit)},
	}.Encode())

	var parsed eventsResponse
	var transportErr error
	err := retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		body, status, doErr := c.get(ctx, requestURL)
		if doErr != nil {
			return doErr
		}
		if rateErr := orderbook.CheckVenueBStatus(status); rateErr != nil {
			return rateErr
		}
		if status != http.StatusOK {
			transportErr = fmt.Errorf("venue-b: unexpected status %d listing events", status)
			return nil
		}
		return json.Unmarshal(body, &parsed)
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if transportErr != nil {
		return nil, fmt.Errorf("list events: %w", transportErr)
	}

	out := make([]venue.ListedEvent, 0, len(parsed.Events))
	for _, raw := range parsed.Events {
		event := types.EventRef{
			Venue:    types.VenueB,
			ID:       raw.EventTicker,
			Slug:     raw.EventTicker,
			Title:    raw.Title,
			Category: raw.Category,
		}
		markets := make([]types.MarketRef, 0, len(raw.Markets))
		for _, m := range raw.Markets {
			markets = append(markets, parseMarket(raw.EventTicker, m))
		}
		out = append(out, venue.ListedEvent{Event: event, Markets: markets})
	}
	return out, nil
}

func parseMarket(eventID string, m marketPayload) types.MarketRef {
	yesPrice := float64(m.YesBidCents) / 100
	noPrice := float64(m.NoBidCents) / 100
	endTime, _ := time.Parse(time.RFC3339, m.CloseTime)

	return types.MarketRef{
		Venue:    types.VenueB,
		ID:       m.Ticker,
		Question: m.Title,
		EventID:  eventID,
		EndTime:  endTime,
		YesPrice: yesPrice,
		NoPrice:  noPrice,
		Ticker:   m.Ticker,
	}
}

// FetchOrderBook fetches GET /markets/<ticker>/orderbook and parses it via
// the complement-derivation logic in internal/orderbook.
func (c *Client) FetchOrderBook(ctx context.Context, market types.MarketRef) (types.UnifiedOrderBook, error) {
	requestURL := fmt.Sprintf("%s/markets/%s/orderbook", c.baseURL, url.PathEscape(market.Ticker))

	body, status, err := c.get(ctx, requestURL)
	if err != nil {
		return types.UnifiedOrderBook{}, err
	}
	if rateErr := orderbook.CheckVenueBStatus(status); rateErr != nil {
		return types.UnifiedOrderBook{}, rateErr
	}
	if status != http.StatusOK {
		c.logger.Warn("venue-b-book-degraded", zap.String("ticker", market.Ticker), zap.Int("status", status))
		return types.UnifiedOrderBook{Venue: types.VenueB, MarketID: market.Ticker, FetchedAt: time.Now()}, nil
	}

	var wrapper struct {
		Orderbook types.VenueBRawBook `json:"orderbook"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return types.UnifiedOrderBook{}, fmt.Errorf("parse order book for %q: %w", market.Ticker, err)
	}
	return orderbook.ParseVenueB(market.Ticker, wrapper.Orderbook, time.Now()), nil
}

func (c *Client) get(ctx context.Context, requestURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
