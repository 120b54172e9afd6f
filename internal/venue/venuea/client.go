// Package venuea implements the venue capability set against venue A's
// decimal-price, token-id REST API.
package venuea

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

// Client talks to venue A's event-discovery and order-book endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retryCfg   retry.Config
	logger     *zap.Logger
}

// NewClient returns a venue-A client against baseURL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retryCfg:   retry.DefaultConfig(logger),
		logger:     logger,
	}
}

func (c *Client) Venue() types.Venue { return types.VenueA }

// eventResponse mirrors GET /events?slug=<slug>: an event with an embedded
// markets array whose outcomes/outcomePrices/clobTokenIds fields are
// themselves JSON-encoded strings.
type eventResponse struct {
	ID       string          `json:"id"`
	Slug     string          `json:"slug"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Markets  []marketPayload `json:"markets"`
}

type marketPayload struct {
	ID             string `json:"id"`
	Question       string `json:"question"`
	EndDateISO     string `json:"endDate"`
	Outcomes       string `json:"outcomes"`
	OutcomePrices  string `json:"outcomePrices"`
	ClobTokenIDs   string `json:"clobTokenIds"`
}

// FetchEvent fetches GET /events?slug=<identifier> and flattens it into an
// EventRef plus its binary MarketRefs.
func (c *Client) FetchEvent(ctx context.Context, identifier string) (types.EventRef, []types.MarketRef, error) {
	requestURL := fmt.Sprintf("%s/events?%s", c.baseURL, url.Values{"slug": []string{identifier}}.Encode())

	var events []eventResponse
	var transportErr error
	err := retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		body, status, doErr := c.get(ctx, requestURL)
		if doErr != nil {
			return doErr
		}
		if status == http.StatusTooManyRequests {
			return fmt.Errorf("venue-a: rate limited fetching event %q", identifier)
		}
		if status != http.StatusOK {
			// Non-429 transport failure: surfaces to the caller, which skips
			// this pair (§7), rather than burning the 429 backoff schedule.
			transportErr = fmt.Errorf("venue-a: unexpected status %d fetching event %q", status, identifier)
			return nil
		}
		return json.Unmarshal(body, &events)
	})
	if err != nil {
		return types.EventRef{}, nil, fmt.Errorf("fetch event %q: %w", identifier, err)
	}
	if transportErr != nil {
		return types.EventRef{}, nil, transportErr
	}
	if len(events) == 0 {
		return types.EventRef{}, nil, fmt.Errorf("venue-a: event %q not found", identifier)
	}

	raw := events[0]
	event := types.EventRef{
		Venue:    types.VenueA,
		ID:       raw.ID,
		Slug:     raw.Slug,
		Title:    raw.Title,
		Category: raw.Category,
	}

	markets := make([]types.MarketRef, 0, len(raw.Markets))
	for _, m := range raw.Markets {
		market, ok := parseBinaryMarket(raw.ID, m)
		if !ok {
			continue
		}
		markets = append(markets, market)
	}
	return event, markets, nil
}

// ListEvents fetches GET /events?limit=<limit>&active=true, returning every
// event's flattened EventRef and binary MarketRefs so the blocking index can
// be seeded without a per-event round-trip. This satisfies the venue.Lister
// capability; it is not part of the static/dynamic/sports-game resolution
// paths, which only ever call FetchEvent.
func (c *Client) ListEvents(ctx context.Context, limit int) ([]venue.ListedEvent, error) {
	requestURL := fmt.Sprintf("%s/events?%s", c.baseURL, url.Values{
		"limit":  []string{strconv.Itoa(limit)},
		"active": []string{"true"},
	}.Encode())

	var events []eventResponse
	var transportErr error
	err := retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		body, status, doErr := c.get(ctx, requestURL)
		if doErr != nil {
			return doErr
		}
		if status == http.StatusTooManyRequests {
			return fmt.Errorf("venue-a: rate limited listing events")
		}
		if status != http.StatusOK {
			transportErr = fmt.Errorf("venue-a: unexpected status %d listing events", status)
			return nil
		}
		return json.Unmarshal(body, &events)
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if transportErr != nil {
		return nil, fmt.Errorf("list events: %w", transportErr)
	}

	out := make([]venue.ListedEvent, 0, len(events))
	for _, raw := range events {
		event := types.EventRef{
			Venue:    types.VenueA,
			ID:       raw.ID,
			Slug:     raw.Slug,
			Title:    raw.Title,
			Category: raw.Category,
		}
		markets := make([]types.MarketRef, 0, len(raw.Markets))
		for _, m := range raw.Markets {
			if market, ok := parseBinaryMarket(raw.ID, m); ok {
				markets = append(markets, market)
			}
		}
		out = append(out, venue.ListedEvent{Event: event, Markets: markets})
	}
	return out, nil
}

// parseBinaryMarket decodes a market's JSON-encoded-string fields and keeps
// only markets with exactly two outcomes (YES/NO), per the binary-markets
// scope of this scanner.
func parseBinaryMarket(eventID string, m marketPayload) (types.MarketRef, bool) {
	var outcomes []string
	var pricesStr []string
	var tokenIDs []string

	if err := json.Unmarshal([]byte(m.Outcomes), &outcomes); err != nil {
		return types.MarketRef{}, false
	}
	if err := json.Unmarshal([]byte(m.OutcomePrices), &pricesStr); err != nil {
		return types.MarketRef{}, false
	}
	if err := json.Unmarshal([]byte(m.ClobTokenIDs), &tokenIDs); err != nil {
		return types.MarketRef{}, false
	}
	if len(outcomes) != 2 || len(pricesStr) != 2 || len(tokenIDs) != 2 {
		return types.MarketRef{}, false
	}

	prices := make([]float64, 2)
	for i, s := range pricesStr {
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return types.MarketRef{}, false
		}
		prices[i] = p
	}

	yesIdx, noIdx := 0, 1
	if len(outcomes[0]) > 0 && outcomes[0][0] == 'N' {
		yesIdx, noIdx = 1, 0
	}

	endTime, _ := time.Parse(time.RFC3339, m.EndDateISO)

	return types.MarketRef{
		Venue:      types.VenueA,
		ID:         m.ID,
		Question:   m.Question,
		EventID:    eventID,
		EndTime:    endTime,
		YesPrice:   prices[yesIdx],
		NoPrice:    prices[noIdx],
		YesTokenID: tokenIDs[yesIdx],
		NoTokenID:  tokenIDs[noIdx],
	}, true
}

// FetchOrderBook fetches both token books (YES, NO) and builds a composite
// UnifiedOrderBook.
func (c *Client) FetchOrderBook(ctx context.Context, market types.MarketRef) (types.UnifiedOrderBook, error) {
	yesRaw, err := c.fetchTokenBook(ctx, market.YesTokenID)
	if err != nil {
		c.logger.Warn("venue-a-book-degraded", zap.String("token", market.YesTokenID), zap.Error(err))
		yesRaw = types.VenueARawBook{}
	}
	noRaw, err := c.fetchTokenBook(ctx, market.NoTokenID)
	if err != nil {
		c.logger.Warn("venue-a-book-degraded", zap.String("token", market.NoTokenID), zap.Error(err))
		noRaw = types.VenueARawBook{}
	}
	return orderbook.ParseVenueA(market.ID, yesRaw, noRaw, time.Now()), nil
}

func (c *Client) fetchTokenBook(ctx context.Context, tokenID string) (types.VenueARawBook, error) {
	requestURL := fmt.Sprintf("%s/book?%s", c.baseURL, url.Values{"token_id": []string{tokenID}}.Encode())

	body, status, err := c.get(ctx, requestURL)
	if err != nil {
		return types.VenueARawBook{}, err
	}
	if status != http.StatusOK {
		return types.VenueARawBook{}, fmt.Errorf("venue-a: unexpected status %d fetching book for %q", status, tokenID)
	}

	var raw types.VenueARawBook
	if err := json.Unmarshal(body, &raw); err != nil {
		return types.VenueARawBook{}, fmt.Errorf("parse book for %q: %w", tokenID, err)
	}
	return raw, nil
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
