package stream

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rmcole/binscan/pkg/types"
	wsutil "github.com/rmcole/binscan/pkg/websocket"
	"go.uber.org/zap"
)

// VenueAStream owns venue A's price-change WebSocket connection: one socket
// subscribed by token id, updating the single-writer book map this worker
// owns. Modeled on the teacher's pkg/websocket.Manager read/ping/reconnect
// loop trio, specialized to venue A's per-token price-change deltas instead
// of a generic message channel consumer.
type VenueAStream struct {
	url      string
	registry *MarketPairRegistry
	books    *BookStore
	updates  chan<- PairID

	reconnect *wsutil.ReconnectManager
	logger    *zap.Logger

	mu   sync.RWMutex
	conn *websocket.Conn
}

// NewVenueAStream returns a stream worker that dials url and publishes a
// PairID to updates whenever a subscribed market's book changes.
func NewVenueAStream(url string, registry *MarketPairRegistry, books *BookStore, updates chan<- PairID, logger *zap.Logger) *VenueAStream {
	reconnectCfg := wsutil.ReconnectConfig{
		InitialDelay:      time.Second,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2,
		JitterPercent:     0.2,
	}
	return &VenueAStream{
		url:       url,
		registry:  registry,
		books:     books,
		updates:   updates,
		reconnect: wsutil.NewReconnectManager(reconnectCfg, "A", logger),
		logger:    logger,
	}
}

// Run dials the socket, subscribes to every registered pair's YES/NO token
// ids, and reads until ctx is canceled, reconnecting and resubscribing (with
// every subscribed market marked desynced) on unexpected disconnect.
func (s *VenueAStream) Run(ctx context.Context) error {
	if err := s.connectAndSubscribe(ctx); err != nil {
		return fmt.Errorf("initial connection: %w", err)
	}

	for {
		err := s.readLoop(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("venue-a-stream-disconnected", zap.Error(err))
		s.desyncAll()

		reconnectErr := s.reconnect.Reconnect(ctx, s.connectAndSubscribe)
		if reconnectErr != nil {
			return reconnectErr
		}
	}
}

func (s *VenueAStream) connectAndSubscribe(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	wsutil.ActiveConnections.Set(1)

	tokenIDs := make([]string, 0)
	for _, rp := range s.registry.All() {
		s.books.MarkSubscribing(rp.ID)
		if rp.YesTokenIDA != "" {
			tokenIDs = append(tokenIDs, rp.YesTokenIDA)
		}
		if rp.NoTokenIDA != "" {
			tokenIDs = append(tokenIDs, rp.NoTokenIDA)
		}
	}
	if len(tokenIDs) == 0 {
		return nil
	}

	msg := map[string]interface{}{"assets_ids": tokenIDs, "type": "market"}
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	s.logger.Info("venue-a-stream-subscribed", zap.Int("token-count", len(tokenIDs)))
	return nil
}

func (s *VenueAStream) desyncAll() {
	wsutil.ActiveConnections.Set(0)
	for _, rp := range s.registry.All() {
		s.books.MarkDesynced(rp.ID)
	}
}

func (s *VenueAStream) readLoop(ctx context.Context) error {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()
	if conn == nil {
		return fmt.Errorf("no active connection")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		var msgs []types.OrderbookMessage
		if err := json.Unmarshal(raw, &msgs); err != nil {
			s.logger.Debug("venue-a-unparseable-message", zap.Error(err))
			continue
		}
		for i := range msgs {
			s.handleMessage(&msgs[i])
		}
	}
}

func (s *VenueAStream) handleMessage(msg *types.OrderbookMessage) {
	wsutil.MessagesReceivedTotal.WithLabelValues(msg.EventType).Inc()

	yesID, isYes := s.registry.ByYesTokenA(msg.AssetID)
	noID, isNo := s.registry.ByNoTokenA(msg.AssetID)
	var id PairID
	var side string
	switch {
	case isYes:
		id, side = yesID, "yes"
	case isNo:
		id, side = noID, "no"
	default:
		return // asset id not part of any subscribed pair (stale confirmation, etc)
	}

	book, _ := s.books.Book(id)
	book.Venue = types.VenueA
	applySide(&book, side, msg)
	s.books.ApplyDeltaNoSeq(id, book)

	select {
	case s.updates <- id:
	default:
		wsutil.MessagesDroppedTotal.WithLabelValues("channel_full").Inc()
	}
}

// applySide replaces or merges one side's bids/asks, per event type: a
// "book" event is a full snapshot for that token, "price_change" upserts or
// removes individual levels (size 0 means removed).
func applySide(book *types.UnifiedOrderBook, side string, msg *types.OrderbookMessage) {
	bids := parsePriceLevels(msg.Bids)
	asks := parsePriceLevels(msg.Asks)

	switch msg.EventType {
	case "book":
		if side == "yes" {
			book.YesBids, book.YesAsks = sortDesc(bids), sortAsc(asks)
		} else {
			book.NoBids, book.NoAsks = sortDesc(bids), sortAsc(asks)
		}
	default: // price_change
		if side == "yes" {
			book.YesBids = mergeLevels(book.YesBids, bids, false)
			book.YesAsks = mergeLevels(book.YesAsks, asks, true)
		} else {
			book.NoBids = mergeLevels(book.NoBids, bids, false)
			book.NoAsks = mergeLevels(book.NoAsks, asks, true)
		}
	}
}

func parsePriceLevels(raw []types.PriceLevel) []types.OrderBookLevel {
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
		out = append(out, types.OrderBookLevel{Price: price, Size: size})
	}
	return out
}

// mergeLevels upserts each change into existing, removing a level when its
// size is 0, and re-sorts the result.
func mergeLevels(existing []types.OrderBookLevel, changes []types.OrderBookLevel, ascending bool) []types.OrderBookLevel {
	byPrice := make(map[float64]float64, len(existing))
	for _, lvl := range existing {
		byPrice[lvl.Price] = lvl.Size
	}
	for _, c := range changes {
		if c.Size <= 0 {
			delete(byPrice, c.Price)
			continue
		}
		byPrice[c.Price] = c.Size
	}
	out := make([]types.OrderBookLevel, 0, len(byPrice))
	for price, size := range byPrice {
		out = append(out, types.OrderBookLevel{Price: price, Size: size})
	}
	if ascending {
		return sortAsc(out)
	}
	return sortDesc(out)
}

func sortAsc(levels []types.OrderBookLevel) []types.OrderBookLevel {
	sort.Slice(levels, func(i, j int) bool { return levels[i].Price < levels[j].Price })
	return levels
}

func sortDesc(levels []types.OrderBookLevel) []types.OrderBookLevel {
	sort.Slice(levels, func(i, j int) bool { return levels[i].Price > levels[j].Price })
	return levels
}

// Close closes the underlying connection, if any.
func (s *VenueAStream) Close() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
