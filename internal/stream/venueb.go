package stream

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rmcole/binscan/internal/orderbook"
	"github.com/rmcole/binscan/pkg/types"
	wsutil "github.com/rmcole/binscan/pkg/websocket"
	"go.uber.org/zap"
)

// venueBSnapshotMsg seeds a market's authoritative cents-keyed level maps.
type venueBSnapshotMsg struct {
	Type       string                    `json:"type"`
	Ticker     string                    `json:"market_ticker"`
	Seq        int64                     `json:"seq"`
	YesDollars []types.VenueBLevelTuple `json:"yes_dollars"`
	NoDollars  []types.VenueBLevelTuple `json:"no_dollars"`
}

// venueBDeltaMsg mutates one level of one side by a signed quantity delta;
// the level is removed once its quantity reaches zero.
type venueBDeltaMsg struct {
	Type       string `json:"type"`
	Ticker     string `json:"market_ticker"`
	Seq        int64  `json:"seq"`
	Side       string `json:"side"` // "yes" or "no"
	PriceCents int    `json:"price"`
	Delta      float64 `json:"delta"`
}

// venueBRaw holds the cents-keyed level maps a snapshot seeds and deltas
// mutate; rebuilding the UnifiedOrderBook from these on every change reuses
// orderbook.ParseVenueB's complement-derivation math instead of duplicating it.
type venueBRaw struct {
	yesDollars map[int]float64 // price cents -> qty (bids)
	noDollars  map[int]float64
}

func (r *venueBRaw) toRawBook() types.VenueBRawBook {
	return types.VenueBRawBook{
		YesDollars: tuplesFromMap(r.yesDollars),
		NoDollars:  tuplesFromMap(r.noDollars),
	}
}

func tuplesFromMap(m map[int]float64) []types.VenueBLevelTuple {
	out := make([]types.VenueBLevelTuple, 0, len(m))
	for cents, qty := range m {
		out = append(out, types.VenueBLevelTuple{Price: strconv.Itoa(cents), Qty: qty})
	}
	return out
}

// VenueBStream owns venue B's snapshot+delta WebSocket connection: one
// socket subscribed by ticker, tracking seq per market to detect gaps per
// the §4.9 state machine. The socket is dialed without any authentication
// header; config.VenueBAuthToken is not passed to it.
type VenueBStream struct {
	url      string
	registry *MarketPairRegistry
	books    *BookStore
	updates  chan<- PairID

	reconnect *wsutil.ReconnectManager
	logger    *zap.Logger

	mu   sync.Mutex
	conn *websocket.Conn
	raw  map[PairID]*venueBRaw
}

// NewVenueBStream returns a stream worker that dials url and publishes a
// PairID to updates whenever a subscribed market's book changes.
func NewVenueBStream(url string, registry *MarketPairRegistry, books *BookStore, updates chan<- PairID, logger *zap.Logger) *VenueBStream {
	reconnectCfg := wsutil.ReconnectConfig{
		InitialDelay:      time.Second,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2,
		JitterPercent:     0.2,
	}
	return &VenueBStream{
		url:       url,
		registry:  registry,
		books:     books,
		updates:   updates,
		reconnect: wsutil.NewReconnectManager(reconnectCfg, "B", logger),
		logger:    logger,
		raw:       make(map[PairID]*venueBRaw),
	}
}

// Run dials the socket, subscribes to every registered pair's ticker, and
// reads until ctx is canceled, reconnecting and resubscribing on disconnect.
func (s *VenueBStream) Run(ctx context.Context) error {
	if err := s.connectAndSubscribe(ctx); err != nil {
		return fmt.Errorf("initial connection: %w", err)
	}

	for {
		err := s.readLoop(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("venue-b-stream-disconnected", zap.Error(err))
		s.desyncAll()

		reconnectErr := s.reconnect.Reconnect(ctx, s.connectAndSubscribe)
		if reconnectErr != nil {
			return reconnectErr
		}
	}
}

func (s *VenueBStream) connectAndSubscribe(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	wsutil.ActiveConnections.Set(1)

	tickers := make([]string, 0)
	for _, rp := range s.registry.All() {
		s.books.MarkSubscribing(rp.ID)
		if rp.TickerB != "" {
			tickers = append(tickers, rp.TickerB)
		}
	}
	if len(tickers) == 0 {
		return nil
	}

	msg := map[string]interface{}{"channel": "orderbook_delta", "market_tickers": tickers}
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	s.logger.Info("venue-b-stream-subscribed", zap.Int("ticker-count", len(tickers)))
	return nil
}

func (s *VenueBStream) desyncAll() {
	wsutil.ActiveConnections.Set(0)
	for _, rp := range s.registry.All() {
		s.books.MarkDesynced(rp.ID)
	}
}

func (s *VenueBStream) readLoop(ctx context.Context) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
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

		var envelope struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			s.logger.Debug("venue-b-unparseable-message", zap.Error(err))
			continue
		}

		switch envelope.Type {
		case "orderbook_snapshot":
			var msg venueBSnapshotMsg
			if err := json.Unmarshal(raw, &msg); err != nil {
				continue
			}
			s.handleSnapshot(msg)
		case "orderbook_delta":
			var msg venueBDeltaMsg
			if err := json.Unmarshal(raw, &msg); err != nil {
				continue
			}
			s.handleDelta(msg)
		default:
			s.logger.Debug("venue-b-control-message", zap.String("type", envelope.Type))
		}
	}
}

func (s *VenueBStream) handleSnapshot(msg venueBSnapshotMsg) {
	wsutil.MessagesReceivedTotal.WithLabelValues("orderbook_snapshot").Inc()
	id, ok := s.registry.ByTickerB(msg.Ticker)
	if !ok {
		return
	}

	r := &venueBRaw{yesDollars: make(map[int]float64), noDollars: make(map[int]float64)}
	for _, t := range msg.YesDollars {
		if cents, err := strconv.Atoi(t.Price); err == nil {
			r.yesDollars[cents] = t.Qty
		}
	}
	for _, t := range msg.NoDollars {
		if cents, err := strconv.Atoi(t.Price); err == nil {
			r.noDollars[cents] = t.Qty
		}
	}

	s.mu.Lock()
	s.raw[id] = r
	s.mu.Unlock()

	book := orderbook.ParseVenueB(msg.Ticker, r.toRawBook(), time.Now())
	s.books.ApplySnapshot(id, book, msg.Seq)
	s.notify(id)
}

func (s *VenueBStream) handleDelta(msg venueBDeltaMsg) {
	wsutil.MessagesReceivedTotal.WithLabelValues("orderbook_delta").Inc()
	id, ok := s.registry.ByTickerB(msg.Ticker)
	if !ok {
		return
	}

	s.mu.Lock()
	r, ok := s.raw[id]
	if !ok {
		s.mu.Unlock()
		s.books.MarkDesynced(id)
		return
	}
	levels := r.yesDollars
	if msg.Side == "no" {
		levels = r.noDollars
	}
	newQty := levels[msg.PriceCents] + msg.Delta
	if newQty <= 0 {
		delete(levels, msg.PriceCents)
	} else {
		levels[msg.PriceCents] = newQty
	}
	book := orderbook.ParseVenueB(msg.Ticker, r.toRawBook(), time.Now())
	s.mu.Unlock()

	if !s.books.ApplyDelta(id, book, msg.Seq) {
		s.books.MarkDesynced(id)
		SeqGapsTotal.Inc()
		s.logger.Warn("venue-b-seq-gap", zap.String("ticker", msg.Ticker), zap.Int64("seq", msg.Seq))
		return
	}
	s.notify(id)
}

func (s *VenueBStream) notify(id PairID) {
	select {
	case s.updates <- id:
	default:
		wsutil.MessagesDroppedTotal.WithLabelValues("channel_full").Inc()
	}
}

// Close closes the underlying connection, if any.
func (s *VenueBStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
