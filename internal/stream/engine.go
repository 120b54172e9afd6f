package stream

import (
	"context"
	"time"

	"github.com/rmcole/binscan/internal/arbitrage"
	"github.com/rmcole/binscan/internal/liquidity"
	"github.com/rmcole/binscan/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config tunes the streaming engine.
type Config struct {
	VenueAWSURL string
	VenueBWSURL string
	Debounce    time.Duration

	Arbitrage arbitrage.Config
	Liquidity liquidity.Config
}

// DefaultConfig returns the §6 default debounce of 100ms.
func DefaultConfig() Config {
	return Config{
		Debounce:  100 * time.Millisecond,
		Arbitrage: arbitrage.DefaultConfig(),
		Liquidity: liquidity.DefaultConfig(),
	}
}

// Engine owns both venue streams, the shared registry and book stores, and
// the aggregator that reevaluates pairs on update.
type Engine struct {
	cfg      Config
	registry *MarketPairRegistry
	booksA   *BookStore
	booksB   *BookStore

	streamA    *VenueAStream
	streamB    *VenueBStream
	aggregator *Aggregator

	updates chan PairID
	logger  *zap.Logger
}

// NewEngine builds an Engine. Subscribe must be called at least once
// (normally right after the first batch scan) before Run, or both streams
// start with an empty subscription set.
func NewEngine(cfg Config, logger *zap.Logger) *Engine {
	registry := NewMarketPairRegistry()
	booksA := NewBookStore()
	booksB := NewBookStore()
	updates := make(chan PairID, 1024)

	return &Engine{
		cfg:        cfg,
		registry:   registry,
		booksA:     booksA,
		booksB:     booksB,
		streamA:    NewVenueAStream(cfg.VenueAWSURL, registry, booksA, updates, logger),
		streamB:    NewVenueBStream(cfg.VenueBWSURL, registry, booksB, updates, logger),
		aggregator: NewAggregator(registry, booksA, booksB, cfg.Arbitrage, cfg.Liquidity, cfg.Debounce, logger),
		updates:    updates,
		logger:     logger,
	}
}

// Subscribe replaces the engine's subscription set with the MarketPairs from
// the most recent batch scan. Safe to call repeatedly; each stream picks up
// newly added pairs on its next reconnect/resubscribe cycle.
func (e *Engine) Subscribe(marketPairs []types.MarketPair) {
	registered := e.registry.Replace(marketPairs)
	e.logger.Info("stream-subscription-updated", zap.Int("pair-count", len(registered)))
}

// Events returns the aggregator's published event stream.
func (e *Engine) Events() <-chan Event {
	return e.aggregator.Events()
}

// Run starts both venue streams and the aggregator, returning when ctx is
// canceled or any component returns a non-context error.
func (e *Engine) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return e.streamA.Run(ctx) })
	g.Go(func() error { return e.streamB.Run(ctx) })
	g.Go(func() error {
		e.aggregator.Run(ctx, e.updates)
		return ctx.Err()
	})

	return g.Wait()
}

// Close closes both venue streams' underlying connections.
func (e *Engine) Close() error {
	errA := e.streamA.Close()
	errB := e.streamB.Close()
	if errA != nil {
		return errA
	}
	return errB
}
