package stream

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rmcole/binscan/internal/arbitrage"
	"github.com/rmcole/binscan/internal/liquidity"
	"github.com/rmcole/binscan/pkg/types"
	"go.uber.org/zap"
)

// EventType names the kind of update the aggregator publishes.
type EventType string

const (
	EventOpportunity       EventType = "opportunity"
	EventOpportunityClosed EventType = "opportunity_closed"
	EventOrderbookUpdate   EventType = "orderbook_update"
)

// Event is one aggregator-published update for a single pair.
type Event struct {
	Type        EventType
	PairID      PairID
	Opportunity *types.ArbitrageOpportunity
	Liquidity   *types.LiquidityAnalysis
}

const epsilonProfitPct = 0.01 // below this, a ProfitPct change doesn't warrant a new event; a MaxContracts change alone never triggers one

// Aggregator listens for book-update notifications from both venue streams
// and, debounced per pair by DEBOUNCE_MS, reevaluates the pair's arbitrage
// opportunity through the same calculator+liquidity pipeline the batch scan
// uses (§4.6-4.7), publishing opportunity/opportunity_closed/orderbook_update
// events.
type Aggregator struct {
	registry *MarketPairRegistry
	booksA   *BookStore
	booksB   *BookStore

	arbCfg   arbitrage.Config
	liqCfg   liquidity.Config
	debounce time.Duration

	events chan Event
	logger *zap.Logger

	mu     sync.Mutex
	timers map[PairID]*time.Timer
	active map[PairID]types.ArbitrageOpportunity // last-published opportunity per pair, for diffing
}

// NewAggregator returns an Aggregator publishing to a buffered Events channel.
func NewAggregator(registry *MarketPairRegistry, booksA, booksB *BookStore, arbCfg arbitrage.Config, liqCfg liquidity.Config, debounce time.Duration, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		registry: registry,
		booksA:   booksA,
		booksB:   booksB,
		arbCfg:   arbCfg,
		liqCfg:   liqCfg,
		debounce: debounce,
		events:   make(chan Event, 256),
		logger:   logger,
		timers:   make(map[PairID]*time.Timer),
		active:   make(map[PairID]types.ArbitrageOpportunity),
	}
}

// Events returns the channel of published updates.
func (a *Aggregator) Events() <-chan Event {
	return a.events
}

// Run consumes update notifications until ctx is canceled or updates closes.
func (a *Aggregator) Run(ctx context.Context, updates <-chan PairID) {
	for {
		select {
		case <-ctx.Done():
			a.cancelAllTimers()
			return
		case id, ok := <-updates:
			if !ok {
				return
			}
			a.schedule(ctx, id)
		}
	}
}

// schedule debounces reevaluation for id: further notifications within
// a.debounce coalesce into the same pending timer.
func (a *Aggregator) schedule(ctx context.Context, id PairID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if t, exists := a.timers[id]; exists {
		t.Stop()
	}
	a.timers[id] = time.AfterFunc(a.debounce, func() {
		a.mu.Lock()
		delete(a.timers, id)
		a.mu.Unlock()
		a.reevaluate(id)
	})
}

func (a *Aggregator) cancelAllTimers() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, t := range a.timers {
		t.Stop()
	}
}

// reevaluate looks up both authoritative books for id and runs the
// calculator+liquidity pipeline, publishing whichever event the result
// implies.
func (a *Aggregator) reevaluate(id PairID) {
	DebouncedReevaluationsTotal.Inc()
	rp, ok := a.registry.Get(id)
	if !ok {
		return
	}
	bookA, okA := a.booksA.Book(id)
	bookB, okB := a.booksB.Book(id)

	a.publish(Event{Type: EventOrderbookUpdate, PairID: id})

	if !okA || !okB || len(bookA.YesAsks) == 0 || len(bookB.YesAsks) == 0 {
		a.closeIfActive(id)
		return
	}

	pair := types.MarketPair{
		Matched:     rp.Matched,
		QuestionA:   rp.QuestionA,
		QuestionB:   rp.QuestionB,
		YesPriceA:   bookA.YesAsks[0].Price,
		YesPriceB:   bookB.YesAsks[0].Price,
		YesTokenIDA: rp.YesTokenIDA,
		NoTokenIDA:  rp.NoTokenIDA,
		TickerB:     rp.TickerB,
	}

	opp, ok := arbitrage.Calculate(a.arbCfg, pair, time.Now())
	if !ok {
		a.closeIfActive(id)
		return
	}

	analysis := liquidity.Analyze(a.liqCfg, opp, bookA, bookB, time.Now())

	a.mu.Lock()
	prev, hadPrev := a.active[id]
	a.active[id] = opp
	a.mu.Unlock()

	if hadPrev && !changedBeyondEpsilon(prev, opp) {
		return
	}
	a.publish(Event{Type: EventOpportunity, PairID: id, Opportunity: &opp, Liquidity: &analysis})
}

func (a *Aggregator) closeIfActive(id PairID) {
	a.mu.Lock()
	_, hadPrev := a.active[id]
	delete(a.active, id)
	a.mu.Unlock()

	if hadPrev {
		a.publish(Event{Type: EventOpportunityClosed, PairID: id})
	}
}

func changedBeyondEpsilon(prev, next types.ArbitrageOpportunity) bool {
	if prev.Type != next.Type {
		return true
	}
	return math.Abs(prev.ProfitPct-next.ProfitPct) > epsilonProfitPct
}

func (a *Aggregator) publish(evt Event) {
	EventsPublishedTotal.WithLabelValues(string(evt.Type)).Inc()
	select {
	case a.events <- evt:
	default:
		a.logger.Warn("aggregator-events-channel-full", zap.String("pair", string(evt.PairID)))
	}
}
