// Package stream implements the real-time streaming engine (§4.9): one
// dedicated WebSocket worker per venue maintaining an authoritative book per
// subscribed market, and a debounced aggregator that reevaluates a pair's
// arbitrage opportunity whenever either side's book changes.
package stream

import (
	"sync"

	"github.com/rmcole/binscan/pkg/types"
)

// PairID identifies one subscribed market pair across both venue streams.
type PairID string

// RegisteredPair is one market pair the streaming engine subscribes to:
// venue-A's YES/NO token ids and venue-B's ticker, plus the matched-pair
// metadata needed to reconstruct a MarketPair for reevaluation.
type RegisteredPair struct {
	ID          PairID
	YesTokenIDA string
	NoTokenIDA  string
	TickerB     string
	QuestionA   string
	QuestionB   string
	Matched     types.MatchedPair
}

// MarketPairRegistry maps pair id <-> venue-B ticker <-> venue-A YES/NO token
// ids, so each venue stream worker can resolve an inbound message's asset id
// or ticker back to the pair it belongs to (§4.9).
type MarketPairRegistry struct {
	mu         sync.RWMutex
	pairs      map[PairID]RegisteredPair
	byYesToken map[string]PairID
	byNoToken  map[string]PairID
	byTicker   map[string]PairID
}

// NewMarketPairRegistry returns an empty registry.
func NewMarketPairRegistry() *MarketPairRegistry {
	return &MarketPairRegistry{
		pairs:      make(map[PairID]RegisteredPair),
		byYesToken: make(map[string]PairID),
		byNoToken:  make(map[string]PairID),
		byTicker:   make(map[string]PairID),
	}
}

// pairIDFor derives a stable id for a MarketPair from its venue-A token ids,
// which are unique per binary market.
func pairIDFor(p types.MarketPair) PairID {
	return PairID(p.YesTokenIDA + "|" + p.NoTokenIDA)
}

// Replace atomically replaces the registry contents with the pairs found by
// the most recent batch scan, so the streaming engine's subscription set
// tracks whatever the orchestrator most recently matched.
func (r *MarketPairRegistry) Replace(marketPairs []types.MarketPair) []RegisteredPair {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pairs = make(map[PairID]RegisteredPair, len(marketPairs))
	r.byYesToken = make(map[string]PairID, len(marketPairs))
	r.byNoToken = make(map[string]PairID, len(marketPairs))
	r.byTicker = make(map[string]PairID, len(marketPairs))

	out := make([]RegisteredPair, 0, len(marketPairs))
	for _, p := range marketPairs {
		if p.YesTokenIDA == "" || p.TickerB == "" {
			continue
		}
		rp := RegisteredPair{
			ID:          pairIDFor(p),
			YesTokenIDA: p.YesTokenIDA,
			NoTokenIDA:  p.NoTokenIDA,
			TickerB:     p.TickerB,
			QuestionA:   p.QuestionA,
			QuestionB:   p.QuestionB,
			Matched:     p.Matched,
		}
		r.pairs[rp.ID] = rp
		r.byYesToken[rp.YesTokenIDA] = rp.ID
		if rp.NoTokenIDA != "" {
			r.byNoToken[rp.NoTokenIDA] = rp.ID
		}
		r.byTicker[rp.TickerB] = rp.ID
		out = append(out, rp)
	}
	return out
}

// ByYesTokenA resolves a venue-A YES token id to its pair id.
func (r *MarketPairRegistry) ByYesTokenA(tokenID string) (PairID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byYesToken[tokenID]
	return id, ok
}

// ByNoTokenA resolves a venue-A NO token id to its pair id.
func (r *MarketPairRegistry) ByNoTokenA(tokenID string) (PairID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byNoToken[tokenID]
	return id, ok
}

// ByTickerB resolves a venue-B ticker to its pair id.
func (r *MarketPairRegistry) ByTickerB(ticker string) (PairID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byTicker[ticker]
	return id, ok
}

// Get returns the registered pair for id.
func (r *MarketPairRegistry) Get(id PairID) (RegisteredPair, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rp, ok := r.pairs[id]
	return rp, ok
}

// All returns every registered pair, for building the initial subscription set.
func (r *MarketPairRegistry) All() []RegisteredPair {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]RegisteredPair, 0, len(r.pairs))
	for _, rp := range r.pairs {
		out = append(out, rp)
	}
	return out
}
