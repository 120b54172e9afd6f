package scan

import (
	"sync"

	"github.com/rmcole/binscan/pkg/types"
)

// Holder is the single-writer/multi-reader, swap-by-reference cache for the
// published OpportunitiesSnapshot (§9 design notes): the orchestrator is the
// only writer, the HTTP server and any other reader call Get and never
// observe a partially-built snapshot.
type Holder struct {
	mu       sync.RWMutex
	snapshot types.OpportunitiesSnapshot
}

// NewHolder returns an empty Holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Get returns the most recently published snapshot, or the zero value before
// the first scan completes.
func (h *Holder) Get() types.OpportunitiesSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshot
}

// Set atomically replaces the published snapshot.
func (h *Holder) Set(snapshot types.OpportunitiesSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snapshot = snapshot
}

// PairsHolder is the same single-writer/multi-reader swap-by-reference
// pattern as Holder, for the MarketPairs built by the most recent scan.
type PairsHolder struct {
	mu    sync.RWMutex
	pairs []types.MarketPair
}

// NewPairsHolder returns an empty PairsHolder.
func NewPairsHolder() *PairsHolder {
	return &PairsHolder{}
}

// Get returns the MarketPairs from the most recently completed scan.
func (h *PairsHolder) Get() []types.MarketPair {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.pairs
}

// Set atomically replaces the published MarketPairs.
func (h *PairsHolder) Set(pairs []types.MarketPair) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pairs = pairs
}
