package stream

import (
	"sync"

	"github.com/rmcole/binscan/pkg/types"
)

// SyncState is one subscribed market's position in the §4.9 book state
// machine: unsubscribed -> subscribing -> synced <-> desynced, with error
// terminal per subscription.
type SyncState string

const (
	Unsubscribed SyncState = "unsubscribed"
	Subscribing  SyncState = "subscribing"
	Synced       SyncState = "synced"
	Desynced     SyncState = "desynced"
	Errored      SyncState = "error"
)

// bookEntry is one market's authoritative book plus its sync state and the
// last applied sequence number (venue-B only; venue-A deltas carry no seq).
type bookEntry struct {
	state   SyncState
	lastSeq int64
	book    types.UnifiedOrderBook
}

// BookStore is the single-writer-per-stream, read-many map of authoritative
// books a venue stream worker owns. One BookStore serves one venue.
type BookStore struct {
	mu      sync.RWMutex
	entries map[PairID]*bookEntry
}

// NewBookStore returns an empty BookStore.
func NewBookStore() *BookStore {
	return &BookStore{entries: make(map[PairID]*bookEntry)}
}

// MarkSubscribing transitions a market to subscribing, creating its entry if absent.
func (s *BookStore) MarkSubscribing(id PairID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		e = &bookEntry{}
		s.entries[id] = e
	}
	e.state = Subscribing
}

// ApplySnapshot records a fresh snapshot and transitions the market to synced.
func (s *BookStore) ApplySnapshot(id PairID, book types.UnifiedOrderBook, seq int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = &bookEntry{state: Synced, lastSeq: seq, book: book}
}

// ApplyDelta applies an already-mutated book for a market currently synced,
// advancing lastSeq, or reports a gap (false) if seq isn't lastSeq+1 — the
// caller is expected to transition the market to desynced on a gap.
func (s *BookStore) ApplyDelta(id PairID, book types.UnifiedOrderBook, seq int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || e.state != Synced {
		return false
	}
	if seq != e.lastSeq+1 {
		return false
	}
	e.book = book
	e.lastSeq = seq
	return true
}

// ApplyDeltaNoSeq applies a mutated book for venues whose deltas carry no
// sequence number (venue-A price-change events key off asset id only).
func (s *BookStore) ApplyDeltaNoSeq(id PairID, book types.UnifiedOrderBook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		e = &bookEntry{}
		s.entries[id] = e
	}
	e.state = Synced
	e.book = book
}

// MarkDesynced transitions a market to desynced, e.g. after a sequence gap.
func (s *BookStore) MarkDesynced(id PairID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		e = &bookEntry{}
		s.entries[id] = e
	}
	e.state = Desynced
}

// MarkError transitions a market to the terminal error state.
func (s *BookStore) MarkError(id PairID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		e = &bookEntry{}
		s.entries[id] = e
	}
	e.state = Errored
}

// State reports a market's current sync state, Unsubscribed if unknown.
func (s *BookStore) State(id PairID) SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return Unsubscribed
	}
	return e.state
}

// Book returns a market's authoritative book and whether it is currently synced.
func (s *BookStore) Book(id PairID) (types.UnifiedOrderBook, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok || e.state != Synced {
		return types.UnifiedOrderBook{}, false
	}
	return e.book, true
}
