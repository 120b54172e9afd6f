package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/rmcole/binscan/pkg/types"
	"go.uber.org/zap"
)

// SnapshotSource is the read side of the scan orchestrator's snapshot cache
// (internal/scan.Holder's owner): single-writer/multi-reader, swap-by-
// reference, so Snapshot() never returns a partially-built result.
type SnapshotSource interface {
	Snapshot() types.OpportunitiesSnapshot
}

// PairsSource exposes the MarketPairs resolved by the most recent scan, for
// the /pairs inspection endpoint.
type PairsSource interface {
	MarketPairs() []types.MarketPair
}

// SnapshotHandler serves the cached OpportunitiesSnapshot and resolved
// MatchedPairs as read-only JSON.
type SnapshotHandler struct {
	snapshots SnapshotSource
	pairs     PairsSource
	logger    *zap.Logger
}

// NewSnapshotHandler returns a handler reading from snapshots and pairs.
func NewSnapshotHandler(snapshots SnapshotSource, pairs PairsSource, logger *zap.Logger) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots, pairs: pairs, logger: logger}
}

// HandleSnapshot handles GET /snapshot, returning the current
// OpportunitiesSnapshot as JSON.
func (h *SnapshotHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot := h.snapshots.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		h.logger.Error("snapshot-encode-failed", zap.Error(err))
	}
}

// pairDTO is the read-only projection of a resolved MarketPair's MatchedPair
// for /pairs; it omits the opaque per-venue order-book identifiers, which are
// an implementation detail of the streaming subscription, not a public API.
type pairDTO struct {
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	VenueAIdentifier string  `json:"venueAIdentifier"`
	VenueBIdentifier string  `json:"venueBIdentifier"`
	MatchType        string  `json:"matchType"`
	Confidence       float64 `json:"confidence"`
	Spread           float64 `json:"spread"`
}

// HandlePairs handles GET /pairs, listing the MatchedPairs resolved during
// the most recent scan.
func (h *SnapshotHandler) HandlePairs(w http.ResponseWriter, r *http.Request) {
	marketPairs := h.pairs.MarketPairs()

	out := make([]pairDTO, 0, len(marketPairs))
	for _, mp := range marketPairs {
		out = append(out, pairDTO{
			Name:             mp.Matched.Name,
			Category:         mp.Matched.Category,
			VenueAIdentifier: mp.Matched.VenueAIdentifier,
			VenueBIdentifier: mp.Matched.VenueBIdentifier,
			MatchType:        string(mp.Matched.MatchType),
			Confidence:       mp.Confidence,
			Spread:           mp.Spread,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		h.logger.Error("pairs-encode-failed", zap.Error(err))
	}
}
