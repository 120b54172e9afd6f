package matchpairs

import (
	"context"
	"time"

	"github.com/rmcole/binscan/internal/teams"
	"github.com/rmcole/binscan/pkg/types"
	"go.uber.org/zap"
)

// Resolver tries the three mapping sources in priority order: static catalog,
// dynamic templates, sports-game synthesis. The fuzzy matcher is invoked
// separately by the scan orchestrator once blocking has produced candidates.
type Resolver struct {
	static    *StaticCatalog
	templates []DynamicTemplate
	teams     *teams.Table
	cache     PairCache
	logger    *zap.Logger
}

// NewResolver builds a Resolver over the given static catalog, dynamic
// template list and team table.
func NewResolver(static *StaticCatalog, templates []DynamicTemplate, teamTable *teams.Table, cache PairCache, logger *zap.Logger) *Resolver {
	return &Resolver{
		static:    static,
		templates: templates,
		teams:     teamTable,
		cache:     cache,
		logger:    logger,
	}
}

// FindMatch tries static -> dynamic -> sports-game in order and returns the
// counterpart MatchedPair, or false if none of the three resolve it.
func (r *Resolver) FindMatch(identifier string, venue types.Venue, now time.Time) (types.MatchedPair, bool) {
	if pair, ok := r.static.Find(identifier, venue); ok {
		return pair, true
	}
	if pair, ok := ResolveDynamic(identifier, venue, r.templates, now); ok {
		return pair, true
	}
	if pair, ok := ResolveSportsGame(identifier, venue, r.teams); ok {
		return pair, true
	}
	return types.MatchedPair{}, false
}

// ResolveFuzzy scores a blocked candidate, consults the persistent cache for
// a prior decision, and records a new confirmed/rejected decision when one is
// reached. Uncertain candidates are neither confirmed nor recorded, so they
// are re-scored on the next scan until they tip one way or the other.
func (r *Resolver) ResolveFuzzy(ctx context.Context, candidate types.MatchCandidate) (types.MatchedPair, types.FuzzyClassification, error) {
	decided, confirmed, err := r.cache.Decision(ctx, candidate.EventA.ID, candidate.EventB.ID)
	if err != nil {
		return types.MatchedPair{}, types.FuzzyDiscard, err
	}
	if decided {
		if confirmed {
			return ToMatchedPair(candidate), types.FuzzyConfirmed, nil
		}
		return types.MatchedPair{}, types.FuzzyDiscard, nil
	}

	classification := Classify(candidate.CompositeScore)

	switch classification {
	case types.FuzzyConfirmed:
		if err := r.cache.RecordConfirmed(ctx, candidate.EventA.ID, candidate.EventB.ID); err != nil {
			r.logger.Warn("fuzzy-confirm-record-failed", zap.Error(err))
		}
		return ToMatchedPair(candidate), classification, nil
	case types.FuzzyDiscard:
		if err := r.cache.RecordRejected(ctx, candidate.EventA.ID, candidate.EventB.ID); err != nil {
			r.logger.Warn("fuzzy-reject-record-failed", zap.Error(err))
		}
		return types.MatchedPair{}, classification, nil
	default: // uncertain
		return types.MatchedPair{}, classification, nil
	}
}
