package matchpairs

import (
	"math"
	"time"

	"github.com/rmcole/binscan/internal/textnorm"
	"github.com/rmcole/binscan/pkg/types"
)

const (
	confirmedThreshold = 0.85
	uncertainThreshold = 0.5

	titleWeight = 0.4
	tokenWeight = 0.4
	dateWeight  = 0.2
)

// ScoreCandidate computes the weighted fuzzy-match score for a blocked
// (eventA, eventB) pair: 0.4*titleSimilarity + 0.4*tokenOverlap + 0.2*dateProximity.
// earliestEndA/earliestEndB are each event's earliest market end-date.
func ScoreCandidate(eventA, eventB types.EventRef, earliestEndA, earliestEndB time.Time) types.MatchCandidate {
	titleScore := textnorm.LevenshteinSimilarity(textnorm.Normalize(eventA.Title), textnorm.Normalize(eventB.Title))
	tokenScore := textnorm.JaccardSimilarity(textnorm.SignificantTokens(eventA.Title), textnorm.SignificantTokens(eventB.Title))
	dateScore := dateProximity(earliestEndA, earliestEndB)

	composite := titleWeight*titleScore + tokenWeight*tokenScore + dateWeight*dateScore

	return types.MatchCandidate{
		EventA:         eventA,
		EventB:         eventB,
		CompositeScore: composite,
		TitleScore:     titleScore,
		TokenScore:     tokenScore,
		DateScore:      dateScore,
	}
}

// dateProximity = max(0, 1 - |Δdays|/30).
func dateProximity(a, b time.Time) float64 {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	deltaDays := math.Abs(a.Sub(b).Hours() / 24)
	score := 1 - deltaDays/30
	if score < 0 {
		return 0
	}
	return score
}

// Classify buckets a composite score into confirmed/uncertain/discard.
func Classify(score float64) types.FuzzyClassification {
	switch {
	case score >= confirmedThreshold:
		return types.FuzzyConfirmed
	case score >= uncertainThreshold:
		return types.FuzzyUncertain
	default:
		return types.FuzzyDiscard
	}
}

// ToMatchedPair converts a confirmed MatchCandidate into a MatchedPair.
func ToMatchedPair(c types.MatchCandidate) types.MatchedPair {
	return types.MatchedPair{
		Name:             c.EventA.Title,
		Category:         c.EventA.Category,
		VenueAIdentifier: c.EventA.Slug,
		VenueBIdentifier: c.EventB.Slug,
		MatchType:        types.MatchFuzzy,
	}
}
