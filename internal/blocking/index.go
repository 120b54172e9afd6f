// Package blocking builds per-venue key indexes so the pair resolver only
// compares events that share at least one shallow signal, instead of every
// venue-A event against every venue-B event.
package blocking

import (
	"fmt"

	"github.com/rmcole/binscan/internal/textnorm"
	"github.com/rmcole/binscan/pkg/types"
)

// EventMarkets pairs an EventRef with the (up to 5) markets used to enrich its
// blocking keys with token signal drawn from individual questions.
type EventMarkets struct {
	Event   types.EventRef
	Markets []types.MarketRef
}

// BuildIndex computes the blocking key set for every event on one venue.
func BuildIndex(venue types.Venue, events []EventMarkets) types.BlockingIndex {
	idx := types.BlockingIndex{
		Venue: venue,
		Index: make(map[string]map[string]struct{}),
	}

	for _, em := range events {
		for _, key := range keysFor(em) {
			bucket, ok := idx.Index[key]
			if !ok {
				bucket = make(map[string]struct{})
				idx.Index[key] = bucket
			}
			bucket[em.Event.ID] = struct{}{}
		}
	}

	return idx
}

func keysFor(em EventMarkets) []string {
	var keys []string

	for _, y := range textnorm.ExtractYears(em.Event.Title) {
		keys = append(keys, fmt.Sprintf("year:%d", y))
	}

	if em.Event.Category != "" {
		keys = append(keys, "cat:"+em.Event.Category)
	}

	sigTokens := textnorm.SignificantTokens(em.Event.Title)
	for _, tok := range sigTokens {
		keys = append(keys, "tok:"+tok)
	}

	limit := len(em.Markets)
	if limit > 5 {
		limit = 5
	}
	for _, m := range em.Markets[:limit] {
		marketTokens := textnorm.SignificantTokens(m.Question)
		top := marketTokens
		if len(top) > 3 {
			top = top[:3]
		}
		for _, tok := range top {
			keys = append(keys, "tok:"+tok)
		}
	}

	for _, bg := range textnorm.Ngrams(sigTokens, 2) {
		keys = append(keys, "2g:"+bg)
	}

	if len(sigTokens) > 0 {
		keys = append(keys, "first:"+sigTokens[0])
	}

	return dedup(keys)
}

func dedup(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Candidates returns every (idA, idB) pair sharing at least one blocking key,
// deduplicated, plus reduction statistics against the full cross product.
func Candidates(indexA, indexB types.BlockingIndex, idsA, idsB []string) ([][2]string, types.BlockingStats) {
	seen := make(map[[2]string]struct{})
	var pairs [][2]string

	for key, bucketA := range indexA.Index {
		bucketB, ok := indexB.Index[key]
		if !ok {
			continue
		}
		for idA := range bucketA {
			for idB := range bucketB {
				pairKey := [2]string{idA, idB}
				if _, dup := seen[pairKey]; dup {
					continue
				}
				seen[pairKey] = struct{}{}
				pairs = append(pairs, pairKey)
			}
		}
	}

	total := len(idsA) * len(idsB)
	stats := types.BlockingStats{
		TotalPotential: total,
		Actual:         len(pairs),
	}
	if total > 0 {
		stats.ReductionPct = (1 - float64(len(pairs))/float64(total)) * 100
	}

	return pairs, stats
}
