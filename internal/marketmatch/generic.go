package marketmatch

import (
	"github.com/rmcole/binscan/internal/textnorm"
	"github.com/rmcole/binscan/pkg/types"
)

const genericJaccardMin = 0.5

// matchGeneric pairs markets by normalized-question Jaccard similarity,
// greedily taking the best unclaimed venue-B market for each venue-A market
// that clears genericJaccardMin. Markets with no extractable significant
// tokens on either side are skipped entirely.
func matchGeneric(marketsA, marketsB []types.MarketRef) []types.MarketPair {
	usedB := make(map[int]bool, len(marketsB))
	tokensB := make([][]string, len(marketsB))
	for i, mb := range marketsB {
		tokensB[i] = textnorm.SignificantTokens(mb.Question)
	}

	var pairs []types.MarketPair
	for _, ma := range marketsA {
		tokensA := textnorm.SignificantTokens(ma.Question)
		if len(tokensA) == 0 {
			continue
		}

		bestIdx := -1
		bestScore := 0.0
		for i, mb := range marketsB {
			if usedB[i] || len(tokensB[i]) == 0 {
				continue
			}
			score := textnorm.JaccardSimilarity(tokensA, tokensB[i])
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
			_ = mb
		}

		if bestIdx < 0 || bestScore < genericJaccardMin {
			continue
		}
		usedB[bestIdx] = true

		mb := marketsB[bestIdx]
		pairs = append(pairs, types.MarketPair{
			QuestionA:   ma.Question,
			QuestionB:   mb.Question,
			YesPriceA:   ma.YesPrice,
			NoPriceA:    ma.NoPrice,
			YesPriceB:   mb.YesPrice,
			NoPriceB:    mb.NoPrice,
			YesTokenIDA: ma.YesTokenID,
			NoTokenIDA:  ma.NoTokenID,
			TickerB:     mb.Ticker,
			Confidence:  bestScore,
			Spread:      absFloat(ma.YesPrice - mb.YesPrice),
		})
	}
	return pairs
}
