package marketmatch

import (
	"github.com/rmcole/binscan/internal/teams"
	"github.com/rmcole/binscan/pkg/types"
)

// leagueOrder is the priority order DetectLeague checks event titles against.
var leagueOrder = []string{"nba", "nfl"}

// Matcher pairs individual binary markets within an already-matched event
// pair, using team-sports canonicalization, NBA-moneyline synthesis, or a
// generic Jaccard fallback.
type Matcher struct {
	teams *teams.Table
}

// New returns a Matcher backed by table.
func New(table *teams.Table) *Matcher {
	return &Matcher{teams: table}
}

// Match pairs marketsA against marketsB given the matched pair's category
// and both events' titles.
func (m *Matcher) Match(pair types.MatchedPair, titleA, titleB string, marketsA, marketsB []types.MarketRef) []types.MarketPair {
	league := DetectLeague(titleA, m.teams, leagueOrder)
	if league == "" {
		league = DetectLeague(titleB, m.teams, leagueOrder)
	}

	var out []types.MarketPair
	switch {
	case league == "nba":
		out = matchNBAGame(marketsA, marketsB)
		if len(out) == 0 {
			out = m.matchTeamSports(league, marketsA, marketsB)
		}
	case league != "":
		out = m.matchTeamSports(league, marketsA, marketsB)
	default:
		out = matchGeneric(marketsA, marketsB)
	}

	for i := range out {
		out[i].Matched = pair
	}
	MarketPairsTotal.WithLabelValues(string(pair.MatchType)).Add(float64(len(out)))
	return out
}

// matchTeamSports pairs markets within league by canonical team identity.
func (m *Matcher) matchTeamSports(league string, marketsA, marketsB []types.MarketRef) []types.MarketPair {
	usedB := make(map[int]bool, len(marketsB))
	var pairs []types.MarketPair

	for _, ma := range marketsA {
		for i, mb := range marketsB {
			if usedB[i] {
				continue
			}
			if !isSameTeam(ma.Question, mb.Question, league, m.teams) {
				continue
			}
			usedB[i] = true
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
				Confidence:  1.0,
				Spread:      absFloat(ma.YesPrice - mb.YesPrice),
			})
			break
		}
	}
	return pairs
}
