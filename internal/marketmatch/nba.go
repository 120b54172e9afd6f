package marketmatch

import (
	"strings"

	"github.com/rmcole/binscan/pkg/types"
)

// nbaPropStoplist enumerates question substrings that mark a market as a
// prop/spread/total rather than a straight moneyline.
var nbaPropStoplist = []string{
	"spread", "o/u", "over", "under", "total", "points", "rebounds", "assists",
	"steals", "blocks", "three", "3-pointer", "quarter", "half", "1st", "2nd",
	"3rd", "4th", "first", "second", "1h", "2h", "moneyline",
}

// isMoneylineQuestion reports whether question reads as a straight "A vs. B"
// game-winner market rather than a prop/spread/total.
func isMoneylineQuestion(question string) bool {
	lower := strings.ToLower(question)
	if !strings.Contains(lower, "vs.") {
		return false
	}
	for _, term := range nbaPropStoplist {
		if strings.Contains(lower, term) {
			return false
		}
	}
	return true
}

// splitMoneylineTeams extracts the first- and second-mentioned team names
// from an "A vs. B" question. The first-mentioned team gets the YES price.
func splitMoneylineTeams(question string) (first, second string, ok bool) {
	idx := strings.Index(strings.ToLower(question), "vs.")
	if idx < 0 {
		return "", "", false
	}
	before := question[:idx]
	after := question[idx+len("vs."):]

	first = lastWord(before)
	second = firstWord(after)
	if first == "" || second == "" {
		return "", "", false
	}
	return first, second, true
}

// lastWord returns the last whitespace-delimited word of s, with surrounding
// punctuation stripped. Team names in these questions are single proper
// nouns ("Suns", "Heat"), so one word is enough to identify the team.
func lastWord(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	return strings.Trim(words[len(words)-1], ".,:;?")
}

func firstWord(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	return strings.Trim(words[0], ".,:;?")
}

// findNBAMoneyline locates the venue-A moneyline market among markets, if any.
func findNBAMoneyline(markets []types.MarketRef) (types.MarketRef, string, string, bool) {
	for _, m := range markets {
		if !isMoneylineQuestion(m.Question) {
			continue
		}
		first, second, ok := splitMoneylineTeams(m.Question)
		if !ok {
			continue
		}
		return m, first, second, true
	}
	return types.MarketRef{}, "", "", false
}

// matchNBAGame pairs a venue-A moneyline market with the venue-B markets
// whose ticker ends in "-" plus teamSuffix of one of the two team names
// parsed from the moneyline question (e.g. "-SUNS" for "Suns"). Team names
// are not mapped to 3-letter venue-B codes, so a ticker ending in a short
// code such as "-PHX" is not matched.
func matchNBAGame(marketsA []types.MarketRef, marketsB []types.MarketRef) []types.MarketPair {
	moneyline, firstTeam, secondTeam, ok := findNBAMoneyline(marketsA)
	if !ok {
		return nil
	}

	var pairs []types.MarketPair
	for _, mb := range marketsB {
		ticker := strings.ToUpper(mb.Ticker)
		switch {
		case strings.HasSuffix(ticker, "-"+teamSuffix(firstTeam)):
			pairs = append(pairs, buildMoneylinePair(moneyline, mb, moneyline.Question, mb.Question, false))
		case strings.HasSuffix(ticker, "-"+teamSuffix(secondTeam)):
			pairs = append(pairs, buildMoneylinePair(moneyline, mb, moneyline.Question, mb.Question, true))
		}
	}
	return pairs
}

// teamSuffix derives the upper-cased 3-letter-ish ticker suffix from a team
// name phrase, taking its last word.
func teamSuffix(team string) string {
	words := strings.Fields(team)
	if len(words) == 0 {
		return ""
	}
	return strings.ToUpper(words[len(words)-1])
}

// buildMoneylinePair builds the MarketPair for one side of the moneyline
// against a venue-B team ticker. The moneyline's YES price belongs to the
// first-mentioned team (§4.4); when this pair is for the second-mentioned
// team, a's YES/NO price and token ids are swapped so YesPriceA always means
// "this venue-B team wins", matching b's own YES side.
func buildMoneylinePair(a, b types.MarketRef, qa, qb string, swapped bool) types.MarketPair {
	yesPriceA, noPriceA := a.YesPrice, a.NoPrice
	yesTokenA, noTokenA := a.YesTokenID, a.NoTokenID
	if swapped {
		yesPriceA, noPriceA = noPriceA, yesPriceA
		yesTokenA, noTokenA = noTokenA, yesTokenA
	}

	spread := absFloat(yesPriceA - b.YesPrice)
	return types.MarketPair{
		QuestionA:   qa,
		QuestionB:   qb,
		YesPriceA:   yesPriceA,
		NoPriceA:    noPriceA,
		YesPriceB:   b.YesPrice,
		NoPriceB:    b.NoPrice,
		YesTokenIDA: yesTokenA,
		NoTokenIDA:  noTokenA,
		TickerB:     b.Ticker,
		Confidence:  1.0,
		Spread:      spread,
	}
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
