package marketmatch

import (
	"strings"

	"github.com/rmcole/binscan/internal/teams"
)

// DetectLeague returns the league whose alias table contains a token of
// title, or "" if none match. Ties are broken by whichever league is
// consulted first in leagueOrder.
func DetectLeague(title string, table *teams.Table, leagueOrder []string) string {
	lower := strings.ToLower(title)
	for _, league := range leagueOrder {
		for _, alias := range aliasCandidates(lower) {
			if _, ok := table.Canonical(league, alias); ok {
				return league
			}
		}
	}
	return ""
}

// aliasCandidates returns every substring of text worth testing as a team
// alias: the whole (trimmed) string plus each individual word, since alias
// tables key on both multi-word names ("miami heat") and short forms ("heat").
func aliasCandidates(text string) []string {
	words := strings.Fields(text)
	candidates := make([]string, 0, len(words)+1)
	candidates = append(candidates, strings.TrimSpace(text))
	candidates = append(candidates, words...)
	return candidates
}

// isSameTeam reports whether questionA and questionB both name the same
// canonical team within league, per the team alias table.
func isSameTeam(questionA, questionB, league string, table *teams.Table) bool {
	teamA, okA := findTeam(questionA, league, table)
	teamB, okB := findTeam(questionB, league, table)
	return okA && okB && teamA == teamB
}

// findTeam scans text for any known alias of league and returns its
// canonical name.
func findTeam(text, league string, table *teams.Table) (string, bool) {
	lower := strings.ToLower(text)
	for _, alias := range aliasCandidates(lower) {
		if canonical, ok := table.Canonical(league, alias); ok {
			return canonical, true
		}
	}
	// Fall back to substring search for multi-word aliases embedded in a
	// longer question ("Will the Miami Heat win tonight?").
	words := strings.Fields(lower)
	for i := range words {
		for j := i + 1; j <= len(words) && j <= i+3; j++ {
			phrase := strings.Join(words[i:j], " ")
			if canonical, ok := table.Canonical(league, phrase); ok {
				return canonical, true
			}
		}
	}
	return "", false
}
