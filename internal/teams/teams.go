// Package teams holds the team/league alias tables used by the market matcher
// and the sports-game pair synthesizer. In production these tables are loaded
// from teams.json at startup; the defaults below seed an in-process holder
// that can be reloaded without restarting the process.
package teams

import "sync"

// Table holds alias → canonical-name maps per league plus the venue-B 3-letter
// NBA code lookup used by sports-game synthesis.
type Table struct {
	mu        sync.RWMutex
	leagues   map[string]map[string]string // league -> alias(lowercase) -> canonical
	nbaCodes  map[string]string            // 3-letter code (lowercase) -> canonical
}

// New returns a Table seeded with the built-in defaults.
func New() *Table {
	t := &Table{
		leagues:  make(map[string]map[string]string),
		nbaCodes: make(map[string]string),
	}
	t.Reload(defaultLeagues(), defaultNBACodes())
	return t
}

// Reload atomically replaces the table contents; callers pass the parsed
// contents of teams.json. Safe to call while other goroutines are reading.
func (t *Table) Reload(leagues map[string]map[string]string, nbaCodes map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.leagues = leagues
	t.nbaCodes = nbaCodes
}

// Canonical resolves an alias to its canonical team name within a league.
// Returns ("", false) if the league or alias is unknown.
func (t *Table) Canonical(league, alias string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	aliases, ok := t.leagues[league]
	if !ok {
		return "", false
	}
	canonical, ok := aliases[alias]
	return canonical, ok
}

// NBACode resolves a 3-letter venue-B team code to its canonical name.
func (t *Table) NBACode(code string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	canonical, ok := t.nbaCodes[code]
	return canonical, ok
}

func defaultLeagues() map[string]map[string]string {
	return map[string]map[string]string{
		"nba": {
			"lakers": "lakers", "la lakers": "lakers", "los angeles lakers": "lakers",
			"celtics": "celtics", "boston celtics": "celtics",
			"heat": "heat", "miami heat": "heat", "mia": "heat",
			"suns": "suns", "phoenix suns": "suns", "phx": "suns",
			"warriors": "warriors", "golden state warriors": "warriors", "gsw": "warriors",
			"knicks": "knicks", "new york knicks": "knicks", "nyk": "knicks",
			"bucks": "bucks", "milwaukee bucks": "bucks", "mil": "bucks",
			"nuggets": "nuggets", "denver nuggets": "nuggets", "den": "nuggets",
		},
		"nfl": {
			"chiefs": "chiefs", "kansas city chiefs": "chiefs",
			"eagles": "eagles", "philadelphia eagles": "eagles",
			"49ers": "49ers", "san francisco 49ers": "49ers",
			"cowboys": "cowboys", "dallas cowboys": "cowboys",
		},
	}
}

func defaultNBACodes() map[string]string {
	return map[string]string{
		"lal": "lakers",
		"bos": "celtics",
		"mia": "heat",
		"phx": "suns",
		"gsw": "warriors",
		"nyk": "knicks",
		"mil": "bucks",
		"den": "nuggets",
	}
}
