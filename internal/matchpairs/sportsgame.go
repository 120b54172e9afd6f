package matchpairs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rmcole/binscan/internal/teams"
	"github.com/rmcole/binscan/pkg/types"
)

var (
	venueAGameRe = regexp.MustCompile(`^nba-([a-z]{3})-([a-z]{3})-(\d{4})-(\d{2})-(\d{2})$`)
	venueBGameRe = regexp.MustCompile(`^KXNBAGAME-(\d{2})(` + strings.Join(monthAbbrevs, "|") + `)(\d{2})([A-Z]{3})([A-Z]{3})$`)
)

// SportsGame is a parsed NBA-game identifier from either venue.
type SportsGame struct {
	Away string // 3-letter code, lowercase
	Home string // 3-letter code, lowercase
	Date time.Time
}

// ParseVenueASlug parses "nba-{away}-{home}-YYYY-MM-DD".
func ParseVenueASlug(slug string) (SportsGame, bool) {
	m := venueAGameRe.FindStringSubmatch(strings.ToLower(slug))
	if m == nil {
		return SportsGame{}, false
	}
	year, err1 := strconv.Atoi(m[3])
	month, err2 := strconv.Atoi(m[4])
	day, err3 := strconv.Atoi(m[5])
	if err1 != nil || err2 != nil || err3 != nil {
		return SportsGame{}, false
	}
	return SportsGame{
		Away: m[1],
		Home: m[2],
		Date: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
	}, true
}

// ParseVenueBTicker parses "KXNBAGAME-YYMONDDAWAYHOME".
func ParseVenueBTicker(ticker string) (SportsGame, bool) {
	m := venueBGameRe.FindStringSubmatch(strings.ToUpper(ticker))
	if m == nil {
		return SportsGame{}, false
	}
	yy, err1 := strconv.Atoi(m[1])
	monthIdx := indexOfFold(monthAbbrevs, m[2])
	day, err2 := strconv.Atoi(m[3])
	if err1 != nil || err2 != nil || monthIdx < 0 {
		return SportsGame{}, false
	}
	return SportsGame{
		Away: strings.ToLower(m[4]),
		Home: strings.ToLower(m[5]),
		Date: time.Date(2000+yy, time.Month(monthIdx+1), day, 0, 0, 0, 0, time.UTC),
	}, true
}

// GenerateVenueASlug formats a sports-game slug for venue A.
func (g SportsGame) GenerateVenueASlug() string {
	return fmt.Sprintf("nba-%s-%s-%04d-%02d-%02d", strings.ToLower(g.Away), strings.ToLower(g.Home), g.Date.Year(), g.Date.Month(), g.Date.Day())
}

// GenerateVenueBTicker formats a sports-game ticker for venue B.
func (g SportsGame) GenerateVenueBTicker() string {
	return fmt.Sprintf("KXNBAGAME-%02d%s%02d%s%s",
		g.Date.Year()%100, monthAbbrevs[g.Date.Month()-1], g.Date.Day(),
		strings.ToUpper(g.Away), strings.ToUpper(g.Home))
}

// ResolveSportsGame resolves a venue-A or venue-B NBA-game identifier to its
// counterpart, translating 3-letter codes to canonical team names via table.
// Unknown codes skip the game (return false) rather than synthesizing a
// partially-resolved pair.
func ResolveSportsGame(identifier string, venue types.Venue, table *teams.Table) (types.MatchedPair, bool) {
	var game SportsGame
	var ok bool
	var slug, ticker string

	switch venue {
	case types.VenueA:
		game, ok = ParseVenueASlug(identifier)
		if !ok {
			return types.MatchedPair{}, false
		}
		slug = strings.ToLower(identifier)
		ticker = game.GenerateVenueBTicker()
	case types.VenueB:
		game, ok = ParseVenueBTicker(identifier)
		if !ok {
			return types.MatchedPair{}, false
		}
		ticker = strings.ToUpper(identifier)
		slug = game.GenerateVenueASlug()
	default:
		return types.MatchedPair{}, false
	}

	if _, known := table.NBACode(game.Away); !known {
		return types.MatchedPair{}, false
	}
	if _, known := table.NBACode(game.Home); !known {
		return types.MatchedPair{}, false
	}

	d := game.Date
	return types.MatchedPair{
		Name:             fmt.Sprintf("NBA: %s @ %s", strings.ToUpper(game.Away), strings.ToUpper(game.Home)),
		Category:         "nba",
		VenueAIdentifier: slug,
		VenueBIdentifier: ticker,
		Date:             &d,
		MatchType:        types.MatchGame,
	}, true
}
