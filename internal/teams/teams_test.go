package teams

import "testing"

func TestCanonical(t *testing.T) {
	table := New()

	canonical, ok := table.Canonical("nba", "phoenix suns")
	if !ok || canonical != "suns" {
		t.Errorf("Canonical(nba, phoenix suns) = (%q, %v), want (suns, true)", canonical, ok)
	}

	if _, ok := table.Canonical("nba", "spurs"); ok {
		t.Error("expected unknown alias to miss")
	}
	if _, ok := table.Canonical("mlb", "yankees"); ok {
		t.Error("expected unknown league to miss")
	}
}

func TestNBACode(t *testing.T) {
	table := New()
	if canonical, ok := table.NBACode("phx"); !ok || canonical != "suns" {
		t.Errorf("NBACode(phx) = (%q, %v)", canonical, ok)
	}
	if _, ok := table.NBACode("xyz"); ok {
		t.Error("expected unknown code to miss")
	}
}

func TestReload(t *testing.T) {
	table := New()
	table.Reload(
		map[string]map[string]string{"nba": {"spurs": "spurs"}},
		map[string]string{"sas": "spurs"},
	)

	if _, ok := table.Canonical("nba", "lakers"); ok {
		t.Error("expected old alias to be replaced after Reload")
	}
	if canonical, ok := table.Canonical("nba", "spurs"); !ok || canonical != "spurs" {
		t.Errorf("Canonical(nba, spurs) after reload = (%q, %v)", canonical, ok)
	}
}
