package scan

import (
	"context"
	"testing"
	"time"

	"github.com/rmcole/binscan/internal/marketmatch"
	"github.com/rmcole/binscan/internal/matchpairs"
	"github.com/rmcole/binscan/internal/teams"
	"github.com/rmcole/binscan/internal/venue"
	"github.com/rmcole/binscan/pkg/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeVenue is a venue.Client + venue.Lister double keyed by identifier.
type fakeVenue struct {
	v       types.Venue
	events  map[string]fakeEvent
	listed  []venue.ListedEvent
	book    types.UnifiedOrderBook
}

type fakeEvent struct {
	event   types.EventRef
	markets []types.MarketRef
}

func (f *fakeVenue) Venue() types.Venue { return f.v }

func (f *fakeVenue) FetchEvent(ctx context.Context, identifier string) (types.EventRef, []types.MarketRef, error) {
	e, ok := f.events[identifier]
	if !ok {
		return types.EventRef{}, nil, errNotFound
	}
	return e.event, e.markets, nil
}

func (f *fakeVenue) FetchOrderBook(ctx context.Context, market types.MarketRef) (types.UnifiedOrderBook, error) {
	return f.book, nil
}

func (f *fakeVenue) ListEvents(ctx context.Context, limit int) ([]venue.ListedEvent, error) {
	return f.listed, nil
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

const errNotFound = fakeErr("not found")

func TestOrchestrator_Scan_StaticCandidate(t *testing.T) {
	logger := zap.NewNop()

	static := matchpairs.NewStaticCatalog([]matchpairs.StaticEntry{
		{Name: "Test Event", Category: "test", VenueASlug: "test-event", VenueBTicker: "TESTEVENT"},
	})

	venueA := &fakeVenue{
		v: types.VenueA,
		events: map[string]fakeEvent{
			"test-event": {
				event: types.EventRef{Venue: types.VenueA, ID: "a1", Slug: "test-event", Title: "Test Event"},
				markets: []types.MarketRef{
					{Venue: types.VenueA, ID: "m-a1", Question: "Will X happen?", YesPrice: 0.45, NoPrice: 0.55, YesTokenID: "ya1", NoTokenID: "na1"},
				},
			},
		},
	}
	venueB := &fakeVenue{
		v: types.VenueB,
		events: map[string]fakeEvent{
			"TESTEVENT": {
				event: types.EventRef{Venue: types.VenueB, ID: "b1", Slug: "TESTEVENT", Title: "Test Event"},
				markets: []types.MarketRef{
					{Venue: types.VenueB, ID: "m-b1", Question: "Will X happen?", YesPrice: 0.60, NoPrice: 0.40, Ticker: "TESTEVENT-X"},
				},
			},
		},
	}

	resolver := matchpairs.NewResolver(static, nil, teams.New(), matchpairs.NewConsolePairCache(logger), logger)
	matcher := marketmatch.New(teams.New())

	cfg := DefaultConfig()
	cfg.MaxConcurrencyPerVenue = 2
	orch := New(cfg, venueA, venueB, resolver, matcher, static, nil, teams.New(), logger)

	require.NoError(t, orch.Scan(context.Background()))

	snap := orch.Snapshot()
	require.Equal(t, 1, snap.TotalCount)
	require.Equal(t, types.TypeGuaranteed, snap.Opportunities[0].Type, "yesA=0.45 yesB=0.60 should be guaranteed")
}

func TestOrchestrator_Scan_NoCandidates(t *testing.T) {
	logger := zap.NewNop()
	static := matchpairs.NewStaticCatalog(nil)
	venueA := &fakeVenue{v: types.VenueA, events: map[string]fakeEvent{}}
	venueB := &fakeVenue{v: types.VenueB, events: map[string]fakeEvent{}}

	resolver := matchpairs.NewResolver(static, nil, teams.New(), matchpairs.NewConsolePairCache(logger), logger)
	matcher := marketmatch.New(teams.New())

	orch := New(DefaultConfig(), venueA, venueB, resolver, matcher, static, nil, teams.New(), logger)

	if err := orch.Scan(context.Background()); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if got := orch.Snapshot().TotalCount; got != 0 {
		t.Errorf("totalCount = %d, want 0", got)
	}
}

func TestHolder_SetGet(t *testing.T) {
	h := NewHolder()
	want := types.OpportunitiesSnapshot{TotalCount: 3, ScannedAt: time.Now()}
	h.Set(want)
	got := h.Get()
	if got.TotalCount != want.TotalCount {
		t.Errorf("totalCount = %d, want %d", got.TotalCount, want.TotalCount)
	}
}
