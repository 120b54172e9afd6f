// Package scan implements the batch scan orchestrator (§4.8 of the design):
// each tick it resolves candidate event pairs from the static catalog, the
// next few days of dynamic templates, sports-game candidates drawn from each
// venue's listed events, and previously-cached fuzzy matches; fetches both
// venues' market data with a bounded, rate-paced task pool per venue; builds
// MarketPairs via the market matcher; computes arbitrage opportunities; runs
// the liquidity analyzer on the top candidates by spread; and atomically
// publishes the merged OpportunitiesSnapshot.
package scan

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rmcole/binscan/internal/arbitrage"
	"github.com/rmcole/binscan/internal/blocking"
	"github.com/rmcole/binscan/internal/liquidity"
	"github.com/rmcole/binscan/internal/marketmatch"
	"github.com/rmcole/binscan/internal/matchpairs"
	"github.com/rmcole/binscan/internal/teams"
	"github.com/rmcole/binscan/internal/venue"
	"github.com/rmcole/binscan/pkg/ratelimit"
	"github.com/rmcole/binscan/pkg/types"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Config tunes the orchestrator per the scanner's named constants (§6).
type Config struct {
	PollInterval           time.Duration
	DynamicScanDays        int
	MaxLiquidityAnalysis   int
	RateLimitDelay         time.Duration
	ScanTimeout            time.Duration
	ListEventsLimit        int
	MaxConcurrencyPerVenue int

	Arbitrage arbitrage.Config
	Liquidity liquidity.Config
}

// DefaultConfig returns the scanner's standard tunables: 60s poll interval,
// 3-day dynamic lookahead, top-25 liquidity analysis, 150ms inter-request
// pacing, 30s scan timeout, 8 simultaneous fetches per venue.
func DefaultConfig() Config {
	return Config{
		PollInterval:           60 * time.Second,
		DynamicScanDays:        3,
		MaxLiquidityAnalysis:   25,
		RateLimitDelay:         150 * time.Millisecond,
		ScanTimeout:            30 * time.Second,
		ListEventsLimit:        200,
		MaxConcurrencyPerVenue: 8,
		Arbitrage:              arbitrage.DefaultConfig(),
		Liquidity:              liquidity.DefaultConfig(),
	}
}

// Orchestrator owns one tick of the batch scan and the snapshot it publishes.
type Orchestrator struct {
	cfg Config

	venueA venue.Client
	venueB venue.Client

	resolver *matchpairs.Resolver
	matcher  *marketmatch.Matcher
	static   *matchpairs.StaticCatalog
	dynamic  []matchpairs.DynamicTemplate
	teams    *teams.Table

	limiterA *ratelimit.Limiter
	limiterB *ratelimit.Limiter

	snapshot *Holder
	pairs    *PairsHolder
	logger   *zap.Logger
}

// New builds an Orchestrator. venueA/venueB may optionally implement
// venue.Lister; when they don't, sports-game and fuzzy candidate discovery
// is skipped for that venue and only static/dynamic candidates are scanned.
func New(
	cfg Config,
	venueA, venueB venue.Client,
	resolver *matchpairs.Resolver,
	matcher *marketmatch.Matcher,
	static *matchpairs.StaticCatalog,
	dynamic []matchpairs.DynamicTemplate,
	teamTable *teams.Table,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		venueA:   venueA,
		venueB:   venueB,
		resolver: resolver,
		matcher:  matcher,
		static:   static,
		dynamic:  dynamic,
		teams:    teamTable,
		limiterA: ratelimit.New(cfg.RateLimitDelay),
		limiterB: ratelimit.New(cfg.RateLimitDelay),
		snapshot: NewHolder(),
		pairs:    NewPairsHolder(),
		logger:   logger,
	}
}

// Snapshot returns the most recently published OpportunitiesSnapshot.
func (o *Orchestrator) Snapshot() types.OpportunitiesSnapshot {
	return o.snapshot.Get()
}

// MarketPairs returns the MarketPairs built during the most recent scan, so
// the streaming engine can subscribe to exactly what the batch scan just
// matched (§4.9: "subscribed markets derived from a MarketPairRegistry").
func (o *Orchestrator) MarketPairs() []types.MarketPair {
	return o.pairs.Get()
}

// Run polls on cfg.PollInterval until ctx is canceled, scanning once
// immediately on start.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.logger.Info("scan-orchestrator-starting",
		zap.Duration("poll-interval", o.cfg.PollInterval),
		zap.Int("dynamic-scan-days", o.cfg.DynamicScanDays))

	if err := o.Scan(ctx); err != nil {
		o.logger.Error("initial-scan-failed", zap.Error(err))
	}

	ticker := time.NewTicker(o.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("scan-orchestrator-stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := o.Scan(ctx); err != nil {
				o.logger.Error("scan-failed", zap.Error(err))
			}
		}
	}
}

// Scan runs a single scan tick: resolve candidates, fetch, match, calculate,
// analyze liquidity for the top candidates, and publish the snapshot.
func (o *Orchestrator) Scan(ctx context.Context) error {
	start := time.Now()
	scanCtx, cancel := context.WithTimeout(ctx, o.cfg.ScanTimeout)
	defer cancel()

	candidates := o.resolveCandidates(scanCtx, start)
	CandidatePairsTotal.Add(float64(len(candidates)))

	pairs, fetchErr := o.fetchAndMatch(scanCtx, candidates)
	if fetchErr != nil {
		o.logger.Warn("scan-tick-fetch-errors", zap.Error(fetchErr))
	}
	MarketPairsFoundTotal.Add(float64(len(pairs)))
	o.pairs.Set(pairs)

	opportunities := arbitrage.CreateOpportunitiesFromAllPairs(o.cfg.Arbitrage, pairs, start)
	sort.Slice(opportunities, func(i, j int) bool {
		return opportunities[i].ProfitPct > opportunities[j].ProfitPct
	})

	dtos := o.analyzeTopAndConvert(scanCtx, opportunities)

	snapshot := types.OpportunitiesSnapshot{
		Opportunities: dtos,
		ScannedAt:     start,
		TotalCount:    len(dtos),
	}
	o.snapshot.Set(snapshot)

	duration := time.Since(start)
	ScanDuration.Observe(duration.Seconds())
	o.logger.Info("scan-complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("market-pairs", len(pairs)),
		zap.Int("opportunities", len(dtos)),
		zap.Duration("duration", duration))
	return nil
}

// resolveCandidates implements §4.8 step 1: static + dynamic + sports-game +
// cached fuzzy matches.
func (o *Orchestrator) resolveCandidates(ctx context.Context, now time.Time) []types.MatchedPair {
	seen := make(map[[2]string]struct{})
	var out []types.MatchedPair

	add := func(pair types.MatchedPair) {
		key := [2]string{pair.VenueAIdentifier, pair.VenueBIdentifier}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, pair)
	}

	for _, entry := range o.static.Entries() {
		if pair, ok := o.static.Find(entry.VenueASlug, types.VenueA); ok {
			add(pair)
		}
	}

	for _, tpl := range o.dynamic {
		for day := 0; day <= o.cfg.DynamicScanDays; day++ {
			date := now.AddDate(0, 0, day)
			slug := matchpairs.GenerateVenueASlug(tpl.VenueAPattern, date)
			ticker := matchpairs.GenerateVenueBTicker(tpl.VenueBPattern, date)
			d := date
			add(types.MatchedPair{
				Name:             tpl.Name,
				Category:         tpl.Category,
				VenueAIdentifier: slug,
				VenueBIdentifier: ticker,
				Date:             &d,
				MatchType:        types.MatchDynamic,
			})
		}
	}

	if lister, ok := o.venueA.(venue.Lister); ok {
		for _, pair := range o.sportsGameCandidates(ctx, lister, types.VenueA) {
			add(pair)
		}
	}
	if lister, ok := o.venueB.(venue.Lister); ok {
		for _, pair := range o.sportsGameCandidates(ctx, lister, types.VenueB) {
			add(pair)
		}
	}

	for _, pair := range o.fuzzyCandidates(ctx) {
		add(pair)
	}

	return out
}

// sportsGameCandidates lists events from a single venue and resolves any
// whose identifier parses as an NBA-game slug/ticker into a MatchedPair.
func (o *Orchestrator) sportsGameCandidates(ctx context.Context, lister venue.Lister, v types.Venue) []types.MatchedPair {
	listed, err := lister.ListEvents(ctx, o.cfg.ListEventsLimit)
	if err != nil {
		o.logger.Warn("sports-game-list-failed", zap.String("venue", string(v)), zap.Error(err))
		return nil
	}

	var out []types.MatchedPair
	for _, le := range listed {
		identifier := le.Event.Slug
		pair, ok := matchpairs.ResolveSportsGame(identifier, v, o.teams)
		if !ok {
			continue
		}
		out = append(out, pair)
	}
	return out
}

// fuzzyCandidates lists events from both venues (when they support Lister),
// blocks them to reduce the comparison space, scores each blocked candidate,
// and resolves it through the persistent pair cache.
func (o *Orchestrator) fuzzyCandidates(ctx context.Context) []types.MatchedPair {
	listerA, okA := o.venueA.(venue.Lister)
	listerB, okB := o.venueB.(venue.Lister)
	if !okA || !okB {
		return nil
	}

	listedA, err := listerA.ListEvents(ctx, o.cfg.ListEventsLimit)
	if err != nil {
		o.logger.Warn("fuzzy-list-a-failed", zap.Error(err))
		return nil
	}
	listedB, err := listerB.ListEvents(ctx, o.cfg.ListEventsLimit)
	if err != nil {
		o.logger.Warn("fuzzy-list-b-failed", zap.Error(err))
		return nil
	}

	emA := make([]blocking.EventMarkets, len(listedA))
	byIDA := make(map[string]venue.ListedEvent, len(listedA))
	for i, le := range listedA {
		emA[i] = blocking.EventMarkets{Event: le.Event, Markets: le.Markets}
		byIDA[le.Event.ID] = le
	}
	emB := make([]blocking.EventMarkets, len(listedB))
	byIDB := make(map[string]venue.ListedEvent, len(listedB))
	for i, le := range listedB {
		emB[i] = blocking.EventMarkets{Event: le.Event, Markets: le.Markets}
		byIDB[le.Event.ID] = le
	}

	idxA := blocking.BuildIndex(types.VenueA, emA)
	idxB := blocking.BuildIndex(types.VenueB, emB)
	idsA := make([]string, 0, len(listedA))
	for _, le := range listedA {
		idsA = append(idsA, le.Event.ID)
	}
	idsB := make([]string, 0, len(listedB))
	for _, le := range listedB {
		idsB = append(idsB, le.Event.ID)
	}

	candidatePairs, stats := blocking.Candidates(idxA, idxB, idsA, idsB)
	BlockingReductionPct.Set(stats.ReductionPct)

	var out []types.MatchedPair
	for _, ids := range candidatePairs {
		leA, okA := byIDA[ids[0]]
		leB, okB := byIDB[ids[1]]
		if !okA || !okB {
			continue
		}
		candidate := matchpairs.ScoreCandidate(leA.Event, leB.Event, earliestEnd(leA.Markets), earliestEnd(leB.Markets))
		pair, classification, err := o.resolver.ResolveFuzzy(ctx, candidate)
		if err != nil {
			o.logger.Warn("fuzzy-resolve-failed", zap.Error(err))
			continue
		}
		if classification == types.FuzzyConfirmed {
			out = append(out, pair)
		}
	}
	return out
}

func earliestEnd(markets []types.MarketRef) time.Time {
	var earliest time.Time
	for _, m := range markets {
		if m.EndTime.IsZero() {
			continue
		}
		if earliest.IsZero() || m.EndTime.Before(earliest) {
			earliest = m.EndTime
		}
	}
	return earliest
}

// fetchResult is one candidate's fetched event-market data from both venues.
type fetchResult struct {
	pair     types.MatchedPair
	eventA   types.EventRef
	marketsA []types.MarketRef
	eventB   types.EventRef
	marketsB []types.MarketRef
	err      error
}

// fetchAndMatch implements §4.8 steps 2-3: fetch both venues' event-market
// data for every candidate through a bounded, rate-paced task pool per
// venue, then build MarketPairs via the market matcher. A fetch failure on
// one candidate never fails the tick; every such error is aggregated and
// returned alongside the pairs that did resolve, so Scan can log a single
// summary instead of one line per skipped candidate.
func (o *Orchestrator) fetchAndMatch(ctx context.Context, candidates []types.MatchedPair) ([]types.MarketPair, error) {
	results := make([]fetchResult, len(candidates))

	semA := make(chan struct{}, o.cfg.MaxConcurrencyPerVenue)
	var wg sync.WaitGroup
	for i, pair := range candidates {
		wg.Add(1)
		go func(i int, pair types.MatchedPair) {
			defer wg.Done()
			semA <- struct{}{}
			defer func() { <-semA }()

			results[i].pair = pair
			if err := o.limiterA.Wait(ctx); err != nil {
				results[i].err = err
				return
			}
			eventA, marketsA, err := o.venueA.FetchEvent(ctx, pair.VenueAIdentifier)
			if err != nil {
				results[i].err = fmt.Errorf("fetch venue-a event %q: %w", pair.VenueAIdentifier, err)
				return
			}
			results[i].eventA = eventA
			results[i].marketsA = marketsA
		}(i, pair)
	}
	wg.Wait()

	semB := make(chan struct{}, o.cfg.MaxConcurrencyPerVenue)
	for i, pair := range candidates {
		if results[i].err != nil {
			continue
		}
		wg.Add(1)
		go func(i int, pair types.MatchedPair) {
			defer wg.Done()
			semB <- struct{}{}
			defer func() { <-semB }()

			if err := o.limiterB.Wait(ctx); err != nil {
				results[i].err = err
				return
			}
			eventB, marketsB, err := o.venueB.FetchEvent(ctx, pair.VenueBIdentifier)
			if err != nil {
				results[i].err = fmt.Errorf("fetch venue-b event %q: %w", pair.VenueBIdentifier, err)
				return
			}
			results[i].eventB = eventB
			results[i].marketsB = marketsB
		}(i, pair)
	}
	wg.Wait()

	var pairs []types.MarketPair
	var combined error
	for _, r := range results {
		if r.err != nil {
			FetchErrorsTotal.Inc()
			combined = multierr.Append(combined, fmt.Errorf("%s/%s: %w", r.pair.VenueAIdentifier, r.pair.VenueBIdentifier, r.err))
			continue
		}
		matched := o.matcher.Match(r.pair, r.eventA.Title, r.eventB.Title, r.marketsA, r.marketsB)
		pairs = append(pairs, matched...)
	}
	return pairs, combined
}

// analyzeTopAndConvert implements §4.8 steps 5-6: liquidity-analyze the top
// MaxLiquidityAnalysis opportunities by profit%, then convert every
// opportunity (analyzed or not) to its DTO shape.
func (o *Orchestrator) analyzeTopAndConvert(ctx context.Context, opportunities []types.ArbitrageOpportunity) []types.OpportunityDTO {
	analyzed := make(map[int]types.LiquidityAnalysis, o.cfg.MaxLiquidityAnalysis)

	limit := o.cfg.MaxLiquidityAnalysis
	if limit > len(opportunities) {
		limit = len(opportunities)
	}
	for i := 0; i < limit; i++ {
		opp := opportunities[i]
		if opp.Type == types.TypeSpread {
			continue // unprofitable pairs aren't worth the extra order-book fetch
		}
		bookA, errA := o.fetchBookA(ctx, opp.Pair)
		bookB, errB := o.fetchBookB(ctx, opp.Pair)
		if errA != nil || errB != nil {
			continue
		}
		analyzed[i] = liquidity.Analyze(o.cfg.Liquidity, opp, bookA, bookB, time.Now())
	}

	dtos := make([]types.OpportunityDTO, len(opportunities))
	for i, opp := range opportunities {
		dtos[i] = toDTO(opp, analyzed[i])
	}
	return dtos
}

func (o *Orchestrator) fetchBookA(ctx context.Context, pair types.MarketPair) (types.UnifiedOrderBook, error) {
	if err := o.limiterA.Wait(ctx); err != nil {
		return types.UnifiedOrderBook{}, err
	}
	market := types.MarketRef{Venue: types.VenueA, YesTokenID: pair.YesTokenIDA, NoTokenID: pair.NoTokenIDA}
	return o.venueA.FetchOrderBook(ctx, market)
}

func (o *Orchestrator) fetchBookB(ctx context.Context, pair types.MarketPair) (types.UnifiedOrderBook, error) {
	if err := o.limiterB.Wait(ctx); err != nil {
		return types.UnifiedOrderBook{}, err
	}
	market := types.MarketRef{Venue: types.VenueB, Ticker: pair.TickerB}
	return o.venueB.FetchOrderBook(ctx, market)
}

func toDTO(opp types.ArbitrageOpportunity, analysis types.LiquidityAnalysis) types.OpportunityDTO {
	dto := types.OpportunityDTO{
		ID:         fmt.Sprintf("%s:%s", opp.Pair.Matched.VenueAIdentifier, opp.Pair.Matched.VenueBIdentifier),
		EventName:  opp.Pair.Matched.Name,
		MarketName: opp.Pair.QuestionA,
		Category:   opp.Pair.Matched.Category,
		Type:       opp.Type,
		SpreadPct:  opp.ProfitPct,
		Action:     opp.Action,
		Prices: types.PricesDTO{
			VenueA: types.VenuePricesDTO{Yes: opp.Pair.YesPriceA, No: opp.Pair.NoPriceA},
			VenueB: types.VenuePricesDTO{Yes: opp.Pair.YesPriceB, No: opp.Pair.NoPriceB},
		},
		LastUpdated: opp.DetectedAt,
	}
	if opp.GuaranteedProfit != nil {
		dto.PotentialProfit = *opp.GuaranteedProfit
	}

	if analysis.Ladder != nil || analysis.LimitedBy != "" {
		dto.MaxInvestment = analysis.MaxInvestment
		limitedBy := analysis.LimitedBy
		status := types.LiquidityAvailable
		switch limitedBy {
		case types.LimitedByNoLiquidity:
			status = types.LiquidityNone
		case types.LimitedBySpreadClosed:
			status = types.LiquiditySpreadClosed
		}
		dto.Liquidity = types.LiquidityDTO{Status: status, LimitedBy: &limitedBy}
		if analysis.MaxContracts > 0 {
			dto.PotentialProfit = analysis.MaxProfit
		}
	} else {
		dto.Liquidity = types.LiquidityDTO{Status: types.LiquidityNotAnalyzed}
	}
	return dto
}
