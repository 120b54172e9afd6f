package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rmcole/binscan/internal/arbitrage"
	"github.com/rmcole/binscan/internal/liquidity"
	"github.com/rmcole/binscan/internal/marketmatch"
	"github.com/rmcole/binscan/internal/matchpairs"
	"github.com/rmcole/binscan/internal/scan"
	"github.com/rmcole/binscan/internal/stream"
	"github.com/rmcole/binscan/internal/teams"
	"github.com/rmcole/binscan/internal/venue"
	"github.com/rmcole/binscan/internal/venue/venuea"
	"github.com/rmcole/binscan/internal/venue/venueb"
	"github.com/rmcole/binscan/pkg/cache"
	"github.com/rmcole/binscan/pkg/config"
	"github.com/rmcole/binscan/pkg/healthprobe"
	"github.com/rmcole/binscan/pkg/httpserver"
	"go.uber.org/zap"
)

// New wires config, venue clients, the matcher pipeline, the batch and
// streaming engines, and the HTTP server into a runnable App.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	healthChecker := healthprobe.New()

	eventCache, err := setupEventCache(logger)
	if err != nil {
		return nil, fmt.Errorf("setup event cache: %w", err)
	}

	venueA, venueB := setupVenueClients(cfg, eventCache, logger)

	teamTable := teams.New()
	static := matchpairs.NewStaticCatalog(nil) // market-mappings.json loading is an external-collaborator concern (spec.md §1)
	dynamic := defaultDynamicTemplates()

	pairCache, err := setupPairCache(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup pair cache: %w", err)
	}

	resolver := matchpairs.NewResolver(static, dynamic, teamTable, pairCache, logger)
	matcher := marketmatch.New(teamTable)

	orchestrator := scan.New(
		scanConfig(cfg),
		venueA, venueB,
		resolver, matcher, static, dynamic, teamTable,
		logger,
	)

	var streamEngine *stream.Engine
	if !opts.StreamingDisabled {
		streamEngine = stream.NewEngine(streamConfig(cfg), logger)
	}

	httpServer := setupHTTPServer(cfg, logger, healthChecker, orchestrator)

	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		orchestrator:  orchestrator,
		streamEngine:  streamEngine,
		pairCache:     pairCache,
		eventCache:    eventCache,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupEventCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 10_000,
		MaxCost:     5_000,
		BufferItems: 64,
		Logger:      logger,
	})
}

// setupVenueClients builds the two venue transport adapters and wraps each in
// a memoizing decorator, so a scan tick's repeated FetchEvent calls for the
// same identifier (dynamic-template probing across candidate dates,
// sports-game synthesis re-touching an event the static catalog already
// resolved) don't re-hit the network.
func setupVenueClients(cfg *config.Config, eventCache cache.Cache, logger *zap.Logger) (venue.Client, venue.Client) {
	rawA := venuea.NewClient(cfg.VenueAEventsURL, logger)
	rawB := venueb.NewClient(cfg.VenueBEventsURL, logger)

	ttl := cfg.ScanPollInterval
	if ttl <= 0 {
		ttl = time.Minute
	}

	return venue.NewCachingClient(rawA, eventCache, ttl, logger),
		venue.NewCachingClient(rawB, eventCache, ttl, logger)
}

func setupPairCache(cfg *config.Config, logger *zap.Logger) (matchpairs.PairCache, error) {
	if cfg.MatchCacheMode == "postgres" {
		pgCache, err := matchpairs.NewPostgresPairCache(&matchpairs.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres pair cache: %w", err)
		}
		return pgCache, nil
	}

	return matchpairs.NewConsolePairCache(logger), nil
}

func setupHTTPServer(cfg *config.Config, logger *zap.Logger, healthChecker *healthprobe.HealthChecker, orchestrator *scan.Orchestrator) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:           cfg.HTTPPort,
		Logger:         logger,
		HealthChecker:  healthChecker,
		SnapshotSource: orchestrator,
		PairsSource:    orchestrator,
	})
}

func scanConfig(cfg *config.Config) scan.Config {
	return scan.Config{
		PollInterval:           cfg.ScanPollInterval,
		DynamicScanDays:        cfg.DynamicScanDays,
		MaxLiquidityAnalysis:   cfg.MaxLiquidityAnalysis,
		RateLimitDelay:         cfg.RateLimitDelay,
		ScanTimeout:            cfg.ScanTimeout,
		ListEventsLimit:        cfg.ListEventsLimit,
		MaxConcurrencyPerVenue: cfg.MaxConcurrencyPerVenue,
		Arbitrage:              arbitrageConfig(cfg),
		Liquidity:              liquidityConfig(cfg),
	}
}

func streamConfig(cfg *config.Config) stream.Config {
	return stream.Config{
		VenueAWSURL: cfg.VenueAWSURL,
		VenueBWSURL: cfg.VenueBWSURL,
		Debounce:    cfg.StreamDebounce,
		Arbitrage:   arbitrageConfig(cfg),
		Liquidity:   liquidityConfig(cfg),
	}
}

func arbitrageConfig(cfg *config.Config) arbitrage.Config {
	return arbitrage.Config{
		MinGuaranteedSpread: cfg.ArbMinGuaranteedSpread,
		MinSimpleSpread:     cfg.SimpleSpreadMin,
		VenueAFeePct:        cfg.VenueAFeePct,
		VenueBFeePct:        cfg.VenueBFeePct,
	}
}

func liquidityConfig(cfg *config.Config) liquidity.Config {
	return liquidity.Config{
		MinProfit: 0,
		FeesTotal: cfg.VenueAFeePct + cfg.VenueBFeePct,
	}
}

// defaultDynamicTemplates seeds a handful of recurring cross-venue event
// families (§4.3); real deployments extend this from market-mappings.json, an
// external-collaborator concern spec.md excludes from the core.
func defaultDynamicTemplates() []matchpairs.DynamicTemplate {
	return []matchpairs.DynamicTemplate{
		{
			Name:          "Bitcoin monthly price target",
			Category:      "crypto",
			Frequency:     matchpairs.FreqMonthly,
			VenueAPattern: "what-price-will-bitcoin-hit-in-{month}",
			VenueBPattern: "KXBTCMAX-{yy}{MON}",
		},
		{
			Name:          "CPI monthly release",
			Category:      "economics",
			Frequency:     matchpairs.FreqMonthly,
			VenueAPattern: "cpi-inflation-{month}-{year}",
			VenueBPattern: "KXCPI-{yy}{MON}",
		},
		{
			Name:          "Fed rate decision",
			Category:      "economics",
			Frequency:     matchpairs.FreqQuarterly,
			VenueAPattern: "fed-decision-in-{month}",
			VenueBPattern: "KXFED-{yy}{MON}",
		},
	}
}
