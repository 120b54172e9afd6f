package config

import (
	"os"
	"testing"
	"time"
)

func clearScannerEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"LOG_LEVEL", "HTTP_PORT",
		"VENUE_A_EVENTS_URL", "VENUE_A_BOOK_URL", "VENUE_A_WS_URL",
		"VENUE_B_EVENTS_URL", "VENUE_B_BOOK_URL", "VENUE_B_WS_URL", "VENUE_B_AUTH_TOKEN",
		"POLL_INTERVAL_MS", "DYNAMIC_SCAN_DAYS", "MAX_LIQUIDITY_ANALYSIS",
		"RATE_LIMIT_DELAY_MS", "TIMEOUT_MS", "LIST_EVENTS_LIMIT", "MAX_CONCURRENCY_PER_VENUE",
		"DEBOUNCE_MS", "ARB_MIN_GUARANTEED", "SIMPLE_SPREAD_MIN", "POLY_FEE", "KALSHI_FEE",
		"MATCH_CACHE_MODE", "POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER",
		"POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_SSLMODE",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearScannerEnv(t)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Errorf("expected default HTTPPort 8080, got %q", cfg.HTTPPort)
	}
	if cfg.DynamicScanDays != 3 {
		t.Errorf("expected default DynamicScanDays 3, got %d", cfg.DynamicScanDays)
	}
	if cfg.MaxLiquidityAnalysis != 25 {
		t.Errorf("expected default MaxLiquidityAnalysis 25, got %d", cfg.MaxLiquidityAnalysis)
	}
	if cfg.RateLimitDelay != 150*time.Millisecond {
		t.Errorf("expected default RateLimitDelay 150ms, got %s", cfg.RateLimitDelay)
	}
	if cfg.ScanPollInterval != 60*time.Second {
		t.Errorf("expected default ScanPollInterval 60s, got %s", cfg.ScanPollInterval)
	}
	if cfg.StreamDebounce != 100*time.Millisecond {
		t.Errorf("expected default StreamDebounce 100ms, got %s", cfg.StreamDebounce)
	}
	if cfg.VenueAFeePct != 0.02 || cfg.VenueBFeePct != 0.01 {
		t.Errorf("expected default fees 0.02/0.01, got %f/%f", cfg.VenueAFeePct, cfg.VenueBFeePct)
	}
	if cfg.MatchCacheMode != "console" {
		t.Errorf("expected default MatchCacheMode console, got %q", cfg.MatchCacheMode)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearScannerEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DYNAMIC_SCAN_DAYS", "7")
	t.Setenv("RATE_LIMIT_DELAY_MS", "250")
	t.Setenv("MATCH_CACHE_MODE", "postgres")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.HTTPPort != "9090" {
		t.Errorf("expected overridden HTTPPort 9090, got %q", cfg.HTTPPort)
	}
	if cfg.DynamicScanDays != 7 {
		t.Errorf("expected overridden DynamicScanDays 7, got %d", cfg.DynamicScanDays)
	}
	if cfg.RateLimitDelay != 250*time.Millisecond {
		t.Errorf("expected overridden RateLimitDelay 250ms, got %s", cfg.RateLimitDelay)
	}
	if cfg.MatchCacheMode != "postgres" {
		t.Errorf("expected overridden MatchCacheMode postgres, got %q", cfg.MatchCacheMode)
	}
}

func validConfig() *Config {
	return &Config{
		HTTPPort:               "8080",
		VenueAEventsURL:        "https://example.test",
		VenueBEventsURL:        "https://example.test",
		DynamicScanDays:        3,
		MaxLiquidityAnalysis:   25,
		RateLimitDelay:         150 * time.Millisecond,
		ScanTimeout:            30 * time.Second,
		ListEventsLimit:        200,
		MaxConcurrencyPerVenue: 8,
		StreamDebounce:         100 * time.Millisecond,
		ArbMinGuaranteedSpread: 0,
		SimpleSpreadMin:        0.02,
		VenueAFeePct:           0.02,
		VenueBFeePct:           0.01,
		MatchCacheMode:         "console",
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty-http-port", func(c *Config) { c.HTTPPort = "" }, true},
		{"empty-venue-a-url", func(c *Config) { c.VenueAEventsURL = "" }, true},
		{"empty-venue-b-url", func(c *Config) { c.VenueBEventsURL = "" }, true},
		{"negative-dynamic-days", func(c *Config) { c.DynamicScanDays = -1 }, true},
		{"zero-max-liquidity", func(c *Config) { c.MaxLiquidityAnalysis = 0 }, true},
		{"negative-rate-limit-delay", func(c *Config) { c.RateLimitDelay = -1 }, true},
		{"zero-scan-timeout", func(c *Config) { c.ScanTimeout = 0 }, true},
		{"zero-max-concurrency", func(c *Config) { c.MaxConcurrencyPerVenue = 0 }, true},
		{"negative-debounce", func(c *Config) { c.StreamDebounce = -1 }, true},
		{"arb-min-guaranteed-out-of-range", func(c *Config) { c.ArbMinGuaranteedSpread = 1.0 }, true},
		{"simple-spread-min-out-of-range", func(c *Config) { c.SimpleSpreadMin = -0.1 }, true},
		{"venue-a-fee-out-of-range", func(c *Config) { c.VenueAFeePct = 1.0 }, true},
		{"venue-b-fee-out-of-range", func(c *Config) { c.VenueBFeePct = -0.1 }, true},
		{"invalid-match-cache-mode", func(c *Config) { c.MatchCacheMode = "redis" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}
