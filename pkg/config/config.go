package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration for the cross-venue arbitrage
// scanner: venue transport endpoints, the batch-scan and streaming-engine
// tunables named in §6, the arbitrage calculator's fee/spread thresholds,
// and the fuzzy-match cache's storage mode.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Venue A (decimal-price, token-id order books). Events and order-book
	// fetches share one base URL, per internal/venue/venuea.Client.
	VenueAEventsURL string
	VenueAWSURL     string

	// Venue B (cent-price, ticker-keyed order books). Events and order-book
	// fetches share one base URL, per internal/venue/venueb.Client.
	VenueBEventsURL string
	VenueBWSURL     string
	VenueBAuthToken string

	// Batch scan orchestrator (§4.8, §6)
	ScanPollInterval       time.Duration // POLL_INTERVAL_MS
	DynamicScanDays        int           // DYNAMIC_SCAN_DAYS
	MaxLiquidityAnalysis   int           // MAX_LIQUIDITY_ANALYSIS
	RateLimitDelay         time.Duration // RATE_LIMIT_DELAY_MS
	ScanTimeout            time.Duration // TIMEOUT_MS
	ListEventsLimit        int
	MaxConcurrencyPerVenue int

	// Streaming engine (§4.9, §6)
	StreamDebounce time.Duration // DEBOUNCE_MS

	// Arbitrage calculator (§4.6, §6)
	ArbMinGuaranteedSpread float64 // ARB_MIN_GUARANTEED
	SimpleSpreadMin        float64 // SIMPLE_SPREAD_MIN
	VenueAFeePct           float64 // POLY_FEE, expressed as a fraction
	VenueBFeePct           float64 // KALSHI_FEE, expressed as a fraction

	// Fuzzy-match persistent cache (§4.3)
	MatchCacheMode string // "console" or "postgres"
	PostgresHost   string
	PostgresPort   string
	PostgresUser   string
	PostgresPass   string
	PostgresDB     string
	PostgresSSL    string
}

// LoadFromEnv loads configuration from environment variables with defaults,
// first loading a .env file from the working directory if one is present
// (missing .env is not an error — only malformed ones are).
func LoadFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		VenueAEventsURL: getEnvOrDefault("VENUE_A_EVENTS_URL", "https://gamma-api.polymarket.com"),
		VenueAWSURL:     getEnvOrDefault("VENUE_A_WS_URL", "wss://ws-subscriptions-clob.polymarket.com/ws/market"),

		VenueBEventsURL: getEnvOrDefault("VENUE_B_EVENTS_URL", "https://trading-api.kalshi.com/trade-api/v2"),
		VenueBWSURL:     getEnvOrDefault("VENUE_B_WS_URL", "wss://trading-api.kalshi.com/trade-api/ws/v2"),
		VenueBAuthToken: os.Getenv("VENUE_B_AUTH_TOKEN"),

		ScanPollInterval:       getDurationOrDefault("POLL_INTERVAL_MS", 60*time.Second),
		DynamicScanDays:        getIntOrDefault("DYNAMIC_SCAN_DAYS", 3),
		MaxLiquidityAnalysis:   getIntOrDefault("MAX_LIQUIDITY_ANALYSIS", 25),
		RateLimitDelay:         getDurationOrDefault("RATE_LIMIT_DELAY_MS", 150*time.Millisecond),
		ScanTimeout:            getDurationOrDefault("TIMEOUT_MS", 30*time.Second),
		ListEventsLimit:        getIntOrDefault("LIST_EVENTS_LIMIT", 200),
		MaxConcurrencyPerVenue: getIntOrDefault("MAX_CONCURRENCY_PER_VENUE", 8),

		StreamDebounce: getDurationOrDefault("DEBOUNCE_MS", 100*time.Millisecond),

		ArbMinGuaranteedSpread: getFloat64OrDefault("ARB_MIN_GUARANTEED", 0.0),
		SimpleSpreadMin:        getFloat64OrDefault("SIMPLE_SPREAD_MIN", 0.02),
		VenueAFeePct:           getFloat64OrDefault("POLY_FEE", 0.02),
		VenueBFeePct:           getFloat64OrDefault("KALSHI_FEE", 0.01),

		MatchCacheMode: getEnvOrDefault("MATCH_CACHE_MODE", "console"),
		PostgresHost:   getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort:   getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser:   getEnvOrDefault("POSTGRES_USER", "binscan"),
		PostgresPass:   getEnvOrDefault("POSTGRES_PASSWORD", "binscan"),
		PostgresDB:     getEnvOrDefault("POSTGRES_DB", "binscan_matchcache"),
		PostgresSSL:    getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return errors.New("HTTP_PORT cannot be empty")
	}
	if c.VenueAEventsURL == "" {
		return errors.New("VENUE_A_EVENTS_URL cannot be empty")
	}
	if c.VenueBEventsURL == "" {
		return errors.New("VENUE_B_EVENTS_URL cannot be empty")
	}

	if c.DynamicScanDays < 0 {
		return fmt.Errorf("DYNAMIC_SCAN_DAYS must be non-negative, got %d", c.DynamicScanDays)
	}
	if c.MaxLiquidityAnalysis <= 0 {
		return fmt.Errorf("MAX_LIQUIDITY_ANALYSIS must be positive, got %d", c.MaxLiquidityAnalysis)
	}
	if c.RateLimitDelay < 0 {
		return fmt.Errorf("RATE_LIMIT_DELAY_MS must be non-negative, got %s", c.RateLimitDelay)
	}
	if c.ScanTimeout <= 0 {
		return fmt.Errorf("TIMEOUT_MS must be positive, got %s", c.ScanTimeout)
	}
	if c.ListEventsLimit < 0 {
		return fmt.Errorf("LIST_EVENTS_LIMIT must be non-negative, got %d", c.ListEventsLimit)
	}
	if c.MaxConcurrencyPerVenue <= 0 {
		return fmt.Errorf("MAX_CONCURRENCY_PER_VENUE must be positive, got %d", c.MaxConcurrencyPerVenue)
	}
	if c.StreamDebounce < 0 {
		return fmt.Errorf("DEBOUNCE_MS must be non-negative, got %s", c.StreamDebounce)
	}

	if c.ArbMinGuaranteedSpread < 0 || c.ArbMinGuaranteedSpread >= 1 {
		return fmt.Errorf("ARB_MIN_GUARANTEED must be in [0,1), got %f", c.ArbMinGuaranteedSpread)
	}
	if c.SimpleSpreadMin < 0 || c.SimpleSpreadMin >= 1 {
		return fmt.Errorf("SIMPLE_SPREAD_MIN must be in [0,1), got %f", c.SimpleSpreadMin)
	}
	if c.VenueAFeePct < 0 || c.VenueAFeePct >= 1 {
		return fmt.Errorf("POLY_FEE must be in [0,1), got %f", c.VenueAFeePct)
	}
	if c.VenueBFeePct < 0 || c.VenueBFeePct >= 1 {
		return fmt.Errorf("KALSHI_FEE must be in [0,1), got %f", c.VenueBFeePct)
	}

	if c.MatchCacheMode != "console" && c.MatchCacheMode != "postgres" {
		return fmt.Errorf("MATCH_CACHE_MODE must be 'console' or 'postgres', got %q", c.MatchCacheMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Accept both a plain millisecond integer (matching the *_MS env var
	// naming convention in §6) and a Go duration string like "150ms".
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
