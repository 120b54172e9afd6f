// Package retry implements the exponential-backoff fetch-retry pattern used
// throughout the scanner's venue clients.
package retry

import (
	"context"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Config controls the backoff schedule.
type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Logger      *zap.Logger
}

// DefaultConfig returns the scanner's standard retry schedule: 3 attempts,
// 100ms base delay doubling up to a 5s cap.
func DefaultConfig(logger *zap.Logger) Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Logger:      logger,
	}
}

// Do calls fn until it returns a nil error, ctx is canceled, or MaxAttempts
// is exhausted, sleeping an exponentially growing, jittered delay between
// attempts. The final error is returned if every attempt fails.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == cfg.MaxAttempts-1 {
			break
		}

		delay := backoffDelay(cfg.BaseDelay, cfg.MaxDelay, attempt)
		if cfg.Logger != nil {
			cfg.Logger.Debug("retry-backoff",
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

// backoffDelay computes base*2^attempt capped at max, with +/-20% jitter.
func backoffDelay(base, max time.Duration, attempt int) time.Duration {
	scaled := float64(base) * math.Pow(2, float64(attempt))
	if scaled > float64(max) {
		scaled = float64(max)
	}
	jitter := 1 + (rand.Float64()*0.4 - 0.2)
	return time.Duration(scaled * jitter)
}
