package matchpairs

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// ConsolePairCache is an in-memory PairCache that logs decisions instead of
// persisting them. Used when MATCH_CACHE_MODE=console; decisions do not survive
// a process restart.
type ConsolePairCache struct {
	mu       sync.RWMutex
	decided  map[string]bool // key -> confirmed
	logger   *zap.Logger
}

// NewConsolePairCache creates a new console-backed pair cache.
func NewConsolePairCache(logger *zap.Logger) *ConsolePairCache {
	logger.Info("console-pair-cache-initialized")
	return &ConsolePairCache{
		decided: make(map[string]bool),
		logger:  logger,
	}
}

func pairKey(a, b string) string {
	return a + "|" + b
}

func (c *ConsolePairCache) RecordConfirmed(ctx context.Context, eventAID, eventBID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decided[pairKey(eventAID, eventBID)] = true
	c.logger.Info("fuzzy-pair-confirmed", zap.String("event-a", eventAID), zap.String("event-b", eventBID))
	return nil
}

func (c *ConsolePairCache) RecordRejected(ctx context.Context, eventAID, eventBID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decided[pairKey(eventAID, eventBID)] = false
	c.logger.Info("fuzzy-pair-rejected", zap.String("event-a", eventAID), zap.String("event-b", eventBID))
	return nil
}

func (c *ConsolePairCache) Decision(ctx context.Context, eventAID, eventBID string) (bool, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	confirmed, ok := c.decided[pairKey(eventAID, eventBID)]
	return ok, confirmed, nil
}

func (c *ConsolePairCache) Close() error {
	c.logger.Info("closing-console-pair-cache")
	return nil
}
