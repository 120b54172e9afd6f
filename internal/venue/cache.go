package venue

import (
	"context"
	"time"

	"github.com/rmcole/binscan/pkg/cache"
	"github.com/rmcole/binscan/pkg/types"
	"go.uber.org/zap"
)

// eventCacheEntry bundles the two FetchEvent return values so a single
// pkg/cache.Cache entry can hold both.
type eventCacheEntry struct {
	event   types.EventRef
	markets []types.MarketRef
}

// CachingClient wraps a Client with a short-TTL memoization cache over
// FetchEvent. A single scan tick resolves the same identifier more than once
// — the dynamic template matcher probes several dates against the same
// venue-A slug pattern root, and sports-game synthesis re-derives events the
// static catalog already touched — so memoizing within the poll interval
// avoids redundant round-trips without risking a stale snapshot across ticks.
type CachingClient struct {
	Client
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachingClient wraps client with a memoizing FetchEvent, backed by c with
// entries expiring after ttl.
func NewCachingClient(client Client, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachingClient {
	return &CachingClient{Client: client, cache: c, ttl: ttl, logger: logger}
}

func (c *CachingClient) key(identifier string) string {
	return string(c.Venue()) + ":event:" + identifier
}

// FetchEvent serves from the memoization cache when present, otherwise
// delegates to the wrapped Client and caches a successful result.
func (c *CachingClient) FetchEvent(ctx context.Context, identifier string) (types.EventRef, []types.MarketRef, error) {
	key := c.key(identifier)
	if cached, ok := c.cache.Get(key); ok {
		entry, ok := cached.(eventCacheEntry)
		if ok {
			return entry.event, entry.markets, nil
		}
	}

	event, markets, err := c.Client.FetchEvent(ctx, identifier)
	if err != nil {
		return event, markets, err
	}

	if ok := c.cache.Set(key, eventCacheEntry{event: event, markets: markets}, c.ttl); !ok {
		c.logger.Debug("event-cache-set-dropped", zap.String("identifier", identifier))
	}
	return event, markets, nil
}

// ListEvents forwards to the wrapped Client when it implements Lister,
// uncached: it's a page-sized call made once per scan, not the
// repeated-identifier pattern FetchEvent memoizes against.
func (c *CachingClient) ListEvents(ctx context.Context, limit int) ([]ListedEvent, error) {
	lister, ok := c.Client.(Lister)
	if !ok {
		return nil, nil
	}
	return lister.ListEvents(ctx, limit)
}
