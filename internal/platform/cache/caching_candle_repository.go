package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"wing_backend/internal/feature/candles/domain/entity"
)

// CandleStore is the repository CachingCandleRepository decorates.
type CandleStore interface {
	Find(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
	UpsertBatch(ctx context.Context, candles []entity.Candle) error
}

// CachingCandleRepository decorates a CandleStore with Redis read-through caching.
// Writes invalidate every cached page of the affected symbol and interval.
type CachingCandleRepository struct {
	inner CandleStore
	cache *JSONCache
	ttl   func() time.Duration
}

// NewCachingCandleRepository decorates inner with Redis caching.
// If ttl is 0, entries live until the next daily refresh at 08:00 KST,
// after the ingest batch has written the previous session's candles.
// If namespace is empty, it uses "candles".
func NewCachingCandleRepository(rdb *redis.Client, ttl time.Duration, inner CandleStore, namespace string) *CachingCandleRepository {
	if namespace == "" {
		namespace = "candles"
	}
	ttlFn := func() time.Duration { return ttl }
	if ttl <= 0 {
		ttlFn = func() time.Duration { return TimeUntilNextRefresh(time.Now()) }
	}
	return &CachingCandleRepository{
		inner: inner,
		cache: NewJSONCache(rdb, namespace, ttl),
		ttl:   ttlFn,
	}
}

// UpsertBatch writes through to the inner store and invalidates related entries.
func (c *CachingCandleRepository) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	if err := c.inner.UpsertBatch(ctx, candles); err != nil {
		return err
	}
	if !c.cache.Enabled() || len(candles) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	for _, cd := range candles {
		prefix := c.cache.Key(cd.Symbol, cd.Interval) + ":"
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		_ = c.cache.DeletePrefix(ctx, prefix) // best effort
	}
	return nil
}

// Find returns cached candles when present, otherwise reads the inner store and caches the result.
func (c *CachingCandleRepository) Find(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	if !c.cache.Enabled() {
		return c.inner.Find(ctx, symbol, interval, outputsize)
	}

	key := c.cache.Key(symbol, interval, strconv.Itoa(outputsize))

	var out []entity.Candle
	if hit, err := c.cache.Get(ctx, key, &out); err == nil && hit {
		return out, nil
	}

	out, err := c.inner.Find(ctx, symbol, interval, outputsize)
	if err != nil {
		return nil, err
	}

	_ = c.cache.Set(ctx, key, out, c.ttl())
	return out, nil
}
