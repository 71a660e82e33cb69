package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"wing_backend/internal/feature/candles/domain/entity"
)

// DailySource is the vendor candle source CachingDailySource decorates.
type DailySource interface {
	GetDailyCandles(ctx context.Context, symbol string, from, to time.Time) ([]entity.Candle, error)
}

// CachingDailySource caches vendor daily candles per symbol and date range.
// Errors and empty ranges are not cached.
type CachingDailySource struct {
	inner DailySource
	cache *JSONCache
	ttl   func() time.Duration
}

// NewCachingDailySource decorates inner with Redis caching.
// If ttl is 0, entries live until the next daily refresh at 08:00 KST.
// If namespace is empty, it uses "daily".
func NewCachingDailySource(rdb *redis.Client, ttl time.Duration, inner DailySource, namespace string) *CachingDailySource {
	if namespace == "" {
		namespace = "daily"
	}
	ttlFn := func() time.Duration { return ttl }
	if ttl <= 0 {
		ttlFn = func() time.Duration { return TimeUntilNextRefresh(time.Now()) }
	}
	return &CachingDailySource{
		inner: inner,
		cache: NewJSONCache(rdb, namespace, ttl),
		ttl:   ttlFn,
	}
}

// GetDailyCandles returns cached candles for [from, to] when present, otherwise asks the vendor.
func (c *CachingDailySource) GetDailyCandles(ctx context.Context, symbol string, from, to time.Time) ([]entity.Candle, error) {
	if !c.cache.Enabled() {
		return c.inner.GetDailyCandles(ctx, symbol, from, to)
	}

	key := c.cache.Key(symbol, from.Format("20060102"), to.Format("20060102"))

	var out []entity.Candle
	if hit, err := c.cache.Get(ctx, key, &out); err == nil && hit {
		return out, nil
	}

	out, err := c.inner.GetDailyCandles(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}
	if len(out) > 0 {
		_ = c.cache.Set(ctx, key, out, c.ttl())
	}
	return out, nil
}
