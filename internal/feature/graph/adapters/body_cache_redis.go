package adapters

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"wing_backend/internal/feature/graph/usecase"
	"wing_backend/internal/platform/cache"
)

// BodyCacheTTL は記事本文キャッシュの既定の保持期間です。
const BodyCacheTTL = 24 * time.Hour

type bodyCacheRedis struct {
	cache *cache.JSONCache
	ttl   time.Duration
}

var _ usecase.BodyCache = (*bodyCacheRedis)(nil)

// NewBodyCache は "article" 名前空間の本文キャッシュを生成します。
// rdb が nil の場合は常にミスになり、ttl が0以下の場合は BodyCacheTTL を使います。
func NewBodyCache(rdb *redis.Client, ttl time.Duration) *bodyCacheRedis {
	if ttl <= 0 {
		ttl = BodyCacheTTL
	}
	return &bodyCacheRedis{cache: cache.NewJSONCache(rdb, "article", ttl), ttl: ttl}
}

func (c *bodyCacheRedis) key(link string) string {
	h := sha256.Sum256([]byte(link))
	return c.cache.Key(fmt.Sprintf("%x", h[:16]))
}

// GetBodies はキャッシュ済みの本文をリンクごとに返します。
func (c *bodyCacheRedis) GetBodies(ctx context.Context, links []string) (map[string]string, error) {
	keys := make([]string, len(links))
	byKey := make(map[string]string, len(links))
	for i, l := range links {
		keys[i] = c.key(l)
		byKey[keys[i]] = l
	}

	raw, err := c.cache.GetMany(ctx, keys)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for k, b := range raw {
		var body string
		if err := json.Unmarshal(b, &body); err != nil {
			continue
		}
		out[byKey[k]] = body
	}
	return out, nil
}

// SetBody は本文を保存します。
func (c *bodyCacheRedis) SetBody(ctx context.Context, link, body string) error {
	return c.cache.Set(ctx, c.key(link), body, c.ttl)
}
