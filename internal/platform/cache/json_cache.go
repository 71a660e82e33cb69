// Package cache provides Redis-backed caching helpers and repository decorators.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatch is the COUNT hint passed to SCAN during prefix invalidation.
const scanBatch = 200

// JSONCache stores JSON-encoded values under namespaced keys.
// A JSONCache with a nil client is valid and behaves as a permanent miss.
type JSONCache struct {
	rdb       *redis.Client
	namespace string
	ttl       time.Duration
}

// NewJSONCache creates a cache. If ttl is 0, it defaults to 5 minutes.
func NewJSONCache(rdb *redis.Client, namespace string, ttl time.Duration) *JSONCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &JSONCache{rdb: rdb, namespace: namespace, ttl: ttl}
}

// Enabled reports whether a Redis client is configured.
func (c *JSONCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Key joins the namespace and the escaped parts with ':'.
func (c *JSONCache) Key(parts ...string) string {
	var b strings.Builder
	b.WriteString(c.namespace)
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(safe(p))
	}
	return b.String()
}

// Get decodes the value at key into dst. A miss returns (false, nil).
// Entries that fail to decode are deleted and reported as a miss.
func (c *JSONCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

// GetMany returns the raw values of the keys that are present.
func (c *JSONCache) GetMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if !c.Enabled() || len(keys) == 0 {
		return out, nil
	}
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		if s, ok := v.(string); ok && s != "" {
			out[keys[i]] = []byte(s)
		}
	}
	return out, nil
}

// Set stores v at key. A non-positive ttl uses the cache default.
func (c *JSONCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

// DeletePrefix deletes all keys starting with prefix using SCAN.
func (c *JSONCache) DeletePrefix(ctx context.Context, prefix string) error {
	if !c.Enabled() {
		return nil
	}
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			return nil
		}
	}
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
