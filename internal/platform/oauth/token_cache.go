// Package oauth holds the process-wide access token cache used by vendor clients.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultRefreshMargin is how long before expiry a cached token is treated as stale.
const DefaultRefreshMargin = 5 * time.Minute

// ErrEmptyToken is returned when the issuer answers without a token value.
var ErrEmptyToken = errors.New("issuer returned an empty access token")

// Token is an access token and the instant it stops being accepted.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// FetchFunc obtains a fresh token from the issuer.
type FetchFunc func(ctx context.Context) (Token, error)

// TokenCache caches one token and refreshes it slightly before it expires.
// Concurrent callers may refresh redundantly; the last fetched token wins.
type TokenCache struct {
	mu     sync.RWMutex
	token  Token
	fetch  FetchFunc
	margin time.Duration
	now    func() time.Time
}

// NewTokenCache creates a cache around fetch. A non-positive margin uses DefaultRefreshMargin.
func NewTokenCache(fetch FetchFunc, margin time.Duration) *TokenCache {
	if margin <= 0 {
		margin = DefaultRefreshMargin
	}
	return &TokenCache{fetch: fetch, margin: margin, now: time.Now}
}

// Get returns the cached token, refreshing it first when it is missing or
// within the refresh margin of its expiry.
func (c *TokenCache) Get(ctx context.Context) (string, error) {
	c.mu.RLock()
	t := c.token
	c.mu.RUnlock()

	if t.Value != "" && c.now().Add(c.margin).Before(t.ExpiresAt) {
		return t.Value, nil
	}
	return c.Refresh(ctx)
}

// Refresh fetches a new token unconditionally and stores it.
func (c *TokenCache) Refresh(ctx context.Context) (string, error) {
	t, err := c.fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}
	if t.Value == "" {
		return "", ErrEmptyToken
	}

	c.mu.Lock()
	c.token = t
	c.mu.Unlock()
	return t.Value, nil
}

// Invalidate drops the cached token so the next Get refreshes it.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	c.token = Token{}
	c.mu.Unlock()
}
