package redis

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResponseCache caches serialized upstream responses (symbol search, news
// sentiment) under namespaced keys. Misses and Redis errors both read as
// "not cached"; callers fall through to the upstream.
type ResponseCache struct {
	rdb    *redis.Client
	prefix string
}

// NewResponseCache creates a cache namespaced by prefix (e.g. "search").
func NewResponseCache(rdb *redis.Client, prefix string) *ResponseCache {
	return &ResponseCache{rdb: rdb, prefix: prefix + ":"}
}

// Get returns the cached payload for key, if present.
func (c *ResponseCache) Get(ctx context.Context, key string) (string, bool) {
	data, err := c.rdb.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		slog.Warn("Response cache read failed", "key", c.prefix+key, "error", err)
		return "", false
	}
	return data, true
}

// Set stores payload under key for ttl. Failures are logged, not returned:
// a broken cache must never fail the request.
func (c *ResponseCache) Set(ctx context.Context, key, payload string, ttl time.Duration) {
	if err := c.rdb.Set(ctx, c.prefix+key, payload, ttl).Err(); err != nil {
		slog.Warn("Response cache write failed", "key", c.prefix+key, "error", err)
	}
}
