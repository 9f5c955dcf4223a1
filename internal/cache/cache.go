// Package cache implements the optional external cache collaborator: a
// Redis-backed text cache keyed by normalized URL hash. Without it the
// pipeline persists nothing between runs.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/esglens/internal/logger"
	"github.com/jonesrussell/esglens/internal/urlutil"
)

// keyPrefix namespaces cache entries.
const keyPrefix = "esglens:text:"

// defaultTTL bounds how long extracted text stays fresh.
const defaultTTL = 24 * time.Hour

// RedisCache caches normalized document text by URL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Interface
}

// New connects a cache to the given Redis address. Cache failures never fail
// the pipeline; they degrade to cache misses.
func New(addr string, ttl time.Duration, log logger.Interface) *RedisCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
		log:    log.WithComponent("cache"),
	}
}

// Get returns the cached text for a URL, if present.
func (c *RedisCache) Get(ctx context.Context, rawURL string) (string, bool) {
	text, err := c.client.Get(ctx, key(rawURL)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache read failed", "url", rawURL, "error", err)
		}
		return "", false
	}

	return text, true
}

// Set stores the text for a URL with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, rawURL, text string) {
	if err := c.client.Set(ctx, key(rawURL), text, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", "url", rawURL, "error", err)
	}
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func key(rawURL string) string {
	return keyPrefix + urlutil.URLHash(rawURL)
}
