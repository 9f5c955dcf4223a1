package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/esglens/internal/cache"
	"github.com/jonesrussell/esglens/internal/logger"
)

func newTestCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)

	c := cache.New(server.Addr(), time.Hour, logger.NewNoOp())
	t.Cleanup(func() {
		_ = c.Close()
	})

	return c, server
}

func TestCacheRoundTrip(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t)
	ctx := context.Background()

	const url = "https://example.com/sustainability"

	_, ok := c.Get(ctx, url)
	assert.False(t, ok, "miss before set")

	c.Set(ctx, url, "extracted sustainability text")

	text, ok := c.Get(ctx, url)
	require.True(t, ok)
	assert.Equal(t, "extracted sustainability text", text)
}

func TestCacheKeysByNormalizedURL(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "https://Example.com/esg/", "text")

	// Equivalent spellings of the same URL hit the same entry.
	text, ok := c.Get(ctx, "https://example.com/esg#section")
	require.True(t, ok)
	assert.Equal(t, "text", text)
}

func TestCacheEntriesExpire(t *testing.T) {
	t.Parallel()

	c, server := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "https://example.com/esg", "text")
	server.FastForward(2 * time.Hour)

	_, ok := c.Get(ctx, "https://example.com/esg")
	assert.False(t, ok)
}

func TestCacheUnavailableServerDegradesToMiss(t *testing.T) {
	t.Parallel()

	c, server := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "https://example.com/esg", "text")
	server.Close()

	_, ok := c.Get(ctx, "https://example.com/esg")
	assert.False(t, ok, "a dead cache is a miss, never an error")
}
