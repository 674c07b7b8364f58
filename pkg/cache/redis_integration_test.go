//go:build integration

package cache_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hashtags/pkg/cache"
	"github.com/dmitrymomot/hashtags/pkg/redis"
)

const testRedisURL = "redis://localhost:6379/0"

type trendingEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestRedisClient(t *testing.T) goredis.UniversalClient {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = testRedisURL
	}

	client, err := redis.Open(context.Background(), url)
	require.NoError(t, err, "failed to connect to Redis")
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestRedis(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestRedisClient(t)
	prefix := fmt.Sprintf("test-%d", time.Now().UnixNano())
	c := cache.NewRedis[[]trendingEntry](client, cache.WithPrefix(prefix))
	t.Cleanup(func() { _ = c.Clear(ctx) })

	_, err := c.Get(ctx, "missing")
	require.ErrorIs(t, err, cache.ErrNotFound)

	want := []trendingEntry{{Name: "go", Count: 3}, {Name: "db", Count: 1}}
	require.NoError(t, c.Set(ctx, "trending:10", want, 0))

	got, err := c.Get(ctx, "trending:10")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	ttl, err := client.TTL(ctx, prefix+":trending:10").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)

	require.NoError(t, c.Set(ctx, "forever", want, -1))
	ttl, err = client.TTL(ctx, prefix+":forever").Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl)

	require.NoError(t, client.Set(ctx, "other:key", "x", time.Minute).Err())
	t.Cleanup(func() { _ = client.Del(ctx, "other:key").Err() })

	require.NoError(t, c.Clear(ctx))
	_, err = c.Get(ctx, "trending:10")
	require.ErrorIs(t, err, cache.ErrNotFound)
	assert.Equal(t, int64(1), client.Exists(ctx, "other:key").Val())

	require.NoError(t, client.Set(ctx, prefix+":bad", "not json", time.Minute).Err())
	_, err = c.Get(ctx, "bad")
	require.ErrorIs(t, err, cache.ErrUnmarshal)
}

func TestRedis_Loader(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newTestRedisClient(t)
	c := cache.NewRedis[int](client, cache.WithPrefix(fmt.Sprintf("test-loader-%d", time.Now().UnixNano())))
	t.Cleanup(func() { _ = c.Clear(ctx) })

	loader := cache.NewLoader[int](c, time.Minute)
	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return 5, nil
	}

	for range 3 {
		v, err := loader.GetOrSet(ctx, "k", load)
		require.NoError(t, err)
		assert.Equal(t, 5, v)
	}
	assert.Equal(t, 1, calls)
}
