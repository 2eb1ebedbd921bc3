package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/locallibrary/internal/domain/catalog"
)

// 需要本地Redis: REDIS_ADDR=localhost:6379 go test ./internal/infrastructure/persistence/redis
func setupClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("未设置REDIS_ADDR,跳过Redis测试")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() {
		ctx := context.Background()
		if keys, err := client.Keys(ctx, summaryKey+"*").Result(); err == nil && len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return client
}

func TestSummaryCache_GetSetInvalidate(t *testing.T) {
	client := setupClient(t)
	cache := NewSummaryCache(client, time.Minute)
	ctx := context.Background()
	require.NoError(t, cache.Invalidate(ctx))

	// 未命中
	got, version, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	want := &catalog.Summary{BookCount: 3, BookInstanceCount: 5, BookInstanceAvailCount: 2, AuthorCount: 2, GenreCount: 4}
	require.NoError(t, cache.Set(ctx, version, want))

	got, again, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, version, again)

	require.NoError(t, cache.Invalidate(ctx))
	got, next, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, version+1, next)
}

func TestSummaryCache_StaleSetIgnored(t *testing.T) {
	client := setupClient(t)
	cache := NewSummaryCache(client, time.Minute)
	ctx := context.Background()

	_, version, err := cache.Get(ctx)
	require.NoError(t, err)

	// 计数期间发生写入
	require.NoError(t, cache.Invalidate(ctx))
	require.NoError(t, cache.Set(ctx, version, &catalog.Summary{AuthorCount: 1}))

	got, _, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "旧版本的回填不可见")
}

func TestSummaryCache_TTL(t *testing.T) {
	client := setupClient(t)
	cache := NewSummaryCache(client, 30*time.Second)
	ctx := context.Background()

	version, err := cache.Version(ctx)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, version, &catalog.Summary{BookCount: 1}))
	ttl, err := client.TTL(ctx, versionedKey(version)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, 30*time.Second)
}
