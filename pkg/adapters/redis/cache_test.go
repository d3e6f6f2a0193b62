package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/waterjug/pkg/adapters/redis"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisCache_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunCacheContract(t, redis.NewFromClient(client))
}

func TestRedisCache_SetAppliesSlidingTTL(t *testing.T) {
	mr, client := setup(t)
	cache := redis.NewFromClient(client, redis.WithPrefix("test:"))
	ctx := context.Background()

	err := cache.Set(ctx, "waterjug_2_10_4", &domain.Response{IsSolvable: true, TotalSteps: 4})
	require.NoError(t, err)

	assert.True(t, mr.Exists("test:waterjug_2_10_4"))
	assert.Equal(t, 30*time.Minute, mr.TTL("test:waterjug_2_10_4"))
}

func TestRedisCache_GetRefreshesWithinAbsoluteBound(t *testing.T) {
	mr, client := setup(t)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	cache := redis.NewFromClient(client, redis.WithClock(clock))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", &domain.Response{IsSolvable: true}))

	// 45 minutes later (touched at 20m), only 15 minutes of the hour remain.
	now = now.Add(20 * time.Minute)
	mr.FastForward(20 * time.Minute)
	_, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, mr.TTL("waterjug:cache:k"))

	now = now.Add(25 * time.Minute)
	mr.FastForward(25 * time.Minute)
	_, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, mr.TTL("waterjug:cache:k"))

	// Past the absolute bound the entry is gone even though it was touched.
	now = now.Add(15 * time.Minute)
	mr.FastForward(15 * time.Minute)
	_, err = cache.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	mr, client := setup(t)
	cache := redis.NewFromClient(client)

	require.NoError(t, mr.Set("waterjug:cache:bad", "{not json"))

	_, err := cache.Get(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.False(t, mr.Exists("waterjug:cache:bad"), "corrupt entry should be dropped")

	require.NoError(t, mr.Set("waterjug:cache:empty", `{"created":"2024-01-01T00:00:00Z"}`))
	_, err = cache.Get(context.Background(), "empty")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.False(t, mr.Exists("waterjug:cache:empty"))
}

func TestRedisCache_Ping(t *testing.T) {
	_, client := setup(t)
	cache := redis.NewFromClient(client)
	assert.NoError(t, cache.Ping(context.Background()))
}
