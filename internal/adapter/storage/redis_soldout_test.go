package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestSoldOut_MarkAndCheck(t *testing.T) {
	client := getRedis(t)
	ctx := context.Background()
	cache := NewRedisSoldOut(client)

	itemID := time.Now().UnixNano()
	t.Cleanup(func() { client.Del(ctx, soldOutKey(itemID)) })

	sold, err := cache.IsSoldOut(ctx, itemID)
	require.NoError(t, err)
	assert.False(t, sold)

	require.NoError(t, cache.MarkSoldOut(ctx, itemID))

	sold, err = cache.IsSoldOut(ctx, itemID)
	require.NoError(t, err)
	assert.True(t, sold)

	// Re-marking is a no-op, and the marker carries a TTL.
	require.NoError(t, cache.MarkSoldOut(ctx, itemID))
	ttl, err := client.TTL(ctx, soldOutKey(itemID)).Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)
	assert.LessOrEqual(t, ttl, soldOutTTL)
}
