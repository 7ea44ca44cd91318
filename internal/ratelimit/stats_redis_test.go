package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return rdb
}

func TestRedisStatsStore_Record(t *testing.T) {
	rdb := setupTestRedis(t)
	ctx := context.Background()
	prefix := "test:ratelimit:" + time.Now().Format("150405.000000")

	s := NewRedisStatsStore(rdb, WithStatsPrefix(prefix), WithStatsTTL(time.Minute))
	at := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, StatsEvent{Key: "1.1.1.1", Allowed: true, Method: "GET", Route: "/api/todos", At: at}))
	require.NoError(t, s.Record(ctx, StatsEvent{Key: "1.1.1.1", Allowed: false, Method: "GET", Route: "/api/todos", At: at}))

	total, err := rdb.HGetAll(ctx, prefix+":total").Result()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"allowed": "1", "denied": "1"}, total)

	minute, err := rdb.HGet(ctx, prefix+":minute:202405010830", "allowed").Result()
	require.NoError(t, err)
	assert.Equal(t, "1", minute)

	route, err := rdb.HGet(ctx, prefix+":route", "GET /api/todos:denied").Result()
	require.NoError(t, err)
	assert.Equal(t, "1", route)

	ttl, err := rdb.TTL(ctx, prefix+":key:1.1.1.1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	rdb.Del(ctx, prefix+":total", prefix+":minute:202405010830", prefix+":route", prefix+":key:1.1.1.1")
}
