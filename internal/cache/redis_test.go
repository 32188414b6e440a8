package cache

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NastyaGoryachaya/crypto-compare-service/internal/domain"
)

// Нужен живой Redis: REDIS_ADDR=localhost:6379 go test ./internal/cache/...
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR is not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 0})
	if err := Ping(context.Background(), rdb); err != nil {
		t.Fatalf("Failed to PING Redis: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedis_TakeRoundTrip(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()

	c := NewRedis[domain.PriceSeries](rdb, "test-series", time.Minute, slog.Default())
	key := "bitcoin:usd:" + time.Now().Format(time.RFC3339Nano)
	t.Cleanup(func() { rdb.Del(ctx, c.key(key)) })

	want := domain.PriceSeries{
		AssetID:  "bitcoin",
		Currency: "usd",
		Points: []domain.PricePoint{
			{Timestamp: time.UnixMilli(1704067200000).UTC(), Price: 42000.5},
			{Timestamp: time.UnixMilli(1704070800000).UTC(), Price: 42100.25},
		},
	}

	calls := 0
	load := func(context.Context) (domain.PriceSeries, error) {
		calls++
		return want, nil
	}

	_, err := c.Take(ctx, key, load)
	require.NoError(t, err)

	got, err := c.Take(ctx, key, load)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, got.Points, 2)
	assert.True(t, got.Points[0].Timestamp.Equal(want.Points[0].Timestamp))
	assert.Equal(t, want.Points[1].Price, got.Points[1].Price)

	ttl, err := rdb.TTL(ctx, c.key(key)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRedis_ErrorsAreNotCached(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()

	c := NewRedis[float64](rdb, "test-spot", time.Minute, slog.Default())
	key := "eth:eur:" + time.Now().Format(time.RFC3339Nano)
	t.Cleanup(func() { rdb.Del(ctx, c.key(key)) })

	_, err := c.Take(ctx, key, func(context.Context) (float64, error) { return 0, errors.New("boom") })
	require.Error(t, err)

	n, err := rdb.Exists(ctx, c.key(key)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
