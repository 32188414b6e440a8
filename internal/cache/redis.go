package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"
)

// Redis — общий для нескольких процессов кэш. Значения кодируются msgpack,
// запись одной командой SET с TTL, поэтому читатели не видят частичных значений.
type Redis[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

func NewRedis[T any](client *redis.Client, prefix string, ttl time.Duration, logger *slog.Logger) *Redis[T] {
	return &Redis[T]{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *Redis[T]) key(k string) string {
	return fmt.Sprintf("crypto-compare:%s:%s", r.prefix, k)
}

func (r *Redis[T]) Take(ctx context.Context, key string, load Loader[T]) (T, error) {
	full := r.key(key)

	if v, ok := r.get(ctx, full); ok {
		return v, nil
	}

	v, err, _ := r.group.Do(full, func() (any, error) {
		val, err := load(ctx)
		if err != nil {
			return nil, err
		}
		r.set(ctx, full, val)
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (r *Redis[T]) get(ctx context.Context, key string) (T, bool) {
	var v T
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis get failed", "key", key, "err", err)
		}
		return v, false
	}
	if err := msgpack.Unmarshal(b, &v); err != nil {
		r.logger.Warn("redis value decode failed", "key", key, "err", err)
		return v, false
	}
	return v, true
}

func (r *Redis[T]) set(ctx context.Context, key string, val any) {
	b, err := msgpack.Marshal(val)
	if err != nil {
		r.logger.Warn("redis value encode failed", "key", key, "err", err)
		return
	}
	if err := r.client.Set(ctx, key, b, r.ttl).Err(); err != nil {
		r.logger.Warn("redis set failed", "key", key, "err", err)
	}
}

// Ping checks the connection to the Redis server.
func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
