package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/collection"
)

// Memory — кэш в памяти процесса поверх go-zero collection.Cache.
type Memory[T any] struct {
	c *collection.Cache
}

func NewMemory[T any](name string, ttl time.Duration) (*Memory[T], error) {
	c, err := collection.NewCache(ttl, collection.WithName(name))
	if err != nil {
		return nil, fmt.Errorf("create %s cache: %w", name, err)
	}
	return &Memory[T]{c: c}, nil
}

func (m *Memory[T]) Take(ctx context.Context, key string, load Loader[T]) (T, error) {
	v, err := m.c.Take(key, func() (any, error) {
		return load(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache %q: unexpected value type %T", key, v)
	}
	return out, nil
}
