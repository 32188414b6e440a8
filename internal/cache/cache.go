package cache

import "context"

// Loader — загрузка значения при промахе кэша.
type Loader[T any] func(ctx context.Context) (T, error)

// Cache — TTL-кэш с атомарным заполнением по ключу: конкурентные промахи по одному ключу
// выполняют загрузку один раз, ошибки загрузки не кэшируются.
type Cache[T any] interface {
	Take(ctx context.Context, key string, load Loader[T]) (T, error)
}
