package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/NastyaGoryachaya/crypto-compare-service/internal/cache"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/domain"
	derrors "github.com/NastyaGoryachaya/crypto-compare-service/internal/errors"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/pkg/clock"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/repository"
)

// Загрузка каталога монет: кэш -> снапшот в БД -> CoinGecko

type Service interface {
	// Load — отображение displayName -> id. При недоступности API возвращает пустой
	// каталог и ошибку ErrCatalogUnavailable.
	Load(ctx context.Context) (domain.Catalog, error)
}

type CoinLister interface {
	ListCoins(ctx context.Context) ([]domain.Coin, error)
}

type SnapshotStore interface {
	LoadSnapshot(ctx context.Context, now time.Time, maxAge time.Duration) (map[string]string, error)
	SaveSnapshot(ctx context.Context, ids map[string]string, at time.Time) error
}

const cacheKey = "catalog"

type service struct {
	lister CoinLister
	store  SnapshotStore
	cache  cache.Cache[domain.Catalog]
	ttl    time.Duration
	clock  clock.Clock
	logger *slog.Logger
}

// NewService — store может быть nil, тогда каталог живёт только в кэше.
func NewService(lister CoinLister, store SnapshotStore, c cache.Cache[domain.Catalog], ttl time.Duration, logger *slog.Logger) Service {
	return NewServiceWithClock(lister, store, c, ttl, clock.NewRealClock(), logger)
}

// NewServiceWithClock - Конструктор для тестов: позволяет подставить фиксированные "часы".
func NewServiceWithClock(lister CoinLister, store SnapshotStore, c cache.Cache[domain.Catalog], ttl time.Duration, clk clock.Clock, logger *slog.Logger) Service {
	return &service{
		lister: lister,
		store:  store,
		cache:  c,
		ttl:    ttl,
		clock:  clk,
		logger: logger,
	}
}

func (s *service) Load(ctx context.Context) (domain.Catalog, error) {
	c, err := s.cache.Take(ctx, cacheKey, s.load)
	if err != nil {
		s.logger.Error("catalog unavailable", "err", err)
		return domain.Catalog{}, fmt.Errorf("%w: %w", derrors.ErrCatalogUnavailable, err)
	}
	return c, nil
}

func (s *service) load(ctx context.Context) (domain.Catalog, error) {
	now := s.clock.Now()

	if s.store != nil {
		ids, err := s.store.LoadSnapshot(ctx, now, s.ttl)
		switch {
		case err == nil:
			s.logger.Debug("catalog served from snapshot", "count", len(ids))
			return domain.CatalogFromMap(ids), nil
		case errors.Is(err, repository.ErrNotFound):
			s.logger.Debug("no fresh catalog snapshot")
		default:
			s.logger.Warn("load catalog snapshot failed", "err", err)
		}
	}

	coins, err := s.lister.ListCoins(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("list coins: %w", err)
	}
	c := domain.NewCatalog(coins)

	if s.store != nil {
		if err := s.store.SaveSnapshot(ctx, c.Map(), now); err != nil {
			s.logger.Warn("save catalog snapshot failed", "err", err)
		}
	}
	s.logger.Info("catalog loaded from upstream", "count", c.Len())
	return c, nil
}
