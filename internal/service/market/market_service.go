package market

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NastyaGoryachaya/crypto-compare-service/internal/cache"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/domain"
	derrors "github.com/NastyaGoryachaya/crypto-compare-service/internal/errors"
)

// История цен и текущая цена актива из CoinGecko, с коротким кэшем

type Service interface {
	// FetchSeries — история цен за календарные дни [start; end] включительно.
	FetchSeries(ctx context.Context, id, currency string, start, end time.Time) (domain.PriceSeries, error)
	// FetchSpot — текущая цена; false, если цену получить не удалось.
	FetchSpot(ctx context.Context, id, currency string) (float64, bool)
}

type ChartProvider interface {
	MarketChartRange(ctx context.Context, id, currency string, from, to int64) ([]domain.PricePoint, error)
	SimplePrice(ctx context.Context, id, currency string) (float64, error)
}

type service struct {
	provider ChartProvider
	series   cache.Cache[domain.PriceSeries]
	spot     cache.Cache[float64]
	loc      *time.Location
	logger   *slog.Logger
}

// NewService — loc задаёт календарь, в котором трактуются даты; nil означает time.Local.
func NewService(provider ChartProvider, series cache.Cache[domain.PriceSeries], spot cache.Cache[float64], loc *time.Location, logger *slog.Logger) Service {
	if loc == nil {
		loc = time.Local
	}
	return &service{
		provider: provider,
		series:   series,
		spot:     spot,
		loc:      loc,
		logger:   logger,
	}
}

func SeriesKey(id, currency string, start, end time.Time) string {
	return fmt.Sprintf("series:%s:%s:%s:%s", id, currency, domain.DateKey(start), domain.DateKey(end))
}

func SpotKey(id, currency string) string {
	return fmt.Sprintf("spot:%s:%s", id, currency)
}

func (s *service) FetchSeries(ctx context.Context, id, currency string, start, end time.Time) (domain.PriceSeries, error) {
	key := SeriesKey(id, currency, start, end)
	series, err := s.series.Take(ctx, key, func(ctx context.Context) (domain.PriceSeries, error) {
		w := domain.DayWindow(start, end, s.loc)
		points, err := s.provider.MarketChartRange(ctx, id, currency, w.FromUnix(), w.ToUnix())
		if err != nil {
			return domain.PriceSeries{}, err
		}
		s.logger.Debug("series fetched", "id", id, "currency", currency, "points", len(points))
		return domain.PriceSeries{
			AssetID:  id,
			Currency: currency,
			Window:   w,
			Points:   points,
		}, nil
	})
	if err != nil {
		s.logger.Warn("fetch series failed", "id", id, "currency", currency, "err", err)
		return domain.PriceSeries{}, fmt.Errorf("%w: %s/%s: %w", derrors.ErrFetchFailed, id, currency, err)
	}
	return series, nil
}

func (s *service) FetchSpot(ctx context.Context, id, currency string) (float64, bool) {
	price, err := s.spot.Take(ctx, SpotKey(id, currency), func(ctx context.Context) (float64, error) {
		return s.provider.SimplePrice(ctx, id, currency)
	})
	if err != nil {
		s.logger.Warn("spot price unavailable", "id", id, "currency", currency,
			"err", fmt.Errorf("%w: %w", derrors.ErrSpotUnavailable, err))
		return 0, false
	}
	return price, true
}
