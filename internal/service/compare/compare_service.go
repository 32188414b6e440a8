package compare

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NastyaGoryachaya/crypto-compare-service/internal/consts"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/domain"
	derrors "github.com/NastyaGoryachaya/crypto-compare-service/internal/errors"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/pkg/clock"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/service/score"
)

// Сравнение одного или двух активов за период: история, оценка, текущая цена

// Request — запрос пользователя. Нулевые Start/End означают начало текущего месяца и сегодня,
// пустая Currency — валюту по умолчанию. Token выдаётся Tracker.Begin и возвращается в результате.
type Request struct {
	Token     uint64
	Primary   string
	Secondary string
	Currency  string
	Start     time.Time
	End       time.Time
}

type Service interface {
	Compare(ctx context.Context, req Request) (domain.ComparisonResult, error)
	// Catalog — каталог для списков выбора; при ErrCatalogUnavailable пустой.
	Catalog(ctx context.Context) (domain.Catalog, error)
	Suggest(ctx context.Context, query string, limit int) ([]domain.Asset, error)
}

type CatalogLoader interface {
	Load(ctx context.Context) (domain.Catalog, error)
}

type MarketData interface {
	FetchSeries(ctx context.Context, id, currency string, start, end time.Time) (domain.PriceSeries, error)
	FetchSpot(ctx context.Context, id, currency string) (float64, bool)
}

type Options struct {
	DefaultCurrency string
	Currencies      []string
	Location        *time.Location
}

type service struct {
	catalog         CatalogLoader
	market          MarketData
	defaultCurrency string
	currencies      []string
	loc             *time.Location
	clock           clock.Clock
	logger          *slog.Logger
}

func NewService(catalog CatalogLoader, market MarketData, opts Options, logger *slog.Logger) Service {
	return NewServiceWithClock(catalog, market, opts, clock.NewRealClock(), logger)
}

// NewServiceWithClock - Конструктор для тестов: позволяет подставить фиксированные "часы".
func NewServiceWithClock(catalog CatalogLoader, market MarketData, opts Options, clk clock.Clock, logger *slog.Logger) Service {
	def := consts.NormalizeCurrency(opts.DefaultCurrency)
	if def == "" {
		def = consts.DefaultQuoteCurrency
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &service{
		catalog:         catalog,
		market:          market,
		defaultCurrency: def,
		currencies:      opts.Currencies,
		loc:             loc,
		clock:           clk,
		logger:          logger,
	}
}

func (s *service) Catalog(ctx context.Context) (domain.Catalog, error) {
	return s.catalog.Load(ctx)
}

func (s *service) Suggest(ctx context.Context, query string, limit int) ([]domain.Asset, error) {
	c, err := s.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	return c.Suggest(query, limit), nil
}

func (s *service) Compare(ctx context.Context, req Request) (domain.ComparisonResult, error) {
	currency, err := s.currency(req.Currency)
	if err != nil {
		return domain.ComparisonResult{}, err
	}
	start, end, err := s.dates(req.Start, req.End)
	if err != nil {
		return domain.ComparisonResult{}, err
	}

	cat, err := s.catalog.Load(ctx)
	if err != nil {
		return domain.ComparisonResult{}, err
	}
	primary, ok := cat.Resolve(strings.TrimSpace(req.Primary))
	if !ok {
		return domain.ComparisonResult{}, derrors.NewValidationError("invalid primary asset")
	}
	secondary, hasSecondary := cat.Resolve(strings.TrimSpace(req.Secondary))

	var (
		primaryReport   = domain.AssetReport{Asset: primary}
		secondaryReport = domain.AssetReport{Asset: secondary}
		secondaryErr    error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		series, err := s.market.FetchSeries(gctx, primary.ID, currency, start, end)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", derrors.ErrDataUnavailable, primary.DisplayName, err)
		}
		primaryReport.Series = series
		primaryReport.Score = score.Score(series.Points)
		return nil
	})
	g.Go(func() error {
		primaryReport.Spot = s.spot(gctx, primary.ID, currency)
		return nil
	})
	if hasSecondary {
		g.Go(func() error {
			series, err := s.market.FetchSeries(gctx, secondary.ID, currency, start, end)
			if err != nil {
				secondaryErr = err
				return nil
			}
			secondaryReport.Series = series
			secondaryReport.Score = score.Score(series.Points)
			return nil
		})
		g.Go(func() error {
			secondaryReport.Spot = s.spot(gctx, secondary.ID, currency)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("comparison failed", "primary", primary.ID, "err", err)
		return domain.ComparisonResult{}, err
	}

	res := domain.ComparisonResult{
		Token:     req.Token,
		Primary:   primaryReport,
		Currency:  currency,
		StartDate: domain.DateKey(start),
		EndDate:   domain.DateKey(end),
		Window:    domain.DayWindow(start, end, s.loc),
	}
	switch {
	case !hasSecondary:
	case secondaryErr != nil:
		s.logger.Info("secondary asset dropped", "secondary", secondary.ID, "err", secondaryErr)
	default:
		res.Secondary = &secondaryReport
	}
	s.logger.Debug("comparison done",
		"primary", primary.ID,
		"secondary", secondary.ID,
		"currency", currency,
		"start", res.StartDate,
		"end", res.EndDate,
	)
	return res, nil
}

func (s *service) spot(ctx context.Context, id, currency string) *float64 {
	v, ok := s.market.FetchSpot(ctx, id, currency)
	if !ok {
		return nil
	}
	return &v
}

func (s *service) currency(raw string) (string, error) {
	cur := consts.NormalizeCurrency(raw)
	if cur == "" {
		cur = s.defaultCurrency
	}
	if !consts.IsSupported(cur, s.currencies) {
		return "", derrors.NewValidationError("unsupported quote currency")
	}
	return cur, nil
}

// dates — календарные даты запроса; конец периода раньше начала недопустим.
func (s *service) dates(start, end time.Time) (time.Time, time.Time, error) {
	now := s.clock.Now().In(s.loc)
	if start.IsZero() {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	}
	if end.IsZero() {
		end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	}
	if calendarDay(end).Before(calendarDay(start)) {
		return time.Time{}, time.Time{}, derrors.NewValidationError("end date before start date")
	}
	return start, end, nil
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
