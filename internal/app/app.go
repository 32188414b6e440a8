package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"

	botpkg "github.com/NastyaGoryachaya/crypto-compare-service/internal/bot"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/bot/adapter"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/cache"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/config"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/domain"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/infra/coingecko"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/infra/db"
	repopg "github.com/NastyaGoryachaya/crypto-compare-service/internal/repository/postgres"
	catalogsvc "github.com/NastyaGoryachaya/crypto-compare-service/internal/service/catalog"
	comparesvc "github.com/NastyaGoryachaya/crypto-compare-service/internal/service/compare"
	marketsvc "github.com/NastyaGoryachaya/crypto-compare-service/internal/service/market"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/transport/httptransport"
)

const (
	cacheBackendMemory = "memory"
	cacheBackendRedis  = "redis"
)

type App struct {
	cfg config.Config
	log *slog.Logger

	db   *pgxpool.Pool
	rdb  *redis.Client
	e    *echo.Echo
	serv *http.Server

	catalogRepo *repopg.CatalogRepo

	catalog catalogsvc.Service
	market  marketsvc.Service
	compare comparesvc.Service

	bot *botpkg.Bot
}

func NewApp(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	app := &App{cfg: cfg, log: log}

	// статистика go-zero кэшей не нужна в логах сервиса
	logx.DisableStat()

	loc, err := cfg.Compare.Location()
	if err != nil {
		return nil, err
	}

	if cfg.Postgres.Enabled {
		pool, err := db.NewPool(ctx, &cfg.Postgres)
		if err != nil {
			log.Error("postgres init failed", slog.String("error", err.Error()))
			return nil, err
		}
		app.db = pool
		app.catalogRepo = repopg.NewCatalogRepository(pool)
		if err := app.catalogRepo.Migrate(ctx); err != nil {
			app.close()
			return nil, err
		}
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Cache.Backend)) {
	case "", cacheBackendMemory:
	case cacheBackendRedis:
		app.rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := cache.Ping(ctx, app.rdb); err != nil {
			log.Error("redis init failed", slog.String("error", err.Error()))
			app.close()
			return nil, err
		}
	default:
		app.close()
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	catalogCache, err := newCache[domain.Catalog](app, "catalog", cfg.Cache.CatalogTTL)
	if err != nil {
		app.close()
		return nil, err
	}
	seriesCache, err := newCache[domain.PriceSeries](app, "series", cfg.Cache.SeriesTTL)
	if err != nil {
		app.close()
		return nil, err
	}
	spotCache, err := newCache[float64](app, "spot", cfg.Cache.SpotTTL)
	if err != nil {
		app.close()
		return nil, err
	}

	provider := coingecko.NewClient(coingecko.Config{
		BaseURL:   cfg.CoinGecko.BaseURL,
		Timeout:   cfg.CoinGecko.Timeout,
		UserAgent: cfg.CoinGecko.UserAgent,
	})

	// снапшот каталога в БД необязателен: без Postgres интерфейс остаётся nil
	var store catalogsvc.SnapshotStore
	if app.catalogRepo != nil {
		store = app.catalogRepo
	}

	app.catalog = catalogsvc.NewService(provider, store, catalogCache, cfg.Cache.CatalogTTL, log)
	app.market = marketsvc.NewService(provider, seriesCache, spotCache, loc, log)
	app.compare = comparesvc.NewService(app.catalog, app.market, comparesvc.Options{
		DefaultCurrency: cfg.Compare.DefaultCurrency,
		Currencies:      cfg.Compare.Currencies,
		Location:        loc,
	}, log)

	if cfg.Server.Enabled {
		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		app.e = e

		ch := httptransport.NewCompareHandler(log, app.compare, loc, cfg.Server.RequestTimeout)
		ch.RegisterRoutes(e)

		app.serv = &http.Server{
			Addr:         cfg.Server.Addr,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
			Handler:      e,
		}
	}

	if cfg.Telegram.Enabled {
		// Если бот включён, отсутствие токена — ошибка конфигурации
		token := strings.TrimSpace(cfg.Telegram.Token)
		if token == "" {
			log.Error("telegram enabled but TELEGRAM_BOT_TOKEN is empty")
			app.close()
			return nil, errors.New("telegram token is empty")
		}

		botApp, err := botpkg.New(
			botpkg.Config{
				Token:           token,
				LongPollTimeout: cfg.Telegram.LongPollTimeout,
				RequestTimeout:  cfg.Telegram.RequestTimeout,
				Location:        loc,
			},
			adapter.NewComparer(app.compare),
			log,
		)
		if err != nil {
			log.Error("telegram init failed", slog.String("error", err.Error()))
			app.close()
			return nil, err
		}
		app.bot = botApp
	}

	log.Info("app initialized",
		slog.Bool("http_enabled", app.e != nil),
		slog.Bool("telegram_enabled", app.bot != nil),
		slog.Bool("postgres_enabled", app.db != nil),
		slog.String("cache_backend", cacheBackendName(app)),
		slog.String("http_addr", cfg.Server.Addr),
	)
	return app, nil
}

// newCache — кэш выбранного бэкенда; Redis, если клиент поднят.
func newCache[T any](a *App, name string, ttl time.Duration) (cache.Cache[T], error) {
	if a.rdb != nil {
		return cache.NewRedis[T](a.rdb, name, ttl, a.log), nil
	}
	m, err := cache.NewMemory[T](name, ttl)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func cacheBackendName(a *App) string {
	if a.rdb != nil {
		return cacheBackendRedis
	}
	return cacheBackendMemory
}

func (a *App) Run(ctx context.Context) error {
	if a.e == nil && a.bot == nil {
		return errors.New("nothing to run: http server and telegram bot are disabled")
	}

	// Прогреваем каталог, чтобы первый запрос не ждал /coins/list
	go func() {
		if _, err := a.catalog.Load(ctx); err != nil {
			a.log.Warn("catalog warm-up failed", slog.String("error", err.Error()))
		}
	}()

	if a.bot != nil {
		a.log.Info("starting bot")
		go a.bot.Start(ctx)
	}

	if a.e != nil {
		a.log.Info("starting server", slog.String("addr", a.cfg.Server.Addr))
		go func() {
			if err := a.e.StartServer(a.serv); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error("http server error", slog.String("error", err.Error()))
			}
		}()
	}
	<-ctx.Done()
	return a.Shutdown(context.Background())
}

func (a *App) Shutdown(ctx context.Context) error {
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if a.e != nil {
		if err := a.e.Shutdown(shCtx); err != nil {
			a.log.Error("http shutdown error", slog.String("error", err.Error()))
		}
	}

	if a.bot != nil {
		a.bot.Stop()
	}

	a.close()
	a.log.Info("application stopped")
	return nil
}

// close освобождает подключения к хранилищам
func (a *App) close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.log.Warn("redis close error", slog.String("error", err.Error()))
		}
		a.rdb = nil
	}
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
}
