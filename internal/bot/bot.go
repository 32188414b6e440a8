package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gopkg.in/telebot.v4"

	"github.com/NastyaGoryachaya/crypto-compare-service/internal/domain"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/service/compare"
)

// Config — конфигурация бота
type Config struct {
	Token           string
	LongPollTimeout time.Duration
	RequestTimeout  time.Duration
	Location        *time.Location
}

// CompareQuery — разобранная команда /compare
type CompareQuery struct {
	Token     uint64
	Primary   string
	Secondary string
	Currency  string
	Start     time.Time
	End       time.Time
}

// Comparer — интерфейс движка сравнения для бота
type Comparer interface {
	Compare(ctx context.Context, q CompareQuery) (domain.ComparisonResult, error)
	Suggest(ctx context.Context, query string, limit int) ([]string, error)
}

// Bot — основной тип приложения
type Bot struct {
	bot     *telebot.Bot
	engine  Comparer
	cfg     Config
	logger  *slog.Logger
	mu      sync.Mutex
	tracker map[int64]*compare.Tracker
}

// New создаёт новый экземпляр приложения
func New(cfg Config, engine Comparer, logger *slog.Logger) (*Bot, error) {
	if cfg.LongPollTimeout <= 0 {
		cfg.LongPollTimeout = 10 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	b, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.Token,
		Poller: &telebot.LongPoller{Timeout: cfg.LongPollTimeout},
	})
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		bot:     b,
		engine:  engine,
		cfg:     cfg,
		logger:  logger,
		tracker: make(map[int64]*compare.Tracker),
	}

	// маршруты команд
	b.Handle("/start", bot.handleStart)
	b.Handle("/assets", bot.handleAssets)
	b.Handle("/compare", bot.handleCompare)
	return bot, nil
}

// Start запускает бота
func (b *Bot) Start(ctx context.Context) {
	go b.bot.Start()
	<-ctx.Done()
}

// Stop останавливает бота
func (b *Bot) Stop() {
	b.bot.Stop()
}

// trackerFor — по одному трекеру на чат: в чат уходит только ответ на последний запрос.
func (b *Bot) trackerFor(chatID int64) *compare.Tracker {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tracker[chatID]
	if !ok {
		t = compare.NewTracker()
		b.tracker[chatID] = t
	}
	return t
}
