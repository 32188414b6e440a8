package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/telebot.v4"

	"github.com/NastyaGoryachaya/crypto-compare-service/internal/domain"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/service/compare"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/transport/httptransport"
	"github.com/NastyaGoryachaya/crypto-compare-service/pkg/logger"
)

var ErrInvalidDate = errors.New("invalid date")

const suggestLimit = 10

// handleStart — отправляет справку по доступным командам бота
func (b *Bot) handleStart(c telebot.Context) error {
	return c.Send("Привет! Доступные команды:\n" +
		"/assets {запрос} - поиск актива по названию или тикеру\n" +
		"/compare {актив} | {второй актив} | {валюта} | {начало} | {конец} - сравнение за период\n" +
		"Пример: /compare Bitcoin (btc) | Ethereum (eth) | usd | 2024-01-01 | 2024-01-31\n" +
		"Пустые поля: без второго актива, валюта по умолчанию, с начала месяца по сегодня")
}

// handleAssets — подсказки по названию актива
func (b *Bot) handleAssets(c telebot.Context) error {
	query := strings.TrimSpace(c.Message().Payload)
	if query == "" {
		return c.Send("Укажи запрос: /assets bitcoin")
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.cfg.RequestTimeout)
	defer cancel()

	names, err := b.engine.Suggest(ctx, query, suggestLimit)
	if err != nil {
		b.logger.Warn("bot: /assets failed",
			slog.Int64("chat_id", c.Chat().ID),
			slog.String("error", err.Error()),
		)
		return c.Send(translateBotError(httptransport.FromServiceError(err)))
	}
	if len(names) == 0 {
		return c.Send("Ничего не найдено")
	}
	return c.Send(strings.Join(names, "\n"))
}

// handleCompare — сравнение активов; устаревший ответ не отправляется
func (b *Bot) handleCompare(c telebot.Context) error {
	chatID := c.Chat().ID
	q, err := parseCompareArgs(c.Message().Payload, b.cfg.Location)
	if err != nil {
		b.logger.Debug("bot: /compare invalid args",
			slog.Int64("chat_id", chatID),
			slog.String("text", c.Text()),
		)
		return c.Send("Некорректная команда. Пример: /compare Bitcoin (btc) | Ethereum (eth) | usd | 2024-01-01 | 2024-01-31")
	}

	tr := b.trackerFor(chatID)
	q.Token = tr.Begin()

	ctx, cancel := context.WithTimeout(context.Background(), b.cfg.RequestTimeout)
	defer cancel()

	log := logger.WithComparison(b.logger, chatID, q.Token)
	res, err := b.engine.Compare(ctx, q)
	if err != nil {
		log.Warn("bot: /compare failed",
			slog.String("primary", q.Primary),
			slog.String("error", err.Error()),
		)
	}
	reply, ok := comparisonReply(tr, q.Token, res, err)
	if !ok {
		log.Debug("bot: stale comparison dropped")
		return nil
	}
	return c.Send(reply)
}

// comparisonReply — ответ на /compare с токеном token; false, если в чате уже
// запущен более новый запрос и этот ответ отправлять не нужно.
func comparisonReply(tr *compare.Tracker, token uint64, res domain.ComparisonResult, err error) (string, bool) {
	if err != nil {
		if !tr.Current(token) {
			return "", false
		}
		return translateBotError(httptransport.FromServiceError(err), err), true
	}
	if !tr.Publish(token, res) || !tr.Current(token) {
		return "", false
	}
	return formatComparison(res), true
}

// parseCompareArgs — поля через "|": актив | второй актив | валюта | начало | конец.
// Все поля кроме первого можно опустить или оставить пустыми.
func parseCompareArgs(payload string, loc *time.Location) (CompareQuery, error) {
	parts := strings.Split(payload, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) > 5 || parts[0] == "" {
		return CompareQuery{}, errors.New("primary asset required")
	}
	field := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	start, err := parseDate(field(3), loc)
	if err != nil {
		return CompareQuery{}, err
	}
	end, err := parseDate(field(4), loc)
	if err != nil {
		return CompareQuery{}, err
	}
	return CompareQuery{
		Primary:   parts[0],
		Secondary: field(1),
		Currency:  field(2),
		Start:     start,
		End:       end,
	}, nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
