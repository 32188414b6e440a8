package adapter

import (
	"context"

	"github.com/NastyaGoryachaya/crypto-compare-service/internal/bot"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/domain"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/service/compare"
)

// serviceComparer — адаптер, который превращает сервис сравнения в интерфейс бота Comparer.

type serviceComparer struct{ svc compare.Service }

// NewComparer — конструктор адаптера над сервисом сравнения.
func NewComparer(svc compare.Service) bot.Comparer {
	return serviceComparer{svc: svc}
}

// Compare — переводит команду бота в запрос сервиса.
func (a serviceComparer) Compare(ctx context.Context, q bot.CompareQuery) (domain.ComparisonResult, error) {
	return a.svc.Compare(ctx, compare.Request{
		Token:     q.Token,
		Primary:   q.Primary,
		Secondary: q.Secondary,
		Currency:  q.Currency,
		Start:     q.Start,
		End:       q.End,
	})
}

// Suggest — возвращает только отображаемые имена: бот показывает их списком.
func (a serviceComparer) Suggest(ctx context.Context, query string, limit int) ([]string, error) {
	items, err := a.svc.Suggest(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.DisplayName)
	}
	return out, nil
}
