package domain

import "time"

// PricePoint — одна точка истории цены (время с точностью до миллисекунд, UTC)
type PricePoint struct {
	Timestamp time.Time `json:"timestamp" msgpack:"timestamp"`
	Price     float64   `json:"price" msgpack:"price"`
}

// Window — закрытый интервал запроса истории
type Window struct {
	From time.Time `json:"from" msgpack:"from"`
	To   time.Time `json:"to" msgpack:"to"`
}

// FromUnix / ToUnix — границы окна в unix-секундах (дробная часть отбрасывается).
func (w Window) FromUnix() int64 { return w.From.Unix() }
func (w Window) ToUnix() int64 { return w.To.Unix() }

// DayWindow — окно на полные календарные дни [start 00:00:00.000; end 23:59:59.999999] в loc.
func DayWindow(start, end time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.Local
	}
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	return Window{
		From: time.Date(sy, sm, sd, 0, 0, 0, 0, loc),
		To:   time.Date(ey, em, ed, 23, 59, 59, 999999000, loc),
	}
}

// DateKey — календарная дата в формате YYYY-MM-DD (для ключей кэша и ответов API).
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// PriceSeries — история цен одного актива в одной валюте за одно окно
type PriceSeries struct {
	AssetID  string       `json:"asset_id" msgpack:"asset_id"`
	Currency string       `json:"currency" msgpack:"currency"`
	Window   Window       `json:"window" msgpack:"window"`
	Points   []PricePoint `json:"points" msgpack:"points"`
}

// AssetReport — результат по одному активу: история, оценка и текущая цена (nil — неизвестна)
type AssetReport struct {
	Asset  Asset       `json:"asset"`
	Series PriceSeries `json:"series"`
	Score  int         `json:"score"`
	Spot   *float64    `json:"spot,omitempty"`
}

// ComparisonResult — единственный артефакт, который получает слой представления.
type ComparisonResult struct {
	Token     uint64       `json:"token"`
	Primary   AssetReport  `json:"primary"`
	Secondary *AssetReport `json:"secondary,omitempty"`
	Currency  string       `json:"currency"`
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Window    Window       `json:"window"`
}
