package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/NastyaGoryachaya/crypto-compare-service/internal/domain"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrMissingPrice     = errors.New("price missing in response")
)

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

// coinListItem — строка ответа /coins/list
type coinListItem struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// marketChartResponse — ответ /coins/{id}/market_chart/range, нужны только цены
type marketChartResponse struct {
	Prices *[][]json.Number `json:"prices"`
}

// NewClient - Создаёт нового клиента для работы с API CoinGecko.
func NewClient(cfg Config) *Client {
	return NewClientWithHTTP(cfg, &http.Client{Timeout: cfg.Timeout})
}

// NewClientWithHTTP — конструктор с готовым http.Client (тесты, кастомный транспорт).
func NewClientWithHTTP(cfg Config, hc *http.Client) *Client {
	return &Client{cfg: cfg, httpClient: hc}
}

// ListCoins — полный список монет (/coins/list).
func (c *Client) ListCoins(ctx context.Context) ([]domain.Coin, error) {
	var data []coinListItem
	if err := c.get(ctx, []string{"coins", "list"}, nil, &data); err != nil {
		return nil, err
	}

	out := make([]domain.Coin, 0, len(data))
	for _, d := range data {
		out = append(out, domain.Coin{ID: d.ID, Symbol: d.Symbol, Name: d.Name})
	}
	return out, nil
}

// MarketChartRange — история цен за окно [from; to] в unix-секундах, порядок точек как у API.
func (c *Client) MarketChartRange(ctx context.Context, id, currency string, from, to int64) ([]domain.PricePoint, error) {
	q := url.Values{}
	q.Set("vs_currency", currency)
	q.Set("from", strconv.FormatInt(from, 10))
	q.Set("to", strconv.FormatInt(to, 10))

	var data marketChartResponse
	if err := c.get(ctx, []string{"coins", id, "market_chart", "range"}, q, &data); err != nil {
		return nil, err
	}
	if data.Prices == nil {
		return nil, errors.New("decoding response: prices field missing")
	}

	points := make([]domain.PricePoint, 0, len(*data.Prices))
	for i, pair := range *data.Prices {
		if len(pair) < 2 {
			return nil, fmt.Errorf("decoding response: prices[%d] has %d values", i, len(pair))
		}
		ms, err := pair[0].Float64()
		if err != nil {
			return nil, fmt.Errorf("decoding response: prices[%d] timestamp: %w", i, err)
		}
		price, err := pair[1].Float64()
		if err != nil {
			return nil, fmt.Errorf("decoding response: prices[%d] price: %w", i, err)
		}
		points = append(points, domain.PricePoint{
			Timestamp: time.UnixMilli(int64(math.Round(ms))).UTC(),
			Price:     price,
		})
	}
	return points, nil
}

// SimplePrice — текущая цена монеты в валюте (/simple/price).
func (c *Client) SimplePrice(ctx context.Context, id, currency string) (float64, error) {
	q := url.Values{}
	q.Set("ids", id)
	q.Set("vs_currencies", currency)

	// null в ответе — цены нет, а не нулевая цена
	var data map[string]map[string]*float64
	if err := c.get(ctx, []string{"simple", "price"}, q, &data); err != nil {
		return 0, err
	}
	byCur, ok := data[id]
	if !ok {
		return 0, fmt.Errorf("%w: id %q", ErrMissingPrice, id)
	}
	price, ok := byCur[currency]
	if !ok || price == nil {
		return 0, fmt.Errorf("%w: %q/%q", ErrMissingPrice, id, currency)
	}
	return *price, nil
}

func (c *Client) get(ctx context.Context, segments []string, q url.Values, dst any) error {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	u = u.JoinPath(segments...)
	if q != nil {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	ua := c.cfg.UserAgent
	if ua == "" {
		ua = "crypto-compare-service/1.0 (+https://github.com/NastyaGoryachaya/crypto-compare-service)"
	}
	req.Header.Set("User-Agent", ua)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
