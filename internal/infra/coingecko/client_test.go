package coingecko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/api/v3", Timeout: 2 * time.Second})
}

func TestListCoins(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/coins/list", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[{"id":"bitcoin","symbol":"btc","name":"Bitcoin","platforms":{}},{"id":"ethereum","symbol":"eth","name":"Ethereum"}]`))
	})

	coins, err := c.ListCoins(context.Background())
	require.NoError(t, err)
	require.Len(t, coins, 2)
	assert.Equal(t, "bitcoin", coins[0].ID)
	assert.Equal(t, "btc", coins[0].Symbol)
	assert.Equal(t, "Bitcoin", coins[0].Name)
}

func TestListCoins_NotAList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":{"error_code":429,"error_message":"rate limited"}}`))
	})

	_, err := c.ListCoins(context.Background())
	require.Error(t, err)
}

func TestListCoins_BadStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.ListCoins(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
}

func TestMarketChartRange(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/coins/bitcoin/market_chart/range", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "brl", q.Get("vs_currency"))
		assert.Equal(t, "1704078000", q.Get("from"))
		assert.Equal(t, "1704164399", q.Get("to"))
		_, _ = w.Write([]byte(`{"prices":[[1704078000123,212345.67],[1704074400000,212000.5]],"market_caps":[],"total_volumes":[]}`))
	})

	points, err := c.MarketChartRange(context.Background(), "bitcoin", "brl", 1704078000, 1704164399)
	require.NoError(t, err)
	require.Len(t, points, 2)

	// порядок сохраняется, даже если API прислал точки не по возрастанию
	assert.Equal(t, int64(1704078000123), points[0].Timestamp.UnixMilli())
	assert.Equal(t, 212345.67, points[0].Price)
	assert.Equal(t, int64(1704074400000), points[1].Timestamp.UnixMilli())
	assert.Equal(t, 212000.5, points[1].Price)
}

func TestMarketChartRange_EmptyIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"prices":[]}`))
	})

	points, err := c.MarketChartRange(context.Background(), "bitcoin", "usd", 1, 2)
	require.NoError(t, err)
	assert.NotNil(t, points)
	assert.Empty(t, points)
}

func TestMarketChartRange_Failures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"coin not found"}`))
		},
		"missing prices": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"market_caps":[]}`))
		},
		"short pair": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"prices":[[1704078000000]]}`))
		},
		"garbage": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, h)
			_, err := c.MarketChartRange(context.Background(), "bitcoin", "usd", 1, 2)
			assert.Error(t, err)
		})
	}
}

func TestSimplePrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "eur", r.URL.Query().Get("vs_currencies"))
		_, _ = w.Write([]byte(`{"bitcoin":{"eur":39876.12}}`))
	})

	price, err := c.SimplePrice(context.Background(), "bitcoin", "eur")
	require.NoError(t, err)
	assert.Equal(t, 39876.12, price)
}

func TestSimplePrice_MissingKeys(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":42000}}`))
	})

	_, err := c.SimplePrice(context.Background(), "bitcoin", "eur")
	assert.True(t, errors.Is(err, ErrMissingPrice))

	_, err = c.SimplePrice(context.Background(), "ethereum", "usd")
	assert.True(t, errors.Is(err, ErrMissingPrice))
}

func TestSimplePrice_NullPrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":null}}`))
	})

	price, err := c.SimplePrice(context.Background(), "bitcoin", "usd")
	assert.True(t, errors.Is(err, ErrMissingPrice))
	assert.Zero(t, price)
}

func TestGet_InvalidBaseURL(t *testing.T) {
	c := NewClient(Config{BaseURL: "://bad"})
	_, err := c.ListCoins(context.Background())
	assert.Error(t, err)
}
