package httptransport_test

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NastyaGoryachaya/crypto-compare-service/internal/domain"
	derrors "github.com/NastyaGoryachaya/crypto-compare-service/internal/errors"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/service/compare"
	comparemocks "github.com/NastyaGoryachaya/crypto-compare-service/internal/service/compare/mocks"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/transport/httptransport"
)

var (
	jan1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan2 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
)

func newServer(t *testing.T, svc httptransport.CompareService) *echo.Echo {
	t.Helper()
	e := echo.New()
	httptransport.NewCompareHandler(slog.Default(), svc, time.UTC, time.Second).RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGetCompare_OK(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	spot := 65000.5
	svc := comparemocks.NewMockService(ctrl)
	svc.EXPECT().
		Compare(gomock.Any(), compare.Request{
			Primary:   "Bitcoin (btc)",
			Secondary: "Ethereum (eth)",
			Currency:  "usd",
			Start:     jan1,
			End:       jan2,
		}).
		Return(domain.ComparisonResult{
			Currency:  "usd",
			StartDate: "2024-01-01",
			EndDate:   "2024-01-02",
			Window:    domain.DayWindow(jan1, jan2, time.UTC),
			Primary: domain.AssetReport{
				Asset: domain.Asset{DisplayName: "Bitcoin (btc)", ID: "bitcoin"},
				Series: domain.PriceSeries{Points: []domain.PricePoint{
					{Timestamp: time.UnixMilli(1704067200000).UTC(), Price: 42000},
				}},
				Score: 50,
				Spot:  &spot,
			},
		}, nil)

	rec := do(newServer(t, svc), "/compare?primary=Bitcoin%20(btc)&secondary=Ethereum%20(eth)&currency=usd&start=2024-01-01&end=2024-01-02")
	require.Equal(t, http.StatusOK, rec.Code)

	var body httptransport.Comparison
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "usd", body.Currency)
	assert.Equal(t, int64(1704067200), body.From)
	assert.Equal(t, int64(1704239999), body.To)
	assert.Equal(t, 50, body.Primary.Score)
	require.NotNil(t, body.Primary.Spot)
	assert.Equal(t, spot, *body.Primary.Spot)
	assert.Equal(t, []httptransport.Point{{Timestamp: 1704067200000, Price: 42000}}, body.Primary.Points)
	assert.Nil(t, body.Secondary)
}

func TestGetCompare_Errors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", derrors.NewValidationError("invalid primary asset"), http.StatusBadRequest, "bad_request"},
		{"data unavailable", fmt.Errorf("%w: %w", derrors.ErrDataUnavailable, derrors.ErrFetchFailed), http.StatusNotFound, "data_unavailable"},
		{"catalog unavailable", derrors.ErrCatalogUnavailable, http.StatusServiceUnavailable, "catalog_unavailable"},
		{"internal", fmt.Errorf("boom"), http.StatusInternalServerError, "internal_server_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := comparemocks.NewMockService(ctrl)
			svc.EXPECT().Compare(gomock.Any(), gomock.Any()).Return(domain.ComparisonResult{}, tc.err)

			rec := do(newServer(t, svc), "/compare?primary=X")
			assert.Equal(t, tc.status, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body["error"])
		})
	}
}

func TestGetCompare_ValidationReason(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := comparemocks.NewMockService(ctrl)
	svc.EXPECT().Compare(gomock.Any(), gomock.Any()).Return(domain.ComparisonResult{}, derrors.NewValidationError("unsupported quote currency"))

	rec := do(newServer(t, svc), "/compare?primary=X&currency=jpy")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported quote currency")
}

// Некорректный ввод отсекается до вызова сервиса
func TestGetCompare_BadInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := comparemocks.NewMockService(ctrl)
	e := newServer(t, svc)

	assert.Equal(t, http.StatusBadRequest, do(e, "/compare").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, "/compare?primary=X&start=01.01.2024").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, "/compare?primary=X&end=2024-13-01").Code)
}

func TestGetAssets_Suggest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := comparemocks.NewMockService(ctrl)
	svc.EXPECT().Suggest(gomock.Any(), "bit", 5).Return([]domain.Asset{{DisplayName: "Bitcoin (btc)", ID: "bitcoin"}}, nil)

	rec := do(newServer(t, svc), "/assets?q=bit&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"assets":[{"display_name":"Bitcoin (btc)","id":"bitcoin"}]}`, rec.Body.String())
}

func TestGetAssets_All(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := comparemocks.NewMockService(ctrl)
	svc.EXPECT().Catalog(gomock.Any()).Return(domain.NewCatalog([]domain.Coin{
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
	}), nil)

	rec := do(newServer(t, svc), "/assets")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"assets":[
		{"display_name":"Bitcoin (btc)","id":"bitcoin"},
		{"display_name":"Ethereum (eth)","id":"ethereum"}
	]}`, rec.Body.String())
}

func TestGetAssets_CatalogUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := comparemocks.NewMockService(ctrl)
	svc.EXPECT().Catalog(gomock.Any()).Return(domain.CatalogFromMap(nil), fmt.Errorf("%w: timeout", derrors.ErrCatalogUnavailable))

	rec := do(newServer(t, svc), "/assets")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"catalog_unavailable","assets":[]}`, rec.Body.String())
}

func TestGetAssets_BadLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rec := do(newServer(t, comparemocks.NewMockService(ctrl)), "/assets?q=b&limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rec := do(newServer(t, comparemocks.NewMockService(ctrl)), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFromServiceError(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", string(httptransport.FromServiceError(derrors.NewValidationError("x"))))
	assert.Equal(t, "DATA_UNAVAILABLE", string(httptransport.FromServiceError(fmt.Errorf("wrap: %w", derrors.ErrFetchFailed))))
	assert.Equal(t, "INTERNAL_ERROR", string(httptransport.FromServiceError(fmt.Errorf("other"))))
}
