package httptransport

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/NastyaGoryachaya/crypto-compare-service/internal/domain"
	derrors "github.com/NastyaGoryachaya/crypto-compare-service/internal/errors"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/ports/errcode"
	"github.com/NastyaGoryachaya/crypto-compare-service/internal/service/compare"
)

// CompareService — абстракция движка сравнения для HTTP.
type CompareService interface {
	Compare(ctx context.Context, req compare.Request) (domain.ComparisonResult, error)
	Catalog(ctx context.Context) (domain.Catalog, error)
	Suggest(ctx context.Context, query string, limit int) ([]domain.Asset, error)
}

// Asset — DTO элемента каталога.
type Asset struct {
	DisplayName string `json:"display_name"`
	ID          string `json:"id"`
}

// Point — точка графика: время в unix-миллисекундах, как отдаёт CoinGecko.
type Point struct {
	Timestamp int64   `json:"t"`
	Price     float64 `json:"price"`
}

// Report — DTO результата по одному активу.
type Report struct {
	Asset  Asset    `json:"asset"`
	Score  int      `json:"score"`
	Spot   *float64 `json:"spot,omitempty"`
	Points []Point  `json:"points"`
}

// Comparison — DTO ответа /compare.
type Comparison struct {
	Currency  string  `json:"currency"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	From      int64   `json:"from"`
	To        int64   `json:"to"`
	Primary   Report  `json:"primary"`
	Secondary *Report `json:"secondary,omitempty"`
}

func makeReport(r domain.AssetReport) Report {
	out := Report{
		Asset:  Asset{DisplayName: r.Asset.DisplayName, ID: r.Asset.ID},
		Score:  r.Score,
		Spot:   r.Spot,
		Points: make([]Point, 0, len(r.Series.Points)),
	}
	for _, p := range r.Series.Points {
		out.Points = append(out.Points, Point{Timestamp: p.Timestamp.UnixMilli(), Price: p.Price})
	}
	return out
}

func makeComparison(res domain.ComparisonResult) Comparison {
	out := Comparison{
		Currency:  res.Currency,
		StartDate: res.StartDate,
		EndDate:   res.EndDate,
		From:      res.Window.FromUnix(),
		To:        res.Window.ToUnix(),
		Primary:   makeReport(res.Primary),
	}
	// Второй актив есть, только если он найден и его история загрузилась
	if res.Secondary != nil {
		s := makeReport(*res.Secondary)
		out.Secondary = &s
	}
	return out
}

// CompareHandler — HTTP‑handler сравнения активов.
type CompareHandler struct {
	logger  *slog.Logger
	svc     CompareService
	loc     *time.Location
	timeout time.Duration
}

func NewCompareHandler(logger *slog.Logger, svc CompareService, loc *time.Location, timeout time.Duration) *CompareHandler {
	if logger == nil {
		log.Fatal("nil logger")
	}
	if svc == nil {
		log.Fatal("nil service")
	}
	if loc == nil {
		loc = time.Local
	}
	// Задаём таймаут по умолчанию, если он не задан
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &CompareHandler{
		logger:  logger,
		svc:     svc,
		loc:     loc,
		timeout: timeout,
	}
}

func (h *CompareHandler) RegisterRoutes(r interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}) {
	r.GET("/assets", h.GetAssets)
	r.GET("/compare", h.GetCompare)
	r.GET("/healthz", h.Health)
}

func (h *CompareHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *CompareHandler) GetAssets(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":  "bad_request",
				"reason": "invalid limit",
			})
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	var (
		items []domain.Asset
		err   error
	)
	if query == "" {
		items, err = h.allAssets(ctx, limit)
	} else {
		items, err = h.svc.Suggest(ctx, query, limit)
	}
	if err != nil {
		if FromServiceError(err) == errcode.CatalogUnavailable {
			// Каталог недоступен — пустой список, UI выбора отключается
			return c.JSON(http.StatusServiceUnavailable, echo.Map{
				"error":  "catalog_unavailable",
				"assets": []Asset{},
			})
		}
		h.logger.Error("GetAssets failed",
			slog.String("op", "GetAssets"),
			slog.String("error", err.Error()),
		)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "internal_server_error",
		})
	}

	out := make([]Asset, 0, len(items))
	for _, it := range items {
		out = append(out, Asset{DisplayName: it.DisplayName, ID: it.ID})
	}
	return c.JSON(http.StatusOK, echo.Map{"assets": out})
}

func (h *CompareHandler) allAssets(ctx context.Context, limit int) ([]domain.Asset, error) {
	cat, err := h.svc.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	names := cat.Names()
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	out := make([]domain.Asset, 0, len(names))
	for _, name := range names {
		a, _ := cat.Resolve(name)
		out = append(out, a)
	}
	return out, nil
}

func (h *CompareHandler) GetCompare(c echo.Context) error {
	primary := strings.TrimSpace(c.QueryParam("primary"))
	if primary == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "primary_required",
		})
	}
	start, err := h.parseDate(c.QueryParam("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "bad_request",
			"reason": "invalid start date",
		})
	}
	end, err := h.parseDate(c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "bad_request",
			"reason": "invalid end date",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.svc.Compare(ctx, compare.Request{
		Primary:   primary,
		Secondary: c.QueryParam("secondary"),
		Currency:  c.QueryParam("currency"),
		Start:     start,
		End:       end,
	})
	if err != nil {
		switch FromServiceError(err) {
		case errcode.BadRequest:
			reason := err.Error()
			var ve *derrors.ValidationError
			if errors.As(err, &ve) {
				reason = ve.Reason
			}
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":  "bad_request",
				"reason": reason,
			})
		case errcode.DataUnavailable:
			return c.JSON(http.StatusNotFound, echo.Map{
				"error":   "data_unavailable",
				"primary": primary,
			})
		case errcode.CatalogUnavailable:
			return c.JSON(http.StatusServiceUnavailable, echo.Map{
				"error": "catalog_unavailable",
			})
		default:
			h.logger.Error("Compare failed",
				slog.String("op", "GetCompare"),
				slog.String("primary", primary),
				slog.String("error", err.Error()),
			)
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "internal_server_error",
			})
		}
	}

	return c.JSON(http.StatusOK, makeComparison(res))
}

// parseDate — дата YYYY-MM-DD в календаре сервиса; пустая строка даёт нулевое время.
func (h *CompareHandler) parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(time.DateOnly, raw, h.loc)
}
