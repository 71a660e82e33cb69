// Package handler は指標エンドポイントのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"wing_backend/internal/feature/indicator/domain/entity"
	"wing_backend/internal/feature/indicator/domain/technical"
	"wing_backend/internal/feature/indicator/transport/http/dto"
	"wing_backend/internal/feature/symbolresolve/domain/ticker"
	"wing_backend/internal/shared/apperr"
)

// IndicatorUsecase は指標取得のユースケースインターフェースです。
type IndicatorUsecase interface {
	Price(ctx context.Context, symbol string, domestic bool) ([]entity.PricePoint, error)
	RSI(ctx context.Context, symbol string, domestic bool, period int) ([]technical.Point[float64], error)
	Momentum(ctx context.Context, symbol string, domestic bool, period int) ([]technical.Point[float64], error)
	Recommendation(ctx context.Context, symbol string, domestic bool) (*entity.Recommendation, error)
	News(ctx context.Context, symbol string, domestic bool, from, to time.Time) ([]entity.NewsItem, error)
}

// IndicatorHandler は /indicators/:symbol 配下のリクエストを処理します。
type IndicatorHandler struct {
	uc IndicatorUsecase
}

// NewIndicatorHandler は IndicatorHandler を生成します。
func NewIndicatorHandler(uc IndicatorUsecase) *IndicatorHandler {
	return &IndicatorHandler{uc: uc}
}

// Price は GET /indicators/:symbol/price を処理します。
func (h *IndicatorHandler) Price(c *gin.Context) {
	symbol, domestic, ok := parseSymbol(c)
	if !ok {
		return
	}
	points, err := h.uc.Price(c.Request.Context(), symbol, domestic)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.PricePointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, dto.PricePointResponse{
			Date:  toDate(p.Date),
			Close: technical.Round2(p.Close),
			MA20:  round2Ptr(p.MA20),
			MA60:  round2Ptr(p.MA60),
		})
	}
	c.JSON(http.StatusOK, out)
}

// RSI は GET /indicators/:symbol/rsi を処理します。
func (h *IndicatorHandler) RSI(c *gin.Context) {
	symbol, domestic, ok := parseSymbol(c)
	if !ok {
		return
	}
	period, ok := parsePeriod(c)
	if !ok {
		return
	}
	points, err := h.uc.RSI(c.Request.Context(), symbol, domestic, period)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.RSIPointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, dto.RSIPointResponse{Date: toDate(p.Date), RSI: technical.Round2(p.Value)})
	}
	c.JSON(http.StatusOK, out)
}

// Momentum は GET /indicators/:symbol/momentum を処理します。
func (h *IndicatorHandler) Momentum(c *gin.Context) {
	symbol, domestic, ok := parseSymbol(c)
	if !ok {
		return
	}
	period, ok := parsePeriod(c)
	if !ok {
		return
	}
	points, err := h.uc.Momentum(c.Request.Context(), symbol, domestic, period)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.MomentumPointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, dto.MomentumPointResponse{Date: toDate(p.Date), Mom: technical.Round2(p.Value)})
	}
	c.JSON(http.StatusOK, out)
}

// Recommendation は GET /indicators/:symbol/recommendation を処理します。
func (h *IndicatorHandler) Recommendation(c *gin.Context) {
	symbol, domestic, ok := parseSymbol(c)
	if !ok {
		return
	}
	rec, err := h.uc.Recommendation(c.Request.Context(), symbol, domestic)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RecommendationResponse{
		Buy:        rec.Buy,
		Hold:       rec.Hold,
		Sell:       rec.Sell,
		StrongBuy:  rec.StrongBuy,
		StrongSell: rec.StrongSell,
		Period:     toDate(rec.Period),
		Symbol:     rec.Symbol,
	})
}

// News は GET /indicators/:symbol/news を処理します。from/to は YYYY-MM-DD です。
func (h *IndicatorHandler) News(c *gin.Context) {
	symbol, domestic, ok := parseSymbol(c)
	if !ok {
		return
	}
	from, err := parseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return
	}

	items, err := h.uc.News(c.Request.Context(), symbol, domestic, from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.NewsResponse, 0, len(items))
	for _, n := range items {
		out = append(out, dto.NewsResponse{
			ID:       n.ID,
			Datetime: n.Datetime.Unix(),
			Headline: n.Headline,
			Source:   n.Source,
			Summary:  n.Summary,
			URL:      n.URL,
			Image:    n.Image,
			Category: n.Category,
			Related:  n.Related,
		})
	}
	c.JSON(http.StatusOK, out)
}

// parseSymbol は :symbol と ?domestic= を読みます。
// domestic が省略された場合は取引所サフィックスと6桁コードから判定します。
func parseSymbol(c *gin.Context) (string, bool, bool) {
	var hint *bool
	if raw := c.Query("domestic"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "domestic must be true or false"})
			return "", false, false
		}
		hint = &v
	}
	symbol, domestic, err := ticker.Normalize(c.Param("symbol"), hint)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return "", false, false
	}
	return symbol, domestic, true
}

func parsePeriod(c *gin.Context) (int, bool) {
	raw := c.Query("period")
	if raw == "" {
		return 0, true
	}
	p, err := strconv.Atoi(raw)
	if err != nil || p <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be a positive integer"})
		return 0, false
	}
	return p, true
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, raw)
}

func toDate(t time.Time) openapi_types.Date {
	return openapi_types.Date{Time: t}
}

func round2Ptr(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) {
		return nil
	}
	r := technical.Round2(*v)
	return &r
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, technical.ErrInsufficientHistory):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, technical.ErrEmptySeries):
		status = http.StatusNotFound
	default:
		if s, ok := apperr.HTTPStatus(err); ok {
			status = s
		}
	}
	if status == http.StatusInternalServerError {
		slog.Error("indicator request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
