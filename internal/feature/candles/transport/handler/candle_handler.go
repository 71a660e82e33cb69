// Package handler はcandlesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"wing_backend/internal/feature/candles/domain/entity"
	"wing_backend/internal/feature/candles/transport/http/dto"
	"wing_backend/internal/shared/apperr"
)

// CandlesUsecase はローソク足データ操作のユースケースインターフェースを定義します。
type CandlesUsecase interface {
	GetCandles(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
}

// CandlesHandler はローソク足データのHTTPリクエストを処理します。
type CandlesHandler struct {
	uc CandlesUsecase
}

// NewCandlesHandler は指定されたusecaseでCandlesHandlerの新しいインスタンスを生成します。
func NewCandlesHandler(uc CandlesUsecase) *CandlesHandler {
	return &CandlesHandler{uc: uc}
}

// GetCandlesHandler は銘柄コードと時間間隔を受け取り、永続化済みのローソク足をJSONで返します。
//
// エンドポイント例:
// GET /candles/:code?interval=1day&outputsize=200
func (h *CandlesHandler) GetCandlesHandler(c *gin.Context) {
	code := c.Param("code")
	interval := c.DefaultQuery("interval", "1day")
	// 不正な値は0になり、usecase側でデフォルト値に置き換えられる
	outputsize, _ := strconv.Atoi(c.DefaultQuery("outputsize", "200"))

	candles, err := h.uc.GetCandles(c.Request.Context(), code, interval, outputsize)
	if err != nil {
		if status, ok := apperr.HTTPStatus(err); ok {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		slog.Error("failed to get candles", "code", code, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	out := make([]dto.CandleResponse, 0, len(candles))
	for _, x := range candles {
		out = append(out, dto.CandleResponse{
			Time:   openapi_types.Date{Time: x.Time.UTC()},
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		})
	}

	c.JSON(http.StatusOK, out)
}
