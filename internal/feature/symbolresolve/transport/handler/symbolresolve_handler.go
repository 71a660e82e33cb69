// Package handler はsymbolresolveフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	graphhandler "wing_backend/internal/feature/graph/transport/handler"
	"wing_backend/internal/feature/symbolresolve/domain/ticker"
	"wing_backend/internal/feature/symbolresolve/transport/http/dto"
	"wing_backend/internal/feature/symbolresolve/usecase"
	jwtmw "wing_backend/internal/platform/jwt"
)

// SymbolResolveUsecase はシンボル解決のユースケースインターフェースです。
type SymbolResolveUsecase interface {
	Resolve(ctx context.Context, owner, graphID uint) (*usecase.Resolution, error)
}

// SymbolResolveHandler はシンボル解決のHTTPリクエストを処理します。
type SymbolResolveHandler struct {
	uc SymbolResolveUsecase
}

// NewSymbolResolveHandler は SymbolResolveHandler を生成します。
func NewSymbolResolveHandler(uc SymbolResolveUsecase) *SymbolResolveHandler {
	return &SymbolResolveHandler{uc: uc}
}

// Get は GET /graphs/:id/symbol を処理します。
// 推論結果から銘柄を得られなかった場合は502を返します。
func (h *SymbolResolveHandler) Get(c *gin.Context) {
	owner, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, err := graphhandler.ParseID(c.Param("id"))
	if err != nil {
		graphhandler.WriteError(c, err)
		return
	}

	res, err := h.uc.Resolve(c.Request.Context(), owner, id)
	if errors.Is(err, ticker.ErrResolutionFailed) {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		graphhandler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SymbolResolutionResponse{
		GraphID:     res.GraphID,
		MainKeyword: res.MainKeyword,
		AllKeywords: res.AllKeywords,
		Symbol:      res.Symbol,
		IsDomestic:  res.IsDomestic,
	})
}
