// Package handler はwingscoreフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	graphhandler "wing_backend/internal/feature/graph/transport/handler"
	"wing_backend/internal/feature/wingscore/domain/score"
	"wing_backend/internal/feature/wingscore/transport/http/dto"
	jwtmw "wing_backend/internal/platform/jwt"
)

// WingScoreUsecase はWING-Score算出のユースケースインターフェースです。
type WingScoreUsecase interface {
	Score(ctx context.Context, owner, graphID uint) (score.Result, error)
}

// WingScoreHandler はWING-ScoreのHTTPリクエストを処理します。
type WingScoreHandler struct {
	uc WingScoreUsecase
}

// NewWingScoreHandler は WingScoreHandler を生成します。
func NewWingScoreHandler(uc WingScoreUsecase) *WingScoreHandler {
	return &WingScoreHandler{uc: uc}
}

// Get は GET /graphs/:id/wing-score を処理します。
func (h *WingScoreHandler) Get(c *gin.Context) {
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

	res, err := h.uc.Score(c.Request.Context(), owner, id)
	if err != nil {
		graphhandler.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.WingScoreResponse{GraphID: id, WingScore: res.WingScore})
}
