// Package handler はgraphフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wing_backend/internal/feature/graph/domain"
	"wing_backend/internal/feature/graph/domain/entity"
	"wing_backend/internal/feature/graph/transport/http/dto"
	"wing_backend/internal/feature/graph/usecase"
	jwtmw "wing_backend/internal/platform/jwt"
	"wing_backend/internal/shared/apperr"
)

// GraphUsecase はグラフ操作のユースケースインターフェースです。
type GraphUsecase interface {
	Create(ctx context.Context, owner uint, in usecase.IngestInput) (*entity.Graph, error)
	Ingest(ctx context.Context, owner, graphID uint, in usecase.IngestInput) (*entity.Graph, error)
	Get(ctx context.Context, owner, graphID uint) (*entity.Graph, error)
	List(ctx context.Context, owner uint) ([]entity.Graph, error)
	Delete(ctx context.Context, owner, graphID uint) error
	ListArticles(ctx context.Context, owner, graphID uint) ([]entity.NewsArticle, error)
}

// GraphHandler はグラフのHTTPリクエストを処理します。
type GraphHandler struct {
	uc GraphUsecase
}

// NewGraphHandler は GraphHandler を生成します。
func NewGraphHandler(uc GraphUsecase) *GraphHandler {
	return &GraphHandler{uc: uc}
}

// List は GET /graphs を処理します。
func (h *GraphHandler) List(c *gin.Context) {
	owner, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	graphs, err := h.uc.List(c.Request.Context(), owner)
	if err != nil {
		WriteError(c, err)
		return
	}
	out := make([]dto.GraphSummary, 0, len(graphs))
	for _, g := range graphs {
		out = append(out, dto.GraphSummary{ID: g.ID, Name: g.Name, CreatedAt: g.CreatedAt})
	}
	c.JSON(http.StatusOK, out)
}

// Create は POST /graphs を処理します。
func (h *GraphHandler) Create(c *gin.Context) {
	owner, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	in, ok := bindGraph(c)
	if !ok {
		return
	}
	g, err := h.uc.Create(c.Request.Context(), owner, in)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toGraphResponse(g))
}

// Ingest は PUT /graphs/:id を処理します。
func (h *GraphHandler) Ingest(c *gin.Context) {
	owner, id, ok := ownerAndID(c)
	if !ok {
		return
	}
	in, ok := bindGraph(c)
	if !ok {
		return
	}
	g, err := h.uc.Ingest(c.Request.Context(), owner, id, in)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGraphResponse(g))
}

// Get は GET /graphs/:id を処理します。
func (h *GraphHandler) Get(c *gin.Context) {
	owner, id, ok := ownerAndID(c)
	if !ok {
		return
	}
	g, err := h.uc.Get(c.Request.Context(), owner, id)
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGraphResponse(g))
}

// Delete は DELETE /graphs/:id を処理します。
func (h *GraphHandler) Delete(c *gin.Context) {
	owner, id, ok := ownerAndID(c)
	if !ok {
		return
	}
	if err := h.uc.Delete(c.Request.Context(), owner, id); err != nil {
		WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Articles は GET /graphs/:id/articles を処理します。
func (h *GraphHandler) Articles(c *gin.Context) {
	owner, id, ok := ownerAndID(c)
	if !ok {
		return
	}
	articles, err := h.uc.ListArticles(c.Request.Context(), owner, id)
	if err != nil {
		WriteError(c, err)
		return
	}
	out := make([]dto.ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, dto.ArticleResponse{
			ID:          a.ID,
			StartPoint:  a.StartPoint,
			EndPoint:    a.EndPoint,
			Link:        a.Link,
			Title:       a.Title,
			Description: a.Description,
			PubDate:     a.PubDate,
			Body:        a.Body,
		})
	}
	c.JSON(http.StatusOK, out)
}

// ownerAndID は認証済みユーザーIDとパスの :id を取り出します。失敗時はレスポンスを書き込みます。
func ownerAndID(c *gin.Context) (uint, uint, bool) {
	owner, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, 0, false
	}
	id, err := ParseID(c.Param("id"))
	if err != nil {
		WriteError(c, err)
		return 0, 0, false
	}
	return owner, id, true
}

// ParseID はパスパラメータのグラフIDを解釈します。
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Invalid("graph id must be a positive integer: %q", raw)
	}
	return uint(id), nil
}

// WriteError はエラー種別に応じたステータスで {"error": "..."} を返します。
func WriteError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotOwned):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrGraphNotFound):
		status = http.StatusNotFound
	default:
		if s, ok := apperr.HTTPStatus(err); ok {
			status = s
		}
	}
	if status == http.StatusInternalServerError {
		slog.Error("graph request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func bindGraph(c *gin.Context) (usecase.IngestInput, bool) {
	var req dto.GraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return usecase.IngestInput{}, false
	}

	in := usecase.IngestInput{
		Name:     req.Name,
		Nodes:    make([]entity.Node, 0, len(req.Nodes)),
		Edges:    make([]entity.Edge, 0, len(req.Edges)),
		Articles: make([]entity.NewsArticle, 0, len(req.Articles)),
	}
	for _, n := range req.Nodes {
		in.Nodes = append(in.Nodes, entity.Node{Name: n.Name, Weight: n.Weight, Kind: entity.ParseNodeKind(n.Type)})
	}
	for _, e := range req.Edges {
		in.Edges = append(in.Edges, entity.Edge{
			StartPoint:     e.StartPoint,
			EndPoint:       e.EndPoint,
			Weight:         e.Weight,
			SentimentLabel: entity.ParseSentimentLabel(e.SentimentLabel),
			SentimentScore: e.SentimentScore,
			CollectedCount: e.CollectedCount,
			TotalEstimated: e.TotalEstimated,
		})
	}
	for _, a := range req.Articles {
		in.Articles = append(in.Articles, entity.NewsArticle{
			StartPoint:  a.StartPoint,
			EndPoint:    a.EndPoint,
			Link:        a.Link,
			Title:       a.Title,
			Description: a.Description,
			PubDate:     parsePubDate(a.PubDate),
		})
	}
	return in, true
}

// parsePubDate はRSSとISO形式の日時を受け付けます。解釈できない場合はゼロ値です。
func parsePubDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, time.RFC1123Z, time.RFC1123, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func toGraphResponse(g *entity.Graph) dto.GraphResponse {
	out := dto.GraphResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
		Nodes:     make([]dto.NodeResponse, 0, len(g.Nodes)),
		Edges:     make([]dto.EdgeResponse, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		out.Nodes = append(out.Nodes, dto.NodeResponse{ID: n.ID, Name: n.Name, Weight: n.Weight, Type: string(n.Kind)})
	}
	for _, e := range g.Edges {
		out.Edges = append(out.Edges, dto.EdgeResponse{
			ID:             e.ID,
			StartPoint:     e.StartPoint,
			EndPoint:       e.EndPoint,
			Weight:         e.Weight,
			SentimentLabel: string(e.SentimentLabel),
			SentimentScore: e.SentimentScore,
			CollectedCount: e.CollectedCount,
			TotalEstimated: e.TotalEstimated,
		})
	}
	return out
}
