package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wing_backend/internal/feature/graph/domain"
	"wing_backend/internal/feature/graph/domain/entity"
	"wing_backend/internal/feature/graph/transport/http/dto"
	"wing_backend/internal/feature/graph/usecase"
	jwtmw "wing_backend/internal/platform/jwt"
)

// mockGraphUsecase はGraphUsecaseインターフェースのモック実装です。
type mockGraphUsecase struct {
	CreateFunc       func(ctx context.Context, owner uint, in usecase.IngestInput) (*entity.Graph, error)
	IngestFunc       func(ctx context.Context, owner, graphID uint, in usecase.IngestInput) (*entity.Graph, error)
	GetFunc          func(ctx context.Context, owner, graphID uint) (*entity.Graph, error)
	ListFunc         func(ctx context.Context, owner uint) ([]entity.Graph, error)
	DeleteFunc       func(ctx context.Context, owner, graphID uint) error
	ListArticlesFunc func(ctx context.Context, owner, graphID uint) ([]entity.NewsArticle, error)
}

func (m *mockGraphUsecase) Create(ctx context.Context, owner uint, in usecase.IngestInput) (*entity.Graph, error) {
	return m.CreateFunc(ctx, owner, in)
}

func (m *mockGraphUsecase) Ingest(ctx context.Context, owner, graphID uint, in usecase.IngestInput) (*entity.Graph, error) {
	return m.IngestFunc(ctx, owner, graphID, in)
}

func (m *mockGraphUsecase) Get(ctx context.Context, owner, graphID uint) (*entity.Graph, error) {
	return m.GetFunc(ctx, owner, graphID)
}

func (m *mockGraphUsecase) List(ctx context.Context, owner uint) ([]entity.Graph, error) {
	return m.ListFunc(ctx, owner)
}

func (m *mockGraphUsecase) Delete(ctx context.Context, owner, graphID uint) error {
	return m.DeleteFunc(ctx, owner, graphID)
}

func (m *mockGraphUsecase) ListArticles(ctx context.Context, owner, graphID uint) ([]entity.NewsArticle, error) {
	return m.ListArticlesFunc(ctx, owner, graphID)
}

// setupRouter は認証済みユーザーIDを注入したテスト用ルーターを返します。
func setupRouter(h *GraphHandler, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set(jwtmw.ContextUserID, userID)
		}
		c.Next()
	})
	r.GET("/graphs", h.List)
	r.POST("/graphs", h.Create)
	r.GET("/graphs/:id", h.Get)
	r.PUT("/graphs/:id", h.Ingest)
	r.DELETE("/graphs/:id", h.Delete)
	r.GET("/graphs/:id/articles", h.Articles)
	return r
}

func TestGraphHandler_Create(t *testing.T) {
	var got usecase.IngestInput
	uc := &mockGraphUsecase{
		CreateFunc: func(ctx context.Context, owner uint, in usecase.IngestInput) (*entity.Graph, error) {
			got = in
			return &entity.Graph{
				ID: 3, Owner: owner, Name: in.Name,
				Nodes: []entity.Node{{ID: 1, Name: "Samsung", Kind: entity.NodeKindMain}},
			}, nil
		},
	}
	r := setupRouter(NewGraphHandler(uc), 1)

	body := `{"name":"semis","nodes":[{"name":"Samsung","weight":1,"type":"main"},{"name":"HBM","weight":0.5}],
"edges":[{"startPoint":"Samsung","endPoint":"HBM","sentiment_label":"Positive","sentiment_score":0.7,"collectedCount":4}],
"articles":[{"startPoint":"Samsung","endPoint":"HBM","link":"https://x/1","pubDate":"Mon, 02 Jan 2006 15:04:05 +0900"}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/graphs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp dto.GraphResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(3), resp.ID)
	assert.Equal(t, "MAIN", resp.Nodes[0].Type)

	require.Len(t, got.Nodes, 2)
	assert.Equal(t, entity.NodeKindMain, got.Nodes[0].Kind)
	assert.Equal(t, entity.NodeKindSub, got.Nodes[1].Kind)
	assert.Equal(t, entity.SentimentPositive, got.Edges[0].SentimentLabel)
	assert.Equal(t, 4, got.Edges[0].CollectedCount)
	assert.Equal(t, time.Date(2006, 1, 2, 6, 4, 5, 0, time.UTC), got.Articles[0].PubDate)
}

func TestGraphHandler_CreateBadJSON(t *testing.T) {
	r := setupRouter(NewGraphHandler(&mockGraphUsecase{}), 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/graphs", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGraphHandler_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name       string
		path       string
		err        error
		wantStatus int
	}{
		{name: "not owned", path: "/graphs/5", err: domain.ErrNotOwned, wantStatus: http.StatusForbidden},
		{name: "not found", path: "/graphs/5", err: domain.ErrGraphNotFound, wantStatus: http.StatusNotFound},
		{name: "unexpected", path: "/graphs/5", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
		{name: "invalid id", path: "/graphs/abc", wantStatus: http.StatusBadRequest},
		{name: "zero id", path: "/graphs/0", wantStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &mockGraphUsecase{
				GetFunc: func(ctx context.Context, owner, graphID uint) (*entity.Graph, error) {
					return nil, tc.err
				},
			}
			r := setupRouter(NewGraphHandler(uc), 1)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestGraphHandler_Unauthorized(t *testing.T) {
	r := setupRouter(NewGraphHandler(&mockGraphUsecase{}), 0)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphs", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGraphHandler_ListDeleteArticles(t *testing.T) {
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var deleted uint
	uc := &mockGraphUsecase{
		ListFunc: func(ctx context.Context, owner uint) ([]entity.Graph, error) {
			return []entity.Graph{{ID: 1, Owner: owner, Name: "a", CreatedAt: created}}, nil
		},
		DeleteFunc: func(ctx context.Context, owner, graphID uint) error {
			deleted = graphID
			return nil
		},
		ListArticlesFunc: func(ctx context.Context, owner, graphID uint) ([]entity.NewsArticle, error) {
			return []entity.NewsArticle{
				{ID: 1, Link: "https://x/1", Body: "text"},
				{ID: 2, Link: "https://x/2"},
			}, nil
		},
	}
	r := setupRouter(NewGraphHandler(uc), 9)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphs", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list []dto.GraphSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Name)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/graphs/7", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, uint(7), deleted)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/graphs/7/articles", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"body":"text"`)
	assert.Equal(t, 1, strings.Count(w.Body.String(), `"body"`), "body is omitted when not enriched")
}

func TestParsePubDate(t *testing.T) {
	tests := map[string]time.Time{
		"2024-05-01T09:00:00Z":            time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		"2024-05-01":                      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		"Wed, 01 May 2024 09:00:00 +0000": time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		"garbage":                         {},
	}
	for in, want := range tests {
		assert.True(t, want.Equal(parsePubDate(in)), in)
	}
}
