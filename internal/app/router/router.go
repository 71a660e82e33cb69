// Package router はginのルーティングテーブルを組み立てます。
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "wing_backend/internal/feature/auth/transport/handler"
	candleshandler "wing_backend/internal/feature/candles/transport/handler"
	graphhandler "wing_backend/internal/feature/graph/transport/handler"
	indicatorhandler "wing_backend/internal/feature/indicator/transport/handler"
	symbollisthandler "wing_backend/internal/feature/symbollist/transport/handler"
	symbolresolvehandler "wing_backend/internal/feature/symbolresolve/transport/handler"
	wingscorehandler "wing_backend/internal/feature/wingscore/transport/handler"
	platformhandler "wing_backend/internal/platform/http/handler"
	"wing_backend/internal/platform/http/middleware"
	jwtmw "wing_backend/internal/platform/jwt"
)

// Handlers はルーターに登録するハンドラー一式です。
type Handlers struct {
	Health        *platformhandler.HealthHandler
	Metrics       http.Handler
	Auth          *authhandler.AuthHandler
	Symbols       *symbollisthandler.SymbolHandler
	Candles       *candleshandler.CandlesHandler
	Graphs        *graphhandler.GraphHandler
	WingScore     *wingscorehandler.WingScoreHandler
	SymbolResolve *symbolresolvehandler.SymbolResolveHandler
	Indicators    *indicatorhandler.IndicatorHandler
}

// Options はルーター全体の設定です。
type Options struct {
	JWTSecret string
	CORS      bool
}

func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(nil))
	if opts.CORS {
		r.Use(cors.Default())
	}

	// 認証不要
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}
	r.POST("/signup", h.Auth.Signup)
	r.POST("/login", h.Auth.Login)

	// 認証必須のルート
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(opts.JWTSecret))
	{
		auth.GET("/symbols", h.Symbols.List)
		auth.GET("/candles/:code", h.Candles.GetCandlesHandler)

		graphs := auth.Group("/graphs")
		graphs.GET("", h.Graphs.List)
		graphs.POST("", h.Graphs.Create)
		graphs.GET("/:id", h.Graphs.Get)
		graphs.PUT("/:id", h.Graphs.Ingest)
		graphs.DELETE("/:id", h.Graphs.Delete)
		graphs.GET("/:id/articles", h.Graphs.Articles)
		graphs.GET("/:id/wing-score", h.WingScore.Get)
		graphs.GET("/:id/symbol", h.SymbolResolve.Get)

		ind := auth.Group("/indicators/:symbol")
		ind.GET("/price", h.Indicators.Price)
		ind.GET("/rsi", h.Indicators.RSI)
		ind.GET("/momentum", h.Indicators.Momentum)
		ind.GET("/recommendation", h.Indicators.Recommendation)
		ind.GET("/news", h.Indicators.News)
	}

	return r
}
