package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	redisv9 "github.com/redis/go-redis/v9"

	"wing_backend/internal/app/di"
	"wing_backend/internal/app/router"
	authadapters "wing_backend/internal/feature/auth/adapters"
	authhandler "wing_backend/internal/feature/auth/transport/handler"
	authusecase "wing_backend/internal/feature/auth/usecase"
	candlesadapters "wing_backend/internal/feature/candles/adapters"
	candleshandler "wing_backend/internal/feature/candles/transport/handler"
	candlesusecase "wing_backend/internal/feature/candles/usecase"
	graphadapters "wing_backend/internal/feature/graph/adapters"
	graphhandler "wing_backend/internal/feature/graph/transport/handler"
	graphusecase "wing_backend/internal/feature/graph/usecase"
	indicatoradapters "wing_backend/internal/feature/indicator/adapters"
	indicatorhandler "wing_backend/internal/feature/indicator/transport/handler"
	indicatorusecase "wing_backend/internal/feature/indicator/usecase"
	symbollistadapters "wing_backend/internal/feature/symbollist/adapters"
	symbollisthandler "wing_backend/internal/feature/symbollist/transport/handler"
	symbollistusecase "wing_backend/internal/feature/symbollist/usecase"
	symbolresolvehandler "wing_backend/internal/feature/symbolresolve/transport/handler"
	symbolresolveusecase "wing_backend/internal/feature/symbolresolve/usecase"
	"wing_backend/internal/feature/wingscore/domain/score"
	wingscorehandler "wing_backend/internal/feature/wingscore/transport/handler"
	wingscoreusecase "wing_backend/internal/feature/wingscore/usecase"
	"wing_backend/internal/platform/cache"
	"wing_backend/internal/platform/config"
	infradb "wing_backend/internal/platform/db"
	infrahttp "wing_backend/internal/platform/http"
	platformhandler "wing_backend/internal/platform/http/handler"
	jwtmw "wing_backend/internal/platform/jwt"
	"wing_backend/internal/platform/logger"
	"wing_backend/internal/platform/metrics"
	infraredis "wing_backend/internal/platform/redis"
)

const tokenTTL = 24 * time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found, using environment")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Init("wing-api", logger.ParseLevel(cfg.Server.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// db
	models := append(append(append(authadapters.Models(), symbollistadapters.Models()...),
		candlesadapters.Models()...), graphadapters.Models()...)
	db, err := infradb.OpenDB(models...)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfigFromEnv()); err != nil {
		slog.Warn("Redis unavailable. Running without cache.")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	secret, err := jwtmw.SecretFromEnv()
	if err != nil {
		slog.Warn("JWT_SECRET is not set. Protected routes will reject every request.")
	}

	// Vendors
	tdClient := di.NewTwelveData(cfg.Vendor.Timeout, m)
	kisClient := di.NewKIS(cfg.Vendor.Timeout, m)
	fhClient := di.NewFinnhub(cfg.Vendor.Timeout, m)
	inferrer := di.NewSymbolInferrer(ctx, os.Getenv("GEMINI_MODEL"))

	// Repository
	userRepo := authadapters.NewUserRepository(db)
	symbolRepo := symbollistadapters.NewSymbolRepository(db)
	candleRepo := cache.NewCachingCandleRepository(rdb, 0, candlesadapters.NewCandleRepository(db), "candles")
	graphRepo := graphadapters.NewGraphRepository(db)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, jwtmw.NewGenerator(secret, tokenTTL))
	symbolUC := symbollistusecase.NewSymbolUsecase(symbolRepo)
	candlesUC := candlesusecase.NewCandlesUsecase(candleRepo)

	enricher := graphusecase.NewEnricher(
		graphadapters.NewBodyCache(rdb, cfg.Enrich.BodyTTL),
		graphadapters.NewArticleFetcher(infrahttp.NewVendorClient("article", cfg.Vendor.Timeout, m)),
		cfg.Enrich.Concurrency, m)
	graphUC := graphusecase.NewGraphUsecase(graphRepo, enricher)
	wingUC := wingscoreusecase.NewWingScoreUsecase(graphUC, score.Params{
		EdgeScale:     cfg.Wing.EdgeScale,
		VolumeExp:     cfg.Wing.VolumeExp,
		MinConfidence: cfg.Wing.MinConfidence,
		NewsPerNode:   cfg.Wing.NewsPerNode,
	}, m)
	resolveUC := symbolresolveusecase.NewSymbolResolveUsecase(graphUC, inferrer)

	finnhubSrc := indicatoradapters.NewFinnhubSource(fhClient)
	indicatorUC := indicatorusecase.NewIndicatorUsecase(indicatorusecase.Sources{
		Domestic:        cache.NewCachingDailySource(rdb, 0, kisClient, "kis-daily"),
		Foreign:         indicatoradapters.NewForeignIndicatorSource(tdClient),
		Opinions:        indicatoradapters.NewOpinionSource(kisClient),
		Recommendations: finnhubSrc,
		News:            finnhubSrc,
		Names:           symbolUC,
	}, indicatorusecase.Windows{
		LookbackDays:             cfg.Indicator.LookbackDays,
		DisplayDays:              cfg.Indicator.DisplayDays,
		ForeignPoints:            cfg.Indicator.ForeignPoints,
		RecommendationWindowDays: cfg.Indicator.RecommendationWindowDays,
	})

	// Health checks
	required := map[string]platformhandler.CheckFunc{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	optional := map[string]platformhandler.CheckFunc{}
	if rdb != nil {
		optional["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	r := router.NewRouter(router.Handlers{
		Health:        platformhandler.NewHealthHandler(required, optional),
		Metrics:       m.Handler(),
		Auth:          authhandler.NewAuthHandler(authUC),
		Symbols:       symbollisthandler.NewSymbolHandler(symbolUC),
		Candles:       candleshandler.NewCandlesHandler(candlesUC),
		Graphs:        graphhandler.NewGraphHandler(graphUC),
		WingScore:     wingscorehandler.NewWingScoreHandler(wingUC),
		SymbolResolve: symbolresolvehandler.NewSymbolResolveHandler(resolveUC),
		Indicators:    indicatorhandler.NewIndicatorHandler(indicatorUC),
	}, router.Options{JWTSecret: secret, CORS: cfg.Server.CORS})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
