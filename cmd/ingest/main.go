package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"wing_backend/internal/app/di"
	candlesadapters "wing_backend/internal/feature/candles/adapters"
	candlesusecase "wing_backend/internal/feature/candles/usecase"
	symbollistadapters "wing_backend/internal/feature/symbollist/adapters"
	symbollistusecase "wing_backend/internal/feature/symbollist/usecase"
	"wing_backend/internal/platform/cache"
	"wing_backend/internal/platform/config"
	infradb "wing_backend/internal/platform/db"
	"wing_backend/internal/platform/logger"
	infraredis "wing_backend/internal/platform/redis"
	"wing_backend/internal/shared/ratelimiter"
)

// vendorCallsPerMinute は Twelve Data 無料枠の上限に合わせた呼び出し数です。
const vendorCallsPerMinute = 8

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found, using environment")
	}
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Init("wing-ingest", logger.ParseLevel(cfg.Server.LogLevel))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	db, err := infradb.OpenDB(append(candlesadapters.Models(), symbollistadapters.Models()...)...)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}

	// 書き込み時に該当銘柄のキャッシュを破棄する。Redisがなければそのまま書き込む
	rdb, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfigFromEnv())
	if err != nil {
		slog.Warn("Redis unavailable. Cached candles will not be invalidated.")
		rdb = nil
	} else {
		defer func() { _ = rdb.Close() }()
	}
	candleRepo := cache.NewCachingCandleRepository(rdb, 0, candlesadapters.NewCandleRepository(db), "candles")

	symbolUC := symbollistusecase.NewSymbolUsecase(symbollistadapters.NewSymbolRepository(db))
	uc := candlesusecase.NewIngestUsecase(
		di.NewKIS(cfg.Vendor.Timeout, nil),
		di.NewTwelveData(cfg.Vendor.Timeout, nil),
		candleRepo,
		ratelimiter.NewRateLimiter(vendorCallsPerMinute, time.Minute),
	)

	symbols, err := symbolUC.ActiveCodes(ctx)
	if err != nil {
		slog.Error("failed to load symbols", "error", err)
		os.Exit(1)
	}

	if err := uc.IngestAll(ctx, symbols); err != nil {
		slog.Error("ingest aborted", "error", err)
		os.Exit(1)
	}
	slog.Info("ingest ok", "symbols", len(symbols))
}
