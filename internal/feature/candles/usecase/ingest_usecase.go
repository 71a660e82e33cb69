package usecase

import (
	"context"
	"log/slog"
	"time"

	"wing_backend/internal/feature/candles/domain/entity"
	"wing_backend/internal/feature/symbolresolve/domain/ticker"
	"wing_backend/internal/shared/ratelimiter"
)

// IngestLookbackDays は1銘柄あたりに取り込む暦日数です。
const IngestLookbackDays = 200

// DailyCandleSource は [from, to] の日足を日付昇順で返します。
type DailyCandleSource interface {
	GetDailyCandles(ctx context.Context, symbol string, from, to time.Time) ([]entity.Candle, error)
}

// IngestUsecase は外部APIから日足を取得し、データベースに永続化します。
// 6桁の銘柄コードは国内ソース、それ以外は海外ソースから取得します。
type IngestUsecase struct {
	domestic    DailyCandleSource
	foreign     DailyCandleSource
	candle      CandleWriter
	rateLimiter ratelimiter.Limiter
	now         func() time.Time
}

// NewIngestUsecase は新しい IngestUsecase を作成します。
func NewIngestUsecase(domestic, foreign DailyCandleSource, candle CandleWriter, rateLimiter ratelimiter.Limiter) *IngestUsecase {
	return &IngestUsecase{
		domestic:    domestic,
		foreign:     foreign,
		candle:      candle,
		rateLimiter: rateLimiter,
		now:         time.Now,
	}
}

func (iu *IngestUsecase) source(symbol string) DailyCandleSource {
	if ticker.IsDomesticCode(symbol) {
		return iu.domestic
	}
	return iu.foreign
}

// ingestOne は1銘柄の日足を取得し、銘柄コードと時間足を設定して一括で upsert します。
func (iu *IngestUsecase) ingestOne(ctx context.Context, symbol string) (int, error) {
	to := iu.now()
	from := to.AddDate(0, 0, -IngestLookbackDays)
	cs, err := iu.source(symbol).GetDailyCandles(ctx, symbol, from, to)
	if err != nil {
		return 0, err
	}

	for i := range cs {
		cs[i].Symbol = symbol
		cs[i].Interval = DefaultInterval
	}
	return len(cs), iu.candle.UpsertBatch(ctx, cs)
}

// IngestAll は全銘柄の日足を取り込みます。失敗した銘柄はログに出して次へ進みます。
// ctx が終了した場合のみエラーを返します。
func (iu *IngestUsecase) IngestAll(ctx context.Context, symbols []string) error {
	var ok, failed int
	for _, s := range symbols {
		if err := iu.rateLimiter.Wait(ctx); err != nil {
			return err
		}
		n, err := iu.ingestOne(ctx, s)
		if err != nil {
			failed++
			slog.Error("failed to ingest data", "symbol", s, "error", err)
			continue
		}
		ok++
		slog.Debug("ingested candles", "symbol", s, "count", n)
	}
	slog.Info("ingest finished", "succeeded", ok, "failed", failed)
	return nil
}
