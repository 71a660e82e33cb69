// Package usecase はローソク足データ操作のビジネスロジックを実装します。
package usecase

import (
	"context"
	"strings"

	"wing_backend/internal/feature/candles/domain/entity"
	"wing_backend/internal/shared/apperr"
)

const (
	// DefaultInterval はローソク足クエリのデフォルト時間間隔です。
	DefaultInterval = "1day"
	// DefaultOutputSize はデフォルトのローソク足返却件数です。
	DefaultOutputSize = 200
	// MaxOutputSize はローソク足の最大返却件数です。
	MaxOutputSize = 5000
)

// CandleRepository はローソク足データの読み取りレイヤーを抽象化します。
type CandleRepository interface {
	// Find は新しい順に最大 outputsize 件のローソク足を返します。
	Find(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
}

// CandleWriter はローソク足の一括書き込みです。
type CandleWriter interface {
	UpsertBatch(ctx context.Context, candles []entity.Candle) error
}

// candlesUsecase はローソク足データ操作のユースケースを定義します。
type candlesUsecase struct {
	candle CandleRepository
}

// NewCandlesUsecase はcandlesUsecaseの新しいインスタンスを生成します。
func NewCandlesUsecase(candle CandleRepository) *candlesUsecase {
	return &candlesUsecase{candle: candle}
}

// GetCandles は指定された銘柄と時間間隔のローソク足データを取得します。
func (cu *candlesUsecase) GetCandles(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, apperr.Invalid("code is required")
	}
	if interval == "" {
		interval = DefaultInterval
	}
	if outputsize <= 0 || outputsize > MaxOutputSize {
		outputsize = DefaultOutputSize
	}

	return cu.candle.Find(ctx, symbol, interval, outputsize)
}
