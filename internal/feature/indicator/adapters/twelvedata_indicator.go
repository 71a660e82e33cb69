// Package adapters は指標ルーターが使うベンダークライアントを
// usecase のインターフェースに合わせて変換します。
package adapters

import (
	"context"

	"wing_backend/internal/feature/candles/domain/entity"
	"wing_backend/internal/feature/indicator/domain/technical"
	"wing_backend/internal/feature/indicator/usecase"
	"wing_backend/internal/platform/externalapi/twelvedata"
)

const dailyInterval = "1day"

// TwelveDataAPI は twelvedata.Client のうち指標取得で使うメソッドです。
type TwelveDataAPI interface {
	GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error)
	GetSMA(ctx context.Context, symbol string, period, outputsize int) ([]twelvedata.Point, error)
	GetRSI(ctx context.Context, symbol string, period, outputsize int) ([]twelvedata.Point, error)
	GetMomentum(ctx context.Context, symbol string, period, outputsize int) ([]twelvedata.Point, error)
}

type twelveDataIndicators struct {
	api TwelveDataAPI
}

var _ usecase.ForeignIndicatorSource = (*twelveDataIndicators)(nil)

// NewForeignIndicatorSource は Twelve Data を海外銘柄の指標ソースとして包みます。
func NewForeignIndicatorSource(api TwelveDataAPI) *twelveDataIndicators {
	return &twelveDataIndicators{api: api}
}

// Closes は直近 points 件の日足終値を日付昇順で返します。
func (s *twelveDataIndicators) Closes(ctx context.Context, symbol string, points int) ([]technical.Point[float64], error) {
	candles, err := s.api.GetTimeSeries(ctx, symbol, dailyInterval, points)
	if err != nil {
		return nil, err
	}
	candles = entity.Normalize(candles)
	out := make([]technical.Point[float64], len(candles))
	for i, c := range candles {
		out[i] = technical.Point[float64]{Date: c.Time, Value: c.Close}
	}
	return out, nil
}

func (s *twelveDataIndicators) SMA(ctx context.Context, symbol string, period, points int) ([]technical.Point[float64], error) {
	return toPoints(s.api.GetSMA(ctx, symbol, period, points))
}

func (s *twelveDataIndicators) RSI(ctx context.Context, symbol string, period, points int) ([]technical.Point[float64], error) {
	return toPoints(s.api.GetRSI(ctx, symbol, period, points))
}

func (s *twelveDataIndicators) Momentum(ctx context.Context, symbol string, period, points int) ([]technical.Point[float64], error) {
	return toPoints(s.api.GetMomentum(ctx, symbol, period, points))
}

func toPoints(in []twelvedata.Point, err error) ([]technical.Point[float64], error) {
	if err != nil {
		return nil, err
	}
	out := make([]technical.Point[float64], len(in))
	for i, p := range in {
		out[i] = technical.Point[float64]{Date: p.Date, Value: p.Value}
	}
	return out, nil
}
