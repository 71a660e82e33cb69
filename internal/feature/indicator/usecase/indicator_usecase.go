// Package usecase は国内・海外で取得経路を切り替えて指標値を返します。
//
// 国内銘柄はKISの日足を長めに取得してローカルで計算し、表示期間で切り出します。
// 海外銘柄はベンダー計算済みの値を取得し、直近N件に切り詰めます。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	candle "wing_backend/internal/feature/candles/domain/entity"
	"wing_backend/internal/feature/indicator/domain/entity"
	"wing_backend/internal/feature/indicator/domain/technical"
	"wing_backend/internal/feature/symbolresolve/domain/ticker"
	"wing_backend/internal/shared/apperr"
)

const (
	// DefaultMomentumPeriod はmomentumのperiod未指定時の値です。
	DefaultMomentumPeriod = 10

	shortMA = 20
	longMA  = 60
)

// DailyCandleSource は [from, to] の日足を日付昇順で返します。
type DailyCandleSource interface {
	GetDailyCandles(ctx context.Context, symbol string, from, to time.Time) ([]candle.Candle, error)
}

// ForeignIndicatorSource はベンダー計算済みの指標値を日付昇順で返します。
type ForeignIndicatorSource interface {
	Closes(ctx context.Context, symbol string, points int) ([]technical.Point[float64], error)
	SMA(ctx context.Context, symbol string, period, points int) ([]technical.Point[float64], error)
	RSI(ctx context.Context, symbol string, period, points int) ([]technical.Point[float64], error)
	Momentum(ctx context.Context, symbol string, period, points int) ([]technical.Point[float64], error)
}

// OpinionSource は国内銘柄のアナリスト意見を返します。
type OpinionSource interface {
	GetOpinions(ctx context.Context, code string, from, to time.Time) ([]entity.Opinion, error)
}

// RecommendationSource は海外銘柄の推奨集計をベンダーから取得します。
type RecommendationSource interface {
	GetRecommendation(ctx context.Context, symbol string) (*entity.Recommendation, error)
}

// NewsSource は海外銘柄の企業ニュースを返します。
type NewsSource interface {
	CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]entity.NewsItem, error)
}

// SymbolNamer は銘柄コードから表示名を引きます。見つからない場合は空文字です。
type SymbolNamer interface {
	NameByCode(ctx context.Context, code string) (string, error)
}

// Windows は取得期間と表示期間の設定です。
type Windows struct {
	LookbackDays             int
	DisplayDays              int
	ForeignPoints            int
	RecommendationWindowDays int
}

// DefaultWindows は 120日取得・30日表示・海外30件・推奨90日です。
func DefaultWindows() Windows {
	return Windows{LookbackDays: 120, DisplayDays: 30, ForeignPoints: 30, RecommendationWindowDays: 90}
}

// Sources は経路ごとの依存先です。
type Sources struct {
	Domestic        DailyCandleSource
	Foreign         ForeignIndicatorSource
	Opinions        OpinionSource
	Recommendations RecommendationSource
	News            NewsSource
	Names           SymbolNamer
}

// IndicatorUsecase は指標取得のルーターです。
type IndicatorUsecase struct {
	src Sources
	win Windows
	now func() time.Time
}

// NewIndicatorUsecase は IndicatorUsecase を生成します。
func NewIndicatorUsecase(src Sources, win Windows) *IndicatorUsecase {
	return &IndicatorUsecase{src: src, win: win, now: time.Now}
}

// Price は終値と20日・60日移動平均を返します。
func (u *IndicatorUsecase) Price(ctx context.Context, symbol string, domestic bool) ([]entity.PricePoint, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if domestic {
		return u.domesticPrice(ctx, symbol)
	}
	return u.foreignPrice(ctx, symbol)
}

// RSI はWilder RSIの系列を返します。period が0以下の場合は14です。
func (u *IndicatorUsecase) RSI(ctx context.Context, symbol string, domestic bool, period int) ([]technical.Point[float64], error) {
	if period <= 0 {
		period = technical.DefaultRSIPeriod
	}
	return u.series(ctx, symbol, domestic, period, technical.RSISeries,
		func(ctx context.Context, s string, p, n int) ([]technical.Point[float64], error) {
			return u.src.Foreign.RSI(ctx, s, p, n)
		})
}

// Momentum はmomentumの系列を返します。period が0以下の場合は10です。
func (u *IndicatorUsecase) Momentum(ctx context.Context, symbol string, domestic bool, period int) ([]technical.Point[float64], error) {
	if period <= 0 {
		period = DefaultMomentumPeriod
	}
	return u.series(ctx, symbol, domestic, period, technical.MomentumSeries,
		func(ctx context.Context, s string, p, n int) ([]technical.Point[float64], error) {
			return u.src.Foreign.Momentum(ctx, s, p, n)
		})
}

type localSeries func([]candle.Candle, int) ([]technical.Point[float64], error)

type vendorSeries func(ctx context.Context, symbol string, period, points int) ([]technical.Point[float64], error)

func (u *IndicatorUsecase) series(ctx context.Context, symbol string, domestic bool, period int, local localSeries, vendor vendorSeries) ([]technical.Point[float64], error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if domestic {
		candles, err := u.domesticCandles(ctx, symbol)
		if err != nil {
			return nil, err
		}
		points, err := local(candles, period)
		if err != nil {
			return nil, err
		}
		return technical.Window(points, u.displayStart()), nil
	}

	points, err := vendor(ctx, symbol, period, u.win.ForeignPoints)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, apperr.ErrNoData)
	}
	return technical.Last(points, u.win.ForeignPoints), nil
}

func (u *IndicatorUsecase) domesticCandles(ctx context.Context, code string) ([]candle.Candle, error) {
	to := u.now()
	from := to.AddDate(0, 0, -u.win.LookbackDays)
	candles, err := u.src.Domestic.GetDailyCandles(ctx, code, from, to)
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("%s: %w", code, technical.ErrEmptySeries)
	}
	return candle.Normalize(candles), nil
}

func (u *IndicatorUsecase) domesticPrice(ctx context.Context, code string) ([]entity.PricePoint, error) {
	candles, err := u.domesticCandles(ctx, code)
	if err != nil {
		return nil, err
	}
	ma20, err := movingAverage(candles, shortMA)
	if err != nil {
		return nil, err
	}
	ma60, err := movingAverage(candles, longMA)
	if err != nil {
		return nil, err
	}

	start := candle.Date(u.displayStart())
	out := make([]entity.PricePoint, 0, len(candles))
	for i, c := range candles {
		if candle.Date(c.Time).Before(start) {
			continue
		}
		out = append(out, entity.PricePoint{
			Date:  c.Time,
			Close: c.Close,
			MA20:  ma20[i].Value,
			MA60:  ma60[i].Value,
		})
	}
	return out, nil
}

// movingAverage は価格チャートの移動平均線です。上場直後などで期間に満たない場合は
// 線を描かず、全日付が nil の系列を返します。
func movingAverage(candles []candle.Candle, period int) ([]technical.Point[*float64], error) {
	series, err := technical.SMASeries(candles, period)
	if errors.Is(err, technical.ErrInsufficientHistory) {
		return make([]technical.Point[*float64], len(candles)), nil
	}
	return series, err
}

func (u *IndicatorUsecase) foreignPrice(ctx context.Context, symbol string) ([]entity.PricePoint, error) {
	n := u.win.ForeignPoints
	var closes, ma20, ma60 []technical.Point[float64]

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		closes, err = u.src.Foreign.Closes(gctx, symbol, n)
		return err
	})
	g.Go(func() (err error) {
		ma20, err = u.src.Foreign.SMA(gctx, symbol, shortMA, n)
		return err
	})
	g.Go(func() (err error) {
		ma60, err = u.src.Foreign.SMA(gctx, symbol, longMA, n)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(closes) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, apperr.ErrNoData)
	}

	byDate20, byDate60 := indexByDate(ma20), indexByDate(ma60)
	closes = technical.Last(closes, n)
	out := make([]entity.PricePoint, 0, len(closes))
	for _, c := range closes {
		key := candle.Date(c.Date)
		out = append(out, entity.PricePoint{
			Date:  c.Date,
			Close: c.Value,
			MA20:  byDate20[key],
			MA60:  byDate60[key],
		})
	}
	return out, nil
}

// Recommendation は推奨集計を返します。国内銘柄はアナリスト意見から集計し、
// symbol を銘柄名に置き換えます（見つからなければコードのまま）。
func (u *IndicatorUsecase) Recommendation(ctx context.Context, symbol string, domestic bool) (*entity.Recommendation, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if !domestic {
		rec, err := u.src.Recommendations.GetRecommendation(ctx, symbol)
		if err != nil {
			return nil, err
		}
		return rec, nil
	}

	to := u.now()
	from := candle.Date(to.AddDate(0, 0, -u.win.RecommendationWindowDays))
	opinions, err := u.src.Opinions.GetOpinions(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}
	rec := entity.AggregateOpinions(opinions, from, u.displayName(ctx, symbol))
	return &rec, nil
}

// News は企業ニュースを返します。国内銘柄はデータソースがないため常に空です。
func (u *IndicatorUsecase) News(ctx context.Context, symbol string, domestic bool, from, to time.Time) ([]entity.NewsItem, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if domestic {
		return []entity.NewsItem{}, nil
	}
	if to.IsZero() {
		to = u.now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -7)
	}
	if to.Before(from) {
		return nil, apperr.Invalid("from %s is after to %s", from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	return u.src.News.CompanyNews(ctx, symbol, from, to)
}

func (u *IndicatorUsecase) displayName(ctx context.Context, code string) string {
	if u.src.Names == nil {
		return code
	}
	name, err := u.src.Names.NameByCode(ctx, code)
	if err != nil || name == "" {
		return code
	}
	return name
}

func (u *IndicatorUsecase) displayStart() time.Time {
	return u.now().AddDate(0, 0, -u.win.DisplayDays)
}

func normalizeSymbol(symbol string) (string, error) {
	s, _ := ticker.StripExchangeSuffix(symbol)
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperr.Invalid("symbol is required")
	}
	return s, nil
}

func indexByDate(points []technical.Point[float64]) map[time.Time]*float64 {
	out := make(map[time.Time]*float64, len(points))
	for _, p := range points {
		v := p.Value
		out[candle.Date(p.Date)] = &v
	}
	return out
}
