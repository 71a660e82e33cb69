package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	candle "wing_backend/internal/feature/candles/domain/entity"
	"wing_backend/internal/feature/indicator/domain/entity"
	"wing_backend/internal/feature/indicator/domain/technical"
	"wing_backend/internal/shared/apperr"
)

var testNow = time.Date(2024, 6, 30, 15, 0, 0, 0, time.UTC)

// mockCandleSource はDailyCandleSourceのモック実装です。
type mockCandleSource struct {
	GetDailyCandlesFunc func(ctx context.Context, symbol string, from, to time.Time) ([]candle.Candle, error)
	Calls               int
	gotSymbol           string
	gotFrom             time.Time
}

func (m *mockCandleSource) GetDailyCandles(ctx context.Context, symbol string, from, to time.Time) ([]candle.Candle, error) {
	m.Calls++
	m.gotSymbol, m.gotFrom = symbol, from
	if m.GetDailyCandlesFunc != nil {
		return m.GetDailyCandlesFunc(ctx, symbol, from, to)
	}
	return nil, errors.New("GetDailyCandlesFunc is not implemented")
}

type pointsFunc func(ctx context.Context, symbol string, period, points int) ([]technical.Point[float64], error)

// mockForeignSource はForeignIndicatorSourceのモック実装です。
type mockForeignSource struct {
	ClosesFunc   func(ctx context.Context, symbol string, points int) ([]technical.Point[float64], error)
	SMAFunc      pointsFunc
	RSIFunc      pointsFunc
	MomentumFunc pointsFunc
}

func (m *mockForeignSource) Closes(ctx context.Context, symbol string, points int) ([]technical.Point[float64], error) {
	return m.ClosesFunc(ctx, symbol, points)
}

func (m *mockForeignSource) SMA(ctx context.Context, symbol string, period, points int) ([]technical.Point[float64], error) {
	return m.SMAFunc(ctx, symbol, period, points)
}

func (m *mockForeignSource) RSI(ctx context.Context, symbol string, period, points int) ([]technical.Point[float64], error) {
	return m.RSIFunc(ctx, symbol, period, points)
}

func (m *mockForeignSource) Momentum(ctx context.Context, symbol string, period, points int) ([]technical.Point[float64], error) {
	return m.MomentumFunc(ctx, symbol, period, points)
}

type mockOpinionSource struct {
	GetOpinionsFunc func(ctx context.Context, code string, from, to time.Time) ([]entity.Opinion, error)
}

func (m *mockOpinionSource) GetOpinions(ctx context.Context, code string, from, to time.Time) ([]entity.Opinion, error) {
	return m.GetOpinionsFunc(ctx, code, from, to)
}

type mockRecommendationSource struct {
	GetRecommendationFunc func(ctx context.Context, symbol string) (*entity.Recommendation, error)
}

func (m *mockRecommendationSource) GetRecommendation(ctx context.Context, symbol string) (*entity.Recommendation, error) {
	return m.GetRecommendationFunc(ctx, symbol)
}

type mockNewsSource struct {
	CompanyNewsFunc func(ctx context.Context, symbol string, from, to time.Time) ([]entity.NewsItem, error)
	Calls           int
}

func (m *mockNewsSource) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]entity.NewsItem, error) {
	m.Calls++
	return m.CompanyNewsFunc(ctx, symbol, from, to)
}

type mockNamer struct {
	NameByCodeFunc func(ctx context.Context, code string) (string, error)
}

func (m *mockNamer) NameByCode(ctx context.Context, code string) (string, error) {
	return m.NameByCodeFunc(ctx, code)
}

// risingCandles は now の n 日前から1日1本、終値が100から1ずつ上がる日足を返します。
func risingCandles(n int) []candle.Candle {
	out := make([]candle.Candle, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, candle.Candle{
			Time:  candle.Date(testNow.AddDate(0, 0, -n+i)),
			Close: float64(100 + i),
		})
	}
	return out
}

func newTestUsecase(src Sources) *IndicatorUsecase {
	u := NewIndicatorUsecase(src, DefaultWindows())
	u.now = func() time.Time { return testNow }
	return u
}

func pointsFrom(values ...float64) []technical.Point[float64] {
	out := make([]technical.Point[float64], len(values))
	for i, v := range values {
		out[i] = technical.Point[float64]{Date: candle.Date(testNow.AddDate(0, 0, -len(values)+1+i)), Value: v}
	}
	return out
}

func TestIndicatorUsecase_DomesticPrice(t *testing.T) {
	src := &mockCandleSource{
		GetDailyCandlesFunc: func(ctx context.Context, symbol string, from, to time.Time) ([]candle.Candle, error) {
			return risingCandles(120), nil
		},
	}
	u := newTestUsecase(Sources{Domestic: src})

	got, err := u.Price(context.Background(), "005930.KS", true)

	require.NoError(t, err)
	assert.Equal(t, "005930", src.gotSymbol, "exchange suffix is stripped")
	assert.Equal(t, testNow.AddDate(0, 0, -120), src.gotFrom, "fetches the full lookback")
	require.Len(t, got, 31, "only the 30-day display window is returned")
	assert.Equal(t, candle.Date(testNow.AddDate(0, 0, -30)), got[0].Date)

	last := got[len(got)-1]
	assert.Equal(t, 220.0, last.Close)
	require.NotNil(t, last.MA20)
	assert.Equal(t, 210.5, *last.MA20)
	require.NotNil(t, last.MA60)
	assert.Equal(t, 190.5, *last.MA60)
}

func TestIndicatorUsecase_DomesticPriceShortHistoryHasNullMA(t *testing.T) {
	src := &mockCandleSource{
		GetDailyCandlesFunc: func(ctx context.Context, symbol string, from, to time.Time) ([]candle.Candle, error) {
			return risingCandles(25), nil
		},
	}
	u := newTestUsecase(Sources{Domestic: src})

	got, err := u.Price(context.Background(), "005930", true)

	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Nil(t, got[0].MA20)
	assert.NotNil(t, got[len(got)-1].MA20)
	for _, p := range got {
		assert.Nil(t, p.MA60)
	}
}

func TestIndicatorUsecase_DomesticSeries(t *testing.T) {
	src := &mockCandleSource{
		GetDailyCandlesFunc: func(ctx context.Context, symbol string, from, to time.Time) ([]candle.Candle, error) {
			return risingCandles(120), nil
		},
	}
	u := newTestUsecase(Sources{Domestic: src})

	rsi, err := u.RSI(context.Background(), "005930", true, 0)
	require.NoError(t, err)
	require.Len(t, rsi, 31)
	for _, p := range rsi {
		assert.Equal(t, 100.0, p.Value, "no losses saturates at 100")
	}

	mom, err := u.Momentum(context.Background(), "005930", true, 0)
	require.NoError(t, err)
	require.Len(t, mom, 31)
	assert.Equal(t, float64(DefaultMomentumPeriod), mom[0].Value)
}

func TestIndicatorUsecase_DomesticErrors(t *testing.T) {
	testCases := []struct {
		name    string
		candles []candle.Candle
		srcErr  error
		period  int
		wantErr error
	}{
		{name: "insufficient history", candles: risingCandles(9), period: 14, wantErr: technical.ErrInsufficientHistory},
		{name: "empty series", candles: nil, wantErr: technical.ErrEmptySeries},
		{name: "upstream failure", srcErr: &apperr.UpstreamError{Vendor: "kis", Status: 500}, wantErr: apperr.ErrUpstream},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := &mockCandleSource{
				GetDailyCandlesFunc: func(ctx context.Context, symbol string, from, to time.Time) ([]candle.Candle, error) {
					return tc.candles, tc.srcErr
				},
			}
			u := newTestUsecase(Sources{Domestic: src})

			_, err := u.RSI(context.Background(), "005930", true, tc.period)

			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestIndicatorUsecase_InvalidSymbol(t *testing.T) {
	src := &mockCandleSource{}
	u := newTestUsecase(Sources{Domestic: src})

	_, err := u.Price(context.Background(), "  ", true)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	_, err = u.RSI(context.Background(), "", true, 14)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	_, err = u.Recommendation(context.Background(), "", true)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	_, err = u.News(context.Background(), "", false, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	assert.Zero(t, src.Calls, "validation happens before any I/O")
}

func TestIndicatorUsecase_ForeignSeries(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = float64(i)
	}
	var gotPeriod, gotPoints int
	foreign := &mockForeignSource{
		RSIFunc: func(ctx context.Context, symbol string, period, points int) ([]technical.Point[float64], error) {
			gotPeriod, gotPoints = period, points
			return pointsFrom(values...), nil
		},
		MomentumFunc: func(ctx context.Context, symbol string, period, points int) ([]technical.Point[float64], error) {
			return nil, nil
		},
	}
	u := newTestUsecase(Sources{Foreign: foreign})

	got, err := u.RSI(context.Background(), "aapl", false, 0)

	require.NoError(t, err)
	assert.Equal(t, technical.DefaultRSIPeriod, gotPeriod)
	assert.Equal(t, 30, gotPoints)
	require.Len(t, got, 30, "truncated to the most recent N points")
	assert.Equal(t, 10.0, got[0].Value)
	assert.Equal(t, 39.0, got[29].Value)

	_, err = u.Momentum(context.Background(), "AAPL", false, 5)
	assert.ErrorIs(t, err, apperr.ErrNoData)
}

func TestIndicatorUsecase_ForeignPrice(t *testing.T) {
	foreign := &mockForeignSource{
		ClosesFunc: func(ctx context.Context, symbol string, points int) ([]technical.Point[float64], error) {
			return pointsFrom(10, 11, 12), nil
		},
		SMAFunc: func(ctx context.Context, symbol string, period, points int) ([]technical.Point[float64], error) {
			if period == 60 {
				return nil, nil
			}
			return pointsFrom(10.5, 11.5), nil
		},
	}
	u := newTestUsecase(Sources{Foreign: foreign})

	got, err := u.Price(context.Background(), "AAPL", false)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Nil(t, got[0].MA20, "no SMA value on that date")
	require.NotNil(t, got[2].MA20)
	assert.Equal(t, 11.5, *got[2].MA20)
	for _, p := range got {
		assert.Nil(t, p.MA60)
	}
}

func TestIndicatorUsecase_ForeignPriceError(t *testing.T) {
	vendorErr := &apperr.UpstreamError{Vendor: "twelvedata", Status: 429}
	foreign := &mockForeignSource{
		ClosesFunc: func(ctx context.Context, symbol string, points int) ([]technical.Point[float64], error) {
			return pointsFrom(1), nil
		},
		SMAFunc: func(ctx context.Context, symbol string, period, points int) ([]technical.Point[float64], error) {
			return nil, vendorErr
		},
	}
	u := newTestUsecase(Sources{Foreign: foreign})

	_, err := u.Price(context.Background(), "AAPL", false)

	assert.ErrorIs(t, err, apperr.ErrUpstream)
}

func TestIndicatorUsecase_DomesticRecommendation(t *testing.T) {
	windowStart := candle.Date(testNow.AddDate(0, 0, -90))

	testCases := []struct {
		name       string
		opinions   []entity.Opinion
		nameResult string
		nameErr    error
		want       entity.Recommendation
	}{
		{
			name: "aggregates codes and resolves name",
			opinions: []entity.Opinion{
				{Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), Code: 2},
				{Date: time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC), Code: 3},
				{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Code: 1},
			},
			nameResult: "삼성전자",
			want: entity.Recommendation{
				Buy: 1, Hold: 1, Sell: 1,
				Period: time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC),
				Symbol: "삼성전자",
			},
		},
		{
			name:    "no opinions and name lookup failure",
			nameErr: errors.New("database error"),
			want:    entity.Recommendation{Period: windowStart, Symbol: "005930"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotFrom time.Time
			u := newTestUsecase(Sources{
				Opinions: &mockOpinionSource{
					GetOpinionsFunc: func(ctx context.Context, code string, from, to time.Time) ([]entity.Opinion, error) {
						gotFrom = from
						return tc.opinions, nil
					},
				},
				Names: &mockNamer{
					NameByCodeFunc: func(ctx context.Context, code string) (string, error) { return tc.nameResult, tc.nameErr },
				},
			})

			got, err := u.Recommendation(context.Background(), "005930", true)

			require.NoError(t, err)
			assert.Equal(t, windowStart, gotFrom)
			assert.Equal(t, tc.want, *got)
		})
	}
}

func TestIndicatorUsecase_ForeignRecommendation(t *testing.T) {
	want := &entity.Recommendation{Buy: 20, Hold: 5, StrongBuy: 10, Symbol: "AAPL"}
	u := newTestUsecase(Sources{
		Recommendations: &mockRecommendationSource{
			GetRecommendationFunc: func(ctx context.Context, symbol string) (*entity.Recommendation, error) {
				return want, nil
			},
		},
	})

	got, err := u.Recommendation(context.Background(), "AAPL", false)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestIndicatorUsecase_News(t *testing.T) {
	news := &mockNewsSource{
		CompanyNewsFunc: func(ctx context.Context, symbol string, from, to time.Time) ([]entity.NewsItem, error) {
			assert.Equal(t, testNow.AddDate(0, 0, -7), from)
			assert.Equal(t, testNow, to)
			return []entity.NewsItem{{ID: 1, Headline: "h"}}, nil
		},
	}
	u := newTestUsecase(Sources{News: news})

	domestic, err := u.News(context.Background(), "005930", true, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.NotNil(t, domestic)
	assert.Empty(t, domestic)
	assert.Zero(t, news.Calls)

	foreign, err := u.News(context.Background(), "AAPL", false, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, foreign, 1)

	_, err = u.News(context.Background(), "AAPL", false, testNow, testNow.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}
