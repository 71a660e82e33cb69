package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wing_backend/internal/feature/indicator/domain/entity"
	"wing_backend/internal/feature/indicator/domain/technical"
	"wing_backend/internal/shared/apperr"
)

type mockIndicatorUsecase struct {
	PriceFunc          func(ctx context.Context, symbol string, domestic bool) ([]entity.PricePoint, error)
	RSIFunc            func(ctx context.Context, symbol string, domestic bool, period int) ([]technical.Point[float64], error)
	MomentumFunc       func(ctx context.Context, symbol string, domestic bool, period int) ([]technical.Point[float64], error)
	RecommendationFunc func(ctx context.Context, symbol string, domestic bool) (*entity.Recommendation, error)
	NewsFunc           func(ctx context.Context, symbol string, domestic bool, from, to time.Time) ([]entity.NewsItem, error)
}

func (m *mockIndicatorUsecase) Price(ctx context.Context, symbol string, domestic bool) ([]entity.PricePoint, error) {
	return m.PriceFunc(ctx, symbol, domestic)
}

func (m *mockIndicatorUsecase) RSI(ctx context.Context, symbol string, domestic bool, period int) ([]technical.Point[float64], error) {
	return m.RSIFunc(ctx, symbol, domestic, period)
}

func (m *mockIndicatorUsecase) Momentum(ctx context.Context, symbol string, domestic bool, period int) ([]technical.Point[float64], error) {
	return m.MomentumFunc(ctx, symbol, domestic, period)
}

func (m *mockIndicatorUsecase) Recommendation(ctx context.Context, symbol string, domestic bool) (*entity.Recommendation, error) {
	return m.RecommendationFunc(ctx, symbol, domestic)
}

func (m *mockIndicatorUsecase) News(ctx context.Context, symbol string, domestic bool, from, to time.Time) ([]entity.NewsItem, error) {
	return m.NewsFunc(ctx, symbol, domestic, from, to)
}

func newRouter(uc IndicatorUsecase) *gin.Engine {
	h := NewIndicatorHandler(uc)
	r := gin.New()
	g := r.Group("/indicators/:symbol")
	g.GET("/price", h.Price)
	g.GET("/rsi", h.RSI)
	g.GET("/momentum", h.Momentum)
	g.GET("/recommendation", h.Recommendation)
	g.GET("/news", h.News)
	return r
}

func serve(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func ptr(v float64) *float64 { return &v }

var may2 = time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

func TestIndicatorHandler_Price(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotSymbol string
	var gotDomestic bool
	uc := &mockIndicatorUsecase{
		PriceFunc: func(ctx context.Context, symbol string, domestic bool) ([]entity.PricePoint, error) {
			gotSymbol, gotDomestic = symbol, domestic
			return []entity.PricePoint{{Date: may2, Close: 71234.567, MA20: ptr(70000.004)}}, nil
		},
	}

	w := serve(newRouter(uc), "/indicators/005930.KS/price")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"date":"2024-05-02","close":71234.57,"ma20":70000,"ma60":null}]`, w.Body.String())
	assert.Equal(t, "005930", gotSymbol)
	assert.True(t, gotDomestic)
}

func TestIndicatorHandler_DomesticFlag(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name         string
		path         string
		wantStatus   int
		wantSymbol   string
		wantDomestic bool
	}{
		{name: "foreign inferred", path: "/indicators/aapl/price", wantStatus: http.StatusOK, wantSymbol: "AAPL"},
		{name: "six digits inferred", path: "/indicators/000660/price", wantStatus: http.StatusOK, wantSymbol: "000660", wantDomestic: true},
		{name: "explicit flag wins", path: "/indicators/000660/price?domestic=false", wantStatus: http.StatusOK, wantSymbol: "000660"},
		{name: "invalid flag", path: "/indicators/AAPL/price?domestic=maybe", wantStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotSymbol string
			var gotDomestic bool
			uc := &mockIndicatorUsecase{
				PriceFunc: func(ctx context.Context, symbol string, domestic bool) ([]entity.PricePoint, error) {
					gotSymbol, gotDomestic = symbol, domestic
					return nil, nil
				},
			}

			w := serve(newRouter(uc), tc.path)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, tc.wantSymbol, gotSymbol)
				assert.Equal(t, tc.wantDomestic, gotDomestic)
				assert.JSONEq(t, `[]`, w.Body.String())
			}
		})
	}
}

func TestIndicatorHandler_RSIAndMomentum(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var rsiPeriod, momPeriod int
	uc := &mockIndicatorUsecase{
		RSIFunc: func(ctx context.Context, symbol string, domestic bool, period int) ([]technical.Point[float64], error) {
			rsiPeriod = period
			return []technical.Point[float64]{{Date: may2, Value: 55.556}}, nil
		},
		MomentumFunc: func(ctx context.Context, symbol string, domestic bool, period int) ([]technical.Point[float64], error) {
			momPeriod = period
			return []technical.Point[float64]{{Date: may2, Value: -3.25}}, nil
		},
	}
	r := newRouter(uc)

	w := serve(r, "/indicators/AAPL/rsi?period=7")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"date":"2024-05-02","rsi":55.56}]`, w.Body.String())
	assert.Equal(t, 7, rsiPeriod)

	w = serve(r, "/indicators/AAPL/momentum")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"date":"2024-05-02","mom":-3.25}]`, w.Body.String())
	assert.Equal(t, 0, momPeriod)

	w = serve(r, "/indicators/AAPL/rsi?period=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIndicatorHandler_Errors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "insufficient history", err: &technical.InsufficientHistoryError{Indicator: "RSI", Period: 14, Have: 3}, wantStatus: http.StatusUnprocessableEntity},
		{name: "empty series", err: fmt.Errorf("005930: %w", technical.ErrEmptySeries), wantStatus: http.StatusNotFound},
		{name: "no data", err: apperr.ErrNoData, wantStatus: http.StatusNotFound},
		{name: "upstream", err: &apperr.UpstreamError{Vendor: "kis", Status: 500}, wantStatus: http.StatusBadGateway},
		{name: "invalid", err: apperr.Invalid("symbol is required"), wantStatus: http.StatusBadRequest},
		{name: "unknown", err: fmt.Errorf("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &mockIndicatorUsecase{
				RSIFunc: func(ctx context.Context, symbol string, domestic bool, period int) ([]technical.Point[float64], error) {
					return nil, tc.err
				},
			}

			w := serve(newRouter(uc), "/indicators/005930/rsi")

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestIndicatorHandler_Recommendation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	uc := &mockIndicatorUsecase{
		RecommendationFunc: func(ctx context.Context, symbol string, domestic bool) (*entity.Recommendation, error) {
			return &entity.Recommendation{Buy: 3, Hold: 1, Period: may2, Symbol: "삼성전자"}, nil
		},
	}

	w := serve(newRouter(uc), "/indicators/005930/recommendation")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"buy":3,"hold":1,"sell":0,"strongBuy":0,"strongSell":0,"period":"2024-05-02","symbol":"삼성전자"}`, w.Body.String())
}

func TestIndicatorHandler_News(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotFrom, gotTo time.Time
	uc := &mockIndicatorUsecase{
		NewsFunc: func(ctx context.Context, symbol string, domestic bool, from, to time.Time) ([]entity.NewsItem, error) {
			gotFrom, gotTo = from, to
			return []entity.NewsItem{{ID: 1, Datetime: may2, Headline: "h", URL: "https://x/1"}}, nil
		},
	}
	r := newRouter(uc)

	w := serve(r, "/indicators/AAPL/news?from=2024-05-01&to=2024-05-07")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"datetime":1714608000,"headline":"h","source":"","summary":"","url":"https://x/1","image":"","category":"","related":""}]`, w.Body.String())
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), gotFrom)
	assert.Equal(t, time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC), gotTo)

	w = serve(r, "/indicators/AAPL/news")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, gotFrom.IsZero())

	w = serve(r, "/indicators/AAPL/news?from=05-01-2024")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
