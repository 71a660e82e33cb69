package adapters

import (
	"context"
	"fmt"
	"time"

	"wing_backend/internal/feature/indicator/domain/entity"
	"wing_backend/internal/feature/indicator/usecase"
	"wing_backend/internal/platform/externalapi/finnhub/dto"
)

// FinnhubAPI は finnhub.Client の推奨トレンドと企業ニュースです。
type FinnhubAPI interface {
	LatestRecommendation(ctx context.Context, symbol string) (*dto.RecommendationTrend, error)
	CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]dto.CompanyNews, error)
}

type finnhubMarket struct {
	api FinnhubAPI
}

var (
	_ usecase.RecommendationSource = (*finnhubMarket)(nil)
	_ usecase.NewsSource           = (*finnhubMarket)(nil)
)

// NewFinnhubSource は Finnhub を推奨集計とニュースのソースとして包みます。
func NewFinnhubSource(api FinnhubAPI) *finnhubMarket {
	return &finnhubMarket{api: api}
}

func (s *finnhubMarket) GetRecommendation(ctx context.Context, symbol string) (*entity.Recommendation, error) {
	t, err := s.api.LatestRecommendation(ctx, symbol)
	if err != nil {
		return nil, err
	}
	period, err := time.Parse(time.DateOnly, t.Period)
	if err != nil {
		return nil, fmt.Errorf("finnhub: invalid period %q: %w", t.Period, err)
	}
	sym := t.Symbol
	if sym == "" {
		sym = symbol
	}
	return &entity.Recommendation{
		Buy:        t.Buy,
		Hold:       t.Hold,
		Sell:       t.Sell,
		StrongBuy:  t.StrongBuy,
		StrongSell: t.StrongSell,
		Period:     period,
		Symbol:     sym,
	}, nil
}

func (s *finnhubMarket) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]entity.NewsItem, error) {
	rows, err := s.api.CompanyNews(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]entity.NewsItem, len(rows))
	for i, r := range rows {
		out[i] = entity.NewsItem{
			ID:       r.ID,
			Datetime: time.Unix(r.Datetime, 0).UTC(),
			Headline: r.Headline,
			Source:   r.Source,
			Summary:  r.Summary,
			URL:      r.URL,
			Image:    r.Image,
			Category: r.Category,
			Related:  r.Related,
		}
	}
	return out, nil
}
