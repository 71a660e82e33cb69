package adapters

import (
	"context"
	"time"

	"wing_backend/internal/feature/indicator/domain/entity"
	"wing_backend/internal/feature/indicator/usecase"
	"wing_backend/internal/platform/externalapi/kis"
)

// KISOpinionAPI は kis.Client の投資意見取得です。
type KISOpinionAPI interface {
	GetOpinions(ctx context.Context, code string, from, to time.Time) ([]kis.Opinion, error)
}

type kisOpinions struct {
	api KISOpinionAPI
}

var _ usecase.OpinionSource = (*kisOpinions)(nil)

// NewOpinionSource は KIS の投資意見を OpinionSource として包みます。
func NewOpinionSource(api KISOpinionAPI) *kisOpinions {
	return &kisOpinions{api: api}
}

func (s *kisOpinions) GetOpinions(ctx context.Context, code string, from, to time.Time) ([]entity.Opinion, error) {
	rows, err := s.api.GetOpinions(ctx, code, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Opinion, len(rows))
	for i, r := range rows {
		out[i] = entity.Opinion{Date: r.Date, Code: r.Code}
	}
	return out, nil
}
