// Package usecase は永続化済みグラフからWING-Scoreを算出します。
package usecase

import (
	"context"
	"log/slog"

	"wing_backend/internal/feature/graph/domain/entity"
	"wing_backend/internal/feature/wingscore/domain/score"
)

// GraphReader は所有者チェック付きでグラフとペア別記事数を読み出します。
type GraphReader interface {
	Get(ctx context.Context, owner, graphID uint) (*entity.Graph, error)
	ArticleCounts(ctx context.Context, owner, graphID uint) (map[entity.PairKey]int, int, error)
}

// ScoreRecorder はスコアの分布を記録します。
type ScoreRecorder interface {
	ObserveWingScore(score int)
}

// WingScoreUsecase はWING-Score算出のユースケースです。
type WingScoreUsecase struct {
	graphs  GraphReader
	params  score.Params
	metrics ScoreRecorder
}

// NewWingScoreUsecase は WingScoreUsecase を生成します。metrics は nil でも構いません。
func NewWingScoreUsecase(graphs GraphReader, params score.Params, metrics ScoreRecorder) *WingScoreUsecase {
	return &WingScoreUsecase{graphs: graphs, params: params, metrics: metrics}
}

// Score はグラフのWING-Scoreを返します。エッジや記事がないグラフは0です。
func (u *WingScoreUsecase) Score(ctx context.Context, owner, graphID uint) (score.Result, error) {
	g, err := u.graphs.Get(ctx, owner, graphID)
	if err != nil {
		return score.Result{}, err
	}
	counts, total, err := u.graphs.ArticleCounts(ctx, owner, graphID)
	if err != nil {
		return score.Result{}, err
	}

	res := score.Compute(score.FromGraph(g.Nodes, g.Edges, counts, total), u.params)
	slog.Debug("wing score computed",
		"graph_id", graphID,
		"edges", len(g.Edges),
		"articles", total,
		"sum", res.Sum,
		"confidence", res.Confidence,
		"wing_score", res.WingScore,
	)
	if u.metrics != nil {
		u.metrics.ObserveWingScore(res.WingScore)
	}
	return res, nil
}
