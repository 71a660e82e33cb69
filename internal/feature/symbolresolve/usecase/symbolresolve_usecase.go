// Package usecase はグラフのキーワードから銘柄シンボルを解決します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"wing_backend/internal/feature/graph/domain/entity"
	"wing_backend/internal/feature/symbolresolve/domain/ticker"
)

// GraphReader は所有者チェック付きでグラフを読み出します。
type GraphReader interface {
	Get(ctx context.Context, owner, graphID uint) (*entity.Graph, error)
}

// Inference は推論コラボレーターの生の回答です。IsDomestic は明示されなかった場合 nil です。
type Inference struct {
	Symbol     string
	IsDomestic *bool
}

// SymbolInferrer はキーワードからティッカーを推論する外部コラボレーターです。
type SymbolInferrer interface {
	InferSymbol(ctx context.Context, mainKeyword string, allKeywords []string) (Inference, error)
}

// Resolution はグラフに対応する銘柄です。
type Resolution struct {
	GraphID     uint
	MainKeyword string
	AllKeywords []string
	Symbol      string
	IsDomestic  bool
}

// SymbolResolveUsecase はシンボル解決のユースケースです。
type SymbolResolveUsecase struct {
	graphs   GraphReader
	inferrer SymbolInferrer
}

// NewSymbolResolveUsecase は SymbolResolveUsecase を生成します。
func NewSymbolResolveUsecase(graphs GraphReader, inferrer SymbolInferrer) *SymbolResolveUsecase {
	return &SymbolResolveUsecase{graphs: graphs, inferrer: inferrer}
}

// Resolve はグラフのMAINキーワードと全キーワードから銘柄シンボルを解決します。
func (u *SymbolResolveUsecase) Resolve(ctx context.Context, owner, graphID uint) (*Resolution, error) {
	g, err := u.graphs.Get(ctx, owner, graphID)
	if err != nil {
		return nil, err
	}
	main, all, err := ticker.Keywords(g.Nodes)
	if err != nil {
		return nil, fmt.Errorf("graph %d has no usable main keyword: %w", graphID, err)
	}

	if u.inferrer == nil {
		return nil, fmt.Errorf("%w: no symbol inferrer configured", ticker.ErrResolutionFailed)
	}
	inf, err := u.inferrer.InferSymbol(ctx, main, all)
	if err != nil {
		if errors.Is(err, ticker.ErrResolutionFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ticker.ErrResolutionFailed, err)
	}
	symbol, domestic, err := ticker.Normalize(inf.Symbol, inf.IsDomestic)
	if err != nil {
		return nil, fmt.Errorf("no symbol for %q: %w", main, err)
	}

	slog.Info("symbol resolved", "graph_id", graphID, "main_keyword", main, "raw", inf.Symbol, "symbol", symbol, "domestic", domestic)
	return &Resolution{
		GraphID:     graphID,
		MainKeyword: main,
		AllKeywords: all,
		Symbol:      symbol,
		IsDomestic:  domestic,
	}, nil
}
