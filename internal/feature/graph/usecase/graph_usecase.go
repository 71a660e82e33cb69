// Package usecase はグラフの登録・参照・削除と記事本文の補完を実装します。
package usecase

import (
	"context"
	"strings"

	"wing_backend/internal/feature/graph/domain"
	"wing_backend/internal/feature/graph/domain/entity"
	"wing_backend/internal/shared/apperr"
)

// GraphRepository はグラフ集約の永続化レイヤーを抽象化します。
// 所有者チェックはユースケース側で行います。
type GraphRepository interface {
	Create(ctx context.Context, g entity.Graph, articles []entity.NewsArticle) (uint, error)
	Ingest(ctx context.Context, graphID uint, nodes []entity.Node, edges []entity.Edge, articles []entity.NewsArticle) error
	Get(ctx context.Context, graphID uint) (*entity.Graph, error)
	ListByOwner(ctx context.Context, owner uint) ([]entity.Graph, error)
	Delete(ctx context.Context, graphID uint) error
	Articles(ctx context.Context, graphID uint) ([]entity.NewsArticle, error)
	ArticleCounts(ctx context.Context, graphID uint) (map[entity.PairKey]int, int, error)
}

// IngestInput は外部のグラフ構築エージェントが出力した1回分の結果です。
type IngestInput struct {
	Name     string
	Nodes    []entity.Node
	Edges    []entity.Edge
	Articles []entity.NewsArticle
}

// GraphUsecase はグラフ操作のユースケースです。
type GraphUsecase struct {
	repo     GraphRepository
	enricher *Enricher
}

// NewGraphUsecase は GraphUsecase を生成します。enricher が nil の場合、記事本文は補完しません。
func NewGraphUsecase(repo GraphRepository, enricher *Enricher) *GraphUsecase {
	return &GraphUsecase{repo: repo, enricher: enricher}
}

// Create は呼び出し元を所有者とする新しいグラフを作成します。
func (u *GraphUsecase) Create(ctx context.Context, owner uint, in IngestInput) (*entity.Graph, error) {
	if owner == 0 {
		return nil, apperr.Invalid("owner is required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Invalid("graph name is required")
	}
	nodes, edges, articles, err := normalize(in)
	if err != nil {
		return nil, err
	}

	id, err := u.repo.Create(ctx, entity.Graph{Owner: owner, Name: name, Nodes: nodes, Edges: edges}, articles)
	if err != nil {
		return nil, err
	}
	return u.repo.Get(ctx, id)
}

// Ingest は既存グラフに再取り込みします。ノードは名前で、エッジは無向ペアでupsertし、記事は追加します。
func (u *GraphUsecase) Ingest(ctx context.Context, owner, graphID uint, in IngestInput) (*entity.Graph, error) {
	if _, err := u.Get(ctx, owner, graphID); err != nil {
		return nil, err
	}
	nodes, edges, articles, err := normalize(in)
	if err != nil {
		return nil, err
	}
	if err := u.repo.Ingest(ctx, graphID, nodes, edges, articles); err != nil {
		return nil, err
	}
	return u.repo.Get(ctx, graphID)
}

// Get は所有者を確認したうえでグラフを返します。
func (u *GraphUsecase) Get(ctx context.Context, owner, graphID uint) (*entity.Graph, error) {
	if owner == 0 || graphID == 0 {
		return nil, apperr.Invalid("owner and graph id are required")
	}
	g, err := u.repo.Get(ctx, graphID)
	if err != nil {
		return nil, err
	}
	if g.Owner != owner {
		return nil, domain.ErrNotOwned
	}
	return g, nil
}

// List は所有者のグラフ一覧を返します。
func (u *GraphUsecase) List(ctx context.Context, owner uint) ([]entity.Graph, error) {
	if owner == 0 {
		return nil, apperr.Invalid("owner is required")
	}
	return u.repo.ListByOwner(ctx, owner)
}

// Delete はグラフとその子要素を削除します。
func (u *GraphUsecase) Delete(ctx context.Context, owner, graphID uint) error {
	if _, err := u.Get(ctx, owner, graphID); err != nil {
		return err
	}
	return u.repo.Delete(ctx, graphID)
}

// ArticleCounts は無向ペアごとの記事数と総記事数を返します。
func (u *GraphUsecase) ArticleCounts(ctx context.Context, owner, graphID uint) (map[entity.PairKey]int, int, error) {
	if _, err := u.Get(ctx, owner, graphID); err != nil {
		return nil, 0, err
	}
	return u.repo.ArticleCounts(ctx, graphID)
}

// ListArticles はグラフの記事を返します。enricher が設定されている場合は本文を補完します。
// 本文を取得できなかった記事も説明文のまま返します。
func (u *GraphUsecase) ListArticles(ctx context.Context, owner, graphID uint) ([]entity.NewsArticle, error) {
	if _, err := u.Get(ctx, owner, graphID); err != nil {
		return nil, err
	}
	articles, err := u.repo.Articles(ctx, graphID)
	if err != nil {
		return nil, err
	}
	if u.enricher == nil || len(articles) == 0 {
		return articles, nil
	}

	bodies := u.enricher.Bodies(ctx, links(articles))
	for i := range articles {
		articles[i].Body = bodies[articles[i].Link]
	}
	return articles, nil
}

// normalize は入力を検証し、同一キーの重複を後勝ちでまとめます。
func normalize(in IngestInput) ([]entity.Node, []entity.Edge, []entity.NewsArticle, error) {
	nodes := make([]entity.Node, 0, len(in.Nodes))
	nodeIdx := make(map[string]int, len(in.Nodes))
	for _, n := range in.Nodes {
		n.Name = strings.TrimSpace(n.Name)
		if n.Name == "" {
			return nil, nil, nil, apperr.Invalid("node name is required")
		}
		if n.Kind == "" {
			n.Kind = entity.NodeKindSub
		}
		if i, ok := nodeIdx[n.Name]; ok {
			nodes[i] = n
			continue
		}
		nodeIdx[n.Name] = len(nodes)
		nodes = append(nodes, n)
	}

	edges := make([]entity.Edge, 0, len(in.Edges))
	edgeIdx := make(map[entity.PairKey]int, len(in.Edges))
	for _, e := range in.Edges {
		e.StartPoint, e.EndPoint = strings.TrimSpace(e.StartPoint), strings.TrimSpace(e.EndPoint)
		if e.StartPoint == "" || e.EndPoint == "" {
			return nil, nil, nil, apperr.Invalid("edge endpoints are required")
		}
		if e.StartPoint == e.EndPoint {
			return nil, nil, nil, apperr.Invalid("edge %q connects a node to itself", e.StartPoint)
		}
		if e.SentimentLabel == "" {
			e.SentimentLabel = entity.SentimentOther
		}
		if i, ok := edgeIdx[e.Key()]; ok {
			edges[i] = e
			continue
		}
		edgeIdx[e.Key()] = len(edges)
		edges = append(edges, e)
	}

	articles := make([]entity.NewsArticle, 0, len(in.Articles))
	for _, a := range in.Articles {
		a.StartPoint, a.EndPoint = strings.TrimSpace(a.StartPoint), strings.TrimSpace(a.EndPoint)
		a.Link = strings.TrimSpace(a.Link)
		if a.StartPoint == "" || a.EndPoint == "" || a.Link == "" {
			return nil, nil, nil, apperr.Invalid("article link and edge endpoints are required")
		}
		articles = append(articles, a)
	}
	return nodes, edges, articles, nil
}

func links(articles []entity.NewsArticle) []string {
	seen := make(map[string]struct{}, len(articles))
	out := make([]string, 0, len(articles))
	for _, a := range articles {
		if _, ok := seen[a.Link]; ok {
			continue
		}
		seen[a.Link] = struct{}{}
		out = append(out, a.Link)
	}
	return out
}
