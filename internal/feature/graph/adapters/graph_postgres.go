package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"wing_backend/internal/feature/graph/domain"
	"wing_backend/internal/feature/graph/domain/entity"
	"wing_backend/internal/feature/graph/usecase"
)

// graphPostgres はGraphRepositoryのGORM実装です。
type graphPostgres struct {
	db *gorm.DB
}

var _ usecase.GraphRepository = (*graphPostgres)(nil)

// NewGraphRepository は指定されたDB接続でグラフリポジトリを生成します。
func NewGraphRepository(db *gorm.DB) *graphPostgres {
	return &graphPostgres{db: db}
}

// Create はグラフ行を作成し、続けてノード・エッジ・記事を同一トランザクションで保存します。
func (r *graphPostgres) Create(ctx context.Context, g entity.Graph, articles []entity.NewsArticle) (uint, error) {
	var id uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := GraphModel{Owner: g.Owner, Name: g.Name}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		id = m.ID
		return upsertChildren(tx, id, g.Nodes, g.Edges, articles)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Ingest はノードを名前で、エッジを無向ペアでupsertし、記事を追加します。
func (r *graphPostgres) Ingest(ctx context.Context, graphID uint, nodes []entity.Node, edges []entity.Edge, articles []entity.NewsArticle) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&GraphModel{}).Where("id = ?", graphID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrGraphNotFound
		}
		return upsertChildren(tx, graphID, nodes, edges, articles)
	})
}

func upsertChildren(tx *gorm.DB, graphID uint, nodes []entity.Node, edges []entity.Edge, articles []entity.NewsArticle) error {
	if len(nodes) > 0 {
		ms := make([]NodeModel, 0, len(nodes))
		for _, n := range nodes {
			ms = append(ms, nodeToModel(graphID, n))
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "graph_id"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"weight", "kind"}),
		}).Create(&ms).Error; err != nil {
			return err
		}
	}
	if len(edges) > 0 {
		ms := make([]EdgeModel, 0, len(edges))
		for _, e := range edges {
			ms = append(ms, edgeToModel(graphID, e))
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "graph_id"}, {Name: "node_a"}, {Name: "node_b"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"start_point", "end_point", "weight", "sentiment_label",
				"sentiment_score", "collected_count", "total_estimated",
			}),
		}).Create(&ms).Error; err != nil {
			return err
		}
	}
	if len(articles) > 0 {
		ms := make([]ArticleModel, 0, len(articles))
		for _, a := range articles {
			ms = append(ms, articleToModel(graphID, a))
		}
		if err := tx.CreateInBatches(&ms, 500).Error; err != nil {
			return err
		}
	}
	return nil
}

// Get はノードとエッジを含むグラフを返します。
func (r *graphPostgres) Get(ctx context.Context, graphID uint) (*entity.Graph, error) {
	var m GraphModel
	err := r.db.WithContext(ctx).
		Preload("Nodes", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Edges", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&m, graphID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrGraphNotFound
	}
	if err != nil {
		return nil, err
	}

	g := &entity.Graph{
		ID:        m.ID,
		Owner:     m.Owner,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		Nodes:     make([]entity.Node, 0, len(m.Nodes)),
		Edges:     make([]entity.Edge, 0, len(m.Edges)),
	}
	for _, n := range m.Nodes {
		g.Nodes = append(g.Nodes, nodeToEntity(n))
	}
	for _, e := range m.Edges {
		g.Edges = append(g.Edges, edgeToEntity(e))
	}
	return g, nil
}

// ListByOwner は所有者のグラフを新しい順に返します。ノード・エッジは含みません。
func (r *graphPostgres) ListByOwner(ctx context.Context, owner uint) ([]entity.Graph, error) {
	var rows []GraphModel
	if err := r.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Graph, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.Graph{ID: m.ID, Owner: m.Owner, Name: m.Name, CreatedAt: m.CreatedAt})
	}
	return out, nil
}

// Delete はグラフと子行をすべて削除します。FK制約に依存せず明示的に子から削除します。
func (r *graphPostgres) Delete(ctx context.Context, graphID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{&ArticleModel{}, &EdgeModel{}, &NodeModel{}} {
			if err := tx.Where("graph_id = ?", graphID).Delete(child).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&GraphModel{}, graphID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrGraphNotFound
		}
		return nil
	})
}

// Articles はグラフの記事を登録順に返します。
func (r *graphPostgres) Articles(ctx context.Context, graphID uint) ([]entity.NewsArticle, error) {
	var rows []ArticleModel
	if err := r.db.WithContext(ctx).
		Where("graph_id = ?", graphID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.NewsArticle, 0, len(rows))
	for _, m := range rows {
		out = append(out, articleToEntity(m))
	}
	return out, nil
}

// ArticleCounts は無向ペアごとの記事数とグラフ全体の記事数を返します。
func (r *graphPostgres) ArticleCounts(ctx context.Context, graphID uint) (map[entity.PairKey]int, int, error) {
	type row struct {
		NodeA string
		NodeB string
		N     int
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&ArticleModel{}).
		Select("node_a, node_b, COUNT(*) AS n").
		Where("graph_id = ?", graphID).
		Group("node_a, node_b").
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	counts := make(map[entity.PairKey]int, len(rows))
	total := 0
	for _, rw := range rows {
		counts[entity.Pair(rw.NodeA, rw.NodeB)] = rw.N
		total += rw.N
	}
	return counts, total, nil
}
