// Package adapters はgraphフィーチャーの永続化・キャッシュ・記事本文取得の実装を提供します。
package adapters

import (
	"time"

	"wing_backend/internal/feature/graph/domain/entity"
)

// GraphModel はグラフ集約のルート行です。子テーブルは graph_id で紐づきます。
type GraphModel struct {
	ID        uint      `gorm:"primaryKey"`
	Owner     uint      `gorm:"not null;index"`
	Name      string    `gorm:"size:255;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Nodes    []NodeModel    `gorm:"foreignKey:GraphID;constraint:OnDelete:CASCADE"`
	Edges    []EdgeModel    `gorm:"foreignKey:GraphID;constraint:OnDelete:CASCADE"`
	Articles []ArticleModel `gorm:"foreignKey:GraphID;constraint:OnDelete:CASCADE"`
}

func (GraphModel) TableName() string { return "graphs" }

// NodeModel は (graph_id, name) で一意です。
type NodeModel struct {
	ID      uint    `gorm:"primaryKey"`
	GraphID uint    `gorm:"not null;uniqueIndex:node_graph_name,priority:1"`
	Name    string  `gorm:"size:255;not null;uniqueIndex:node_graph_name,priority:2"`
	Weight  float64 `gorm:"not null;default:0"`
	Kind    string  `gorm:"size:8;not null"`
}

func (NodeModel) TableName() string { return "graph_nodes" }

// EdgeModel は (graph_id, node_a, node_b) で一意です。node_a <= node_b の正規化済みペアを保持し、
// start_point / end_point には受け取った向きをそのまま保存します。
type EdgeModel struct {
	ID             uint    `gorm:"primaryKey"`
	GraphID        uint    `gorm:"not null;uniqueIndex:edge_graph_pair,priority:1"`
	NodeA          string  `gorm:"size:255;not null;uniqueIndex:edge_graph_pair,priority:2"`
	NodeB          string  `gorm:"size:255;not null;uniqueIndex:edge_graph_pair,priority:3"`
	StartPoint     string  `gorm:"size:255;not null"`
	EndPoint       string  `gorm:"size:255;not null"`
	Weight         float64 `gorm:"not null;default:0"`
	SentimentLabel string  `gorm:"size:16;not null"`
	SentimentScore float64 `gorm:"not null;default:0"`
	CollectedCount int     `gorm:"not null;default:0"`
	TotalEstimated int     `gorm:"not null;default:0"`
}

func (EdgeModel) TableName() string { return "graph_edges" }

// ArticleModel は1エッジに紐づく記事です。同じリンクが複数エッジに現れることを許容します。
type ArticleModel struct {
	ID          uint      `gorm:"primaryKey"`
	GraphID     uint      `gorm:"not null;index:article_graph_pair,priority:1"`
	NodeA       string    `gorm:"size:255;not null;index:article_graph_pair,priority:2"`
	NodeB       string    `gorm:"size:255;not null;index:article_graph_pair,priority:3"`
	StartPoint  string    `gorm:"size:255;not null"`
	EndPoint    string    `gorm:"size:255;not null"`
	Link        string    `gorm:"size:2048;not null"`
	Title       string    `gorm:"size:512"`
	Description string    `gorm:"type:text"`
	PubDate     time.Time
}

func (ArticleModel) TableName() string { return "graph_articles" }

// Models はマイグレーション対象のモデルを返します。
func Models() []any {
	return []any{&GraphModel{}, &NodeModel{}, &EdgeModel{}, &ArticleModel{}}
}

func nodeToModel(graphID uint, n entity.Node) NodeModel {
	kind := n.Kind
	if kind == "" {
		kind = entity.NodeKindSub
	}
	return NodeModel{GraphID: graphID, Name: n.Name, Weight: n.Weight, Kind: string(kind)}
}

func nodeToEntity(m NodeModel) entity.Node {
	return entity.Node{ID: m.ID, Name: m.Name, Weight: m.Weight, Kind: entity.ParseNodeKind(m.Kind)}
}

func edgeToModel(graphID uint, e entity.Edge) EdgeModel {
	k := e.Key()
	return EdgeModel{
		GraphID:        graphID,
		NodeA:          k.A,
		NodeB:          k.B,
		StartPoint:     e.StartPoint,
		EndPoint:       e.EndPoint,
		Weight:         e.Weight,
		SentimentLabel: string(e.SentimentLabel),
		SentimentScore: e.SentimentScore,
		CollectedCount: e.CollectedCount,
		TotalEstimated: e.TotalEstimated,
	}
}

func edgeToEntity(m EdgeModel) entity.Edge {
	return entity.Edge{
		ID:             m.ID,
		StartPoint:     m.StartPoint,
		EndPoint:       m.EndPoint,
		Weight:         m.Weight,
		SentimentLabel: entity.ParseSentimentLabel(m.SentimentLabel),
		SentimentScore: m.SentimentScore,
		CollectedCount: m.CollectedCount,
		TotalEstimated: m.TotalEstimated,
	}
}

func articleToModel(graphID uint, a entity.NewsArticle) ArticleModel {
	k := a.Key()
	return ArticleModel{
		GraphID:     graphID,
		NodeA:       k.A,
		NodeB:       k.B,
		StartPoint:  a.StartPoint,
		EndPoint:    a.EndPoint,
		Link:        a.Link,
		Title:       a.Title,
		Description: a.Description,
		PubDate:     a.PubDate,
	}
}

func articleToEntity(m ArticleModel) entity.NewsArticle {
	return entity.NewsArticle{
		ID:          m.ID,
		StartPoint:  m.StartPoint,
		EndPoint:    m.EndPoint,
		Link:        m.Link,
		Title:       m.Title,
		Description: m.Description,
		PubDate:     m.PubDate,
	}
}
