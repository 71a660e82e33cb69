// Package entity defines the keyword co-occurrence graph aggregate.
package entity

import (
	"strings"
	"time"
)

// NodeKind は MAIN（グラフの主キーワード）か SUB かを表します。
type NodeKind string

const (
	NodeKindMain NodeKind = "MAIN"
	NodeKindSub  NodeKind = "SUB"
)

// ParseNodeKind は大文字小文字を区別せずに解釈し、不明な値は SUB とします。
func ParseNodeKind(s string) NodeKind {
	if strings.EqualFold(strings.TrimSpace(s), string(NodeKindMain)) {
		return NodeKindMain
	}
	return NodeKindSub
}

// SentimentLabel はエッジの感情ラベルです。
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
	SentimentOther    SentimentLabel = "other"
)

// ParseSentimentLabel は外部エージェントのラベル文字列を正規化します。
func ParseSentimentLabel(s string) SentimentLabel {
	switch SentimentLabel(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	case SentimentNeutral:
		return SentimentNeutral
	default:
		return SentimentOther
	}
}

// Sign は positive→+1, negative→-1, それ以外→0 を返します。
func (l SentimentLabel) Sign() int {
	switch l {
	case SentimentPositive:
		return 1
	case SentimentNegative:
		return -1
	default:
		return 0
	}
}

// Graph はグラフ集約のルートです。削除時はノード・エッジ・記事も削除されます。
type Graph struct {
	ID        uint
	Owner     uint
	Name      string
	CreatedAt time.Time
	Nodes     []Node
	Edges     []Edge
}

// Node はグラフ内のキーワードです。Name はグラフ内で一意です。
type Node struct {
	ID     uint
	Name   string
	Weight float64
	Kind   NodeKind
}

// Edge は2つのノード名の無向ペアです。StartPoint/EndPoint の順序に意味はありません。
type Edge struct {
	ID             uint
	StartPoint     string
	EndPoint       string
	Weight         float64
	SentimentLabel SentimentLabel
	SentimentScore float64
	CollectedCount int
	TotalEstimated int
}

// Key はエッジの無向ペアキーを返します。
func (e Edge) Key() PairKey {
	return Pair(e.StartPoint, e.EndPoint)
}

// NewsArticle はグラフ内の1エッジに紐づく記事です。
// Body は取得時に本文を補完した場合のみ設定され、永続化されません。
type NewsArticle struct {
	ID          uint
	StartPoint  string
	EndPoint    string
	Link        string
	Title       string
	Description string
	PubDate     time.Time
	Body        string
}

// Key は記事が紐づくエッジの無向ペアキーを返します。
func (a NewsArticle) Key() PairKey {
	return Pair(a.StartPoint, a.EndPoint)
}

// PairKey は向きに依存しないノード名ペアです。A <= B が常に成り立ちます。
type PairKey struct {
	A, B string
}

// Pair は a, b の順序に関係なく同じキーを返します。
func Pair(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// CountByPair は記事数を無向ペアごとに集計します。
func CountByPair(articles []NewsArticle) map[PairKey]int {
	out := make(map[PairKey]int, len(articles))
	for _, a := range articles {
		out[a.Key()]++
	}
	return out
}
