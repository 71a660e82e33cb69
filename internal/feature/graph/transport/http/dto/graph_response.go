package dto

import "time"

// GraphSummary はグラフ一覧の1行です。
type GraphSummary struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// GraphResponse はノードとエッジを含むグラフです。
type GraphResponse struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"createdAt"`
	Nodes     []NodeResponse `json:"nodes"`
	Edges     []EdgeResponse `json:"edges"`
}

type NodeResponse struct {
	ID     uint    `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Type   string  `json:"type"`
}

type EdgeResponse struct {
	ID             uint    `json:"id"`
	StartPoint     string  `json:"startPoint"`
	EndPoint       string  `json:"endPoint"`
	Weight         float64 `json:"weight"`
	SentimentLabel string  `json:"sentiment_label"`
	SentimentScore float64 `json:"sentiment_score"`
	CollectedCount int     `json:"collectedCount"`
	TotalEstimated int     `json:"totalEstimated"`
}

// ArticleResponse は記事です。body は本文を取得できた場合のみ含まれます。
type ArticleResponse struct {
	ID          uint      `json:"id"`
	StartPoint  string    `json:"startPoint"`
	EndPoint    string    `json:"endPoint"`
	Link        string    `json:"link"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PubDate     time.Time `json:"pubDate"`
	Body        string    `json:"body,omitempty"`
}
