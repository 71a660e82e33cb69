package dto

// GraphRequest は外部のグラフ構築エージェントが送信するグラフ本体です。
// PUT /graphs/:id では Name を省略できます。
type GraphRequest struct {
	Name     string           `json:"name"`
	Nodes    []NodeRequest    `json:"nodes"`
	Edges    []EdgeRequest    `json:"edges"`
	Articles []ArticleRequest `json:"articles"`
}

// NodeRequest はキーワードノードです。type は MAIN / SUB（省略時 SUB）。
type NodeRequest struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Type   string  `json:"type"`
}

// EdgeRequest は無向エッジです。
type EdgeRequest struct {
	StartPoint     string  `json:"startPoint"`
	EndPoint       string  `json:"endPoint"`
	Weight         float64 `json:"weight"`
	SentimentLabel string  `json:"sentiment_label"`
	SentimentScore float64 `json:"sentiment_score"`
	CollectedCount int     `json:"collectedCount"`
	TotalEstimated int     `json:"totalEstimated"`
}

// ArticleRequest はエッジに紐づく記事です。pubDate は RFC3339 または RFC1123Z。
type ArticleRequest struct {
	StartPoint  string `json:"startPoint"`
	EndPoint    string `json:"endPoint"`
	Link        string `json:"link"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PubDate     string `json:"pubDate"`
}
