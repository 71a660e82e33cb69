package dto

// RecommendationTrend is one monthly row of /stock/recommendation.
type RecommendationTrend struct {
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongBuy  int    `json:"strongBuy"`
	StrongSell int    `json:"strongSell"`
	Period     string `json:"period"`
	Symbol     string `json:"symbol"`
}

// CompanyNews is one article of /company-news. Datetime is UNIX seconds.
type CompanyNews struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}
