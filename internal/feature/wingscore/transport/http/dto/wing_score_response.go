package dto

// WingScoreResponse は GET /graphs/:id/wing-score のレスポンスです。
type WingScoreResponse struct {
	GraphID   uint `json:"graphId"`
	WingScore int  `json:"wingScore"`
}
