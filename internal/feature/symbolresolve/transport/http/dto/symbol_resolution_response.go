package dto

// SymbolResolutionResponse は GET /graphs/:id/symbol のレスポンスです。
type SymbolResolutionResponse struct {
	GraphID     uint     `json:"graphId"`
	MainKeyword string   `json:"mainKeyword"`
	AllKeywords []string `json:"allKeywords"`
	Symbol      string   `json:"symbol"`
	IsDomestic  bool     `json:"isDomestic"`
}
