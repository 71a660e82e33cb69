// Package dto defines data transfer objects for the symbollist HTTP API.
package dto

// SymbolItem is one instrument of GET /symbols.
type SymbolItem struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Market   string `json:"market"`
	Domestic bool   `json:"domestic"`
}
