package dto

import (
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// PricePointResponse は終値と移動平均の1点です。履歴不足の移動平均は null です。
type PricePointResponse struct {
	Date  openapi_types.Date `json:"date"`
	Close float64            `json:"close"`
	MA20  *float64           `json:"ma20"`
	MA60  *float64           `json:"ma60"`
}

// RSIPointResponse はRSIの1点です。
type RSIPointResponse struct {
	Date openapi_types.Date `json:"date"`
	RSI  float64            `json:"rsi"`
}

// MomentumPointResponse はmomentumの1点です。
type MomentumPointResponse struct {
	Date openapi_types.Date `json:"date"`
	Mom  float64            `json:"mom"`
}

// RecommendationResponse は推奨集計です。
type RecommendationResponse struct {
	Buy        int                `json:"buy"`
	Hold       int                `json:"hold"`
	Sell       int                `json:"sell"`
	StrongBuy  int                `json:"strongBuy"`
	StrongSell int                `json:"strongSell"`
	Period     openapi_types.Date `json:"period"`
	Symbol     string             `json:"symbol"`
}

// NewsResponse は企業ニュース1件です。datetime はUNIX秒。
type NewsResponse struct {
	ID       int64  `json:"id"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
	Image    string `json:"image"`
	Category string `json:"category"`
	Related  string `json:"related"`
}
