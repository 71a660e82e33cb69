// Package dto defines data transfer objects for the Twelve Data API responses.
// Numeric fields arrive as JSON strings and are parsed at the client boundary.
package dto

// TimeSeriesResponse represents the JSON response from the Twelve Data time_series endpoint.
type TimeSeriesResponse struct {
	Status   string            `json:"status"`
	Code     int               `json:"code,omitempty"`
	Message  string            `json:"message,omitempty"`
	Meta     Meta              `json:"meta"`
	Values   []TimeSeriesValue `json:"values"`
}

// Meta is the instrument metadata shared by all endpoints.
type Meta struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
	Exchange string `json:"exchange,omitempty"`
}

// TimeSeriesValue is one OHLCV row.
type TimeSeriesValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}
