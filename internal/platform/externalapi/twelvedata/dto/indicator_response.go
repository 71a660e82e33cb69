package dto

// IndicatorResponse represents the JSON response from the /sma, /rsi and /mom endpoints.
type IndicatorResponse struct {
	Status  string           `json:"status"`
	Code    int              `json:"code,omitempty"`
	Message string           `json:"message,omitempty"`
	Meta    Meta             `json:"meta"`
	Values  []IndicatorValue `json:"values"`
}

// IndicatorValue holds one row; only the field for the requested indicator is set.
type IndicatorValue struct {
	Datetime string `json:"datetime"`
	SMA      string `json:"sma,omitempty"`
	RSI      string `json:"rsi,omitempty"`
	MOM      string `json:"mom,omitempty"`
}
