package dto

// TokenRequest is the body of POST /oauth2/tokenP.
type TokenRequest struct {
	GrantType string `json:"grant_type"`
	AppKey    string `json:"appkey"`
	AppSecret string `json:"appsecret"`
}

// TokenResponse is the answer of POST /oauth2/tokenP.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	// Error fields are set instead of the token on failure.
	ErrorCode        string `json:"error_code,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// Envelope carries the result code shared by every quotation endpoint.
type Envelope struct {
	RtCd  string `json:"rt_cd"`
	MsgCd string `json:"msg_cd"`
	Msg1  string `json:"msg1"`
}

// DailyChartResponse is the answer of inquire-daily-itemchartprice (FHKST03010100).
type DailyChartResponse struct {
	Envelope
	Output2 []DailyChartRow `json:"output2"`
}

// DailyChartRow is one daily bar. All numbers are decimal strings.
type DailyChartRow struct {
	Date   string `json:"stck_bsop_date"`
	Open   string `json:"stck_oprc"`
	High   string `json:"stck_hgpr"`
	Low    string `json:"stck_lwpr"`
	Close  string `json:"stck_clpr"`
	Volume string `json:"acml_vol"`
}

// InvestOpinionResponse is the answer of invest-opinion (FHKST663300C0).
type InvestOpinionResponse struct {
	Envelope
	Output []InvestOpinionRow `json:"output"`
}

// InvestOpinionRow is one analyst opinion.
type InvestOpinionRow struct {
	Date        string `json:"stck_bsop_date"`
	Opinion     string `json:"invt_opnn"`
	OpinionCode string `json:"invt_opnn_cls_code"`
	Firm        string `json:"mbcr_name"`
	TargetPrice string `json:"hts_goal_prc"`
}

// Quotation is a quotation answer with an embedded Envelope. Reset clears
// the value so that a retried request never sees fields of an earlier body.
type Quotation interface {
	Head() *Envelope
	Reset()
}

func (r *DailyChartResponse) Head() *Envelope { return &r.Envelope }
func (r *DailyChartResponse) Reset()          { *r = DailyChartResponse{} }

func (r *InvestOpinionResponse) Head() *Envelope { return &r.Envelope }
func (r *InvestOpinionResponse) Reset()          { *r = InvestOpinionResponse{} }
