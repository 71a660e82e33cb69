package kis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wing_backend/internal/feature/candles/domain/entity"
	"wing_backend/internal/platform/externalapi/kis/dto"
	"wing_backend/internal/platform/oauth"
	"wing_backend/internal/shared/apperr"
)

const (
	vendorName = "kis"
	dateLayout = "20060102"

	pathToken         = "/oauth2/tokenP"
	pathDailyChart    = "/uapi/domestic-stock/v1/quotations/inquire-daily-itemchartprice"
	pathInvestOpinion = "/uapi/domestic-stock/v1/quotations/invest-opinion"

	trDailyChart    = "FHKST03010100"
	trInvestOpinion = "FHKST663300C0"

	// maxRowsPerCall is the page size of the daily chart endpoint.
	maxRowsPerCall = 100
	// codeTokenExpired is returned when the access token is no longer accepted.
	codeTokenExpired = "EGW00123"
)

var errTokenExpired = errors.New("access token expired")

// Opinion is one analyst opinion. Code is the opinion class (1=sell, 2=buy, 3=hold).
type Opinion struct {
	Date  time.Time
	Code  int
	Label string
	Firm  string
}

// Client calls the KIS quotation API with a cached OAuth access token.
type Client struct {
	cfg    Config
	client *http.Client
	tokens *oauth.TokenCache
	now    func() time.Time
}

// NewClient creates a client. The access token is fetched lazily and
// refreshed oauth.DefaultRefreshMargin before it expires.
func NewClient(cfg Config, client *http.Client) *Client {
	c := &Client{cfg: cfg, client: client, now: time.Now}
	c.tokens = oauth.NewTokenCache(c.fetchToken, oauth.DefaultRefreshMargin)
	return c
}

func (c *Client) fetchToken(ctx context.Context) (oauth.Token, error) {
	body, err := json.Marshal(dto.TokenRequest{
		GrantType: "client_credentials",
		AppKey:    c.cfg.AppKey,
		AppSecret: c.cfg.AppSecret,
	})
	if err != nil {
		return oauth.Token{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+pathToken, bytes.NewReader(body))
	if err != nil {
		return oauth.Token{}, err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	var tr dto.TokenResponse
	if err := c.do(req, &tr, nil); err != nil {
		return oauth.Token{}, err
	}
	if tr.AccessToken == "" {
		return oauth.Token{}, &apperr.UpstreamError{Vendor: vendorName, Message: "token: " + tr.ErrorDescription}
	}
	return oauth.Token{
		Value:     tr.AccessToken,
		ExpiresAt: c.now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}

// GetDailyCandles returns the daily bars of code within [from, to], oldest first.
// Ranges longer than one page are fetched backwards page by page.
func (c *Client) GetDailyCandles(ctx context.Context, code string, from, to time.Time) ([]entity.Candle, error) {
	start := entity.Date(from)
	end := entity.Date(to)

	var all []entity.Candle
	for !end.Before(start) {
		q := url.Values{}
		q.Set("FID_COND_MRKT_DIV_CODE", "J")
		q.Set("FID_INPUT_ISCD", code)
		q.Set("FID_INPUT_DATE_1", start.Format(dateLayout))
		q.Set("FID_INPUT_DATE_2", end.Format(dateLayout))
		q.Set("FID_PERIOD_DIV_CODE", "D")
		q.Set("FID_ORG_ADJ_PRC", "0")

		var body dto.DailyChartResponse
		if err := c.quote(ctx, pathDailyChart, trDailyChart, q, &body); err != nil {
			return nil, err
		}

		page := make([]entity.Candle, 0, len(body.Output2))
		for _, row := range body.Output2 {
			// 休場日などは空行で返る
			if row.Date == "" {
				continue
			}
			cd, err := parseRow(row)
			if err != nil {
				return nil, err
			}
			cd.Symbol = code
			cd.Interval = "1day"
			page = append(page, cd)
		}
		all = append(all, page...)
		if len(body.Output2) < maxRowsPerCall || len(page) == 0 {
			break
		}
		oldest := page[0].Time
		for _, cd := range page {
			if cd.Time.Before(oldest) {
				oldest = cd.Time
			}
		}
		end = oldest.AddDate(0, 0, -1)
	}
	return entity.Normalize(all), nil
}

// GetOpinions returns the analyst opinions on code published within [from, to].
func (c *Client) GetOpinions(ctx context.Context, code string, from, to time.Time) ([]Opinion, error) {
	q := url.Values{}
	q.Set("FID_COND_MRKT_DIV_CODE", "J")
	q.Set("FID_COND_SCR_DIV_CODE", "16633")
	q.Set("FID_INPUT_ISCD", code)
	q.Set("FID_INPUT_DATE_1", from.Format(dateLayout))
	q.Set("FID_INPUT_DATE_2", to.Format(dateLayout))

	var body dto.InvestOpinionResponse
	if err := c.quote(ctx, pathInvestOpinion, trInvestOpinion, q, &body); err != nil {
		return nil, err
	}

	out := make([]Opinion, 0, len(body.Output))
	for _, row := range body.Output {
		d, err := time.Parse(dateLayout, row.Date)
		if err != nil {
			return nil, fmt.Errorf("parse opinion date %q: %w", row.Date, err)
		}
		code, err := strconv.Atoi(strings.TrimSpace(row.OpinionCode))
		if err != nil {
			slog.Debug("skipping opinion without class code", "code", row.OpinionCode, "firm", row.Firm)
			continue
		}
		out = append(out, Opinion{Date: d, Code: code, Label: row.Opinion, Firm: row.Firm})
	}
	return out, nil
}

// quote performs an authenticated GET. An expired token is refreshed once.
func (c *Client) quote(ctx context.Context, path, trID string, q url.Values, dst dto.Quotation) error {
	err := c.quoteOnce(ctx, path, trID, q, dst)
	if errors.Is(err, errTokenExpired) {
		c.tokens.Invalidate()
		err = c.quoteOnce(ctx, path, trID, q, dst)
	}
	return err
}

// quoteOnce は dst を初期化してから1回だけ照会します。
func (c *Client) quoteOnce(ctx context.Context, path, trID string, q url.Values, dst dto.Quotation) error {
	dst.Reset()
	env := dst.Head()

	token, err := c.tokens.Get(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("authorization", "Bearer "+token)
	req.Header.Set("appkey", c.cfg.AppKey)
	req.Header.Set("appsecret", c.cfg.AppSecret)
	req.Header.Set("tr_id", trID)
	req.Header.Set("custtype", "P")

	if err := c.do(req, dst, env); err != nil {
		return err
	}
	if env.MsgCd == codeTokenExpired {
		return errTokenExpired
	}
	if env.RtCd != "0" {
		return &apperr.UpstreamError{Vendor: vendorName, Message: fmt.Sprintf("%s %s", env.MsgCd, env.Msg1)}
	}
	return nil
}

// do sends req and decodes a JSON body into dst. env, when non-nil, is the
// envelope embedded in dst.
func (c *Client) do(req *http.Request, dst any, env *dto.Envelope) error {
	res, err := c.client.Do(req)
	if err != nil {
		return &apperr.UpstreamError{Vendor: vendorName, Message: err.Error()}
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	// KISは期限切れトークンを500で返すことがあるため、ボディを先に確認する
	decodeErr := json.NewDecoder(res.Body).Decode(dst)
	if res.StatusCode >= 400 {
		if decodeErr == nil && env != nil && env.MsgCd == codeTokenExpired {
			return errTokenExpired
		}
		return &apperr.UpstreamError{Vendor: vendorName, Status: res.StatusCode, Message: http.StatusText(res.StatusCode)}
	}
	if decodeErr != nil {
		return &apperr.UpstreamError{Vendor: vendorName, Status: res.StatusCode, Message: fmt.Sprintf("decode %s: %v", req.URL.Path, decodeErr)}
	}
	return nil
}

func parseRow(row dto.DailyChartRow) (entity.Candle, error) {
	d, err := time.Parse(dateLayout, row.Date)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse date %q: %w", row.Date, err)
	}
	o, err := strconv.ParseFloat(row.Open, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse open %q: %w", row.Open, err)
	}
	h, err := strconv.ParseFloat(row.High, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse high %q: %w", row.High, err)
	}
	l, err := strconv.ParseFloat(row.Low, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse low %q: %w", row.Low, err)
	}
	cl, err := strconv.ParseFloat(row.Close, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse close %q: %w", row.Close, err)
	}
	var vol int64
	if row.Volume != "" {
		vol, err = strconv.ParseInt(row.Volume, 10, 64)
		if err != nil {
			return entity.Candle{}, fmt.Errorf("parse volume %q: %w", row.Volume, err)
		}
	}
	return entity.Candle{Time: d, Open: o, High: h, Low: l, Close: cl, Volume: vol}, nil
}
