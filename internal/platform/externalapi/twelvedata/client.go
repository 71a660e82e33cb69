package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"wing_backend/internal/feature/candles/domain/entity"
	"wing_backend/internal/platform/externalapi/twelvedata/dto"
	"wing_backend/internal/shared/apperr"
)

const (
	vendorName = "twelvedata"
	dateLayout = "2006-01-02"
	timeLayout = "2006-01-02 15:04:05"
	interval1d = "1day"
)

// Client はTwelve Data外部APIから株価データと指標値を取得します。
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// GetTimeSeries はTwelve Data APIから時系列株価データを取得します。
// 返却順はベンダーのまま（新しい順）です。
func (t *Client) GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Candle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("outputsize", strconv.Itoa(outputsize))
	return t.timeSeries(ctx, symbol, interval, q)
}

// GetDailyCandles は [from, to] の日足を取得し、日付昇順・重複なしで返します。
func (t *Client) GetDailyCandles(ctx context.Context, symbol string, from, to time.Time) ([]entity.Candle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval1d)
	q.Set("start_date", from.Format(dateLayout))
	q.Set("end_date", to.Format(dateLayout))
	q.Set("order", "ASC")
	q.Set("outputsize", "5000")

	cs, err := t.timeSeries(ctx, symbol, interval1d, q)
	if err != nil {
		return nil, err
	}
	return entity.Normalize(cs), nil
}

func (t *Client) timeSeries(ctx context.Context, symbol, interval string, q url.Values) ([]entity.Candle, error) {
	var body dto.TimeSeriesResponse
	if err := t.get(ctx, "/time_series", q, &body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		return nil, vendorError(body.Code, body.Message)
	}

	candles := make([]entity.Candle, 0, len(body.Values))
	for _, v := range body.Values {
		c, err := parseCandle(v)
		if err != nil {
			return nil, err
		}
		c.Symbol = symbol
		c.Interval = interval
		candles = append(candles, c)
	}
	return candles, nil
}

// get は path にGETリクエストを送り、JSONレスポンスを dst にデコードします。
func (t *Client) get(ctx context.Context, path string, q url.Values, dst any) error {
	q.Set("apikey", t.cfg.TwelveDataAPIKey)
	u := fmt.Sprintf("%s%s?%s", t.cfg.BaseURL, path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	res, err := t.client.Do(req)
	if err != nil {
		return &apperr.UpstreamError{Vendor: vendorName, Message: err.Error()}
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return &apperr.UpstreamError{Vendor: vendorName, Status: res.StatusCode, Message: http.StatusText(res.StatusCode)}
	}

	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// vendorError はHTTP 200で返されるエラーボディを分類します。
// 銘柄が見つからない場合（code 400/404）は ErrNoData として扱います。
func vendorError(code int, msg string) error {
	if code == http.StatusNotFound || code == http.StatusBadRequest {
		return fmt.Errorf("%s: %s: %w", vendorName, msg, apperr.ErrNoData)
	}
	return &apperr.UpstreamError{Vendor: vendorName, Status: code, Message: msg}
}

func parseDatetime(s string) (time.Time, error) {
	tm, err := time.Parse(timeLayout, s)
	if err != nil {
		tm, err = time.Parse(dateLayout, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
		}
	}
	return tm, nil
}

func parseCandle(v dto.TimeSeriesValue) (entity.Candle, error) {
	tm, err := parseDatetime(v.Datetime)
	if err != nil {
		return entity.Candle{}, err
	}
	o, err := strconv.ParseFloat(v.Open, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse open %q: %w", v.Open, err)
	}
	h, err := strconv.ParseFloat(v.High, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse high %q: %w", v.High, err)
	}
	l, err := strconv.ParseFloat(v.Low, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse low %q: %w", v.Low, err)
	}
	c, err := strconv.ParseFloat(v.Close, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse close %q: %w", v.Close, err)
	}
	// 指数などでは出来高が空で返る
	var vol int64
	if v.Volume != "" {
		vol, err = strconv.ParseInt(v.Volume, 10, 64)
		if err != nil {
			return entity.Candle{}, fmt.Errorf("parse volume %q: %w", v.Volume, err)
		}
	}
	return entity.Candle{Time: tm, Open: o, High: h, Low: l, Close: c, Volume: vol}, nil
}
