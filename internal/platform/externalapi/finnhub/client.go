package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"wing_backend/internal/platform/externalapi/finnhub/dto"
	"wing_backend/internal/shared/apperr"
)

const (
	vendorName = "finnhub"
	dateLayout = "2006-01-02"
)

// Client は Finnhub API から推奨トレンドと企業ニュースを取得します。
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient は指定された設定とHTTPクライアントでClientを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// LatestRecommendation は最新期間の推奨トレンドを返します。
// 1件もない場合は apperr.ErrNoData です。
func (c *Client) LatestRecommendation(ctx context.Context, symbol string) (*dto.RecommendationTrend, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	var rows []dto.RecommendationTrend
	if err := c.get(ctx, "/stock/recommendation", q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: no recommendation for %s: %w", vendorName, symbol, apperr.ErrNoData)
	}
	// period は YYYY-MM-DD なので文字列比較で新しい順に並ぶ
	sort.Slice(rows, func(i, j int) bool { return rows[i].Period > rows[j].Period })
	return &rows[0], nil
}

// CompanyNews は [from, to] の企業ニュースを返します。
func (c *Client) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]dto.CompanyNews, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("from", from.Format(dateLayout))
	q.Set("to", to.Format(dateLayout))

	var rows []dto.CompanyNews
	if err := c.get(ctx, "/company-news", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Finnhub-Token", c.cfg.APIKey)

	res, err := c.client.Do(req)
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
