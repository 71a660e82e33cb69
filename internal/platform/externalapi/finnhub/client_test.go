package finnhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wing_backend/internal/shared/apperr"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: server.URL}, server.Client())
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClient_LatestRecommendation(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/recommendation", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.Header.Get("X-Finnhub-Token"))
		writeJSON(w, http.StatusOK, `[
			{"buy":20,"hold":8,"sell":1,"strongBuy":10,"strongSell":0,"period":"2024-04-01","symbol":"AAPL"},
			{"buy":22,"hold":7,"sell":0,"strongBuy":12,"strongSell":1,"period":"2024-05-01","symbol":"AAPL"}
		]`)
	})

	got, err := c.LatestRecommendation(context.Background(), "AAPL")

	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", got.Period)
	assert.Equal(t, 22, got.Buy)
	assert.Equal(t, 1, got.StrongSell)
}

func TestClient_LatestRecommendation_Empty(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[]`)
	})

	_, err := c.LatestRecommendation(context.Background(), "ZZZZ")

	assert.ErrorIs(t, err, apperr.ErrNoData)
}

func TestClient_CompanyNews(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/company-news", r.URL.Path)
		assert.Equal(t, "2024-05-01", q.Get("from"))
		assert.Equal(t, "2024-05-07", q.Get("to"))
		writeJSON(w, http.StatusOK, `[{"category":"company","datetime":1714550400,"headline":"Apple earnings","id":7,"related":"AAPL","source":"Reuters","summary":"s","url":"https://x/7"}]`)
	})

	got, err := c.CompanyNews(context.Background(), "AAPL",
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Apple earnings", got[0].Headline)
	assert.Equal(t, int64(1714550400), got[0].Datetime)
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, `{"error":"API limit reached"}`)
	})

	_, err := c.CompanyNews(context.Background(), "AAPL", time.Now(), time.Now())

	var upstream *apperr.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusTooManyRequests, upstream.Status)
	assert.ErrorIs(t, err, apperr.ErrUpstream)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("FINNHUB_API_KEY", "k")
	t.Setenv("FINNHUB_BASE_URL", "http://localhost:1234")

	cfg := LoadConfig()

	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, "http://localhost:1234", cfg.BaseURL)
}
