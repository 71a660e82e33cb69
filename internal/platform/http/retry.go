// Package http provides outbound HTTP clients for vendor APIs.
package http

import (
	"errors"
	"io"
	"net/http"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"

	"wing_backend/internal/platform/metrics"
)

// defaultMaxRetries は一時的な通信エラーに対する追加試行回数です。
const defaultMaxRetries = 2

// retryTransport は接続断などの一時的な通信エラーに限って再試行するRoundTripperです。
// HTTPステータス（4xx/5xx）はレスポンスとしてそのまま返し、再試行しません。
type retryTransport struct {
	base       http.RoundTripper
	vendor     string
	maxRetries uint64
	metrics    *metrics.Metrics
	newBackOff func() backoff.BackOff
}

func newRetryTransport(base http.RoundTripper, vendor string, m *metrics.Metrics) *retryTransport {
	return &retryTransport{
		base:       base,
		vendor:     vendor,
		maxRetries: defaultMaxRetries,
		metrics:    m,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = time.Second
			return b
		},
	}
}

// RoundTrip implements http.RoundTripper.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// ボディを再生成できないリクエストは1回だけ送信する
	replayable := req.Body == nil || req.Body == http.NoBody || req.GetBody != nil

	var (
		resp    *http.Response
		attempt int
	)
	op := func() error {
		r := req
		if attempt > 0 {
			t.metrics.IncRetry(t.vendor)
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return backoff.Permanent(err)
				}
				r = req.Clone(req.Context())
				r.Body = body
			}
		}
		attempt++

		start := time.Now()
		res, err := t.base.RoundTrip(r)
		if err != nil {
			t.metrics.ObserveVendor(t.vendor, "transport_error", time.Since(start))
			if replayable && isTransient(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		t.metrics.ObserveVendor(t.vendor, outcome(res.StatusCode), time.Since(start))
		resp = res
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(t.newBackOff(), t.maxRetries), req.Context())
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return resp, nil
}

// isTransient は再試行で回復しうる通信エラーかどうかを判定します。
// コンテキストのキャンセル・タイムアウトは対象外です。
func isTransient(err error) bool {
	switch {
	case errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF):
		return true
	default:
		return false
	}
}

func outcome(status int) string {
	switch {
	case status >= 500:
		return "http_5xx"
	case status >= 400:
		return "http_4xx"
	default:
		return "ok"
	}
}
