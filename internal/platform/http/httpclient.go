package http

import (
	"net"
	"net/http"
	"time"

	"wing_backend/internal/platform/metrics"
)

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト（デフォルトより短い）
//   - MaxIdleConns / MaxIdleConnsPerHost: 同一ベンダーへの並列フェッチで接続を再利用するため
//   - TLSHandshakeTimeout: HTTPSハンドシェイクの最大時間
//   - Client.Timeout: リクエスト全体のタイムアウト（リトライを含む）
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にカスタムクライアントを使用すること
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout, Transport: newBaseTransport()}
}

// NewVendorClient はNewHTTPClientと同じ接続設定に、一時的な通信エラーのリトライと
// ベンダー単位のメトリクス記録を加えたHTTPクライアントを作成します。
// m が nil の場合はメトリクスを記録しません。
func NewVendorClient(vendor string, timeout time.Duration, m *metrics.Metrics) *http.Client {
	c := NewHTTPClient(timeout)
	c.Transport = newRetryTransport(c.Transport, vendor, m)
	return c
}

func newBaseTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   3 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 3 * time.Second,
	}
}
