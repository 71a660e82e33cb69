// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// CheckFunc は依存先（DB・Redisなど）の疎通を確認する関数です。
type CheckFunc func(ctx context.Context) error

// HealthHandler は /healthz エンドポイントを処理します。
// 必須チェックが1つでも失敗した場合は 503 を返し、任意チェックの失敗は
// "degraded" として 200 で返します。
type HealthHandler struct {
	required map[string]CheckFunc
	optional map[string]CheckFunc
	timeout  time.Duration
}

// NewHealthHandler は HealthHandler を生成します。nil のマップは空として扱います。
func NewHealthHandler(required, optional map[string]CheckFunc) *HealthHandler {
	return &HealthHandler{required: required, optional: optional, timeout: 2 * time.Second}
}

// Health はHTTPメソッドに応じてレスポンスし、キャッシュを防止します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
		return
	case http.MethodHead:
		status, _ := h.evaluate(c.Request.Context())
		c.Status(status)
		return
	}

	status, body := h.evaluate(c.Request.Context())
	c.JSON(status, body)
}

func (h *HealthHandler) evaluate(parent context.Context) (int, gin.H) {
	ctx, cancel := context.WithTimeout(parent, h.timeout)
	defer cancel()

	checks := gin.H{}
	status, state := http.StatusOK, "ok"

	for _, name := range sortedKeys(h.required) {
		if err := h.required[name](ctx); err != nil {
			checks[name] = err.Error()
			status, state = http.StatusServiceUnavailable, "unavailable"
			continue
		}
		checks[name] = "ok"
	}
	for _, name := range sortedKeys(h.optional) {
		if err := h.optional[name](ctx); err != nil {
			checks[name] = err.Error()
			if state == "ok" {
				state = "degraded"
			}
			continue
		}
		checks[name] = "ok"
	}

	body := gin.H{"status": state}
	if len(checks) > 0 {
		body["checks"] = checks
	}
	return status, body
}

func sortedKeys(m map[string]CheckFunc) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
