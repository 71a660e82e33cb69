// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"
	"time"

	"wing_backend/internal/feature/symbolresolve/adapters/gemini"
	"wing_backend/internal/feature/symbolresolve/usecase"
	"wing_backend/internal/platform/externalapi/finnhub"
	"wing_backend/internal/platform/externalapi/kis"
	"wing_backend/internal/platform/externalapi/twelvedata"
	infrahttp "wing_backend/internal/platform/http"
	"wing_backend/internal/platform/metrics"
)

// NewTwelveData creates the Twelve Data client with a retrying, instrumented HTTP client.
// timeout overrides the vendor default when positive.
func NewTwelveData(timeout time.Duration, m *metrics.Metrics) *twelvedata.Client {
	cfg := twelvedata.LoadConfig()
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	return twelvedata.NewClient(cfg, infrahttp.NewVendorClient("twelvedata", cfg.Timeout, m))
}

// NewKIS creates the domestic (KIS) client.
func NewKIS(timeout time.Duration, m *metrics.Metrics) *kis.Client {
	cfg := kis.LoadConfig()
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	if cfg.AppKey == "" || cfg.AppSecret == "" {
		slog.Warn("KIS_APP_KEY or KIS_APP_SECRET is not set; domestic requests will fail")
	}
	return kis.NewClient(cfg, infrahttp.NewVendorClient("kis", cfg.Timeout, m))
}

// NewFinnhub creates the Finnhub client.
func NewFinnhub(timeout time.Duration, m *metrics.Metrics) *finnhub.Client {
	cfg := finnhub.LoadConfig()
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	return finnhub.NewClient(cfg, infrahttp.NewVendorClient("finnhub", cfg.Timeout, m))
}

// NewSymbolInferrer creates the Gemini-backed inferrer. It returns nil when the
// client cannot be created; symbol resolution then fails with ResolutionFailed.
func NewSymbolInferrer(ctx context.Context, model string) usecase.SymbolInferrer {
	inf, err := gemini.NewSymbolInferrer(ctx, model)
	if err != nil {
		slog.Warn("gemini unavailable, symbol resolution disabled", "error", err)
		return nil
	}
	return inf
}
