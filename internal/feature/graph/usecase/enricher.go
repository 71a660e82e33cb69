package usecase

import (
	"context"
	"log/slog"
	"strings"

	"wing_backend/internal/platform/fanout"
)

// BodyCache は記事リンクをキーに本文をキャッシュします。
type BodyCache interface {
	GetBodies(ctx context.Context, links []string) (map[string]string, error)
	SetBody(ctx context.Context, link, body string) error
}

// BodyFetcher は記事リンク先から本文テキストを取得します。
type BodyFetcher interface {
	FetchBody(ctx context.Context, link string) (string, error)
}

// EnrichRecorder は補完結果の件数を記録します。
type EnrichRecorder interface {
	AddEnrich(result string, n int)
}

// Enricher はキャッシュ参照と並列取得の2段階で記事本文を補完します。
type Enricher struct {
	cache   BodyCache
	fetcher BodyFetcher
	limit   int
	metrics EnrichRecorder
}

// NewEnricher は Enricher を生成します。limit が0以下の場合は fanout.DefaultLimit を使用します。
func NewEnricher(cache BodyCache, fetcher BodyFetcher, limit int, metrics EnrichRecorder) *Enricher {
	return &Enricher{cache: cache, fetcher: fetcher, limit: limit, metrics: metrics}
}

type fetched struct {
	link string
	body string
}

// Bodies はリンクごとの本文を返します。取得に失敗したリンクは結果に含まれません。
func (e *Enricher) Bodies(ctx context.Context, links []string) map[string]string {
	out := make(map[string]string, len(links))

	// phase 1: キャッシュヒットとミスに分ける
	misses := links
	if e.cache != nil {
		hits, err := e.cache.GetBodies(ctx, links)
		if err != nil {
			slog.Warn("article body cache lookup failed", "error", err)
			hits = nil
		}
		misses = make([]string, 0, len(links))
		for _, l := range links {
			if b, ok := hits[l]; ok {
				out[l] = b
				continue
			}
			misses = append(misses, l)
		}
	}
	e.record("cache_hit", len(out))

	if len(misses) == 0 || e.fetcher == nil {
		return out
	}

	// phase 2: ミスのみ上限付きで並列取得し、失敗は個別に捨てる
	results := fanout.Map(ctx, misses, e.limit, func(ctx context.Context, link string) (fetched, error) {
		body, err := e.fetcher.FetchBody(ctx, link)
		if err != nil {
			return fetched{}, err
		}
		return fetched{link: link, body: body}, nil
	})

	for i, r := range results {
		if r.Err != nil {
			slog.Debug("article body fetch failed", "link", misses[i], "error", r.Err)
		}
	}
	successes := fanout.Successes(results)
	failed := len(results) - len(successes)
	for _, f := range successes {
		if strings.TrimSpace(f.body) == "" {
			failed++
			continue
		}
		out[f.link] = f.body
		if e.cache != nil {
			if err := e.cache.SetBody(ctx, f.link, f.body); err != nil {
				slog.Warn("failed to cache article body", "link", f.link, "error", err)
			}
		}
	}
	e.record("fetched", len(misses)-failed)
	e.record("failed", failed)
	if failed > 0 {
		slog.Info("article enrichment finished with failures", "requested", len(links), "failed", failed)
	}
	return out
}

func (e *Enricher) record(result string, n int) {
	if e.metrics != nil {
		e.metrics.AddEnrich(result, n)
	}
}
