// Package fanout runs bounded-concurrency batches with per-item failure isolation.
package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultLimit is the concurrency cap used when Map is given a non-positive limit.
const DefaultLimit = 12

// Result is the outcome of one item. Exactly one of Value or Err is meaningful.
type Result[T any] struct {
	Value T
	Err   error
}

// Map calls fn for every item with at most limit calls in flight and returns
// one Result per item, in input order. An item's error never cancels the
// others; a cancelled ctx marks the items that had not started yet.
func Map[In, Out any](ctx context.Context, items []In, limit int, fn func(context.Context, In) (Out, error)) []Result[Out] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	results := make([]Result[Out], len(items))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			v, err := fn(ctx, item)
			results[i] = Result[Out]{Value: v, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Successes returns the values of the successful results, dropping failures.
func Successes[T any](results []Result[T]) []T {
	out := make([]T, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			out = append(out, r.Value)
		}
	}
	return out
}
