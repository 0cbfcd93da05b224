// Package worker provides bounded concurrent execution for per-item
// pipeline work and per-domain rate limiting for outbound fetches.
package worker

import (
	"context"
	"sync"
)

// Map runs fn once per index in [0, n) using at most workers goroutines.
// Each invocation receives its original index, so callers collect results
// into index-keyed slices and keep deterministic ordering after parallel
// completion. A failure or cancellation inside one invocation never cancels
// its siblings; fn observes ctx and decides for itself.
func Map(ctx context.Context, n, workers int, fn func(ctx context.Context, i int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			// Checked first so an already-cancelled context always skips,
			// regardless of semaphore availability
			if ctx.Err() != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			fn(ctx, idx)
		}(i)
	}

	wg.Wait()
}

// Collect runs produce once per index with bounded workers and returns the
// results in index order. Indices whose produce call returned ok=false are
// skipped in the output, preserving the relative order of the rest.
func Collect[T any](ctx context.Context, n, workers int, produce func(ctx context.Context, i int) (T, bool)) []T {
	type slot struct {
		val T
		ok  bool
	}
	slots := make([]slot, n)

	Map(ctx, n, workers, func(ctx context.Context, i int) {
		v, ok := produce(ctx, i)
		slots[i] = slot{val: v, ok: ok}
	})

	out := make([]T, 0, n)
	for _, s := range slots {
		if s.ok {
			out = append(out, s.val)
		}
	}
	return out
}
