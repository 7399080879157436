// Package procpool is the "run N tasks concurrently with pluggable
// callbacks" primitive spec.md §1 and §4.C describe: a bounded-
// concurrency runner that dispatches tasks in a strict order while
// letting them complete out of order.
package procpool

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Result is one task's outcome, tagged with its dispatch index so callers
// can fold results back into a deterministic aggregate (e.g. the
// bitwise-or of exit codes) even though goroutines finish unordered.
type Result struct {
	Index int
	Value any
	Err   error
}

// Run pulls tasks from next (called strictly in order, synchronously, by
// the calling goroutine) until it returns ok=false, running up to jobs of
// them concurrently via exec. It returns every task's Result; callers
// fold them into an aggregate themselves, matching spec.md §4.C's
// "pick_next is called strictly in list order; children may run
// concurrently and finish out of order" contract.
//
// ctx cancellation stops further dispatch but never aborts an in-flight
// exec call, per spec.md §5 ("in-flight tasks always complete").
func Run(ctx context.Context, jobs int, next func() (any, bool), exec func(context.Context, any) (any, error)) []Result {
	if jobs < 1 {
		jobs = 1
	}

	sem := semaphore.NewWeighted(int64(jobs))
	g, gctx := errgroup.WithContext(context.Background())

	var results []Result
	var mu sync.Mutex

	index := 0
	for {
		select {
		case <-ctx.Done():
			_ = g.Wait()
			return results
		default:
		}

		task, ok := next()
		if !ok {
			break
		}

		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}

		idx := index
		index++
		t := task
		g.Go(func() error {
			defer sem.Release(1)
			val, err := exec(gctx, t)

			mu.Lock()
			results = append(results, Result{Index: idx, Value: val, Err: err})
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return results
}
