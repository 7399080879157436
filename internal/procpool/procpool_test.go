package procpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunDispatchesAllTasksInOrder(t *testing.T) {
	const n = 20
	var dispatched []int
	i := 0
	next := func() (any, bool) {
		if i >= n {
			return nil, false
		}
		dispatched = append(dispatched, i)
		i++
		return i - 1, true
	}

	var seen int64
	exec := func(ctx context.Context, task any) (any, error) {
		atomic.AddInt64(&seen, 1)
		return task, nil
	}

	results := Run(context.Background(), 4, next, exec)
	require.Len(t, results, n)
	require.EqualValues(t, n, seen)
	for idx := 0; idx < n; idx++ {
		require.Equal(t, idx, dispatched[idx])
	}
}

func TestRunRespectsJobsBound(t *testing.T) {
	const jobs = 3
	var inFlight int64
	var maxObserved int64
	i := 0
	next := func() (any, bool) {
		if i >= 10 {
			return nil, false
		}
		i++
		return i, true
	}
	exec := func(ctx context.Context, task any) (any, error) {
		cur := atomic.AddInt64(&inFlight, 1)
		for {
			max := atomic.LoadInt64(&maxObserved)
			if cur <= max || atomic.CompareAndSwapInt64(&maxObserved, max, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return nil, nil
	}

	Run(context.Background(), jobs, next, exec)
	require.LessOrEqual(t, atomic.LoadInt64(&maxObserved), int64(jobs))
}

func TestRunStopsDispatchOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	next := func() (any, bool) {
		called = true
		return nil, true
	}
	exec := func(ctx context.Context, task any) (any, error) {
		return nil, nil
	}

	results := Run(ctx, 2, next, exec)
	require.Empty(t, results)
	_ = called
}

func TestRunPropagatesTaskErrors(t *testing.T) {
	i := 0
	next := func() (any, bool) {
		if i >= 3 {
			return nil, false
		}
		i++
		return i, true
	}
	exec := func(ctx context.Context, task any) (any, error) {
		if task.(int) == 2 {
			return nil, errBoom
		}
		return task, nil
	}

	results := Run(context.Background(), 1, next, exec)
	require.Len(t, results, 3)
	var failures int
	for _, r := range results {
		if r.Err != nil {
			failures++
		}
	}
	require.Equal(t, 1, failures)
}

var errBoom = fakeErr("boom")

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
