package util

import (
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ParallelFor runs fn(i) for every i in [0, n) on a pool of GOMAXPROCS
// workers. Indices are handed out in increasing order. Once fn(i) fails, no
// index above i is started, so the returned error is always the one of the
// lowest failing index, regardless of scheduling.
func ParallelFor(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}

	var (
		next     atomic.Int64
		lowest   atomic.Int64
		mu       sync.Mutex
		firstErr error
		firstIdx = n
	)
	lowest.Store(int64(n))

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				i := next.Add(1) - 1
				if i >= int64(n) || i > lowest.Load() {
					return nil
				}
				err := fn(int(i))
				if err == nil {
					continue
				}
				mu.Lock()
				if int(i) < firstIdx {
					firstIdx, firstErr = int(i), err
					lowest.Store(i)
				}
				mu.Unlock()
				return nil
			}
		})
	}
	// workers never return errors themselves, failures are collected above
	_ = g.Wait()
	return firstErr
}
