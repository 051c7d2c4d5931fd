// Package parallel splits index ranges across CPU cores. The stats package
// uses it to compute pairwise column statistics on wide tables.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize splits [0, items) into per-core chunks and runs fn on each
// chunk concurrently, blocking until all chunks finish. fn must be safe to
// run concurrently on disjoint ranges.
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division so the last chunk picks up the remainder
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn sequentially over the whole range when
// items is at or below threshold, and parallelizes otherwise. Small inputs
// are not worth the goroutine overhead.
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
