// Package parallel splits index ranges across goroutines for batch work
// such as row-wise ensemble prediction.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides items into contiguous chunks, one per worker, and calls
// fn(start, end) for each chunk concurrently. workers <= 0 means NumCPU.
// fn must only write to state owned by its own range.
func Parallelize(items, workers int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > items {
		workers = items
	}

	// ceiling division
	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) on the calling goroutine when
// items does not exceed threshold, and Parallelize otherwise.
func ParallelizeWithThreshold(items, threshold, workers int, fn func(start, end int)) {
	if items <= threshold || workers == 1 {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, workers, fn)
}
