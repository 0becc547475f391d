package analysis

import (
	"runtime"
	"sync"
)

// minChunk is the smallest number of samples worth a goroutine.
const minChunk = 256

// ParallelFor executes fn over [0, n) split into contiguous chunks, one per worker.
func ParallelFor(n, chunk int, fn func(start, end int)) {
	workers := runtime.GOMAXPROCS(0)
	if chunk < 1 {
		chunk = 1
	}
	if n <= chunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/chunk < workers {
		workers = n / chunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
