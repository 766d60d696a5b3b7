package systems

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the number of particles handed to one worker at a time.
const DefaultChunkSize = 512

// parallelFor calls fn over [0, n) split into chunks of at most chunk
// elements, running up to workers chunks at once. fn must only touch
// elements in its own range. Small inputs run on the calling goroutine.
func parallelFor(n, chunk, workers int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if n <= chunk || workers == 1 {
		fn(0, n)
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
