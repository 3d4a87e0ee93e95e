package dynamo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool fans a range [0, n) out over a bounded number of workers. Run
// returns only after every chunk has finished, which makes it the barrier
// between derivative stages.
type Pool struct {
	workers  int
	minChunk int
}

// NewPool creates a pool. workers <= 0 selects runtime.NumCPU().
func NewPool(workers, minChunk int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if minChunk < 1 {
		minChunk = 1
	}
	return &Pool{workers: workers, minChunk: minChunk}
}

func (p *Pool) Workers() int { return p.workers }

// Run calls fn over disjoint chunks covering [0, n).
func (p *Pool) Run(ctx context.Context, n int, fn func(lo, hi int) error) error {
	workers := p.workers
	if n/p.minChunk < workers {
		workers = n / p.minChunk
	}
	if workers <= 1 {
		return fn(0, n)
	}

	chunkSize := (n + workers - 1) / workers

	g, _ := errgroup.WithContext(ctx)
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		lo, hi := start, end
		g.Go(func() error {
			return fn(lo, hi)
		})
	}
	return g.Wait()
}
