package sim

import (
	"context"
	"sync"
)

// Ensemble runs independent controllers that differ only in their seed.
// Each run gets its own goroutine and its own controller; nothing is shared
// between runs except the options.
type Ensemble struct {
	base      Options
	numRuns   int
	seedStart int64
	prepare   func(*Controller) error
}

func NewEnsemble(opts Options, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: opts, numRuns: numRuns, seedStart: seedStart}
}

// Prepare registers fn to configure each controller before its first tick.
func (e *Ensemble) Prepare(fn func(*Controller) error) {
	e.prepare = fn
}

// Run ticks every member n times and returns their final snapshots in seed
// order. observe, when not nil, is called after each tick from the run's
// own goroutine. The first member to fail cancels the others, and its error
// is the one returned.
func (e *Ensemble) Run(ctx context.Context, n int, observe func(run int, c *Controller) bool) ([]Snapshot, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]Snapshot, e.numRuns)

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			opts := e.base
			opts.Seed = e.seedStart + int64(idx)

			c, err := New(opts)
			if err != nil {
				fail(err)
				return
			}
			if e.prepare != nil {
				if err := e.prepare(c); err != nil {
					fail(err)
					return
				}
			}

			var callback func(*Controller) bool
			if observe != nil {
				callback = func(c *Controller) bool { return observe(idx, c) }
			}
			if err := c.RunTicks(ctx, n, callback); err != nil {
				fail(err)
				return
			}
			results[idx] = c.Snapshot()
		}(i)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
