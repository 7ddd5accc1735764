package runner

import (
	"context"
	"sync"

	"digital.vasic.harness/pkg/scenario"
)

// parallelResult pairs a result with its original index so
// results can be returned in submission order.
type parallelResult struct {
	index  int
	result *scenario.Result
	err    error
}

// runParallel executes scenarios concurrently with a semaphore
// limiting maxConcurrency goroutines. Results are returned in
// the same order as the input scenarios.
func runParallel(
	ctx context.Context,
	r *DefaultRunner,
	runID string,
	scs []*scenario.Scenario,
	maxConcurrency int,
) ([]*scenario.Result, error) {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	sem := make(chan struct{}, maxConcurrency)
	resultsCh := make(chan parallelResult, len(scs))

	var wg sync.WaitGroup

	for i, sc := range scs {
		wg.Add(1)
		go func(idx int, sc *scenario.Scenario) {
			defer wg.Done()

			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				resultsCh <- parallelResult{
					index: idx,
					err:   ctx.Err(),
				}
				return
			}

			resultsCh <- parallelResult{
				index:  idx,
				result: r.runOne(ctx, runID, sc),
			}
		}(i, sc)
	}

	// Close channel after all goroutines complete.
	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	// Collect results in submission order.
	ordered := make([]*scenario.Result, len(scs))
	var firstErr error

	for pr := range resultsCh {
		if pr.err != nil && firstErr == nil {
			firstErr = pr.err
		}
		ordered[pr.index] = pr.result
	}

	// Filter out nil entries if context was cancelled.
	results := make([]*scenario.Result, 0, len(scs))
	for _, res := range ordered {
		if res != nil {
			results = append(results, res)
		}
	}

	return results, firstErr
}
