package sim

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// Ensemble runs independent simulators concurrently. Each simulator must
// own its field.
type Ensemble struct {
	workers int
	sims    []*Simulator
	configs []Config
}

// NewEnsemble returns an ensemble running at most workers simulators at
// once; workers <= 0 means GOMAXPROCS.
func NewEnsemble(workers int) *Ensemble {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Ensemble{workers: workers}
}

func (e *Ensemble) Add(s *Simulator, cfg Config) {
	e.sims = append(e.sims, s)
	e.configs = append(e.configs, cfg)
}

func (e *Ensemble) Len() int { return len(e.sims) }

// Run waits for every member and returns the results in insertion order.
// The error is the first failure by index; results of other members are
// still returned.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(e.sims))
	errs := make([]error, len(e.sims))

	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup
	for i := range e.sims {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx], errs[idx] = e.sims[idx].Run(ctx, e.configs[idx])
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return results, fmt.Errorf("member %d: %w", i, err)
		}
	}

	return results, nil
}
