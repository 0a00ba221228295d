package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Ensemble repeats a headless run over consecutive seeds in parallel.
type Ensemble struct {
	tuning    dynamo.Tuning
	numRuns   int
	seedStart int64
	metrics   func() []Metric
}

// NewEnsemble builds an ensemble of numRuns runs seeded from seedStart.
// newMetrics, when non-nil, supplies a fresh metric set for each run.
func NewEnsemble(t dynamo.Tuning, numRuns int, seedStart int64, newMetrics func() []Metric) *Ensemble {
	return &Ensemble{tuning: t, numRuns: numRuns, seedStart: seedStart, metrics: newMetrics}
}

// Seeds lists the seed of each run, counting up from seedStart. Zero is
// skipped since a zero seed samples from the clock.
func (e *Ensemble) Seeds() []int64 {
	seeds := make([]int64, 0, max(e.numRuns, 0))
	for s := e.seedStart; len(seeds) < e.numRuns; s++ {
		if s == 0 {
			continue
		}
		seeds = append(seeds, s)
	}
	return seeds
}

func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	seeds := e.Seeds()
	results := make([]*Result, len(seeds))

	g, ctx := errgroup.WithContext(ctx)
	for i, seed := range seeds {
		g.Go(func() error {
			cfgCopy := cfg
			cfgCopy.Seed = seed

			runner := NewRunner(e.tuning)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					runner.AddMetric(m)
				}
			}

			res, err := runner.Run(ctx, cfgCopy)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
