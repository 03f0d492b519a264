package sim

import (
	"context"
	"errors"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Ensemble runs independent arenas with consecutive seeds, one goroutine per
// run. Arenas share nothing, so this is the only safe parallelism.
type Ensemble struct {
	factory    Factory
	newMetrics func() []Metric
	numRuns    int
	seedStart  int64
}

// NewEnsemble takes a metrics constructor rather than instances because
// metrics are stateful and each run needs its own.
func NewEnsemble(factory Factory, newMetrics func() []Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, newMetrics: newMetrics, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)
			cfgCopy.FPS = 0

			s := New(e.factory)
			if e.newMetrics != nil {
				for _, m := range e.newMetrics() {
					s.AddMetric(m)
				}
			}
			results[idx], errs[idx] = s.Run(ctx, cfgCopy)
		}(i)
	}

	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

// Summary is the mean and standard deviation of a metric across runs.
type Summary struct {
	Name string
	Mean float64
	Std  float64
	N    int
}

// Summarize aggregates every metric present in the first result.
func Summarize(results []*Result) []Summary {
	if len(results) == 0 {
		return nil
	}
	var out []Summary
	for _, name := range sortedKeys(results[0].Metrics) {
		vals := make([]float64, 0, len(results))
		for _, r := range results {
			if v, ok := r.Metrics[name]; ok {
				vals = append(vals, v)
			}
		}
		mean, std := stat.MeanStdDev(vals, nil)
		if len(vals) < 2 {
			std = 0
		}
		out = append(out, Summary{Name: name, Mean: mean, Std: std, N: len(vals)})
	}
	return out
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
