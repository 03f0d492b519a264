package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
)

var ErrNoCandidates = errors.New("optim: grid has no points")

// Objective evaluates one parameter assignment and returns the run metrics.
type Objective func(ctx context.Context, params map[string]float64) (map[string]float64, error)

// GridSearch tries every combination of the given parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
}

// Search evaluates the whole grid and returns the point with the lowest
// metric value, or the highest when maximize is set. Trials come back in
// evaluation order.
func (g *GridSearch) Search(ctx context.Context, eval Objective, metricName string, maximize bool) (Trial, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return Trial{}, nil, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := Trial{Value: math.Inf(1)}
	if maximize {
		best.Value = math.Inf(-1)
	}
	var trials []Trial

	err := g.searchRecursive(ctx, 0, map[string]float64{}, func(params map[string]float64) error {
		m, err := eval(ctx, params)
		if err != nil {
			return err
		}
		val, ok := m[metricName]
		if !ok {
			return fmt.Errorf("optim: objective did not report %q", metricName)
		}
		trial := Trial{Params: maps.Clone(params), Value: val}
		trials = append(trials, trial)
		if (maximize && val > best.Value) || (!maximize && val < best.Value) {
			best = trial
		}
		return nil
	})
	if err != nil {
		return Trial{}, trials, err
	}
	if len(trials) == 0 {
		return Trial{}, nil, ErrNoCandidates
	}
	return best, trials, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return visit(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := maps.Clone(current)
		next[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, next, visit); err != nil {
			return err
		}
	}
	return nil
}
