package automation

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/san-kum/spintop/internal/config"
	"github.com/san-kum/spintop/internal/optim"
)

// Objective adapts headless arena runs to optim.GridSearch. Each evaluation
// copies base, applies the grid point and runs it with the default metrics.
func Objective(base *config.Config) optim.Objective {
	return func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		cfg := *base
		for name, v := range params {
			if err := setParam(&cfg, name, v); err != nil {
				return nil, err
			}
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("grid %v: %w", params, err)
		}
		res, err := runHeadless(ctx, &cfg)
		if err != nil {
			return nil, err
		}
		slog.Debug("grid_point", "params", params, "steps", res.StepsTaken)
		return res.Metrics, nil
	}
}

// ParseGrid reads "name=v1,v2,..." specs into the parallel slices
// optim.NewGridSearch takes.
func ParseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("automation: grid spec %q is not name=v1,v2", spec)
		}
		if err := setParam(config.DefaultConfig(), name, 0); err != nil {
			return nil, nil, err
		}
		var vals []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("automation: grid %s: %w", name, err)
			}
			vals = append(vals, v)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}
