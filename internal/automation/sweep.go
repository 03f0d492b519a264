package automation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/spintop/internal/config"
	"github.com/san-kum/spintop/internal/metrics"
	"github.com/san-kum/spintop/internal/sim"
)

// ParameterSweep runs headless arenas across a range of one parameter
type ParameterSweep struct {
	Param    string
	Min, Max float64
	NumSteps int
}

// SweepResult holds the run metrics for one parameter value
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
}

// SweepParams lists the names RunSweep accepts.
var SweepParams = []string{"arena_radius", "friction", "velocity_decay", "restitution", "gravity_strength", "initial_speed", "initial_spin"}

func setParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "arena_radius":
		cfg.Arena.Radius = v
	case "friction":
		cfg.Physics.Friction = v
	case "velocity_decay":
		cfg.Physics.VelocityDecay = v
	case "restitution":
		cfg.Physics.Restitution = v
	case "gravity_strength":
		cfg.Physics.GravityStrength = v
	case "initial_speed":
		cfg.Physics.InitialSpeed = v
	case "initial_spin":
		cfg.Physics.InitialSpin = v
	default:
		return fmt.Errorf("automation: unknown sweep parameter %q", name)
	}
	return nil
}

// RunSweep executes a parameter sweep. Every step uses the same seed so only
// the swept parameter varies.
func RunSweep(ctx context.Context, base *config.Config, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("automation: sweep needs at least one step, got %d", sweep.NumSteps)
	}
	if err := setParam(config.DefaultConfig(), sweep.Param, 0); err != nil {
		return nil, err
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		val := sweep.Min + float64(i)*paramStep

		cfg := *base
		setParam(&cfg, sweep.Param, val)
		if err := cfg.Validate(); err != nil {
			return results, fmt.Errorf("sweep %s=%v: %w", sweep.Param, val, err)
		}

		res, err := runHeadless(ctx, &cfg)
		if err != nil {
			return results, err
		}

		results = append(results, SweepResult{ParamValue: val, Metrics: res.Metrics})
		slog.Debug("sweep_step", "step", i+1, "of", sweep.NumSteps, "param", sweep.Param, "value", val)
	}
	return results, nil
}

func runHeadless(ctx context.Context, cfg *config.Config) (*sim.Result, error) {
	s := sim.New(cfg.NewArena)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}
	return s.Run(ctx, sim.Config{
		Frames:      cfg.Run.Frames,
		Tops:        cfg.Run.Tops,
		SpawnRadius: cfg.Run.SpawnRadius,
		Seed:        cfg.Arena.Seed,
	})
}
