package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/spintop/internal/arena"
	"github.com/san-kum/spintop/internal/config"
	"github.com/san-kum/spintop/internal/metrics"
	"github.com/san-kum/spintop/internal/sim"
	"github.com/san-kum/spintop/internal/telemetry"
)

// Scenario defines a scripted spawn sequence
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Seed        int64   `yaml:"seed"`
	Frames      int     `yaml:"frames"`
	Spawns      []Spawn `yaml:"spawns"`
}

// Spawn places Count tops at a frame. X and Y are normalized against the
// arena radius with the origin at the center. With Count > 1 the tops sit
// evenly on a ring of normalized radius Ring around (X, Y).
type Spawn struct {
	Frame int     `yaml:"frame"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Count int     `yaml:"count"`
	Ring  float64 `yaml:"ring"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("automation: parse scenario: %w", err)
	}
	for i, sp := range sc.Spawns {
		if sp.Frame < 0 {
			return nil, fmt.Errorf("automation: spawn %d: negative frame %d", i, sp.Frame)
		}
		if sp.Count < 0 {
			return nil, fmt.Errorf("automation: spawn %d: negative count %d", i, sp.Count)
		}
	}
	return &sc, nil
}

// LastFrame is the latest frame any spawn is scheduled for.
func (s *Scenario) LastFrame() int {
	last := 0
	for _, sp := range s.Spawns {
		last = max(last, sp.Frame)
	}
	return last
}

// Script binds a scenario to arena geometry. It implements sim.Director.
type Script struct {
	byFrame map[int][]arena.Point
	last    int
}

func (s *Scenario) Script(center arena.Point, radius float64) *Script {
	sc := &Script{byFrame: make(map[int][]arena.Point), last: -1}
	for _, sp := range s.Spawns {
		n := max(sp.Count, 1)
		for k := 0; k < n; k++ {
			x, y := sp.X, sp.Y
			if n > 1 {
				th := 2 * math.Pi * float64(k) / float64(n)
				x += sp.Ring * math.Cos(th)
				y += sp.Ring * math.Sin(th)
			}
			sc.byFrame[sp.Frame] = append(sc.byFrame[sp.Frame], arena.Point{
				X: center.X + x*radius,
				Y: center.Y + y*radius,
			})
		}
		sc.last = max(sc.last, sp.Frame)
	}
	return sc
}

func (s *Script) Direct(frame int) []arena.Point { return s.byFrame[frame] }

// Pending reports whether spawns remain at or after frame.
func (s *Script) Pending(frame int) bool { return frame <= s.last }

// RunScenario plays a scenario in an arena built from cfg. The scenario seed
// and frame count override cfg when set; cfg's initial population is not used.
func RunScenario(ctx context.Context, sc *Scenario, cfg *config.Config, exporter *telemetry.Exporter, observers ...sim.Observer) (*sim.Result, error) {
	seed := cfg.Arena.Seed
	if sc.Seed != 0 {
		seed = sc.Seed
	}
	frames := cfg.Run.Frames
	if sc.Frames > 0 {
		frames = sc.Frames
	}
	if frames <= sc.LastFrame() {
		frames = sc.LastFrame() + 1
	}

	a := cfg.NewArena(arena.NewRand(seed))
	s := sim.New(cfg.NewArena)
	s.SetDirector(sc.Script(a.Center(), a.Radius()))
	if exporter != nil {
		s.SetExporter(exporter)
	}
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}
	for _, o := range observers {
		s.AddObserver(o)
	}

	slog.Info("scenario_start", "name", sc.Name, "spawns", len(sc.Spawns), "frames", frames, "seed", seed)
	result, err := s.RunArena(ctx, a, sim.Config{Frames: frames, StopEmpty: true})
	if err != nil {
		return result, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	slog.Info("scenario_done", "name", sc.Name, "steps", result.StepsTaken, "spawned", result.Spawned)
	return result, nil
}
