package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/spintop/internal/arena"
	"github.com/san-kum/spintop/internal/telemetry"
)

// Factory builds an empty arena around the given random source.
type Factory func(rng arena.Rand) *arena.Arena

type Simulator struct {
	factory   Factory
	exporter  *telemetry.Exporter
	director  Director
	metrics   []Metric
	observers []Observer
}

func New(factory Factory) *Simulator {
	return &Simulator{
		factory:   factory,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetExporter routes spawns and post-step samples to telemetry.
func (s *Simulator) SetExporter(e *telemetry.Exporter) { s.exporter = e }

func (s *Simulator) SetDirector(d Director) { s.director = d }

// Run builds a fresh arena from the factory, scatters the initial tops and
// steps it for cfg.Frames.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	rng := arena.NewRand(cfg.Seed)
	a := s.factory(rng)
	if err := s.populate(a, rng, cfg); err != nil {
		return nil, err
	}
	return s.RunArena(ctx, a, cfg)
}

// RunArena steps an existing arena. The initial population is left alone.
func (s *Simulator) RunArena(ctx context.Context, a *arena.Arena, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Frames:  make([]Frame, 0, cfg.Frames),
		Metrics: make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	var tick <-chan time.Time
	if cfg.FPS > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
		defer ticker.Stop()
		tick = ticker.C
	}

	err := s.loop(ctx, a, cfg, tick, func(res arena.StepResult) bool {
		result.Frames = append(result.Frames, Record(a, res))
		result.StepsTaken++
		return !(cfg.StopEmpty && res.Live == 0 && !s.pending(res.Frame))
	})

	result.Spawned = a.Spawned()
	result.Final = a.Snapshot()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, err
}

// RunWithCallback steps a until the callback returns false, the frame budget
// is spent or ctx is cancelled. Metrics and observers still run.
func (s *Simulator) RunWithCallback(ctx context.Context, a *arena.Arena, cfg Config, callback func(*arena.Arena, arena.StepResult) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}
	return s.loop(ctx, a, cfg, nil, func(res arena.StepResult) bool {
		return callback(a, res)
	})
}

func (s *Simulator) loop(ctx context.Context, a *arena.Arena, cfg Config, tick <-chan time.Time, after func(arena.StepResult) bool) error {
	for i := 0; i < cfg.Frames; i++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		if s.director != nil {
			for _, p := range s.director.Direct(a.Frame()) {
				s.Spawn(a, p.X, p.Y)
			}
		}

		res := a.Step()
		if s.exporter != nil {
			s.exporter.Observe(a, res)
		}
		for _, m := range s.metrics {
			m.Observe(a, res)
		}
		for _, obs := range s.observers {
			obs.OnStep(a, res)
		}

		if !after(res) {
			return nil
		}
	}
	return nil
}

// pending reports whether the director still has spawns queued after frame.
func (s *Simulator) pending(frame int) bool {
	p, ok := s.director.(interface{ Pending(frame int) bool })
	return ok && p.Pending(frame)
}

// Spawn adds a top and reports it to telemetry.
func (s *Simulator) Spawn(a *arena.Arena, x, y float64) (*arena.Top, bool) {
	t, ok := a.Spawn(x, y)
	if ok && s.exporter != nil {
		s.exporter.Spawn(a, x, y)
	}
	return t, ok
}

// populate scatters cfg.Tops uniformly over a disk of cfg.SpawnRadius times
// the arena radius.
func (s *Simulator) populate(a *arena.Arena, rng arena.Rand, cfg Config) error {
	c := a.Center()
	maxR := a.Radius() * cfg.SpawnRadius
	for n := 0; n < cfg.Tops; n++ {
		r := maxR * math.Sqrt(rng.Float64())
		th := rng.Float64() * 2 * math.Pi
		if _, ok := s.Spawn(a, c.X+r*math.Cos(th), c.Y+r*math.Sin(th)); !ok {
			return &FrameError{Frame: 0, Wrapped: fmt.Errorf("%w: top %d", ErrPopulate, n)}
		}
	}
	return nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidConfig, cfg.Frames)
	}
	if cfg.Tops < 0 {
		return fmt.Errorf("%w: tops must not be negative, got %d", ErrInvalidConfig, cfg.Tops)
	}
	if cfg.SpawnRadius < 0 || cfg.SpawnRadius > 1 {
		return fmt.Errorf("%w: spawn radius must be in [0, 1], got %v", ErrInvalidConfig, cfg.SpawnRadius)
	}
	if cfg.FPS < 0 {
		return fmt.Errorf("%w: fps must not be negative, got %d", ErrInvalidConfig, cfg.FPS)
	}
	return nil
}

// Record summarizes the arena after a step.
func Record(a *arena.Arena, res arena.StepResult) Frame {
	f := Frame{
		Frame:      res.Frame,
		Live:       res.Live,
		Collisions: res.Collisions,
		Removed:    res.Removed,
		Flash:      res.Flash,
	}
	n := a.Len()
	if n == 0 {
		return f
	}
	spin := 0.0
	for i := 0; i < n; i++ {
		t := a.Top(i)
		v := t.Speed()
		f.KineticEnergy += 0.5 * t.Mass() * v * v
		spin += math.Abs(t.AngularVelocity)
	}
	f.MeanSpin = spin / float64(n)
	return f
}
