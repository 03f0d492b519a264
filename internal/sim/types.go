package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/spintop/internal/arena"
)

var (
	ErrInvalidConfig = errors.New("spintop: invalid run config")
	ErrPopulate      = errors.New("spintop: could not place initial tops")
)

// FrameError wraps a failure with the frame it happened on.
type FrameError struct {
	Frame   int
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Frame, e.Wrapped)
}

func (e *FrameError) Unwrap() error { return e.Wrapped }

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(a *arena.Arena, res arena.StepResult)
	Value() float64
	Reset()
}

// Observer is notified after every step. Observers must treat the arena as
// read-only.
type Observer interface {
	OnStep(a *arena.Arena, res arena.StepResult)
}

type ObserverFunc func(a *arena.Arena, res arena.StepResult)

func (f ObserverFunc) OnStep(a *arena.Arena, res arena.StepResult) { f(a, res) }

// Director scripts spawns. Direct is called before each step with the index
// of the frame about to run and returns the points to spawn at.
type Director interface {
	Direct(frame int) []arena.Point
}

type Config struct {
	Frames      int
	Tops        int     // initial random spawns
	SpawnRadius float64 // fraction of the arena radius used for initial spawns
	Seed        int64
	FPS         int  // pace steps in wall-clock time; 0 runs flat out
	StopEmpty   bool // end early once the arena empties after the first step
}

// Frame is the per-step record kept in a Result and written to frames.csv.
type Frame struct {
	Frame         int     `csv:"frame" json:"frame"`
	Live          int     `csv:"live" json:"live"`
	Collisions    int     `csv:"collisions" json:"collisions"`
	Removed       int     `csv:"removed" json:"removed"`
	Flash         float64 `csv:"flash" json:"flash"`
	KineticEnergy float64 `csv:"kinetic_energy" json:"kinetic_energy"`
	MeanSpin      float64 `csv:"mean_spin" json:"mean_spin"`
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	Spawned    int
	StepsTaken int
	Final      arena.Snapshot
}

// Series extracts one column of the frame log.
func (r *Result) Series(col string) []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		switch col {
		case "live":
			out[i] = float64(f.Live)
		case "collisions":
			out[i] = float64(f.Collisions)
		case "removed":
			out[i] = float64(f.Removed)
		case "flash":
			out[i] = f.Flash
		case "kinetic_energy":
			out[i] = f.KineticEnergy
		case "mean_spin":
			out[i] = f.MeanSpin
		default:
			return nil
		}
	}
	return out
}

// Columns lists the names Series accepts.
var Columns = []string{"live", "collisions", "removed", "flash", "kinetic_energy", "mean_spin"}
