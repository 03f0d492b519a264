package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/spintop/internal/arena"
)

// KineticEnergy is the mean over frames of the arena's total translational
// kinetic energy.
type KineticEnergy struct {
	name    string
	samples []float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(a *arena.Arena, res arena.StepResult) {
	e.samples = append(e.samples, Kinetic(a))
}

func (e *KineticEnergy) Value() float64 {
	if len(e.samples) == 0 {
		return 0
	}
	return stat.Mean(e.samples, nil)
}

func (e *KineticEnergy) Reset() { e.samples = e.samples[:0] }

// Kinetic sums ½mv² over the live tops.
func Kinetic(a *arena.Arena) float64 {
	total := 0.0
	for i := 0; i < a.Len(); i++ {
		t := a.Top(i)
		v := t.Speed()
		total += 0.5 * t.Mass() * v * v
	}
	return total
}

// SpinEnergy is the mean over frames of the summed squared angular velocity.
type SpinEnergy struct {
	name    string
	samples []float64
}

func NewSpinEnergy() *SpinEnergy {
	return &SpinEnergy{name: "spin_energy"}
}

func (e *SpinEnergy) Name() string { return e.name }

func (e *SpinEnergy) Observe(a *arena.Arena, res arena.StepResult) {
	total := 0.0
	for i := 0; i < a.Len(); i++ {
		w := a.Top(i).AngularVelocity
		total += w * w
	}
	e.samples = append(e.samples, total)
}

func (e *SpinEnergy) Value() float64 {
	if len(e.samples) == 0 {
		return 0
	}
	return stat.Mean(e.samples, nil)
}

func (e *SpinEnergy) Reset() { e.samples = e.samples[:0] }
