// Package metrics provides sim.Metric implementations over arena frames.
package metrics

import "github.com/san-kum/spintop/internal/sim"

// Default returns a fresh set of the standard run metrics.
func Default() []sim.Metric {
	return []sim.Metric{
		NewPopulation(),
		NewKineticEnergy(),
		NewSpinEnergy(),
		NewCollisionRate(),
		NewSurvival(),
	}
}
