package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/spintop/internal/arena"
)

// CollisionRate is collisions per frame. Only frames with at least one live
// top count toward the denominator.
type CollisionRate struct {
	name   string
	counts []float64
}

func NewCollisionRate() *CollisionRate {
	return &CollisionRate{name: "collision_rate"}
}

func (c *CollisionRate) Name() string { return c.name }

func (c *CollisionRate) Observe(a *arena.Arena, res arena.StepResult) {
	if res.Live == 0 && res.Collisions == 0 {
		return
	}
	c.counts = append(c.counts, float64(res.Collisions))
}

func (c *CollisionRate) Value() float64 {
	if len(c.counts) == 0 {
		return 0
	}
	return floats.Sum(c.counts) / float64(len(c.counts))
}

func (c *CollisionRate) Total() float64 { return floats.Sum(c.counts) }

func (c *CollisionRate) Reset() { c.counts = c.counts[:0] }
