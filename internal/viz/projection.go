package viz

import (
	"math"

	"github.com/san-kum/spintop/internal/arena"
)

// Projection maps arena pixels onto canvas dots with a uniform scale, so the
// arena stays round. The arena plus its padding fits the shorter canvas side
// and is centered along the longer one.
type Projection struct {
	Scale            float64
	OriginX, OriginY float64
}

func NewProjection(center arena.Point, radius float64, dotsW, dotsH int) Projection {
	span := 2 * (radius + arena.CanvasPadding)
	side := math.Min(float64(dotsW), float64(dotsH))
	scale := side / span
	return Projection{
		Scale:   scale,
		OriginX: center.X - float64(dotsW)/scale/2,
		OriginY: center.Y - float64(dotsH)/scale/2,
	}
}

// ToDots projects an arena point.
func (p Projection) ToDots(x, y float64) (int, int) {
	return int(math.Round((x - p.OriginX) * p.Scale)), int(math.Round((y - p.OriginY) * p.Scale))
}

// ToArena is the inverse of ToDots, up to one dot of rounding.
func (p Projection) ToArena(dx, dy int) (float64, float64) {
	return p.OriginX + float64(dx)/p.Scale, p.OriginY + float64(dy)/p.Scale
}

// Length scales an arena distance to dots.
func (p Projection) Length(l float64) int {
	return int(math.Round(l * p.Scale))
}
