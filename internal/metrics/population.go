package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/spintop/internal/arena"
)

// Population is the mean live count across frames.
type Population struct {
	name   string
	counts []float64
}

func NewPopulation() *Population {
	return &Population{name: "population"}
}

func (p *Population) Name() string { return p.name }

func (p *Population) Observe(a *arena.Arena, res arena.StepResult) {
	p.counts = append(p.counts, float64(res.Live))
}

func (p *Population) Value() float64 {
	if len(p.counts) == 0 {
		return 0
	}
	return stat.Mean(p.counts, nil)
}

// Peak is the largest live count observed.
func (p *Population) Peak() float64 {
	if len(p.counts) == 0 {
		return 0
	}
	return floats.Max(p.counts)
}

func (p *Population) Reset() { p.counts = p.counts[:0] }

// Survival is the number of frames until the arena first emptied, or the
// number of frames observed if it never did.
type Survival struct {
	name    string
	frames  int
	emptied bool
}

func NewSurvival() *Survival {
	return &Survival{name: "survival_frames"}
}

func (s *Survival) Name() string { return s.name }

func (s *Survival) Observe(a *arena.Arena, res arena.StepResult) {
	if s.emptied {
		return
	}
	s.frames++
	if res.Live == 0 {
		s.emptied = true
	}
}

func (s *Survival) Value() float64 { return float64(s.frames) }

func (s *Survival) Reset() {
	s.frames = 0
	s.emptied = false
}
