package arena

import (
	"log/slog"
	"math"
)

// Arena owns the live tops, the circular boundary and the arena-wide flash.
type Arena struct {
	radius   float64
	center   Point
	params   Params
	rng      Rand
	tops     []Top
	flash    float64
	frame    int
	spawned  int
	palettes int
}

type Option func(*Arena)

// WithCenter overrides the default center (radius + canvas padding on both axes).
func WithCenter(x, y float64) Option {
	return func(a *Arena) { a.center = Point{X: x, Y: y} }
}

func WithRand(rng Rand) Option {
	return func(a *Arena) { a.rng = rng }
}

func WithParams(p Params) Option {
	return func(a *Arena) { a.params = p }
}

func New(radius float64, opts ...Option) *Arena {
	a := &Arena{
		radius: radius,
		center: Point{X: radius + CanvasPadding, Y: radius + CanvasPadding},
		params: DefaultParams(),
		tops:   make([]Top, 0, 32),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = NewRand(0)
	}
	return a
}

// StepResult summarizes one frame.
type StepResult struct {
	Frame      int
	Collisions int
	Removed    int
	Live       int
	Flash      float64
}

// LogValue implements slog.LogValuer for structured logging.
func (r StepResult) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frame", r.Frame),
		slog.Int("collisions", r.Collisions),
		slog.Int("removed", r.Removed),
		slog.Int("live", r.Live),
		slog.Float64("flash", r.Flash),
	)
}

func (a *Arena) Radius() float64         { return a.radius }
func (a *Arena) Center() Point           { return a.center }
func (a *Arena) FlashIntensity() float64 { return a.flash }
func (a *Arena) Frame() int              { return a.frame }
func (a *Arena) Len() int                { return len(a.tops) }
func (a *Arena) Params() Params          { return a.params }

// Spawned is the total number of tops ever spawned into this arena.
func (a *Arena) Spawned() int { return a.spawned }

// Top returns the live top at index i. The pointer is valid until the next
// Spawn or Step; indices shift after pruning.
func (a *Arena) Top(i int) *Top {
	if i < 0 || i >= len(a.tops) {
		return nil
	}
	return &a.tops[i]
}

// Tops returns a copy of the live collection.
func (a *Arena) Tops() []Top {
	out := make([]Top, len(a.tops))
	copy(out, a.tops)
	return out
}

// Contains reports whether (x, y) lies within the arena circle.
func (a *Arena) Contains(x, y float64) bool {
	return math.Hypot(x-a.center.X, y-a.center.Y) <= a.radius
}

// Normalize maps a point to center-relative coordinates scaled by the arena
// radius, plus its normalized distance from the center.
func (a *Arena) Normalize(x, y float64) (nx, ny, nd float64) {
	dx := x - a.center.X
	dy := y - a.center.Y
	return dx / a.radius, dy / a.radius, math.Hypot(dx, dy) / a.radius
}

// Spawn appends a new top at (x, y), deselecting every other top and selecting
// the new one. Points outside the arena are ignored.
func (a *Arena) Spawn(x, y float64) (*Top, bool) {
	if !a.Contains(x, y) {
		return nil, false
	}
	for i := range a.tops {
		a.tops[i].Selected = false
	}
	t := newTop(x, y, a.params, a.rng, Palettes[a.palettes%len(Palettes)])
	t.Selected = true
	a.palettes++
	a.spawned++
	a.tops = append(a.tops, t)
	return &a.tops[len(a.tops)-1], true
}

// ToggleSelect flips the selection of the first top (in index order) whose
// disk contains (x, y). Later tops overlapping the same point are left alone.
// It reports false when nothing was hit.
func (a *Arena) ToggleSelect(x, y float64) (*Top, bool) {
	if !a.Contains(x, y) {
		return nil, false
	}
	for i := range a.tops {
		t := &a.tops[i]
		if t.DistanceTo(x, y) <= t.radius {
			t.Selected = !t.Selected
			return t, true
		}
	}
	return nil, false
}

// Click applies the input policy for a single pointer press: toggle the hit
// top, otherwise spawn a new one. ok is false for points outside the arena.
func (a *Arena) Click(x, y float64) (t *Top, spawned bool, ok bool) {
	if !a.Contains(x, y) {
		return nil, false, false
	}
	if t, hit := a.ToggleSelect(x, y); hit {
		return t, false, true
	}
	t, _ = a.Spawn(x, y)
	return t, true, true
}

// Selected returns the first selected top, or nil.
func (a *Arena) Selected() *Top {
	for i := range a.tops {
		if a.tops[i].Selected {
			return &a.tops[i]
		}
	}
	return nil
}

// Step integrates every live top in ascending index order, prunes the ones
// marked for removal and updates the arena flash.
func (a *Arena) Step() StepResult {
	res := StepResult{}
	for i := range a.tops {
		if a.tops[i].shouldRemove {
			continue
		}
		res.Collisions += integrate(a.tops, i, a.center, a.radius, a.rng)
	}

	flashing := false
	kept := a.tops[:0]
	for _, t := range a.tops {
		if t.CollisionFlash > 0 {
			flashing = true
		}
		if t.shouldRemove {
			res.Removed++
			continue
		}
		kept = append(kept, t)
	}
	for i := len(kept); i < len(a.tops); i++ {
		a.tops[i] = Top{}
	}
	a.tops = kept

	if flashing {
		a.flash = 1
	} else {
		a.flash = math.Max(0, a.flash-ArenaFlashDecay)
	}

	a.frame++
	res.Frame = a.frame
	res.Live = len(a.tops)
	res.Flash = a.flash
	return res
}
