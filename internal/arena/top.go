package arena

import "math"

// Point is an arena-local pixel coordinate.
type Point struct {
	X, Y float64
}

// Palette is the presentational color pair of a top.
type Palette struct {
	Primary string
	Accent  string
}

// Palettes alternate between successive spawns.
var Palettes = [2]Palette{
	{Primary: "#000000", Accent: "#ffffff"},
	{Primary: "#ffffff", Accent: "#000000"},
}

// Top is one spinning disk. Radius, mass and the physical constants are fixed
// at construction and only readable afterwards.
type Top struct {
	X, Y            float64
	VX, VY          float64
	Angle           float64 // radians, accumulates without wrapping
	AngularVelocity float64
	Selected        bool
	CollisionFlash  float64
	Palette         Palette

	radius          float64
	mass            float64
	gravityStrength float64
	friction        float64
	velocityDecay   float64
	restitution     float64
	shouldRemove    bool
}

func newTop(x, y float64, p Params, rng Rand, palette Palette) Top {
	return Top{
		X:               x,
		Y:               y,
		VX:              (rng.Float64() - 0.5) * 2 * p.InitialSpeed,
		VY:              (rng.Float64() - 0.5) * 2 * p.InitialSpeed,
		Angle:           rng.Float64() * 2 * math.Pi,
		AngularVelocity: (rng.Float64() - 0.5) * 2 * p.InitialSpin,
		Palette:         palette,
		radius:          p.Radius,
		mass:            p.Mass,
		gravityStrength: p.GravityStrength,
		friction:        p.Friction,
		velocityDecay:   p.VelocityDecay,
		restitution:     p.Restitution,
	}
}

// Radius is the disk radius used for collision, containment and exit tests.
func (t *Top) Radius() float64 { return t.radius }

// Mass weights the impulse split between two colliding tops.
func (t *Top) Mass() float64 { return t.mass }

// GravityStrength scales the inward pull and the resolver's proximity term.
func (t *Top) GravityStrength() float64 { return t.gravityStrength }

// Friction multiplies linear velocity once per frame.
func (t *Top) Friction() float64 { return t.friction }

// VelocityDecay multiplies velocity and spin once per frame after friction.
func (t *Top) VelocityDecay() float64 { return t.velocityDecay }

// Restitution scales the restitution term of a collision impulse.
func (t *Top) Restitution() float64 { return t.restitution }

// Removed reports whether the integrator marked the top for pruning.
func (t *Top) Removed() bool { return t.shouldRemove }

// Speed is the magnitude of the per-frame velocity.
func (t *Top) Speed() float64 {
	return math.Hypot(t.VX, t.VY)
}

// DistanceTo returns the distance from the top's center to (x, y).
func (t *Top) DistanceTo(x, y float64) float64 {
	return math.Hypot(t.X-x, t.Y-y)
}

// CheckCollision reports whether the two disks overlap. Touching is not a collision.
func (t *Top) CheckCollision(other *Top) bool {
	dist := math.Hypot(other.X-t.X, other.Y-t.Y)
	return dist < t.radius+other.radius
}

// DirectionVector returns the unit velocity, or (0, 0) when the top is at rest.
// Consumers that need a drawable direction must substitute their own default.
func (t *Top) DirectionVector() (float64, float64) {
	speed := t.Speed()
	if speed == 0 {
		return 0, 0
	}
	return t.VX / speed, t.VY / speed
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
