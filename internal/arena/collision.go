package arena

import "math"

// resolveCollision separates two overlapping tops and, unless they are already
// moving apart, applies the combined impulse. It reports whether the impulse
// step ran. Coincident centers have no normal and are skipped entirely.
func resolveCollision(a, b *Top, center Point, rng Rand) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return false
	}

	nx := dx / dist
	ny := dy / dist

	overlap := a.radius + b.radius - dist
	if overlap > 0 {
		sx := nx * overlap * 0.5
		sy := ny * overlap * 0.5
		a.X -= sx
		a.Y -= sy
		b.X += sx
		b.Y += sy
	}

	relativeSpeed := (b.VX-a.VX)*nx + (b.VY-a.VY)*ny
	if relativeSpeed > SeparatingTolerance {
		return false
	}
	closing := math.Abs(relativeSpeed)

	totalMass := a.mass + b.mass
	impulse := 2 * closing * a.restitution * RestitutionBoost / totalMass

	// spin feeds into linear repulsion
	impulse += (a.AngularVelocity*a.radius*SpinLever + b.AngularVelocity*b.radius*SpinLever) * SpinForceScale

	impulse += (a.Speed() + b.Speed()) * MotionForceScale

	avgDist := (a.DistanceTo(center.X, center.Y) + b.DistanceTo(center.X, center.Y)) / 2
	impulse += a.gravityStrength * avgDist * ProximityForceScale

	ix := impulse * nx
	iy := impulse * ny
	a.VX -= ix * b.mass / totalMass
	a.VY -= iy * b.mass / totalMass
	b.VX += ix * a.mass / totalMass
	b.VY += iy * a.mass / totalMass

	transfer := closing * SpinTransferRate * SpinTransferShare
	dir := sign(a.AngularVelocity - b.AngularVelocity)
	a.AngularVelocity -= dir * transfer
	b.AngularVelocity += dir * transfer

	impact := closing * ImpactSpinRate
	a.AngularVelocity += (rng.Float64() - 0.5) * impact
	b.AngularVelocity += (rng.Float64() - 0.5) * impact

	a.CollisionFlash = 1
	b.CollisionFlash = 1
	return true
}
