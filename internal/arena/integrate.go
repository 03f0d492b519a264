package arena

import "math"

// integrate advances tops[i] by one frame and resolves its collisions with
// every later-indexed top. It returns the number of impulses applied.
func integrate(tops []Top, i int, center Point, arenaRadius float64, rng Rand) int {
	t := &tops[i]

	dx := center.X - t.X
	dy := center.Y - t.Y
	dist := math.Hypot(dx, dy)
	if dist > 0 {
		toX := dx / dist
		toY := dy / dist
		// perpendicular to the radial direction; spin sign picks the curl
		tanX := -toY
		tanY := toX

		spin := sign(t.AngularVelocity)
		tangential := math.Abs(t.AngularVelocity) * SpiralStrength
		t.VX += tanX * tangential * spin * SmoothFactor
		t.VY += tanY * tangential * spin * SmoothFactor

		pull := t.gravityStrength * dist
		t.VX += toX * pull * SmoothFactor
		t.VY += toY * pull * SmoothFactor
	}

	t.VX *= t.friction
	t.VY *= t.friction
	t.VX *= t.velocityDecay
	t.VY *= t.velocityDecay
	t.AngularVelocity *= t.velocityDecay
	t.CollisionFlash = math.Max(0, t.CollisionFlash-FlashDecay)

	if t.Speed() < MinSpeed && math.Abs(t.AngularVelocity) < MinSpin {
		t.shouldRemove = true
		return 0
	}

	t.X += t.VX
	t.Y += t.VY

	fromCenter := t.DistanceTo(center.X, center.Y)
	if fromCenter > arenaRadius+t.radius {
		t.shouldRemove = true
		return 0
	}

	if fromCenter+t.radius > arenaRadius {
		contain(t, center, arenaRadius, fromCenter)
	}

	collisions := 0
	for j := i + 1; j < len(tops); j++ {
		other := &tops[j]
		if t.CheckCollision(other) && resolveCollision(t, other, center, rng) {
			collisions++
		}
	}

	t.Angle += t.AngularVelocity
	return collisions
}

// contain applies the soft boundary: a nudge toward the center proportional to
// penetration, a partial blend toward the damped reflection when moving
// outward, then a hard clamp onto the inner rim.
func contain(t *Top, center Point, arenaRadius, fromCenter float64) {
	penetration := fromCenter + t.radius - arenaRadius
	softness := math.Min(penetration/(t.radius*SoftZoneFactor), 1)

	angle := math.Atan2(t.Y-center.Y, t.X-center.X)
	cos := math.Cos(angle)
	sin := math.Sin(angle)

	push := softness * PushBack
	t.X -= cos * push
	t.Y -= sin * push

	outward := t.VX*cos + t.VY*sin
	if outward > 0 {
		reflectedX := t.VX - 2*outward*cos*ReflectionDamping
		reflectedY := t.VY - 2*outward*sin*ReflectionDamping
		t.VX = t.VX*(1-ReflectionBlend) + reflectedX*ReflectionBlend
		t.VY = t.VY*(1-ReflectionBlend) + reflectedY*ReflectionBlend
	}

	if fromCenter > arenaRadius-t.radius {
		t.X = center.X + cos*(arenaRadius-t.radius)
		t.Y = center.Y + sin*(arenaRadius-t.radius)
	}
}
