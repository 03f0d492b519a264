package arena

// Integrator tuning, in the order the per-frame update applies them.
const (
	// SpiralStrength scales the tangential push |ω|·sign(ω) of spiral forcing.
	SpiralStrength = 0.2
	// SmoothFactor damps both spiral force components before they hit velocity.
	SmoothFactor = 0.8
	// FlashDecay is subtracted from CollisionFlash each frame, clamped at 0.
	FlashDecay = 0.15
	// MinSpeed and MinSpin: below both, the top is at rest and marked for removal.
	MinSpeed = 0.1
	MinSpin  = 0.01
	// SoftZoneFactor sets the containment depth, in radii, over which softness reaches 1.
	SoftZoneFactor = 2.0
	// PushBack is the inward position nudge per unit softness.
	PushBack = 0.3
	// ReflectionDamping damps the reflected outward velocity.
	ReflectionDamping = 0.85
	// ReflectionBlend is how far outward velocity moves toward its reflection per frame.
	ReflectionBlend = 0.3
)

// Resolver tuning, one group per impulse term.
const (
	// SeparatingTolerance: pairs already separating faster than this get no impulse.
	SeparatingTolerance = 0.1
	// RestitutionBoost multiplies the restitution term 2·|rs|·e/M.
	RestitutionBoost = 2.0

	// SpinLever and SpinForceScale shape the spin term (ωA·rA + ωB·rB)·lever·scale.
	SpinLever      = 0.5
	SpinForceScale = 1.5

	// MotionForceScale multiplies the combined speed term |vA|+|vB|.
	MotionForceScale = 1.2

	// ProximityForceScale multiplies gravity·average distance from center.
	ProximityForceScale = 200.0

	// SpinTransferRate and SpinTransferShare set the spin moved between the pair.
	SpinTransferRate  = 0.3
	SpinTransferShare = 0.8
	// ImpactSpinRate scales the random spin perturbation each top receives.
	ImpactSpinRate = 0.5
)

// Arena tuning.
const (
	// ArenaFlashDecay is subtracted from the arena flash on frames without collision flash.
	ArenaFlashDecay = 0.12
	// CanvasPadding offsets the default center to (radius+padding, radius+padding).
	CanvasPadding = 50.0
)
