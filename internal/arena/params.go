package arena

// Params holds the per-top constants fixed at spawn time.
type Params struct {
	Radius          float64 `yaml:"radius"`
	Mass            float64 `yaml:"mass"`
	GravityStrength float64 `yaml:"gravity_strength"`
	Friction        float64 `yaml:"friction"`
	VelocityDecay   float64 `yaml:"velocity_decay"`
	Restitution     float64 `yaml:"restitution"`
	InitialSpeed    float64 `yaml:"initial_speed"` // half-range of the uniform per-axis velocity
	InitialSpin     float64 `yaml:"initial_spin"`  // half-range of the uniform angular velocity
}

func DefaultParams() Params {
	return Params{
		Radius:          12,
		Mass:            1,
		GravityStrength: 0.001,
		Friction:        0.98,
		VelocityDecay:   0.995,
		Restitution:     0.8,
		InitialSpeed:    1,
		InitialSpin:     0.5,
	}
}
