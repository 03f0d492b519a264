package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/spintop/internal/arena"
)

const (
	DefaultRadius      = 300.0
	DefaultFrames      = 1800 // 30 s at 60 fps
	DefaultFPS         = 60
	DefaultTops        = 12
	DefaultSpawnRadius = 0.8

	DefaultOSCHost = "127.0.0.1"
	DefaultOSCPort = 57120
	DefaultPrefix  = "/stfs"

	DefaultCollisionIntervalMS = 50
	DefaultPositionIntervalMS  = 100
)

// Sink names accepted in telemetry.sink.
const (
	SinkNone = "none"
	SinkLog  = "log"
	SinkOSC  = "osc"
	SinkHTTP = "http"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Arena     ArenaConfig     `yaml:"arena"`
	Physics   arena.Params    `yaml:"physics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Run       RunConfig       `yaml:"run"`
}

type ArenaConfig struct {
	Radius float64 `yaml:"radius"`
	// CenterX/CenterY default to radius plus the canvas padding when zero.
	CenterX float64 `yaml:"center_x,omitempty"`
	CenterY float64 `yaml:"center_y,omitempty"`
	Seed    int64   `yaml:"seed"`
}

type TelemetryConfig struct {
	Sink                string `yaml:"sink"`
	Prefix              string `yaml:"prefix"`
	OSCHost             string `yaml:"osc_host"`
	OSCPort             int    `yaml:"osc_port"`
	RelayURL            string `yaml:"relay_url,omitempty"`
	CollisionIntervalMS int    `yaml:"collision_interval_ms"`
	PositionIntervalMS  int    `yaml:"position_interval_ms"`
}

type RunConfig struct {
	Frames int `yaml:"frames"`
	FPS    int `yaml:"fps"`
	Tops   int `yaml:"tops"`
	// SpawnRadius is the fraction of the arena radius initial tops are
	// scattered within.
	SpawnRadius float64 `yaml:"spawn_radius"`
}

func DefaultConfig() *Config {
	return &Config{
		Arena:   ArenaConfig{Radius: DefaultRadius},
		Physics: arena.DefaultParams(),
		Telemetry: TelemetryConfig{
			Sink:                SinkNone,
			Prefix:              DefaultPrefix,
			OSCHost:             DefaultOSCHost,
			OSCPort:             DefaultOSCPort,
			CollisionIntervalMS: DefaultCollisionIntervalMS,
			PositionIntervalMS:  DefaultPositionIntervalMS,
		},
		Run: RunConfig{
			Frames:      DefaultFrames,
			FPS:         DefaultFPS,
			Tops:        DefaultTops,
			SpawnRadius: DefaultSpawnRadius,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Arena.Radius > 0, "arena.radius must be positive, got %v", c.Arena.Radius)
	check(c.Physics.Radius > 0, "physics.radius must be positive, got %v", c.Physics.Radius)
	check(c.Physics.Mass > 0, "physics.mass must be positive, got %v", c.Physics.Mass)
	check(c.Physics.Friction > 0 && c.Physics.Friction <= 1, "physics.friction must be in (0, 1], got %v", c.Physics.Friction)
	check(c.Physics.VelocityDecay > 0 && c.Physics.VelocityDecay <= 1, "physics.velocity_decay must be in (0, 1], got %v", c.Physics.VelocityDecay)
	check(c.Physics.Restitution >= 0, "physics.restitution must not be negative, got %v", c.Physics.Restitution)
	check(c.Telemetry.CollisionIntervalMS > 0, "telemetry.collision_interval_ms must be positive, got %d", c.Telemetry.CollisionIntervalMS)
	check(c.Telemetry.PositionIntervalMS > 0, "telemetry.position_interval_ms must be positive, got %d", c.Telemetry.PositionIntervalMS)
	check(c.Telemetry.OSCPort > 0 && c.Telemetry.OSCPort < 65536, "telemetry.osc_port out of range: %d", c.Telemetry.OSCPort)
	switch c.Telemetry.Sink {
	case SinkNone, SinkLog, SinkOSC, SinkHTTP:
	default:
		check(false, "telemetry.sink %q is not one of none, log, osc, http", c.Telemetry.Sink)
	}
	check(c.Telemetry.Sink != SinkHTTP || c.Telemetry.RelayURL != "", "telemetry.relay_url is required for the http sink")
	check(c.Run.Frames > 0, "run.frames must be positive, got %d", c.Run.Frames)
	check(c.Run.FPS > 0, "run.fps must be positive, got %d", c.Run.FPS)
	check(c.Run.Tops >= 0, "run.tops must not be negative, got %d", c.Run.Tops)
	check(c.Run.SpawnRadius >= 0 && c.Run.SpawnRadius <= 1, "run.spawn_radius must be in [0, 1], got %v", c.Run.SpawnRadius)

	return errors.Join(errs...)
}

// ArenaOptions translates the arena and physics sections into constructor
// options. rng overrides the seeded source when non-nil.
func (c *Config) ArenaOptions(rng arena.Rand) []arena.Option {
	if rng == nil {
		rng = arena.NewRand(c.Arena.Seed)
	}
	opts := []arena.Option{arena.WithParams(c.Physics), arena.WithRand(rng)}
	if c.Arena.CenterX != 0 || c.Arena.CenterY != 0 {
		opts = append(opts, arena.WithCenter(c.Arena.CenterX, c.Arena.CenterY))
	}
	return opts
}

// NewArena builds an empty arena from the config.
func (c *Config) NewArena(rng arena.Rand) *arena.Arena {
	return arena.New(c.Arena.Radius, c.ArenaOptions(rng)...)
}
