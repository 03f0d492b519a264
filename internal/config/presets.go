package config

import "sort"

var Presets = map[string]func(*Config){
	"calm": func(c *Config) {
		c.Run.Tops = 5
		c.Run.SpawnRadius = 0.5
		c.Physics.InitialSpeed = 0.5
		c.Physics.InitialSpin = 0.3
	},
	"crowded": func(c *Config) {
		c.Run.Tops = 60
		c.Run.SpawnRadius = 0.9
	},
	"chaos": func(c *Config) {
		c.Run.Tops = 40
		c.Physics.InitialSpeed = 4
		c.Physics.InitialSpin = 1.5
		c.Physics.Friction = 0.995
		c.Physics.VelocityDecay = 0.999
	},
	"tiny": func(c *Config) {
		c.Arena.Radius = 120
		c.Run.Tops = 8
		c.Run.Frames = 600
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
