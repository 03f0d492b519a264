package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Arena.Radius != 300 {
		t.Errorf("expected radius 300, got %v", cfg.Arena.Radius)
	}
	if cfg.Physics.Radius != 12 {
		t.Errorf("expected top radius 12, got %v", cfg.Physics.Radius)
	}
	if cfg.Telemetry.Prefix != "/stfs" || cfg.Telemetry.OSCPort != 57120 {
		t.Errorf("unexpected telemetry defaults %+v", cfg.Telemetry)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero radius", func(c *Config) { c.Arena.Radius = 0 }},
		{"negative frames", func(c *Config) { c.Run.Frames = -1 }},
		{"zero interval", func(c *Config) { c.Telemetry.PositionIntervalMS = 0 }},
		{"unknown sink", func(c *Config) { c.Telemetry.Sink = "carrier-pigeon" }},
		{"http without url", func(c *Config) { c.Telemetry.Sink = SinkHTTP }},
		{"friction above one", func(c *Config) { c.Physics.Friction = 1.2 }},
		{"spawn radius", func(c *Config) { c.Run.SpawnRadius = 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error should wrap ErrInvalid: %v", err)
			}
		})
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spintop.yaml")
	cfg := DefaultConfig()
	cfg.Arena.Seed = 42
	cfg.Run.Tops = 3

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Arena.Seed != 42 || loaded.Run.Tops != 3 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	os.WriteFile(path, []byte("arena:\n  radius: 200\n"), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Arena.Radius != 200 {
		t.Errorf("radius = %v", cfg.Arena.Radius)
	}
	if cfg.Physics.Friction != 0.98 || cfg.Run.FPS != 60 {
		t.Error("unspecified fields should keep defaults")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("run:\n  frames: 0\n"), 0644)

	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("tiny")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Arena.Radius != 120 {
		t.Errorf("expected radius 120, got %v", cfg.Arena.Radius)
	}
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	want := []string{"calm", "chaos", "crowded", "tiny"}
	if len(names) != len(want) {
		t.Fatalf("presets = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("presets[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvOSCHost, "10.1.2.3")
	t.Setenv(EnvOSCPort, "9000")
	t.Setenv(EnvSink, SinkOSC)

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Telemetry.OSCHost != "10.1.2.3" || cfg.Telemetry.OSCPort != 9000 || cfg.Telemetry.Sink != SinkOSC {
		t.Errorf("env not applied: %+v", cfg.Telemetry)
	}
}

func TestApplyEnvBadPort(t *testing.T) {
	t.Setenv(EnvOSCPort, "not-a-port")
	if err := DefaultConfig().ApplyEnv(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	os.WriteFile(path, []byte("SPINTOP_RELAY_URL=http://relay.test/api/osc\n"), 0644)
	t.Setenv(EnvRelayURL, "")
	os.Unsetenv(EnvRelayURL)

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv(EnvRelayURL); got != "http://relay.test/api/osc" {
		t.Errorf("%s = %q", EnvRelayURL, got)
	}
}

func TestNewArena(t *testing.T) {
	cfg := GetPreset("tiny")
	cfg.Arena.CenterX, cfg.Arena.CenterY = 200, 210
	a := cfg.NewArena(nil)

	if a.Radius() != 120 {
		t.Errorf("radius = %v", a.Radius())
	}
	if c := a.Center(); c.X != 200 || c.Y != 210 {
		t.Errorf("center = %+v", c)
	}
}
