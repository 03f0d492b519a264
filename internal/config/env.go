package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvOSCHost  = "OSC_HOST"
	EnvOSCPort  = "OSC_PORT"
	EnvSink     = "SPINTOP_SINK"
	EnvRelayURL = "SPINTOP_RELAY_URL"
)

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment without overriding variables that are already set. Missing
// files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides telemetry settings from the environment and revalidates.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvOSCHost); v != "" {
		c.Telemetry.OSCHost = v
	}
	if v := os.Getenv(EnvOSCPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvOSCPort, v, err)
		}
		c.Telemetry.OSCPort = port
	}
	if v := os.Getenv(EnvSink); v != "" {
		c.Telemetry.Sink = v
	}
	if v := os.Getenv(EnvRelayURL); v != "" {
		c.Telemetry.RelayURL = v
	}
	return c.Validate()
}
