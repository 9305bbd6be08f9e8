package config

import (
	"github.com/xyproto/env/v2"
)

// Environment variables that take precedence over tourte.yaml.
const (
	EnvColor    = "TOURTE_COLOR"
	EnvNoCache  = "TOURTE_NO_CACHE"
	EnvMaxSteps = "TOURTE_MAX_STEPS"
)

// ApplyEnv overrides settings from TOURTE_* variables.
func (c *Config) ApplyEnv() error {
	if env.Has(EnvColor) {
		c.Color = env.Str(EnvColor)
	}
	if env.Bool(EnvNoCache) {
		off := false
		c.Cache.Enabled = &off
	}
	if env.Has(EnvMaxSteps) {
		c.Emulator.MaxSteps = env.Int(EnvMaxSteps, c.Emulator.MaxSteps)
	}
	return c.validate("environment")
}
