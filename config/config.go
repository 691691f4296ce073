// Package config loads simulation settings from TOML over compiled defaults
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/physics"
	"github.com/lixenwraith/skirmish/toml"
	"github.com/lixenwraith/skirmish/vmath"
)

// Config is the simulation configuration
// FixedDT is in seconds; Gravity, MaxSpeed, SlopeSnap and RestVelocity are in world units
type Config struct {
	FixedDT          float64     `toml:"fixed_dt"`
	Gravity          [2]float64  `toml:"gravity"`
	MaxTicksPerFrame int         `toml:"max_ticks_per_frame"`
	MaxParticles     int         `toml:"max_particles"`
	MaxSpeed         float64     `toml:"max_speed"`
	Seed             uint64      `toml:"seed"`
	SlopeSnap        float64     `toml:"slope_snap"`
	RestVelocity     float64     `toml:"rest_velocity"`
	Level            string      `toml:"level,omitempty"`
	CollisionLayers  LayerConfig `toml:"collision_layers"`
}

// LayerConfig declares named collision layers after the implicit world layer
// Collides lists, per layer, the layers it collides with; omitted layers collide with all
type LayerConfig struct {
	Names    []string            `toml:"names,omitempty"`
	Collides map[string][]string `toml:"collides,omitempty"`
}

// Default returns the compiled defaults
func Default() Config {
	return Config{
		FixedDT:          parameter.FixedTimestep.Seconds(),
		Gravity:          [2]float64{parameter.DefaultGravityX, parameter.DefaultGravityY},
		MaxTicksPerFrame: parameter.MaxTicksPerFrame,
		MaxParticles:     parameter.MaxParticles,
		MaxSpeed:         parameter.DefaultMaxSpeed,
		Seed:             parameter.DefaultSeed,
		SlopeSnap:        parameter.DefaultSlopeSnap,
		RestVelocity:     parameter.DefaultRestVelocity,
	}
}

// Load reads a TOML file over the defaults, applies environment overrides and validates
// An empty path yields the defaults
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if cfg, err = Parse(data); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// Parse decodes TOML over the defaults, unknown keys are errors
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides selected fields from SKIRMISH_* variables, malformed values are ignored
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SKIRMISH_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 0, 64); err == nil {
			c.Seed = n
		}
	}
	if v := os.Getenv("SKIRMISH_MAX_PARTICLES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxParticles = n
		}
	}
	if v := os.Getenv("SKIRMISH_LEVEL"); v != "" {
		c.Level = v
	}
}

// Validate reports the first invalid field as *core.ConfigurationError
func (c *Config) Validate() error {
	bad := func(field string, v any, reason string) error {
		return &core.ConfigurationError{Scope: "config", Field: field, Value: v, Reason: reason}
	}

	if !(c.FixedDT > 0) || math.IsInf(c.FixedDT, 0) || c.FixedDT > 1 {
		return bad("fixed_dt", c.FixedDT, "must be within (0, 1] seconds")
	}
	if time.Duration(c.FixedDT*float64(time.Second)) <= 0 {
		return bad("fixed_dt", c.FixedDT, "below timer resolution")
	}
	if !vmath.Finite(c.Gravity) {
		return bad("gravity", c.Gravity, "must be finite")
	}
	if c.MaxTicksPerFrame < 1 {
		return bad("max_ticks_per_frame", c.MaxTicksPerFrame, "must be at least 1")
	}
	if c.MaxParticles < 0 {
		return bad("max_particles", c.MaxParticles, "must not be negative")
	}
	if !(c.MaxSpeed > 0) || math.IsInf(c.MaxSpeed, 0) {
		return bad("max_speed", c.MaxSpeed, "must be positive and finite")
	}
	if c.SlopeSnap < 0 || !vmath.IsFinite(c.SlopeSnap) {
		return bad("slope_snap", c.SlopeSnap, "must be a finite non-negative number")
	}
	if c.RestVelocity < 0 || !vmath.IsFinite(c.RestVelocity) {
		return bad("rest_velocity", c.RestVelocity, "must be a finite non-negative number")
	}
	if _, err := c.Layers(); err != nil {
		return err
	}
	return nil
}

// Step is the fixed tick duration
func (c *Config) Step() time.Duration {
	return time.Duration(c.FixedDT * float64(time.Second))
}

// Layers builds the collision layer table
func (c *Config) Layers() (core.LayerTable, error) {
	return core.NewLayerTable(c.CollisionLayers.Names, c.CollisionLayers.Collides)
}

// Profile is the physics tuning derived from the configuration
func (c *Config) Profile() physics.Profile {
	return physics.Profile{
		Gravity:      vmath.Vec2(c.Gravity),
		MaxSpeed:     c.MaxSpeed,
		SlopeSnap:    c.SlopeSnap,
		RestVelocity: c.RestVelocity,
	}
}
