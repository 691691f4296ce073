package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/toml"
	"github.com/lixenwraith/skirmish/vmath"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected defaults to validate, got %v", err)
	}
	if cfg.Step() != time.Second/60 {
		t.Errorf("Expected 60 Hz step, got %v", cfg.Step())
	}
	layers, _ := cfg.Layers()
	if layers.Len() != 1 {
		t.Errorf("Expected only the world layer, got %d", layers.Len())
	}
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
fixed_dt = 0.01
gravity = [0, -20]
max_particles = 128

[collision_layers]
names = ["player", "enemy"]

[collision_layers.collides]
player = ["world", "enemy"]
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.Step() != 10*time.Millisecond {
		t.Errorf("Expected 10ms step, got %v", cfg.Step())
	}
	if cfg.MaxTicksPerFrame != Default().MaxTicksPerFrame {
		t.Errorf("Expected untouched field to keep default, got %d", cfg.MaxTicksPerFrame)
	}
	if p := cfg.Profile(); p.Gravity != vmath.V(0, -20) || p.MaxSpeed != Default().MaxSpeed {
		t.Errorf("Expected profile from config, got %+v", p)
	}
	layers, err := cfg.Layers()
	if err != nil {
		t.Fatalf("Layers failed: %v", err)
	}
	enemy, _ := layers.Bit("enemy")
	if got := layers.DefaultMask("player"); got != core.LayerWorld|enemy {
		t.Errorf("Expected player mask world|enemy, got %b", got)
	}
}

func TestParse_RejectsUnknownKey(t *testing.T) {
	_, err := Parse([]byte("gravty = [0, -1]\n"))
	var ue *toml.UnknownFieldError
	if !errors.As(err, &ue) || ue.Field != "gravty" {
		t.Errorf("Expected unknown field gravty, got %v", err)
	}
}

func TestValidate_NamesField(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Config)
		field string
	}{
		{"zero dt", func(c *Config) { c.FixedDT = 0 }, "fixed_dt"},
		{"zero cap", func(c *Config) { c.MaxTicksPerFrame = 0 }, "max_ticks_per_frame"},
		{"negative particles", func(c *Config) { c.MaxParticles = -1 }, "max_particles"},
		{"zero max speed", func(c *Config) { c.MaxSpeed = 0 }, "max_speed"},
		{"negative snap", func(c *Config) { c.SlopeSnap = -1 }, "slope_snap"},
		{"duplicate layer", func(c *Config) { c.CollisionLayers.Names = []string{"a", "a"} }, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mut(&cfg)
			var cfgErr *core.ConfigurationError
			if err := cfg.Validate(); !errors.As(err, &cfgErr) {
				t.Fatalf("Expected ConfigurationError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, cfgErr.Field)
			}
		})
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skirmish.toml")
	if err := os.WriteFile(path, []byte("seed = 7\nmax_ticks_per_frame = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SKIRMISH_MAX_PARTICLES", "64")
	t.Setenv("SKIRMISH_SEED", "not-a-number")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Seed != 7 || cfg.MaxTicksPerFrame != 3 {
		t.Errorf("Expected file values, got seed=%d cap=%d", cfg.Seed, cfg.MaxTicksPerFrame)
	}
	if cfg.MaxParticles != 64 {
		t.Errorf("Expected env override 64, got %d", cfg.MaxParticles)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
