package particle

import (
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/vmath"
)

// Effect describes one burst: how many particles, how they leave and how they age
// Direction and Spread are degrees counterclockwise from +x; each particle picks a heading in Direction ± Spread/2
type Effect struct {
	Count        int     `toml:"count" msgpack:"count"`
	Lifetime     float64 `toml:"lifetime" msgpack:"lifetime"`
	SpeedMin     float64 `toml:"speed_min" msgpack:"speed_min"`
	SpeedMax     float64 `toml:"speed_max" msgpack:"speed_max"`
	Direction    float64 `toml:"direction" msgpack:"direction"`
	Spread       float64 `toml:"spread" msgpack:"spread"`
	GravityScale float64 `toml:"gravity_scale" msgpack:"gravity_scale"`
	Drag         float64 `toml:"drag" msgpack:"drag"`
	Size         float64 `toml:"size" msgpack:"size"`
	Color        uint32  `toml:"color" msgpack:"color"`
}

// WithDefaults fills omitted count, lifetime and size
func (e Effect) WithDefaults() Effect {
	if e.Count == 0 {
		e.Count = parameter.DefaultParticleCount
	}
	if e.Lifetime == 0 {
		e.Lifetime = parameter.DefaultParticleLifetime
	}
	if e.Size == 0 {
		e.Size = 0.1
	}
	if e.SpeedMax < e.SpeedMin {
		e.SpeedMax = e.SpeedMin
	}
	return e
}

// Validate rejects effects that cannot produce a sensible burst
func (e Effect) Validate(name string) error {
	scope := "effect." + name
	switch {
	case e.Count < 0:
		return &core.ConfigurationError{Scope: scope, Field: "count", Value: e.Count, Reason: "must not be negative"}
	case e.Lifetime < 0 || !vmath.IsFinite(e.Lifetime):
		return &core.ConfigurationError{Scope: scope, Field: "lifetime", Value: e.Lifetime, Reason: "must be a finite non-negative number"}
	case e.SpeedMin < 0 || !vmath.IsFinite(e.SpeedMin):
		return &core.ConfigurationError{Scope: scope, Field: "speed_min", Value: e.SpeedMin, Reason: "must be a finite non-negative number"}
	case !vmath.IsFinite(e.SpeedMax):
		return &core.ConfigurationError{Scope: scope, Field: "speed_max", Value: e.SpeedMax, Reason: "must be finite"}
	case e.Spread < 0 || e.Spread > 360:
		return &core.ConfigurationError{Scope: scope, Field: "spread", Value: e.Spread, Reason: "must be within [0, 360]"}
	case e.Drag < 0 || !vmath.IsFinite(e.Drag):
		return &core.ConfigurationError{Scope: scope, Field: "drag", Value: e.Drag, Reason: "must be a finite non-negative number"}
	case !vmath.IsFinite(e.GravityScale) || !vmath.IsFinite(e.Direction) || !vmath.IsFinite(e.Size):
		return &core.ConfigurationError{Scope: scope, Reason: "direction, gravity_scale and size must be finite"}
	}
	return nil
}

// DefaultEffects are available to every level, a level may override them by name
func DefaultEffects() map[string]Effect {
	return map[string]Effect{
		"dust": {Count: 6, Lifetime: 0.4, SpeedMin: 0.5, SpeedMax: 1.5, Direction: 90, Spread: 120, GravityScale: 0.3, Drag: 2, Size: 0.1, Color: 0xb0a080},
		"spark": {Count: 12, Lifetime: 0.6, SpeedMin: 2, SpeedMax: 5, Direction: 90, Spread: 360, GravityScale: 1, Drag: 0.5, Size: 0.08, Color: 0xffd040},
		"smoke": {Count: 4, Lifetime: 1.5, SpeedMin: 0.2, SpeedMax: 0.6, Direction: 90, Spread: 30, GravityScale: -0.05, Drag: 1, Size: 0.3, Color: 0x808080},
	}
}
