package physics

import (
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/vmath"
)

// Profile holds world-wide physics tuning, one per loaded configuration
type Profile struct {
	Gravity      vmath.Vec2
	MaxSpeed     float64 // Per-axis velocity clamp for bodies without their own
	SlopeSnap    float64 // Vertical reach when lifting onto or following a slope surface
	RestVelocity float64 // Impact speed below which bounciness is ignored
}

// DefaultProfile is earth-like gravity in tile units
var DefaultProfile = Profile{
	Gravity:      vmath.V(parameter.DefaultGravityX, parameter.DefaultGravityY),
	MaxSpeed:     parameter.DefaultMaxSpeed,
	SlopeSnap:    parameter.DefaultSlopeSnap,
	RestVelocity: parameter.DefaultRestVelocity,
}

// speedLimit resolves the per-axis clamp of a body, zero axes fall back to the profile
func (p *Profile) speedLimit(own vmath.Vec2) vmath.Vec2 {
	limit := own
	for i := 0; i < 2; i++ {
		if limit[i] <= 0 {
			limit[i] = p.MaxSpeed
		}
	}
	return limit
}
