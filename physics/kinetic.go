package physics

import (
	"math"

	"github.com/lixenwraith/skirmish/component"
	"github.com/lixenwraith/skirmish/vmath"
)

// Body builds a dynamic rigid body of the given mass with full gravity
func Body(mass float64) component.RigidBodyComponent {
	return component.RigidBodyComponent{Mass: mass, GravityScale: 1}
}

// Integrate performs velocity integration: v = v + (g*scale + F/m)*dt, clamped per axis
// Kinematic bodies ignore gravity and force; the force accumulator is always cleared
func Integrate(rb *component.RigidBodyComponent, vel *component.VelocityComponent, gravity, limit vmath.Vec2, dt float64) {
	if !rb.Kinematic() {
		accel := gravity.Mul(rb.GravityScale).Add(rb.Force.Mul(rb.InvMass()))
		vel.Linear = vel.Linear.Add(accel.Mul(dt))
	}
	rb.Force = vmath.Vec2{}
	vel.Linear = vmath.ClampAxes(vel.Linear, limit)
}

// ApplyImpulse adds velocity delta scaled by inverse mass
func ApplyImpulse(rb *component.RigidBodyComponent, vel *component.VelocityComponent, impulse vmath.Vec2) {
	vel.Linear = vel.Linear.Add(impulse.Mul(rb.InvMass()))
}

// SetImpulse overrides velocity (hard redirect)
func SetImpulse(vel *component.VelocityComponent, v vmath.Vec2) {
	vel.Linear = v
}

// respond returns the post-contact velocity on one axis against a surface moving at surfaceV
// Fast impacts reflect by bounciness, slow ones come to rest on the surface
func respond(v, surfaceV, bounciness, restVelocity float64) float64 {
	rel := v - surfaceV
	if bounciness > 0 && math.Abs(rel) > restVelocity {
		return surfaceV - rel*bounciness
	}
	return surfaceV
}

// applyFriction decelerates tangential motion relative to a supporting surface
// Coulomb model: the decrement per tick is friction * |normal acceleration| * dt, never reversing direction
func applyFriction(v, surfaceV, friction, normalAccel, dt float64) float64 {
	decel := friction * math.Abs(normalAccel) * dt
	if decel <= 0 {
		return v
	}
	return surfaceV + vmath.Approach(v-surfaceV, decel)
}
