package component

import (
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/vmath"
)

// VelocityComponent is linear velocity in world units per second
type VelocityComponent struct {
	Linear vmath.Vec2
}

// RigidBodyComponent marks an entity as simulated by physics
// Mass <= 0 makes the body kinematic: it moves by velocity alone and pushes without being pushed
type RigidBodyComponent struct {
	Mass         float64
	GravityScale float64
	MaxSpeed     vmath.Vec2 // Per-axis clamp, zero axis falls back to the world default
	Force        vmath.Vec2 // Accumulated this tick, cleared after integration
	Grounded     bool

	// Last committed finite state, restored when integration produces NaN or Inf
	LastValidPos vmath.Vec2
	LastValidVel vmath.Vec2
}

// InvMass is zero for kinematic bodies
func (rb *RigidBodyComponent) InvMass() float64 {
	if rb.Mass <= 0 {
		return 0
	}
	return 1 / rb.Mass
}

// Kinematic reports whether the body has infinite mass
func (rb *RigidBodyComponent) Kinematic() bool {
	return rb.Mass <= 0
}

// ApplyForce accumulates a force for the next integration
func (rb *RigidBodyComponent) ApplyForce(f vmath.Vec2) {
	rb.Force = rb.Force.Add(f)
}

// StaticComponent tags an immovable collider with infinite mass
type StaticComponent struct{}

// PlatformComponent tags a static or kinematic collider as a platform
// One-way platforms only stop bodies falling onto them from above
type PlatformComponent struct {
	OneWay bool
}

// ColliderComponent is an axis-aligned box relative to PositionComponent
type ColliderComponent struct {
	Size     vmath.Vec2
	Offset   vmath.Vec2
	Material core.Material
	Layer    core.LayerMask
	Mask     core.LayerMask
}

// Bounds returns the world-space box at position p
func (c *ColliderComponent) Bounds(p vmath.Vec2) vmath.AABB {
	return vmath.NewAABB(p.Add(c.Offset), c.Size)
}
