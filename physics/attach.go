package physics

import (
	"github.com/lixenwraith/skirmish/component"
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/engine"
	"github.com/lixenwraith/skirmish/vmath"
)

// AttachCollider validates and attaches a collider, rejecting degenerate boxes
// The entity must already carry a RigidBody or Static component
// Zero layer defaults to the world layer and zero mask to every layer
func AttachCollider(w *engine.World, e core.Entity, col component.ColliderComponent) error {
	if !engine.HasComponent[component.RigidBodyComponent](w, e) && !engine.HasComponent[component.StaticComponent](w, e) {
		return &core.ConfigurationError{Entity: e, Scope: "collider", Field: "collider", Reason: "requires rigid_body or static"}
	}
	if err := ValidateCollider(e, col); err != nil {
		return err
	}
	if col.Layer == 0 {
		col.Layer = core.LayerWorld
	}
	if col.Mask == 0 {
		col.Mask = core.LayerAll
	}
	return engine.AddComponent(w, e, col)
}

// ValidateCollider reports the first invalid collider field
func ValidateCollider(e core.Entity, col component.ColliderComponent) error {
	check := func(field string, v float64, positive bool) error {
		if !vmath.IsFinite(v) {
			return &core.ConfigurationError{Entity: e, Scope: "collider", Field: field, Value: v, Reason: "must be finite"}
		}
		if positive && v <= 0 {
			return &core.ConfigurationError{Entity: e, Scope: "collider", Field: field, Value: v, Reason: "must be positive"}
		}
		return nil
	}
	if err := check("width", col.Size[0], true); err != nil {
		return err
	}
	if err := check("height", col.Size[1], true); err != nil {
		return err
	}
	if err := check("offset_x", col.Offset[0], false); err != nil {
		return err
	}
	if err := check("offset_y", col.Offset[1], false); err != nil {
		return err
	}
	if col.Material.Friction < 0 || !vmath.IsFinite(col.Material.Friction) {
		return &core.ConfigurationError{Entity: e, Scope: "collider", Field: "friction", Value: col.Material.Friction, Reason: "must be a finite non-negative number"}
	}
	if col.Material.Bounciness < 0 || !vmath.IsFinite(col.Material.Bounciness) {
		return &core.ConfigurationError{Entity: e, Scope: "collider", Field: "bounciness", Value: col.Material.Bounciness, Reason: "must be a finite non-negative number"}
	}
	return nil
}
