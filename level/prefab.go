package level

import (
	"fmt"
	"sort"

	"github.com/lixenwraith/skirmish/component"
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/engine"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/physics"
	"github.com/lixenwraith/skirmish/vmath"
)

// Blueprint is a resolved spawn: the full component set an entity starts with
// Nil pointers are absent components
type Blueprint struct {
	Type      string
	Position  component.PositionComponent
	Velocity  *component.VelocityComponent
	RigidBody *component.RigidBodyComponent
	Collider  *component.ColliderComponent
	Sprite    *component.SpriteComponent
	Lifetime  *component.LifetimeComponent
	Emitter   *component.ParticleEmitterComponent
	Platform  *component.PlatformComponent
	Control   *component.PlayerControlComponent
	Static    bool
}

// prefab fills a blueprint with a type's defaults at (x, y)
type prefab func(x, y float64, mats map[string]core.Material) Blueprint

var prefabs = map[string]prefab{
	"player":     playerPrefab,
	"crate":      cratePrefab,
	"platform":   platformPrefab,
	"emitter":    emitterPrefab,
	"prop":       propPrefab,
	"projectile": projectilePrefab,
}

// PrefabTypes lists spawnable type names
func PrefabTypes() []string {
	names := make([]string, 0, len(prefabs))
	for n := range prefabs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func box(w, h float64, mat core.Material) *component.ColliderComponent {
	return &component.ColliderComponent{Size: vmath.V(w, h), Material: mat}
}

func body(mass, gravityScale float64) *component.RigidBodyComponent {
	rb := physics.Body(mass)
	rb.GravityScale = gravityScale
	return &rb
}

func playerPrefab(x, y float64, mats map[string]core.Material) Blueprint {
	return Blueprint{
		Position:  component.At(x, y),
		Velocity:  &component.VelocityComponent{},
		RigidBody: body(parameter.PlayerMass, 1),
		Collider:  box(parameter.PlayerWidth, parameter.PlayerHeight, mats["default"]),
		Sprite:    &component.SpriteComponent{Glyph: '@', Color: 0x7fd4ff, Z: 10},
		Control: &component.PlayerControlComponent{
			MoveForce:  parameter.PlayerMoveForce,
			JumpSpeed:  parameter.PlayerJumpSpeed,
			AirControl: parameter.PlayerAirControl,
			MaxRunX:    parameter.PlayerMaxRunX,
		},
	}
}

func cratePrefab(x, y float64, mats map[string]core.Material) Blueprint {
	return Blueprint{
		Position:  component.At(x, y),
		Velocity:  &component.VelocityComponent{},
		RigidBody: body(parameter.CrateMass, 1),
		Collider:  box(parameter.CrateSize, parameter.CrateSize, mats["wood"]),
		Sprite:    &component.SpriteComponent{Glyph: '▣', Color: 0xb08050, Z: 5},
	}
}

// platformPrefab is kinematic so a velocity override turns it into a moving platform
func platformPrefab(x, y float64, mats map[string]core.Material) Blueprint {
	return Blueprint{
		Position:  component.At(x, y),
		Velocity:  &component.VelocityComponent{},
		RigidBody: body(0, 0),
		Collider:  box(parameter.PlatformWidth, parameter.PlatformHeight, mats["stone"]),
		Platform:  &component.PlatformComponent{OneWay: true},
		Sprite:    &component.SpriteComponent{Glyph: '=', Color: 0xa0a0a0, Z: 1},
	}
}

func emitterPrefab(x, y float64, _ map[string]core.Material) Blueprint {
	em := component.NewEmitter("dust", vmath.Vec2{}, 0, parameter.EmitterInterval, 0, true)
	return Blueprint{
		Position: component.At(x, y),
		Emitter:  &em,
	}
}

func propPrefab(x, y float64, mats map[string]core.Material) Blueprint {
	return Blueprint{
		Position: component.At(x, y),
		Collider: box(parameter.PropSize, parameter.PropSize, mats["stone"]),
		Sprite:   &component.SpriteComponent{Glyph: '▒', Color: 0x808080, Z: 2},
		Static:   true,
	}
}

func projectilePrefab(x, y float64, mats map[string]core.Material) Blueprint {
	return Blueprint{
		Position:  component.At(x, y),
		Velocity:  &component.VelocityComponent{},
		RigidBody: body(parameter.ProjectileMass, 0),
		Collider:  box(parameter.ProjectileSize, parameter.ProjectileSize, mats["rubber"]),
		Sprite:    &component.SpriteComponent{Glyph: '*', Color: 0xffd040, Z: 8},
		Lifetime:  &component.LifetimeComponent{Remaining: parameter.ProjectileLife},
	}
}

// check enforces that colliders are backed by a rigid body or the static tag
func (b *Blueprint) check() error {
	if b.Collider == nil {
		return nil
	}
	if b.RigidBody == nil && !b.Static {
		return &core.ConfigurationError{Scope: b.Type, Field: "collider", Reason: "requires rigid_body or static"}
	}
	return physics.ValidateCollider(core.Entity{}, *b.Collider)
}

// Spawn creates the entity and attaches every component
// A failed attach destroys the partial entity
func (b *Blueprint) Spawn(w *engine.World) (core.Entity, error) {
	if err := b.check(); err != nil {
		return core.Entity{}, err
	}
	e := w.CreateEntity()
	if err := b.attach(w, e); err != nil {
		_ = w.DestroyEntity(e)
		return core.Entity{}, fmt.Errorf("spawn %s: %w", b.Type, err)
	}
	return e, nil
}

func (b *Blueprint) attach(w *engine.World, e core.Entity) error {
	if err := engine.AddComponent(w, e, b.Position); err != nil {
		return err
	}
	if b.Velocity != nil {
		if err := engine.AddComponent(w, e, *b.Velocity); err != nil {
			return err
		}
	}
	if b.RigidBody != nil {
		rb := *b.RigidBody
		rb.LastValidPos = b.Position.Cur
		if b.Velocity != nil {
			rb.LastValidVel = b.Velocity.Linear
		}
		if err := engine.AddComponent(w, e, rb); err != nil {
			return err
		}
	}
	if b.Static {
		if err := engine.AddComponent(w, e, component.StaticComponent{}); err != nil {
			return err
		}
	}
	if b.Platform != nil {
		if err := engine.AddComponent(w, e, *b.Platform); err != nil {
			return err
		}
	}
	if b.Collider != nil {
		if err := physics.AttachCollider(w, e, *b.Collider); err != nil {
			return err
		}
	}
	if b.Sprite != nil {
		if err := engine.AddComponent(w, e, *b.Sprite); err != nil {
			return err
		}
	}
	if b.Lifetime != nil {
		if err := engine.AddComponent(w, e, *b.Lifetime); err != nil {
			return err
		}
	}
	if b.Emitter != nil {
		if err := engine.AddComponent(w, e, *b.Emitter); err != nil {
			return err
		}
	}
	if b.Control != nil {
		if err := engine.AddComponent(w, e, *b.Control); err != nil {
			return err
		}
	}
	return nil
}
