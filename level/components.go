package level

import (
	"errors"
	"sort"
	"unicode/utf8"

	"github.com/lixenwraith/skirmish/component"
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/toml"
	"github.com/lixenwraith/skirmish/vmath"
)

// overrideContext carries the level tables component overrides resolve names against
type overrideContext struct {
	layers    core.LayerTable
	materials map[string]core.Material
	effects   map[string]bool
}

type override func(ctx *overrideContext, bp *Blueprint, raw map[string]any) error

var overrides = map[string]override{
	"position":         overridePosition,
	"velocity":         overrideVelocity,
	"collider":         overrideCollider,
	"rigid_body":       overrideRigidBody,
	"sprite":           overrideSprite,
	"lifetime":         overrideLifetime,
	"particle_emitter": overrideEmitter,
	"platform":         overridePlatform,
	"static":           overrideStatic,
	"player_control":   overrideControl,
}

// ComponentNames lists the component names accepted in spawn overrides
func ComponentNames() []string {
	names := make([]string, 0, len(overrides))
	for n := range overrides {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// applyOverrides runs component overrides in name order so errors are reproducible
func applyOverrides(ctx *overrideContext, bp *Blueprint, comps map[string]map[string]any) error {
	names := make([]string, 0, len(comps))
	for n := range comps {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		fn, ok := overrides[name]
		if !ok {
			return &core.ConfigurationError{Scope: bp.Type, Field: name, Reason: "unknown component"}
		}
		if err := fn(ctx, bp, comps[name]); err != nil {
			return err
		}
	}
	return nil
}

// decodeOverride decodes raw over the prefilled spec, reporting unknown keys as configuration errors
func decodeOverride(name string, raw map[string]any, spec any) error {
	err := toml.DecodeStrict(raw, spec)
	if err == nil {
		return nil
	}
	var unknown *toml.UnknownFieldError
	if errors.As(err, &unknown) {
		return &core.ConfigurationError{Scope: name, Field: unknown.Field, Reason: "unknown field"}
	}
	return &core.ConfigurationError{Scope: name, Reason: err.Error()}
}

type xySpec struct {
	X float64 `toml:"x"`
	Y float64 `toml:"y"`
}

func overridePosition(_ *overrideContext, bp *Blueprint, raw map[string]any) error {
	spec := xySpec{X: bp.Position.Cur[0], Y: bp.Position.Cur[1]}
	if err := decodeOverride("position", raw, &spec); err != nil {
		return err
	}
	bp.Position = component.At(spec.X, spec.Y)
	return nil
}

func overrideVelocity(_ *overrideContext, bp *Blueprint, raw map[string]any) error {
	var spec xySpec
	if bp.Velocity != nil {
		spec = xySpec{X: bp.Velocity.Linear[0], Y: bp.Velocity.Linear[1]}
	}
	if err := decodeOverride("velocity", raw, &spec); err != nil {
		return err
	}
	bp.Velocity = &component.VelocityComponent{Linear: vmath.V(spec.X, spec.Y)}
	return nil
}

type colliderSpec struct {
	Width      float64    `toml:"width"`
	Height     float64    `toml:"height"`
	Offset     [2]float64 `toml:"offset"`
	Material   string     `toml:"material"`
	Friction   *float64   `toml:"friction"`
	Bounciness *float64   `toml:"bounciness"`
	Layer      string     `toml:"layer"`
	Mask       []string   `toml:"mask"`
}

func overrideCollider(ctx *overrideContext, bp *Blueprint, raw map[string]any) error {
	col := component.ColliderComponent{Material: ctx.materials["default"]}
	if bp.Collider != nil {
		col = *bp.Collider
	}
	spec := colliderSpec{Width: col.Size[0], Height: col.Size[1], Offset: col.Offset}
	if err := decodeOverride("collider", raw, &spec); err != nil {
		return err
	}

	col.Size = vmath.V(spec.Width, spec.Height)
	col.Offset = spec.Offset
	if spec.Material != "" {
		m, ok := ctx.materials[spec.Material]
		if !ok {
			return &core.ConfigurationError{Scope: "collider", Field: "material", Value: spec.Material, Reason: "unknown material"}
		}
		col.Material = m
	}
	if spec.Friction != nil {
		col.Material.Friction = *spec.Friction
	}
	if spec.Bounciness != nil {
		col.Material.Bounciness = *spec.Bounciness
	}
	if spec.Layer != "" {
		bit, err := ctx.layers.Bit(spec.Layer)
		if err != nil {
			return &core.ConfigurationError{Scope: "collider", Field: "layer", Value: spec.Layer, Reason: err.Error()}
		}
		col.Layer = bit
		col.Mask = ctx.layers.DefaultMask(spec.Layer)
	}
	if spec.Mask != nil {
		mask, err := ctx.layers.MaskOf(spec.Mask)
		if err != nil {
			return &core.ConfigurationError{Scope: "collider", Field: "mask", Value: spec.Mask, Reason: err.Error()}
		}
		col.Mask = mask
	}
	bp.Collider = &col
	return nil
}

type rigidBodySpec struct {
	Mass         float64    `toml:"mass"`
	GravityScale float64    `toml:"gravity_scale"`
	MaxSpeed     [2]float64 `toml:"max_speed"`
}

// overrideRigidBody makes the entity dynamic, dropping a static tag
func overrideRigidBody(_ *overrideContext, bp *Blueprint, raw map[string]any) error {
	rb := component.RigidBodyComponent{Mass: 1, GravityScale: 1}
	if bp.RigidBody != nil {
		rb = *bp.RigidBody
	}
	spec := rigidBodySpec{Mass: rb.Mass, GravityScale: rb.GravityScale, MaxSpeed: rb.MaxSpeed}
	if err := decodeOverride("rigid_body", raw, &spec); err != nil {
		return err
	}
	if !vmath.IsFinite(spec.Mass) || !vmath.IsFinite(spec.GravityScale) || !vmath.Finite(spec.MaxSpeed) {
		return &core.ConfigurationError{Scope: "rigid_body", Reason: "values must be finite"}
	}
	if spec.MaxSpeed[0] < 0 || spec.MaxSpeed[1] < 0 {
		return &core.ConfigurationError{Scope: "rigid_body", Field: "max_speed", Value: spec.MaxSpeed, Reason: "must not be negative"}
	}
	rb.Mass, rb.GravityScale, rb.MaxSpeed = spec.Mass, spec.GravityScale, spec.MaxSpeed
	bp.RigidBody = &rb
	if bp.Velocity == nil {
		bp.Velocity = &component.VelocityComponent{}
	}
	bp.Static = false
	return nil
}

type spriteSpec struct {
	Handle string `toml:"handle"`
	Glyph  string `toml:"glyph"`
	Color  string `toml:"color"`
	FlipX  bool   `toml:"flip_x"`
	FlipY  bool   `toml:"flip_y"`
	Z      int    `toml:"z"`
}

func overrideSprite(_ *overrideContext, bp *Blueprint, raw map[string]any) error {
	var sp component.SpriteComponent
	if bp.Sprite != nil {
		sp = *bp.Sprite
	}
	spec := spriteSpec{Handle: sp.Handle, Color: FormatColor(sp.Color), FlipX: sp.FlipX, FlipY: sp.FlipY, Z: sp.Z}
	if sp.Glyph != 0 {
		spec.Glyph = string(sp.Glyph)
	}
	if err := decodeOverride("sprite", raw, &spec); err != nil {
		return err
	}

	if spec.Glyph != "" {
		r, size := utf8.DecodeRuneInString(spec.Glyph)
		if size != len(spec.Glyph) || r == utf8.RuneError {
			return &core.ConfigurationError{Scope: "sprite", Field: "glyph", Value: spec.Glyph, Reason: "must be a single character"}
		}
		sp.Glyph = r
	}
	c, err := ParseColor(spec.Color)
	if err != nil {
		return &core.ConfigurationError{Scope: "sprite", Field: "color", Value: spec.Color, Reason: err.Error()}
	}
	sp.Handle, sp.Color, sp.FlipX, sp.FlipY, sp.Z = spec.Handle, c, spec.FlipX, spec.FlipY, spec.Z
	bp.Sprite = &sp
	return nil
}

type lifetimeSpec struct {
	Remaining float64 `toml:"remaining"`
}

func overrideLifetime(_ *overrideContext, bp *Blueprint, raw map[string]any) error {
	var spec lifetimeSpec
	if bp.Lifetime != nil {
		spec.Remaining = bp.Lifetime.Remaining
	}
	if err := decodeOverride("lifetime", raw, &spec); err != nil {
		return err
	}
	if !(spec.Remaining > 0) || !vmath.IsFinite(spec.Remaining) {
		return &core.ConfigurationError{Scope: "lifetime", Field: "remaining", Value: spec.Remaining, Reason: "must be positive"}
	}
	bp.Lifetime = &component.LifetimeComponent{Remaining: spec.Remaining}
	return nil
}

type emitterSpec struct {
	Effect    string     `toml:"effect"`
	Offset    [2]float64 `toml:"offset"`
	Delay     float64    `toml:"delay"`
	Interval  float64    `toml:"interval"`
	Emissions int        `toml:"emissions"`
	Autostart bool       `toml:"autostart"`
}

func overrideEmitter(ctx *overrideContext, bp *Blueprint, raw map[string]any) error {
	spec := emitterSpec{Autostart: true}
	if bp.Emitter != nil {
		em := bp.Emitter
		spec = emitterSpec{Effect: em.Effect, Offset: em.Offset, Delay: em.Delay, Interval: em.Interval, Emissions: em.Emissions, Autostart: em.Autostart}
	}
	if err := decodeOverride("particle_emitter", raw, &spec); err != nil {
		return err
	}
	if !ctx.effects[spec.Effect] {
		return &core.ConfigurationError{Scope: "particle_emitter", Field: "effect", Value: spec.Effect, Reason: "unknown effect"}
	}
	if spec.Delay < 0 || spec.Interval < 0 || spec.Emissions < 0 {
		return &core.ConfigurationError{Scope: "particle_emitter", Reason: "delay, interval and emissions must not be negative"}
	}
	em := component.NewEmitter(spec.Effect, spec.Offset, spec.Delay, spec.Interval, spec.Emissions, spec.Autostart)
	bp.Emitter = &em
	return nil
}

type platformSpec struct {
	OneWay bool `toml:"one_way"`
}

func overridePlatform(_ *overrideContext, bp *Blueprint, raw map[string]any) error {
	var spec platformSpec
	if bp.Platform != nil {
		spec.OneWay = bp.Platform.OneWay
	}
	if err := decodeOverride("platform", raw, &spec); err != nil {
		return err
	}
	bp.Platform = &component.PlatformComponent{OneWay: spec.OneWay}
	return nil
}

// overrideStatic pins the entity, removing any rigid body
func overrideStatic(_ *overrideContext, bp *Blueprint, raw map[string]any) error {
	var spec struct{}
	if err := decodeOverride("static", raw, &spec); err != nil {
		return err
	}
	bp.Static = true
	bp.RigidBody = nil
	bp.Velocity = nil
	return nil
}

type controlSpec struct {
	MoveForce  float64 `toml:"move_force"`
	JumpSpeed  float64 `toml:"jump_speed"`
	AirControl float64 `toml:"air_control"`
	MaxRunX    float64 `toml:"max_run_x"`
}

func overrideControl(_ *overrideContext, bp *Blueprint, raw map[string]any) error {
	var spec controlSpec
	if bp.Control != nil {
		c := bp.Control
		spec = controlSpec{MoveForce: c.MoveForce, JumpSpeed: c.JumpSpeed, AirControl: c.AirControl, MaxRunX: c.MaxRunX}
	}
	if err := decodeOverride("player_control", raw, &spec); err != nil {
		return err
	}
	bp.Control = &component.PlayerControlComponent{
		MoveForce:  spec.MoveForce,
		JumpSpeed:  spec.JumpSpeed,
		AirControl: spec.AirControl,
		MaxRunX:    spec.MaxRunX,
	}
	return nil
}
