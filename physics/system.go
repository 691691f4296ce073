// Package physics steps rigid bodies against the tile map and each other at a fixed tick
package physics

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/skirmish/component"
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/engine"
	"github.com/lixenwraith/skirmish/event"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/spatial"
	"github.com/lixenwraith/skirmish/status"
	"github.com/lixenwraith/skirmish/vmath"
)

// body is the per-tick working set of one simulated entity
type body struct {
	e   core.Entity
	pos *component.PositionComponent
	vel *component.VelocityComponent
	rb  *component.RigidBodyComponent
	col *component.ColliderComponent // Nil for bodies that never collide

	start       vmath.Vec2
	limit       vmath.Vec2
	kinematic   bool
	frozen      bool // Collider failed validation, treated as static
	wasGrounded bool
	grounded    bool
}

func (b *body) bounds() vmath.AABB {
	return b.col.Bounds(b.pos.Cur)
}

// System integrates and resolves all rigid bodies once per tick
// Order: integrate, move kinematic bodies, sweep dynamic bodies against tiles and blockers in creation order,
// separate overlapping dynamic pairs, commit
type System struct {
	profile Profile
	index   *spatial.Index

	bodies   []body
	slot     map[core.Entity]int
	moved    map[core.Entity]vmath.Vec2 // Kinematic displacement this tick
	contacts []Contact
	pairs    []core.Entity
	unbacked map[core.Entity]struct{} // Colliders without RigidBody or Static, warned once
	invalid  map[core.Entity]struct{} // Bodies with a degenerate collider, warned once

	statBodies   *atomic.Int64
	statContacts *atomic.Int64
	statRecover  *atomic.Int64
}

// NewSystem creates a physics system stepping against index and its tile map
func NewSystem(profile Profile, index *spatial.Index, reg *status.Registry) *System {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &System{
		profile:      profile,
		index:        index,
		slot:         make(map[core.Entity]int),
		moved:        make(map[core.Entity]vmath.Vec2),
		unbacked:     make(map[core.Entity]struct{}),
		invalid:      make(map[core.Entity]struct{}),
		statBodies:   reg.Ints.Get("physics.bodies"),
		statContacts: reg.Ints.Get("physics.contacts"),
		statRecover:  reg.Ints.Get("physics.recoveries"),
	}
}

// Priority places physics after control and before particles
func (s *System) Priority() int {
	return parameter.PriorityPhysics
}

// Profile returns the active tuning
func (s *System) Profile() Profile {
	return s.profile
}

// SetProfile replaces tuning between ticks
func (s *System) SetProfile(p Profile) {
	s.profile = p
}

// Index returns the spatial index rebuilt each tick
func (s *System) Index() *spatial.Index {
	return s.index
}

// Contacts returns the contacts of the last tick, valid until the next Update
func (s *System) Contacts() []Contact {
	return s.contacts
}

// Reset forgets per-world state, called on level transition
func (s *System) Reset() {
	s.bodies = s.bodies[:0]
	s.contacts = s.contacts[:0]
	clear(s.slot)
	clear(s.moved)
	clear(s.unbacked)
	clear(s.invalid)
}

// Update runs one physics step
func (s *System) Update(w *engine.World, dt time.Duration) {
	step := dt.Seconds()
	s.contacts = s.contacts[:0]
	s.index.Rebuild(w)
	s.gather(w, step)
	s.warnUnbacked(w)

	// Kinematic bodies move first so dynamic bodies resolve against their end-of-tick placement
	for i := range s.bodies {
		b := &s.bodies[i]
		if !b.kinematic || b.frozen {
			continue
		}
		d := b.vel.Linear.Mul(step)
		b.pos.Cur = b.pos.Cur.Add(d)
		s.moved[b.e] = d
		if b.col != nil {
			s.index.Update(b.e, b.bounds())
		}
	}

	for i := range s.bodies {
		b := &s.bodies[i]
		if b.kinematic || b.frozen {
			continue
		}
		d := b.vel.Linear.Mul(step)
		if b.col == nil {
			b.pos.Cur = b.pos.Cur.Add(d)
			continue
		}
		s.moveX(w, b, d[0])
		s.moveY(w, b, d[1], step)
		s.index.Update(b.e, b.bounds())
	}

	s.separateDynamic(w)
	s.commit(w, step)

	s.statBodies.Store(int64(len(s.bodies)))
	s.statContacts.Store(int64(len(s.contacts)))
}

// gather collects bodies in creation order and integrates their velocity
func (s *System) gather(w *engine.World, step float64) {
	s.bodies = s.bodies[:0]
	clear(s.slot)
	clear(s.moved)

	for e, row := range engine.Query3[component.PositionComponent, component.VelocityComponent, component.RigidBodyComponent](w) {
		b := body{
			e:           e,
			pos:         row.A,
			vel:         row.B,
			rb:          row.C,
			col:         engine.GetComponentMut[component.ColliderComponent](w, e),
			kinematic:   row.C.Kinematic(),
			wasGrounded: row.C.Grounded,
		}
		b.pos.Prev = b.pos.Cur
		b.start = b.pos.Cur
		if vmath.Finite(b.pos.Cur) && vmath.Finite(b.vel.Linear) {
			b.rb.LastValidPos = b.pos.Cur
			b.rb.LastValidVel = b.vel.Linear
		}
		b.limit = s.profile.speedLimit(b.rb.MaxSpeed)

		if b.col != nil && ValidateCollider(e, *b.col) != nil {
			b.frozen = true
			b.vel.Linear = vmath.Vec2{}
			b.rb.Force = vmath.Vec2{}
			if _, warned := s.invalid[e]; !warned {
				s.invalid[e] = struct{}{}
				w.Warn(core.Warning{
					Kind:   core.WarningInvalidCollider,
					Entity: e,
					Detail: fmt.Sprintf("collider size %v offset %v, treated as static", b.col.Size, b.col.Offset),
				})
			}
		} else {
			Integrate(b.rb, b.vel, s.profile.Gravity, b.limit, step)
			if !vmath.Finite(b.vel.Linear) || !vmath.Finite(b.pos.Cur) {
				s.recover(w, &b)
			}
		}

		s.slot[e] = len(s.bodies)
		s.bodies = append(s.bodies, b)
	}
}

// warnUnbacked reports colliders that have neither RigidBody nor Static, once per entity
// They never enter the body set, so sweeps treat them as static blockers
func (s *System) warnUnbacked(w *engine.World) {
	for e := range engine.Query1[component.ColliderComponent](w) {
		if engine.HasComponent[component.RigidBodyComponent](w, e) || engine.HasComponent[component.StaticComponent](w, e) {
			continue
		}
		if _, warned := s.unbacked[e]; warned {
			continue
		}
		s.unbacked[e] = struct{}{}
		w.Warn(core.Warning{
			Kind:   core.WarningUnbackedCollider,
			Entity: e,
			Detail: "collider without rigid_body or static, treated as static",
		})
	}
}

// separateDynamic resolves overlaps between dynamic bodies, each pair once, lower creation order first
func (s *System) separateDynamic(w *engine.World) {
	for i := range s.bodies {
		a := &s.bodies[i]
		if !a.dynamicCollider() {
			continue
		}
		// Copied since pair resolution queries the index again
		s.pairs = append(s.pairs[:0], s.index.QueryRegion(a.bounds()).Entities...)
		for _, e := range s.pairs {
			j, ok := s.slot[e]
			if !ok || j <= i {
				continue
			}
			b := &s.bodies[j]
			if !b.dynamicCollider() {
				continue
			}
			if !core.Interacts(a.col.Layer, a.col.Mask, b.col.Layer, b.col.Mask) {
				continue
			}
			if c, hit := s.separatePair(w, a, b); hit {
				s.contacts = append(s.contacts, c)
			}
		}
	}
}

func (b *body) dynamicCollider() bool {
	return b.col != nil && !b.kinematic && !b.frozen
}

// commit clamps displacement, validates state and writes grounded flags
func (s *System) commit(w *engine.World, step float64) {
	for i := range s.bodies {
		b := &s.bodies[i]
		if b.frozen {
			continue
		}

		if vmath.Finite(b.pos.Cur) {
			raw := b.pos.Cur.Sub(b.start)
			if d := vmath.ClampAxes(raw, b.limit.Mul(step)); d != raw {
				b.pos.Cur = b.start.Add(d)
			}
		}
		if !vmath.Finite(b.pos.Cur) || !vmath.Finite(b.vel.Linear) {
			s.recover(w, b)
			continue
		}
		b.rb.LastValidPos = b.pos.Cur
		b.rb.LastValidVel = b.vel.Linear

		b.rb.Grounded = b.grounded
		if b.grounded && !b.wasGrounded && !b.kinematic {
			w.PushEvent(event.EventSoundCue, b.e, core.SoundLand)
		}
	}
}

// recover restores the last committed finite state and zeroes velocity
func (s *System) recover(w *engine.World, b *body) {
	detail := fmt.Sprintf("pos %v vel %v", b.pos.Cur, b.vel.Linear)
	b.pos.Cur = b.rb.LastValidPos
	if !vmath.Finite(b.pos.Cur) {
		b.pos.Cur = vmath.Vec2{}
	}
	b.pos.Prev = b.pos.Cur
	b.start = b.pos.Cur
	b.vel.Linear = vmath.Vec2{}
	b.rb.Force = vmath.Vec2{}
	b.rb.LastValidVel = vmath.Vec2{}
	b.frozen = true
	s.statRecover.Add(1)
	w.Warn(core.Warning{Kind: core.WarningInvalidState, Entity: b.e, Detail: detail})
}
