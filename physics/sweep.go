package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/skirmish/component"
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/engine"
	"github.com/lixenwraith/skirmish/event"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/tilemap"
	"github.com/lixenwraith/skirmish/vmath"
)

const eps = parameter.ContactEpsilon

// spanOverlap reports interior overlap of two intervals beyond float drift
func spanOverlap(aMin, aMax, bMin, bMax float64) bool {
	return aMin < bMax-eps && bMin < aMax-eps
}

// blocker resolves a broad-phase candidate into a surface that stops dynamic bodies
// Dynamic bodies are not blockers; their overlaps resolve in the pair pass
func (s *System) blocker(w *engine.World, self *body, e core.Entity) (box, start vmath.AABB, ob obstacle, oneWay, ok bool) {
	if e == self.e {
		return
	}
	var vel vmath.Vec2
	if j, isBody := s.slot[e]; isBody {
		other := &s.bodies[j]
		if !other.kinematic && !other.frozen {
			return
		}
		if other.kinematic {
			vel = other.vel.Linear
		}
	}

	col := engine.GetComponentMut[component.ColliderComponent](w, e)
	pos := engine.GetComponentMut[component.PositionComponent](w, e)
	if col == nil || pos == nil {
		return
	}
	if !core.Interacts(self.col.Layer, self.col.Mask, col.Layer, col.Mask) {
		return
	}
	box = col.Bounds(pos.Cur)
	if !box.Valid() {
		return
	}
	start = box.Translate(s.moved[e].Mul(-1))
	if plat := engine.GetComponentMut[component.PlatformComponent](w, e); plat != nil {
		oneWay = plat.OneWay
	}
	ob = obstacle{entity: e, material: col.Material, velocity: vel}
	ok = true
	return
}

// moveX advances a body horizontally, stopping at solid tiles and solid blockers ahead of it
// Slopes and one-way surfaces never block horizontal motion
func (s *System) moveX(w *engine.World, b *body, dx float64) {
	if dx == 0 {
		return
	}
	box := b.bounds()
	width := box.Width()
	target := box.Translate(vmath.V(dx, 0))
	newMin := target.Min[0]

	var hit obstacle
	found := false
	res := s.index.QueryRegion(box.Union(target))
	tiles := s.index.TileMap()

	if b.col.Mask&core.LayerWorld != 0 {
		for _, c := range res.Tiles {
			cell := tiles.At(c.X, c.Y)
			if cell.Kind != tilemap.Solid {
				continue
			}
			if stop, ok := limitX(box, width, tiles.CellBounds(c.X, c.Y), dx, newMin); ok {
				newMin = stop
				hit = obstacle{tile: c, onTile: true, material: tiles.Material(cell.Material)}
				found = true
			}
		}
	}
	for _, e := range res.Entities {
		obox, _, ob, oneWay, ok := s.blocker(w, b, e)
		if !ok || oneWay {
			continue
		}
		if stop, ok := limitX(box, width, obox, dx, newMin); ok {
			newMin = stop
			hit = ob
			found = true
		}
	}

	b.pos.Cur[0] = newMin - b.col.Offset[0]
	if !found {
		return
	}

	n := -math.Copysign(1, dx)
	rel := b.vel.Linear.Sub(hit.velocity)
	s.contacts = append(s.contacts, Contact{
		A:           b.e,
		B:           hit.entity,
		Tile:        hit.tile,
		OnTile:      hit.onTile,
		Normal:      vmath.V(n, 0),
		Penetration: math.Abs(target.Min[0] - newMin),
		RelVel:      rel,
	})
	if rel[0]*n < 0 {
		bounce := core.CombineBounciness(b.col.Material.Bounciness, hit.material.Bounciness)
		b.vel.Linear[0] = respond(b.vel.Linear[0], hit.velocity[0], bounce, s.profile.RestVelocity)
		if math.Abs(rel[0]) > s.profile.RestVelocity {
			w.PushEvent(event.EventSoundCue, b.e, core.SoundBump)
		}
	}
}

// limitX returns the tighter stop for a box moving dx toward o, o must share the box's vertical span
func limitX(box vmath.AABB, width float64, o vmath.AABB, dx, newMin float64) (float64, bool) {
	if !spanOverlap(box.Min[1], box.Max[1], o.Min[1], o.Max[1]) {
		return newMin, false
	}
	if dx > 0 && o.Min[0] >= box.Max[0]-eps {
		if stop := o.Min[0] - width; stop < newMin {
			return stop, true
		}
	}
	if dx < 0 && o.Max[0] <= box.Min[0]+eps {
		if stop := o.Max[0]; stop > newMin {
			return stop, true
		}
	}
	return newMin, false
}

// moveY advances a body vertically after its horizontal pass
// Solid surfaces block both ways, one-way surfaces only bodies that started above them,
// slopes lift a non-rising body onto their surface within the snap reach
func (s *System) moveY(w *engine.World, b *body, dy, step float64) {
	box := b.bounds()
	height := box.Height()
	desired := box.Min[1] + dy
	newMin := desired
	falling := b.vel.Linear[1] <= 0
	snapReach := s.profile.SlopeSnap

	region := box.Union(box.Translate(vmath.V(0, dy)))
	if falling {
		region = region.ExpandDown(snapReach)
	}
	res := s.index.QueryRegion(region)
	tiles := s.index.TileMap()

	var floor, ceiling, snap obstacle
	floorFound, ceilingFound := false, false
	snapY := math.Inf(-1)

	// support offers a surface top beneath the body, blocking when above the destination
	support := func(top float64, ob obstacle) {
		if top > newMin {
			newMin = top
			floor = ob
			floorFound = true
		} else if top > snapY {
			snapY = top
			snap = ob
		}
	}
	// roof offers a surface bottom above the body
	roof := func(bottom float64, ob obstacle) {
		if stop := bottom - height; stop < newMin {
			newMin = stop
			ob.normal = vmath.V(0, -1)
			ceiling = ob
			ceilingFound = true
		}
	}

	if b.col.Mask&core.LayerWorld != 0 {
		for _, c := range res.Tiles {
			cell := tiles.At(c.X, c.Y)
			cb := tiles.CellBounds(c.X, c.Y)
			if !spanOverlap(box.Min[0], box.Max[0], cb.Min[0], cb.Max[0]) {
				continue
			}
			ob := obstacle{tile: c, onTile: true, material: tiles.Material(cell.Material), normal: vmath.V(0, 1)}

			switch cell.Kind {
			case tilemap.Solid:
				if dy <= 0 && cb.Max[1] <= box.Min[1]+eps {
					support(cb.Max[1], ob)
				} else if dy > 0 && cb.Min[1] >= box.Max[1]-eps {
					roof(cb.Min[1], ob)
				}
			case tilemap.OneWay:
				if dy <= 0 && cb.Max[1] <= box.Min[1]+eps {
					support(cb.Max[1], ob)
				}
			case tilemap.Slope:
				if !falling {
					continue
				}
				// Highest surface point under the body: the leading edge on a rise
				x := box.Max[0]
				if cell.Angle < 0 {
					x = box.Min[0]
				}
				surf := tiles.SurfaceY(c.X, c.Y, mgl64.Clamp(x, cb.Min[0], cb.Max[0]))
				ob.normal = vmath.SlopeNormal(cell.Angle)
				ob.slope = true
				if surf > newMin && surf-box.Min[1] > snapReach+eps {
					// Too far below the surface to be lifted
					continue
				}
				support(surf, ob)
			}
		}
	}

	for _, e := range res.Entities {
		obox, start, ob, oneWay, ok := s.blocker(w, b, e)
		if !ok || !spanOverlap(box.Min[0], box.Max[0], obox.Min[0], obox.Max[0]) {
			continue
		}
		if dy <= 0 && start.Max[1] <= box.Min[1]+eps {
			ob.normal = vmath.V(0, 1)
			support(obox.Max[1], ob)
		} else if dy > 0 && !oneWay && start.Min[1] >= box.Max[1]-eps {
			roof(obox.Min[1], ob)
		}
	}

	// Stay glued to a descending slope the body was standing on
	if !floorFound && !ceilingFound && falling && b.wasGrounded && snap.slope && desired-snapY <= snapReach+eps {
		newMin = snapY
		floor = snap
		floorFound = true
	}

	b.pos.Cur[1] = newMin - b.col.Offset[1]

	if floorFound {
		b.grounded = true
		rel := b.vel.Linear.Sub(floor.velocity)
		s.contacts = append(s.contacts, Contact{
			A:           b.e,
			B:           floor.entity,
			Tile:        floor.tile,
			OnTile:      floor.onTile,
			Normal:      floor.normal,
			Penetration: math.Max(newMin-desired, 0),
			RelVel:      rel,
		})
		if rel[1] < 0 {
			bounce := core.CombineBounciness(b.col.Material.Bounciness, floor.material.Bounciness)
			b.vel.Linear[1] = respond(b.vel.Linear[1], floor.velocity[1], bounce, s.profile.RestVelocity)
		}
		friction := core.CombineFriction(b.col.Material.Friction, floor.material.Friction)
		b.vel.Linear[0] = applyFriction(b.vel.Linear[0], floor.velocity[0], friction, s.profile.Gravity[1]*b.rb.GravityScale, step)
	}

	if ceilingFound {
		rel := b.vel.Linear.Sub(ceiling.velocity)
		s.contacts = append(s.contacts, Contact{
			A:           b.e,
			B:           ceiling.entity,
			Tile:        ceiling.tile,
			OnTile:      ceiling.onTile,
			Normal:      ceiling.normal,
			Penetration: math.Max(desired-newMin, 0),
			RelVel:      rel,
		})
		if rel[1] > 0 {
			bounce := core.CombineBounciness(b.col.Material.Bounciness, ceiling.material.Bounciness)
			b.vel.Linear[1] = respond(b.vel.Linear[1], ceiling.velocity[1], bounce, s.profile.RestVelocity)
			if rel[1] > s.profile.RestVelocity {
				w.PushEvent(event.EventSoundCue, b.e, core.SoundBump)
			}
		}
	}
}
