package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/engine"
	"github.com/lixenwraith/skirmish/tilemap"
	"github.com/lixenwraith/skirmish/vmath"
)

// Contact is one resolved collision of the current tick
// B is zero for tile contacts; Normal points from the obstacle toward A
type Contact struct {
	A           core.Entity
	B           core.Entity
	Tile        tilemap.Coord
	OnTile      bool
	Normal      vmath.Vec2
	Penetration float64    // Depth the motion would have reached without resolution
	RelVel      vmath.Vec2 // Velocity of A relative to the obstacle before response
}

// obstacle is a blocking surface found by a sweep pass
type obstacle struct {
	entity   core.Entity
	tile     tilemap.Coord
	onTile   bool
	material core.Material
	velocity vmath.Vec2
	normal   vmath.Vec2
	slope    bool
}

// separatePair pushes two overlapping dynamic bodies apart along the axis of least penetration
// Correction and impulse are split by inverse mass; equal penetration resolves horizontally
// Shifts stop at tiles and non-dynamic blockers, a body that cannot take its share takes no impulse
func (s *System) separatePair(w *engine.World, a, b *body) (Contact, bool) {
	boxA, boxB := a.bounds(), b.bounds()
	if !boxA.Overlaps(boxB) {
		return Contact{}, false
	}

	pen := boxA.Penetration(boxB)
	axis := 0
	if pen[1] < pen[0] {
		axis = 1
	}
	// n points from A to B
	n := 1.0
	if boxA.Center()[axis] > boxB.Center()[axis] {
		n = -1
	}

	invA, invB := a.rb.InvMass(), b.rb.InvMass()
	if axis == 1 {
		// A body already standing on the ground is not pressed into it
		if n > 0 && a.grounded {
			invA = 0
		} else if n < 0 && b.grounded {
			invB = 0
		}
	}
	total := invA + invB
	if total == 0 {
		return Contact{}, false
	}

	depth := pen[axis]
	shareB := depth * invB / total
	moveB := 0.0
	if invB > 0 {
		moveB = s.reach(w, b, axis, n*shareB)
		b.pos.Cur[axis] += moveB
	}
	moveA := 0.0
	if invA > 0 {
		moveA = s.reach(w, a, axis, -n*(depth-math.Abs(moveB)))
		a.pos.Cur[axis] += moveA
	}
	if left := depth - math.Abs(moveA) - math.Abs(moveB); left > eps && invB > 0 {
		extra := s.reach(w, b, axis, n*left)
		b.pos.Cur[axis] += extra
		moveB += extra
	}
	s.index.Update(a.e, a.bounds())
	s.index.Update(b.e, b.bounds())

	// A blocked body behaves as immovable for the impulse
	if invA > 0 && math.Abs(moveA) < depth-shareB-eps {
		invA = 0
	}
	if invB > 0 && math.Abs(moveB) < shareB-eps {
		invB = 0
	}

	rel := a.vel.Linear.Sub(b.vel.Linear)
	closing := (b.vel.Linear[axis] - a.vel.Linear[axis]) * n
	if total = invA + invB; closing < 0 && total > 0 {
		e := 0.0
		bounce := core.CombineBounciness(a.col.Material.Bounciness, b.col.Material.Bounciness)
		if -closing > s.profile.RestVelocity {
			e = bounce
		}
		j := -(1 + e) * closing / total
		a.vel.Linear[axis] -= j * invA * n
		b.vel.Linear[axis] += j * invB * n
	}

	if axis == 1 {
		// The upper body rests on the lower one
		if n > 0 {
			b.grounded = true
		} else {
			a.grounded = true
		}
	}

	var normal vmath.Vec2
	normal[axis] = -n
	return Contact{A: a.e, B: b.e, Normal: normal, Penetration: depth, RelVel: rel}, true
}

// reach clamps a separation shift of d along axis so b does not enter a tile or a non-dynamic blocker
// One-way surfaces and slopes stop only downward shifts
func (s *System) reach(w *engine.World, b *body, axis int, d float64) float64 {
	if d == 0 {
		return 0
	}
	box := b.bounds()
	var shift vmath.Vec2
	shift[axis] = d
	res := s.index.QueryRegion(box.Union(box.Translate(shift)))
	tiles := s.index.TileMap()
	cross := 1 - axis
	down := axis == 1 && d < 0

	limit := func(o vmath.AABB) {
		if !spanOverlap(box.Min[cross], box.Max[cross], o.Min[cross], o.Max[cross]) {
			return
		}
		if d > 0 && o.Min[axis] >= box.Max[axis]-eps {
			d = math.Min(d, math.Max(o.Min[axis]-box.Max[axis], 0))
		} else if d < 0 && o.Max[axis] <= box.Min[axis]+eps {
			d = math.Max(d, math.Min(o.Max[axis]-box.Min[axis], 0))
		}
	}

	if b.col.Mask&core.LayerWorld != 0 {
		for _, c := range res.Tiles {
			cell := tiles.At(c.X, c.Y)
			cb := tiles.CellBounds(c.X, c.Y)
			switch cell.Kind {
			case tilemap.Solid:
				limit(cb)
			case tilemap.OneWay:
				if down {
					limit(cb)
				}
			case tilemap.Slope:
				if !down || !spanOverlap(box.Min[0], box.Max[0], cb.Min[0], cb.Max[0]) {
					continue
				}
				x := box.Max[0]
				if cell.Angle < 0 {
					x = box.Min[0]
				}
				surf := tiles.SurfaceY(c.X, c.Y, mgl64.Clamp(x, cb.Min[0], cb.Max[0]))
				if surf <= box.Min[1]+eps {
					d = math.Max(d, math.Min(surf-box.Min[1], 0))
				}
			}
		}
	}
	for _, e := range res.Entities {
		obox, _, _, oneWay, ok := s.blocker(w, b, e)
		if !ok || (oneWay && !down) {
			continue
		}
		limit(obox)
	}
	return d
}
