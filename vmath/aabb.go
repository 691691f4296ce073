package vmath

import "math"

// AABB is an axis-aligned box, Min inclusive and Max exclusive for overlap tests
type AABB struct {
	Min Vec2
	Max Vec2
}

// NewAABB builds a box from its bottom-left corner and size
func NewAABB(origin, size Vec2) AABB {
	return AABB{Min: origin, Max: origin.Add(size)}
}

func (b AABB) Width() float64  { return b.Max[0] - b.Min[0] }
func (b AABB) Height() float64 { return b.Max[1] - b.Min[1] }

// Center returns the box midpoint
func (b AABB) Center() Vec2 {
	return Vec2{(b.Min[0] + b.Max[0]) * 0.5, (b.Min[1] + b.Max[1]) * 0.5}
}

// Valid reports a finite box with positive extent
func (b AABB) Valid() bool {
	return Finite(b.Min) && Finite(b.Max) && b.Max[0] > b.Min[0] && b.Max[1] > b.Min[1]
}

// Overlaps reports strict interior intersection, touching edges do not overlap
func (b AABB) Overlaps(o AABB) bool {
	return b.Min[0] < o.Max[0] && o.Min[0] < b.Max[0] &&
		b.Min[1] < o.Max[1] && o.Min[1] < b.Max[1]
}

// OverlapsX reports strict intersection of the horizontal spans
func (b AABB) OverlapsX(o AABB) bool {
	return b.Min[0] < o.Max[0] && o.Min[0] < b.Max[0]
}

// Penetration returns the overlap extent on each axis, zero or negative when apart
func (b AABB) Penetration(o AABB) Vec2 {
	return Vec2{
		math.Min(b.Max[0], o.Max[0]) - math.Max(b.Min[0], o.Min[0]),
		math.Min(b.Max[1], o.Max[1]) - math.Max(b.Min[1], o.Min[1]),
	}
}

// Union returns the smallest box containing both
func (b AABB) Union(o AABB) AABB {
	return AABB{
		Min: Vec2{math.Min(b.Min[0], o.Min[0]), math.Min(b.Min[1], o.Min[1])},
		Max: Vec2{math.Max(b.Max[0], o.Max[0]), math.Max(b.Max[1], o.Max[1])},
	}
}

// Translate offsets the box
func (b AABB) Translate(d Vec2) AABB {
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Expand grows the box by m on every side
func (b AABB) Expand(m float64) AABB {
	return AABB{
		Min: Vec2{b.Min[0] - m, b.Min[1] - m},
		Max: Vec2{b.Max[0] + m, b.Max[1] + m},
	}
}

// ExpandDown grows the box downward only
func (b AABB) ExpandDown(m float64) AABB {
	b.Min[1] -= m
	return b
}
