package component

import "github.com/lixenwraith/skirmish/vmath"

// PositionComponent is the bottom-left reference point of an entity in world units
// Prev holds the position committed by the previous tick for render interpolation
type PositionComponent struct {
	Cur  vmath.Vec2
	Prev vmath.Vec2
}

// At builds a position with no motion history
func At(x, y float64) PositionComponent {
	p := vmath.V(x, y)
	return PositionComponent{Cur: p, Prev: p}
}

// Interpolate blends the last two committed positions, alpha in [0, 1)
func (p PositionComponent) Interpolate(alpha float64) vmath.Vec2 {
	return vmath.Lerp(p.Prev, p.Cur, alpha)
}
