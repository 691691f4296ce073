package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SlopeHeight is the surface height inside a slope cell at local x in [0, size]
// Positive angles rise left to right, negative angles fall; the result is clamped to the cell
func SlopeHeight(angleDeg, size, localX float64) float64 {
	x := mgl64.Clamp(localX, 0, size)
	t := math.Tan(mgl64.DegToRad(math.Abs(angleDeg)))
	var h float64
	if angleDeg >= 0 {
		h = x * t
	} else {
		h = size - x*t
	}
	return mgl64.Clamp(h, 0, size)
}

// SlopeNormal is the outward unit normal of a slope surface
func SlopeNormal(angleDeg float64) Vec2 {
	r := mgl64.DegToRad(angleDeg)
	return Vec2{-math.Sin(r), math.Cos(r)}
}
