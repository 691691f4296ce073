// Package vmath holds the float geometry shared by physics, spatial indexing and rendering
// Vectors are mgl64 values; y points up
package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is the world-space vector type
type Vec2 = mgl64.Vec2

// V builds a Vec2
func V(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Finite reports whether both components are neither NaN nor Inf
func Finite(v Vec2) bool {
	return IsFinite(v[0]) && IsFinite(v[1])
}

// IsFinite reports whether f is neither NaN nor Inf
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ClampAxes clamps each component into [-limit, limit] independently
// A non-positive limit on an axis leaves that axis unclamped
func ClampAxes(v, limit Vec2) Vec2 {
	for i := 0; i < 2; i++ {
		if limit[i] <= 0 {
			continue
		}
		v[i] = mgl64.Clamp(v[i], -limit[i], limit[i])
	}
	return v
}

// Lerp interpolates between a and b by t
func Lerp(a, b Vec2, t float64) Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

// Approach moves value toward zero by at most step, never crossing it
func Approach(value, step float64) float64 {
	if value > 0 {
		return math.Max(value-step, 0)
	}
	return math.Min(value+step, 0)
}

// FromAngle returns a unit vector at deg degrees counterclockwise from +x
func FromAngle(deg float64) Vec2 {
	r := mgl64.DegToRad(deg)
	return Vec2{math.Cos(r), math.Sin(r)}
}
