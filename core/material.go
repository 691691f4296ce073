package core

import "math"

// Material holds surface response coefficients shared by colliders and tiles
type Material struct {
	Friction   float64 `toml:"friction" msgpack:"friction"`
	Bounciness float64 `toml:"bounciness" msgpack:"bounciness"`
}

// CombineFriction mixes two friction coefficients with a geometric mean
func CombineFriction(a, b float64) float64 {
	return math.Sqrt(math.Max(a, 0) * math.Max(b, 0))
}

// CombineBounciness takes the livelier of two surfaces
func CombineBounciness(a, b float64) float64 {
	return math.Max(a, b)
}
