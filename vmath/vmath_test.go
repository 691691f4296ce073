package vmath

import (
	"math"
	"testing"
)

func TestAABB_OverlapIsStrict(t *testing.T) {
	a := NewAABB(V(0, 0), V(1, 1))
	touching := NewAABB(V(1, 0), V(1, 1))
	inside := NewAABB(V(0.5, 0.5), V(1, 1))

	if a.Overlaps(touching) {
		t.Error("Expected touching boxes not to overlap")
	}
	if !a.Overlaps(inside) {
		t.Error("Expected intersecting boxes to overlap")
	}

	pen := a.Penetration(inside)
	if pen[0] != 0.5 || pen[1] != 0.5 {
		t.Errorf("Expected penetration (0.5, 0.5), got %v", pen)
	}
}

func TestAABB_UnionAndValid(t *testing.T) {
	a := NewAABB(V(0, 0), V(1, 1))
	b := NewAABB(V(2, -1), V(1, 1))
	u := a.Union(b)
	if u.Min != V(0, -1) || u.Max != V(3, 1) {
		t.Errorf("Unexpected union %v", u)
	}

	if NewAABB(V(0, 0), V(0, 1)).Valid() {
		t.Error("Expected zero-width box to be invalid")
	}
	if NewAABB(V(math.NaN(), 0), V(1, 1)).Valid() {
		t.Error("Expected NaN box to be invalid")
	}
}

func TestSlopeHeight(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
		x     float64
		want  float64
	}{
		{"rising start", 45, 0, 0},
		{"rising middle", 45, 0.5, 0.5},
		{"rising end", 45, 1, 1},
		{"falling start", -45, 0, 1},
		{"falling end", -45, 1, 0},
		{"clamped outside", 45, 2, 1},
		{"steep clamps to cell", 80, 0.9, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SlopeHeight(tt.angle, 1, tt.x)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestClampAxes(t *testing.T) {
	got := ClampAxes(V(50, -50), V(10, 0))
	if got != V(10, -50) {
		t.Errorf("Expected only x clamped, got %v", got)
	}
}

func TestApproach(t *testing.T) {
	if got := Approach(1, 0.3); math.Abs(got-0.7) > 1e-12 {
		t.Errorf("Expected 0.7, got %v", got)
	}
	if got := Approach(-0.2, 0.3); got != 0 {
		t.Errorf("Expected clamp at zero, got %v", got)
	}
}

func TestFastRand_Deterministic(t *testing.T) {
	a, b := NewFastRand(42), NewFastRand(42)
	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("Sequences diverged at %d", i)
		}
	}
	r := NewFastRand(0)
	for i := 0; i < 1000; i++ {
		f := r.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %v", f)
		}
		if v := r.Range(2, 3); v < 2 || v >= 3 {
			t.Fatalf("Range out of bounds: %v", v)
		}
	}
}
