package tilemap

import (
	"math"
	"testing"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/vmath"
)

func floorMap(t *testing.T) *TileMap {
	t.Helper()
	cells := make([]Cell, 4*3)
	for x := 0; x < 4; x++ {
		cells[x] = Cell{Kind: Solid, Material: "stone"}
	}
	cells[1*4+2] = Cell{Kind: Slope, Angle: 45}
	m, err := New(4, 3, 1, cells, map[string]core.Material{"stone": {Friction: 0.9}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return m
}

func TestTileMap_AtAndBounds(t *testing.T) {
	m := floorMap(t)

	if m.At(0, 0).Kind != Solid {
		t.Error("Expected solid floor at row 0")
	}
	if m.At(-1, 0).Kind != Empty || m.At(0, 99).Kind != Empty {
		t.Error("Expected out-of-bounds cells to read as empty")
	}
	if got := m.Material("stone").Friction; got != 0.9 {
		t.Errorf("Expected stone friction 0.9, got %v", got)
	}
	if got := m.Material("").Friction; got <= 0 {
		t.Errorf("Expected default friction, got %v", got)
	}
}

func TestTileMap_SpanExclusiveMax(t *testing.T) {
	m := floorMap(t)

	x0, y0, x1, y1, ok := m.Span(vmath.NewAABB(vmath.V(1, 1), vmath.V(1, 1)))
	if !ok || x0 != 1 || x1 != 1 || y0 != 1 || y1 != 1 {
		t.Errorf("Expected single cell (1,1), got x %d..%d y %d..%d ok=%v", x0, x1, y0, y1, ok)
	}

	if _, _, _, _, ok := m.Span(vmath.NewAABB(vmath.V(10, 10), vmath.V(1, 1))); ok {
		t.Error("Expected box outside the map to miss")
	}
}

func TestTileMap_SurfaceY(t *testing.T) {
	m := floorMap(t)

	if got := m.SurfaceY(2, 1, 2.25); math.Abs(got-1.25) > 1e-9 {
		t.Errorf("Expected slope surface 1.25, got %v", got)
	}
	if got := m.SurfaceY(2, 1, 5); math.Abs(got-2) > 1e-9 {
		t.Errorf("Expected clamped surface at cell top, got %v", got)
	}
	if got := m.SurfaceY(0, 0, 0.5); got != 1 {
		t.Errorf("Expected solid surface at 1, got %v", got)
	}
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		cells []Cell
	}{
		{"flat slope", []Cell{{Kind: Slope, Angle: 0}}},
		{"vertical slope", []Cell{{Kind: Slope, Angle: 90}}},
		{"unknown material", []Cell{{Kind: Solid, Material: "lava"}}},
		{"wrong count", []Cell{{}, {}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(1, 1, 1, tt.cells, nil); err == nil {
				t.Error("Expected error")
			}
		})
	}
}
