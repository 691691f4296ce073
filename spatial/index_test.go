package spatial

import (
	"testing"

	"github.com/lixenwraith/skirmish/component"
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/engine"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/tilemap"
	"github.com/lixenwraith/skirmish/vmath"
)

func spawnBox(t *testing.T, w *engine.World, x, y, size float64) core.Entity {
	t.Helper()
	e := w.CreateEntity()
	if err := engine.AddComponent(w, e, component.At(x, y)); err != nil {
		t.Fatal(err)
	}
	if err := engine.AddComponent(w, e, component.ColliderComponent{Size: vmath.V(size, size)}); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestIndex_QueryReturnsOverlapsInCreationOrder(t *testing.T) {
	w := engine.NewWorld()
	tiles := tilemap.NewEmpty(8, 8, 1)
	ix := NewIndex(tiles)

	late := spawnBox(t, w, 2, 2, 1)
	early := spawnBox(t, w, 2.5, 2.5, 1)
	far := spawnBox(t, w, 6, 6, 1)

	ix.Rebuild(w)
	res := ix.QueryRegion(vmath.NewAABB(vmath.V(2, 2), vmath.V(2, 2)))

	if len(res.Entities) != 2 {
		t.Fatalf("Expected 2 candidates, got %v", res.Entities)
	}
	if res.Entities[0] != late || res.Entities[1] != early {
		t.Errorf("Expected creation order [%v %v], got %v", late, early, res.Entities)
	}
	for _, e := range res.Entities {
		if e == far {
			t.Error("Expected distant entity to be excluded")
		}
	}
}

func TestIndex_DestroyedNeverReturnedAfterRebuild(t *testing.T) {
	w := engine.NewWorld()
	ix := NewIndex(tilemap.NewEmpty(4, 4, 1))

	e := spawnBox(t, w, 1, 1, 1)
	ix.Rebuild(w)
	if err := w.DestroyEntity(e); err != nil {
		t.Fatal(err)
	}
	ix.Rebuild(w)

	if res := ix.QueryRegion(vmath.NewAABB(vmath.V(0, 0), vmath.V(4, 4))); len(res.Entities) != 0 {
		t.Errorf("Expected no candidates, got %v", res.Entities)
	}
}

func TestIndex_OverflowKeepsSuperset(t *testing.T) {
	w := engine.NewWorld()
	ix := NewIndex(tilemap.NewEmpty(4, 4, 1))

	// More bodies than a cell holds, plus one outside the map
	var all []core.Entity
	for i := 0; i < parameter.MaxEntitiesPerCell+3; i++ {
		all = append(all, spawnBox(t, w, 1.1, 1.1, 0.5))
	}
	outside := spawnBox(t, w, -3, 1, 0.5)

	ix.Rebuild(w)
	res := ix.QueryRegion(vmath.NewAABB(vmath.V(1, 1), vmath.V(1, 1)))
	if len(res.Entities) != len(all) {
		t.Errorf("Expected all %d stacked bodies, got %d", len(all), len(res.Entities))
	}

	res = ix.QueryRegion(vmath.NewAABB(vmath.V(-4, 0), vmath.V(2, 3)))
	found := false
	for _, e := range res.Entities {
		if e == outside {
			found = true
		}
	}
	if !found {
		t.Error("Expected out-of-map body to be returned by a query reaching outside")
	}
}

func TestIndex_TilesRowMajorNonEmpty(t *testing.T) {
	cells := make([]tilemap.Cell, 3*3)
	cells[0] = tilemap.Cell{Kind: tilemap.Solid}
	cells[2] = tilemap.Cell{Kind: tilemap.Solid}
	cells[4] = tilemap.Cell{Kind: tilemap.OneWay}
	tiles, err := tilemap.New(3, 3, 1, cells, nil)
	if err != nil {
		t.Fatal(err)
	}
	ix := NewIndex(tiles)
	ix.Rebuild(engine.NewWorld())

	res := ix.QueryRegion(vmath.NewAABB(vmath.V(0, 0), vmath.V(3, 3)))
	want := []tilemap.Coord{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 1}}
	if len(res.Tiles) != len(want) {
		t.Fatalf("Expected %v, got %v", want, res.Tiles)
	}
	for i := range want {
		if res.Tiles[i] != want[i] {
			t.Errorf("Tile %d: expected %v, got %v", i, want[i], res.Tiles[i])
		}
	}
}
