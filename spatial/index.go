package spatial

import (
	"math"
	"slices"

	"github.com/lixenwraith/skirmish/component"
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/engine"
	"github.com/lixenwraith/skirmish/tilemap"
	"github.com/lixenwraith/skirmish/vmath"
)

// Result is a broad-phase candidate set, a superset of true overlaps
// Slices alias index buffers and are valid until the next QueryRegion or Rebuild
type Result struct {
	Entities []core.Entity   // Ascending creation order, deduplicated
	Tiles    []tilemap.Coord // Non-empty tiles, row-major from the bottom row
}

// Index buckets collider bounds into tile-sized cells over the current map
type Index struct {
	grid  *Grid
	tiles *tilemap.TileMap
	cell  float64

	bounds map[core.Entity]vmath.AABB
	rank   map[core.Entity]int // Creation order from the last rebuild

	seen     map[core.Entity]struct{}
	entities []core.Entity
	coords   []tilemap.Coord
}

// NewIndex creates an index sized to tiles
func NewIndex(tiles *tilemap.TileMap) *Index {
	ix := &Index{
		grid:   NewGrid(tiles.Width(), tiles.Height()),
		bounds: make(map[core.Entity]vmath.AABB),
		rank:   make(map[core.Entity]int),
		seen:   make(map[core.Entity]struct{}),
	}
	ix.SetTileMap(tiles)
	return ix
}

// SetTileMap retargets the index at a new map, the next Rebuild repopulates it
func (ix *Index) SetTileMap(tiles *tilemap.TileMap) {
	ix.tiles = tiles
	ix.cell = tiles.TileSize()
	if ix.grid.Width != tiles.Width() || ix.grid.Height != tiles.Height() {
		ix.grid.Resize(tiles.Width(), tiles.Height())
	} else {
		ix.grid.Clear()
	}
	clear(ix.bounds)
	clear(ix.rank)
}

// TileMap returns the map the index covers
func (ix *Index) TileMap() *tilemap.TileMap {
	return ix.tiles
}

// Rebuild recomputes all buckets from current collider bounds, O(n)
// Destroyed entities are never returned afterwards since only live colliders are inserted
func (ix *Index) Rebuild(w *engine.World) {
	ix.grid.Clear()
	clear(ix.bounds)
	clear(ix.rank)

	n := 0
	for e, row := range engine.Query2[component.PositionComponent, component.ColliderComponent](w) {
		box := row.B.Bounds(row.A.Cur)
		ix.insert(e, box)
		ix.rank[e] = n
		n++
	}
}

// Update moves one entity's buckets after its bounds changed mid-tick
func (ix *Index) Update(e core.Entity, box vmath.AABB) {
	if old, ok := ix.bounds[e]; ok {
		ix.remove(e, old)
	}
	ix.insert(e, box)
}

func (ix *Index) insert(e core.Entity, box vmath.AABB) {
	ix.bounds[e] = box
	if !vmath.Finite(box.Min) || !vmath.Finite(box.Max) {
		ix.grid.spill(e)
		return
	}
	x0, y0, x1, y1 := ix.cellRange(box)
	if x0 < 0 || y0 < 0 || x1 >= ix.grid.Width || y1 >= ix.grid.Height {
		ix.grid.spill(e)
	}
	for y := max(y0, 0); y <= min(y1, ix.grid.Height-1); y++ {
		for x := max(x0, 0); x <= min(x1, ix.grid.Width-1); x++ {
			ix.grid.Add(e, x, y)
		}
	}
}

func (ix *Index) remove(e core.Entity, box vmath.AABB) {
	if !vmath.Finite(box.Min) || !vmath.Finite(box.Max) {
		return
	}
	x0, y0, x1, y1 := ix.cellRange(box)
	for y := max(y0, 0); y <= min(y1, ix.grid.Height-1); y++ {
		for x := max(x0, 0); x <= min(x1, ix.grid.Width-1); x++ {
			cell := &ix.grid.Cells[y*ix.grid.Width+x]
			for i := uint8(0); i < cell.Count; i++ {
				if cell.Entities[i] == e {
					cell.Count--
					cell.Entities[i] = cell.Entities[cell.Count]
					cell.Entities[cell.Count] = core.Entity{}
					break
				}
			}
		}
	}
}

// cellRange returns the unclipped inclusive cell range of box, Max treated as exclusive
func (ix *Index) cellRange(box vmath.AABB) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(box.Min[0] / ix.cell))
	y0 = int(math.Floor(box.Min[1] / ix.cell))
	x1 = int(math.Ceil(box.Max[0]/ix.cell)) - 1
	y1 = int(math.Ceil(box.Max[1]/ix.cell)) - 1
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return
}

// Bounds returns the box an entity was indexed with
func (ix *Index) Bounds(e core.Entity) (vmath.AABB, bool) {
	b, ok := ix.bounds[e]
	return b, ok
}

// QueryRegion returns candidate entities and non-empty tiles possibly overlapping box
func (ix *Index) QueryRegion(box vmath.AABB) Result {
	ix.entities = ix.entities[:0]
	ix.coords = ix.coords[:0]
	clear(ix.seen)

	x0, y0, x1, y1 := ix.cellRange(box)
	outside := x0 < 0 || y0 < 0 || x1 >= ix.grid.Width || y1 >= ix.grid.Height

	for y := max(y0, 0); y <= min(y1, ix.grid.Height-1); y++ {
		for x := max(x0, 0); x <= min(x1, ix.grid.Width-1); x++ {
			for _, e := range ix.grid.At(x, y) {
				ix.collect(e)
			}
			if ix.tiles.At(x, y).Kind != tilemap.Empty {
				ix.coords = append(ix.coords, tilemap.Coord{X: x, Y: y})
			}
		}
	}

	// Overflow holds full-cell spill and out-of-map bodies, always candidates when the query could reach them
	for _, e := range ix.grid.Overflow {
		if outside || ix.boundsTouch(e, box) {
			ix.collect(e)
		}
	}

	slices.SortFunc(ix.entities, func(a, b core.Entity) int {
		return ix.rank[a] - ix.rank[b]
	})
	return Result{Entities: ix.entities, Tiles: ix.coords}
}

func (ix *Index) boundsTouch(e core.Entity, box vmath.AABB) bool {
	b, ok := ix.bounds[e]
	if !ok || !vmath.Finite(b.Min) || !vmath.Finite(b.Max) {
		return true
	}
	return b.Expand(ix.cell).Overlaps(box)
}

func (ix *Index) collect(e core.Entity) {
	if _, dup := ix.seen[e]; dup {
		return
	}
	ix.seen[e] = struct{}{}
	ix.entities = append(ix.entities, e)
}
