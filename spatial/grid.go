// Package spatial is the broad phase: a uniform grid rebuilt every tick from collider bounds
package spatial

import (
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/parameter"
)

// Cell holds a fixed number of entities as a value type for contiguous memory layout
type Cell struct {
	Count    uint8
	_        [7]byte // Explicit padding to keep Entities 8-byte aligned
	Entities [parameter.MaxEntitiesPerCell]core.Entity
}

// Grid is a dense 2D grid for allocation-free bucketing
// Entities that do not fit a cell or fall outside the grid go to Overflow, which every query scans
type Grid struct {
	Width    int
	Height   int
	Cells    []Cell // 1D array: index = y*Width + x
	Overflow []core.Entity
}

// NewGrid creates a new grid with the specified dimensions
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]Cell, width*height),
	}
}

// Add inserts an entity at (x, y), spilling to Overflow when out of bounds or the cell is full
// O(1); returns false when the entity spilled
func (g *Grid) Add(e core.Entity, x, y int) bool {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		g.spill(e)
		return false
	}

	cell := &g.Cells[y*g.Width+x]
	if cell.Count < parameter.MaxEntitiesPerCell {
		cell.Entities[cell.Count] = e
		cell.Count++
		return true
	}
	g.spill(e)
	return false
}

// spill records e once in the overflow list; a multi-cell body may spill from several cells
func (g *Grid) spill(e core.Entity) {
	if n := len(g.Overflow); n > 0 && g.Overflow[n-1] == e {
		return
	}
	g.Overflow = append(g.Overflow, e)
}

// At returns a slice view of entities at (x, y)
// The view is only valid until the next Clear or Add
func (g *Grid) At(x, y int) []core.Entity {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return nil
	}
	cell := &g.Cells[y*g.Width+x]
	return cell.Entities[:cell.Count]
}

// Clear removes all entities from all cells
func (g *Grid) Clear() {
	for i := range g.Cells {
		g.Cells[i].Count = 0
	}
	g.Overflow = g.Overflow[:0]
}

// Resize resizes the grid, clearing all data
func (g *Grid) Resize(width, height int) {
	g.Width = width
	g.Height = height
	g.Cells = make([]Cell, width*height)
	g.Overflow = g.Overflow[:0]
}
