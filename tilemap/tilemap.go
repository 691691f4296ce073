// Package tilemap holds the immutable terrain grid of a level
// Cell (x, y) covers [x*ts, (x+1)*ts) x [y*ts, (y+1)*ts) in world units, row 0 is the bottom
package tilemap

import (
	"fmt"
	"math"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/vmath"
)

// Kind is the collision class of a tile
type Kind uint8

const (
	Empty Kind = iota
	Solid
	OneWay
	Slope
)

var kindNames = [...]string{"empty", "solid", "one_way", "slope"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a level file kind name to a Kind
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return Empty, fmt.Errorf("unknown tile kind %q", s)
}

// Cell is one tile; Angle is only meaningful for slopes, degrees in (-90, 90), positive rises to the right
type Cell struct {
	Kind     Kind
	Angle    float64
	Material string
}

// Coord addresses a tile
type Coord struct {
	X, Y int
}

// TileMap is read-only once built, a level transition replaces it wholesale
type TileMap struct {
	width     int
	height    int
	tileSize  float64
	cells     []Cell // index = y*width + x
	materials map[string]core.Material
}

// New validates and copies cells into a map; len(cells) must equal width*height
func New(width, height int, tileSize float64, cells []Cell, materials map[string]core.Material) (*TileMap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("tile map dimensions %dx%d must be positive", width, height)
	}
	if !(tileSize > 0) || math.IsInf(tileSize, 0) {
		return nil, fmt.Errorf("tile size %v must be positive and finite", tileSize)
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("tile map has %d cells, expected %d", len(cells), width*height)
	}

	m := &TileMap{
		width:     width,
		height:    height,
		tileSize:  tileSize,
		cells:     make([]Cell, len(cells)),
		materials: make(map[string]core.Material, len(materials)),
	}
	copy(m.cells, cells)
	for k, v := range materials {
		m.materials[k] = v
	}

	for i, c := range m.cells {
		if c.Kind == Slope {
			if !vmath.IsFinite(c.Angle) || c.Angle == 0 || math.Abs(c.Angle) >= 90 {
				return nil, fmt.Errorf("slope at (%d, %d) has angle %v outside (-90, 0) u (0, 90)", i%width, i/width, c.Angle)
			}
		}
		if c.Material != "" {
			if _, ok := m.materials[c.Material]; !ok {
				return nil, fmt.Errorf("tile at (%d, %d) references unknown material %q", i%width, i/width, c.Material)
			}
		}
	}
	return m, nil
}

// NewEmpty returns an all-empty map, used before any level is loaded
func NewEmpty(width, height int, tileSize float64) *TileMap {
	m, err := New(width, height, tileSize, make([]Cell, width*height), nil)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *TileMap) Width() int        { return m.width }
func (m *TileMap) Height() int       { return m.height }
func (m *TileMap) TileSize() float64 { return m.tileSize }

// Bounds is the world-space extent of the map
func (m *TileMap) Bounds() vmath.AABB {
	return vmath.AABB{Max: vmath.V(float64(m.width)*m.tileSize, float64(m.height)*m.tileSize)}
}

// InBounds reports whether (x, y) addresses a cell
func (m *TileMap) InBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

// At returns the cell at (x, y), out-of-bounds cells are empty
func (m *TileMap) At(x, y int) Cell {
	if !m.InBounds(x, y) {
		return Cell{}
	}
	return m.cells[y*m.width+x]
}

// CellBounds returns the world-space box of tile (x, y)
func (m *TileMap) CellBounds(x, y int) vmath.AABB {
	ts := m.tileSize
	return vmath.NewAABB(vmath.V(float64(x)*ts, float64(y)*ts), vmath.V(ts, ts))
}

// CellAt returns the coordinate containing world point p
func (m *TileMap) CellAt(p vmath.Vec2) Coord {
	return Coord{X: int(math.Floor(p[0] / m.tileSize)), Y: int(math.Floor(p[1] / m.tileSize))}
}

// Span returns the clipped inclusive cell range overlapped by box, ok is false when it misses the map
func (m *TileMap) Span(box vmath.AABB) (x0, y0, x1, y1 int, ok bool) {
	ts := m.tileSize
	x0 = max(int(math.Floor(box.Min[0]/ts)), 0)
	y0 = max(int(math.Floor(box.Min[1]/ts)), 0)
	// Max is exclusive: a box ending exactly on a cell edge does not reach into the next cell
	x1 = min(int(math.Ceil(box.Max[0]/ts))-1, m.width-1)
	y1 = min(int(math.Ceil(box.Max[1]/ts))-1, m.height-1)
	ok = x0 <= x1 && y0 <= y1
	return
}

// Material resolves a tile material name, unnamed or unknown materials use the defaults
func (m *TileMap) Material(name string) core.Material {
	if mat, ok := m.materials[name]; ok {
		return mat
	}
	return core.Material{Friction: parameter.DefaultFriction, Bounciness: parameter.DefaultBounciness}
}

// Materials returns a copy of the material table
func (m *TileMap) Materials() map[string]core.Material {
	out := make(map[string]core.Material, len(m.materials))
	for k, v := range m.materials {
		out[k] = v
	}
	return out
}

// SurfaceY returns the world-space height of a slope cell's surface at world x
// x is clamped into the cell so bodies straddling the edge sample the nearest surface point
func (m *TileMap) SurfaceY(x, y int, worldX float64) float64 {
	c := m.At(x, y)
	base := float64(y) * m.tileSize
	switch c.Kind {
	case Slope:
		local := worldX - float64(x)*m.tileSize
		return base + vmath.SlopeHeight(c.Angle, m.tileSize, local)
	case Solid, OneWay:
		return base + m.tileSize
	}
	return base
}
