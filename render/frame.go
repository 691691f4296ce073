// Package render turns world state into backend-neutral frames and rasterizes them for cell backends
package render

import (
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/tilemap"
	"github.com/lixenwraith/skirmish/vmath"
)

// Frame is a read-only snapshot handed to Backend.Present
// All positions are world units, y up, interpolated by Alpha between the last two ticks
type Frame struct {
	Tick       uint64
	Alpha      float64
	TileSize   float64
	Width      int // Map width in tiles
	Height     int // Map height in tiles
	Background uint32
	Focus      vmath.Vec2 // Camera target
	Tiles      []TileDraw
	Sprites    []SpriteDraw // Ascending Z, creation order within a layer
	Particles  []ParticleDraw
	Debug      []string // Overlay lines, empty unless debug is on
	Paused     bool
}

// TileDraw is one non-empty tile
type TileDraw struct {
	X, Y     int
	Kind     tilemap.Kind
	Angle    float64
	Material string
}

// SpriteDraw is one visible entity, Min is the bottom-left corner of its box
type SpriteDraw struct {
	Entity core.Entity
	Min    vmath.Vec2
	Size   vmath.Vec2
	Handle string
	Glyph  rune
	Color  uint32
	FlipX  bool
	FlipY  bool
	Z      int
}

// ParticleDraw is one live particle, Fade is the elapsed life fraction
type ParticleDraw struct {
	Pos   vmath.Vec2
	Size  float64
	Color uint32
	Fade  float64
}

// WorldSize returns the map extent in world units
func (f *Frame) WorldSize() vmath.Vec2 {
	return vmath.V(float64(f.Width)*f.TileSize, float64(f.Height)*f.TileSize)
}
