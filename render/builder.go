package render

import (
	"slices"

	"github.com/lixenwraith/skirmish/component"
	"github.com/lixenwraith/skirmish/engine"
	"github.com/lixenwraith/skirmish/particle"
	"github.com/lixenwraith/skirmish/tilemap"
	"github.com/lixenwraith/skirmish/vmath"
)

// Builder assembles frames, reusing slices across calls
// The returned Frame is valid until the next Build
type Builder struct {
	frame Frame
	tiles *tilemap.TileMap // Map the cached tile list was built from
}

// NewBuilder creates an empty frame builder
func NewBuilder() *Builder {
	return &Builder{frame: Frame{TileSize: 1}}
}

// Build snapshots tiles, sprites and particles at interpolation factor alpha
func (b *Builder) Build(w *engine.World, tiles *tilemap.TileMap, particles []particle.Particle, alpha float64) *Frame {
	f := &b.frame
	f.Alpha = alpha
	f.Debug = f.Debug[:0]
	f.Paused = false

	b.buildTiles(tiles)
	b.buildSprites(w, tiles, alpha)

	f.Particles = f.Particles[:0]
	for i := range particles {
		p := &particles[i]
		f.Particles = append(f.Particles, ParticleDraw{
			Pos:   vmath.Lerp(p.Prev, p.Pos, alpha),
			Size:  p.Size,
			Color: p.Color,
			Fade:  p.Age(),
		})
	}

	f.Focus = b.focus(w, alpha)
	return f
}

// buildTiles refreshes the tile list only when the map was replaced
func (b *Builder) buildTiles(tiles *tilemap.TileMap) {
	f := &b.frame
	if tiles == b.tiles {
		return
	}
	b.tiles = tiles
	f.Tiles = f.Tiles[:0]
	if tiles == nil {
		f.Width, f.Height, f.TileSize = 0, 0, 1
		return
	}

	f.Width, f.Height, f.TileSize = tiles.Width(), tiles.Height(), tiles.TileSize()
	for y := 0; y < tiles.Height(); y++ {
		for x := 0; x < tiles.Width(); x++ {
			c := tiles.At(x, y)
			if c.Kind == tilemap.Empty {
				continue
			}
			f.Tiles = append(f.Tiles, TileDraw{X: x, Y: y, Kind: c.Kind, Angle: c.Angle, Material: c.Material})
		}
	}
}

func (b *Builder) buildSprites(w *engine.World, tiles *tilemap.TileMap, alpha float64) {
	f := &b.frame
	f.Sprites = f.Sprites[:0]

	size := vmath.V(1, 1)
	if tiles != nil {
		size = vmath.V(tiles.TileSize(), tiles.TileSize())
	}

	for e, row := range engine.Query2[component.PositionComponent, component.SpriteComponent](w) {
		pos := row.A.Interpolate(alpha)
		sp := row.B
		d := SpriteDraw{
			Entity: e,
			Min:    pos,
			Size:   size,
			Handle: sp.Handle,
			Glyph:  sp.Glyph,
			Color:  sp.Color,
			FlipX:  sp.FlipX,
			FlipY:  sp.FlipY,
			Z:      sp.Z,
		}
		if col, ok := engine.GetComponent[component.ColliderComponent](w, e); ok {
			d.Min = pos.Add(col.Offset)
			d.Size = col.Size
		}
		f.Sprites = append(f.Sprites, d)
	}

	slices.SortStableFunc(f.Sprites, func(a, b SpriteDraw) int {
		return a.Z - b.Z
	})
}

// focus centers on the first controlled entity, otherwise the map center
func (b *Builder) focus(w *engine.World, alpha float64) vmath.Vec2 {
	for e, pos := range engine.Query1[component.PositionComponent](w) {
		if !engine.HasComponent[component.PlayerControlComponent](w, e) {
			continue
		}
		p := pos.Interpolate(alpha)
		if col, ok := engine.GetComponent[component.ColliderComponent](w, e); ok {
			return col.Bounds(p).Center()
		}
		return p
	}
	return b.frame.WorldSize().Mul(0.5)
}
