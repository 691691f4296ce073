package render

import (
	"testing"

	"github.com/lixenwraith/skirmish/component"
	"github.com/lixenwraith/skirmish/engine"
	"github.com/lixenwraith/skirmish/particle"
	"github.com/lixenwraith/skirmish/tilemap"
	"github.com/lixenwraith/skirmish/vmath"
)

func floorMap(t *testing.T, w, h int) *tilemap.TileMap {
	t.Helper()
	cells := make([]tilemap.Cell, w*h)
	for x := 0; x < w; x++ {
		cells[x] = tilemap.Cell{Kind: tilemap.Solid}
	}
	cells[w+2] = tilemap.Cell{Kind: tilemap.Slope, Angle: 45}
	m, err := tilemap.New(w, h, 1, cells, nil)
	if err != nil {
		t.Fatalf("tilemap.New failed: %v", err)
	}
	return m
}

func TestBuilder_InterpolatesAndOrdersByZ(t *testing.T) {
	w := engine.NewWorld()
	tiles := floorMap(t, 8, 4)

	front := w.CreateEntity()
	engine.AddComponent(w, front, component.PositionComponent{Prev: vmath.V(0, 1), Cur: vmath.V(2, 1)})
	engine.AddComponent(w, front, component.SpriteComponent{Glyph: '@', Z: 5})

	back := w.CreateEntity()
	engine.AddComponent(w, back, component.At(4, 1))
	engine.AddComponent(w, back, component.SpriteComponent{Glyph: '#', Z: 1})
	engine.AddComponent(w, back, component.ColliderComponent{Size: vmath.V(2, 0.5), Offset: vmath.V(0.5, 0)})

	gone := w.CreateEntity()
	engine.AddComponent(w, gone, component.At(1, 1))
	engine.AddComponent(w, gone, component.SpriteComponent{Glyph: 'x'})
	w.DestroyEntity(gone)

	f := NewBuilder().Build(w, tiles, nil, 0.25)

	if len(f.Sprites) != 2 {
		t.Fatalf("Expected 2 sprites, got %d", len(f.Sprites))
	}
	if f.Sprites[0].Entity != back || f.Sprites[1].Entity != front {
		t.Errorf("Expected sprites ordered by Z, got %v then %v", f.Sprites[0].Entity, f.Sprites[1].Entity)
	}
	if got := f.Sprites[1].Min; got != vmath.V(0.5, 1) {
		t.Errorf("Expected interpolated min (0.5, 1), got %v", got)
	}
	if got := f.Sprites[0]; got.Min != vmath.V(4.5, 1) || got.Size != vmath.V(2, 0.5) {
		t.Errorf("Expected collider box (4.5, 1) size (2, 0.5), got %v size %v", got.Min, got.Size)
	}
	if len(f.Tiles) != 9 {
		t.Errorf("Expected 9 non-empty tiles, got %d", len(f.Tiles))
	}
	if f.Focus != vmath.V(4, 2) {
		t.Errorf("Expected map-center focus without a player, got %v", f.Focus)
	}
}

func TestBuilder_FocusAndParticles(t *testing.T) {
	w := engine.NewWorld()
	tiles := floorMap(t, 8, 4)

	player := w.CreateEntity()
	engine.AddComponent(w, player, component.At(3, 1))
	engine.AddComponent(w, player, component.ColliderComponent{Size: vmath.V(1, 2)})
	engine.AddComponent(w, player, component.PlayerControlComponent{})

	particles := []particle.Particle{{Prev: vmath.V(0, 0), Pos: vmath.V(1, 0), Life: 0.5, MaxLife: 1, Color: 0xff0000}}
	f := NewBuilder().Build(w, tiles, particles, 0.5)

	if f.Focus != vmath.V(3.5, 2) {
		t.Errorf("Expected focus on player center (3.5, 2), got %v", f.Focus)
	}
	if len(f.Particles) != 1 {
		t.Fatalf("Expected 1 particle, got %d", len(f.Particles))
	}
	if p := f.Particles[0]; p.Pos != vmath.V(0.5, 0) || p.Fade != 0.5 {
		t.Errorf("Expected particle at (0.5, 0) fade 0.5, got %v fade %v", p.Pos, p.Fade)
	}
}

func TestRasterize_TilesAndSprites(t *testing.T) {
	w := engine.NewWorld()
	tiles := floorMap(t, 8, 4)

	e := w.CreateEntity()
	engine.AddComponent(w, e, component.At(1, 1))
	engine.AddComponent(w, e, component.SpriteComponent{Glyph: '@', Color: 0x00ff00})

	f := NewBuilder().Build(w, tiles, nil, 0)
	f.Background = 0x101820

	buf := NewBuffer(16, 4)
	Rasterize(buf, f)

	// Row 0 of the map is the bottom row of the buffer, two columns per tile
	if c := buf.At(0, 3); c.Rune != '█' {
		t.Errorf("Expected solid floor at bottom-left, got %q", c.Rune)
	}
	if c := buf.At(4, 2); c.Rune != '◢' {
		t.Errorf("Expected rising slope at (4, 2), got %q", c.Rune)
	}
	if c := buf.At(2, 2); c.Rune != '@' || c.Fg != (RGB{0, 255, 0}) {
		t.Errorf("Expected green sprite at (2, 2), got %q %v", c.Rune, c.Fg)
	}
	if c := buf.At(3, 2); c.Rune != '@' {
		t.Errorf("Expected sprite to span two columns, got %q", c.Rune)
	}
	if c := buf.At(2, 1); c.Rune != ' ' || c.Bg != Hex(0x101820) {
		t.Errorf("Expected empty background above sprite, got %q %v", c.Rune, c.Bg)
	}
}

func TestViewport_FollowsFocusInsideMap(t *testing.T) {
	f := &Frame{TileSize: 1, Width: 100, Height: 10, Focus: vmath.V(50, 5)}
	v := NewViewport(f, 20, 10)

	if v.Origin != vmath.V(45, 0) {
		t.Errorf("Expected origin (45, 0), got %v", v.Origin)
	}

	f.Focus = vmath.V(99, 5)
	if v = NewViewport(f, 20, 10); v.Origin[0] != 90 {
		t.Errorf("Expected camera clamped at right edge 90, got %v", v.Origin[0])
	}
}

func TestBuffer_SetModes(t *testing.T) {
	b := NewBuffer(2, 1)
	b.Clear(RGB{10, 10, 10})

	b.Set(0, 0, 'a', RGB{100, 0, 0}, RGB{}, BlendFgOnly, 1)
	b.Set(0, 0, 0, RGB{100, 50, 0}, RGB{}, BlendAddFg, 1)
	if c := b.At(0, 0); c.Rune != 'a' || c.Fg != (RGB{200, 50, 0}) || c.Bg != (RGB{10, 10, 10}) {
		t.Errorf("Expected additive fg with kept rune and bg, got %+v", c)
	}

	b.Set(5, 5, 'z', RGBWhite, RGBWhite, BlendReplace, 1)
	b.SetText(1, 0, "xyz", RGBWhite)
	if c := b.At(1, 0); c.Rune != 'x' {
		t.Errorf("Expected clipped text to start at column 1, got %q", c.Rune)
	}
}

func TestColor_HexAndBlend(t *testing.T) {
	c := Hex(0x102030)
	if c != (RGB{0x10, 0x20, 0x30}) || c.Uint32() != 0x102030 {
		t.Errorf("Expected hex round trip, got %v", c)
	}
	if got := Blend(RGBBlack, RGBWhite, 0.5); got != (RGB{127, 127, 127}) {
		t.Errorf("Expected mid gray, got %v", got)
	}
	if got := Max(RGB{1, 9, 3}, RGB{4, 2, 6}); got != (RGB{4, 9, 6}) {
		t.Errorf("Expected per-channel max, got %v", got)
	}
}
