package render

import (
	"math"

	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/tilemap"
	"github.com/lixenwraith/skirmish/vmath"
)

// Tile palette for cell output
var (
	rgbSolid  = RGB{86, 92, 112}
	rgbOneWay = RGB{156, 124, 76}
	rgbSlope  = RGB{112, 116, 96}
	rgbDebug  = RGB{200, 220, 140}
)

var materialTint = map[string]RGB{
	"ice":    {150, 200, 232},
	"wood":   {140, 100, 60},
	"rubber": {196, 80, 80},
	"stone":  {110, 110, 120},
}

// Viewport maps world units to buffer cells
// One tile spans parameter.TerminalCellsPerTile columns and one row, row 0 is the top
type Viewport struct {
	Origin vmath.Vec2 // World point at the bottom-left cell
	ScaleX float64    // Columns per world unit
	ScaleY float64    // Rows per world unit
	Cols   int
	Rows   int
}

// NewViewport fits a camera centered on the frame focus, clamped to the map when the map is larger than the view
func NewViewport(f *Frame, cols, rows int) Viewport {
	ts := f.TileSize
	if ts <= 0 {
		ts = 1
	}
	v := Viewport{
		ScaleX: parameter.TerminalCellsPerTile / ts,
		ScaleY: 1 / ts,
		Cols:   cols,
		Rows:   rows,
	}

	world := f.WorldSize()
	viewW := float64(cols) / v.ScaleX
	viewH := float64(rows) / v.ScaleY
	v.Origin = vmath.V(
		cameraAxis(f.Focus[0], viewW, world[0]),
		cameraAxis(f.Focus[1], viewH, world[1]),
	)
	return v
}

// cameraAxis keeps the view inside [0, extent] when it fits, otherwise pins it at 0
func cameraAxis(focus, view, extent float64) float64 {
	if view >= extent {
		return 0
	}
	return min(max(focus-view/2, 0), extent-view)
}

// Cell converts a world point to a buffer cell
func (v Viewport) Cell(p vmath.Vec2) (x, y int) {
	x = int(math.Floor((p[0] - v.Origin[0]) * v.ScaleX))
	y = v.Rows - 1 - int(math.Floor((p[1]-v.Origin[1])*v.ScaleY))
	return x, y
}

// Rasterize draws f into buf: background, tiles, sprites by Z, particles, then debug lines
func Rasterize(buf *Buffer, f *Frame) {
	cols, rows := buf.Size()
	buf.Clear(Hex(f.Background))
	v := NewViewport(f, cols, rows)

	for _, t := range f.Tiles {
		drawTile(buf, v, f.TileSize, t)
	}
	for i := range f.Sprites {
		drawSprite(buf, v, &f.Sprites[i])
	}
	for _, p := range f.Particles {
		x, y := v.Cell(p.Pos)
		r := '·'
		if p.Size >= 0.2 {
			r = '*'
		}
		fg := Blend(Hex(p.Color), buf.Background(), p.Fade)
		buf.Set(x, y, r, fg, RGB{}, BlendFgOnly, 1)
	}

	for i, line := range f.Debug {
		buf.SetText(0, i, line, rgbDebug)
	}
	if f.Paused {
		label := "PAUSED"
		buf.SetText(max((cols-len(label))/2, 0), rows/2, label, RGBWhite)
	}
}

func drawTile(buf *Buffer, v Viewport, ts float64, t TileDraw) {
	color, r := tileStyle(t)
	if tint, ok := materialTint[t.Material]; ok {
		color = Blend(color, tint, 0.6)
	}

	x0, y0 := v.Cell(vmath.V(float64(t.X)*ts, float64(t.Y)*ts))
	span := int(parameter.TerminalCellsPerTile)
	for dx := 0; dx < span; dx++ {
		buf.Set(x0+dx, y0, r, color, RGB{}, BlendFgOnly, 1)
	}
}

func tileStyle(t TileDraw) (RGB, rune) {
	switch t.Kind {
	case tilemap.Solid:
		return rgbSolid, '█'
	case tilemap.OneWay:
		return rgbOneWay, '▔'
	case tilemap.Slope:
		if t.Angle > 0 {
			return rgbSlope, '◢'
		}
		return rgbSlope, '◣'
	default:
		return RGBBlack, ' '
	}
}

func drawSprite(buf *Buffer, v Viewport, s *SpriteDraw) {
	glyph := s.Glyph
	if glyph == 0 {
		glyph = '▒'
	}
	if s.FlipX {
		glyph = mirrorX(glyph)
	}
	if s.FlipY {
		glyph = mirrorY(glyph)
	}

	// Inset by a hair so a box ending exactly on a cell edge does not bleed into the next cell
	const inset = 1e-9
	x0, y1 := v.Cell(s.Min)
	x1, y0 := v.Cell(s.Min.Add(s.Size).Sub(vmath.V(inset, inset)))
	fg := Hex(s.Color)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			buf.Set(x, y, glyph, fg, RGB{}, BlendFgOnly, 1)
		}
	}
}

var mirrorsX = map[rune]rune{'<': '>', '>': '<', '/': '\\', '\\': '/', '(': ')', ')': '(', '◢': '◣', '◣': '◢'}
var mirrorsY = map[rune]rune{'^': 'v', 'v': '^', '/': '\\', '\\': '/', '▔': '▁', '▁': '▔'}

func mirrorX(r rune) rune {
	if m, ok := mirrorsX[r]; ok {
		return m
	}
	return r
}

func mirrorY(r rune) rune {
	if m, ok := mirrorsY[r]; ok {
		return m
	}
	return r
}
