package render

// Cell is one character cell of a cell-based backend
type Cell struct {
	Rune rune
	Fg   RGB
	Bg   RGB
}

// Buffer is a cell compositor used by cell-based backends
// Row 0 is the top of the screen
type Buffer struct {
	cells  []Cell
	width  int
	height int
	bg     RGB
}

// NewBuffer creates a buffer with the specified dimensions
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *Buffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Clear(b.bg)
}

// Clear resets all cells to blank on bg using exponential copy
func (b *Buffer) Clear(bg RGB) {
	b.bg = bg
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = Cell{Rune: ' ', Fg: RGBWhite, Bg: bg}
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// Size returns the buffer dimensions in cells
func (b *Buffer) Size() (width, height int) {
	return b.width, b.height
}

// Background returns the color of the last Clear
func (b *Buffer) Background() RGB {
	return b.bg
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// At returns the cell at (x, y), zero Cell when out of bounds
func (b *Buffer) At(x, y int) Cell {
	if !b.inBounds(x, y) {
		return Cell{}
	}
	return b.cells[y*b.width+x]
}

// Set composites a cell with the given blend mode, a zero rune keeps the existing rune
func (b *Buffer) Set(x, y int, r rune, fg, bg RGB, mode BlendMode, alpha float64) {
	if !b.inBounds(x, y) {
		return
	}
	dst := &b.cells[y*b.width+x]

	op := uint8(mode) & 0x0F
	flags := uint8(mode) & 0xF0

	if r != 0 {
		dst.Rune = r
	}
	if flags&flagBg != 0 {
		dst.Bg = apply(op, dst.Bg, bg, alpha)
	}
	if flags&flagFg != 0 {
		dst.Fg = apply(op, dst.Fg, fg, alpha)
	}
}

// SetText writes s left to right starting at (x, y), clipped at the right edge
func (b *Buffer) SetText(x, y int, s string, fg RGB) {
	for _, r := range s {
		if x >= b.width {
			return
		}
		b.Set(x, y, r, fg, RGB{}, BlendFgOnly, 1)
		x++
	}
}

// Each visits every cell in row-major order
func (b *Buffer) Each(fn func(x, y int, c Cell)) {
	for y := 0; y < b.height; y++ {
		row := b.cells[y*b.width : (y+1)*b.width]
		for x, c := range row {
			fn(x, y, c)
		}
	}
}
