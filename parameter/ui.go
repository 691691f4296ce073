package parameter

import "time"

// Terminal presentation
const (
	// TerminalCellsPerTile is the horizontal cell count per world unit, compensating glyph aspect
	TerminalCellsPerTile = 2

	// KeyHoldWindow keeps a direction pressed after its last repeat, terminals report no key release
	KeyHoldWindow = 150 * time.Millisecond

	// InputEventBuffer bounds terminal events queued between polls
	InputEventBuffer = 128
)

// Native window presentation
const (
	WindowWidth  = 960
	WindowHeight = 540
	WindowTitle  = "skirmish"

	// PixelsPerTile is the window scale for one world unit
	PixelsPerTile = 24
)
