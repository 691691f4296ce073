package component

// SpriteComponent references a visual and its presentation flags
// Handle names an asset for backends that draw images, Glyph is the fallback for cell-based output
type SpriteComponent struct {
	Handle string
	Glyph  rune
	Color  uint32 // 0xRRGGBB
	FlipX  bool
	FlipY  bool
	Z      int
}

// LifetimeComponent destroys its entity when Remaining reaches zero
type LifetimeComponent struct {
	Remaining float64 // Seconds
}
