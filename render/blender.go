package render

// BlendMode defines compositing operations using a bitmask (Flags | Op)
type BlendMode uint8

// Blend Operations (0-15)
const (
	opReplace uint8 = 0x00
	opAlpha   uint8 = 0x01
	opAdd     uint8 = 0x02
	opMax     uint8 = 0x03
)

// Blend Flags
const (
	flagBg uint8 = 0x10 // Apply operation to Background
	flagFg uint8 = 0x20 // Apply operation to Foreground
)

// Pre-defined Blend Modes
const (
	BlendReplace = BlendMode(opReplace | flagBg | flagFg)
	BlendAlpha   = BlendMode(opAlpha | flagBg | flagFg)
	BlendAdd     = BlendMode(opAdd | flagBg | flagFg)
	BlendMax     = BlendMode(opMax | flagBg | flagFg)

	// Targeted Modes
	BlendFgOnly  = BlendMode(opReplace | flagFg) // Replace Fg, keep Bg
	BlendAlphaFg = BlendMode(opAlpha | flagFg)   // Fade Fg over existing Fg, keep Bg
	BlendAddFg   = BlendMode(opAdd | flagFg)     // Add Fg, keep Bg
	BlendBgOnly  = BlendMode(opReplace | flagBg) // Replace Bg, keep rune and Fg
)

func apply(op uint8, dst, src RGB, alpha float64) RGB {
	switch op {
	case opAlpha:
		return Blend(dst, src, alpha)
	case opAdd:
		return Add(dst, src)
	case opMax:
		return Max(dst, src)
	default:
		return src
	}
}
