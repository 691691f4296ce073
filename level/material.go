package level

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/vmath"
)

// DefaultMaterials are available to every level, file entries override them by name
func DefaultMaterials() map[string]core.Material {
	return map[string]core.Material{
		"default": {Friction: parameter.DefaultFriction, Bounciness: parameter.DefaultBounciness},
		"stone":   {Friction: 0.8, Bounciness: 0},
		"wood":    {Friction: 0.7, Bounciness: 0.1},
		"ice":     {Friction: 0.05, Bounciness: 0},
		"rubber":  {Friction: 0.9, Bounciness: 0.8},
	}
}

func validateMaterial(name string, m core.Material) error {
	scope := "materials." + name
	if m.Friction < 0 || !vmath.IsFinite(m.Friction) {
		return &core.ConfigurationError{Scope: scope, Field: "friction", Value: m.Friction, Reason: "must be a finite non-negative number"}
	}
	if m.Bounciness < 0 || m.Bounciness > 1 || !vmath.IsFinite(m.Bounciness) {
		return &core.ConfigurationError{Scope: scope, Field: "bounciness", Value: m.Bounciness, Reason: "must be within [0, 1]"}
	}
	return nil
}

// ParseColor reads "#rrggbb" into 0xRRGGBB, empty means black
func ParseColor(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return 0, fmt.Errorf("color %q is not #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return uint32(v), nil
}

// FormatColor writes 0xRRGGBB as "#rrggbb"
func FormatColor(c uint32) string {
	return fmt.Sprintf("#%06x", c&0xFFFFFF)
}
