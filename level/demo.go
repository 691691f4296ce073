package level

import (
	_ "embed"

	"github.com/lixenwraith/skirmish/core"
)

//go:embed demo.toml
var demoLevel []byte

// DemoPath labels the embedded level in errors and logs
const DemoPath = "embedded:demo.toml"

// Demo builds the embedded demo level
func Demo(layers core.LayerTable) (*Level, error) {
	return Parse(demoLevel, FormatText, DemoPath, layers)
}
