package level

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/particle"
	"github.com/lixenwraith/skirmish/toml"
)

// File is the serialized form of a level, shared by the TOML and msgpack codecs
// Rows run top to bottom, one rune per cell, resolved through Legend
type File struct {
	Name        string                     `toml:"name" msgpack:"name"`
	Description string                     `toml:"description,omitempty" msgpack:"description,omitempty"`
	TileSize    float64                    `toml:"tile_size,omitempty" msgpack:"tile_size,omitempty"`
	Background  string                     `toml:"background,omitempty" msgpack:"background,omitempty"`
	Width       int                        `toml:"width" msgpack:"width"`
	Height      int                        `toml:"height" msgpack:"height"`
	Rows        []string                   `toml:"rows" msgpack:"rows"`
	Legend      map[string]LegendEntry     `toml:"legend,omitempty" msgpack:"legend,omitempty"`
	Materials   map[string]core.Material   `toml:"materials,omitempty" msgpack:"materials,omitempty"`
	Effects     map[string]particle.Effect `toml:"effects,omitempty" msgpack:"effects,omitempty"`
	Spawns      []SpawnDef                 `toml:"spawn,omitempty" msgpack:"spawn,omitempty"`
}

// LegendEntry maps a row rune to a tile
type LegendEntry struct {
	Kind     string  `toml:"kind" msgpack:"kind"`
	Angle    float64 `toml:"angle,omitempty" msgpack:"angle,omitempty"`
	Material string  `toml:"material,omitempty" msgpack:"material,omitempty"`
}

// SpawnDef places a prefab; Components override prefab defaults by component name
type SpawnDef struct {
	Type       string                    `toml:"type" msgpack:"type"`
	X          float64                   `toml:"x" msgpack:"x"`
	Y          float64                   `toml:"y" msgpack:"y"`
	Components map[string]map[string]any `toml:"components,omitempty" msgpack:"components,omitempty"`
}

// Format selects a level codec
type Format uint8

const (
	FormatText   Format = iota // TOML
	FormatBinary               // msgpack
)

func (f Format) String() string {
	if f == FormatBinary {
		return "lvlb"
	}
	return "toml"
}

// FormatOf picks a codec from a file extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case parameter.LevelTextExt:
		return FormatText, nil
	case parameter.LevelBinaryExt:
		return FormatBinary, nil
	}
	return FormatText, fmt.Errorf("unsupported level extension %q", filepath.Ext(path))
}

// Decode parses a level document, unknown keys are rejected in both formats
func Decode(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatText:
		if err := toml.UnmarshalStrict(data, &f); err != nil {
			return nil, err
		}
	case FormatBinary:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields(true)
		// Interface values decode as int64/uint64/float64 so component overrides see uniform kinds
		dec.UseLooseInterfaceDecoding(true)
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown level format %d", format)
	}
	return &f, nil
}

// Encode serializes a level document
func Encode(f *File, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return toml.Marshal(f)
	case FormatBinary:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetSortMapKeys(true)
		if err := enc.Encode(f); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown level format %d", format)
}
