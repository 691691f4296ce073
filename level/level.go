// Package level loads, validates and saves level files and turns spawn descriptors into entities
package level

import (
	"fmt"
	"math"
	"os"
	"sort"
	"unicode/utf8"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/engine"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/particle"
	"github.com/lixenwraith/skirmish/tilemap"
	"github.com/lixenwraith/skirmish/vmath"
)

// Level is a validated level ready to populate a world
type Level struct {
	Path        string
	Name        string
	Description string
	Background  uint32
	Map         *tilemap.TileMap
	Materials   map[string]core.Material
	Effects     map[string]particle.Effect
	Blueprints  []Blueprint

	// Source is the decoded document, kept for re-saving
	Source *File
}

// Load reads and builds a level, the codec is chosen by extension
// Errors are *core.LevelLoadError, nothing is returned on failure
func Load(path string, layers core.LayerTable) (*Level, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, core.NewLevelFieldError(path, "", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewLevelFieldError(path, "", err)
	}
	return Parse(data, format, path, layers)
}

// Parse builds a level from an in-memory document; path only labels errors
func Parse(data []byte, format Format, path string, layers core.LayerTable) (*Level, error) {
	f, err := Decode(data, format)
	if err != nil {
		return nil, core.NewLevelFieldError(path, "", err)
	}
	return Build(f, path, layers)
}

// Save writes a level document, the codec is chosen by extension
func Save(path string, f *File) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(f, format)
	if err != nil {
		return fmt.Errorf("encode level %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Build validates a decoded document and resolves its tiles, tables and spawns
func Build(f *File, path string, layers core.LayerTable) (*Level, error) {
	fieldErr := func(field string, err error) error {
		return core.NewLevelFieldError(path, field, err)
	}

	tileSize := f.TileSize
	if tileSize == 0 {
		tileSize = parameter.DefaultTileSize
	}
	if !(tileSize > 0) || math.IsInf(tileSize, 0) {
		return nil, fieldErr("tile_size", fmt.Errorf("%v must be positive and finite", f.TileSize))
	}
	if f.Width <= 0 || f.Height <= 0 || f.Width*f.Height > parameter.MaxLevelCells {
		return nil, fieldErr("width", fmt.Errorf("dimensions %dx%d out of range", f.Width, f.Height))
	}
	if len(f.Rows) != f.Height {
		return nil, fieldErr("rows", fmt.Errorf("%d rows, height is %d", len(f.Rows), f.Height))
	}

	bg, err := ParseColor(f.Background)
	if err != nil {
		return nil, fieldErr("background", err)
	}

	mats := DefaultMaterials()
	for _, name := range sortedKeys(f.Materials) {
		m := f.Materials[name]
		if err := validateMaterial(name, m); err != nil {
			return nil, fieldErr("materials", err)
		}
		mats[name] = m
	}

	legend, err := resolveLegend(f.Legend)
	if err != nil {
		return nil, fieldErr("legend", err)
	}

	cells := make([]tilemap.Cell, f.Width*f.Height)
	for r, row := range f.Rows {
		if n := utf8.RuneCountInString(row); n != f.Width {
			return nil, &core.LevelLoadError{Path: path, Field: "rows", Row: r, Col: min(n, f.Width), Err: fmt.Errorf("row has %d cells, width is %d", n, f.Width)}
		}
		y := f.Height - 1 - r
		col := 0
		for _, ch := range row {
			cell, ok := legend[ch]
			if !ok {
				return nil, &core.LevelLoadError{Path: path, Field: "rows", Row: r, Col: col, Err: fmt.Errorf("rune %q has no legend entry", ch)}
			}
			if cell.Material != "" {
				if _, ok := mats[cell.Material]; !ok {
					return nil, &core.LevelLoadError{Path: path, Field: "legend", Row: r, Col: col, Err: fmt.Errorf("unknown material %q", cell.Material)}
				}
			}
			cells[y*f.Width+col] = cell
			col++
		}
	}

	tm, err := tilemap.New(f.Width, f.Height, tileSize, cells, mats)
	if err != nil {
		return nil, fieldErr("legend", err)
	}

	effects := particle.DefaultEffects()
	for _, name := range sortedKeys(f.Effects) {
		eff := f.Effects[name]
		if err := eff.Validate(name); err != nil {
			return nil, fieldErr("effects", err)
		}
		effects[name] = eff.WithDefaults()
	}

	ctx := &overrideContext{layers: layers, materials: mats, effects: make(map[string]bool, len(effects))}
	for name := range effects {
		ctx.effects[name] = true
	}

	blueprints := make([]Blueprint, 0, len(f.Spawns))
	for i, def := range f.Spawns {
		bp, err := resolveSpawn(ctx, def)
		if err != nil {
			return nil, fieldErr(fmt.Sprintf("spawn[%d]", i), err)
		}
		blueprints = append(blueprints, bp)
	}

	return &Level{
		Path:        path,
		Name:        f.Name,
		Description: f.Description,
		Background:  bg,
		Map:         tm,
		Materials:   mats,
		Effects:     effects,
		Blueprints:  blueprints,
		Source:      f,
	}, nil
}

// resolveLegend maps single-rune keys to cells, '.' and ' ' default to empty
func resolveLegend(entries map[string]LegendEntry) (map[rune]tilemap.Cell, error) {
	legend := map[rune]tilemap.Cell{
		parameter.EmptyTileRune: {},
		' ':                     {},
	}
	for _, key := range sortedKeys(entries) {
		r, size := utf8.DecodeRuneInString(key)
		if size == 0 || size != len(key) {
			return nil, fmt.Errorf("legend key %q must be a single character", key)
		}
		entry := entries[key]
		kind, err := tilemap.ParseKind(entry.Kind)
		if err != nil {
			return nil, fmt.Errorf("legend %q: %w", key, err)
		}
		if kind == tilemap.Slope && (!vmath.IsFinite(entry.Angle) || entry.Angle == 0 || math.Abs(entry.Angle) >= 90) {
			return nil, fmt.Errorf("legend %q: slope angle %v outside (-90, 0) u (0, 90)", key, entry.Angle)
		}
		legend[r] = tilemap.Cell{Kind: kind, Angle: entry.Angle, Material: entry.Material}
	}
	return legend, nil
}

func resolveSpawn(ctx *overrideContext, def SpawnDef) (Blueprint, error) {
	fill, ok := prefabs[def.Type]
	if !ok {
		return Blueprint{}, &core.ConfigurationError{Scope: "spawn", Field: "type", Value: def.Type, Reason: "unknown prefab"}
	}
	if !vmath.IsFinite(def.X) || !vmath.IsFinite(def.Y) {
		return Blueprint{}, &core.ConfigurationError{Scope: def.Type, Field: "position", Value: vmath.V(def.X, def.Y), Reason: "must be finite"}
	}
	bp := fill(def.X, def.Y, ctx.materials)
	bp.Type = def.Type
	if err := applyOverrides(ctx, &bp, def.Components); err != nil {
		return Blueprint{}, err
	}
	if err := bp.check(); err != nil {
		return Blueprint{}, err
	}
	return bp, nil
}

// Populate spawns every blueprint in file order
// On failure the entities spawned so far are destroyed
func (l *Level) Populate(w *engine.World) ([]core.Entity, error) {
	spawned := make([]core.Entity, 0, len(l.Blueprints))
	for i := range l.Blueprints {
		e, err := l.Blueprints[i].Spawn(w)
		if err != nil {
			for _, s := range spawned {
				_ = w.DestroyEntity(s)
			}
			return nil, fmt.Errorf("populate %s: %w", l.Path, err)
		}
		spawned = append(spawned, e)
	}
	return spawned, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
