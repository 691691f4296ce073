package core

import (
	"fmt"
	"math/bits"

	"github.com/lixenwraith/skirmish/parameter"
)

// LayerMask is a set of collision layers, bit 0 is the world layer tiles occupy
type LayerMask uint32

const (
	LayerWorld LayerMask = 1 << 0
	LayerAll   LayerMask = ^LayerMask(0)
)

// Interacts reports whether two layer/mask pairs collide, both sides must accept the other
func Interacts(layerA, maskA, layerB, maskB LayerMask) bool {
	return maskA&layerB != 0 && maskB&layerA != 0
}

// LayerTable resolves layer names to bits and their default masks
type LayerTable struct {
	names []string
	bits  map[string]LayerMask
	masks map[string]LayerMask
}

// NewLayerTable builds a table from ordered names and per-layer collide lists
// The world layer is always present at bit 0; a layer without a collide list collides with everything
func NewLayerTable(names []string, collides map[string][]string) (LayerTable, error) {
	t := LayerTable{
		bits:  make(map[string]LayerMask, len(names)+1),
		masks: make(map[string]LayerMask, len(names)+1),
	}
	add := func(name string) error {
		if _, dup := t.bits[name]; dup {
			return &ConfigurationError{Scope: "collision_layers", Field: name, Reason: "duplicate layer"}
		}
		if len(t.names) >= parameter.MaxCollisionLayers {
			return &ConfigurationError{Scope: "collision_layers", Field: name, Reason: "more than 32 layers"}
		}
		t.bits[name] = LayerMask(1) << uint(len(t.names))
		t.names = append(t.names, name)
		return nil
	}
	if err := add(parameter.WorldLayerName); err != nil {
		return t, err
	}
	for _, n := range names {
		if n == parameter.WorldLayerName {
			continue
		}
		if n == "" {
			return t, &ConfigurationError{Scope: "collision_layers", Field: "name", Reason: "empty layer name"}
		}
		if err := add(n); err != nil {
			return t, err
		}
	}

	for _, n := range t.names {
		list, ok := collides[n]
		if !ok {
			t.masks[n] = LayerAll
			continue
		}
		var m LayerMask
		for _, other := range list {
			b, ok := t.bits[other]
			if !ok {
				return t, &ConfigurationError{Scope: "collision_layers", Field: n, Value: other, Reason: "unknown layer in collide list"}
			}
			m |= b
		}
		t.masks[n] = m
	}
	return t, nil
}

// DefaultLayerTable contains only the world layer
func DefaultLayerTable() LayerTable {
	t, _ := NewLayerTable(nil, nil)
	return t
}

// Bit returns the mask bit for a named layer
func (t LayerTable) Bit(name string) (LayerMask, error) {
	b, ok := t.bits[name]
	if !ok {
		return 0, fmt.Errorf("unknown collision layer %q", name)
	}
	return b, nil
}

// DefaultMask returns the collide mask configured for a named layer
func (t LayerTable) DefaultMask(name string) LayerMask {
	if m, ok := t.masks[name]; ok {
		return m
	}
	return LayerAll
}

// MaskOf combines named layers into one mask
func (t LayerTable) MaskOf(names []string) (LayerMask, error) {
	var m LayerMask
	for _, n := range names {
		b, err := t.Bit(n)
		if err != nil {
			return 0, err
		}
		m |= b
	}
	return m, nil
}

// Names lists layers in bit order
func (t LayerTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len is the number of declared layers including world
func (t LayerTable) Len() int {
	return bits.OnesCount32(uint32(t.all()))
}

func (t LayerTable) all() LayerMask {
	var m LayerMask
	for _, b := range t.bits {
		m |= b
	}
	return m
}
