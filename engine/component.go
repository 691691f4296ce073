package engine

import (
	"fmt"
	"reflect"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/parameter"
)

// ComponentOf returns the ID of component type T, registering its store on first use
func ComponentOf[T any](w *World) ComponentID {
	t := reflect.TypeFor[T]()
	if id, ok := w.typeIndex[t]; ok {
		return id
	}
	if len(w.stores) >= parameter.MaxComponentTypes {
		panic(fmt.Sprintf("component type limit %d reached registering %s", parameter.MaxComponentTypes, t))
	}
	id := ComponentID(len(w.stores))
	w.stores = append(w.stores, NewStore[T]())
	w.typeIndex[t] = id
	return id
}

// MaskOf returns the single-bit mask of component type T
func MaskOf[T any](w *World) Mask {
	return Mask(1) << ComponentOf[T](w)
}

// StoreOf returns the typed store for T for direct system access
func StoreOf[T any](w *World) *Store[T] {
	return w.stores[ComponentOf[T](w)].(*Store[T])
}

// AddComponent attaches val to e, overwriting any existing component of the same type
func AddComponent[T any](w *World, e core.Entity, val T) error {
	if !w.Alive(e) {
		return fmt.Errorf("add %s to %s: %w", reflect.TypeFor[T]().Name(), e, ErrNoSuchEntity)
	}
	id := ComponentOf[T](w)
	w.stores[id].(*Store[T]).SetComponent(e, val)
	w.slots[e.ID].mask |= Mask(1) << id
	return nil
}

// RemoveComponent detaches T from e, reports whether it was present
func RemoveComponent[T any](w *World, e core.Entity) bool {
	if !w.Alive(e) {
		return false
	}
	id := ComponentOf[T](w)
	if !w.stores[id].RemoveEntity(e) {
		return false
	}
	w.slots[e.ID].mask &^= Mask(1) << id
	return true
}

// GetComponent returns a copy of e's component T
func GetComponent[T any](w *World, e core.Entity) (T, bool) {
	if !w.Alive(e) {
		var zero T
		return zero, false
	}
	return StoreOf[T](w).GetComponent(e)
}

// GetComponentMut returns a pointer to e's component T, nil when absent or e is dead
// The pointer is invalidated by the next add or removal of a T component
func GetComponentMut[T any](w *World, e core.Entity) *T {
	if !w.Alive(e) {
		return nil
	}
	return StoreOf[T](w).Ref(e)
}

// HasComponent reports whether a live e carries T
func HasComponent[T any](w *World, e core.Entity) bool {
	if !w.Alive(e) {
		return false
	}
	return w.slots[e.ID].mask&MaskOf[T](w) != 0
}

// MaskFor returns the component mask of a live entity
func (w *World) MaskFor(e core.Entity) Mask {
	if !w.Alive(e) {
		return 0
	}
	return w.slots[e.ID].mask
}
