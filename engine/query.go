package engine

import (
	"iter"

	"github.com/lixenwraith/skirmish/core"
)

// Query is a lazy, restartable view over live entities holding every component in its mask
// Iteration follows entity creation order and observes the world as it is when each entity is reached
// Entities created during an iteration are not visited by it
type Query struct {
	world   *World
	include Mask
	exclude Mask
}

// Query creates a query for entities carrying all of the given component types
//
// Example:
//
//	q := w.Query(engine.ComponentOf[component.PositionComponent](w), engine.ComponentOf[component.ColliderComponent](w))
//	for e := range q.All() { ... }
func (w *World) Query(ids ...ComponentID) *Query {
	var m Mask
	for _, id := range ids {
		m |= Mask(1) << id
	}
	return &Query{world: w, include: m}
}

// QueryMask creates a query from a prebuilt mask
func (w *World) QueryMask(m Mask) *Query {
	return &Query{world: w, include: m}
}

// Without excludes entities carrying any of the given component types
func (q *Query) Without(ids ...ComponentID) *Query {
	for _, id := range ids {
		q.exclude |= Mask(1) << id
	}
	return q
}

// All yields matching entities
// Destroy calls made while iterating outside a tick are applied when the outermost iteration ends
func (q *Query) All() iter.Seq[core.Entity] {
	return func(yield func(core.Entity) bool) {
		w := q.world
		w.iterDepth++
		defer w.endIteration()

		n := len(w.order)
		for i := 0; i < n; i++ {
			e := w.order[i]
			s := w.slots[e.ID]
			if !s.alive || s.gen != e.Gen {
				continue
			}
			if !s.mask.Has(q.include) || s.mask&q.exclude != 0 {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Collect materializes the current matches
func (q *Query) Collect() []core.Entity {
	var out []core.Entity
	for e := range q.All() {
		out = append(out, e)
	}
	return out
}

// Count returns the number of current matches
func (q *Query) Count() int {
	n := 0
	for range q.All() {
		n++
	}
	return n
}

func (w *World) endIteration() {
	w.iterDepth--
	if w.iterDepth == 0 && !w.tickOpen {
		w.Flush()
	}
}

// Row2 carries two component pointers of one entity
type Row2[T1, T2 any] struct {
	A *T1
	B *T2
}

// Row3 carries three component pointers of one entity
type Row3[T1, T2, T3 any] struct {
	A *T1
	B *T2
	C *T3
}

// Query1 yields entities with T and a pointer to their component
func Query1[T any](w *World) iter.Seq2[core.Entity, *T] {
	st := StoreOf[T](w)
	q := w.QueryMask(MaskOf[T](w))
	return func(yield func(core.Entity, *T) bool) {
		for e := range q.All() {
			if !yield(e, st.Ref(e)) {
				return
			}
		}
	}
}

// Query2 yields entities with T1 and T2
func Query2[T1, T2 any](w *World) iter.Seq2[core.Entity, Row2[T1, T2]] {
	s1, s2 := StoreOf[T1](w), StoreOf[T2](w)
	q := w.QueryMask(MaskOf[T1](w) | MaskOf[T2](w))
	return func(yield func(core.Entity, Row2[T1, T2]) bool) {
		for e := range q.All() {
			if !yield(e, Row2[T1, T2]{A: s1.Ref(e), B: s2.Ref(e)}) {
				return
			}
		}
	}
}

// Query3 yields entities with T1, T2 and T3
func Query3[T1, T2, T3 any](w *World) iter.Seq2[core.Entity, Row3[T1, T2, T3]] {
	s1, s2, s3 := StoreOf[T1](w), StoreOf[T2](w), StoreOf[T3](w)
	q := w.QueryMask(MaskOf[T1](w) | MaskOf[T2](w) | MaskOf[T3](w))
	return func(yield func(core.Entity, Row3[T1, T2, T3]) bool) {
		for e := range q.All() {
			if !yield(e, Row3[T1, T2, T3]{A: s1.Ref(e), B: s2.Ref(e), C: s3.Ref(e)}) {
				return
			}
		}
	}
}
