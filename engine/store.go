package engine

import (
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/parameter"
)

// Store is a generic container for a specific component type T
// Uses sparse set pattern: sparse maps entity ID to a dense index, dense arrays are cache-friendly to iterate
// Pointers returned by Ref stay valid until the next insertion or removal in this store
type Store[T any] struct {
	sparse   []int32       // entity ID -> dense index + 1, zero means absent
	dense    []T           // Component values
	entities []core.Entity // Owner of each dense slot
}

// NewStore creates a new component store for type T
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		sparse:   make([]int32, parameter.InitialEntityCapacity),
		dense:    make([]T, 0, 64),
		entities: make([]core.Entity, 0, 64),
	}
}

func (s *Store[T]) index(e core.Entity) (int, bool) {
	if int(e.ID) >= len(s.sparse) {
		return 0, false
	}
	i := s.sparse[e.ID] - 1
	if i < 0 || s.entities[i] != e {
		return 0, false
	}
	return int(i), true
}

// SetComponent inserts or overwrites a component for an entity
func (s *Store[T]) SetComponent(e core.Entity, val T) {
	if i, ok := s.index(e); ok {
		s.dense[i] = val
		return
	}

	if int(e.ID) >= len(s.sparse) {
		grown := make([]int32, max(int(e.ID)+1, len(s.sparse)*2))
		copy(grown, s.sparse)
		s.sparse = grown
	}
	s.dense = append(s.dense, val)
	s.entities = append(s.entities, e)
	s.sparse[e.ID] = int32(len(s.dense))
}

// GetComponent retrieves a copy of the component for an entity
func (s *Store[T]) GetComponent(e core.Entity) (T, bool) {
	if i, ok := s.index(e); ok {
		return s.dense[i], true
	}
	var zero T
	return zero, false
}

// Ref returns a pointer into dense storage, nil if absent
func (s *Store[T]) Ref(e core.Entity) *T {
	if i, ok := s.index(e); ok {
		return &s.dense[i]
	}
	return nil
}

// RemoveEntity deletes a component from an entity using swap-remove
func (s *Store[T]) RemoveEntity(e core.Entity) bool {
	i, ok := s.index(e)
	if !ok {
		return false
	}

	last := len(s.dense) - 1
	if i != last {
		s.dense[i] = s.dense[last]
		s.entities[i] = s.entities[last]
		s.sparse[s.entities[i].ID] = int32(i + 1)
	}
	var zero T
	s.dense[last] = zero
	s.dense = s.dense[:last]
	s.entities = s.entities[:last]
	s.sparse[e.ID] = 0
	return true
}

// HasEntity checks if entity has this component
func (s *Store[T]) HasEntity(e core.Entity) bool {
	_, ok := s.index(e)
	return ok
}

// GetAllEntities returns all entities with this component type in dense order
func (s *Store[T]) GetAllEntities() []core.Entity {
	result := make([]core.Entity, len(s.entities))
	copy(result, s.entities)
	return result
}

// CountEntities returns number of entities with this component
func (s *Store[T]) CountEntities() int {
	return len(s.entities)
}

// RemoveBatch deletes multiple entities in a single pass - O(n+m) vs O(n*m) for individual removes
// Survivors keep their relative dense order
func (s *Store[T]) RemoveBatch(entities []core.Entity) {
	if len(entities) == 0 || len(s.entities) == 0 {
		return
	}

	removed := 0
	for _, e := range entities {
		if i, ok := s.index(e); ok {
			// Mark by clearing the sparse entry, compaction below skips unmarked owners
			s.sparse[e.ID] = 0
			s.entities[i] = core.Entity{}
			removed++
		}
	}
	if removed == 0 {
		return
	}

	// Single pass compaction of dense arrays
	writeIdx := 0
	for readIdx, e := range s.entities {
		if e.IsZero() {
			continue
		}
		if writeIdx != readIdx {
			s.dense[writeIdx] = s.dense[readIdx]
			s.entities[writeIdx] = e
		}
		s.sparse[e.ID] = int32(writeIdx + 1)
		writeIdx++
	}
	var zero T
	for i := writeIdx; i < len(s.dense); i++ {
		s.dense[i] = zero
	}
	s.dense = s.dense[:writeIdx]
	s.entities = s.entities[:writeIdx]
}
