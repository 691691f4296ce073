package engine

import (
	"github.com/lixenwraith/skirmish/core"
)

// AnyStore provides type-erased operations for lifecycle management
// This interface allows World to manage all stores uniformly
// for operations like entity destruction without knowing the concrete type
type AnyStore interface {
	// RemoveEntity deletes the component held by an entity
	RemoveEntity(e core.Entity) bool

	// HasEntity checks if an entity has this component
	HasEntity(e core.Entity) bool

	// CountEntities returns the number of entities with this component
	CountEntities() int

	// RemoveBatch deletes the components of many entities in one compaction pass
	RemoveBatch(entities []core.Entity)
}
