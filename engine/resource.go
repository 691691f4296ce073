package engine

import (
	"reflect"
	"sync"
	"time"

	"github.com/lixenwraith/skirmish/core"
)

// ResourceStore is a thread-safe container for world-global singletons
// It allows systems to access shared data (Time, Input) without coupling to the simulation facade
type ResourceStore struct {
	mu        sync.RWMutex
	resources map[reflect.Type]any
}

// NewResourceStore creates a new empty resource store
func NewResourceStore() *ResourceStore {
	return &ResourceStore{
		resources: make(map[reflect.Type]any),
	}
}

// AddResource registers or replaces a resource keyed by its static type
// Pointer types are recommended so systems mutate the shared instance
func AddResource[T any](rs *ResourceStore, resource T) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.resources[reflect.TypeFor[T]()] = resource
}

// GetResource retrieves a resource of type T from the store
// Returns the zero value of T and false if not found
func GetResource[T any](rs *ResourceStore) (T, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	val, ok := rs.resources[reflect.TypeFor[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return val.(T), true
}

// MustGetResource retrieves a resource or panics if missing
// Useful for core resources (Time, Input) that must exist
func MustGetResource[T any](rs *ResourceStore) T {
	res, ok := GetResource[T](rs)
	if !ok {
		panic("required resource not found: " + reflect.TypeFor[T]().String())
	}
	return res
}

// --- Core Resources ---

// TimeResource is updated by the Scheduler at the start of each tick
type TimeResource struct {
	Tick      uint64
	DeltaTime time.Duration
	Seconds   float64 // DeltaTime in seconds, the fixed physics step
	SimTime   time.Duration
}

// InputResource holds the intents of the current frame, written by the simulation facade
type InputResource struct {
	State core.InputState
}
