package engine

import (
	"errors"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/event"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/status"
)

var (
	// ErrNoSuchEntity is returned when attaching to a destroyed, stale or unknown entity
	ErrNoSuchEntity = errors.New("no such entity")

	// ErrAlreadyDestroyed is returned by a repeated or stale DestroyEntity call
	ErrAlreadyDestroyed = errors.New("entity already destroyed")
)

// Mask is a component-type set, one bit per registered component type
type Mask uint64

// ComponentID indexes a registered component type
type ComponentID uint8

// Has reports whether m contains every bit of other
func (m Mask) Has(other Mask) bool {
	return m&other == other
}

// System is an interface that all systems must implement
type System interface {
	Update(world *World, dt time.Duration)
	Priority() int // Lower values run first
}

type slot struct {
	gen   uint32
	alive bool
	mask  Mask
}

// World contains all entities and their components using typed stores
// Not safe for concurrent use; the simulation mutates it only from the frame loop
type World struct {
	slots    []slot        // Indexed by entity ID, slot 0 is the null entity
	free     []uint32      // Released IDs, reused oldest first
	freeHead int           // Read position in free
	order    []core.Entity // Creation order, compacted on flush
	alive    int

	stores    []AnyStore
	typeIndex map[reflect.Type]ComponentID

	pending   []core.Entity // Destroyed, awaiting release
	warnings  []core.Warning // Raised, awaiting DrainWarnings
	tickOpen  bool
	tick      uint64
	iterDepth int

	// Global ResourceStore
	Resources *ResourceStore

	// Direct pointers for high-frequency path optimization
	eventQueue *event.Queue
	statAlive  *atomic.Int64
	statWarn   [core.WarningCount]*atomic.Int64

	systems []System
}

// NewWorld creates an empty world
func NewWorld() *World {
	return &World{
		slots:     make([]slot, 1, parameter.InitialEntityCapacity),
		order:     make([]core.Entity, 0, parameter.InitialEntityCapacity),
		typeIndex: make(map[reflect.Type]ComponentID),
		Resources: NewResourceStore(),
	}
}

// SetEventQueue wires the queue PushEvent writes to
func (w *World) SetEventQueue(q *event.Queue) {
	w.eventQueue = q
}

// SetStatus wires telemetry counters
func (w *World) SetStatus(reg *status.Registry) {
	w.statAlive = reg.Ints.Get("world.entities")
	for k := core.WarningKind(0); k < core.WarningCount; k++ {
		w.statWarn[k] = reg.Ints.Get("warnings." + k.String())
	}
	w.statAlive.Store(int64(w.alive))
}

// CreateEntity reserves a new entity, recycling released IDs with a bumped generation
func (w *World) CreateEntity() core.Entity {
	var id uint32
	if w.freeHead < len(w.free) {
		id = w.free[w.freeHead]
		w.freeHead++
		if w.freeHead == len(w.free) {
			w.free = w.free[:0]
			w.freeHead = 0
		}
	} else {
		id = uint32(len(w.slots))
		w.slots = append(w.slots, slot{gen: 1})
	}

	s := &w.slots[id]
	s.alive = true
	s.mask = 0
	e := core.Entity{ID: id, Gen: s.gen}
	w.order = append(w.order, e)
	w.alive++
	if w.statAlive != nil {
		w.statAlive.Store(int64(w.alive))
	}
	return e
}

// Alive reports whether e refers to a live entity
func (w *World) Alive(e core.Entity) bool {
	if e.ID == 0 || int(e.ID) >= len(w.slots) {
		return false
	}
	s := w.slots[e.ID]
	return s.alive && s.gen == e.Gen
}

// DestroyEntity marks e dead; queries stop returning it immediately
// Component release happens at end of tick, or at once when no tick or iteration is running
// A repeated call, or a call with a stale handle, returns ErrAlreadyDestroyed
func (w *World) DestroyEntity(e core.Entity) error {
	if !w.Alive(e) {
		return ErrAlreadyDestroyed
	}
	w.slots[e.ID].alive = false
	w.alive--
	w.pending = append(w.pending, e)
	if w.statAlive != nil {
		w.statAlive.Store(int64(w.alive))
	}

	if !w.tickOpen && w.iterDepth == 0 {
		w.Flush()
	}
	return nil
}

// Flush applies queued destruction: components removed, IDs released with a new generation
func (w *World) Flush() {
	if len(w.pending) == 0 {
		return
	}

	for _, st := range w.stores {
		st.RemoveBatch(w.pending)
	}
	for _, e := range w.pending {
		s := &w.slots[e.ID]
		s.mask = 0
		s.gen++
		w.free = append(w.free, e.ID)
	}

	// Order-preserving compaction keeps creation order stable
	writeIdx := 0
	for _, e := range w.order {
		if w.Alive(e) {
			w.order[writeIdx] = e
			writeIdx++
		}
	}
	clear(w.order[writeIdx:])
	w.order = w.order[:writeIdx]
	w.pending = w.pending[:0]
}

// PendingDestroy returns the number of entities awaiting release
func (w *World) PendingDestroy() int {
	return len(w.pending)
}

// Count returns the number of live entities
func (w *World) Count() int {
	return w.alive
}

// BeginTick opens a tick; destruction is deferred until EndTick
func (w *World) BeginTick(tick uint64) {
	w.tickOpen = true
	w.tick = tick
}

// InTick reports whether a tick is open
func (w *World) InTick() bool {
	return w.tickOpen
}

// EndTick closes the tick and applies deferred destruction
func (w *World) EndTick() {
	w.tickOpen = false
	if w.iterDepth == 0 {
		w.Flush()
	}
}

// Tick returns the current or last tick number
func (w *World) Tick() uint64 {
	return w.tick
}

// AddSystem adds a system to the world and sorts by priority
func (w *World) AddSystem(system System) {
	w.systems = append(w.systems, system)

	// Insertion sort, stable for equal priorities, small N
	for i := len(w.systems) - 1; i > 0; i-- {
		if w.systems[i-1].Priority() <= w.systems[i].Priority() {
			break
		}
		w.systems[i-1], w.systems[i] = w.systems[i], w.systems[i-1]
	}
}

// Systems returns a copy of all registered systems in run order
func (w *World) Systems() []System {
	result := make([]System, len(w.systems))
	copy(result, w.systems)
	return result
}

// Update runs all systems sequentially in priority order
func (w *World) Update(dt time.Duration) {
	for _, system := range w.systems {
		system.Update(w, dt)
	}
}

// PushEvent emits a simulation event stamped with the current tick
func (w *World) PushEvent(t event.EventType, e core.Entity, payload any) {
	if w.eventQueue == nil {
		return
	}
	w.eventQueue.Push(event.Event{
		Type:    t,
		Entity:  e,
		Tick:    w.tick,
		Payload: payload,
	})
}

// Warn raises a non-fatal warning, counted in status and retained until DrainWarnings
// Warnings stay off the event ring
func (w *World) Warn(warning core.Warning) {
	warning.Tick = w.tick
	if warning.Kind < core.WarningCount && w.statWarn[warning.Kind] != nil {
		w.statWarn[warning.Kind].Add(1)
	}
	w.warnings = append(w.warnings, warning)
}

// DrainWarnings appends retained warnings to dst in raise order and forgets them
func (w *World) DrainWarnings(dst []core.Warning) []core.Warning {
	dst = append(dst, w.warnings...)
	clear(w.warnings)
	w.warnings = w.warnings[:0]
	return dst
}

// PendingWarnings returns how many warnings await DrainWarnings
func (w *World) PendingWarnings() int {
	return len(w.warnings)
}
