package system

import (
	"time"

	"github.com/lixenwraith/skirmish/component"
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/engine"
	"github.com/lixenwraith/skirmish/parameter"
)

// LifetimeSystem destroys entities whose lifetime has run out
// Destruction is deferred by the world until the tick closes
type LifetimeSystem struct {
	expired []core.Entity
}

// NewLifetimeSystem creates a new lifetime system
func NewLifetimeSystem() *LifetimeSystem {
	return &LifetimeSystem{expired: make([]core.Entity, 0, 64)}
}

func (s *LifetimeSystem) Priority() int {
	return parameter.PriorityLifetime
}

// Update decrements timers and handles expiration
func (s *LifetimeSystem) Update(w *engine.World, dt time.Duration) {
	step := dt.Seconds()
	s.expired = s.expired[:0]
	for e, lt := range engine.Query1[component.LifetimeComponent](w) {
		lt.Remaining -= step
		if lt.Remaining <= 0 {
			s.expired = append(s.expired, e)
		}
	}
	for _, e := range s.expired {
		_ = w.DestroyEntity(e)
	}
}
