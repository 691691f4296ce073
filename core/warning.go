package core

import "fmt"

// WarningKind classifies recoverable simulation anomalies
type WarningKind uint8

const (
	WarningInvalidState     WarningKind = iota // NaN or Inf state restored to last valid
	WarningTicksDropped                        // Scheduler discarded catch-up ticks
	WarningParticlesDropped                    // Pool at capacity rejected spawns
	WarningUnbackedCollider                    // Collider without RigidBody or Static, treated as static
	WarningLoadDiscarded                       // Background result arrived for a cancelled request
	WarningInvalidCollider                     // Body collider with degenerate dimensions, treated as static
	WarningCount
)

var warningNames = [WarningCount]string{
	"invalid_state",
	"ticks_dropped",
	"particles_dropped",
	"unbacked_collider",
	"load_discarded",
	"invalid_collider",
}

func (k WarningKind) String() string {
	if k < WarningCount {
		return warningNames[k]
	}
	return "unknown"
}

// Warning is a non-fatal signal raised during a tick, the simulation keeps running
type Warning struct {
	Kind   WarningKind
	Entity Entity
	Tick   uint64
	Count  int // Dropped ticks or particles
	Detail string
}

func (w Warning) String() string {
	s := fmt.Sprintf("tick %d: %s", w.Tick, w.Kind)
	if !w.Entity.IsZero() {
		s += " " + w.Entity.String()
	}
	if w.Count > 0 {
		s += fmt.Sprintf(" count=%d", w.Count)
	}
	if w.Detail != "" {
		s += ": " + w.Detail
	}
	return s
}
