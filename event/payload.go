package event

import "github.com/lixenwraith/skirmish/core"

// Event is a single queued signal, Tick is the simulation tick that raised it
type Event struct {
	Type    EventType
	Entity  core.Entity
	Tick    uint64
	Payload any
}

// LevelPayload describes a level transition outcome
type LevelPayload struct {
	Path string
	Name string
	Err  error
}
