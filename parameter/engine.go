package parameter

import "time"

// Simulation Timing
const (
	// FixedTimestep is the default simulation tick (60 Hz)
	FixedTimestep = time.Second / 60

	// MaxTicksPerFrame caps catch-up ticks run by a single Advance call
	MaxTicksPerFrame = 5

	// FrameUpdateInterval is the presentation pacing used by the terminal backend (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond
)

// ECS & Resources Limits
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 1024

	// EventBufferMask is the bitmask for fast modulo operations (1024 - 1)
	EventBufferMask = 1023

	// MaxComponentTypes is bounded by the width of engine.Mask
	MaxComponentTypes = 64

	// InitialEntityCapacity presizes entity slot and store arrays
	InitialEntityCapacity = 256
)

// MaxEntitiesPerCell set to 15 so a spatial cell fits in two cache lines
// with 8-byte entity handles: 15 * 8 (Entities) + 1 (Count) + 7 (Padding) = 128 bytes
const MaxEntitiesPerCell = 15
