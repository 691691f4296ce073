package event

// EventType represents the type of simulation event
type EventType int

const (
	// EventSoundCue requests a presentation sound
	// Trigger: Control (jump), Physics (land, bump), Particle (burst)
	// Consumer: Backend AudioSink | Payload: core.SoundID
	EventSoundCue EventType = iota

	// EventLevelLoaded reports a completed level transition
	// Trigger: Simulation level swap
	// Consumer: Logging, HUD | Payload: *LevelPayload
	EventLevelLoaded

	// EventLevelFailed reports a rejected level, the previous level stays active
	// Trigger: Simulation level swap
	// Consumer: Logging, HUD | Payload: *LevelPayload
	EventLevelFailed
)

var typeNames = map[EventType]string{
	EventSoundCue:    "sound_cue",
	EventLevelLoaded: "level_loaded",
	EventLevelFailed: "level_failed",
}

func (t EventType) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "unknown"
}
