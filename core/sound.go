package core

// SoundID names a presentation sound cue raised by the simulation
type SoundID uint8

const (
	SoundNone  SoundID = iota
	SoundJump          // Takeoff from ground
	SoundLand          // First tick of ground contact after airtime
	SoundBump          // Body-body impact above rest velocity
	SoundBurst         // Particle emitter fired
	SoundCount
)

var soundNames = [SoundCount]string{"none", "jump", "land", "bump", "burst"}

func (s SoundID) String() string {
	if s < SoundCount {
		return soundNames[s]
	}
	return "unknown"
}
