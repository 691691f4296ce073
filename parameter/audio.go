package parameter

import "time"

// Audio
const (
	// AudioSampleRate is shared by the beep speaker and the ebiten audio context
	AudioSampleRate = 48000

	// AudioBufferDuration is the speaker buffer length
	AudioBufferDuration = 100 * time.Millisecond

	// AudioMaxCueDuration caps rendered PCM for a single cue
	AudioMaxCueDuration = 400 * time.Millisecond

	// AudioMasterVolume is a linear gain, converted to beep's base-2 scale at playback
	AudioMasterVolume = 0.5
)
