package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/parameter"
)

// Cue shapes
const (
	jumpDuration  = 120 * time.Millisecond
	landDuration  = 90 * time.Millisecond
	bumpDuration  = 100 * time.Millisecond
	burstDuration = 220 * time.Millisecond
	cueAttack     = 4 * time.Millisecond
)

// createJump is a rising square chirp
func createJump(rate beep.SampleRate) beep.Streamer {
	osc := NewSweep(330, 660, jumpDuration, WaveSquare, rate)
	return newVolume(NewEnvelope(osc, jumpDuration, cueAttack, 60*time.Millisecond, rate), 0.5)
}

// createLand is a low thud with a noise transient
func createLand(rate beep.SampleRate) beep.Streamer {
	thud := NewSweep(120, 60, landDuration, WaveSine, rate)
	thudShaped := NewEnvelope(thud, landDuration, cueAttack, 70*time.Millisecond, rate)

	click := NewOscillator(0, 25*time.Millisecond, WaveNoise, rate)
	clickShaped := NewEnvelope(click, 25*time.Millisecond, 0, 20*time.Millisecond, rate)

	return beep.Mix(
		newVolume(thudShaped, 0.8),
		newVolume(clickShaped, 0.2),
	)
}

// createBump is a short saw knock
func createBump(rate beep.SampleRate) beep.Streamer {
	osc := NewOscillator(140, bumpDuration, WaveSaw, rate)
	return newVolume(NewEnvelope(osc, bumpDuration, cueAttack, 80*time.Millisecond, rate), 0.6)
}

// createBurst is a noise puff followed by a falling tone
func createBurst(rate beep.SampleRate) beep.Streamer {
	puff := NewOscillator(0, burstDuration/2, WaveNoise, rate)
	puffShaped := NewEnvelope(puff, burstDuration/2, cueAttack, 80*time.Millisecond, rate)

	tail := NewSweep(900, 300, burstDuration/2, WaveSine, rate)
	tailShaped := NewEnvelope(tail, burstDuration/2, 0, 100*time.Millisecond, rate)

	return beep.Seq(newVolume(puffShaped, 0.5), newVolume(tailShaped, 0.3))
}

// NewCue returns a finite streamer for the sound at unity cue gain, nil for SoundNone or unknown ids
func NewCue(id core.SoundID, rate beep.SampleRate) beep.Streamer {
	var s beep.Streamer
	switch id {
	case core.SoundJump:
		s = createJump(rate)
	case core.SoundLand:
		s = createLand(rate)
	case core.SoundBump:
		s = createBump(rate)
	case core.SoundBurst:
		s = createBurst(rate)
	default:
		return nil
	}
	return beep.Take(rate.N(parameter.AudioMaxCueDuration), s)
}
