package audio

import (
	"os"
	"strconv"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/parameter"
)

// Config holds playback settings, volumes are linear gains in [0,1]
type Config struct {
	Enabled      bool
	MasterVolume float64
	SampleRate   int
	CueVolumes   [core.SoundCount]float64
}

// DefaultConfig returns the built-in audio settings
func DefaultConfig() *Config {
	cfg := &Config{
		Enabled:      true,
		MasterVolume: parameter.AudioMasterVolume,
		SampleRate:   parameter.AudioSampleRate,
	}
	cfg.CueVolumes[core.SoundJump] = 0.6
	cfg.CueVolumes[core.SoundLand] = 0.8
	cfg.CueVolumes[core.SoundBump] = 0.7
	cfg.CueVolumes[core.SoundBurst] = 0.4
	return cfg
}

// LoadConfig overlays environment variables on the defaults
//
//	SKIRMISH_AUDIO_ENABLED  bool
//	SKIRMISH_MASTER_VOLUME  0-100
//	SKIRMISH_SAMPLE_RATE    positive int
//
// Malformed values are ignored
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if enabled := os.Getenv("SKIRMISH_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	if volume := os.Getenv("SKIRMISH_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = min(max(float64(val)/100.0, 0), 1)
		}
	}

	if sampleRate := os.Getenv("SKIRMISH_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	return cfg
}

// gain returns the effective linear gain for a cue
func (c *Config) gain(id core.SoundID) float64 {
	if id >= core.SoundCount {
		return 0
	}
	return c.CueVolumes[id] * c.MasterVolume
}
