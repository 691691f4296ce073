package audio

import (
	"log"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/status"
)

// Player plays sound cues through the beep speaker as a Service
// A missing output device degrades to silent mode rather than failing startup
type Player struct {
	config *Config
	cache  *cueCache
	mixer  *beep.Mixer

	running atomic.Bool
	muted   atomic.Bool
	silent  atomic.Bool

	statPlayed  *atomic.Int64
	statSkipped *atomic.Int64
}

// NewPlayer creates a player, cfg nil uses LoadConfig
func NewPlayer(cfg *Config, reg *status.Registry) *Player {
	if cfg == nil {
		cfg = LoadConfig()
	}
	p := &Player{
		config: cfg,
		mixer:  &beep.Mixer{},
	}
	p.muted.Store(!cfg.Enabled)
	if reg != nil {
		p.statPlayed = reg.Ints.Get("audio.played")
		p.statSkipped = reg.Ints.Get("audio.skipped")
	}
	return p
}

// Name implements service.Service
func (p *Player) Name() string {
	return "audio"
}

// Dependencies implements service.Service
func (p *Player) Dependencies() []string {
	return nil
}

// Init implements service.Service
// args[0]: bool - mute override (true = muted)
func (p *Player) Init(args ...any) error {
	if len(args) > 0 {
		if muted, ok := args[0].(bool); ok {
			p.muted.Store(muted)
		}
	}
	p.cache = newCueCache(p.config)
	p.cache.preload()
	return nil
}

// Start implements service.Service, opening the speaker
func (p *Player) Start() error {
	if p.running.Load() {
		return nil
	}
	if p.cache == nil {
		p.Init()
	}

	rate := beep.SampleRate(p.config.SampleRate)
	if err := speaker.Init(rate, rate.N(parameter.AudioBufferDuration)); err != nil {
		log.Printf("audio: speaker unavailable, silent mode: %v", err)
		p.silent.Store(true)
		p.running.Store(true)
		return nil
	}

	speaker.Play(p.mixer)
	p.running.Store(true)
	return nil
}

// Stop implements service.Service
func (p *Player) Stop() error {
	if !p.running.CompareAndSwap(true, false) {
		return nil
	}
	if p.silent.Load() {
		return nil
	}
	speaker.Clear()
	speaker.Close()
	return nil
}

// Play queues a cue on the mixer, returns false when the cue was not played
func (p *Player) Play(id core.SoundID) bool {
	if !p.IsEnabled() || p.cache == nil {
		p.count(p.statSkipped)
		return false
	}

	buf := p.cache.get(id)
	if buf == nil {
		p.count(p.statSkipped)
		return false
	}

	speaker.Lock()
	p.mixer.Add(buf.Streamer(0, buf.Len()))
	speaker.Unlock()

	p.count(p.statPlayed)
	return true
}

// ToggleMute toggles mute state, returns true if now audible
func (p *Player) ToggleMute() bool {
	newMute := !p.muted.Load()
	p.muted.Store(newMute)
	return !newMute
}

// IsEnabled returns true if running with an open device and unmuted
func (p *Player) IsEnabled() bool {
	return p.running.Load() && !p.muted.Load() && !p.silent.Load()
}

func (p *Player) count(c *atomic.Int64) {
	if c != nil {
		c.Add(1)
	}
}
