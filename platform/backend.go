// Package platform hosts the presentation backends
// Exactly one backend is linked per build: the terminal by default, the native window with -tags ebiten or GOOS=js
package platform

import (
	"errors"
	"time"

	"github.com/lixenwraith/skirmish/audio"
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/render"
)

// ErrQuit ends Run without error when returned by a FrameFunc
var ErrQuit = errors.New("platform: quit requested")

// FrameFunc advances the simulation by elapsed wall time with this frame's input
// It returns the frame to present, or ErrQuit to stop the loop
type FrameFunc func(elapsed time.Duration, in core.InputState) (*render.Frame, error)

// Backend is the capability surface the simulation is presented through
// Present, PollInput and PlaySound are called from the Run loop goroutine only
type Backend interface {
	// Init acquires the display and input devices
	Init() error
	// Fini releases everything Init acquired, safe to call more than once
	Fini()
	// Run drives fn once per display frame until quit
	Run(fn FrameFunc) error
	// Present shows a frame
	Present(f *render.Frame) error
	// PollInput returns the intent snapshot accumulated since the last poll
	PollInput() core.InputState
	// PlaySound plays a cue, false when audio is unavailable
	PlaySound(id core.SoundID) bool
}

// SoundSink plays cues, satisfied by *audio.Player
type SoundSink interface {
	Play(id core.SoundID) bool
}

// Options configures backend construction
type Options struct {
	// Sound is used by backends without their own audio device, nil disables cues
	Sound SoundSink
	// Audio configures backends that synthesize cues into their own device, nil uses audio.LoadConfig
	Audio *audio.Config
	// Title is the window title where one exists
	Title string
}
