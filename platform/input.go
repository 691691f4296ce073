package platform

import (
	"time"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/parameter"
)

// Action is a backend-neutral key meaning
type Action uint8

const (
	ActionNone Action = iota
	ActionLeft
	ActionRight
	ActionJump
	ActionPause
	ActionDebug
	ActionQuit
)

// holdTracker turns key-repeat streams into held intents
// Terminals report presses only, so a direction stays held for a window after its last repeat
type holdTracker struct {
	window    time.Duration
	lastLeft  time.Time
	lastRight time.Time
	lastJump  time.Time
	pause     bool
	debug     bool
	quit      bool
}

func newHoldTracker() *holdTracker {
	return &holdTracker{window: parameter.KeyHoldWindow}
}

// press records an action at now
func (h *holdTracker) press(a Action, now time.Time) {
	switch a {
	case ActionLeft:
		h.lastLeft = now
		h.lastRight = time.Time{}
	case ActionRight:
		h.lastRight = now
		h.lastLeft = time.Time{}
	case ActionJump:
		h.lastJump = now
	case ActionPause:
		h.pause = true
	case ActionDebug:
		h.debug = true
	case ActionQuit:
		h.quit = true
	}
}

// snapshot returns held directions at now and consumes the one-shot toggles
func (h *holdTracker) snapshot(now time.Time) core.InputState {
	held := func(t time.Time) bool {
		return !t.IsZero() && now.Sub(t) < h.window
	}

	var in core.InputState
	if held(h.lastLeft) {
		in.MoveX--
	}
	if held(h.lastRight) {
		in.MoveX++
	}
	in.Jump = held(h.lastJump)
	in.Pause, in.Debug, in.Quit = h.pause, h.debug, h.quit
	h.pause, h.debug = false, false
	return in
}
