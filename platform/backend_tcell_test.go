//go:build !ebiten && !js

package platform

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/render"
	"github.com/lixenwraith/skirmish/tilemap"
)

type recordingSink struct {
	played []core.SoundID
}

func (r *recordingSink) Play(id core.SoundID) bool {
	r.played = append(r.played, id)
	return true
}

func newTestBackend(t *testing.T, sink SoundSink) (*TerminalBackend, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	b := NewTerminal(screen, sink)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	screen.SetSize(16, 4)
	t.Cleanup(b.Fini)
	return b, screen
}

func TestTerminal_PresentDrawsFrame(t *testing.T) {
	b, screen := newTestBackend(t, nil)

	f := &render.Frame{
		TileSize:   1,
		Width:      8,
		Height:     4,
		Background: 0x000000,
		Tiles:      []render.TileDraw{{X: 0, Y: 0, Kind: tilemap.Solid}},
		Debug:      []string{"tick=1"},
	}
	if err := b.Present(f); err != nil {
		t.Fatalf("Present failed: %v", err)
	}

	if r, _, _, _ := screen.GetContent(0, 3); r != '█' {
		t.Errorf("Expected solid tile at bottom-left, got %q", r)
	}
	if r, _, _, _ := screen.GetContent(0, 0); r != 't' {
		t.Errorf("Expected debug overlay on the top row, got %q", r)
	}
}

func TestTerminal_PlaySound(t *testing.T) {
	sink := &recordingSink{}
	b, _ := newTestBackend(t, sink)

	if !b.PlaySound(core.SoundLand) {
		t.Error("Expected PlaySound to report success through the sink")
	}
	if len(sink.played) != 1 || sink.played[0] != core.SoundLand {
		t.Errorf("Expected land cue forwarded, got %v", sink.played)
	}

	silent := NewTerminal(tcell.NewSimulationScreen("UTF-8"), nil)
	if silent.PlaySound(core.SoundLand) {
		t.Error("Expected PlaySound false without a sink")
	}
}

func TestKeyAction(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		want Action
	}{
		{tcell.KeyLeft, 0, ActionLeft},
		{tcell.KeyRune, 'd', ActionRight},
		{tcell.KeyRune, ' ', ActionJump},
		{tcell.KeyUp, 0, ActionJump},
		{tcell.KeyRune, 'p', ActionPause},
		{tcell.KeyF1, 0, ActionDebug},
		{tcell.KeyEscape, 0, ActionQuit},
		{tcell.KeyCtrlC, 0, ActionQuit},
		{tcell.KeyRune, 'z', ActionNone},
	}
	for _, tt := range tests {
		if got := keyAction(tt.key, tt.r); got != tt.want {
			t.Errorf("keyAction(%v, %q): expected %v, got %v", tt.key, tt.r, tt.want, got)
		}
	}
}

func TestHoldTracker_WindowAndToggles(t *testing.T) {
	h := newHoldTracker()
	start := time.Unix(100, 0)

	h.press(ActionLeft, start)
	h.press(ActionJump, start)
	h.press(ActionPause, start)

	in := h.snapshot(start.Add(h.window / 2))
	if in.MoveX != -1 || !in.Jump || !in.Pause {
		t.Errorf("Expected held left, jump and pause, got %+v", in)
	}

	in = h.snapshot(start.Add(h.window / 2))
	if in.Pause {
		t.Error("Expected pause toggle consumed by the previous snapshot")
	}

	h.press(ActionRight, start.Add(h.window/2))
	in = h.snapshot(start.Add(h.window))
	if in.MoveX != 1 {
		t.Errorf("Expected right to cancel left, got MoveX %v", in.MoveX)
	}

	in = h.snapshot(start.Add(3 * h.window))
	if in.MoveX != 0 || in.Jump {
		t.Errorf("Expected keys released after the hold window, got %+v", in)
	}
}

func TestService_Lifecycle(t *testing.T) {
	b := NewTerminal(tcell.NewSimulationScreen("UTF-8"), nil)
	svc := NewService(b, "audio")

	if svc.Name() != "backend" || len(svc.Dependencies()) != 1 {
		t.Errorf("Expected backend service depending on audio, got %s %v", svc.Name(), svc.Dependencies())
	}
	if err := svc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := svc.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
	b.Fini()
}

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time          { return c.now }
func (c *stepClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestTerminal_UnfocusedTimeNotFed(t *testing.T) {
	b, _ := newTestBackend(t, nil)
	mock := &stepClock{now: time.Unix(100, 0)}
	b.SetClock(mock)

	mock.Advance(20 * time.Millisecond)
	if d := b.frames.Elapsed(); d != 20*time.Millisecond {
		t.Errorf("Expected 20ms focused delta, got %v", d)
	}

	b.handleEvent(tcell.NewEventFocus(false))
	mock.Advance(5 * time.Second)
	if d := b.frames.Elapsed(); d != 0 {
		t.Errorf("Expected no delta while unfocused, got %v", d)
	}

	b.handleEvent(tcell.NewEventFocus(true))
	mock.Advance(16 * time.Millisecond)
	if d := b.frames.Elapsed(); d != 16*time.Millisecond {
		t.Errorf("Expected 16ms after refocus, got %v", d)
	}
	if got := b.frames.TotalPauseDuration(); got != 5*time.Second {
		t.Errorf("Expected 5s unfocused total, got %v", got)
	}
}
