//go:build !ebiten && !js

package platform

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/engine"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/render"
)

// NativeAudio reports whether the linked backend owns an audio device
// The terminal has none, cues go to Options.Sound
const NativeAudio = false

// New creates the terminal backend
func New(opts Options) (Backend, error) {
	return NewTerminal(nil, opts.Sound), nil
}

// TerminalBackend presents frames on a tcell screen and plays cues through a SoundSink
type TerminalBackend struct {
	screen tcell.Screen
	sound  SoundSink
	buf    *render.Buffer
	keys   *holdTracker
	events chan tcell.Event
	clock  engine.Clock
	frames *engine.PausableClock

	mu     sync.Mutex
	inited bool
}

// NewTerminal wraps screen, nil creates the real terminal screen on Init
func NewTerminal(screen tcell.Screen, sound SoundSink) *TerminalBackend {
	b := &TerminalBackend{
		screen: screen,
		sound:  sound,
		buf:    render.NewBuffer(0, 0),
		keys:   newHoldTracker(),
		events: make(chan tcell.Event, parameter.InputEventBuffer),
	}
	b.SetClock(engine.NewTimeProvider())
	return b
}

// SetClock replaces the wall clock used for frame deltas and key holds
func (b *TerminalBackend) SetClock(c engine.Clock) {
	b.clock = c
	b.frames = engine.NewPausableClock(c)
}

// Init implements Backend
func (b *TerminalBackend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inited {
		return nil
	}

	if b.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		b.screen = screen
	}
	if err := b.screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	b.screen.HideCursor()
	b.screen.EnableFocus()
	b.screen.Clear()
	b.inited = true

	screen := b.screen
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case b.events <- ev:
			default:
				// Input backlog, drop rather than stall the poller
			}
		}
	})
	return nil
}

// Fini implements Backend
func (b *TerminalBackend) Fini() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inited {
		return
	}
	b.inited = false
	b.screen.Fini()
}

// Run implements Backend, ticking at parameter.FrameUpdateInterval
// Time spent with the terminal unfocused is not fed to fn
func (b *TerminalBackend) Run(fn FrameFunc) error {
	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()

	b.frames.Elapsed()
	for range ticker.C {
		in := b.PollInput()
		if in.Quit {
			return nil
		}

		frame, err := fn(b.frames.Elapsed(), in)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := b.Present(frame); err != nil {
			return err
		}
	}
	return nil
}

// Present implements Backend, rasterizing into the cell buffer and flushing to the screen
func (b *TerminalBackend) Present(f *render.Frame) error {
	if f == nil {
		return nil
	}
	if b.screen == nil {
		return errors.New("terminal: present before init")
	}

	w, h := b.screen.Size()
	if bw, bh := b.buf.Size(); bw != w || bh != h {
		b.buf.Resize(w, h)
	}
	render.Rasterize(b.buf, f)

	b.buf.Each(func(x, y int, c render.Cell) {
		style := tcell.StyleDefault.
			Foreground(tcell.NewRGBColor(int32(c.Fg.R), int32(c.Fg.G), int32(c.Fg.B))).
			Background(tcell.NewRGBColor(int32(c.Bg.R), int32(c.Bg.G), int32(c.Bg.B)))
		b.screen.SetContent(x, y, c.Rune, nil, style)
	})
	b.screen.Show()
	return nil
}

// PollInput implements Backend, draining queued terminal events
func (b *TerminalBackend) PollInput() core.InputState {
	for {
		select {
		case ev := <-b.events:
			b.handleEvent(ev)
		default:
			return b.keys.snapshot(b.clock.Now())
		}
	}
}

// PlaySound implements Backend
func (b *TerminalBackend) PlaySound(id core.SoundID) bool {
	if b.sound == nil {
		return false
	}
	return b.sound.Play(id)
}

func (b *TerminalBackend) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		b.keys.press(keyAction(ev.Key(), ev.Rune()), b.clock.Now())
	case *tcell.EventResize:
		b.screen.Sync()
	case *tcell.EventFocus:
		if ev.Focused {
			b.frames.Resume()
		} else {
			b.frames.Pause()
		}
	}
}

// keyAction maps a terminal key to an action
func keyAction(key tcell.Key, r rune) Action {
	switch key {
	case tcell.KeyLeft:
		return ActionLeft
	case tcell.KeyRight:
		return ActionRight
	case tcell.KeyUp:
		return ActionJump
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyF1:
		return ActionDebug
	case tcell.KeyRune:
		switch r {
		case 'a', 'h':
			return ActionLeft
		case 'd', 'l':
			return ActionRight
		case ' ', 'w', 'k':
			return ActionJump
		case 'p':
			return ActionPause
		case '`':
			return ActionDebug
		case 'q':
			return ActionQuit
		}
	}
	return ActionNone
}
