package engine

import (
	"testing"
	"time"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/event"
	"github.com/lixenwraith/skirmish/status"
)

type tickCounter struct{ n int }

func (c *tickCounter) Update(*World, time.Duration) { c.n++ }
func (c *tickCounter) Priority() int                 { return 0 }

func newTestScheduler(t *testing.T, step time.Duration, maxTicks int) (*Scheduler, *tickCounter, *event.Queue) {
	t.Helper()
	w := NewWorld()
	q := event.NewQueue()
	w.SetEventQueue(q)
	counter := &tickCounter{}
	w.AddSystem(counter)
	s, err := NewScheduler(w, step, maxTicks, status.NewRegistry())
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}
	return s, counter, q
}

func TestScheduler_AccumulatesFractions(t *testing.T) {
	s, counter, _ := newTestScheduler(t, 10*time.Millisecond, 5)

	res := s.Advance(25 * time.Millisecond)
	if res.Ticks != 2 || counter.n != 2 {
		t.Fatalf("Expected 2 ticks, got %+v (ran %d)", res, counter.n)
	}
	if res.Alpha < 0.49 || res.Alpha > 0.51 {
		t.Errorf("Expected alpha 0.5, got %v", res.Alpha)
	}

	res = s.Advance(5 * time.Millisecond)
	if res.Ticks != 1 || res.Alpha != 0 {
		t.Errorf("Expected remainder to complete a tick, got %+v", res)
	}
}

func TestScheduler_CapDropsExcessWithOneWarning(t *testing.T) {
	s, counter, _ := newTestScheduler(t, 10*time.Millisecond, 3)

	res := s.Advance(105 * time.Millisecond)
	if res.Ticks != 3 || res.Dropped != 7 {
		t.Fatalf("Expected 3 run / 7 dropped, got %+v", res)
	}
	if counter.n != 3 {
		t.Errorf("Expected 3 system runs, got %d", counter.n)
	}
	if res.Alpha < 0.49 || res.Alpha > 0.51 {
		t.Errorf("Expected fractional remainder kept, alpha %v", res.Alpha)
	}

	warnings := 0
	for _, w := range s.world.DrainWarnings(nil) {
		if w.Kind == core.WarningTicksDropped {
			warnings++
			if w.Count != 7 {
				t.Errorf("Expected dropped count 7, got %d", w.Count)
			}
		}
	}
	if warnings != 1 {
		t.Errorf("Expected exactly one dropped-ticks warning, got %d", warnings)
	}
}

func TestScheduler_AlphaRange(t *testing.T) {
	s, _, _ := newTestScheduler(t, time.Second/60, 5)
	for _, d := range []time.Duration{0, time.Millisecond, 7 * time.Millisecond, 16 * time.Millisecond, 33 * time.Millisecond, 250 * time.Millisecond} {
		res := s.Advance(d)
		if res.Alpha < 0 || res.Alpha >= 1 {
			t.Errorf("Alpha %v out of [0,1) after %v", res.Alpha, d)
		}
	}
}

func TestScheduler_PauseAccumulatesNothing(t *testing.T) {
	s, counter, _ := newTestScheduler(t, 10*time.Millisecond, 5)
	s.Pause()
	if res := s.Advance(time.Second); res.Ticks != 0 {
		t.Errorf("Expected no ticks while paused, got %d", res.Ticks)
	}
	s.Resume()
	if res := s.Advance(10 * time.Millisecond); res.Ticks != 1 {
		t.Errorf("Expected one tick after resume, got %d", res.Ticks)
	}
	if counter.n != 1 {
		t.Errorf("Expected 1 system run, got %d", counter.n)
	}
}

func TestScheduler_PreTickHookAndTime(t *testing.T) {
	s, _, _ := newTestScheduler(t, 10*time.Millisecond, 5)
	var seen []uint64
	timeRes := MustGetResource[*TimeResource](s.World().Resources)
	s.OnPreTick(func() { seen = append(seen, timeRes.Tick) })

	s.Advance(30 * time.Millisecond)
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Errorf("Expected hooks at ticks 1..3, got %v", seen)
	}
	if s.Ticks() != 3 {
		t.Errorf("Expected tick count 3, got %d", s.Ticks())
	}
}

func TestNewScheduler_RejectsBadConfig(t *testing.T) {
	if _, err := NewScheduler(NewWorld(), 0, 1, nil); err == nil {
		t.Error("Expected error for zero step")
	}
	if _, err := NewScheduler(NewWorld(), time.Millisecond, 0, nil); err == nil {
		t.Error("Expected error for zero tick cap")
	}
}

// manualClock is a Clock advanced only by the test
type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time          { return c.now }
func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestPausableClock_ExcludesPause(t *testing.T) {
	mock := &manualClock{now: time.Unix(0, 0)}
	pc := NewPausableClock(mock)

	mock.Advance(16 * time.Millisecond)
	if d := pc.Elapsed(); d != 16*time.Millisecond {
		t.Errorf("Expected 16ms, got %v", d)
	}

	pc.Pause()
	mock.Advance(time.Second)
	if d := pc.Elapsed(); d != 0 {
		t.Errorf("Expected zero while paused, got %v", d)
	}
	pc.Resume()
	mock.Advance(5 * time.Millisecond)
	if d := pc.Elapsed(); d != 5*time.Millisecond {
		t.Errorf("Expected 5ms after resume, got %v", d)
	}
	if pc.TotalPauseDuration() != time.Second {
		t.Errorf("Expected 1s paused, got %v", pc.TotalPauseDuration())
	}
}
