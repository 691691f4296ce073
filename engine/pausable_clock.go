package engine

import (
	"sync"
	"time"
)

// PausableClock measures presentation frame deltas, time spent paused is never reported
type PausableClock struct {
	mu sync.Mutex

	clock      Clock
	last       time.Time
	paused     bool
	pausedFor  time.Duration // Cumulative pause duration
	pauseStart time.Time
}

// NewPausableClock creates a clock reading from c, nil uses the system clock
func NewPausableClock(c Clock) *PausableClock {
	if c == nil {
		c = NewTimeProvider()
	}
	return &PausableClock{clock: c, last: c.Now()}
}

// Elapsed returns the time since the previous call, zero while paused
func (pc *PausableClock) Elapsed() time.Duration {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	now := pc.clock.Now()
	if pc.paused {
		pc.last = now
		return 0
	}
	d := now.Sub(pc.last)
	pc.last = now
	if d < 0 {
		return 0
	}
	return d
}

// Pause stops delta accumulation
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused {
		return
	}
	pc.paused = true
	pc.pauseStart = pc.clock.Now()
}

// Resume continues delta accumulation from now
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.paused {
		return
	}
	now := pc.clock.Now()
	pc.pausedFor += now.Sub(pc.pauseStart)
	pc.paused = false
	pc.last = now
}

// IsPaused returns current pause state
func (pc *PausableClock) IsPaused() bool {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.paused
}

// TotalPauseDuration returns cumulative pause time including an ongoing pause
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	total := pc.pausedFor
	if pc.paused {
		total += pc.clock.Now().Sub(pc.pauseStart)
	}
	return total
}
