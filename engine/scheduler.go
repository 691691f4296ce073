package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/status"
)

// FrameResult reports what one Advance call did
type FrameResult struct {
	Ticks   int     // Ticks executed
	Dropped int     // Whole ticks discarded by the per-frame cap
	Alpha   float64 // Leftover fraction of a tick in [0, 1), for render interpolation
}

// Scheduler runs the world on a fixed tick decoupled from presentation frame rate
// Elapsed frame time accumulates; each whole step runs one tick, at most maxTicks per frame
type Scheduler struct {
	world    *World
	timeRes  *TimeResource
	step     time.Duration
	maxTicks int

	accumulator time.Duration
	paused      bool
	tickCount   uint64
	preTick     []func()

	// Cached metric pointers
	statTicks   *atomic.Int64
	statDropped *atomic.Int64
	statAlpha   *status.AtomicFloat
	statPaused  *atomic.Bool
}

// NewScheduler creates a scheduler; step must be positive and maxTicks at least one
func NewScheduler(world *World, step time.Duration, maxTicks int, reg *status.Registry) (*Scheduler, error) {
	if step <= 0 {
		return nil, &core.ConfigurationError{Scope: "scheduler", Field: "fixed_dt", Value: step, Reason: "must be positive"}
	}
	if maxTicks < 1 {
		return nil, &core.ConfigurationError{Scope: "scheduler", Field: "max_ticks_per_frame", Value: maxTicks, Reason: "must be at least 1"}
	}

	timeRes, ok := GetResource[*TimeResource](world.Resources)
	if !ok {
		timeRes = &TimeResource{}
		AddResource(world.Resources, timeRes)
	}
	timeRes.DeltaTime = step
	timeRes.Seconds = step.Seconds()

	if reg == nil {
		reg = status.NewRegistry()
	}

	return &Scheduler{
		world:       world,
		timeRes:     timeRes,
		step:        step,
		maxTicks:    maxTicks,
		statTicks:   reg.Ints.Get("engine.ticks"),
		statDropped: reg.Ints.Get("engine.dropped_ticks"),
		statAlpha:   reg.Floats.Get("engine.alpha"),
		statPaused:  reg.Bools.Get("engine.paused"),
	}, nil
}

// SetWorld retargets the scheduler between ticks, the accumulator and tick counter carry over
func (s *Scheduler) SetWorld(w *World) {
	timeRes, ok := GetResource[*TimeResource](w.Resources)
	if !ok {
		timeRes = &TimeResource{}
		AddResource(w.Resources, timeRes)
	}
	*timeRes = *s.timeRes
	s.world = w
	s.timeRes = timeRes
}

// World returns the world currently driven
func (s *Scheduler) World() *World {
	return s.world
}

// OnPreTick registers a hook run at the start of every tick before systems, in registration order
// Used to drain background handoff queues on the simulation thread
func (s *Scheduler) OnPreTick(fn func()) {
	s.preTick = append(s.preTick, fn)
}

// Advance accumulates elapsed presentation time and runs the ticks it covers
// Ticks beyond the cap are discarded with one TicksDropped warning for the frame; the fractional remainder is kept
func (s *Scheduler) Advance(elapsed time.Duration) FrameResult {
	var res FrameResult
	if s.paused {
		res.Alpha = s.alpha()
		return res
	}
	if elapsed > 0 {
		s.accumulator += elapsed
	}

	due := int(s.accumulator / s.step)
	if due > s.maxTicks {
		res.Dropped = due - s.maxTicks
		s.accumulator -= time.Duration(res.Dropped) * s.step
		due = s.maxTicks
		s.statDropped.Add(int64(res.Dropped))
		s.world.Warn(core.Warning{
			Kind:   core.WarningTicksDropped,
			Count:  res.Dropped,
			Detail: fmt.Sprintf("frame covered %d ticks, cap %d", due+res.Dropped, s.maxTicks),
		})
	}

	for i := 0; i < due; i++ {
		s.runTick()
		s.accumulator -= s.step
		res.Ticks++
	}

	res.Alpha = s.alpha()
	s.statAlpha.Set(res.Alpha)
	return res
}

// Step runs exactly one tick regardless of accumulated time or pause state
func (s *Scheduler) Step() {
	s.runTick()
}

func (s *Scheduler) runTick() {
	s.tickCount++
	s.timeRes.Tick = s.tickCount
	s.timeRes.SimTime += s.step

	s.world.BeginTick(s.tickCount)
	for _, fn := range s.preTick {
		fn()
	}
	s.world.Update(s.step)
	s.world.EndTick()

	s.statTicks.Store(int64(s.tickCount))
}

func (s *Scheduler) alpha() float64 {
	a := float64(s.accumulator) / float64(s.step)
	if a < 0 {
		return 0
	}
	if a >= 1 {
		return 0.999999
	}
	return a
}

// Pause stops tick accumulation, paused frames add no time
func (s *Scheduler) Pause() {
	s.paused = true
	s.statPaused.Store(true)
}

// Resume continues from the retained remainder
func (s *Scheduler) Resume() {
	s.paused = false
	s.statPaused.Store(false)
}

// TogglePause flips pause state and returns the new state
func (s *Scheduler) TogglePause() bool {
	if s.paused {
		s.Resume()
	} else {
		s.Pause()
	}
	return s.paused
}

// IsPaused returns current pause state
func (s *Scheduler) IsPaused() bool {
	return s.paused
}

// Reset clears the accumulator and tick counter
func (s *Scheduler) Reset() {
	s.accumulator = 0
	s.tickCount = 0
	s.timeRes.Tick = 0
	s.timeRes.SimTime = 0
	s.statTicks.Store(0)
}

// Ticks returns the number of ticks run since creation or Reset
func (s *Scheduler) Ticks() uint64 {
	return s.tickCount
}

// StepDuration returns the fixed tick length
func (s *Scheduler) StepDuration() time.Duration {
	return s.step
}
