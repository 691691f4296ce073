package component

import "github.com/lixenwraith/skirmish/vmath"

// ParticleEmitterComponent spawns bursts of a named particle effect
// Bursts start after Delay, then repeat every Interval or every step when Interval <= 0
// Emissions caps bursts, 0 means endless
type ParticleEmitterComponent struct {
	Effect    string
	Offset    vmath.Vec2 // Relative to position, mirrored by sprite flip flags
	Delay     float64
	Interval  float64
	Emissions int
	Autostart bool

	Active        bool
	DelayTimer    float64
	IntervalTimer float64
	Emitted       int
}

// NewEmitter builds an emitter, active immediately when autostart is set
func NewEmitter(effect string, offset vmath.Vec2, delay, interval float64, emissions int, autostart bool) ParticleEmitterComponent {
	return ParticleEmitterComponent{
		Effect:    effect,
		Offset:    offset,
		Delay:     delay,
		Interval:  interval,
		Emissions: emissions,
		Autostart: autostart,
		Active:    autostart,
	}
}

// Activate restarts the emitter schedule from its delay
func (e *ParticleEmitterComponent) Activate() {
	e.Active = true
	e.DelayTimer = 0
	e.IntervalTimer = 0
	e.Emitted = 0
}

// Deactivate stops further bursts
func (e *ParticleEmitterComponent) Deactivate() {
	e.Active = false
}

// Exhausted reports a finite emitter that has fired all its bursts
func (e *ParticleEmitterComponent) Exhausted() bool {
	return e.Emissions > 0 && e.Emitted >= e.Emissions
}

// Advance steps the timers by dt seconds and returns how many bursts fire this step
func (e *ParticleEmitterComponent) Advance(dt float64) int {
	if !e.Active || e.Exhausted() {
		return 0
	}

	if e.DelayTimer < e.Delay {
		e.DelayTimer += dt
		if e.DelayTimer < e.Delay {
			return 0
		}
		// First burst fires on the tick the delay elapses
		e.Emitted++
		e.IntervalTimer = 0
		return 1
	}

	if e.Emitted == 0 {
		e.Emitted++
		return 1
	}

	if e.Interval <= 0 {
		// Without an interval the emitter fires every step
		e.Emitted++
		return 1
	}

	e.IntervalTimer += dt
	fired := 0
	for e.IntervalTimer >= e.Interval && !e.Exhausted() {
		e.IntervalTimer -= e.Interval
		e.Emitted++
		fired++
	}
	return fired
}

// WorldOffset returns the spawn offset with sprite flips applied
func (e *ParticleEmitterComponent) WorldOffset(flipX, flipY bool) vmath.Vec2 {
	o := e.Offset
	if flipX {
		o[0] = -o[0]
	}
	if flipY {
		o[1] = -o[1]
	}
	return o
}
