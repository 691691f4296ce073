package particle

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/skirmish/component"
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/engine"
	"github.com/lixenwraith/skirmish/event"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/status"
	"github.com/lixenwraith/skirmish/vmath"
)

// System advances emitters and particles once per tick
type System struct {
	pool    *Pool
	effects map[string]Effect
	gravity vmath.Vec2
	rng     *vmath.FastRand

	statLive    *atomic.Int64
	statSpawned *atomic.Int64
	statDropped *atomic.Int64
}

// NewSystem creates a particle system with a pool of capacity particles and a seeded generator
func NewSystem(capacity int, seed uint64, gravity vmath.Vec2, reg *status.Registry) *System {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &System{
		pool:        NewPool(capacity),
		effects:     DefaultEffects(),
		gravity:     gravity,
		rng:         vmath.NewFastRand(seed),
		statLive:    reg.Ints.Get("particle.live"),
		statSpawned: reg.Ints.Get("particle.spawned"),
		statDropped: reg.Ints.Get("particle.dropped"),
	}
}

func (s *System) Priority() int {
	return parameter.PriorityParticle
}

// Pool exposes live particles to the frame builder
func (s *System) Pool() *Pool {
	return s.pool
}

// SetEffects merges level effects over the defaults
func (s *System) SetEffects(effects map[string]Effect) {
	s.effects = DefaultEffects()
	for name, e := range effects {
		s.effects[name] = e
	}
}

// Effect returns a named effect with defaults applied
func (s *System) Effect(name string) (Effect, bool) {
	e, ok := s.effects[name]
	return e.WithDefaults(), ok
}

// Reset drops all particles and reseeds, used on level transition
func (s *System) Reset(seed uint64) {
	s.pool.Clear()
	s.rng.Seed(seed)
	s.statLive.Store(0)
}

// Update ages existing particles, then fires due emitters
// Spawns refused by a full pool are summed into one ParticlesDropped warning for the tick
func (s *System) Update(w *engine.World, dt time.Duration) {
	step := dt.Seconds()
	s.pool.Step(step, s.gravity)

	dropped := 0
	for e, row := range engine.Query2[component.PositionComponent, component.ParticleEmitterComponent](w) {
		em := row.B
		bursts := em.Advance(step)
		if bursts == 0 {
			continue
		}
		effect, ok := s.Effect(em.Effect)
		if !ok {
			continue
		}

		var flipX, flipY bool
		if sp, ok := engine.GetComponent[component.SpriteComponent](w, e); ok {
			flipX, flipY = sp.FlipX, sp.FlipY
		}
		origin := row.A.Cur.Add(em.WorldOffset(flipX, flipY))
		for i := 0; i < bursts; i++ {
			dropped += s.Burst(effect, origin, flipX)
		}
		w.PushEvent(event.EventSoundCue, e, core.SoundBurst)
	}

	if dropped > 0 {
		s.statDropped.Add(int64(dropped))
		w.Warn(core.Warning{
			Kind:   core.WarningParticlesDropped,
			Count:  dropped,
			Detail: fmt.Sprintf("pool full at %d", s.pool.Cap()),
		})
	}
	s.statLive.Store(int64(s.pool.Len()))
}

// Burst spawns one effect burst at origin and returns how many particles the pool refused
// A horizontally flipped source mirrors the burst direction
func (s *System) Burst(effect Effect, origin vmath.Vec2, flipX bool) int {
	dir := effect.Direction
	if flipX {
		dir = 180 - dir
	}
	dropped := 0
	for i := 0; i < effect.Count; i++ {
		heading := dir + s.rng.Range(-effect.Spread/2, effect.Spread/2)
		speed := s.rng.Range(effect.SpeedMin, effect.SpeedMax)
		p := Particle{
			Pos:          origin,
			Vel:          vmath.FromAngle(heading).Mul(speed),
			Life:         effect.Lifetime,
			MaxLife:      effect.Lifetime,
			GravityScale: effect.GravityScale,
			Drag:         effect.Drag,
			Size:         effect.Size,
			Color:        effect.Color,
		}
		if !s.pool.Spawn(p) {
			dropped++
			continue
		}
		s.statSpawned.Add(1)
	}
	return dropped
}
