// Package sim wires the world, scheduler, systems and level loading into one facade
// The facade is the only mutator of the world, all methods belong to the presentation goroutine
package sim

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lixenwraith/skirmish/asset"
	"github.com/lixenwraith/skirmish/config"
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/engine"
	"github.com/lixenwraith/skirmish/event"
	"github.com/lixenwraith/skirmish/level"
	"github.com/lixenwraith/skirmish/particle"
	"github.com/lixenwraith/skirmish/physics"
	"github.com/lixenwraith/skirmish/render"
	"github.com/lixenwraith/skirmish/spatial"
	"github.com/lixenwraith/skirmish/status"
	"github.com/lixenwraith/skirmish/system"
	"github.com/lixenwraith/skirmish/tilemap"
	"github.com/lixenwraith/skirmish/vmath"
)

// ErrNoLoader is returned by RequestLevel when the simulation was built without an asset loader
var ErrNoLoader = errors.New("sim: no asset loader")

// Simulation owns one world at a time and replaces it wholesale on level transition
type Simulation struct {
	cfg    config.Config
	layers core.LayerTable
	reg    *status.Registry
	events *event.Queue
	loader *asset.Loader

	world *engine.World
	sched *engine.Scheduler
	input *engine.InputResource
	level *level.Level

	index     *spatial.Index
	physics   *physics.System
	particles *particle.System
	control   *system.ControlSystem
	lifetime  *system.LifetimeSystem
	builder   *render.Builder

	pending  asset.Ticket
	debug    bool
	last     engine.FrameResult
	scratch  []event.Event
	warnings []core.Warning
	cues     []core.SoundID
	levels   []event.LevelPayload

	statLevel *status.AtomicString
}

// New validates cfg and builds a simulation on an empty one-tile map
// loader may be nil, then only synchronous LoadLevel is available
func New(cfg config.Config, loader *asset.Loader, reg *status.Registry) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	layers, err := cfg.Layers()
	if err != nil {
		return nil, err
	}
	if reg == nil {
		reg = status.NewRegistry()
	}

	empty := tilemap.NewEmpty(1, 1, 1)
	s := &Simulation{
		cfg:       cfg,
		layers:    layers,
		reg:       reg,
		events:    event.NewQueue(),
		loader:    loader,
		input:     &engine.InputResource{},
		index:     spatial.NewIndex(empty),
		particles: particle.NewSystem(cfg.MaxParticles, cfg.Seed, vmath.Vec2(cfg.Gravity), reg),
		control:   system.NewControlSystem(),
		lifetime:  system.NewLifetimeSystem(),
		builder:   render.NewBuilder(),
		statLevel: reg.Strings.Get("sim.level"),
	}
	s.physics = physics.NewSystem(cfg.Profile(), s.index, reg)
	s.world = s.newWorld()

	s.sched, err = engine.NewScheduler(s.world, cfg.Step(), cfg.MaxTicksPerFrame, reg)
	if err != nil {
		return nil, err
	}
	s.sched.OnPreTick(s.drainLoads)
	return s, nil
}

// newWorld creates a world sharing the facade's queue, status and input
func (s *Simulation) newWorld() *engine.World {
	w := engine.NewWorld()
	w.SetEventQueue(s.events)
	w.SetStatus(s.reg)
	engine.AddResource(w.Resources, s.input)
	w.AddSystem(s.control)
	w.AddSystem(s.physics)
	w.AddSystem(s.particles)
	w.AddSystem(s.lifetime)
	return w
}

// Layers returns the collision layer table levels are resolved against
func (s *Simulation) Layers() core.LayerTable {
	return s.layers
}

// World returns the active world
func (s *Simulation) World() *engine.World {
	return s.world
}

// Level returns the active level, nil before the first load
func (s *Simulation) Level() *level.Level {
	return s.level
}

// Scheduler returns the fixed-step scheduler
func (s *Simulation) Scheduler() *engine.Scheduler {
	return s.sched
}

// Registry returns the metrics registry
func (s *Simulation) Registry() *status.Registry {
	return s.reg
}

// Physics returns the physics system, for contact inspection
func (s *Simulation) Physics() *physics.System {
	return s.physics
}

// LoadLevel populates a fresh world from lvl and swaps it in
// On error the active level and world are untouched
func (s *Simulation) LoadLevel(lvl *level.Level) error {
	if lvl == nil || lvl.Map == nil {
		return errors.New("sim: nil level")
	}

	w := s.newWorld()
	if _, err := lvl.Populate(w); err != nil {
		return err
	}

	// A swap from the pre-tick hook lands mid-tick, the new world inherits the open tick
	if s.world.InTick() {
		w.BeginTick(s.world.Tick())
	}

	s.index.SetTileMap(lvl.Map)
	s.physics.Reset()
	s.particles.Reset(s.cfg.Seed)
	s.particles.SetEffects(lvl.Effects)
	s.sched.SetWorld(w)
	s.warnings = s.world.DrainWarnings(s.warnings)
	s.world = w
	s.level = lvl
	s.statLevel.Store(lvl.Name)
	return nil
}

// LoadLevelFile reads, validates and loads a level synchronously
func (s *Simulation) LoadLevelFile(path string) error {
	lvl, err := level.Load(path, s.layers)
	if err != nil {
		s.reportLevel(path, "", err)
		return err
	}
	if err := s.LoadLevel(lvl); err != nil {
		s.reportLevel(path, lvl.Name, err)
		return err
	}
	s.reportLevel(path, lvl.Name, nil)
	return nil
}

// RequestLevel loads path on the asset loader; the level is swapped in by the first tick after it completes
// A newer request cancels the one still pending
func (s *Simulation) RequestLevel(path string) (asset.Ticket, error) {
	if s.loader == nil {
		return 0, ErrNoLoader
	}
	layers := s.layers
	ticket, err := s.loader.Submit(path, func(ctx context.Context) (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lvl, err := level.Load(path, layers)
		if err != nil {
			return nil, err
		}
		// The parse is the long step, bail before handing a stale level over
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return lvl, nil
	})
	if err != nil {
		return 0, fmt.Errorf("request level %s: %w", path, err)
	}

	if s.pending != 0 {
		s.loader.Cancel(s.pending)
	}
	s.pending = ticket
	return ticket, nil
}

// CancelLevel cancels the pending level request, false when none is pending
func (s *Simulation) CancelLevel() bool {
	if s.pending == 0 || s.loader == nil {
		return false
	}
	ok := s.loader.Cancel(s.pending)
	s.pending = 0
	return ok
}

// PendingLevel returns the outstanding request ticket, zero when none
func (s *Simulation) PendingLevel() asset.Ticket {
	return s.pending
}

// drainLoads is the pre-tick hook moving finished loads onto the tick thread
func (s *Simulation) drainLoads() {
	if s.loader == nil {
		return
	}
	s.loader.Drain(s.deliverLoad, func(res asset.Result) {
		s.world.Warn(core.Warning{
			Kind:   core.WarningLoadDiscarded,
			Detail: fmt.Sprintf("ticket %d %s", res.Ticket, res.Name),
		})
	})
}

func (s *Simulation) deliverLoad(res asset.Result) {
	if res.Ticket == s.pending {
		s.pending = 0
	}
	if res.Err != nil {
		s.reportLevel(res.Name, "", res.Err)
		return
	}
	lvl, ok := res.Value.(*level.Level)
	if !ok {
		s.reportLevel(res.Name, "", fmt.Errorf("unexpected load result %T", res.Value))
		return
	}
	if err := s.LoadLevel(lvl); err != nil {
		s.reportLevel(res.Name, lvl.Name, err)
		return
	}
	s.reportLevel(res.Name, lvl.Name, nil)
}

func (s *Simulation) reportLevel(path, name string, err error) {
	payload := &event.LevelPayload{Path: path, Name: name, Err: err}
	if err != nil {
		log.Printf("level %s rejected: %v", path, err)
		s.world.PushEvent(event.EventLevelFailed, core.Entity{}, payload)
		return
	}
	log.Printf("level %s loaded: %q", path, name)
	s.world.PushEvent(event.EventLevelLoaded, core.Entity{}, payload)
}

// Advance feeds one presentation frame: toggles, input for the ticks, then the fixed-step catch-up
func (s *Simulation) Advance(elapsed time.Duration, in core.InputState) engine.FrameResult {
	if in.Pause {
		s.sched.TogglePause()
	}
	if in.Debug {
		s.debug = !s.debug
	}
	s.input.State = in

	s.last = s.sched.Advance(elapsed)
	s.collectEvents()
	return s.last
}

// Step runs exactly one tick with the given input, ignoring pause
func (s *Simulation) Step(in core.InputState) {
	s.input.State = in
	s.sched.Step()
	s.collectEvents()
}

// collectEvents moves world warnings and queued signals into the warning, cue and level buffers
func (s *Simulation) collectEvents() {
	s.warnings = s.world.DrainWarnings(s.warnings)
	s.scratch = s.events.ConsumeInto(s.scratch[:0])
	for _, ev := range s.scratch {
		switch ev.Type {
		case event.EventSoundCue:
			if id, ok := ev.Payload.(core.SoundID); ok {
				s.cues = append(s.cues, id)
			}
		case event.EventLevelLoaded, event.EventLevelFailed:
			if p, ok := ev.Payload.(*event.LevelPayload); ok {
				s.levels = append(s.levels, *p)
			}
		}
	}
}

// Warnings drains warnings raised since the last call
func (s *Simulation) Warnings() []core.Warning {
	s.collectEvents()
	out := s.warnings
	s.warnings = nil
	return out
}

// SoundCues drains cues raised since the last call
func (s *Simulation) SoundCues() []core.SoundID {
	s.collectEvents()
	out := s.cues
	s.cues = nil
	return out
}

// LevelEvents drains level transition outcomes since the last call
func (s *Simulation) LevelEvents() []event.LevelPayload {
	s.collectEvents()
	out := s.levels
	s.levels = nil
	return out
}

// Debug reports whether the debug overlay is on
func (s *Simulation) Debug() bool {
	return s.debug
}

// SetDebug switches the debug overlay
func (s *Simulation) SetDebug(on bool) {
	s.debug = on
}

// Frame snapshots the active world for presentation at the last Advance alpha
func (s *Simulation) Frame() *render.Frame {
	var tiles *tilemap.TileMap
	if s.level != nil {
		tiles = s.level.Map
	}
	f := s.builder.Build(s.world, tiles, s.particles.Pool().All(), s.last.Alpha)
	f.Tick = s.sched.Ticks()
	f.Paused = s.sched.IsPaused()
	if s.level != nil {
		f.Background = s.level.Background
	}
	if s.debug {
		name := "-"
		if s.level != nil {
			name = s.level.Name
		}
		f.Debug = append(f.Debug, fmt.Sprintf("level=%s tick=%d ticks/frame=%d dropped=%d", name, f.Tick, s.last.Ticks, s.last.Dropped))
		f.Debug = append(f.Debug, s.reg.Snapshot()...)
	}
	return f
}
