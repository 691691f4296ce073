package system

import (
	"testing"
	"time"

	"github.com/lixenwraith/skirmish/component"
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/engine"
	"github.com/lixenwraith/skirmish/event"
	"github.com/lixenwraith/skirmish/physics"
)

const testDT = time.Second / 60

func newPlayer(w *engine.World, grounded bool) core.Entity {
	e := w.CreateEntity()
	rb := physics.Body(1)
	rb.Grounded = grounded
	engine.AddComponent(w, e, rb)
	engine.AddComponent(w, e, component.VelocityComponent{})
	engine.AddComponent(w, e, DefaultPlayerControl())
	return e
}

func TestControl_JumpOnRisingEdgeOnly(t *testing.T) {
	w := engine.NewWorld()
	q := event.NewQueue()
	w.SetEventQueue(q)
	in := &engine.InputResource{}
	engine.AddResource(w.Resources, in)
	e := newPlayer(w, true)
	s := NewControlSystem()

	in.State.Jump = true
	s.Update(w, testDT)
	v, _ := engine.GetComponent[component.VelocityComponent](w, e)
	if v.Linear[1] != DefaultPlayerControl().JumpSpeed {
		t.Fatalf("Expected jump speed, got %v", v.Linear[1])
	}

	// Still held and grounded again: no second jump
	engine.GetComponentMut[component.RigidBodyComponent](w, e).Grounded = true
	engine.GetComponentMut[component.VelocityComponent](w, e).Linear[1] = 0
	s.Update(w, testDT)
	if v, _ := engine.GetComponent[component.VelocityComponent](w, e); v.Linear[1] != 0 {
		t.Errorf("Expected held jump not to retrigger, got vy=%v", v.Linear[1])
	}

	cues := 0
	for _, ev := range q.Consume() {
		if ev.Type == event.EventSoundCue && ev.Payload == core.SoundJump {
			cues++
		}
	}
	if cues != 1 {
		t.Errorf("Expected one jump cue, got %d", cues)
	}
}

func TestControl_NoJumpWhenAirborne(t *testing.T) {
	w := engine.NewWorld()
	engine.AddResource(w.Resources, &engine.InputResource{State: core.InputState{Jump: true}})
	e := newPlayer(w, false)

	NewControlSystem().Update(w, testDT)
	if v, _ := engine.GetComponent[component.VelocityComponent](w, e); v.Linear[1] != 0 {
		t.Errorf("Expected no jump in the air, got vy=%v", v.Linear[1])
	}
}

func TestControl_MoveForceAndAirControl(t *testing.T) {
	w := engine.NewWorld()
	engine.AddResource(w.Resources, &engine.InputResource{State: core.InputState{MoveX: 1}})
	ground := newPlayer(w, true)
	air := newPlayer(w, false)

	NewControlSystem().Update(w, testDT)

	g, _ := engine.GetComponent[component.RigidBodyComponent](w, ground)
	a, _ := engine.GetComponent[component.RigidBodyComponent](w, air)
	want := DefaultPlayerControl().MoveForce
	if g.Force[0] != want {
		t.Errorf("Expected grounded force %v, got %v", want, g.Force[0])
	}
	if a.Force[0] != want*DefaultPlayerControl().AirControl {
		t.Errorf("Expected air force %v, got %v", want*DefaultPlayerControl().AirControl, a.Force[0])
	}

	// At the run limit no further push is applied
	fast := newPlayer(w, true)
	engine.GetComponentMut[component.VelocityComponent](w, fast).Linear[0] = DefaultPlayerControl().MaxRunX
	NewControlSystem().Update(w, testDT)
	if f, _ := engine.GetComponent[component.RigidBodyComponent](w, fast); f.Force[0] != 0 {
		t.Errorf("Expected no force past run limit, got %v", f.Force[0])
	}
}

func TestLifetime_DestroysAtEndOfTick(t *testing.T) {
	w := engine.NewWorld()
	short := w.CreateEntity()
	engine.AddComponent(w, short, component.LifetimeComponent{Remaining: 0.02})
	long := w.CreateEntity()
	engine.AddComponent(w, long, component.LifetimeComponent{Remaining: 10})
	s := NewLifetimeSystem()

	w.BeginTick(1)
	s.Update(w, testDT)
	w.EndTick()
	if !w.Alive(short) {
		t.Fatal("Expected entity alive after first tick")
	}

	w.BeginTick(2)
	s.Update(w, testDT)
	if w.Alive(short) {
		t.Error("Expected expired entity dead once its lifetime ran out")
	}
	if w.PendingDestroy() != 1 {
		t.Errorf("Expected release deferred to end of tick, pending=%d", w.PendingDestroy())
	}
	w.EndTick()

	if !w.Alive(long) {
		t.Error("Expected long-lived entity to survive")
	}
}
