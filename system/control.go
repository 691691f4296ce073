package system

import (
	"math"
	"time"

	"github.com/lixenwraith/skirmish/component"
	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/engine"
	"github.com/lixenwraith/skirmish/event"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/vmath"
)

// ControlSystem turns the frame's input intents into forces on player bodies
// It runs before physics so the force is integrated in the same tick
type ControlSystem struct{}

// NewControlSystem creates a new control system
func NewControlSystem() *ControlSystem {
	return &ControlSystem{}
}

func (s *ControlSystem) Priority() int {
	return parameter.PriorityControl
}

// Update applies move force and fires jumps on the rising edge of the jump intent while grounded
func (s *ControlSystem) Update(w *engine.World, dt time.Duration) {
	in, ok := engine.GetResource[*engine.InputResource](w.Resources)
	if !ok {
		return
	}
	state := in.State
	moveX := math.Max(-1, math.Min(1, state.MoveX))

	for e, row := range engine.Query3[component.PlayerControlComponent, component.RigidBodyComponent, component.VelocityComponent](w) {
		ctl, rb, vel := row.A, row.B, row.C

		if moveX != 0 {
			scale := 1.0
			if !rb.Grounded {
				scale = ctl.AirControl
			}
			// Past the run limit only braking force applies
			if ctl.MaxRunX <= 0 || vel.Linear[0]*moveX < ctl.MaxRunX {
				mass := rb.Mass
				if mass <= 0 {
					mass = 1
				}
				rb.ApplyForce(vmath.V(moveX*ctl.MoveForce*mass*scale, 0))
			}
		}

		if state.Jump && !ctl.JumpHeld && rb.Grounded {
			vel.Linear[1] = ctl.JumpSpeed
			rb.Grounded = false
			w.PushEvent(event.EventSoundCue, e, core.SoundJump)
		}
		ctl.JumpHeld = state.Jump
	}
}

// DefaultPlayerControl returns the tuned player controller
func DefaultPlayerControl() component.PlayerControlComponent {
	return component.PlayerControlComponent{
		MoveForce:  parameter.PlayerMoveForce,
		JumpSpeed:  parameter.PlayerJumpSpeed,
		AirControl: parameter.PlayerAirControl,
		MaxRunX:    parameter.PlayerMaxRunX,
	}
}
