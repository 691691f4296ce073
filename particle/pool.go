// Package particle runs short-lived visual particles outside the entity store
package particle

import (
	"github.com/lixenwraith/skirmish/vmath"
)

// Particle is a visual-only point, it never collides
type Particle struct {
	Pos          vmath.Vec2
	Prev         vmath.Vec2
	Vel          vmath.Vec2
	Life         float64 // Remaining seconds
	MaxLife      float64
	GravityScale float64
	Drag         float64
	Size         float64
	Color        uint32
}

// Age returns the elapsed fraction of the particle's life in [0, 1]
func (p *Particle) Age() float64 {
	if p.MaxLife <= 0 {
		return 1
	}
	return 1 - p.Life/p.MaxLife
}

// Pool is a fixed-capacity particle store; when full, new spawns are refused and existing particles kept
type Pool struct {
	items []Particle
	cap   int
}

// NewPool pre-allocates capacity particles
func NewPool(capacity int) *Pool {
	if capacity < 0 {
		capacity = 0
	}
	return &Pool{items: make([]Particle, 0, capacity), cap: capacity}
}

// Spawn adds p, false when the pool is full
func (pl *Pool) Spawn(p Particle) bool {
	if len(pl.items) >= pl.cap {
		return false
	}
	p.Prev = p.Pos
	pl.items = append(pl.items, p)
	return true
}

// Step integrates every particle by dt seconds and prunes expired ones, order of survivors is kept
func (pl *Pool) Step(dt float64, gravity vmath.Vec2) {
	writeIdx := 0
	for i := range pl.items {
		p := pl.items[i]
		p.Life -= dt
		if p.Life <= 0 {
			continue
		}
		p.Vel = p.Vel.Add(gravity.Mul(p.GravityScale * dt))
		if p.Drag > 0 {
			p.Vel = p.Vel.Mul(max(0, 1-p.Drag*dt))
		}
		p.Prev = p.Pos
		p.Pos = p.Pos.Add(p.Vel.Mul(dt))
		pl.items[writeIdx] = p
		writeIdx++
	}
	pl.items = pl.items[:writeIdx]
}

// All returns live particles, valid until the next Step or Spawn
func (pl *Pool) All() []Particle {
	return pl.items
}

func (pl *Pool) Len() int { return len(pl.items) }
func (pl *Pool) Cap() int { return pl.cap }

// Clear drops every particle
func (pl *Pool) Clear() {
	pl.items = pl.items[:0]
}
