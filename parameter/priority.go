package parameter

// System Execution Priorities (lower runs first)
const (
	PriorityControl  = 50  // Input intents become forces before integration
	PriorityPhysics  = 100 // Integrate, collide, resolve, commit
	PriorityParticle = 200 // Emitters read committed positions
	PriorityLifetime = 300 // Expiry after gameplay so destroyed entities still collided this tick
)
