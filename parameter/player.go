package parameter

// Player Prefab Tuning
const (
	PlayerWidth      = 0.8
	PlayerHeight     = 0.9
	PlayerMass       = 1.0
	PlayerMoveForce  = 40.0 // Horizontal force at full stick
	PlayerJumpSpeed  = 7.5  // Vertical takeoff speed
	PlayerAirControl = 0.5  // Force multiplier while airborne
	PlayerMaxRunX    = 6.0
)
