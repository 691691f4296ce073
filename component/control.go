package component

// PlayerControlComponent maps input intents onto a rigid body
type PlayerControlComponent struct {
	MoveForce  float64
	JumpSpeed  float64
	AirControl float64 // Force multiplier while airborne
	MaxRunX    float64 // Horizontal speed above which move force is not applied

	JumpHeld bool // Previous tick jump state, for edge detection
}
