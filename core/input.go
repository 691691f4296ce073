package core

// InputState is the per-frame intent snapshot delivered by a backend
type InputState struct {
	MoveX float64 // -1 left, +1 right
	Jump  bool    // Held, edge detection happens in the control system
	Pause bool    // Toggle request this frame
	Debug bool    // Toggle request this frame
	Quit  bool
}
