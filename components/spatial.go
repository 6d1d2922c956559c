package components

// Position represents a node's location in the simulation domain.
type Position struct {
	X, Y float64
}

// Velocity represents a node's velocity in domain units per frame.
type Velocity struct {
	X, Y float64
}

// Acceleration accumulates force contributions for the current frame.
// It is reset at the start of every force pass and consumed by integration.
type Acceleration struct {
	X, Y float64
}
