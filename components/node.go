// Package components defines ECS components for the simulation.
package components

// Node holds per-particle identity data.
type Node struct {
	ID uint32 // Stable, assigned at creation

	// Mass is randomized at creation but does not take part in force scaling.
	Mass float64
}
