package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/phasefield/components"
)

// PhysicsSystem integrates accumulated accelerations into velocity and position.
type PhysicsSystem struct {
	filter ecs.Filter3[components.Position, components.Velocity, components.Acceleration]
	params *Params
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(w *ecs.World, params *Params) *PhysicsSystem {
	return &PhysicsSystem{
		filter: *ecs.NewFilter3[components.Position, components.Velocity, components.Acceleration](w),
		params: params,
	}
}

// Update runs the physics system.
func (s *PhysicsSystem) Update(weights Weights) {
	drag, maxSpeed := MotionLimits(weights, s.params)

	query := s.filter.Query()
	for query.Next() {
		pos, vel, acc := query.Get()
		Integrate(pos, vel, *acc, drag, maxSpeed, s.params.Bounds)
	}
}

// MotionLimits picks drag and speed cap from the dominant regime.
// This is a threshold switch, not a blend; later regimes win ties.
func MotionLimits(w Weights, p *Params) (drag, maxSpeed float64) {
	drag, maxSpeed = 1.0, 1.0
	if w.Fog > 0.5 {
		maxSpeed = p.Fog.MaxSpeed
	}
	if w.Net > 0.5 {
		drag = p.Net.Drag
		maxSpeed = 2.0
	}
	if w.Fluid > 0.5 {
		drag = p.Fluid.Drag
		maxSpeed = p.Fluid.MaxSpeed
	}
	return drag, maxSpeed
}

// Integrate advances one node by a single frame and wraps it into bounds.
func Integrate(pos *components.Position, vel *components.Velocity, acc components.Acceleration, drag, maxSpeed float64, b Bounds) {
	vel.X += acc.X
	vel.Y += acc.Y
	vel.X *= drag
	vel.Y *= drag

	// Limit velocity
	speed := math.Hypot(vel.X, vel.Y)
	if speed > maxSpeed {
		scale := maxSpeed / speed
		vel.X *= scale
		vel.Y *= scale
	}

	pos.X += vel.X
	pos.Y += vel.Y

	pos.X = wrap(pos.X, b.Width)
	pos.Y = wrap(pos.Y, b.Height)
}

// wrap moves a coordinate past one edge onto the opposite edge.
func wrap(v, extent float64) float64 {
	if v < 0 {
		return extent
	}
	if v > extent {
		return 0
	}
	return v
}
