package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/phasefield/components"
)

// PositionLookup resolves an entity to its current position.
// *ecs.Map1[components.Position] satisfies it.
type PositionLookup interface {
	Get(e ecs.Entity) *components.Position
}

// FrameContext carries the read-only per-frame inputs of the force pass.
type FrameContext struct {
	Weights Weights
	Profile FluidProfile
	Frame   int64
	Noise   NoiseField
}

// AccumulateForces returns the acceleration acting on self at pos this frame,
// and the number of neighbors inside the connection distance.
// It reads neighbor positions only and never mutates other nodes.
func AccumulateForces(self ecs.Entity, pos components.Position, neighbors []ecs.Entity, positions PositionLookup, p *Params, ctx *FrameContext) (r2.Vec, int) {
	var acc r2.Vec
	links := 0
	w := ctx.Weights
	frame := float64(ctx.Frame)

	if w.Fog > weightEpsilon {
		n := ctx.Noise.Eval3(pos.X*p.Fog.NoiseScale, pos.Y*p.Fog.NoiseScale, frame*p.Fog.TimeScale)
		angle := n * math.Pi * 8 // four full turns across the noise range
		acc = r2.Add(acc, r2.Scale(p.Fog.NoiseStrength*w.Fog, unitAt(angle)))
	}

	// Local repulsion stays active into the fluid regime.
	if w.Net > weightEpsilon || w.Fluid > weightEpsilon {
		connDist := p.Net.ConnectionDist
		repelRadius := p.Net.RepelRadius
		attract := w.Net > weightEpsilon
		repelScale := p.Net.RepelForce * w.Net * (1 - 0.5*w.Fluid)

		for _, other := range neighbors {
			if other == self {
				continue
			}
			op := positions.Get(other)
			if op == nil {
				continue
			}
			delta := r2.Vec{X: op.X - pos.X, Y: op.Y - pos.Y}
			d := r2.Norm(delta)
			if d <= 0 || d >= connDist {
				continue
			}
			links++
			dir := r2.Scale(1/d, delta)

			if attract {
				strength := (1 - d/connDist) * p.Net.AttractForce * w.Net
				acc = r2.Add(acc, r2.Scale(strength, dir))
			}
			if d < repelRadius {
				strength := (1 - d/repelRadius) * repelScale
				acc = r2.Sub(acc, r2.Scale(strength, dir))
			}
		}
	}

	if w.Fluid > weightEpsilon {
		toCenter := r2.Sub(p.Bounds.Center(), r2.Vec{X: pos.X, Y: pos.Y})
		if d := r2.Norm(toCenter); d > 0 {
			dir := r2.Scale(1/d, toCenter)
			gravity := p.Fluid.CenterGravity * ctx.Profile.Gravity() * w.Fluid
			acc = r2.Add(acc, r2.Scale(gravity, dir))

			tangent := r2.Vec{X: -dir.Y, Y: dir.X}
			acc = r2.Add(acc, r2.Scale(p.Fluid.VortexStrength*w.Fluid, tangent))
		}

		n := ctx.Noise.Eval3(pos.X*p.Fluid.NoiseScale, pos.Y*p.Fluid.NoiseScale, frame*p.Fluid.TimeScale)
		acc = r2.Add(acc, r2.Scale(p.Fluid.FlowNoise*w.Fluid, unitAt(n*math.Pi*4)))
	}

	return acc, links
}

// unitAt returns the unit vector at angle radians.
func unitAt(angle float64) r2.Vec {
	sin, cos := math.Sincos(angle)
	return r2.Vec{X: cos, Y: sin}
}

// ForceSystem resets and accumulates accelerations for every node.
type ForceSystem struct {
	filter ecs.Filter2[components.Position, components.Acceleration]
	posMap *ecs.Map1[components.Position]
	params *Params

	neighbors []ecs.Entity
	links     int
}

// NewForceSystem creates a new force system.
func NewForceSystem(w *ecs.World, params *Params) *ForceSystem {
	return &ForceSystem{
		filter:    *ecs.NewFilter2[components.Position, components.Acceleration](w),
		posMap:    ecs.NewMap1[components.Position](w),
		params:    params,
		neighbors: make([]ecs.Entity, 0, 64),
	}
}

// Update runs the force pass. The grid must already reflect this frame's positions.
func (s *ForceSystem) Update(grid *SpatialGrid, ctx *FrameContext) {
	s.links = 0
	query := s.filter.Query()
	for query.Next() {
		e := query.Entity()
		pos, acc := query.Get()

		var force r2.Vec
		var links int
		force, links, s.neighbors = s.Compute(e, *pos, grid, ctx, s.neighbors)
		acc.X, acc.Y = force.X, force.Y
		s.links += links
	}
}

// Compute evaluates the force on a single entity using scratch for the grid query.
// It only reads shared state, so separate scratch buffers may run concurrently.
func (s *ForceSystem) Compute(e ecs.Entity, pos components.Position, grid *SpatialGrid, ctx *FrameContext, scratch []ecs.Entity) (r2.Vec, int, []ecs.Entity) {
	scratch = grid.QueryInto(scratch[:0], pos.X, pos.Y)
	force, links := AccumulateForces(e, pos, scratch, s.posMap, s.params, ctx)
	return force, links, scratch
}

// Links returns the number of neighbor links seen in the last serial Update.
// Each connected pair counts twice.
func (s *ForceSystem) Links() int { return s.links }
