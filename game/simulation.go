package game

import (
	"log/slog"

	"github.com/pthm-cable/phasefield/systems"
	"github.com/pthm-cable/phasefield/telemetry"
)

// simulationStep runs a single tick of the simulation.
func (g *Game) simulationStep() {
	g.perf.StartTick()

	if g.autoAdvance > 0 && g.tick > 0 && g.tick%int64(g.autoAdvance) == 0 {
		g.AdvancePhase()
	}

	// 1. Smooth progress toward the target phase
	g.perf.StartSection(telemetry.SectionPhase)
	g.phase.Update()
	weights := g.phase.Weights()

	// 2. Rebuild the spatial grid from current positions
	g.perf.StartSection(telemetry.SectionSpatialGrid)
	g.updateSpatialGrid()

	// 3. Accumulate forces into every node's acceleration
	g.perf.StartSection(telemetry.SectionForces)
	ctx := systems.FrameContext{
		Weights: weights,
		Profile: g.profile,
		Frame:   g.tick,
		Noise:   g.noise,
	}
	links := g.updateForces(&ctx)
	g.collector.RecordLinks(links)

	// 4. Integrate velocity and position, then wrap
	g.perf.StartSection(telemetry.SectionIntegrate)
	g.physics.Update(weights)

	g.tick++

	g.perf.StartSection(telemetry.SectionTelemetry)
	g.flushTelemetry()

	g.perf.EndTick()
}

// updateSpatialGrid rebuilds the spatial index.
func (g *Game) updateSpatialGrid() {
	g.grid.Clear()

	query := g.nodeFilter.Query()
	for query.Next() {
		pos, _, _, _ := query.Get()
		g.grid.Insert(query.Entity(), pos.X, pos.Y)
	}
}

// updateForces runs the force pass, in parallel above the configured node count.
// It returns the number of neighbor links seen.
func (g *Game) updateForces(ctx *systems.FrameContext) int {
	if g.parallelThreshold > 0 && g.nodeCount >= g.parallelThreshold {
		return g.updateForcesParallel(ctx)
	}
	g.forces.Update(g.grid, ctx)
	return g.forces.Links()
}

// AdvancePhase moves the phase target one step along its ping-pong cycle.
// Crossing between Net and Fluid resamples the Fluid Profile.
func (g *Game) AdvancePhase() systems.Transition {
	t := g.phase.Advance()
	g.collector.RecordAdvance(t.CrossedFluid)

	event := telemetry.PhaseEvent{
		Tick:         g.tick,
		From:         t.From.String(),
		To:           t.To.String(),
		Direction:    g.phase.Direction(),
		Resampled:    t.CrossedFluid,
		GravitySign:  g.profile.GravitySign,
		GravityScale: g.profile.GravityScale,
	}
	slog.Info("phase_advance", "event", event)

	if err := g.outputManager.WritePhaseEvent(event); err != nil {
		slog.Error("failed to write phase event", "error", err)
	}
	return t
}

// Resize changes the domain extents. The grid is rebuilt for the new size;
// node positions are left alone and re-wrap on their next edge crossing.
func (g *Game) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == g.params.Bounds.Width && height == g.params.Bounds.Height {
		return
	}
	g.params.Bounds = systems.Bounds{Width: width, Height: height}
	g.grid.Resize(width, height)

	cols, rows := g.grid.Dims()
	slog.Info("resize", "width", width, "height", height, "cols", cols, "rows", rows)
}
