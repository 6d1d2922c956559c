// Package game wires the phase controller, spatial grid and force systems into
// the per-frame simulation loop.
package game

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/phasefield/components"
	"github.com/pthm-cable/phasefield/config"
	"github.com/pthm-cable/phasefield/systems"
	"github.com/pthm-cable/phasefield/telemetry"
)

// Options configures a new Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindow    int    // ticks per stats window, 0 = config
	OutputDir      string // empty = no CSV output
	Headless       bool
	StepsPerUpdate int
	AutoAdvance    int            // advance the phase every N ticks, 0 = only on request
	Config         *config.Config // nil = global config
	StatsCallback  func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	world      *ecs.World
	nodeMapper *ecs.Map4[
		components.Position,
		components.Velocity,
		components.Acceleration,
		components.Node,
	]
	nodeFilter *ecs.Filter4[
		components.Position,
		components.Velocity,
		components.Acceleration,
		components.Node,
	]
	posMap *ecs.Map1[components.Position]
	accMap *ecs.Map1[components.Acceleration]

	params  *systems.Params
	grid    *systems.SpatialGrid
	forces  *systems.ForceSystem
	physics *systems.PhysicsSystem
	phase   *systems.PhaseController
	profile systems.FluidProfile
	noise   systems.NoiseField

	parallel          *parallelState
	parallelThreshold int

	// State
	tick           int64
	nextID         uint32
	nodeCount      int
	paused         bool
	stepsPerUpdate int
	autoAdvance    int
	headless       bool

	// Telemetry
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	speedScratch  []float64

	inspectScratch []ecs.Entity
}

// NewGameWithOptions creates a new game with the given options.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	world := ecs.NewWorld()
	params := systems.ParamsFromConfig(cfg)

	stepsPerUpdate := opts.StepsPerUpdate
	if stepsPerUpdate < 1 {
		stepsPerUpdate = 1
	}
	statsWindow := opts.StatsWindow
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(opts.Seed)),
		world: world,
		nodeMapper: ecs.NewMap4[
			components.Position,
			components.Velocity,
			components.Acceleration,
			components.Node,
		](world),
		nodeFilter: ecs.NewFilter4[
			components.Position,
			components.Velocity,
			components.Acceleration,
			components.Node,
		](world),
		posMap:            ecs.NewMap1[components.Position](world),
		accMap:            ecs.NewMap1[components.Acceleration](world),
		params:            &params,
		grid:              systems.NewSpatialGrid(params.Bounds.Width, params.Bounds.Height, cfg.Grid.CellSize),
		profile:           systems.DefaultFluidProfile(),
		parallel:          newParallelState(),
		parallelThreshold: cfg.Parallel.Threshold,
		stepsPerUpdate:    stepsPerUpdate,
		autoAdvance:       opts.AutoAdvance,
		headless:          opts.Headless,
		perf:              telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:         telemetry.NewCollector(statsWindow),
		logStats:          opts.LogStats,
		statsCallback:     opts.StatsCallback,
	}
	g.forces = systems.NewForceSystem(world, g.params)
	g.physics = systems.NewPhysicsSystem(world, g.params)
	g.phase = systems.NewPhaseController(cfg.Transition.Speed, g.resampleProfile)

	noise, err := systems.NewNoiseField(cfg.Noise, opts.Seed)
	if err != nil {
		slog.Error("failed to create noise field, using simplex", "error", err)
		noise, _ = systems.NewNoiseField(config.NoiseConfig{Backend: config.NoiseSimplex}, opts.Seed)
	}
	g.noise = noise

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config snapshot", "error", err)
			}
		}
	}

	g.spawnNodes()

	return g
}

// spawnNodes creates the fixed node population with random state.
func (g *Game) spawnNodes() {
	pop := g.cfg.Population
	maxSpeed := g.cfg.Fog.MaxSpeed

	for i := 0; i < pop.Nodes; i++ {
		angle := g.rng.Float64() * 2 * math.Pi
		speed := g.rng.Float64() * maxSpeed
		sin, cos := math.Sincos(angle)

		pos := components.Position{
			X: g.rng.Float64() * g.params.Bounds.Width,
			Y: g.rng.Float64() * g.params.Bounds.Height,
		}
		vel := components.Velocity{X: cos * speed, Y: sin * speed}
		acc := components.Acceleration{}
		node := components.Node{
			ID:   g.nextID,
			Mass: pop.MassMin + g.rng.Float64()*(pop.MassMax-pop.MassMin),
		}
		g.nextID++

		g.nodeMapper.NewEntity(&pos, &vel, &acc, &node)
		g.nodeCount++
	}
}

// resampleProfile is invoked by the phase controller on Net/Fluid crossings.
func (g *Game) resampleProfile(from, to systems.Phase) {
	g.profile.Resample(g.cfg.Profile, g.rng)
	slog.Info("fluid_profile_resampled",
		"from", from.String(),
		"to", to.String(),
		"gravity_sign", g.profile.GravitySign,
		"gravity_scale", g.profile.GravityScale,
	)
}

// Update runs one or more simulation steps unless paused.
func (g *Game) Update() {
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// UpdateHeadless runs simulation steps without any rendering.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// Step runs exactly one simulation step, ignoring pause.
func (g *Game) Step() {
	g.simulationStep()
}

// SetPaused pauses or resumes Update.
func (g *Game) SetPaused(paused bool) { g.paused = paused }

// Paused reports whether Update is paused.
func (g *Game) Paused() bool { return g.paused }

// StepsPerUpdate returns the number of ticks run per Update call.
func (g *Game) StepsPerUpdate() int { return g.stepsPerUpdate }

// SetStepsPerUpdate sets the number of ticks per Update call, clamped to [1, 10].
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = min(max(n, 1), 10)
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int64 {
	return g.tick
}

// NodeCount returns the number of nodes.
func (g *Game) NodeCount() int {
	return g.nodeCount
}

// Profile returns the current Fluid Profile.
func (g *Game) Profile() systems.FluidProfile {
	return g.profile
}

// Phase returns the phase controller.
func (g *Game) Phase() *systems.PhaseController {
	return g.phase
}

// Bounds returns the current domain extents.
func (g *Game) Bounds() systems.Bounds {
	return g.params.Bounds
}

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Perf returns the performance collector.
func (g *Game) Perf() *telemetry.PerfCollector {
	return g.perf
}

// Unload stops worker goroutines and closes output files.
func (g *Game) Unload() {
	g.stopParallelWorkers()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
