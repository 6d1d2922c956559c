// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Noise backends understood by systems.NewNoiseField.
const (
	NoiseSimplex = "simplex"
	NoisePerlin  = "perlin"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	World      WorldConfig      `yaml:"world"`
	Population PopulationConfig `yaml:"population"`
	Grid       GridConfig       `yaml:"grid"`
	Transition TransitionConfig `yaml:"transition"`
	Fog        FogConfig        `yaml:"fog"`
	Net        NetConfig        `yaml:"net"`
	Fluid      FluidConfig      `yaml:"fluid"`
	Profile    ProfileConfig    `yaml:"profile"`
	Noise      NoiseConfig      `yaml:"noise"`
	Visual     VisualConfig     `yaml:"visual"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds simulation domain dimensions.
type WorldConfig struct {
	Width  int `yaml:"width"`  // Domain width (0 = use screen width)
	Height int `yaml:"height"` // Domain height (0 = use screen height)
}

// PopulationConfig holds node creation parameters.
type PopulationConfig struct {
	Nodes   int     `yaml:"nodes"`
	MassMin float64 `yaml:"mass_min"`
	MassMax float64 `yaml:"mass_max"`
}

// GridConfig holds spatial grid parameters.
// CellSize must be >= Net.ConnectionDist so a 3x3 query sees every neighbor.
type GridConfig struct {
	CellSize float64 `yaml:"cell_size"`
}

// TransitionConfig controls how fast progress chases the target phase.
type TransitionConfig struct {
	Speed float64 `yaml:"speed"` // Exponential smoothing factor per frame
}

// FogConfig holds parameters for the noise-drift regime.
type FogConfig struct {
	NoiseScale    float64 `yaml:"noise_scale"`    // Spatial frequency of the drift field
	TimeScale     float64 `yaml:"time_scale"`     // Noise z-advance per frame
	NoiseStrength float64 `yaml:"noise_strength"` // Force magnitude at full fog weight
	MaxSpeed      float64 `yaml:"max_speed"`
}

// NetConfig holds parameters for the local attraction/repulsion regime.
type NetConfig struct {
	ConnectionDist float64 `yaml:"connection_dist"`
	AttractForce   float64 `yaml:"attract_force"`
	RepelForce     float64 `yaml:"repel_force"`
	RepelRadius    float64 `yaml:"repel_radius"`
	Drag           float64 `yaml:"drag"`
}

// FluidConfig holds parameters for the vortex/flow regime.
type FluidConfig struct {
	MaxSpeed       float64 `yaml:"max_speed"`
	CenterGravity  float64 `yaml:"center_gravity"`
	VortexStrength float64 `yaml:"vortex_strength"`
	FlowNoise      float64 `yaml:"flow_noise"`
	NoiseScale     float64 `yaml:"noise_scale"`
	TimeScale      float64 `yaml:"time_scale"`
	Drag           float64 `yaml:"drag"`
}

// ProfileConfig holds fluid profile resampling ranges.
type ProfileConfig struct {
	RepelChance     float64 `yaml:"repel_chance"`      // Probability of the strong repulsion branch
	RepelScaleMin   float64 `yaml:"repel_scale_min"`   // Gravity scale range when repelling
	RepelScaleMax   float64 `yaml:"repel_scale_max"`
	AttractScaleMin float64 `yaml:"attract_scale_min"` // Gravity scale range when attracting
	AttractScaleMax float64 `yaml:"attract_scale_max"`
}

// NoiseConfig selects and tunes the noise field backend.
type NoiseConfig struct {
	Backend       string  `yaml:"backend"` // simplex or perlin
	PerlinAlpha   float64 `yaml:"perlin_alpha"`
	PerlinBeta    float64 `yaml:"perlin_beta"`
	PerlinOctaves int     `yaml:"perlin_octaves"`
}

// VisualConfig holds renderer sizes.
type VisualConfig struct {
	NodeSize  float64 `yaml:"node_size"`
	LineWidth float64 `yaml:"line_width"`
	LineAlpha float64 `yaml:"line_alpha"` // Peak line alpha in [0,1]
}

// ParallelConfig controls the parallel force pass.
type ParallelConfig struct {
	Threshold int `yaml:"threshold"` // Minimum node count for the worker pool (0 = never)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW float64 // Effective domain width
	WorldH float64 // Effective domain height
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded default configuration.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field invariants that the simulation relies on.
func (c *Config) Validate() error {
	if c.Population.Nodes <= 0 {
		return fmt.Errorf("population.nodes must be positive, got %d", c.Population.Nodes)
	}
	if c.Population.MassMin > c.Population.MassMax {
		return fmt.Errorf("population.mass_min %.2f exceeds mass_max %.2f", c.Population.MassMin, c.Population.MassMax)
	}
	if c.Grid.CellSize < c.Net.ConnectionDist {
		return fmt.Errorf("grid.cell_size %.1f is smaller than net.connection_dist %.1f", c.Grid.CellSize, c.Net.ConnectionDist)
	}
	if c.Net.RepelRadius > c.Net.ConnectionDist {
		return fmt.Errorf("net.repel_radius %.1f exceeds net.connection_dist %.1f", c.Net.RepelRadius, c.Net.ConnectionDist)
	}
	if c.Transition.Speed <= 0 || c.Transition.Speed > 1 {
		return fmt.Errorf("transition.speed must be in (0, 1], got %v", c.Transition.Speed)
	}
	switch c.Noise.Backend {
	case NoiseSimplex, NoisePerlin:
	default:
		return fmt.Errorf("unknown noise.backend %q", c.Noise.Backend)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW = float64(worldW)
	c.Derived.WorldH = float64(worldH)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
