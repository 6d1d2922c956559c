package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/phasefield/config"
)

// weightEpsilon is the weight at or below which a regime's forces are skipped.
const weightEpsilon = 0.01

// Bounds represents the simulation domain.
type Bounds struct {
	Width, Height float64
}

// Center returns the middle of the domain.
func (b Bounds) Center() r2.Vec {
	return r2.Vec{X: b.Width / 2, Y: b.Height / 2}
}

// Params holds the per-regime coefficients shared by the force and physics systems.
type Params struct {
	Fog    config.FogConfig
	Net    config.NetConfig
	Fluid  config.FluidConfig
	Bounds Bounds
}

// ParamsFromConfig extracts simulation parameters from the loaded config.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		Fog:    cfg.Fog,
		Net:    cfg.Net,
		Fluid:  cfg.Fluid,
		Bounds: Bounds{Width: cfg.Derived.WorldW, Height: cfg.Derived.WorldH},
	}
}
