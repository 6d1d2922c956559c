package systems

import "github.com/pthm-cable/phasefield/config"

// RandSource is the subset of *rand.Rand the simulation draws from.
type RandSource interface {
	Float64() float64
}

// FluidProfile scales the center gravity of the Fluid regime.
// It changes only when the phase target crosses the Net/Fluid boundary.
type FluidProfile struct {
	GravitySign  float64 // +1 attracts toward the center, -1 repels
	GravityScale float64
}

// DefaultFluidProfile is the profile before any resampling.
func DefaultFluidProfile() FluidProfile {
	return FluidProfile{GravitySign: 1, GravityScale: 1}
}

// Gravity returns the signed multiplier applied to center gravity.
func (p FluidProfile) Gravity() float64 {
	return p.GravitySign * p.GravityScale
}

// Resample draws a new profile: rarely a strong repulsion, otherwise a gentle attraction.
func (p *FluidProfile) Resample(cfg config.ProfileConfig, rng RandSource) {
	if rng.Float64() < cfg.RepelChance {
		p.GravitySign = -1
		p.GravityScale = cfg.RepelScaleMin + rng.Float64()*(cfg.RepelScaleMax-cfg.RepelScaleMin)
		return
	}
	p.GravitySign = 1
	p.GravityScale = cfg.AttractScaleMin + rng.Float64()*(cfg.AttractScaleMax-cfg.AttractScaleMin)
}
