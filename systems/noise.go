package systems

import (
	"fmt"
	"math"

	perlin "github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/phasefield/config"
)

// NoiseField is a smooth 3D scalar field with values in [0, 1).
type NoiseField interface {
	Eval3(x, y, z float64) float64
}

// NoiseFunc adapts a plain function to NoiseField.
type NoiseFunc func(x, y, z float64) float64

// Eval3 calls f.
func (f NoiseFunc) Eval3(x, y, z float64) float64 { return f(x, y, z) }

// NewNoiseField creates the configured noise backend.
func NewNoiseField(cfg config.NoiseConfig, seed int64) (NoiseField, error) {
	switch cfg.Backend {
	case config.NoiseSimplex, "":
		return &simplexField{noise: opensimplex.NewNormalized(seed)}, nil
	case config.NoisePerlin:
		octaves := cfg.PerlinOctaves
		if octaves < 1 {
			octaves = 1
		}
		return &perlinField{noise: perlin.NewPerlin(cfg.PerlinAlpha, cfg.PerlinBeta, int32(octaves), seed)}, nil
	default:
		return nil, fmt.Errorf("unknown noise backend %q", cfg.Backend)
	}
}

// simplexField wraps OpenSimplex noise normalized to [0, 1].
type simplexField struct {
	noise opensimplex.Noise
}

func (f *simplexField) Eval3(x, y, z float64) float64 {
	return unitInterval(f.noise.Eval3(x, y, z))
}

// perlinField wraps classic Perlin noise, which is roughly centered on zero.
type perlinField struct {
	noise *perlin.Perlin
}

func (f *perlinField) Eval3(x, y, z float64) float64 {
	return unitInterval(f.noise.Noise3D(x, y, z)*0.5 + 0.5)
}

// maxUnit is the largest float64 below 1.
var maxUnit = math.Nextafter(1, 0)

// unitInterval clamps v into [0, 1).
func unitInterval(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > maxUnit {
		return maxUnit
	}
	return v
}
