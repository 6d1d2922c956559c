package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/phasefield/config"
)

// seqRand replays a fixed sequence of Float64 draws.
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

func testProfileConfig() config.ProfileConfig {
	return config.ProfileConfig{
		RepelChance:     0.1,
		RepelScaleMin:   2,
		RepelScaleMax:   8,
		AttractScaleMin: 0.7,
		AttractScaleMax: 1.3,
	}
}

func TestDefaultFluidProfile(t *testing.T) {
	p := DefaultFluidProfile()
	if p.GravitySign != 1 || p.GravityScale != 1 || p.Gravity() != 1 {
		t.Errorf("unexpected default profile %+v", p)
	}
}

func TestFluidProfileResampleBranches(t *testing.T) {
	tests := []struct {
		name      string
		draws     []float64
		wantSign  float64
		wantScale float64
	}{
		{"strong repulsion low", []float64{0.05, 0}, -1, 2},
		{"strong repulsion high", []float64{0.0, 1}, -1, 8},
		{"gentle attraction mid", []float64{0.5, 0.5}, 1, 1.0},
		{"boundary draw attracts", []float64{0.1, 0}, 1, 0.7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultFluidProfile()
			p.Resample(testProfileConfig(), &seqRand{vals: tc.draws})
			if p.GravitySign != tc.wantSign {
				t.Errorf("sign: got %v, want %v", p.GravitySign, tc.wantSign)
			}
			if diff := p.GravityScale - tc.wantScale; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("scale: got %v, want %v", p.GravityScale, tc.wantScale)
			}
		})
	}
}

func TestFluidProfileResampleRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cfg := testProfileConfig()
	p := DefaultFluidProfile()

	repels := 0
	const n = 5000
	for i := 0; i < n; i++ {
		p.Resample(cfg, rng)
		switch p.GravitySign {
		case -1:
			repels++
			if p.GravityScale < 2 || p.GravityScale > 8 {
				t.Fatalf("repel scale %v out of [2,8]", p.GravityScale)
			}
		case 1:
			if p.GravityScale < 0.7 || p.GravityScale > 1.3 {
				t.Fatalf("attract scale %v out of [0.7,1.3]", p.GravityScale)
			}
		default:
			t.Fatalf("unexpected sign %v", p.GravitySign)
		}
	}

	frac := float64(repels) / n
	if frac < 0.07 || frac > 0.13 {
		t.Errorf("expected ~10%% repulsion draws, got %.3f", frac)
	}
}
