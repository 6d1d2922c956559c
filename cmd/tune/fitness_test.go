package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/phasefield/config"
	"github.com/pthm-cable/phasefield/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-12 {
			t.Errorf("%s: expected %v, got %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestParamVectorApplyClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()

	pv.ApplyToConfig(cfg, []float64{-1, 10, 35, 2})

	if cfg.Net.AttractForce != pv.Specs[0].Min {
		t.Errorf("attract_force should clamp to %v, got %v", pv.Specs[0].Min, cfg.Net.AttractForce)
	}
	if cfg.Net.RepelForce != pv.Specs[1].Max {
		t.Errorf("repel_force should clamp to %v, got %v", pv.Specs[1].Max, cfg.Net.RepelForce)
	}
	if cfg.Net.RepelRadius != 35 {
		t.Errorf("repel_radius should pass through, got %v", cfg.Net.RepelRadius)
	}
	if cfg.Net.Drag != pv.Specs[3].Max {
		t.Errorf("drag should clamp to %v, got %v", pv.Specs[3].Max, cfg.Net.Drag)
	}

	got := pv.ExtractFromConfig(cfg)
	if got[2] != 35 {
		t.Errorf("extract mismatch: %v", got)
	}
}

func TestComputeQuality(t *testing.T) {
	fe := &FitnessEvaluator{targetLinks: 4}

	windows := func(links, speed float64, n int) []telemetry.WindowStats {
		out := make([]telemetry.WindowStats, n)
		for i := range out {
			out[i] = telemetry.WindowStats{MeanLinks: links, SpeedMean: speed}
		}
		return out
	}

	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		want    float64
	}{
		{"too few windows", windows(4, 0, qualityWarmupWindows), 0},
		{"on target at rest", windows(4, 0, 6), 1},
		{"on target moving", windows(4, 1, 6), qualityWeightLinks + qualityWeightStability + qualityWeightCalm*math.Exp(-1)},
		{"no links", windows(0, 0, 6), qualityWeightLinks*math.Exp(-1) + qualityWeightStability + qualityWeightCalm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, _ := fe.computeQuality(tt.windows)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected quality %v, got %v", tt.want, got)
			}
		})
	}
}

func TestComputeQualitySkipsWarmup(t *testing.T) {
	fe := &FitnessEvaluator{targetLinks: 4}
	w := []telemetry.WindowStats{
		{MeanLinks: 100, SpeedMean: 50},
		{MeanLinks: 100, SpeedMean: 50},
		{MeanLinks: 4},
		{MeanLinks: 4},
	}
	_, links, speed := fe.computeQuality(w)
	if links != 4 || speed != 0 {
		t.Errorf("warmup windows leaked into averages: links=%v speed=%v", links, speed)
	}
}

func TestEvaluateRejectsInvalidConfig(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()
	cfg.Population.Nodes = 0

	fe := NewFitnessEvaluator(pv, 10, []int64{1}, cfg, 4)
	if got := fe.Evaluate(pv.DefaultVector()); got != 0 {
		t.Errorf("invalid config should score 0, got %v", got)
	}
}
