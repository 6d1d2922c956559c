package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeSpeedStats(t *testing.T) {
	values := []float64{1.0, 0.1, 0.5, 0.3, 0.9, 0.7, 0.2, 0.8, 0.4, 0.6}
	s := ComputeSpeedStats(values)

	if math.Abs(s.Mean-0.55) > 1e-9 {
		t.Errorf("mean = %v, want 0.55", s.Mean)
	}
	// Sample standard deviation of 0.1..1.0
	if math.Abs(s.Std-0.302765) > 1e-5 {
		t.Errorf("std = %v, want ~0.3028", s.Std)
	}
	if math.Abs(s.P50-0.55) > 1e-9 {
		t.Errorf("p50 = %v, want 0.55", s.P50)
	}
	if math.Abs(s.P90-0.91) > 1e-9 {
		t.Errorf("p90 = %v, want 0.91", s.P90)
	}
	if s.Max != 1.0 {
		t.Errorf("max = %v, want 1.0", s.Max)
	}
	// Input is left unsorted
	if values[0] != 1.0 {
		t.Error("ComputeSpeedStats must not reorder its input")
	}
}

func TestComputeSpeedStatsSmall(t *testing.T) {
	if s := ComputeSpeedStats(nil); s != (SpeedStats{}) {
		t.Errorf("empty input should return zeros, got %+v", s)
	}
	s := ComputeSpeedStats([]float64{2})
	if s.Mean != 2 || s.Std != 0 || s.Max != 2 || s.P50 != 2 {
		t.Errorf("single value stats wrong: %+v", s)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(100)

	if c.ShouldFlush(99) {
		t.Error("should not flush before window ends")
	}
	if !c.ShouldFlush(100) {
		t.Error("should flush at window end")
	}

	c.RecordAdvance(false)
	c.RecordAdvance(true)
	c.RecordLinks(40)
	c.RecordLinks(60)

	stats := c.Flush(100, Sample{
		Nodes:        10,
		TargetPhase:  "fluid",
		Progress:     1.8,
		Fluid:        0.8,
		Net:          0.2,
		GravitySign:  -1,
		GravityScale: 3,
		Speeds:       []float64{1, 2, 3},
	})

	if stats.Advances != 2 || stats.Resamples != 1 {
		t.Errorf("expected 2 advances and 1 resample, got %d and %d", stats.Advances, stats.Resamples)
	}
	if math.Abs(stats.MeanLinks-5) > 1e-12 {
		t.Errorf("expected 5 mean links per node, got %v", stats.MeanLinks)
	}
	if stats.WindowStartTick != 0 || stats.WindowEndTick != 100 {
		t.Errorf("unexpected window bounds %d-%d", stats.WindowStartTick, stats.WindowEndTick)
	}
	if stats.SpeedMean != 2 || stats.SpeedMax != 3 {
		t.Errorf("unexpected speed stats mean %v max %v", stats.SpeedMean, stats.SpeedMax)
	}

	// Counters reset and the next window starts at the flush tick
	next := c.Flush(200, Sample{Nodes: 10})
	if next.Advances != 0 || next.Resamples != 0 || next.MeanLinks != 0 {
		t.Errorf("expected counters reset, got %+v", next)
	}
	if next.WindowStartTick != 100 {
		t.Errorf("expected next window to start at 100, got %d", next.WindowStartTick)
	}
}
