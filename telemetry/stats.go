package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int64 `csv:"-"`
	WindowEndTick   int64 `csv:"window_end"`

	Nodes int `csv:"nodes"`

	// Phase state at window end
	TargetPhase string  `csv:"target_phase"`
	Progress    float64 `csv:"progress"`
	FogWeight   float64 `csv:"fog_weight"`
	NetWeight   float64 `csv:"net_weight"`
	FluidWeight float64 `csv:"fluid_weight"`

	// Events during window
	Advances  int `csv:"advances"`
	Resamples int `csv:"resamples"`

	// Fluid profile at window end
	GravitySign  float64 `csv:"gravity_sign"`
	GravityScale float64 `csv:"gravity_scale"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	// Mean neighbor links per node over the window
	MeanLinks float64 `csv:"mean_links"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// SpeedStats summarizes a speed distribution.
type SpeedStats struct {
	Mean, Std     float64
	P50, P90, Max float64
}

// ComputeSpeedStats calculates mean, sample std, percentiles and max.
func ComputeSpeedStats(values []float64) SpeedStats {
	n := len(values)
	if n == 0 {
		return SpeedStats{}
	}

	var s SpeedStats
	if n == 1 {
		s.Mean = values[0]
	} else {
		s.Mean, s.Std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	s.P50 = Percentile(sorted, 0.50)
	s.P90 = Percentile(sorted, 0.90)
	s.Max = floats.Max(sorted)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Int("nodes", s.Nodes),
		slog.String("target_phase", s.TargetPhase),
		slog.Float64("progress", s.Progress),
		slog.Float64("fog_weight", s.FogWeight),
		slog.Float64("net_weight", s.NetWeight),
		slog.Float64("fluid_weight", s.FluidWeight),
		slog.Int("advances", s.Advances),
		slog.Int("resamples", s.Resamples),
		slog.Float64("gravity_sign", s.GravitySign),
		slog.Float64("gravity_scale", s.GravityScale),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("mean_links", s.MeanLinks),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
