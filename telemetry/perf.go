package telemetry

import (
	"log/slog"
	"time"
)

// Section names for the simulation step.
const (
	SectionPhase       = "phase"
	SectionSpatialGrid = "spatial_grid"
	SectionForces      = "forces"
	SectionIntegrate   = "integrate"
	SectionTelemetry   = "telemetry"
)

// sections lists step sections in execution order.
var sections = []string{SectionPhase, SectionSpatialGrid, SectionForces, SectionIntegrate, SectionTelemetry}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Sections     map[string]time.Duration
}

// PerfCollector tracks performance metrics over a rolling window.
type PerfCollector struct {
	windowSize      int
	samples         []PerfSample
	writeIndex      int
	sampleCount     int
	currentSections map[string]time.Duration
	tickStart       time.Time
	sectionStart    time.Time
	lastSection     string

	// Frame timing (for graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of ticks to average over (e.g., 60 for 1 second at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:      windowSize,
		samples:         make([]PerfSample, windowSize),
		currentSections: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentSections = make(map[string]time.Duration)
	p.lastSection = ""
}

// StartSection ends the running section, if any, and begins timing the named one.
func (p *PerfCollector) StartSection(section string) {
	now := time.Now()
	if p.lastSection != "" {
		p.currentSections[p.lastSection] += now.Sub(p.sectionStart)
	}
	p.sectionStart = now
	p.lastSection = section
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastSection != "" {
		p.currentSections[p.lastSection] += now.Sub(p.sectionStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Sections:     p.currentSections,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Section breakdown: average durations and share of tick time
	SectionAvg map[string]time.Duration
	SectionPct map[string]float64

	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	// Frame timing is always available (independent of tick samples)
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			SectionAvg:    make(map[string]time.Duration),
			SectionPct:    make(map[string]float64),
			FrameDuration: p.frameDuration,
			FPS:           fps,
		}
	}

	var totalTick time.Duration
	var minTick, maxTick time.Duration
	sectionSum := make(map[string]time.Duration)

	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalTick += s.TickDuration

		if i == 0 || s.TickDuration < minTick {
			minTick = s.TickDuration
		}
		if s.TickDuration > maxTick {
			maxTick = s.TickDuration
		}
		for section, dur := range s.Sections {
			sectionSum[section] += dur
		}
	}

	avgTick := totalTick / time.Duration(p.sampleCount)

	sectionAvg := make(map[string]time.Duration, len(sectionSum))
	sectionPct := make(map[string]float64, len(sectionSum))
	for section, sum := range sectionSum {
		sectionAvg[section] = sum / time.Duration(p.sampleCount)
		if avgTick > 0 {
			sectionPct[section] = float64(sectionAvg[section]) / float64(avgTick) * 100
		}
	}

	var ticksPerSec float64
	if avgTick > 0 {
		ticksPerSec = float64(time.Second) / float64(avgTick)
	}

	return PerfStats{
		AvgTickDuration: avgTick,
		MinTickDuration: minTick,
		MaxTickDuration: maxTick,
		SectionAvg:      sectionAvg,
		SectionPct:      sectionPct,
		TicksPerSecond:  ticksPerSec,
		FrameDuration:   p.frameDuration,
		FPS:             fps,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}

	for _, section := range sections {
		if pct, ok := s.SectionPct[section]; ok && pct > 0.1 {
			attrs = append(attrs, slog.Float64(section+"_pct", float64(int(pct*10))/10))
		}
	}

	return slog.GroupValue(attrs...)
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd      int64   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	ControllerPct  float64 `csv:"phase_pct"`
	SpatialGridPct float64 `csv:"spatial_grid_pct"`
	ForcesPct      float64 `csv:"forces_pct"`
	IntegratePct   float64 `csv:"integrate_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		ControllerPct:  s.SectionPct[SectionPhase],
		SpatialGridPct: s.SectionPct[SectionSpatialGrid],
		ForcesPct:      s.SectionPct[SectionForces],
		IntegratePct:   s.SectionPct[SectionIntegrate],
		TelemetryPct:   s.SectionPct[SectionTelemetry],
	}
}
