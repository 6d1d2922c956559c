package telemetry

// Sample is the simulation state handed to Flush at the end of a window.
type Sample struct {
	Nodes        int
	TargetPhase  string
	Progress     float64
	Fog          float64
	Net          float64
	Fluid        float64
	GravitySign  float64
	GravityScale float64
	Speeds       []float64
}

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int64

	// Current window tracking
	windowStartTick int64

	// Event counters for current window
	advances   int
	resamples  int
	linkTotal  int
	linkFrames int
}

// NewCollector creates a new stats collector.
// windowTicks: how many simulation ticks each stats window lasts
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowDurationTicks: int64(windowTicks)}
}

// RecordAdvance records a phase advance; resampled marks a fluid boundary crossing.
func (c *Collector) RecordAdvance(resampled bool) {
	c.advances++
	if resampled {
		c.resamples++
	}
}

// RecordLinks records the neighbor links counted in one force pass.
func (c *Collector) RecordLinks(links int) {
	c.linkTotal += links
	c.linkFrames++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, s Sample) WindowStats {
	speeds := ComputeSpeedStats(s.Speeds)

	var meanLinks float64
	if c.linkFrames > 0 && s.Nodes > 0 {
		meanLinks = float64(c.linkTotal) / float64(c.linkFrames) / float64(s.Nodes)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		Nodes:           s.Nodes,
		TargetPhase:     s.TargetPhase,
		Progress:        s.Progress,
		FogWeight:       s.Fog,
		NetWeight:       s.Net,
		FluidWeight:     s.Fluid,
		Advances:        c.advances,
		Resamples:       c.resamples,
		GravitySign:     s.GravitySign,
		GravityScale:    s.GravityScale,
		SpeedMean:       speeds.Mean,
		SpeedStd:        speeds.Std,
		SpeedP50:        speeds.P50,
		SpeedP90:        speeds.P90,
		SpeedMax:        speeds.Max,
		MeanLinks:       meanLinks,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.advances = 0
	c.resamples = 0
	c.linkTotal = 0
	c.linkFrames = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
