package game

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/phasefield/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and writes its outputs.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	w := g.phase.Weights()
	stats := g.collector.Flush(g.tick, telemetry.Sample{
		Nodes:        g.nodeCount,
		TargetPhase:  g.phase.Target().String(),
		Progress:     g.phase.Progress(),
		Fog:          w.Fog,
		Net:          w.Net,
		Fluid:        w.Fluid,
		GravitySign:  g.profile.GravitySign,
		GravityScale: g.profile.GravityScale,
		Speeds:       g.sampleSpeeds(),
	})
	perfStats := g.perf.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleSpeeds collects the current speed of every node.
func (g *Game) sampleSpeeds() []float64 {
	g.speedScratch = g.speedScratch[:0]

	query := g.nodeFilter.Query()
	for query.Next() {
		_, vel, _, _ := query.Get()
		g.speedScratch = append(g.speedScratch, math.Hypot(vel.X, vel.Y))
	}
	return g.speedScratch
}
