package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/phasefield/config"
	"github.com/pthm-cable/phasefield/game"
	"github.com/pthm-cable/phasefield/telemetry"
)

// Quality component weights.
const (
	qualityWeightLinks     = 0.5
	qualityWeightStability = 0.3
	qualityWeightCalm      = 0.2

	qualityWarmupWindows = 2 // skip windows while progress is still settling into Net
)

// FitnessEvaluator runs headless simulations held in the Net regime and
// scores how well the network settles.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int64
	seeds       []int64
	baseConfig  *config.Config
	statsWindow int
	targetLinks float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
	lastLinks   float64
	lastSpeed   float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config, targetLinks float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 120,
		targetLinks: targetLinks,
	}
}

// LastQuality returns the quality, mean links and mean speed of the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() (quality, links, speed float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality, fe.lastLinks, fe.lastSpeed
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	quality float64
	links   float64
	speed   float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	if err := cfg.Validate(); err != nil {
		return 0
	}

	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			windows := fe.runSimulation(cfg, s)
			q, links, speed := fe.computeQuality(windows)
			results[idx] = seedResult{quality: q, links: links, speed: speed}
		}(i, seed)
	}
	wg.Wait()

	var quality, links, speed float64
	for _, r := range results {
		quality += r.quality
		links += r.links
		speed += r.speed
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = quality / n
	fe.lastLinks = links / n
	fe.lastSpeed = speed / n
	fe.mu.Unlock()

	return -quality / n
}

// runSimulation advances into the Net regime and collects window stats.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) []telemetry.WindowStats {
	var windows []telemetry.WindowStats

	g := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindow:    fe.statsWindow,
		StepsPerUpdate: 1,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	defer g.Unload()

	g.AdvancePhase()
	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	return windows
}

// copyConfig creates a copy of the base config. Config holds only value fields.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeQuality scores settled windows in [0, 1] and returns the mean links
// per node and mean speed it saw.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) (quality, meanLinks, meanSpeed float64) {
	if len(windows) <= qualityWarmupWindows {
		return 0, 0, 0
	}
	valid := windows[qualityWarmupWindows:]

	links := make([]float64, len(valid))
	speeds := make([]float64, len(valid))
	for i, w := range valid {
		links[i] = w.MeanLinks
		speeds[i] = w.SpeedMean
	}

	meanLinks = stat.Mean(links, nil)
	meanSpeed = stat.Mean(speeds, nil)

	// 1. Link density close to target
	relErr := (meanLinks - fe.targetLinks) / fe.targetLinks
	linkScore := math.Exp(-relErr * relErr)

	// 2. Link density steady across windows
	stabilityScore := 1.0
	if len(links) >= 2 && meanLinks > 0 {
		cv := stat.StdDev(links, nil) / meanLinks
		stabilityScore = math.Exp(-cv * cv)
	}

	// 3. Network at rest
	calmScore := math.Exp(-meanSpeed)

	quality = qualityWeightLinks*linkScore +
		qualityWeightStability*stabilityScore +
		qualityWeightCalm*calmScore

	return min(max(quality, 0), 1), meanLinks, meanSpeed
}
