package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/meltdown/config"
	"github.com/pthm-cable/meltdown/game"
	"github.com/pthm-cable/meltdown/telemetry"
)

// FitnessEvaluator runs idle headless games and scores the cascade.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	targetRate  float64 // Fissions per second the cascade should sustain
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config, targetRate float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		targetRate:  targetRate,
		statsWindow: 5.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32                   // ticks until the idle player died, or maxTicks
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
}

type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			results[idx] = seedResult{
				fitness: fe.computeFitness(result),
				quality: fe.computeQuality(result.windowStats),
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation runs one game with no player input until the player dies or
// maxTicks is reached.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}

	g := game.NewGame(cfg, game.Options{
		Seed:           seed,
		Headless:       true,
		NoAudio:        true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
		if g.GameOver() {
			result.survivalTicks = g.Tick()
			return result
		}
	}

	result.survivalTicks = fe.maxTicks
	return result
}

// copyConfig copies the base config. Config holds only values, so a struct
// copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + quality))
// An idle player should survive a while, but a dead cascade scores no quality.
func (fe *FitnessEvaluator) computeFitness(r *runResult) float64 {
	survival := float64(r.survivalTicks)
	quality := fe.computeQuality(r.windowStats)
	return -(survival * (1.0 + quality))
}

// Quality component weights.
const (
	qualityWeightRate       = 0.45
	qualityWeightStability  = 0.30
	qualityWeightGeneration = 0.25

	qualityWarmupWindows = 2 // skip first N windows (warmup)
)

// computeQuality scores how lively and steady the cascade was, in [0, 1].
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var rateSum, genSum float64
	atoms := make([]float64, 0, len(valid))
	maxGen := float64(fe.baseConfig.Atoms.MaxGeneration)

	for _, w := range valid {
		atoms = append(atoms, float64(w.Atoms))

		// 1. Fission rate close to target
		relErr := (w.FissionRate - fe.targetRate) / fe.targetRate
		rateSum += math.Exp(-relErr * relErr)

		// 2. Cascades reach mid-depth generations
		if maxGen > 0 && w.Atoms > 0 {
			depth := w.GenMean / maxGen
			genSum += math.Exp(-math.Pow((depth-0.5)/0.25, 2))
		}
	}

	n := float64(len(valid))
	rateScore := rateSum / n
	genScore := genSum / n

	// 3. Atom count stability (coefficient of variation across windows)
	stabilityScore := 0.0
	if len(atoms) >= 2 {
		mean, std := stat.MeanStdDev(atoms, nil)
		if mean > 0 {
			cv := std / mean
			stabilityScore = math.Exp(-cv * cv)
		}
	}

	quality := qualityWeightRate*rateScore +
		qualityWeightStability*stabilityScore +
		qualityWeightGeneration*genScore

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
