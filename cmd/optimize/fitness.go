package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/game"
	"github.com/pthm-cable/flock/telemetry"
)

// Targets describes the flock shape the optimizer steers toward.
type Targets struct {
	Polarization float64 // mean |mean unit velocity|
	Spread       float64 // dispersion as a fraction of the half world diagonal
}

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	ticks      uint64
	seeds      []uint64
	baseConfig *config.Config
	targets    Targets

	mu          sync.Mutex
	lastQuality quality // from the most recent Evaluate call
}

// quality holds the per-run scores, each in [0, 1].
type quality struct {
	Polarization float64
	Spread       float64
	Stability    float64
	Total        float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, ticks uint64, seeds []uint64, baseCfg *config.Config, targets Targets) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		ticks:      ticks,
		seeds:      seeds,
		baseConfig: baseCfg,
		targets:    targets,
	}
}

// LastQuality returns the quality scores from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() quality {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Fitness is the negated mean quality over all seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Run all seeds in parallel
	results := make([]quality, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			results[idx] = fe.computeQuality(fe.runSimulation(cfg, s), cfg)
		}(i, seed)
	}
	wg.Wait()

	var avg quality
	for _, r := range results {
		avg.Polarization += r.Polarization
		avg.Spread += r.Spread
		avg.Stability += r.Stability
		avg.Total += r.Total
	}
	n := float64(len(results))
	avg.Polarization /= n
	avg.Spread /= n
	avg.Stability /= n
	avg.Total /= n

	fe.mu.Lock()
	fe.lastQuality = avg
	fe.mu.Unlock()

	return -avg.Total
}

// runSimulation executes a single headless run and returns its stats windows.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed uint64) []telemetry.FlockStats {
	var windows []telemetry.FlockStats
	g, err := game.NewGame(cfg, game.Options{
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: game.MaxStepsPerUpdate,
		StatsCallback: func(stats telemetry.FlockStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		slog.Warn("simulation failed", "seed", seed, "error", err)
		return nil
	}
	defer g.Unload()

	for g.Tick() < fe.ticks {
		g.UpdateHeadless()
	}
	return windows
}

// copyConfig returns a copy of the base config that runs each seed on one
// worker, since seeds already run in parallel.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Parallel.Workers = 1
	return &cfg
}

// Quality component weights.
const (
	qualityWeightPolarization = 0.45
	qualityWeightSpread       = 0.35
	qualityWeightStability    = 0.20

	qualityWarmupWindows = 3 // skip first N windows (warmup)
)

// computeQuality scores how closely the windows match the targets.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.FlockStats, cfg *config.Config) quality {
	if len(windows) <= qualityWarmupWindows {
		return quality{}
	}
	valid := windows[qualityWarmupWindows:]

	p := cfg.Active()
	halfDiag := math.Hypot(p.BoundsWidth, p.BoundsHeight) / 2

	pols := make([]float64, 0, len(valid))
	spreads := make([]float64, 0, len(valid))
	var q quality
	for _, w := range valid {
		spread := w.Dispersion / halfDiag
		pols = append(pols, w.Polarization)
		spreads = append(spreads, spread)

		q.Polarization += math.Exp(-math.Pow((w.Polarization-fe.targets.Polarization)/0.15, 2))
		q.Spread += math.Exp(-math.Pow((spread-fe.targets.Spread)/0.1, 2))
	}
	n := float64(len(valid))
	q.Polarization /= n
	q.Spread /= n

	if len(valid) >= 2 {
		cvPol := cv(pols)
		cvSpread := cv(spreads)
		q.Stability = math.Exp(-(cvPol*cvPol + cvSpread*cvSpread))
	}

	q.Total = clamp01(qualityWeightPolarization*q.Polarization +
		qualityWeightSpread*q.Spread +
		qualityWeightStability*q.Stability)
	return q
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
