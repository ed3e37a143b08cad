package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/wriggle/config"
	"github.com/pthm-cable/wriggle/ecosystem"
	"github.com/pthm-cable/wriggle/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params   *ParamVector
	maxMoves int64
	seeds    []int64
	base     *config.Config

	mu          sync.Mutex
	bestFitness float64
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxMoves int64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxMoves:    maxMoves,
		seeds:       seeds,
		base:        baseCfg,
		bestFitness: math.Inf(1),
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// minViablePop: a population below this counts as functionally extinct.
const (
	minViablePop   = 3
	stepsPerWindow = 50 // steps between collected stat windows
	warmupWindows  = 3  // skipped before quality scoring
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalMoves int64 // moves before extinction (or maxMoves if survived)
	windows       []telemetry.WindowStats
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative survival moves: longer survival = lower (better)
// fitness, with a quality bonus for stable, energetic populations.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			quality := fe.computeQuality(result.windows)
			results[idx] = seedResult{
				fitness: fe.computeFitness(result),
				quality: quality,
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
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless run until functional
// extinction or maxMoves, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	// Replenishment would mask extinction; survival has to be earned.
	cfg.Simulation.MinOrganismCount = 0

	w := ecosystem.NewWorld(cfg, ecosystem.Options{Seed: seed})
	defer w.Close()

	result := &runResult{}
	sim := cfg.Simulation

	steps := 0
	for w.MoveCounter() < fe.maxMoves {
		w.Step(sim.IterationCount, sim.EnergyGainRate)
		steps++

		if steps%stepsPerWindow == 0 {
			result.windows = append(result.windows, w.WindowStats())
		}

		if w.OrganismCount() < minViablePop {
			result.survivalMoves = w.MoveCounter()
			return result
		}
	}

	// Survived the full run
	result.survivalMoves = fe.maxMoves
	return result
}

// copyConfig creates a working copy of the base config over fresh
// defaults.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg, _ := config.Load("")
	cfg.Screen = fe.base.Screen
	cfg.Arena = fe.base.Arena
	cfg.Simulation = fe.base.Simulation
	cfg.Telemetry = fe.base.Telemetry
	return cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalMoves × (1.0 + 0.2 × quality))
// Survival dominates; quality adds up to 20% bonus to differentiate
// configs with similar survival.
func (fe *FitnessEvaluator) computeFitness(r *runResult) float64 {
	survival := float64(r.survivalMoves)
	quality := fe.computeQuality(r.windows)
	return -(survival * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightStability = 0.40
	qualityWeightEnergy    = 0.30
	qualityWeightTurnover  = 0.30
)

// computeQuality computes ecosystem quality ∈ [0, 1] from window stats.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= warmupWindows {
		return 0
	}
	valid := windows[warmupWindows:]

	counts := make([]float64, 0, len(valid))
	var energySum, turnoverSum float64
	var energyCount int

	threshold := float64(fe.base.Simulation.DivisionThreshold)
	if threshold <= 0 {
		threshold = 1
	}

	for _, w := range valid {
		if w.OrganismCount < minViablePop {
			continue
		}
		counts = append(counts, float64(w.OrganismCount))

		// Energy health: median sitting near half the division threshold
		// means the population is neither starving nor saturating.
		rel := w.EnergyP50 / threshold
		energySum += math.Exp(-math.Pow((rel-0.5)/0.25, 2))
		energyCount++

		// Turnover: some divisions per window signal a live ecosystem.
		turnoverSum += 1.0 - math.Exp(-float64(w.Divisions)/2.0)
	}

	if len(counts) == 0 {
		return 0
	}

	// Population stability (CV across valid windows)
	stabilityScore := 0.0
	if len(counts) >= 2 {
		c := cv(counts)
		stabilityScore = math.Exp(-c * c)
	}

	energyScore := energySum / float64(energyCount)
	turnoverScore := turnoverSum / float64(len(counts))

	quality := qualityWeightStability*stabilityScore +
		qualityWeightEnergy*energyScore +
		qualityWeightTurnover*turnoverScore

	return clamp01(quality)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	n := float64(len(values))
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if mean == 0 {
		return 0
	}
	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	return math.Sqrt(sqDiff/n) / mean
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
