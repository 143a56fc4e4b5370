package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/cytosoup/components"
	"github.com/pthm-cable/cytosoup/config"
	"github.com/pthm-cable/cytosoup/sim"
	"github.com/pthm-cable/cytosoup/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int64
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu           sync.Mutex
	bestFitness  float64
	lastProteins float64 // mean final protein count from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 5.0, // 5 seconds per window
		bestFitness: math.Inf(1),
	}
}

// LastProteins returns the mean final protein count from the most recent evaluation.
func (fe *FitnessEvaluator) LastProteins() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastProteins
}

// runResult holds the results from a single simulation run.
type runResult struct {
	windowStats   []telemetry.WindowStats
	finalProteins int
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness rewards protein output and penalizes wasted transcripts and
// capacity exhaustion, averaged across all seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalProteins float64
	for _, r := range results {
		totalFitness += computeFitness(r)
		totalProteins += float64(r.finalProteins)
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
	}
	fe.lastProteins = totalProteins / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless simulation run, including the
// same growth and division driver the interactive binary uses.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}

	s, err := sim.New(sim.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		Cfg:            cfg,
	})
	if err != nil {
		return result
	}
	defer s.Close()
	s.SeedCell()

	growthRate := float32(cfg.Capsule.GrowthRate) * cfg.Derived.DT32
	divisionLength := float32(cfg.Capsule.DivisionLength)

	for tick := int64(0); tick < fe.maxTicks; tick++ {
		s.Step()

		s.SetBoundaryLength(s.BoundaryLength() + growthRate)
		if divisionLength > 0 && s.BoundaryLength() >= divisionLength {
			s.Divide()
		}

		if s.StatsDue() {
			result.windowStats = append(result.windowStats, s.FlushWindowStats())
		}
	}

	result.finalProteins = s.KindCounts()[components.KindProtein]
	return result
}

// computeFitness aggregates window stats into a scalar (lower = better).
func computeFitness(r *runResult) float64 {
	var translations, transcripts, rejected float64
	for _, w := range r.windowStats {
		translations += float64(w.Translations)
		transcripts += float64(w.Transcripts)
		rejected += float64(w.RejectedInserts)
	}

	// Untranslated transcripts clutter the cell; rejected inserts mean the
	// store ran out of room, which no amount of yield excuses.
	waste := transcripts - translations
	if waste < 0 {
		waste = 0
	}
	return -translations + 0.25*waste + 2.0*rejected
}

// copyConfig returns an independent copy of the base configuration.
// Config contains only value fields, so a shallow copy is a deep copy.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	c := *fe.baseConfig
	return &c
}
