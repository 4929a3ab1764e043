package main

import (
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/fluid"
)

const (
	evalGridSize   = 128
	evalDT         = 1.0 / 60.0
	warmupFrames   = 120
	stirInterval   = 20 // frames between scripted splats
	iterCostWeight = 0.0004
	stallVelocity  = 1.0 // field counts as dead below this peak speed
	stallPenalty   = 0.5
)

// FitnessEvaluator scores a parameter vector by running the solver headless
// under a scripted splat schedule and measuring how well the pressure solve
// removes divergence, net of the cost of extra Jacobi sweeps.
type FitnessEvaluator struct {
	params  *ParamVector
	frames  int
	seeds   []int64
	baseCfg *config.Config

	lastResidual float64
}

// NewFitnessEvaluator creates an evaluator running `frames` steps per seed.
func NewFitnessEvaluator(params *ParamVector, frames int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:  params,
		frames:  frames,
		seeds:   seeds,
		baseCfg: baseCfg,
	}
}

// Evaluate runs one simulation per seed and returns the mean fitness.
// Lower is better.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	clamped := fe.params.Clamp(raw)

	scores := make([]float64, len(fe.seeds))
	residuals := make([]float64, len(fe.seeds))
	for i, seed := range fe.seeds {
		scores[i], residuals[i] = fe.runOne(clamped, seed)
	}

	fe.lastResidual = stat.Mean(residuals, nil)
	return stat.Mean(scores, nil)
}

// LastQuality returns the mean divergence residual of the most recent
// evaluation, for progress reporting.
func (fe *FitnessEvaluator) LastQuality() float64 {
	return fe.lastResidual
}

// runOne simulates a single seed and returns (fitness, divergence residual).
func (fe *FitnessEvaluator) runOne(clamped []float64, seed int64) (float64, float64) {
	params := fluid.Params{
		VelocityDissipation: float32(clamped[3]),
		DensityDissipation:  float32(fe.baseCfg.Sim.DensityDissipation),
		Pressure:            float32(clamped[0]),
		PressureIterations:  int(clamped[1] + 0.5),
		Curl:                float32(clamped[2]),
		SplatRadius:         fe.baseCfg.Derived.SplatRadius,
		SplatForce:          float32(fe.baseCfg.Splat.Force),
	}

	// The dye field is irrelevant to the residual; keep it small.
	s := fluid.NewSolver(evalGridSize, evalGridSize, evalGridSize, evalGridSize, 1.0, params)
	rng := rand.New(rand.NewSource(seed))

	var divSum float64
	var divN int
	for frame := 0; frame < fe.frames; frame++ {
		if frame%stirInterval == 0 {
			x := rng.Float32()
			y := rng.Float32()
			dx := 1000 * (rng.Float32() - 0.5)
			dy := 1000 * (rng.Float32() - 0.5)
			r, g, b := fluid.GenerateColor(rng)
			s.Splat(x, y, dx, dy, r, g, b)
		}
		s.Step(evalDT)

		if frame >= warmupFrames {
			divSum += float64(s.MeanAbsDivergence())
			divN++
		}
	}

	residual := 0.0
	if divN > 0 {
		residual = divSum / float64(divN)
	}

	fitness := residual + iterCostWeight*clamped[1]
	if s.MaxVelocity() < stallVelocity {
		// Over-dissipated fields score a trivially low residual; penalize.
		fitness += stallPenalty
	}
	return fitness, residual
}
