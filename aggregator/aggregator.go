// Package aggregator implements the round-end reduction: it folds all
// per-partition delta summaries and per-example deltas into the next round's
// global state using damped, partition-count-normalized averaging. Folding
// is a plain sum followed by one scaling, so the order in which partitions
// are combined does not affect the result beyond floating-point summation
// order.
package aggregator

import (
	"gonum.org/v1/gonum/floats"

	"github.com/structlearn/structlearn/model"
	"github.com/structlearn/structlearn/solver"
	"github.com/structlearn/structlearn/state"
)

// Aggregator combines per-partition solver results. Beta is the damping
// constant; the effective scale of every delta is Beta / numPartitions.
type Aggregator[Y any] struct {
	Beta float64
}

// New returns an aggregator with the given damping constant. Zero or
// negative beta means the default of 1.
func New[Y any](beta float64) Aggregator[Y] {
	if beta <= 0 {
		beta = 1
	}

	return Aggregator[Y]{Beta: beta}
}

// Scale returns the damping factor applied to every delta.
func (a Aggregator[Y]) Scale(numPartitions int) float64 {
	return a.Beta / float64(numPartitions)
}

// Fold produces the next global model pair from the previous one and all
// partitions' delta summaries. Partitions that sampled zero examples emit
// zero deltas and fold as no-ops. The returned step counts are the summed
// per-partition coordinate steps taken this round.
func (a Aggregator[Y]) Fold(
	prev, prevAvg model.Model,
	results []solver.Result[Y],
	numPartitions int,
) (next, nextAvg model.Model, diag model.Diagnostics, stepCounts []int) {
	d := len(prev.Weights)
	scale := a.Scale(numPartitions)

	sumW := make([]float64, d)
	sumAvgW := make([]float64, d)
	var sumEll, sumAvgEll float64
	stepCounts = make([]int, numPartitions)

	for _, r := range results {
		if r.Delta.Weights != nil {
			floats.Add(sumW, r.Delta.Weights)
		}
		sumEll += r.Delta.Ell
		if r.Delta.AvgWeights != nil {
			floats.Add(sumAvgW, r.Delta.AvgWeights)
		}
		sumAvgEll += r.Delta.AvgEll
		for p, c := range r.Delta.StepCounts {
			stepCounts[p] += c
		}
	}

	next = prev.Clone()
	floats.AddScaled(next.Weights, scale, sumW)
	next.Ell += scale * sumEll

	nextAvg = prevAvg.Clone()
	floats.AddScaled(nextAvg.Weights, scale, sumAvgW)
	nextAvg.Ell += scale * sumAvgEll

	diag = model.Diagnose(prev, next)

	return next, nextAvg, diag, stepCounts
}

// Merge applies the per-example deltas to the state store with outer-join
// semantics: examples updated this round get the damped delta and their new
// cache; all others keep their previous state untouched.
func (a Aggregator[Y]) Merge(st *state.Store[Y], results []solver.Result[Y], numPartitions int) {
	scale := a.Scale(numPartitions)

	for _, r := range results {
		for i, delta := range r.Primals {
			prev := st.Primal(i)
			w := prev.W.Dense()
			delta.W.AddTo(w, scale)
			st.SetPrimal(i, state.Primal{
				W:   model.NewVector(w, st.Sparse()),
				Ell: prev.Ell + scale*delta.Ell,
			})
		}
		for i, cache := range r.Caches {
			st.SetCache(i, cache)
		}
	}
}
