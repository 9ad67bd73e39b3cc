// Package model holds the global model state shared between the coordinator,
// the local solvers and the aggregator, together with the per-round delta
// summaries exchanged at the reduction barrier.
package model

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Model is the global iterate: a weight vector of fixed dimension and the
// accumulated dual scalar. It is recreated by the aggregator at every round
// boundary and is read-only for all solvers during a round.
type Model struct {
	Weights []float64 `json:"weights" cbor:"1,keyasint"`
	Ell     float64   `json:"ell"     cbor:"2,keyasint"`
}

// Zero returns the zero model of dimension d.
func Zero(d int) Model {
	return Model{Weights: make([]float64, d)}
}

// Clone returns a deep copy. Solvers clone the frozen snapshot into their
// partition-local accumulator before the sequential pass.
func (m Model) Clone() Model {
	w := make([]float64, len(m.Weights))
	copy(w, m.Weights)

	return Model{Weights: w, Ell: m.Ell}
}

// Score returns the inner product of the model weights with a feature vector.
func (m Model) Score(f Vector) float64 {
	return f.Dot(m.Weights)
}

// WeightNorm returns the Euclidean norm of the weight vector.
func (m Model) WeightNorm() float64 {
	return floats.Norm(m.Weights, 2)
}

// Delta is the one-shot per-partition summary emitted by a local solver at
// the end of its pass: the difference between its local accumulator and the
// snapshot it started from, for both the raw and the weighted-average
// iterate, plus the number of coordinate steps taken, recorded at the
// partition's own index so the aggregator can rebuild the global step
// bookkeeping.
type Delta struct {
	Weights    []float64
	Ell        float64
	AvgWeights []float64
	AvgEll     float64
	StepCounts []int
}

// Diagnostics are the convergence measurements the aggregator derives from
// consecutive global models.
type Diagnostics struct {
	WeightNorm float64
	StepNorm   float64
	Cosine     float64
}

// Diagnose compares the previous and the freshly aggregated model.
func Diagnose(prev, next Model) Diagnostics {
	diff := make([]float64, len(next.Weights))
	floats.SubTo(diff, next.Weights, prev.Weights)

	d := Diagnostics{
		WeightNorm: floats.Norm(prev.Weights, 2),
		StepNorm:   floats.Norm(diff, 2),
	}

	denom := floats.Norm(prev.Weights, 2) * floats.Norm(next.Weights, 2)
	if denom == 0 {
		d.Cosine = math.NaN()

		return d
	}
	d.Cosine = floats.Dot(prev.Weights, next.Weights) / denom

	return d
}
