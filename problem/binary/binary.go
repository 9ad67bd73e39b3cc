// Package binary is the reference problem: linear binary classification with
// labels -1/+1, the smallest structured-output instance. It backs the demo
// command and the end-to-end tests.
package binary

import (
	"iter"

	"gonum.org/v1/gonum/floats"

	"github.com/structlearn/structlearn/model"
	"github.com/structlearn/structlearn/problem"
)

// Problem classifies dense feature vectors into {-1, +1} with the joint
// feature map phi(x, y) = y/2 * x.
type Problem struct {
	// PositiveWeight and NegativeWeight reweight the two classes. Zero
	// values mean 1.
	PositiveWeight float64
	NegativeWeight float64
}

var _ problem.Problem[[]float64, int] = Problem{}

func (p Problem) Features(x []float64, y int) model.Vector {
	f := make([]float64, len(x))
	floats.AddScaled(f, float64(y)/2, x)

	return model.NewVector(f, false)
}

func (p Problem) Loss(truth, candidate int) float64 {
	if truth == candidate {
		return 0
	}

	return 1
}

func (p Problem) Oracle(m model.Model, x []float64, truth int) int {
	best, bestVal := 0, 0.0
	for _, y := range []int{-1, 1} {
		v := m.Score(p.Features(x, y)) + p.Loss(truth, y)
		if best == 0 || v > bestVal {
			best, bestVal = y, v
		}
	}

	return best
}

// Candidates yields both labels. The label space is tiny, so there is a
// single refinement level.
func (p Problem) Candidates(m model.Model, x []float64, truth int, _ int) iter.Seq[int] {
	return func(yield func(int) bool) {
		first := p.Oracle(m, x, truth)
		if !yield(first) {
			return
		}
		yield(-first)
	}
}

func (p Problem) ClassWeight(y int) float64 {
	switch {
	case y > 0 && p.PositiveWeight > 0:
		return p.PositiveWeight
	case y < 0 && p.NegativeWeight > 0:
		return p.NegativeWeight
	default:
		return 1
	}
}

func (p Problem) Predict(m model.Model, x []float64) int {
	if m.Score(p.Features(x, 1)) >= 0 {
		return 1
	}

	return -1
}
