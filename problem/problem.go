// Package problem defines the capability set a surrounding application
// supplies to the trainer: the joint feature map, the structured loss, the
// loss-augmented oracle and its lazy candidate stream, class weighting, and
// plain inference for evaluation.
package problem

import (
	"iter"

	"github.com/structlearn/structlearn/model"
)

// Problem is implemented once per application. All methods must be safe for
// concurrent use: solvers for different partitions call them in parallel.
type Problem[X, Y any] interface {
	// Features returns the joint feature vector phi(x, y). Its length must
	// be identical across all calls within one training run.
	Features(x X, y Y) model.Vector

	// Loss returns the structured error of predicting candidate when truth
	// is the correct label. It is non-negative and zero iff the labels are
	// equal.
	Loss(truth, candidate Y) float64

	// Oracle returns the exact loss-augmented maximizer
	// argmax_y (m.Score(phi(x,y)) + Loss(truth, y)). May be expensive.
	Oracle(m model.Model, x X, truth Y) Y

	// Candidates yields loss-augmented candidates coarse-to-fine, starting
	// at the given refinement level. The sequence may be infinite; the
	// consumer stops pulling once refinement stops helping.
	Candidates(m model.Model, x X, truth Y, startLevel int) iter.Seq[Y]

	// ClassWeight returns a positive scalar reweighting the loss and the
	// feature difference for label y, typically to counter class imbalance.
	ClassWeight(y Y) float64

	// Predict returns the plain (not loss-augmented) maximizer, used for
	// train/test evaluation.
	Predict(m model.Model, x X) Y
}
