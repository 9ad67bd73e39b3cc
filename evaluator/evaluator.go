// Package evaluator computes the objective-side metrics of a model: dual
// objective, duality gap, primal estimate, and train/test error and
// structured hinge loss. The gap needs one full oracle pass over the
// dataset, which is why the coordinator throttles how often it is computed.
package evaluator

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/structlearn/structlearn/dataset"
	"github.com/structlearn/structlearn/model"
	"github.com/structlearn/structlearn/pkg/errors"
	"github.com/structlearn/structlearn/problem"
)

// Evaluator wraps a problem and the regularization constant.
type Evaluator[X, Y any] struct {
	prob   problem.Problem[X, Y]
	lambda float64
}

func New[X, Y any](prob problem.Problem[X, Y], lambda float64) *Evaluator[X, Y] {
	return &Evaluator[X, Y]{prob: prob, lambda: lambda}
}

// Dual returns the dual objective ell - (lambda/2) ||w||^2.
func (e *Evaluator[X, Y]) Dual(m model.Model) float64 {
	return m.Ell - e.lambda/2*floats.Dot(m.Weights, m.Weights)
}

// Gap estimates the duality gap of m on the given dataset with one
// loss-augmented oracle call per example.
func (e *Evaluator[X, Y]) Gap(ctx context.Context, m model.Model, ds *dataset.Store[X, Y]) (float64, error) {
	d := len(m.Weights)
	n := float64(ds.Len())

	wS := make([]float64, d)
	var ellS float64
	for _, ex := range ds.Examples() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		yStar := e.prob.Oracle(m, ex.Pattern, ex.Label)
		cw := e.prob.ClassWeight(ex.Label)

		ft := e.prob.Features(ex.Pattern, ex.Label)
		fc := e.prob.Features(ex.Pattern, yStar)
		if ft.Len() != d || fc.Len() != d {
			return 0, errors.ErrDimension
		}
		ft.AddTo(wS, cw/(e.lambda*n))
		fc.AddTo(wS, -cw/(e.lambda*n))
		ellS += cw * e.prob.Loss(ex.Label, yStar) / n
	}

	diff := make([]float64, d)
	floats.SubTo(diff, m.Weights, wS)

	return e.lambda*floats.Dot(m.Weights, diff) - m.Ell + ellS, nil
}

// Losses returns the average prediction error and the average structured
// hinge loss of m over the dataset. A nil dataset yields NaN for both,
// never an error.
func (e *Evaluator[X, Y]) Losses(ctx context.Context, m model.Model, ds *dataset.Store[X, Y]) (avgError, avgHinge float64, err error) {
	if ds == nil || ds.Len() == 0 {
		return math.NaN(), math.NaN(), nil
	}

	n := float64(ds.Len())
	for _, ex := range ds.Examples() {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}
		cw := e.prob.ClassWeight(ex.Label)

		pred := e.prob.Predict(m, ex.Pattern)
		avgError += cw * e.prob.Loss(ex.Label, pred) / n

		yStar := e.prob.Oracle(m, ex.Pattern, ex.Label)
		psi := e.prob.Features(ex.Pattern, ex.Label).Dense()
		e.prob.Features(ex.Pattern, yStar).AddTo(psi, -1)
		hinge := cw * (e.prob.Loss(ex.Label, yStar) - floats.Dot(m.Weights, psi))
		if hinge < 0 {
			hinge = 0
		}
		avgHinge += hinge / n
	}

	return avgError, avgHinge, nil
}

// Evaluate assembles the full metric set for one model against the train
// and optional test datasets. When withGap is false the gap and the primal
// estimate are reported as NaN.
func (e *Evaluator[X, Y]) Evaluate(
	ctx context.Context,
	m model.Model,
	train, test *dataset.Store[X, Y],
	withGap bool,
) (RoundEvaluation, error) {
	ev := RoundEvaluation{
		Dual:   e.Dual(m),
		Gap:    math.NaN(),
		Primal: math.NaN(),
	}

	if withGap {
		gap, err := e.Gap(ctx, m, train)
		if err != nil {
			return RoundEvaluation{}, err
		}
		ev.Gap = gap
		ev.Primal = ev.Dual + gap
	}

	var err error
	ev.TrainError, ev.TrainLoss, err = e.Losses(ctx, m, train)
	if err != nil {
		return RoundEvaluation{}, err
	}
	ev.TestError, ev.TestLoss, err = e.Losses(ctx, m, test)
	if err != nil {
		return RoundEvaluation{}, err
	}

	return ev, nil
}
