// Package solver implements the sequential block-coordinate Frank-Wolfe pass
// a single partition runs within one round. Each invocation owns its shard's
// per-example state and a partition-local mutable copy of the frozen global
// model; later examples in the pass observe the updates of earlier ones
// through that local accumulator.
package solver

import (
	"context"

	"gonum.org/v1/gonum/floats"

	"github.com/structlearn/structlearn/dataset"
	"github.com/structlearn/structlearn/model"
	"github.com/structlearn/structlearn/pkg/errors"
	"github.com/structlearn/structlearn/problem"
	"github.com/structlearn/structlearn/state"
)

const (
	// machEps guards the line-search denominator against degenerate
	// near-zero direction norms.
	machEps = 2.220446049250313e-16

	// stepEps is the diminishing-returns threshold: candidates whose
	// implied step size falls at or below it are not worth taking, and
	// the oracle stream stops being pulled once it produces one.
	stepEps = 1e-12
)

// Config are the per-run solver options.
type Config struct {
	Lambda      float64
	LineSearch  bool
	UseCache    bool
	CacheSize   int
	Averaging   bool
	SparseState bool
	StartLevel  int
}

// Shard is one partition's sampled slice of the dataset joined with its
// current per-example state. Caches is nil when caching is disabled.
type Shard[X, Y any] struct {
	Partition     int
	NumPartitions int
	Examples      []dataset.Example[X, Y]
	Primals       []state.Primal
	Caches        [][]Y
}

// Result carries the updated per-example state and the one-shot
// per-partition delta summary back to the aggregator. Primals holds the
// per-example contribution deltas (final minus pass-start), keyed by example
// index.
type Result[Y any] struct {
	Partition int
	Primals   map[int]state.Primal
	Caches    map[int][]Y
	Delta     model.Delta
	Steps     int
}

type candidate struct {
	wS    []float64
	ellS  float64
	gamma float64
}

// Run executes one sequential pass over the shard against the frozen
// snapshots. k is the partition's running step counter, monotonically
// increasing across all rounds; n is the total dataset size.
func Run[X, Y any](
	ctx context.Context,
	prob problem.Problem[X, Y],
	shard Shard[X, Y],
	snapshot, avgSnapshot model.Model,
	k, n int,
	cfg Config,
) (Result[Y], error) {
	d := len(snapshot.Weights)
	local := snapshot.Clone()
	avg := avgSnapshot.Clone()

	res := Result[Y]{
		Partition: shard.Partition,
		Primals:   make(map[int]state.Primal, len(shard.Examples)),
		Caches:    make(map[int][]Y),
	}

	// With-replacement sampling can repeat an index within a shard; the
	// second visit must observe the first one's update.
	startW := make(map[int][]float64)
	startEll := make(map[int]float64)
	curW := make(map[int][]float64)
	curEll := make(map[int]float64)
	curCache := make(map[int][]Y)

	for pos, ex := range shard.Examples {
		if err := ctx.Err(); err != nil {
			return Result[Y]{}, err
		}

		i := ex.Index
		if _, ok := curW[i]; !ok {
			w := shard.Primals[pos].W.Dense()
			startW[i] = append([]float64(nil), w...)
			startEll[i] = shard.Primals[pos].Ell
			curW[i] = w
			curEll[i] = shard.Primals[pos].Ell
			if shard.Caches != nil {
				curCache[i] = shard.Caches[pos]
			}
		}
		wI, ellI := curW[i], curEll[i]

		eval := func(y Y) (candidate, error) {
			return evalCandidate(prob, local, ex.Pattern, ex.Label, y, wI, ellI, n, d, cfg.Lambda)
		}

		var chosen candidate
		var chosenLabel Y
		accepted := false

		if cfg.UseCache {
			if cached := curCache[i]; len(cached) > 0 {
				for _, y := range cached {
					c, err := eval(y)
					if err != nil {
						return Result[Y]{}, err
					}
					if c.gamma <= stepEps {
						continue
					}
					if !accepted || c.gamma < chosen.gamma {
						chosen, chosenLabel, accepted = c, y, true
					}
				}
			}
		}

		if !accepted {
			for y := range prob.Candidates(local, ex.Pattern, ex.Label, cfg.StartLevel) {
				c, err := eval(y)
				if err != nil {
					return Result[Y]{}, err
				}
				if !accepted || c.gamma > chosen.gamma {
					chosen, chosenLabel, accepted = c, y, true
				}
				if c.gamma <= stepEps {
					break
				}
			}
		}

		if accepted {
			gamma := chosen.gamma
			if !cfg.LineSearch {
				gamma = float64(2*n) / float64(k+2*n)
			}

			// w_i' = (1-gamma) w_i + gamma w_s, applied as a delta so the
			// local accumulator stays consistent with the contributions.
			for j := range wI {
				dj := gamma * (chosen.wS[j] - wI[j])
				wI[j] += dj
				local.Weights[j] += dj
			}
			dEll := gamma * (chosen.ellS - ellI)
			curEll[i] = ellI + dEll
			local.Ell += dEll

			if cfg.UseCache {
				curCache[i] = state.AppendBounded(curCache[i], chosenLabel, cfg.CacheSize)
			}
		}

		if cfg.Averaging {
			rho := 2 / float64(k+2)
			for j := range avg.Weights {
				avg.Weights[j] = (1-rho)*avg.Weights[j] + rho*local.Weights[j]
			}
			avg.Ell = (1-rho)*avg.Ell + rho*local.Ell
		}

		k++
		res.Steps++
	}

	for i, w := range curW {
		dw := make([]float64, d)
		floats.SubTo(dw, w, startW[i])
		res.Primals[i] = state.Primal{
			W:   model.NewVector(dw, cfg.SparseState),
			Ell: curEll[i] - startEll[i],
		}
	}
	if cfg.UseCache {
		for i, c := range curCache {
			res.Caches[i] = c
		}
	}

	res.Delta = model.Delta{
		Weights:    make([]float64, d),
		Ell:        local.Ell - snapshot.Ell,
		StepCounts: make([]int, shard.NumPartitions),
	}
	floats.SubTo(res.Delta.Weights, local.Weights, snapshot.Weights)
	res.Delta.StepCounts[shard.Partition] = res.Steps
	if cfg.Averaging {
		res.Delta.AvgWeights = make([]float64, d)
		floats.SubTo(res.Delta.AvgWeights, avg.Weights, avgSnapshot.Weights)
		res.Delta.AvgEll = avg.Ell - avgSnapshot.Ell
	}

	return res, nil
}

// evalCandidate computes the implied update (w_s, ell_s) of taking candidate
// label y for one example, and its closed-form line-search step size clipped
// to [0, 1].
func evalCandidate[X, Y any](
	prob problem.Problem[X, Y],
	local model.Model,
	x X, truth, y Y,
	wI []float64, ellI float64,
	n, d int,
	lambda float64,
) (candidate, error) {
	cw := prob.ClassWeight(truth)

	ft := prob.Features(x, truth)
	fc := prob.Features(x, y)
	if ft.Len() != d || fc.Len() != d {
		return candidate{}, errors.ErrDimension
	}

	// w_s = classWeight * (phi(x, truth) - phi(x, y)) / (lambda * n)
	wS := make([]float64, d)
	ft.AddTo(wS, cw/(lambda*float64(n)))
	fc.AddTo(wS, -cw/(lambda*float64(n)))
	ellS := cw * prob.Loss(truth, y) / float64(n)

	diff := make([]float64, d)
	floats.SubTo(diff, wI, wS)
	num := floats.Dot(local.Weights, diff) - (ellI-ellS)/lambda
	den := floats.Dot(diff, diff) + machEps

	gamma := num / den
	if gamma < 0 {
		gamma = 0
	}
	if gamma > 1 {
		gamma = 1
	}

	return candidate{wS: wS, ellS: ellS, gamma: gamma}, nil
}
