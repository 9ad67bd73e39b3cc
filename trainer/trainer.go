// Package trainer drives the distributed training loop: per-round sampling,
// dispatch of the partition solvers, the round-end reduction barrier,
// evaluation scheduling, checkpointing and stopping.
package trainer

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/structlearn/structlearn/aggregator"
	"github.com/structlearn/structlearn/dataset"
	"github.com/structlearn/structlearn/evaluator"
	"github.com/structlearn/structlearn/model"
	"github.com/structlearn/structlearn/pkg/errors"
	"github.com/structlearn/structlearn/pkg/sampler"
	"github.com/structlearn/structlearn/problem"
	"github.com/structlearn/structlearn/solver"
	"github.com/structlearn/structlearn/state"
)

// Stopping criteria. Exactly one is active per run.
const (
	StopRounds = "rounds"
	StopTime   = "time"
	StopGap    = "gap"
)

// debugThreshold is the round up to which the debug schedule doubles; past
// it the schedule advances by fixed steps of the same size.
const debugThreshold = 100

// StoppingConfig selects the stopping criterion and its parameter.
type StoppingConfig struct {
	Criterion    string
	Rounds       int
	TimeLimit    time.Duration
	GapThreshold float64
	// GapCheck is how many rounds pass between duality-gap evaluations.
	// The gap needs a full oracle pass, so between checks the criterion is
	// assumed to still hold. Zero disables gap computation entirely.
	GapCheck int
}

// SamplingConfig controls the per-round, per-partition sampling.
type SamplingConfig struct {
	Mode            string
	Fraction        float64
	Count           int
	WithReplacement bool
}

// Config is the full training configuration.
type Config struct {
	Lambda        float64
	Beta          float64
	NumPartitions int
	Stopping      StoppingConfig
	Sampling      SamplingConfig
	LineSearch    bool
	UseCache      bool
	CacheSize     int
	Averaging     bool
	SparseState   bool
	// DebugMultiplier controls the evaluation cadence: 1 evaluates every
	// round, larger values multiply the next evaluation round until
	// debugThreshold and step linearly after it.
	DebugMultiplier int
	CheckpointFreq  int
	StartLevel      int
	Seed            int64
}

// Status is a point-in-time view of a run, safe to query while training.
type Status struct {
	RunID          string                     `json:"run_id"`
	RunName        string                     `json:"run_name"`
	Running        bool                       `json:"running"`
	Round          int                        `json:"round"`
	DatasetSize    int                        `json:"dataset_size"`
	Partitions     int                        `json:"partitions"`
	StartedAt      time.Time                  `json:"started_at,omitzero"`
	Elapsed        float64                    `json:"elapsed_s"`
	LastEvaluation *evaluator.RoundEvaluation `json:"last_evaluation,omitempty"`
}

// Result is the output artifact of a finished run.
type Result struct {
	Model         model.Model                 `json:"model"`
	AveragedModel model.Model                 `json:"averaged_model,omitzero"`
	Rounds        int                         `json:"rounds"`
	Evaluations   []evaluator.RoundEvaluation `json:"evaluations"`
}

// Service is the coordinator's interface. Run blocks until the stopping
// criterion fires; the remaining methods may be called concurrently while a
// run is in flight.
type Service[X, Y any] interface {
	Run(ctx context.Context) (Result, error)
	Status(ctx context.Context) (Status, error)
	Evaluations(ctx context.Context) ([]evaluator.RoundEvaluation, error)
	Model(ctx context.Context) (model.Model, error)
}

type trainer[X, Y any] struct {
	mu sync.Mutex

	prob  problem.Problem[X, Y]
	train *dataset.Store[X, Y]
	test  *dataset.Store[X, Y]
	cfg   Config

	agg  aggregator.Aggregator[Y]
	eval *evaluator.Evaluator[X, Y]
	smpl sampleFn

	dim int

	opts options

	// guarded by mu
	status      Status
	current     model.Model
	currentAvg  model.Model
	evaluations []evaluator.RoundEvaluation
}

type sampleFn func(rng *rand.Rand, partition []int) []int

// New validates the configuration and prepares a run. The feature dimension
// is fixed from the first example's feature vector; any later mismatch
// aborts the run. An unrecognized stopping criterion is a fatal
// configuration error.
func New[X, Y any](
	prob problem.Problem[X, Y],
	train, test *dataset.Store[X, Y],
	cfg Config,
	opts ...Option,
) (Service[X, Y], error) {
	if train == nil || train.Len() == 0 {
		return nil, errors.ErrEmptyDataset
	}

	switch cfg.Stopping.Criterion {
	case StopRounds, StopTime:
	case StopGap:
		if cfg.Stopping.GapCheck < 1 {
			return nil, fmt.Errorf("%w: gap criterion requires a positive gap check interval", errors.ErrUnknownStopping)
		}
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownStopping, cfg.Stopping.Criterion)
	}

	if cfg.Lambda <= 0 {
		cfg.Lambda = 0.01
	}
	if cfg.NumPartitions < 1 {
		cfg.NumPartitions = train.NumPartitions()
	}
	if cfg.DebugMultiplier < 1 {
		cfg.DebugMultiplier = 1
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	first := train.Example(0)
	d := prob.Features(first.Pattern, first.Label).Len()

	t := &trainer[X, Y]{
		prob:       prob,
		train:      train,
		test:       test,
		cfg:        cfg,
		agg:        aggregator.New[Y](cfg.Beta),
		eval:       evaluator.New(prob, cfg.Lambda),
		dim:        d,
		opts:       o,
		current:    model.Zero(d),
		currentAvg: model.Zero(d),
	}
	t.smpl = sampler.New(
		cfg.Sampling.Mode,
		cfg.Sampling.Fraction,
		cfg.Sampling.Count,
		train.Len(),
		cfg.Sampling.WithReplacement,
		o.logger,
	).Sample
	t.status = Status{
		RunID:       o.runID,
		RunName:     o.runName,
		DatasetSize: train.Len(),
		Partitions:  train.NumPartitions(),
	}

	return t, nil
}

func (t *trainer[X, Y]) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	n := t.train.Len()
	parts := t.train.NumPartitions()

	rng := rand.New(rand.NewSource(t.cfg.Seed))
	st := state.NewStore[Y](n, t.dim, t.cfg.SparseState, t.cfg.UseCache)
	stepCounters := make([]int, parts)

	m := model.Zero(t.dim)
	avg := model.Zero(t.dim)

	t.mu.Lock()
	t.status.Running = true
	t.status.StartedAt = start
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.status.Running = false
		t.mu.Unlock()
	}()

	t.writeLogHeader()

	scfg := solver.Config{
		Lambda:      t.cfg.Lambda,
		LineSearch:  t.cfg.LineSearch,
		UseCache:    t.cfg.UseCache,
		CacheSize:   t.cfg.CacheSize,
		Averaging:   t.cfg.Averaging,
		SparseState: t.cfg.SparseState,
		StartLevel:  t.cfg.StartLevel,
	}

	lastGap := math.Inf(1)
	nextDebug := 1
	round := 1

	for t.shouldContinue(round, start, lastGap) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		shards := t.sampleShards(rng, st)

		results := make([]solver.Result[Y], parts)
		g, gctx := errgroup.WithContext(ctx)
		for p := 0; p < parts; p++ {
			g.Go(func() error {
				r, err := solver.Run(gctx, t.prob, shards[p], m, avg, stepCounters[p], n, scfg)
				if err != nil {
					return fmt.Errorf("partition %d: %w", p, err)
				}
				results[p] = r

				return nil
			})
		}
		// The reduction is a blocking barrier: no aggregation until every
		// partition has produced its output.
		if err := g.Wait(); err != nil {
			return Result{}, err
		}

		next, nextAvg, diag, steps := t.agg.Fold(m, avg, results, parts)
		t.agg.Merge(st, results, parts)
		m, avg = next, nextAvg
		for p := range stepCounters {
			stepCounters[p] += steps[p]
		}

		t.mu.Lock()
		t.status.Round = round
		t.status.Elapsed = time.Since(start).Seconds()
		t.current = m.Clone()
		t.currentAvg = avg.Clone()
		t.mu.Unlock()

		if t.cfg.DebugMultiplier == 1 || round == nextDebug {
			if round == nextDebug {
				if nextDebug < debugThreshold {
					nextDebug *= t.cfg.DebugMultiplier
				} else {
					nextDebug += debugThreshold
				}
			}

			withGap := t.cfg.Stopping.GapCheck > 0 && round%t.cfg.Stopping.GapCheck == 0
			ev, err := t.eval.Evaluate(ctx, t.reported(m, avg), t.train, t.test, withGap)
			if err != nil {
				return Result{}, err
			}
			ev.Round = round
			ev.Elapsed = time.Since(start).Seconds()
			ev.WallTime = time.Now()
			ev.WeightNorm = m.WeightNorm()
			ev.StepNorm = diag.StepNorm
			ev.Cosine = diag.Cosine
			if withGap {
				lastGap = ev.Gap
			}

			t.record(ctx, ev)
		}

		if t.cfg.CheckpointFreq > 0 && round%t.cfg.CheckpointFreq == 0 {
			if err := t.checkpoint(ctx, round, m, avg, st); err != nil {
				t.opts.logger.Warn("checkpoint failed", "round", round, "error", err)
			}
		}

		round++
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	res := Result{
		Model:       m,
		Rounds:      round - 1,
		Evaluations: append([]evaluator.RoundEvaluation(nil), t.evaluations...),
	}
	if t.cfg.Averaging {
		res.AveragedModel = avg
	}

	return res, nil
}

// reported picks the model variant used for evaluation and inference: the
// weighted average when averaging is on, the raw iterate otherwise.
func (t *trainer[X, Y]) reported(m, avg model.Model) model.Model {
	if t.cfg.Averaging {
		return avg
	}

	return m
}

func (t *trainer[X, Y]) shouldContinue(round int, start time.Time, lastGap float64) bool {
	switch t.cfg.Stopping.Criterion {
	case StopRounds:
		return round <= t.cfg.Stopping.Rounds
	case StopTime:
		return time.Since(start) < t.cfg.Stopping.TimeLimit
	case StopGap:
		// Between gap checks lastGap holds the most recent estimate, so
		// continuation is assumed until the next full oracle pass.
		return lastGap > t.cfg.Stopping.GapThreshold
	default:
		return false
	}
}

func (t *trainer[X, Y]) sampleShards(rng *rand.Rand, st *state.Store[Y]) []solver.Shard[X, Y] {
	parts := t.train.NumPartitions()
	shards := make([]solver.Shard[X, Y], parts)
	for p := 0; p < parts; p++ {
		idxs := t.smpl(rng, t.train.Partition(p))
		sh := solver.Shard[X, Y]{
			Partition:     p,
			NumPartitions: parts,
			Examples:      make([]dataset.Example[X, Y], len(idxs)),
			Primals:       make([]state.Primal, len(idxs)),
		}
		if st.Caching() {
			sh.Caches = make([][]Y, len(idxs))
		}
		for j, i := range idxs {
			sh.Examples[j] = t.train.Example(i)
			sh.Primals[j] = st.Primal(i)
			if st.Caching() {
				sh.Caches[j] = st.Cache(i)
			}
		}
		shards[p] = sh
	}

	return shards
}

func (t *trainer[X, Y]) record(ctx context.Context, ev evaluator.RoundEvaluation) {
	t.mu.Lock()
	t.evaluations = append(t.evaluations, ev)
	t.status.LastEvaluation = &ev
	t.mu.Unlock()

	t.writeLogRow(ev)

	if t.opts.publisher != nil {
		if err := t.opts.publisher.Publish(ctx, t.opts.publishTopic, ev); err != nil {
			t.opts.logger.Warn("failed to publish round evaluation", "round", ev.Round, "error", err)
		}
	}
}

func (t *trainer[X, Y]) Status(_ context.Context) (Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.status, nil
}

func (t *trainer[X, Y]) Evaluations(_ context.Context) ([]evaluator.RoundEvaluation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]evaluator.RoundEvaluation(nil), t.evaluations...), nil
}

func (t *trainer[X, Y]) Model(_ context.Context) (model.Model, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.reported(t.current, t.currentAvg).Clone(), nil
}
