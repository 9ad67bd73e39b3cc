package middleware

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics"

	"github.com/structlearn/structlearn/evaluator"
	"github.com/structlearn/structlearn/model"
	"github.com/structlearn/structlearn/trainer"
)

type metricsMiddleware[X, Y any] struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     trainer.Service[X, Y]
}

func Metrics[X, Y any](counter metrics.Counter, latency metrics.Histogram, svc trainer.Service[X, Y]) trainer.Service[X, Y] {
	return &metricsMiddleware[X, Y]{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware[X, Y]) Run(ctx context.Context) (trainer.Result, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "run").Add(1)
		mm.latency.With("method", "run").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Run(ctx)
}

func (mm *metricsMiddleware[X, Y]) Status(ctx context.Context) (trainer.Status, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "status").Add(1)
		mm.latency.With("method", "status").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Status(ctx)
}

func (mm *metricsMiddleware[X, Y]) Evaluations(ctx context.Context) ([]evaluator.RoundEvaluation, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "evaluations").Add(1)
		mm.latency.With("method", "evaluations").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Evaluations(ctx)
}

func (mm *metricsMiddleware[X, Y]) Model(ctx context.Context) (model.Model, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "model").Add(1)
		mm.latency.With("method", "model").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Model(ctx)
}
