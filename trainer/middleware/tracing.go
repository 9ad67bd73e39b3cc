package middleware

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/structlearn/structlearn/evaluator"
	"github.com/structlearn/structlearn/model"
	"github.com/structlearn/structlearn/trainer"
)

type tracing[X, Y any] struct {
	tracer trace.Tracer
	svc    trainer.Service[X, Y]
}

func Tracing[X, Y any](tracer trace.Tracer, svc trainer.Service[X, Y]) trainer.Service[X, Y] {
	return &tracing[X, Y]{tracer, svc}
}

func (tm *tracing[X, Y]) Run(ctx context.Context) (trainer.Result, error) {
	ctx, span := tm.tracer.Start(ctx, "run")
	defer span.End()

	return tm.svc.Run(ctx)
}

func (tm *tracing[X, Y]) Status(ctx context.Context) (trainer.Status, error) {
	ctx, span := tm.tracer.Start(ctx, "status")
	defer span.End()

	return tm.svc.Status(ctx)
}

func (tm *tracing[X, Y]) Evaluations(ctx context.Context) ([]evaluator.RoundEvaluation, error) {
	ctx, span := tm.tracer.Start(ctx, "evaluations")
	defer span.End()

	return tm.svc.Evaluations(ctx)
}

func (tm *tracing[X, Y]) Model(ctx context.Context) (model.Model, error) {
	ctx, span := tm.tracer.Start(ctx, "model")
	defer span.End()

	return tm.svc.Model(ctx)
}
