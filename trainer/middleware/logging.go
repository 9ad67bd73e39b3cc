package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/structlearn/structlearn/evaluator"
	"github.com/structlearn/structlearn/model"
	"github.com/structlearn/structlearn/trainer"
)

type loggingMiddleware[X, Y any] struct {
	logger *slog.Logger
	svc    trainer.Service[X, Y]
}

func Logging[X, Y any](logger *slog.Logger, svc trainer.Service[X, Y]) trainer.Service[X, Y] {
	return &loggingMiddleware[X, Y]{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware[X, Y]) Run(ctx context.Context) (res trainer.Result, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("rounds", res.Rounds),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Training run failed", args...)

			return
		}
		lm.logger.Info("Training run completed successfully", args...)
	}(time.Now())

	return lm.svc.Run(ctx)
}

func (lm *loggingMiddleware[X, Y]) Status(ctx context.Context) (s trainer.Status, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("round", s.Round),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get status failed", args...)

			return
		}
		lm.logger.Info("Get status completed successfully", args...)
	}(time.Now())

	return lm.svc.Status(ctx)
}

func (lm *loggingMiddleware[X, Y]) Evaluations(ctx context.Context) (evs []evaluator.RoundEvaluation, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("count", len(evs)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List evaluations failed", args...)

			return
		}
		lm.logger.Info("List evaluations completed successfully", args...)
	}(time.Now())

	return lm.svc.Evaluations(ctx)
}

func (lm *loggingMiddleware[X, Y]) Model(ctx context.Context) (m model.Model, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get model failed", args...)

			return
		}
		lm.logger.Info("Get model completed successfully", args...)
	}(time.Now())

	return lm.svc.Model(ctx)
}
