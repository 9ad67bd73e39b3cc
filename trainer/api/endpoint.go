package api

import (
	"context"

	"github.com/go-kit/kit/endpoint"

	"github.com/structlearn/structlearn/trainer"
)

func statusEndpoint[X, Y any](svc trainer.Service[X, Y]) endpoint.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		s, err := svc.Status(ctx)
		if err != nil {
			return statusResponse{}, err
		}

		return statusResponse{Status: s}, nil
	}
}

func evaluationsEndpoint[X, Y any](svc trainer.Service[X, Y]) endpoint.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		evs, err := svc.Evaluations(ctx)
		if err != nil {
			return evaluationsResponse{}, err
		}

		return evaluationsResponse{Evaluations: evs}, nil
	}
}

func modelEndpoint[X, Y any](svc trainer.Service[X, Y]) endpoint.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		m, err := svc.Model(ctx)
		if err != nil {
			return modelResponse{}, err
		}

		return modelResponse{Model: m}, nil
	}
}
