// Package api exposes the trainer's status over HTTP: run status, the
// round-evaluation log, and the current model.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/structlearn/structlearn/pkg/api"
	"github.com/structlearn/structlearn/trainer"
)

func MakeHandler[X, Y any](svc trainer.Service[X, Y], instanceID string) http.Handler {
	mux := chi.NewRouter()

	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(api.EncodeError),
	}

	mux.Get("/status", otelhttp.NewHandler(kithttp.NewServer(
		statusEndpoint[X, Y](svc),
		decodeEmptyReq,
		api.EncodeResponse,
		opts...,
	), "status").ServeHTTP)

	mux.Get("/evaluations", otelhttp.NewHandler(kithttp.NewServer(
		evaluationsEndpoint[X, Y](svc),
		decodeEmptyReq,
		api.EncodeResponse,
		opts...,
	), "evaluations").ServeHTTP)

	mux.Get("/model", otelhttp.NewHandler(kithttp.NewServer(
		modelEndpoint[X, Y](svc),
		decodeEmptyReq,
		api.EncodeResponse,
		opts...,
	), "model").ServeHTTP)

	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", api.ContentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"pass","instance_id":"` + instanceID + `"}`))
	})
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func decodeEmptyReq(_ context.Context, _ *http.Request) (any, error) {
	return nil, nil
}
