package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structlearn/structlearn/evaluator"
	"github.com/structlearn/structlearn/model"
	"github.com/structlearn/structlearn/trainer"
)

type stubService struct {
	status      trainer.Status
	evaluations []evaluator.RoundEvaluation
	model       model.Model
	err         error
}

func (s stubService) Run(context.Context) (trainer.Result, error) {
	return trainer.Result{}, fmt.Errorf("not runnable over HTTP")
}

func (s stubService) Status(context.Context) (trainer.Status, error) {
	return s.status, s.err
}

func (s stubService) Evaluations(context.Context) ([]evaluator.RoundEvaluation, error) {
	return s.evaluations, s.err
}

func (s stubService) Model(context.Context) (model.Model, error) {
	return s.model, s.err
}

func newTestServer(svc trainer.Service[[]float64, int]) *httptest.Server {
	return httptest.NewServer(MakeHandler[[]float64, int](svc, "test-instance"))
}

func TestStatusEndpoint(t *testing.T) {
	svc := stubService{
		status: trainer.Status{
			RunID:       "run-1",
			RunName:     "brave-otter",
			Running:     true,
			Round:       7,
			DatasetSize: 100,
			Partitions:  4,
		},
	}
	ts := newTestServer(svc)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	var got trainer.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, "brave-otter", got.RunName)
	assert.True(t, got.Running)
	assert.Equal(t, 7, got.Round)
}

func TestEvaluationsEndpoint(t *testing.T) {
	svc := stubService{
		evaluations: []evaluator.RoundEvaluation{
			{Round: 1, Dual: -0.5, TrainError: 0.25},
			{Round: 2, Dual: -0.25, TrainError: 0},
		},
	}
	ts := newTestServer(svc)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/evaluations")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Evaluations []evaluator.RoundEvaluation `json:"evaluations"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Len(t, got.Evaluations, 2)
	assert.Equal(t, 2, got.Evaluations[1].Round)
}

func TestModelEndpoint(t *testing.T) {
	svc := stubService{
		model: model.Model{Weights: []float64{0.5, -1.5}, Ell: 0.25},
	}
	ts := newTestServer(svc)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/model")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got model.Model
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, []float64{0.5, -1.5}, got.Weights)
	assert.Equal(t, 0.25, got.Ell)
}

func TestServiceErrorMapsToInternal(t *testing.T) {
	svc := stubService{err: fmt.Errorf("backend broke")}
	ts := newTestServer(svc)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(stubService{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "pass", got["status"])
	assert.Equal(t, "test-instance", got["instance_id"])
}
