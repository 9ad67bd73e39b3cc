package api

import (
	"net/http"

	"github.com/structlearn/structlearn/evaluator"
	"github.com/structlearn/structlearn/model"
	"github.com/structlearn/structlearn/pkg/api"
	"github.com/structlearn/structlearn/trainer"
)

var (
	_ api.Response = (*statusResponse)(nil)
	_ api.Response = (*evaluationsResponse)(nil)
	_ api.Response = (*modelResponse)(nil)
)

type statusResponse struct {
	trainer.Status
}

func (r statusResponse) Code() int                  { return http.StatusOK }
func (r statusResponse) Headers() map[string]string { return map[string]string{} }
func (r statusResponse) Empty() bool                { return false }

type evaluationsResponse struct {
	Evaluations []evaluator.RoundEvaluation `json:"evaluations"`
}

func (r evaluationsResponse) Code() int                  { return http.StatusOK }
func (r evaluationsResponse) Headers() map[string]string { return map[string]string{} }
func (r evaluationsResponse) Empty() bool                { return false }

type modelResponse struct {
	model.Model
}

func (r modelResponse) Code() int                  { return http.StatusOK }
func (r modelResponse) Headers() map[string]string { return map[string]string{} }
func (r modelResponse) Empty() bool                { return false }
