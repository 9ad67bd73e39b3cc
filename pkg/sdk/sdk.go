// Package sdk is the HTTP client for a trainer's status API, used by the
// CLI to follow and report on running jobs.
package sdk

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/structlearn/structlearn/evaluator"
	"github.com/structlearn/structlearn/model"
	"github.com/structlearn/structlearn/trainer"
)

const CTJSON string = "application/json"

const (
	statusEndpoint      = "/status"
	evaluationsEndpoint = "/evaluations"
	modelEndpoint       = "/model"
)

type SDK interface {
	// Status returns the trainer's current run status.
	//
	// example:
	//  status, _ := sdk.Status()
	//  fmt.Println(status)
	Status() (trainer.Status, error)

	// Evaluations returns the round-evaluation log of the current run.
	//
	// example:
	//  evs, _ := sdk.Evaluations()
	//  fmt.Println(evs)
	Evaluations() ([]evaluator.RoundEvaluation, error)

	// Model returns the trainer's current model.
	//
	// example:
	//  m, _ := sdk.Model()
	//  fmt.Println(m.Ell)
	Model() (model.Model, error)
}

type trainerSDK struct {
	trainerURL string
	client     *http.Client
}

type Config struct {
	TrainerURL      string
	TLSVerification bool
}

func NewSDK(cfg Config) SDK {
	return &trainerSDK{
		trainerURL: cfg.TrainerURL,
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !cfg.TLSVerification,
				},
			},
		},
	}
}

func (sdk *trainerSDK) Status() (trainer.Status, error) {
	body, err := sdk.processRequest(http.MethodGet, sdk.trainerURL+statusEndpoint, nil, http.StatusOK)
	if err != nil {
		return trainer.Status{}, err
	}

	var s trainer.Status
	if err := json.Unmarshal(body, &s); err != nil {
		return trainer.Status{}, err
	}

	return s, nil
}

func (sdk *trainerSDK) Evaluations() ([]evaluator.RoundEvaluation, error) {
	body, err := sdk.processRequest(http.MethodGet, sdk.trainerURL+evaluationsEndpoint, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Evaluations []evaluator.RoundEvaluation `json:"evaluations"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	return resp.Evaluations, nil
}

func (sdk *trainerSDK) Model() (model.Model, error) {
	body, err := sdk.processRequest(http.MethodGet, sdk.trainerURL+modelEndpoint, nil, http.StatusOK)
	if err != nil {
		return model.Model{}, err
	}

	var m model.Model
	if err := json.Unmarshal(body, &m); err != nil {
		return model.Model{}, err
	}

	return m, nil
}

func (sdk *trainerSDK) processRequest(method, reqURL string, data []byte, expectedRespCode int) ([]byte, error) {
	req, err := http.NewRequest(method, reqURL, bytes.NewReader(data))
	if err != nil {
		return []byte{}, err
	}

	req.Header.Add("Content-Type", CTJSON)

	resp, err := sdk.client.Do(req)
	if err != nil {
		return []byte{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return []byte{}, err
	}

	if resp.StatusCode != expectedRespCode {
		return []byte{}, fmt.Errorf("unexpected response code: %d", resp.StatusCode)
	}

	return body, nil
}
