package evaluator

import (
	"encoding/json"
	"math"
	"time"
)

// RoundEvaluation is the append-only log entry written once per evaluated
// round and read only by reporting. Metrics that were not computed for the
// round (the gap family without a gap check, test metrics without a test
// set, the cosine for a zero step) hold NaN; JSON has no NaN, so they
// serialize as null.
type RoundEvaluation struct {
	Round      int       `json:"round"`
	Elapsed    float64   `json:"elapsed_s"`
	WallTime   time.Time `json:"wall_time"`
	Primal     float64   `json:"primal"`
	Dual       float64   `json:"dual"`
	Gap        float64   `json:"gap"`
	TrainError float64   `json:"train_error"`
	TestError  float64   `json:"test_error"`
	TrainLoss  float64   `json:"train_loss"`
	TestLoss   float64   `json:"test_loss"`
	WeightNorm float64   `json:"weight_norm"`
	StepNorm   float64   `json:"step_norm"`
	Cosine     float64   `json:"cosine"`
}

type roundEvaluationJSON struct {
	Round      int       `json:"round"`
	Elapsed    float64   `json:"elapsed_s"`
	WallTime   time.Time `json:"wall_time"`
	Primal     *float64  `json:"primal"`
	Dual       float64   `json:"dual"`
	Gap        *float64  `json:"gap"`
	TrainError float64   `json:"train_error"`
	TestError  *float64  `json:"test_error"`
	TrainLoss  float64   `json:"train_loss"`
	TestLoss   *float64  `json:"test_loss"`
	WeightNorm float64   `json:"weight_norm"`
	StepNorm   float64   `json:"step_norm"`
	Cosine     *float64  `json:"cosine"`
}

func (e RoundEvaluation) MarshalJSON() ([]byte, error) {
	return json.Marshal(roundEvaluationJSON{
		Round:      e.Round,
		Elapsed:    e.Elapsed,
		WallTime:   e.WallTime,
		Primal:     finite(e.Primal),
		Dual:       e.Dual,
		Gap:        finite(e.Gap),
		TrainError: e.TrainError,
		TestError:  finite(e.TestError),
		TrainLoss:  e.TrainLoss,
		TestLoss:   finite(e.TestLoss),
		WeightNorm: e.WeightNorm,
		StepNorm:   e.StepNorm,
		Cosine:     finite(e.Cosine),
	})
}

func (e *RoundEvaluation) UnmarshalJSON(data []byte) error {
	var raw roundEvaluationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = RoundEvaluation{
		Round:      raw.Round,
		Elapsed:    raw.Elapsed,
		WallTime:   raw.WallTime,
		Primal:     orNaN(raw.Primal),
		Dual:       raw.Dual,
		Gap:        orNaN(raw.Gap),
		TrainError: raw.TrainError,
		TestError:  orNaN(raw.TestError),
		TrainLoss:  raw.TrainLoss,
		TestLoss:   orNaN(raw.TestLoss),
		WeightNorm: raw.WeightNorm,
		StepNorm:   raw.StepNorm,
		Cosine:     orNaN(raw.Cosine),
	}

	return nil
}

func finite(f float64) *float64 {
	if math.IsNaN(f) {
		return nil
	}

	return &f
}

func orNaN(f *float64) float64 {
	if f == nil {
		return math.NaN()
	}

	return *f
}
