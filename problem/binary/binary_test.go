package binary

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"

	"github.com/structlearn/structlearn/model"
)

func TestFeatures(t *testing.T) {
	p := Problem{}

	cases := []struct {
		desc string
		x    []float64
		y    int
		want []float64
	}{
		{desc: "positive label halves", x: []float64{2, -4}, y: 1, want: []float64{1, -2}},
		{desc: "negative label flips", x: []float64{2, -4}, y: -1, want: []float64{-1, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, p.Features(tc.x, tc.y).Dense())
		})
	}
}

func TestLoss(t *testing.T) {
	p := Problem{}
	assert.Equal(t, 0.0, p.Loss(1, 1))
	assert.Equal(t, 0.0, p.Loss(-1, -1))
	assert.Equal(t, 1.0, p.Loss(1, -1))
	assert.Equal(t, 1.0, p.Loss(-1, 1))
}

func TestOracleMaximizesAugmentedScore(t *testing.T) {
	p := Problem{}

	cases := []struct {
		desc  string
		w     []float64
		x     []float64
		truth int
		want  int
	}{
		{desc: "zero model picks the wrong label", w: []float64{0, 0}, x: []float64{1, 0}, truth: 1, want: -1},
		{desc: "strong model overrides the loss bonus", w: []float64{10, 0}, x: []float64{1, 0}, truth: 1, want: 1},
		{desc: "weak model loses to the loss bonus", w: []float64{0.5, 0}, x: []float64{1, 0}, truth: 1, want: -1},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			m := model.Model{Weights: tc.w}
			assert.Equal(t, tc.want, p.Oracle(m, tc.x, tc.truth))
		})
	}
}

func TestCandidatesYieldsOracleFirst(t *testing.T) {
	p := Problem{}
	m := model.Model{Weights: []float64{10, 0}}

	var got []int
	for y := range p.Candidates(m, []float64{1, 0}, 1, 0) {
		got = append(got, y)
	}
	assert.Equal(t, []int{1, -1}, got)
}

func TestClassWeight(t *testing.T) {
	cases := []struct {
		desc string
		p    Problem
		y    int
		want float64
	}{
		{desc: "default positive", p: Problem{}, y: 1, want: 1},
		{desc: "default negative", p: Problem{}, y: -1, want: 1},
		{desc: "reweighted positive", p: Problem{PositiveWeight: 3}, y: 1, want: 3},
		{desc: "reweighted negative", p: Problem{NegativeWeight: 0.5}, y: -1, want: 0.5},
		{desc: "other class untouched", p: Problem{PositiveWeight: 3}, y: -1, want: 1},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.p.ClassWeight(tc.y))
		})
	}
}

func TestPredict(t *testing.T) {
	p := Problem{}
	m := model.Model{Weights: []float64{1, 0}}

	assert.Equal(t, 1, p.Predict(m, []float64{2, 0}))
	assert.Equal(t, -1, p.Predict(m, []float64{-2, 0}))
	// Ties break toward the positive class.
	assert.Equal(t, 1, p.Predict(m, []float64{0, 5}))
}

func TestGenerateRespectsMargin(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	patterns, labels := Generate(rng, 200, 5, 1.0)

	assert.Len(t, patterns, 200)
	assert.Len(t, labels, 200)

	// Some hyperplane must separate the data with the requested margin.
	// Recover the direction by averaging label-scaled points and verify
	// every point clears a positive margin along it.
	dir := make([]float64, 5)
	for i, x := range patterns {
		floats.AddScaled(dir, float64(labels[i]), x)
	}
	floats.Scale(1/floats.Norm(dir, 2), dir)

	for i, x := range patterns {
		assert.Greater(t, float64(labels[i])*floats.Dot(dir, x), 0.0, "point %d", i)
	}
}

func TestGenerateDeterministicPerSeed(t *testing.T) {
	p1, l1 := Generate(rand.New(rand.NewSource(3)), 20, 3, 0.5)
	p2, l2 := Generate(rand.New(rand.NewSource(3)), 20, 3, 0.5)

	assert.Equal(t, p1, p2)
	assert.Equal(t, l1, l2)
}
