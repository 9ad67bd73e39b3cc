package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneIsDeep(t *testing.T) {
	m := Model{Weights: []float64{1, 2}, Ell: 0.5}
	c := m.Clone()
	c.Weights[0] = 99
	assert.Equal(t, 1.0, m.Weights[0])
	assert.Equal(t, m.Ell, c.Ell)
}

func TestDiagnose(t *testing.T) {
	prev := Model{Weights: []float64{3, 0}}
	next := Model{Weights: []float64{3, 4}}

	d := Diagnose(prev, next)
	assert.InDelta(t, 3, d.WeightNorm, 1e-12)
	assert.InDelta(t, 4, d.StepNorm, 1e-12)
	assert.InDelta(t, 9.0/(3*5), d.Cosine, 1e-12)
}

func TestDiagnoseZeroModel(t *testing.T) {
	d := Diagnose(Zero(2), Model{Weights: []float64{1, 1}})
	assert.True(t, math.IsNaN(d.Cosine))
	assert.Equal(t, 0.0, d.WeightNorm)
}
