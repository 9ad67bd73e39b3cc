package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVector(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		sparse bool
	}{
		{
			name:   "dense storage",
			values: []float64{1, 0, -2.5, 0},
			sparse: false,
		},
		{
			name:   "sparse storage",
			values: []float64{1, 0, -2.5, 0},
			sparse: true,
		},
		{
			name:   "sparse all zeros",
			values: []float64{0, 0, 0},
			sparse: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVector(tt.values, tt.sparse)
			assert.Equal(t, len(tt.values), v.Len())
			assert.Equal(t, tt.values, v.Dense())
		})
	}
}

func TestVectorDot(t *testing.T) {
	w := []float64{2, 3, -1}
	for _, sparse := range []bool{false, true} {
		v := NewVector([]float64{1, 0, 4}, sparse)
		assert.InDelta(t, 2*1+(-1)*4, v.Dot(w), 1e-12)
	}
}

func TestVectorAddTo(t *testing.T) {
	for _, sparse := range []bool{false, true} {
		v := NewVector([]float64{1, 0, 4}, sparse)
		dst := []float64{10, 10, 10}
		v.AddTo(dst, 0.5)
		assert.InDeltaSlice(t, []float64{10.5, 10, 12}, dst, 1e-12)
	}
}

func TestNewVectorCopies(t *testing.T) {
	src := []float64{1, 2}
	v := NewVector(src, false)
	src[0] = 99
	require.Equal(t, []float64{1, 2}, v.Dense())
}

func TestZeroVector(t *testing.T) {
	for _, sparse := range []bool{false, true} {
		v := ZeroVector(3, sparse)
		assert.Equal(t, 3, v.Len())
		assert.Equal(t, []float64{0, 0, 0}, v.Dense())
	}
}
