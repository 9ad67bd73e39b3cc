package model

import "gonum.org/v1/gonum/floats"

// Vector is the storage for a per-example weight contribution. Contributions
// of examples that were never sampled stay all-zero for the whole run, so a
// sparse representation can cut memory considerably on large datasets.
type Vector interface {
	Len() int
	// Dot returns the inner product with a dense vector of the same length.
	Dot(w []float64) float64
	// AddTo accumulates a*v into the dense vector w.
	AddTo(w []float64, a float64)
	// Dense materializes the vector. The returned slice is a copy.
	Dense() []float64
}

type denseVector []float64

func (v denseVector) Len() int { return len(v) }

func (v denseVector) Dot(w []float64) float64 {
	return floats.Dot(v, w)
}

func (v denseVector) AddTo(w []float64, a float64) {
	floats.AddScaled(w, a, v)
}

func (v denseVector) Dense() []float64 {
	out := make([]float64, len(v))
	copy(out, v)

	return out
}

type sparseVector struct {
	dim int
	idx []int
	val []float64
}

func (v *sparseVector) Len() int { return v.dim }

func (v *sparseVector) Dot(w []float64) float64 {
	var sum float64
	for i, ix := range v.idx {
		sum += v.val[i] * w[ix]
	}

	return sum
}

func (v *sparseVector) AddTo(w []float64, a float64) {
	for i, ix := range v.idx {
		w[ix] += a * v.val[i]
	}
}

func (v *sparseVector) Dense() []float64 {
	out := make([]float64, v.dim)
	for i, ix := range v.idx {
		out[ix] = v.val[i]
	}

	return out
}

// NewVector wraps w in the configured storage format. Sparse storage keeps
// only the non-zero entries; the all-zero case keeps no entries at all.
func NewVector(w []float64, sparse bool) Vector {
	if !sparse {
		out := make(denseVector, len(w))
		copy(out, w)

		return out
	}

	sv := &sparseVector{dim: len(w)}
	for i, x := range w {
		if x != 0 {
			sv.idx = append(sv.idx, i)
			sv.val = append(sv.val, x)
		}
	}

	return sv
}

// ZeroVector returns the zero vector of dimension d in the configured format.
func ZeroVector(d int, sparse bool) Vector {
	if sparse {
		return &sparseVector{dim: d}
	}

	return make(denseVector, d)
}
