package binary

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// Generate produces a linearly separable dataset of n points in dim
// dimensions with at least the given margin along a fixed direction. It
// backs the demo command and the end-to-end tests.
func Generate(rng *rand.Rand, n, dim int, margin float64) ([][]float64, []int) {
	u := make([]float64, dim)
	for i := range u {
		u[i] = rng.NormFloat64()
	}
	floats.Scale(1/floats.Norm(u, 2), u)

	patterns := make([][]float64, n)
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		x := make([]float64, dim)
		for j := range x {
			x[j] = rng.NormFloat64()
		}

		label := 1
		if floats.Dot(u, x) < 0 {
			label = -1
		}
		// Push the point away from the separating hyperplane until it
		// clears the margin.
		if s := floats.Dot(u, x); float64(label)*s < margin {
			floats.AddScaled(x, float64(label)*margin-s, u)
		}

		patterns[i] = x
		labels[i] = label
	}

	return patterns, labels
}
