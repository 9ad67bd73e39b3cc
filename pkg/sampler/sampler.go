// Package sampler selects the per-partition subset of examples visited in
// one round.
package sampler

import (
	"log/slog"
	"math"
	"math/rand"
)

const (
	// ModeFraction samples each partition at a configured fraction.
	ModeFraction = "fraction"
	// ModeCount derives the fraction from a target absolute sample count
	// divided by the dataset size, clipped to 1.
	ModeCount = "count"

	// DefFraction is the fallback when the configured mode is not
	// recognized.
	DefFraction = 0.5
)

// Sampler picks example indices from one partition for one round.
type Sampler interface {
	Sample(rng *rand.Rand, partition []int) []int
	Fraction() float64
}

type sampler struct {
	fraction        float64
	withReplacement bool
}

// New builds a sampler for the given mode. An unrecognized mode is not
// fatal: it falls back to sampling half of each partition, with a warning.
func New(mode string, fraction float64, count, datasetSize int, withReplacement bool, logger *slog.Logger) Sampler {
	var frac float64
	switch mode {
	case ModeFraction:
		frac = fraction
	case ModeCount:
		if datasetSize > 0 {
			frac = float64(count) / float64(datasetSize)
		}
	default:
		logger.Warn("unknown sampling mode, falling back to default fraction",
			slog.String("mode", mode),
			slog.Float64("fraction", DefFraction),
		)
		frac = DefFraction
	}
	frac = math.Min(math.Max(frac, 0), 1)

	return &sampler{fraction: frac, withReplacement: withReplacement}
}

func (s *sampler) Fraction() float64 { return s.fraction }

func (s *sampler) Sample(rng *rand.Rand, partition []int) []int {
	k := int(math.Round(s.fraction * float64(len(partition))))
	if k <= 0 {
		return nil
	}

	if s.withReplacement {
		out := make([]int, k)
		for i := range out {
			out[i] = partition[rng.Intn(len(partition))]
		}

		return out
	}

	perm := rng.Perm(len(partition))
	out := make([]int, k)
	for i := range out {
		out[i] = partition[perm[i]]
	}

	return out
}
