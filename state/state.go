// Package state owns the mutable per-example training state: the primal
// weight and dual scalar contribution of every example, and the bounded
// cache of previously accepted oracle candidates. The store is partitioned
// identically to the example store; during a round each partition's slice of
// it is owned exclusively by that partition's solver invocation.
package state

import "github.com/structlearn/structlearn/model"

// Primal is the (w_i, ell_i) dual-decomposition contribution of one example.
// At every round boundary the contributions sum to the global model.
type Primal struct {
	W   model.Vector
	Ell float64
}

// Store holds per-example state for all n examples. Caches is nil, not
// merely empty, when the oracle cache is disabled.
type Store[Y any] struct {
	primals []Primal
	caches  [][]Y
	sparse  bool
	dim     int
}

// NewStore returns a zero-initialized store for n examples of feature
// dimension d.
func NewStore[Y any](n, d int, sparse, caching bool) *Store[Y] {
	s := &Store[Y]{
		primals: make([]Primal, n),
		sparse:  sparse,
		dim:     d,
	}
	for i := range s.primals {
		s.primals[i] = Primal{W: model.ZeroVector(d, sparse)}
	}
	if caching {
		s.caches = make([][]Y, n)
	}

	return s
}

// Len returns the number of tracked examples.
func (s *Store[Y]) Len() int { return len(s.primals) }

// Dim returns the feature dimension.
func (s *Store[Y]) Dim() int { return s.dim }

// Sparse reports whether primal vectors are stored sparsely.
func (s *Store[Y]) Sparse() bool { return s.sparse }

// Caching reports whether the oracle cache is enabled.
func (s *Store[Y]) Caching() bool { return s.caches != nil }

// Primal returns example i's current contribution.
func (s *Store[Y]) Primal(i int) Primal { return s.primals[i] }

// SetPrimal replaces example i's contribution.
func (s *Store[Y]) SetPrimal(i int, p Primal) { s.primals[i] = p }

// Cache returns example i's cached candidate labels, oldest first. It is nil
// when caching is disabled.
func (s *Store[Y]) Cache(i int) []Y {
	if s.caches == nil {
		return nil
	}

	return s.caches[i]
}

// SetCache replaces example i's cache. No-op when caching is disabled.
func (s *Store[Y]) SetCache(i int, cache []Y) {
	if s.caches == nil {
		return
	}
	s.caches[i] = cache
}

// AppendBounded appends y to the cache and evicts the oldest entries beyond
// capacity.
func AppendBounded[Y any](cache []Y, y Y, capacity int) []Y {
	cache = append(cache, y)
	if capacity > 0 && len(cache) > capacity {
		cache = cache[len(cache)-capacity:]
	}

	return cache
}
