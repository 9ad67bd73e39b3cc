// Package dataset provides the immutable, partitioned example store the
// trainer iterates over. Partition assignment is by hash of the example
// index so that an example and its mutable per-example state stay co-located
// across rounds.
package dataset

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/structlearn/structlearn/pkg/errors"
)

// Example is an immutable (pattern, label) pair with a stable index for its
// lifetime.
type Example[X, Y any] struct {
	Index   int
	Pattern X
	Label   Y
}

// Store is the partitioned collection of examples. It is never mutated after
// construction.
type Store[X, Y any] struct {
	examples   []Example[X, Y]
	partitions [][]int
}

// New indexes the given pairs and distributes them over numPartitions
// partitions.
func New[X, Y any](patterns []X, labels []Y, numPartitions int) (*Store[X, Y], error) {
	if len(patterns) == 0 || len(patterns) != len(labels) {
		return nil, errors.ErrEmptyDataset
	}
	if numPartitions < 1 {
		numPartitions = 1
	}
	if numPartitions > len(patterns) {
		numPartitions = len(patterns)
	}

	s := &Store[X, Y]{
		examples:   make([]Example[X, Y], len(patterns)),
		partitions: make([][]int, numPartitions),
	}
	for i := range patterns {
		s.examples[i] = Example[X, Y]{Index: i, Pattern: patterns[i], Label: labels[i]}
		p := partitionOf(i, numPartitions)
		s.partitions[p] = append(s.partitions[p], i)
	}

	return s, nil
}

func partitionOf(index, numPartitions int) int {
	h := fnv.New32a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(index))
	_, _ = h.Write(buf[:])

	return int(h.Sum32() % uint32(numPartitions))
}

// Len returns the total number of examples.
func (s *Store[X, Y]) Len() int { return len(s.examples) }

// NumPartitions returns the partition count.
func (s *Store[X, Y]) NumPartitions() int { return len(s.partitions) }

// Example returns the example at index i.
func (s *Store[X, Y]) Example(i int) Example[X, Y] { return s.examples[i] }

// Partition returns the example indices assigned to partition p.
func (s *Store[X, Y]) Partition(p int) []int { return s.partitions[p] }

// Examples returns all examples in index order.
func (s *Store[X, Y]) Examples() []Example[X, Y] { return s.examples }
