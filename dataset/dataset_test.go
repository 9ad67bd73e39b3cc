package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structlearn/structlearn/pkg/errors"
)

func newToyStore(t *testing.T, n, parts int) *Store[int, int] {
	t.Helper()

	patterns := make([]int, n)
	labels := make([]int, n)
	for i := range patterns {
		patterns[i] = i
		labels[i] = i % 2
	}
	s, err := New(patterns, labels, parts)
	require.NoError(t, err)

	return s
}

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		n             int
		partitions    int
		wantParts     int
		expectedError error
	}{
		{
			name:       "regular partitioning",
			n:          10,
			partitions: 3,
			wantParts:  3,
		},
		{
			name:       "more partitions than examples",
			n:          2,
			partitions: 5,
			wantParts:  2,
		},
		{
			name:       "zero partitions clamps to one",
			n:          4,
			partitions: 0,
			wantParts:  1,
		},
		{
			name:          "empty dataset",
			n:             0,
			partitions:    1,
			expectedError: errors.ErrEmptyDataset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patterns := make([]int, tt.n)
			labels := make([]int, tt.n)
			s, err := New(patterns, labels, tt.partitions)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.n, s.Len())
			assert.Equal(t, tt.wantParts, s.NumPartitions())
		})
	}
}

func TestPartitionsCoverAllIndices(t *testing.T) {
	s := newToyStore(t, 100, 7)

	seen := make(map[int]bool)
	for p := 0; p < s.NumPartitions(); p++ {
		for _, i := range s.Partition(p) {
			assert.False(t, seen[i], "index %d assigned twice", i)
			seen[i] = true
		}
	}
	assert.Len(t, seen, 100)
}

func TestPartitionAssignmentIsStable(t *testing.T) {
	a := newToyStore(t, 50, 4)
	b := newToyStore(t, 50, 4)

	for p := 0; p < 4; p++ {
		assert.Equal(t, a.Partition(p), b.Partition(p))
	}
}

func TestExampleIndexing(t *testing.T) {
	s := newToyStore(t, 10, 3)
	for i := 0; i < 10; i++ {
		ex := s.Example(i)
		assert.Equal(t, i, ex.Index)
		assert.Equal(t, i, ex.Pattern)
	}
}
