package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/structlearn/structlearn/model"
)

func TestNewStoreZeroInitialized(t *testing.T) {
	st := NewStore[int](5, 3, false, false)

	assert.Equal(t, 5, st.Len())
	for i := 0; i < st.Len(); i++ {
		p := st.Primal(i)
		assert.Equal(t, []float64{0, 0, 0}, p.W.Dense())
		assert.Equal(t, 0.0, p.Ell)
	}
}

func TestCacheAbsentWhenDisabled(t *testing.T) {
	st := NewStore[int](3, 2, false, false)
	assert.False(t, st.Caching())
	assert.Nil(t, st.Cache(0))

	// SetCache must be a no-op, not a panic.
	st.SetCache(0, []int{1})
	assert.Nil(t, st.Cache(0))
}

func TestSetPrimal(t *testing.T) {
	st := NewStore[int](2, 2, true, false)
	st.SetPrimal(1, Primal{W: model.NewVector([]float64{1, -1}, true), Ell: 0.25})

	assert.Equal(t, []float64{1, -1}, st.Primal(1).W.Dense())
	assert.Equal(t, 0.25, st.Primal(1).Ell)
	assert.Equal(t, []float64{0, 0}, st.Primal(0).W.Dense())
}

func TestAppendBounded(t *testing.T) {
	tests := []struct {
		name     string
		initial  []int
		add      []int
		capacity int
		want     []int
	}{
		{
			name:     "fills to capacity",
			add:      []int{1, 2, 3},
			capacity: 3,
			want:     []int{1, 2, 3},
		},
		{
			name:     "evicts oldest first",
			initial:  []int{1, 2, 3},
			add:      []int{4, 5},
			capacity: 3,
			want:     []int{3, 4, 5},
		},
		{
			name:     "zero capacity keeps everything",
			add:      []int{1, 2, 3, 4},
			capacity: 0,
			want:     []int{1, 2, 3, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := tt.initial
			for _, y := range tt.add {
				cache = AppendBounded(cache, y, tt.capacity)
				if tt.capacity > 0 {
					assert.LessOrEqual(t, len(cache), tt.capacity)
				}
			}
			assert.Equal(t, tt.want, cache)
		})
	}
}
