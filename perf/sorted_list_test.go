package perf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedList(t *testing.T) {
	t.Run("Insert", func(t *testing.T) {
		f := &sortedList{}
		f.Insert(1.0, 2.0, 3.0)

		assert.Equal(t, f, &sortedList{1.0, 2.0, 3.0})

		f.Insert(2.0)
		assert.Equal(t, f, &sortedList{1.0, 2.0, 2.0, 3.0})

		f.Insert(0.0)
		assert.Equal(t, f, &sortedList{0.0, 1.0, 2.0, 2.0, 3.0})

		f.Insert(4.0)
		assert.Equal(t, f, &sortedList{0.0, 1.0, 2.0, 2.0, 3.0, 4.0})

		f.Insert(1.5, -1.0)
		assert.Equal(t, f, &sortedList{-1.0, 0.0, 1.0, 1.5, 2.0, 2.0, 3.0, 4.0})
	})
	t.Run("Remove", func(t *testing.T) {
		f := &sortedList{0.0, 1.0, 2.0, 2.0, 3.0, 4.0}
		f.Remove(0.0)

		assert.Equal(t, f, &sortedList{1.0, 2.0, 2.0, 3.0, 4.0})

		f.Remove(2.0)
		assert.Equal(t, f, &sortedList{1.0, 2.0, 3.0, 4.0})

		f.Remove(0.0)
		assert.Equal(t, f, &sortedList{1.0, 2.0, 3.0, 4.0})

		f.Remove(2.5)
		assert.Equal(t, f, &sortedList{1.0, 2.0, 3.0, 4.0})

		f.Remove(4.0)
		assert.Equal(t, f, &sortedList{1.0, 2.0, 3.0})

		f.Remove(9.0)
		assert.Equal(t, f, &sortedList{1.0, 2.0, 3.0})
	})
	t.Run("Median", func(t *testing.T) {
		assert.Equal(t, 2.0, sortedList{1.0, 2.0, 9.0}.Median())
		assert.Equal(t, 1.5, sortedList{1.0, 2.0}.Median())
		assert.Equal(t, 7.0, sortedList{7.0}.Median())
	})
	t.Run("PairwiseSum", func(t *testing.T) {
		assert.Equal(t, 0.0, sortedList{}.PairwiseSum())
		assert.Equal(t, 0.0, sortedList{5.0}.PairwiseSum())
		// |1-2| + |1-4| + |2-4|
		assert.Equal(t, 6.0, sortedList{1.0, 2.0, 4.0}.PairwiseSum())
		assert.Equal(t, 0.0, sortedList{3.0, 3.0, 3.0}.PairwiseSum())
	})
	t.Run("CrossSum", func(t *testing.T) {
		// |1-2| + |1-5| + |3-2| + |3-5|
		assert.Equal(t, 8.0, crossSum(sortedList{1.0, 3.0}, sortedList{2.0, 5.0}))
		assert.Equal(t, 8.0, crossSum(sortedList{2.0, 5.0}, sortedList{1.0, 3.0}))
		assert.Equal(t, 0.0, crossSum(sortedList{}, sortedList{2.0}))
		assert.Equal(t, 0.0, crossSum(sortedList{2.0, 2.0}, sortedList{2.0}))
	})
}
