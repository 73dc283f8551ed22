package coverage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/waycover/waycover/internal/coverage"
)

func TestMerge(t *testing.T) {
	t.Run("merges overlapping intervals", func(t *testing.T) {
		merged := coverage.Merge([]coverage.Interval{
			{Start: 0, End: 2},
			{Start: 1, End: 3},
		})
		assert.Equal(t, []coverage.Interval{{Start: 0, End: 3}}, merged)
	})

	t.Run("merges touching intervals", func(t *testing.T) {
		merged := coverage.Merge([]coverage.Interval{
			{Start: 0, End: 1},
			{Start: 1, End: 2},
		})
		assert.Equal(t, []coverage.Interval{{Start: 0, End: 2}}, merged)
	})

	t.Run("keeps disjoint intervals apart", func(t *testing.T) {
		merged := coverage.Merge([]coverage.Interval{
			{Start: 3, End: 4},
			{Start: 0, End: 1},
		})
		assert.Equal(t, []coverage.Interval{{Start: 0, End: 1}, {Start: 3, End: 4}}, merged)
	})

	t.Run("absorbs contained intervals", func(t *testing.T) {
		merged := coverage.Merge([]coverage.Interval{
			{Start: 0, End: 5},
			{Start: 1, End: 2},
		})
		assert.Equal(t, []coverage.Interval{{Start: 0, End: 5}}, merged)
	})

	t.Run("drops empty and inverted intervals", func(t *testing.T) {
		merged := coverage.Merge([]coverage.Interval{
			{Start: 1, End: 1},
			{Start: 3, End: 2},
		})
		assert.Nil(t, merged)
	})

	t.Run("does not modify the input", func(t *testing.T) {
		input := []coverage.Interval{{Start: 5, End: 6}, {Start: 0, End: 1}}
		coverage.Merge(input)
		assert.Equal(t, []coverage.Interval{{Start: 5, End: 6}, {Start: 0, End: 1}}, input)
	})
}

func TestClip(t *testing.T) {
	t.Run("restricts intervals to the path length", func(t *testing.T) {
		clipped := coverage.Clip([]coverage.Interval{
			{Start: -1, End: 2},
			{Start: 8, End: 12},
		}, 10)
		assert.Equal(t, []coverage.Interval{{Start: 0, End: 2}, {Start: 8, End: 10}}, clipped)
	})

	t.Run("drops intervals entirely outside", func(t *testing.T) {
		clipped := coverage.Clip([]coverage.Interval{{Start: 11, End: 12}}, 10)
		assert.Empty(t, clipped)
	})

	t.Run("returns nothing for a zero length path", func(t *testing.T) {
		assert.Nil(t, coverage.Clip([]coverage.Interval{{Start: 0, End: 1}}, 0))
	})
}

func TestTotalLength(t *testing.T) {
	t.Run("sums disjoint intervals", func(t *testing.T) {
		total := coverage.TotalLength([]coverage.Interval{
			{Start: 0, End: 1},
			{Start: 2, End: 4},
		})
		assert.InDelta(t, 3.0, total, 1e-9)
	})

	t.Run("counts overlapping stretches once", func(t *testing.T) {
		total := coverage.TotalLength([]coverage.Interval{
			{Start: 0, End: 3},
			{Start: 1, End: 2},
			{Start: 2.5, End: 4},
		})
		assert.InDelta(t, 4.0, total, 1e-9)
	})

	t.Run("is zero for no intervals", func(t *testing.T) {
		assert.Zero(t, coverage.TotalLength(nil))
	})
}
