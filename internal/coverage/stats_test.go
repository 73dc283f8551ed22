package coverage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/waycover/waycover/internal/coverage"
	"github.com/waycover/waycover/internal/domain"
)

func stringPtr(s string) *string {
	return &s
}

func buildTestPaths() []domain.Path {
	return []domain.Path{
		{
			ID:       "p1",
			PathType: domain.PathTypeFootpath,
			Area:     stringPtr("Richmondshire"),
			LengthKM: 10,
			IsRidden: true, CoverageFraction: 0.4, RiddenKM: 4,
		},
		{
			ID:       "p2",
			PathType: domain.PathTypeFootpath,
			Area:     stringPtr("Richmondshire"),
			LengthKM: 5,
		},
		{
			ID:       "p3",
			PathType: domain.PathTypeBridleway,
			Area:     stringPtr("Hambleton"),
			LengthKM: 8,
			IsRidden: true, CoverageFraction: 1.0, RiddenKM: 8,
		},
		{
			ID:       "p4",
			LengthKM: 2,
		},
	}
}

func TestSummarize(t *testing.T) {
	stats := coverage.Summarize(buildTestPaths())

	t.Run("totals cover every path", func(t *testing.T) {
		assert.Equal(t, 4, stats.TotalPaths)
		assert.InDelta(t, 25.0, stats.TotalLengthKM, 1e-9)
		assert.Equal(t, 2, stats.RiddenPaths)
		assert.InDelta(t, 12.0, stats.RiddenKM, 1e-9)
		assert.Equal(t, 2, stats.UnriddenPaths)
		// Includes the unridden 6 km of the partially covered p1
		assert.InDelta(t, 13.0, stats.UnriddenKM, 1e-9)
	})

	t.Run("groups by path type", func(t *testing.T) {
		footpaths := stats.ByType[domain.PathTypeFootpath]
		assert.Equal(t, 2, footpaths.Count)
		assert.InDelta(t, 15.0, footpaths.LengthKM, 1e-9)
		assert.Equal(t, 1, footpaths.RiddenCount)
		assert.InDelta(t, 4.0, footpaths.RiddenKM, 1e-9)
		assert.Equal(t, 1, footpaths.UnriddenCount)
		assert.InDelta(t, 11.0, footpaths.UnriddenKM, 1e-9)

		bridleways := stats.ByType[domain.PathTypeBridleway]
		assert.Equal(t, 1, bridleways.Count)
		assert.InDelta(t, 8.0, bridleways.RiddenKM, 1e-9)
		assert.Zero(t, bridleways.UnriddenCount)
		assert.InDelta(t, 0.0, bridleways.UnriddenKM, 1e-9)
	})

	t.Run("groups by area", func(t *testing.T) {
		richmondshire := stats.ByArea["Richmondshire"]
		assert.Equal(t, 2, richmondshire.Count)
		assert.InDelta(t, 15.0, richmondshire.LengthKM, 1e-9)

		hambleton := stats.ByArea["Hambleton"]
		assert.Equal(t, 1, hambleton.RiddenCount)
	})

	t.Run("paths without type or area group under unknown", func(t *testing.T) {
		unknownType := stats.ByType[domain.UNKNOWN_GROUP_KEY]
		assert.Equal(t, 1, unknownType.Count)
		assert.InDelta(t, 2.0, unknownType.LengthKM, 1e-9)
		assert.Equal(t, 1, unknownType.UnriddenCount)
		assert.InDelta(t, 2.0, unknownType.UnriddenKM, 1e-9)

		unknownArea := stats.ByArea[domain.UNKNOWN_GROUP_KEY]
		assert.Equal(t, 1, unknownArea.Count)
	})

	t.Run("an empty network summarizes to zeros", func(t *testing.T) {
		empty := coverage.Summarize(nil)
		assert.Zero(t, empty.TotalPaths)
		assert.Empty(t, empty.ByType)
		assert.Empty(t, empty.ByArea)
	})
}
