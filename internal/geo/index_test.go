package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/waycover/waycover/internal/geo"
)

func buildTestIndex() *geo.Index {
	idx := geo.NewIndex(0.2)
	// Two roughly parallel east-west lines about 1.1km apart.
	idx.Insert("path-north", geo.Polyline{
		{Lat: 54.510, Lon: -1.200},
		{Lat: 54.510, Lon: -1.190},
		{Lat: 54.510, Lon: -1.180},
	})
	idx.Insert("path-south", geo.Polyline{
		{Lat: 54.500, Lon: -1.200},
		{Lat: 54.500, Lon: -1.190},
	})
	return idx
}

func TestIndexInsert(t *testing.T) {
	idx := buildTestIndex()

	t.Run("counts one entry per segment", func(t *testing.T) {
		assert.Equal(t, 3, idx.Len())
	})

	t.Run("ignores polylines with fewer than two points", func(t *testing.T) {
		before := idx.Len()
		idx.Insert("degenerate", geo.Polyline{{Lat: 54.5, Lon: -1.2}})
		idx.Insert("empty", geo.Polyline{})
		assert.Equal(t, before, idx.Len())
	})
}

func TestIndexNear(t *testing.T) {
	idx := buildTestIndex()

	t.Run("finds segments close to the query point", func(t *testing.T) {
		refs := idx.Near(geo.Point{Lat: 54.5101, Lon: -1.195}, 0.05)
		ids := make(map[string]bool)
		for _, ref := range refs {
			ids[ref.PathID] = true
		}
		assert.True(t, ids["path-north"])
		assert.False(t, ids["path-south"])
	})

	t.Run("finds both lines with a radius spanning them", func(t *testing.T) {
		refs := idx.Near(geo.Point{Lat: 54.505, Lon: -1.195}, 1.5)
		ids := make(map[string]bool)
		for _, ref := range refs {
			ids[ref.PathID] = true
		}
		assert.True(t, ids["path-north"])
		assert.True(t, ids["path-south"])
	})

	t.Run("returns nothing far from the network", func(t *testing.T) {
		refs := idx.Near(geo.Point{Lat: 55.5, Lon: -2.5}, 0.05)
		assert.Empty(t, refs)
	})

	t.Run("never returns the same segment twice", func(t *testing.T) {
		refs := idx.Near(geo.Point{Lat: 54.505, Lon: -1.19}, 2.0)
		seen := make(map[geo.SegmentRef]bool)
		for _, ref := range refs {
			assert.False(t, seen[ref], "segment %v returned twice", ref)
			seen[ref] = true
		}
	})
}
