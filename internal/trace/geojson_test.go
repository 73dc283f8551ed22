package trace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waycover/waycover/internal/trace"
)

const sampleGeoJSONTrace = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"name": "Canal Loop"},
      "geometry": {
        "type": "LineString",
        "coordinates": [[-1.5, 52.0], [-1.5, 52.009], [-1.5, 52.018]]
      }
    }
  ]
}`

func TestDecodeGeoJSON(t *testing.T) {
	t.Run("decodes a feature collection", func(t *testing.T) {
		sub, err := trace.DecodeGeoJSON("loop.geojson", []byte(sampleGeoJSONTrace))
		require.NoError(t, err)

		require.Len(t, sub.Trace.Points, 3)
		require.NotNil(t, sub.Name)
		assert.Equal(t, "Canal Loop", *sub.Name)
		assert.InDelta(t, 52.009, sub.Trace.Points[1].Lat, 1e-9)
		assert.InDelta(t, -1.5, sub.Trace.Points[1].Lon, 1e-9)
		assert.InDelta(t, 2.0, sub.DistanceKM, 0.01)
		assert.Nil(t, sub.ElevationGainM)
		assert.Nil(t, sub.Trace.Points[0].Time)
	})

	t.Run("decodes a single feature", func(t *testing.T) {
		data := `{
  "type": "Feature",
  "properties": {"name": "Spur"},
  "geometry": {"type": "LineString", "coordinates": [[-1.5, 52.0], [-1.5, 52.009]]}
}`

		sub, err := trace.DecodeGeoJSON("spur.geojson", []byte(data))
		require.NoError(t, err)

		require.Len(t, sub.Trace.Points, 2)
		require.NotNil(t, sub.Name)
		assert.Equal(t, "Spur", *sub.Name)
	})

	t.Run("decodes a bare geometry", func(t *testing.T) {
		data := `{"type": "LineString", "coordinates": [[-1.5, 52.0], [-1.5, 52.009]]}`

		sub, err := trace.DecodeGeoJSON("bare.geojson", []byte(data))
		require.NoError(t, err)

		require.Len(t, sub.Trace.Points, 2)
		assert.Nil(t, sub.Name)
	})

	t.Run("concatenates multi line string parts", func(t *testing.T) {
		data := `{
  "type": "Feature",
  "properties": {},
  "geometry": {
    "type": "MultiLineString",
    "coordinates": [
      [[-1.5, 52.0], [-1.5, 52.009]],
      [[-1.49, 52.1], [-1.49, 52.109]]
    ]
  }
}`

		sub, err := trace.DecodeGeoJSON("split.geojson", []byte(data))
		require.NoError(t, err)

		require.Len(t, sub.Trace.Points, 4)
		assert.InDelta(t, 52.1, sub.Trace.Points[2].Lat, 1e-9)
	})

	t.Run("fails without line geometry", func(t *testing.T) {
		data := `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {},
      "geometry": {"type": "Point", "coordinates": [-1.5, 52.0]}
    }
  ]
}`

		_, err := trace.DecodeGeoJSON("points.geojson", []byte(data))
		assert.ErrorContains(t, err, "no line geometry")
	})

	t.Run("fails on invalid JSON", func(t *testing.T) {
		_, err := trace.DecodeGeoJSON("broken.geojson", []byte("{not json"))
		assert.ErrorContains(t, err, "failed to parse GeoJSON trace")
	})
}
