package matcher_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waycover/waycover/internal/coverage"
	"github.com/waycover/waycover/internal/domain"
	"github.com/waycover/waycover/internal/geo"
	"github.com/waycover/waycover/internal/matcher"
)

// kmPerDegreeEquator is the haversine length of one degree of longitude on
// the equator, used to lay out test geometry with known arc lengths.
const kmPerDegreeEquator = math.Pi * geo.EarthRadiusKM / 180

func lonAtKM(km float64) float64 {
	return km / kmPerDegreeEquator
}

func testConfig() matcher.Config {
	return matcher.Config{
		ToleranceKM:  0.025,
		SampleStepKM: 0.02,
		GapFactor:    4,
		DistanceMode: geo.DistanceModeHaversine,
	}
}

// mainPath is a 10km west-east path on the equator with a vertex at 6km
func mainPath() domain.Path {
	return domain.Path{
		ID: "main",
		Geometry: geo.Polyline{
			{Lat: 0, Lon: 0},
			{Lat: 0, Lon: lonAtKM(6)},
			{Lat: 0, Lon: lonAtKM(10)},
		},
	}
}

// crossPath runs south-north across the main path at its 5km mark
func crossPath() domain.Path {
	return domain.Path{
		ID: "cross",
		Geometry: geo.Polyline{
			{Lat: -0.01, Lon: lonAtKM(5)},
			{Lat: 0.01, Lon: lonAtKM(5)},
		},
	}
}

// eastTrace lays out trace points every stepKM from fromKM to toKM along the
// equator, shifted north by latOffset degrees
func eastTrace(fromKM, toKM, stepKM, latOffset float64) geo.Polyline {
	var line geo.Polyline
	for km := fromKM; km < toKM; km += stepKM {
		line = append(line, geo.Point{Lat: latOffset, Lon: lonAtKM(km)})
	}
	return append(line, geo.Point{Lat: latOffset, Lon: lonAtKM(toKM)})
}

func TestNew(t *testing.T) {
	t.Run("indexes every matchable path", func(t *testing.T) {
		m := matcher.New(testConfig(), []domain.Path{mainPath(), crossPath()})
		assert.Equal(t, 2, m.Len())
	})

	t.Run("leaves degenerate geometry out of the snapshot", func(t *testing.T) {
		m := matcher.New(testConfig(), []domain.Path{
			mainPath(),
			{ID: "single-point", Geometry: geo.Polyline{{Lat: 0, Lon: 0}}},
			{ID: "no-geometry"},
		})
		assert.Equal(t, 1, m.Len())
	})
}

func TestMatchFullRetrace(t *testing.T) {
	m := matcher.New(testConfig(), []domain.Path{mainPath()})

	result, err := m.Match(eastTrace(0, 10, 0.05, 0.00005))
	require.NoError(t, err)
	require.Contains(t, result, "main")

	covered := coverage.TotalLength(result["main"])
	assert.InDelta(t, 10.0, covered, 0.05)
}

func TestMatchPartialRide(t *testing.T) {
	m := matcher.New(testConfig(), []domain.Path{mainPath()})

	result, err := m.Match(eastTrace(0, 4, 0.05, 0.00005))
	require.NoError(t, err)
	require.Contains(t, result, "main")

	covered := coverage.TotalLength(result["main"])
	assert.InDelta(t, 4.0, covered, 0.05)
}

func TestMatchArcPositions(t *testing.T) {
	m := matcher.New(testConfig(), []domain.Path{mainPath()})

	// Riding only the last 4km must produce intervals positioned at the far
	// end of the path's arc length, across the 6km vertex.
	result, err := m.Match(eastTrace(6, 10, 0.05, 0.00005))
	require.NoError(t, err)
	require.Contains(t, result, "main")

	intervals := result["main"]
	require.NotEmpty(t, intervals)
	assert.InDelta(t, 6.0, intervals[0].Start, 0.05)
	assert.InDelta(t, 10.0, intervals[len(intervals)-1].End, 0.05)
	assert.InDelta(t, 4.0, coverage.TotalLength(intervals), 0.05)
}

func TestMatchRecordingGap(t *testing.T) {
	m := matcher.New(testConfig(), []domain.Path{mainPath()})

	// Two dense runs joined by a single 6km jump. The jump is far beyond the
	// gap limit, so nothing between 2km and 8km may count as covered.
	trace := append(eastTrace(0, 2, 0.05, 0.00005), eastTrace(8, 10, 0.05, 0.00005)...)
	result, err := m.Match(trace)
	require.NoError(t, err)
	require.Contains(t, result, "main")

	intervals := result["main"]
	assert.Len(t, intervals, 2)
	assert.InDelta(t, 4.0, coverage.TotalLength(intervals), 0.1)
}

func TestMatchTolerance(t *testing.T) {
	m := matcher.New(testConfig(), []domain.Path{mainPath()})

	t.Run("an offset within tolerance still covers", func(t *testing.T) {
		// Roughly 11m north of the path with a 25m tolerance.
		result, err := m.Match(eastTrace(0, 10, 0.05, 0.0001))
		require.NoError(t, err)
		require.Contains(t, result, "main")
		assert.InDelta(t, 10.0, coverage.TotalLength(result["main"]), 0.05)
	})

	t.Run("an offset beyond tolerance covers nothing", func(t *testing.T) {
		// Roughly 111m north of the path.
		result, err := m.Match(eastTrace(0, 10, 0.05, 0.001))
		require.NoError(t, err)
		assert.NotContains(t, result, "main")
	})
}

func TestMatchCrossingPath(t *testing.T) {
	m := matcher.New(testConfig(), []domain.Path{mainPath(), crossPath()})

	result, err := m.Match(eastTrace(0, 10, 0.05, 0.00005))
	require.NoError(t, err)

	t.Run("the ridden path is fully covered", func(t *testing.T) {
		require.Contains(t, result, "main")
		assert.InDelta(t, 10.0, coverage.TotalLength(result["main"]), 0.05)
	})

	t.Run("a crossed path picks up only the crossing point", func(t *testing.T) {
		require.Contains(t, result, "cross")
		covered := coverage.TotalLength(result["cross"])
		assert.Greater(t, covered, 0.0)
		assert.Less(t, covered, 0.2)
	})
}

func TestMatchRejectsMalformedGeometry(t *testing.T) {
	m := matcher.New(testConfig(), []domain.Path{mainPath()})

	t.Run("non finite coordinates", func(t *testing.T) {
		_, err := m.Match(geo.Polyline{{Lat: 0, Lon: 0}, {Lat: math.NaN(), Lon: 0.001}})
		assert.ErrorIs(t, err, domain.ErrMalformedGeometry)
	})

	t.Run("coordinates out of range", func(t *testing.T) {
		_, err := m.Match(geo.Polyline{{Lat: 0, Lon: 0}, {Lat: 95, Lon: 0.001}})
		assert.ErrorIs(t, err, domain.ErrMalformedGeometry)
	})
}

func TestMatchShortTraces(t *testing.T) {
	m := matcher.New(testConfig(), []domain.Path{mainPath()})

	t.Run("an empty trace matches nothing", func(t *testing.T) {
		result, err := m.Match(geo.Polyline{})
		assert.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("a single point matches nothing", func(t *testing.T) {
		result, err := m.Match(geo.Polyline{{Lat: 0, Lon: 0}})
		assert.NoError(t, err)
		assert.Empty(t, result)
	})
}

func TestMatchAwayFromNetwork(t *testing.T) {
	m := matcher.New(testConfig(), []domain.Path{mainPath()})

	result, err := m.Match(eastTrace(0, 2, 0.05, 2.0))
	require.NoError(t, err)
	assert.Empty(t, result)
}
