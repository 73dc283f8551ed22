package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/waycover/waycover/internal/domain"
	"github.com/waycover/waycover/internal/geo"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestTracePolyline(t *testing.T) {
	trace := domain.Trace{
		Points: []domain.TracePoint{
			{Lat: 54.5, Lon: -1.2},
			{Lat: 54.51, Lon: -1.19},
		},
	}

	line := trace.Polyline()
	assert.Equal(t, geo.Polyline{{Lat: 54.5, Lon: -1.2}, {Lat: 54.51, Lon: -1.19}}, line)
}

func TestTraceStartTime(t *testing.T) {
	t.Run("returns the first timestamp present", func(t *testing.T) {
		second := time.Date(2024, 6, 1, 10, 0, 5, 0, time.UTC)
		trace := domain.Trace{
			Points: []domain.TracePoint{
				{Lat: 54.5, Lon: -1.2},
				{Lat: 54.51, Lon: -1.19, Time: timePtr(second)},
			},
		}
		got := trace.StartTime()
		assert.NotNil(t, got)
		assert.True(t, got.Equal(second))
	})

	t.Run("returns nil when no point carries a timestamp", func(t *testing.T) {
		trace := domain.Trace{Points: []domain.TracePoint{{Lat: 54.5, Lon: -1.2}}}
		assert.Nil(t, trace.StartTime())
	})
}

func TestCoverageStateEqual(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	base := domain.CoverageState{
		CoverageFraction: 0.4,
		RiddenKM:         4.0,
		IsRidden:         true,
		LastRiddenDate:   timePtr(date),
	}

	t.Run("equal states compare equal", func(t *testing.T) {
		other := base
		other.LastRiddenDate = timePtr(date)
		assert.True(t, base.Equal(other))
	})

	t.Run("tolerates float noise", func(t *testing.T) {
		other := base
		other.CoverageFraction = 0.4 + 1e-12
		assert.True(t, base.Equal(other))
	})

	t.Run("detects fraction changes", func(t *testing.T) {
		other := base
		other.CoverageFraction = 0.5
		assert.False(t, base.Equal(other))
	})

	t.Run("detects ridden flag changes", func(t *testing.T) {
		other := base
		other.IsRidden = false
		assert.False(t, base.Equal(other))
	})

	t.Run("detects date changes", func(t *testing.T) {
		other := base
		other.LastRiddenDate = timePtr(date.AddDate(0, 0, 1))
		assert.False(t, base.Equal(other))

		other.LastRiddenDate = nil
		assert.False(t, base.Equal(other))
	})
}

func TestPathCoverage(t *testing.T) {
	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	path := domain.Path{ID: "p1", LengthKM: 10}

	state := domain.CoverageState{
		CoverageFraction: 0.4,
		RiddenKM:         4.0,
		IsRidden:         true,
		LastRiddenDate:   timePtr(date),
	}
	path.SetCoverage(state)

	assert.Equal(t, 0.4, path.CoverageFraction)
	assert.Equal(t, 4.0, path.RiddenKM)
	assert.True(t, path.IsRidden)
	assert.True(t, state.Equal(path.Coverage()))
}
