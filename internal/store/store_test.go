package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/waycover/waycover/internal/coverage"
	"github.com/waycover/waycover/internal/domain"
	"github.com/waycover/waycover/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

// buildTestPath creates a test path record with a simple two-point geometry
func buildTestPath(id string, lengthKM float64) schema.Path {
	name := "Path " + id
	area := "Testshire"
	return schema.Path{
		ID:        id,
		SourceFID: "fid-" + id,
		Name:      &name,
		PathType:  domain.PathTypeBridleway,
		Area:      &area,
		Geometry:  datatypes.JSON(`[[-1.5,52.0],[-1.5,52.1]]`),
		LengthKM:  lengthKM,
	}
}

// buildTestRide creates a test ride record with a minimal stored trace
func buildTestRide(id, fingerprint string, recorded *time.Time) *schema.Ride {
	name := "Ride " + id
	return &schema.Ride{
		ID:           id,
		Fingerprint:  fingerprint,
		Filename:     id + ".gpx",
		Name:         &name,
		DateRecorded: recorded,
		DistanceKM:   11.1,
		Trace:        datatypes.JSON(`[{"lat":52.0,"lon":-1.5},{"lat":52.1,"lon":-1.5}]`),
	}
}

// buildTestRidePath creates a test contribution row
func buildTestRidePath(t *testing.T, rideID, pathID string, intervals []coverage.Interval) schema.RidePath {
	rp, err := schema.NewRidePath(rideID, pathID, intervals)
	require.NoError(t, err)
	return *rp
}

// buildTestUpdate creates a coverage update for a single path
func buildTestUpdate(pathID string, fraction, riddenKM float64, lastRidden *time.Time) PathCoverageUpdate {
	return PathCoverageUpdate{
		PathID:           pathID,
		CoverageFraction: fraction,
		RiddenKM:         riddenKM,
		IsRidden:         riddenKM > 0,
		LastRiddenDate:   lastRidden,
	}
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// =============================================================================
// Test: CommitNetworkImport
// =============================================================================

func testCommitNetworkImport(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("import populates the network", func(t *testing.T) {
		paths := []schema.Path{
			buildTestPath("net-a", 2.5),
			buildTestPath("net-b", 4.0),
		}

		err := store.CommitNetworkImport(ctx, paths, nil)
		require.NoError(t, err)

		count, err := store.CountPaths(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		path, err := store.GetPathByID(ctx, "net-a")
		require.NoError(t, err)
		require.NotNil(t, path)
		assert.Equal(t, "fid-net-a", path.SourceFID)
		assert.Equal(t, domain.PathTypeBridleway, path.PathType)
		assert.InDelta(t, 2.5, path.LengthKM, 1e-9)
		assert.False(t, path.IsRidden)
	})

	t.Run("reimport replaces the network and drops contributions", func(t *testing.T) {
		err := store.CommitNetworkImport(ctx, []schema.Path{buildTestPath("old-1", 1.0)}, nil)
		require.NoError(t, err)

		ride := buildTestRide("ride-reimport", "fp-reimport", nil)
		rp := buildTestRidePath(t, ride.ID, "old-1", []coverage.Interval{{Start: 0, End: 1}})
		created, err := store.CreateRide(ctx, ride, []schema.RidePath{rp}, nil)
		require.NoError(t, err)
		require.True(t, created)

		// Rematched contributions against the new network come in with the import
		newRP := buildTestRidePath(t, ride.ID, "new-1", []coverage.Interval{{Start: 0, End: 0.5}})
		err = store.CommitNetworkImport(ctx, []schema.Path{buildTestPath("new-1", 3.0)}, []schema.RidePath{newRP})
		require.NoError(t, err)

		old, err := store.GetPathByID(ctx, "old-1")
		require.NoError(t, err)
		assert.Nil(t, old)

		contributions, err := store.GetAllContributions(ctx)
		require.NoError(t, err)
		require.Len(t, contributions, 1)
		assert.Equal(t, "new-1", contributions[0].PathID)
		assert.Equal(t, ride.ID, contributions[0].RideID)

		// The ride itself survives the import
		got, err := store.GetRideByID(ctx, ride.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
	})

	t.Run("import to empty network is allowed", func(t *testing.T) {
		err := store.CommitNetworkImport(ctx, nil, nil)
		require.NoError(t, err)

		count, err := store.CountPaths(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

// =============================================================================
// Test: ListPaths / CountPaths
// =============================================================================

func testListPaths(t *testing.T, store Store) {
	ctx := context.Background()

	paths := []schema.Path{
		buildTestPath("list-1", 1.0),
		buildTestPath("list-2", 2.0),
		buildTestPath("list-3", 3.0),
		buildTestPath("list-4", 4.0),
		buildTestPath("list-5", 5.0),
	}
	require.NoError(t, store.CommitNetworkImport(ctx, paths, nil))

	t.Run("pages are ordered by ID", func(t *testing.T) {
		page, err := store.ListPaths(ctx, 0, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "list-1", page[0].ID)
		assert.Equal(t, "list-2", page[1].ID)

		page, err = store.ListPaths(ctx, 2, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "list-3", page[0].ID)
		assert.Equal(t, "list-4", page[1].ID)
	})

	t.Run("offset past the end returns empty", func(t *testing.T) {
		page, err := store.ListPaths(ctx, 10, 2)
		require.NoError(t, err)
		assert.Empty(t, page)
	})

	t.Run("count covers all paths", func(t *testing.T) {
		count, err := store.CountPaths(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)
	})
}

// =============================================================================
// Test: CreateRide
// =============================================================================

func testCreateRide(t *testing.T, store Store) {
	ctx := context.Background()

	require.NoError(t, store.CommitNetworkImport(ctx, []schema.Path{
		buildTestPath("cr-a", 4.0),
		buildTestPath("cr-b", 6.0),
	}, nil))

	recorded := datePtr(2025, time.June, 14)

	t.Run("ride, contributions and coverage land atomically", func(t *testing.T) {
		ride := buildTestRide("ride-1", "fp-1", recorded)
		ridePaths := []schema.RidePath{
			buildTestRidePath(t, ride.ID, "cr-a", []coverage.Interval{{Start: 0, End: 4}}),
			buildTestRidePath(t, ride.ID, "cr-b", []coverage.Interval{{Start: 1, End: 2.5}}),
		}
		updates := []PathCoverageUpdate{
			buildTestUpdate("cr-a", 1.0, 4.0, recorded),
			buildTestUpdate("cr-b", 0.25, 1.5, recorded),
		}

		created, err := store.CreateRide(ctx, ride, ridePaths, updates)
		require.NoError(t, err)
		assert.True(t, created)

		got, err := store.GetRideByID(ctx, "ride-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "fp-1", got.Fingerprint)
		assert.Equal(t, "ride-1.gpx", got.Filename)
		require.NotNil(t, got.DateRecorded)
		assert.True(t, got.DateRecorded.Equal(*recorded))

		byFP, err := store.GetRideByFingerprint(ctx, "fp-1")
		require.NoError(t, err)
		require.NotNil(t, byFP)
		assert.Equal(t, "ride-1", byFP.ID)

		pathA, err := store.GetPathByID(ctx, "cr-a")
		require.NoError(t, err)
		require.NotNil(t, pathA)
		assert.InDelta(t, 1.0, pathA.CoverageFraction, 1e-9)
		assert.InDelta(t, 4.0, pathA.RiddenKM, 1e-9)
		assert.True(t, pathA.IsRidden)
		require.NotNil(t, pathA.LastRiddenDate)
		assert.True(t, pathA.LastRiddenDate.Equal(*recorded))

		contributions, err := store.GetContributionsByPathIDs(ctx, []string{"cr-b"})
		require.NoError(t, err)
		require.Len(t, contributions, 1)
		intervals, err := (&schema.RidePath{Intervals: contributions[0].Intervals}).DecodeIntervals()
		require.NoError(t, err)
		require.Len(t, intervals, 1)
		assert.InDelta(t, 1.0, intervals[0].Start, 1e-9)
		assert.InDelta(t, 2.5, intervals[0].End, 1e-9)
	})

	t.Run("duplicate fingerprint writes nothing", func(t *testing.T) {
		dup := buildTestRide("ride-2", "fp-1", recorded)
		ridePaths := []schema.RidePath{
			buildTestRidePath(t, dup.ID, "cr-a", []coverage.Interval{{Start: 0, End: 1}}),
		}
		updates := []PathCoverageUpdate{
			buildTestUpdate("cr-a", 0.25, 1.0, recorded),
		}

		created, err := store.CreateRide(ctx, dup, ridePaths, updates)
		require.NoError(t, err)
		assert.False(t, created)

		// The resubmission must not exist under its new ID
		got, err := store.GetRideByID(ctx, "ride-2")
		require.NoError(t, err)
		assert.Nil(t, got)

		// Coverage of the touched path is untouched
		pathA, err := store.GetPathByID(ctx, "cr-a")
		require.NoError(t, err)
		require.NotNil(t, pathA)
		assert.InDelta(t, 1.0, pathA.CoverageFraction, 1e-9)

		rides, err := store.GetRides(ctx)
		require.NoError(t, err)
		assert.Len(t, rides, 1)
	})

	t.Run("ride touching nothing stores without contributions", func(t *testing.T) {
		ride := buildTestRide("ride-3", "fp-3", nil)
		created, err := store.CreateRide(ctx, ride, nil, nil)
		require.NoError(t, err)
		assert.True(t, created)

		contributions, err := store.GetAllContributions(ctx)
		require.NoError(t, err)
		for _, c := range contributions {
			assert.NotEqual(t, "ride-3", c.RideID)
		}
	})
}

// =============================================================================
// Test: DeleteRide
// =============================================================================

func testDeleteRide(t *testing.T, store Store) {
	ctx := context.Background()

	require.NoError(t, store.CommitNetworkImport(ctx, []schema.Path{
		buildTestPath("del-a", 5.0),
	}, nil))

	recorded := datePtr(2025, time.March, 2)
	ride := buildTestRide("ride-del", "fp-del", recorded)
	ridePaths := []schema.RidePath{
		buildTestRidePath(t, ride.ID, "del-a", []coverage.Interval{{Start: 0, End: 5}}),
	}
	created, err := store.CreateRide(ctx, ride, ridePaths, []PathCoverageUpdate{
		buildTestUpdate("del-a", 1.0, 5.0, recorded),
	})
	require.NoError(t, err)
	require.True(t, created)

	t.Run("delete removes the ride and zeroes affected coverage", func(t *testing.T) {
		deleted, err := store.DeleteRide(ctx, "ride-del", []PathCoverageUpdate{
			buildTestUpdate("del-a", 0, 0, nil),
		})
		require.NoError(t, err)
		assert.True(t, deleted)

		got, err := store.GetRideByID(ctx, "ride-del")
		require.NoError(t, err)
		assert.Nil(t, got)

		// Contributions go with the ride
		contributions, err := store.GetContributionsByPathIDs(ctx, []string{"del-a"})
		require.NoError(t, err)
		assert.Empty(t, contributions)

		path, err := store.GetPathByID(ctx, "del-a")
		require.NoError(t, err)
		require.NotNil(t, path)
		assert.InDelta(t, 0.0, path.CoverageFraction, 1e-9)
		assert.InDelta(t, 0.0, path.RiddenKM, 1e-9)
		assert.False(t, path.IsRidden)
		assert.Nil(t, path.LastRiddenDate)
	})

	t.Run("deleting an unknown ride reports not found", func(t *testing.T) {
		deleted, err := store.DeleteRide(ctx, "no-such-ride", nil)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

// =============================================================================
// Test: UpdatePathCoverage
// =============================================================================

func testUpdatePathCoverage(t *testing.T, store Store) {
	ctx := context.Background()

	require.NoError(t, store.CommitNetworkImport(ctx, []schema.Path{
		buildTestPath("upd-a", 8.0),
		buildTestPath("upd-b", 2.0),
	}, nil))

	t.Run("updates land on the addressed paths only", func(t *testing.T) {
		recorded := datePtr(2025, time.January, 20)
		err := store.UpdatePathCoverage(ctx, []PathCoverageUpdate{
			buildTestUpdate("upd-a", 0.5, 4.0, recorded),
		})
		require.NoError(t, err)

		pathA, err := store.GetPathByID(ctx, "upd-a")
		require.NoError(t, err)
		require.NotNil(t, pathA)
		assert.InDelta(t, 0.5, pathA.CoverageFraction, 1e-9)
		assert.InDelta(t, 4.0, pathA.RiddenKM, 1e-9)
		assert.True(t, pathA.IsRidden)

		pathB, err := store.GetPathByID(ctx, "upd-b")
		require.NoError(t, err)
		require.NotNil(t, pathB)
		assert.InDelta(t, 0.0, pathB.CoverageFraction, 1e-9)
		assert.False(t, pathB.IsRidden)
	})

	t.Run("clearing coverage nulls the last ridden date", func(t *testing.T) {
		err := store.UpdatePathCoverage(ctx, []PathCoverageUpdate{
			buildTestUpdate("upd-a", 0, 0, nil),
		})
		require.NoError(t, err)

		pathA, err := store.GetPathByID(ctx, "upd-a")
		require.NoError(t, err)
		require.NotNil(t, pathA)
		assert.False(t, pathA.IsRidden)
		assert.Nil(t, pathA.LastRiddenDate)
	})

	t.Run("empty update set is a no-op", func(t *testing.T) {
		err := store.UpdatePathCoverage(ctx, nil)
		require.NoError(t, err)
	})
}

// =============================================================================
// Test: Contributions
// =============================================================================

func testContributions(t *testing.T, store Store) {
	ctx := context.Background()

	require.NoError(t, store.CommitNetworkImport(ctx, []schema.Path{
		buildTestPath("con-a", 3.0),
		buildTestPath("con-b", 3.0),
		buildTestPath("con-c", 3.0),
	}, nil))

	date1 := datePtr(2025, time.April, 5)
	ride1 := buildTestRide("ride-c1", "fp-c1", date1)
	created, err := store.CreateRide(ctx, ride1, []schema.RidePath{
		buildTestRidePath(t, ride1.ID, "con-a", []coverage.Interval{{Start: 0, End: 1}}),
		buildTestRidePath(t, ride1.ID, "con-b", []coverage.Interval{{Start: 0, End: 2}}),
	}, nil)
	require.NoError(t, err)
	require.True(t, created)

	ride2 := buildTestRide("ride-c2", "fp-c2", nil)
	created, err = store.CreateRide(ctx, ride2, []schema.RidePath{
		buildTestRidePath(t, ride2.ID, "con-a", []coverage.Interval{{Start: 2, End: 3}}),
	}, nil)
	require.NoError(t, err)
	require.True(t, created)

	t.Run("filter by path IDs", func(t *testing.T) {
		contributions, err := store.GetContributionsByPathIDs(ctx, []string{"con-a"})
		require.NoError(t, err)
		require.Len(t, contributions, 2)

		byRide := make(map[string]PathContribution)
		for _, c := range contributions {
			assert.Equal(t, "con-a", c.PathID)
			byRide[c.RideID] = c
		}

		first, ok := byRide["ride-c1"]
		require.True(t, ok)
		require.NotNil(t, first.DateRecorded)
		assert.True(t, first.DateRecorded.Equal(*date1))

		second, ok := byRide["ride-c2"]
		require.True(t, ok)
		assert.Nil(t, second.DateRecorded)
	})

	t.Run("untouched paths contribute nothing", func(t *testing.T) {
		contributions, err := store.GetContributionsByPathIDs(ctx, []string{"con-c"})
		require.NoError(t, err)
		assert.Empty(t, contributions)
	})

	t.Run("empty path ID set short-circuits", func(t *testing.T) {
		contributions, err := store.GetContributionsByPathIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, contributions)
	})

	t.Run("all contributions span every ride", func(t *testing.T) {
		contributions, err := store.GetAllContributions(ctx)
		require.NoError(t, err)
		assert.Len(t, contributions, 3)
	})
}

// =============================================================================
// Test Runner
// =============================================================================

func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"CommitNetworkImport", testCommitNetworkImport},
		{"ListPaths", testListPaths},
		{"CreateRide", testCreateRide},
		{"DeleteRide", testDeleteRide},
		{"UpdatePathCoverage", testUpdatePathCoverage},
		{"Contributions", testContributions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
