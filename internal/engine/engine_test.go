package engine_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/gowebpki/jcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waycover/waycover/internal/adapter"
	"github.com/waycover/waycover/internal/coverage"
	"github.com/waycover/waycover/internal/domain"
	"github.com/waycover/waycover/internal/engine"
	"github.com/waycover/waycover/internal/geo"
	"github.com/waycover/waycover/internal/logger"
	"github.com/waycover/waycover/internal/matcher"
	"github.com/waycover/waycover/internal/mocks"
	"github.com/waycover/waycover/internal/store"
	"github.com/waycover/waycover/internal/store/schema"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// kmPerDegree is the arc length of one degree of longitude on the equator
const kmPerDegree = math.Pi * geo.EarthRadiusKM / 180.0

// lonAtKM places a point the given distance east of the origin, on the equator
func lonAtKM(km float64) float64 {
	return km / kmPerDegree
}

func testMatchingConfig() matcher.Config {
	return matcher.Config{
		ToleranceKM:  0.025,
		SampleStepKM: 0.02,
		GapFactor:    4,
		DistanceMode: geo.DistanceModeHaversine,
	}
}

// testEngineMocks contains all the mocks needed for testing the engine
type testEngineMocks struct {
	ctrl      *gomock.Controller
	store     *mocks.MockStore
	publisher *mocks.MockPublisher
	clock     *mocks.MockClock
	engine    engine.Engine
}

// setupTestEngine creates the mocks and an engine without event publishing
func setupTestEngine(t *testing.T) *testEngineMocks {
	ctrl := gomock.NewController(t)

	tm := &testEngineMocks{
		ctrl:      ctrl,
		store:     mocks.NewMockStore(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
		clock:     mocks.NewMockClock(ctrl),
	}

	tm.engine = engine.NewEngine(
		engine.Config{
			Matching: testMatchingConfig(),
			Workers:  4,
		},
		tm.store,
		nil,
		tm.clock,
		adapter.NewJCS(),
		adapter.NewJSON(),
	)

	return tm
}

// tearDownTestEngine cleans up the test mocks
func tearDownTestEngine(mocks *testEngineMocks) {
	mocks.ctrl.Finish()
}

// buildTestPath creates a straight path running east along the equator
func buildTestPath(id string, startKM, endKM float64) domain.Path {
	area := "Testshire"
	name := "Path " + id
	return domain.Path{
		ID:        id,
		SourceFID: "fid-" + id,
		Name:      &name,
		PathType:  domain.PathTypeBridleway,
		Area:      &area,
		Geometry: geo.Polyline{
			{Lat: 0, Lon: lonAtKM(startKM)},
			{Lat: 0, Lon: lonAtKM(endKM)},
		},
	}
}

// buildTestTrace creates a trace running east along the equator, sampled
// every 20 meters
func buildTestTrace(startKM, endKM float64) domain.Trace {
	const stepKM = 0.02
	n := int(math.Ceil(math.Abs(endKM-startKM)/stepKM)) + 1
	if n < 2 {
		n = 2
	}
	points := make([]domain.TracePoint, n)
	for i := 0; i < n; i++ {
		f := float64(i) / float64(n-1)
		points[i] = domain.TracePoint{Lat: 0, Lon: lonAtKM(startKM + (endKM-startKM)*f)}
	}
	return domain.Trace{Points: points}
}

func buildTestSubmission(filename string, startKM, endKM float64) domain.RideSubmission {
	return domain.RideSubmission{
		Trace:    buildTestTrace(startKM, endKM),
		Filename: filename,
	}
}

// traceFingerprint replicates the canonical content hash of a trace, pinning
// the fingerprint format
func traceFingerprint(t *testing.T, trace domain.Trace) string {
	type point struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	payload := struct {
		StartTime *time.Time `json:"start_time,omitempty"`
		Points    []point    `json:"points"`
	}{
		StartTime: trace.StartTime(),
		Points:    make([]point, len(trace.Points)),
	}
	for i, p := range trace.Points {
		payload.Points[i] = point{Lat: p.Lat, Lon: p.Lon}
	}

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	canonical, err := jcs.Transform(raw)
	require.NoError(t, err)

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

// importNetwork installs paths through the engine with a permissive store mock
func importNetwork(t *testing.T, tm *testEngineMocks, replace bool, paths ...domain.Path) *domain.ImportResult {
	tm.store.EXPECT().
		CommitNetworkImport(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	result, err := tm.engine.ImportNetwork(context.Background(), paths, replace)
	require.NoError(t, err)
	return result
}

func TestEngineAddRideFullRetrace(t *testing.T) {
	tm := setupTestEngine(t)
	defer tearDownTestEngine(tm)

	importNetwork(t, tm, true, buildTestPath("main", 0, 10))

	var gotUpdates []store.PathCoverageUpdate
	tm.store.EXPECT().
		CreateRide(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *schema.Ride, _ []schema.RidePath, updates []store.PathCoverageUpdate) (bool, error) {
			gotUpdates = updates
			return true, nil
		})

	result, err := tm.engine.AddRide(context.Background(), buildTestSubmission("full.gpx", 0, 10))
	require.NoError(t, err)

	assert.Equal(t, domain.AddRideCreated, result.Status)
	require.NotNil(t, result.Ride)
	assert.Equal(t, "full.gpx", result.Ride.Filename)
	assert.Equal(t, []string{"main"}, result.ChangedPaths)

	// Retracing the whole path covers all of it
	path, err := tm.engine.Path("main")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, path.CoverageFraction, 1e-9)
	assert.InDelta(t, 10.0, path.RiddenKM, 1e-6)
	assert.True(t, path.IsRidden)
	assert.Nil(t, path.LastRiddenDate)

	// The same state went to the store
	require.Len(t, gotUpdates, 1)
	assert.Equal(t, "main", gotUpdates[0].PathID)
	assert.InDelta(t, 1.0, gotUpdates[0].CoverageFraction, 1e-9)
	assert.True(t, gotUpdates[0].IsRidden)
}

func TestEngineAddRidePartialCoverage(t *testing.T) {
	tm := setupTestEngine(t)
	defer tearDownTestEngine(tm)

	importNetwork(t, tm, true, buildTestPath("main", 0, 10))

	tm.store.EXPECT().
		CreateRide(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(true, nil)

	// Ride the middle 4 km of a 10 km path
	result, err := tm.engine.AddRide(context.Background(), buildTestSubmission("partial.gpx", 3, 7))
	require.NoError(t, err)
	assert.Equal(t, domain.AddRideCreated, result.Status)
	assert.Equal(t, []string{"main"}, result.ChangedPaths)

	path, err := tm.engine.Path("main")
	require.NoError(t, err)
	assert.InDelta(t, 0.4, path.CoverageFraction, 0.01)
	assert.InDelta(t, 4.0, path.RiddenKM, 0.1)
	assert.True(t, path.IsRidden)
}

func TestEngineAddRideDuplicate(t *testing.T) {
	tm := setupTestEngine(t)
	defer tearDownTestEngine(tm)

	importNetwork(t, tm, true, buildTestPath("main", 0, 10))

	// The store sees exactly one ride
	tm.store.EXPECT().
		CreateRide(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(true, nil).
		Times(1)

	sub := buildTestSubmission("ride.gpx", 0, 10)

	first, err := tm.engine.AddRide(context.Background(), sub)
	require.NoError(t, err)
	require.Equal(t, domain.AddRideCreated, first.Status)

	before, err := tm.engine.Path("main")
	require.NoError(t, err)

	second, err := tm.engine.AddRide(context.Background(), sub)
	require.NoError(t, err)

	assert.Equal(t, domain.AddRideDuplicate, second.Status)
	require.NotNil(t, second.Ride)
	assert.Equal(t, first.Ride.ID, second.Ride.ID)
	assert.Empty(t, second.ChangedPaths)

	// Resubmission leaves the path state untouched
	after, err := tm.engine.Path("main")
	require.NoError(t, err)
	assert.True(t, after.Coverage().Equal(before.Coverage()))

	rides := tm.engine.Rides()
	assert.Len(t, rides, 1)
}

func TestEngineAddRideRejected(t *testing.T) {
	tm := setupTestEngine(t)
	defer tearDownTestEngine(tm)

	importNetwork(t, tm, true, buildTestPath("main", 0, 10))

	sub := buildTestSubmission("bad.gpx", 0, 2)
	sub.Trace.Points[3].Lat = math.NaN()

	result, err := tm.engine.AddRide(context.Background(), sub)
	require.NoError(t, err)

	assert.Equal(t, domain.AddRideRejected, result.Status)
	assert.NotEmpty(t, result.Reason)
	assert.Nil(t, result.Ride)
	assert.Empty(t, result.ChangedPaths)
	assert.Empty(t, tm.engine.Rides())
}

func TestEngineAddRideWithoutNetwork(t *testing.T) {
	tm := setupTestEngine(t)
	defer tearDownTestEngine(tm)

	_, err := tm.engine.AddRide(context.Background(), buildTestSubmission("early.gpx", 0, 2))
	assert.ErrorIs(t, err, domain.ErrNetworkNotLoaded)
}

func TestEngineAddRideAwayFromNetwork(t *testing.T) {
	tm := setupTestEngine(t)
	defer tearDownTestEngine(tm)

	importNetwork(t, tm, true, buildTestPath("main", 0, 10))

	var gotRidePaths []schema.RidePath
	var gotUpdates []store.PathCoverageUpdate
	tm.store.EXPECT().
		CreateRide(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *schema.Ride, ridePaths []schema.RidePath, updates []store.PathCoverageUpdate) (bool, error) {
			gotRidePaths = ridePaths
			gotUpdates = updates
			return true, nil
		})

	// A ride a kilometer north of the path touches nothing
	sub := buildTestSubmission("away.gpx", 0, 10)
	for i := range sub.Trace.Points {
		sub.Trace.Points[i].Lat = 0.01
	}

	result, err := tm.engine.AddRide(context.Background(), sub)
	require.NoError(t, err)

	assert.Equal(t, domain.AddRideCreated, result.Status)
	assert.Empty(t, result.ChangedPaths)
	assert.Empty(t, gotRidePaths)
	assert.Empty(t, gotUpdates)

	path, err := tm.engine.Path("main")
	require.NoError(t, err)
	assert.False(t, path.IsRidden)
	assert.InDelta(t, 0.0, path.CoverageFraction, 1e-9)
}

func TestEngineAddRidesBatch(t *testing.T) {
	tm := setupTestEngine(t)
	defer tearDownTestEngine(tm)

	importNetwork(t, tm, true, buildTestPath("main", 0, 10))

	tm.store.EXPECT().
		CreateRide(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(true, nil).
		Times(1)

	malformed := buildTestSubmission("bad.gpx", 4, 6)
	malformed.Trace.Points[0].Lon = 361

	subs := []domain.RideSubmission{
		buildTestSubmission("one.gpx", 0, 5),
		buildTestSubmission("one.gpx", 0, 5), // same trace again
		malformed,
	}

	results, err := tm.engine.AddRides(context.Background(), subs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, domain.AddRideCreated, results[0].Status)
	assert.Equal(t, domain.AddRideDuplicate, results[1].Status)
	require.NotNil(t, results[1].Ride)
	assert.Equal(t, results[0].Ride.ID, results[1].Ride.ID)
	assert.Equal(t, domain.AddRideRejected, results[2].Status)

	assert.Len(t, tm.engine.Rides(), 1)
}

func TestEngineDeleteRide(t *testing.T) {
	tm := setupTestEngine(t)
	defer tearDownTestEngine(tm)

	importNetwork(t, tm, true, buildTestPath("main", 0, 10))

	tm.store.EXPECT().
		CreateRide(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(true, nil).
		Times(2)

	// Two rides covering disjoint halves of the path
	first, err := tm.engine.AddRide(context.Background(), buildTestSubmission("west.gpx", 0, 5))
	require.NoError(t, err)
	second, err := tm.engine.AddRide(context.Background(), buildTestSubmission("east.gpx", 5, 10))
	require.NoError(t, err)

	path, err := tm.engine.Path("main")
	require.NoError(t, err)
	require.InDelta(t, 1.0, path.CoverageFraction, 1e-9)

	t.Run("deleting one half leaves the other", func(t *testing.T) {
		tm.store.EXPECT().
			DeleteRide(gomock.Any(), second.Ride.ID, gomock.Any()).
			Return(true, nil)

		result, err := tm.engine.DeleteRide(context.Background(), second.Ride.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"main"}, result.ChangedPaths)

		path, err := tm.engine.Path("main")
		require.NoError(t, err)
		assert.InDelta(t, 0.5, path.CoverageFraction, 0.01)
		assert.True(t, path.IsRidden)
		assert.Len(t, tm.engine.Rides(), 1)
	})

	t.Run("deleting the last ride zeroes the path", func(t *testing.T) {
		var gotUpdates []store.PathCoverageUpdate
		tm.store.EXPECT().
			DeleteRide(gomock.Any(), first.Ride.ID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, updates []store.PathCoverageUpdate) (bool, error) {
				gotUpdates = updates
				return true, nil
			})

		result, err := tm.engine.DeleteRide(context.Background(), first.Ride.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"main"}, result.ChangedPaths)

		path, err := tm.engine.Path("main")
		require.NoError(t, err)
		assert.InDelta(t, 0.0, path.CoverageFraction, 1e-9)
		assert.InDelta(t, 0.0, path.RiddenKM, 1e-9)
		assert.False(t, path.IsRidden)
		assert.Nil(t, path.LastRiddenDate)
		assert.Empty(t, tm.engine.Rides())

		require.Len(t, gotUpdates, 1)
		assert.False(t, gotUpdates[0].IsRidden)
	})

	t.Run("deleting an unknown ride fails", func(t *testing.T) {
		_, err := tm.engine.DeleteRide(context.Background(), "no-such-ride")
		assert.ErrorIs(t, err, domain.ErrUnknownRide)
	})
}

func TestEngineImportNetwork(t *testing.T) {
	tm := setupTestEngine(t)
	defer tearDownTestEngine(tm)

	t.Run("empty import is refused", func(t *testing.T) {
		_, err := tm.engine.ImportNetwork(context.Background(), nil, true)
		assert.ErrorIs(t, err, domain.ErrEmptyNetwork)
	})

	t.Run("import with only unusable records is refused", func(t *testing.T) {
		bad := buildTestPath("bad", 0, 1)
		bad.Geometry = bad.Geometry[:1]

		_, err := tm.engine.ImportNetwork(context.Background(), []domain.Path{bad}, true)
		assert.ErrorIs(t, err, domain.ErrEmptyNetwork)
	})

	t.Run("malformed records are skipped, not fatal", func(t *testing.T) {
		bad := buildTestPath("bad", 0, 1)
		bad.Geometry[0].Lat = 91

		result := importNetwork(t, tm, true, buildTestPath("good", 0, 3), bad)
		assert.Equal(t, 1, result.PathsImported)
		assert.Equal(t, 1, result.PathsSkipped)

		_, err := tm.engine.Path("bad")
		assert.ErrorIs(t, err, domain.ErrUnknownPath)
	})

	t.Run("import measures and installs the network", func(t *testing.T) {
		result := importNetwork(t, tm, true,
			buildTestPath("a", 0, 4),
			buildTestPath("b", 5, 10),
		)
		assert.Equal(t, 2, result.PathsImported)
		assert.Equal(t, 0, result.PathsSkipped)
		assert.Equal(t, 0, result.RidesRematched)
		assert.Empty(t, result.ChangedPaths)

		paths := tm.engine.Paths(domain.PathFilter{})
		require.Len(t, paths, 2)
		assert.Equal(t, "a", paths[0].ID)
		assert.InDelta(t, 4.0, paths[0].LengthKM, 1e-6)
		assert.InDelta(t, 5.0, paths[1].LengthKM, 1e-6)
	})

	t.Run("import without replace extends the network", func(t *testing.T) {
		result := importNetwork(t, tm, false, buildTestPath("c", 11, 13))
		assert.Equal(t, 3, result.PathsImported)
		assert.Len(t, tm.engine.Paths(domain.PathFilter{}), 3)
	})

	t.Run("import with replace swaps the network", func(t *testing.T) {
		result := importNetwork(t, tm, true, buildTestPath("d", 0, 2))
		assert.Equal(t, 1, result.PathsImported)

		_, err := tm.engine.Path("a")
		assert.ErrorIs(t, err, domain.ErrUnknownPath)
	})
}

func TestEngineImportNetworkRematchesRides(t *testing.T) {
	tm := setupTestEngine(t)
	defer tearDownTestEngine(tm)

	importNetwork(t, tm, true, buildTestPath("main", 0, 10))

	tm.store.EXPECT().
		CreateRide(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(true, nil)

	_, err := tm.engine.AddRide(context.Background(), buildTestSubmission("ride.gpx", 0, 10))
	require.NoError(t, err)

	t.Run("reimporting the same geometry changes nothing", func(t *testing.T) {
		result := importNetwork(t, tm, true, buildTestPath("main", 0, 10))
		assert.Equal(t, 1, result.RidesRematched)
		assert.Empty(t, result.ChangedPaths)

		path, err := tm.engine.Path("main")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, path.CoverageFraction, 1e-9)
	})

	t.Run("moving the path away drops its coverage", func(t *testing.T) {
		moved := buildTestPath("main", 0, 10)
		for i := range moved.Geometry {
			moved.Geometry[i].Lat = 0.01
		}

		result := importNetwork(t, tm, true, moved)
		assert.Equal(t, 1, result.RidesRematched)
		assert.Equal(t, []string{"main"}, result.ChangedPaths)

		path, err := tm.engine.Path("main")
		require.NoError(t, err)
		assert.False(t, path.IsRidden)
		assert.InDelta(t, 0.0, path.CoverageFraction, 1e-9)
	})
}

func TestEngineStatistics(t *testing.T) {
	tm := setupTestEngine(t)
	defer tearDownTestEngine(tm)

	north := buildTestPath("north", 0, 10)
	south := buildTestPath("south", 11, 15)
	otherArea := "Southshire"
	south.Area = &otherArea
	south.PathType = domain.PathTypeFootpath

	importNetwork(t, tm, true, north, south)

	tm.store.EXPECT().
		CreateRide(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(true, nil)

	_, err := tm.engine.AddRide(context.Background(), buildTestSubmission("ride.gpx", 0, 10))
	require.NoError(t, err)

	stats := tm.engine.Statistics()
	assert.Equal(t, 2, stats.TotalPaths)
	assert.InDelta(t, 14.0, stats.TotalLengthKM, 1e-6)
	assert.Equal(t, 1, stats.RiddenPaths)
	assert.InDelta(t, 10.0, stats.RiddenKM, 1e-6)
	assert.Equal(t, 1, stats.UnriddenPaths)
	assert.InDelta(t, 4.0, stats.UnriddenKM, 1e-6)

	byType := stats.ByType[domain.PathTypeBridleway]
	assert.Equal(t, 1, byType.Count)
	assert.Equal(t, 1, byType.RiddenCount)

	assert.Equal(t, []string{"Southshire", "Testshire"}, tm.engine.Areas())
	assert.Equal(t, []string{domain.PathTypeBridleway, domain.PathTypeFootpath}, tm.engine.PathTypes())

	ridden := true
	filtered := tm.engine.Paths(domain.PathFilter{Ridden: &ridden})
	require.Len(t, filtered, 1)
	assert.Equal(t, "north", filtered[0].ID)
}

func TestEngineEvents(t *testing.T) {
	tm := setupTestEngine(t)
	defer tearDownTestEngine(tm)

	eng := engine.NewEngine(
		engine.Config{Matching: testMatchingConfig(), Workers: 2},
		tm.store,
		tm.publisher,
		tm.clock,
		adapter.NewJCS(),
		adapter.NewJSON(),
	)

	now := time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)
	tm.clock.EXPECT().Now().Return(now).AnyTimes()

	var events []*domain.CoverageEvent
	tm.publisher.EXPECT().
		PublishEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *domain.CoverageEvent) error {
			events = append(events, event)
			return nil
		}).
		Times(3)

	tm.store.EXPECT().CommitNetworkImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	tm.store.EXPECT().CreateRide(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	tm.store.EXPECT().DeleteRide(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)

	ctx := context.Background()

	_, err := eng.ImportNetwork(ctx, []domain.Path{buildTestPath("main", 0, 10)}, true)
	require.NoError(t, err)

	sub := buildTestSubmission("ride.gpx", 0, 10)
	added, err := eng.AddRide(ctx, sub)
	require.NoError(t, err)

	// Duplicates publish nothing
	dup, err := eng.AddRide(ctx, sub)
	require.NoError(t, err)
	require.Equal(t, domain.AddRideDuplicate, dup.Status)

	_, err = eng.DeleteRide(ctx, added.Ride.ID)
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, domain.CoverageEventNetworkImported, events[0].Type)
	assert.Equal(t, domain.CoverageEventRideAdded, events[1].Type)
	assert.Equal(t, domain.CoverageEventRideDeleted, events[2].Type)

	assert.Equal(t, added.Ride.ID, events[1].RideID)
	assert.Equal(t, []string{"main"}, events[1].ChangedPaths)
	for _, event := range events {
		assert.NotEmpty(t, event.ID)
		assert.True(t, event.OccurredAt.Equal(now))
	}
}

func TestEngineReload(t *testing.T) {
	tm := setupTestEngine(t)
	defer tearDownTestEngine(tm)

	recorded := time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC)

	path := buildTestPath("main", 0, 10)
	path.LengthKM = 10
	path.SetCoverage(domain.CoverageState{
		CoverageFraction: 0.25,
		RiddenKM:         2.5,
		IsRidden:         true,
		LastRiddenDate:   &recorded,
	})
	storedPath, err := schema.PathFromDomain(&path)
	require.NoError(t, err)

	trace := buildTestTrace(0, 2.5)
	ride := domain.Ride{
		ID:           "ride-1",
		Fingerprint:  traceFingerprint(t, trace),
		Filename:     "ride.gpx",
		DateRecorded: &recorded,
		DistanceKM:   2.5,
		Trace:        trace,
	}
	storedRide, err := schema.RideFromDomain(&ride)
	require.NoError(t, err)

	contribution, err := schema.NewRidePath("ride-1", "main", []coverage.Interval{{Start: 0, End: 2.5}})
	require.NoError(t, err)

	tm.store.EXPECT().GetPaths(gomock.Any()).Return([]schema.Path{*storedPath}, nil)
	tm.store.EXPECT().GetRides(gomock.Any()).Return([]schema.Ride{*storedRide}, nil)
	tm.store.EXPECT().GetAllContributions(gomock.Any()).Return([]store.PathContribution{
		{
			PathID:       "main",
			RideID:       "ride-1",
			Intervals:    contribution.Intervals,
			DateRecorded: &recorded,
		},
	}, nil)

	require.NoError(t, tm.engine.Reload(context.Background()))

	// Stored state is served as-is, not re-derived
	got, err := tm.engine.Path("main")
	require.NoError(t, err)
	assert.InDelta(t, 0.25, got.CoverageFraction, 1e-9)
	assert.True(t, got.IsRidden)
	require.NotNil(t, got.LastRiddenDate)
	assert.True(t, got.LastRiddenDate.Equal(recorded))

	gotRide, err := tm.engine.Ride("ride-1")
	require.NoError(t, err)
	assert.Equal(t, ride.Fingerprint, gotRide.Fingerprint)

	// The reloaded fingerprints catch resubmissions
	result, err := tm.engine.AddRide(context.Background(), domain.RideSubmission{
		Trace:    trace,
		Filename: "ride-again.gpx",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AddRideDuplicate, result.Status)
	require.NotNil(t, result.Ride)
	assert.Equal(t, "ride-1", result.Ride.ID)
}
