package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/waycover/waycover/internal/adapter"
	"github.com/waycover/waycover/internal/coverage"
	"github.com/waycover/waycover/internal/domain"
	"github.com/waycover/waycover/internal/logger"
	"github.com/waycover/waycover/internal/matcher"
	"github.com/waycover/waycover/internal/messaging"
	"github.com/waycover/waycover/internal/store"
	"github.com/waycover/waycover/internal/store/schema"
)

//go:generate mockgen -source=engine.go -destination=../mocks/engine.go -package=mocks -mock_names=Engine=MockEngine

// Config holds the engine configuration
type Config struct {
	// Matching drives the trace matcher
	Matching matcher.Config
	// Workers bounds the parallel matching of batch submissions and of
	// ride rematches during a network import
	Workers int
}

// Engine is the single writer for one path network. Every mutation commits
// to the store first and is applied to the in-memory state afterwards, so
// concurrent reads always observe the last committed state.
type Engine interface {
	// Reload hydrates the in-memory state from the store
	Reload(ctx context.Context) error
	// ImportNetwork installs a path network and rematches every stored ride
	// against it. With replace set the given paths become the whole network,
	// otherwise they are merged into the existing one by path ID.
	ImportNetwork(ctx context.Context, paths []domain.Path, replace bool) (*domain.ImportResult, error)
	// AddRide validates, matches and stores a single ride trace
	AddRide(ctx context.Context, sub domain.RideSubmission) (*domain.AddRideResult, error)
	// AddRides processes a batch of submissions in submission order
	AddRides(ctx context.Context, subs []domain.RideSubmission) ([]domain.AddRideResult, error)
	// DeleteRide removes a ride and recomputes the coverage of the paths it touched
	DeleteRide(ctx context.Context, rideID string) (*domain.DeleteRideResult, error)
	// Paths returns the current coverage state of the network, optionally filtered
	Paths(filter domain.PathFilter) []domain.Path
	// Path returns the current state of a single path
	Path(pathID string) (*domain.Path, error)
	// Rides lists the stored rides, most recently recorded first
	Rides() []domain.Ride
	// Ride returns a single stored ride
	Ride(rideID string) (*domain.Ride, error)
	// Statistics summarizes network coverage overall and per group
	Statistics() *domain.Statistics
	// Areas lists the distinct areas present in the network
	Areas() []string
	// PathTypes lists the distinct path types present in the network
	PathTypes() []string
}

type engine struct {
	cfg   Config
	store store.Store
	pub   messaging.Publisher
	clock adapter.Clock
	jcs   adapter.JCS
	json  adapter.JSON

	// writeMu serializes mutating operations, so matching always runs
	// against a stable snapshot without blocking readers
	writeMu sync.Mutex

	// mu guards the state below for readers. The state is only mutated
	// while holding both writeMu and mu, so holders of writeMu may read
	// it without taking mu.
	mu           sync.RWMutex
	matcher      *matcher.Matcher
	paths        map[string]*domain.Path
	rides        map[string]*domain.Ride
	fingerprints map[string]string                         // fingerprint -> ride ID
	contribs     map[string]map[string][]coverage.Interval // path ID -> ride ID -> intervals
}

// NewEngine creates a coverage engine. Reload must be called before use.
// The publisher may be nil when eventing is disabled.
func NewEngine(
	cfg Config,
	st store.Store,
	pub messaging.Publisher,
	clock adapter.Clock,
	jcsAdapter adapter.JCS,
	jsonAdapter adapter.JSON,
) Engine {
	return &engine{
		cfg:          cfg,
		store:        st,
		pub:          pub,
		clock:        clock,
		jcs:          jcsAdapter,
		json:         jsonAdapter,
		paths:        make(map[string]*domain.Path),
		rides:        make(map[string]*domain.Ride),
		fingerprints: make(map[string]string),
		contribs:     make(map[string]map[string][]coverage.Interval),
	}
}

// Reload hydrates the in-memory state from the store
func (e *engine) Reload(ctx context.Context) error {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	storedPaths, err := e.store.GetPaths(ctx)
	if err != nil {
		return fmt.Errorf("failed to load paths: %w", err)
	}
	paths := make(map[string]*domain.Path, len(storedPaths))
	for i := range storedPaths {
		p, err := storedPaths[i].ToDomain()
		if err != nil {
			return fmt.Errorf("failed to decode path %s: %w", storedPaths[i].ID, err)
		}
		paths[p.ID] = p
	}

	storedRides, err := e.store.GetRides(ctx)
	if err != nil {
		return fmt.Errorf("failed to load rides: %w", err)
	}
	rides := make(map[string]*domain.Ride, len(storedRides))
	fingerprints := make(map[string]string, len(storedRides))
	for i := range storedRides {
		r, err := storedRides[i].ToDomain()
		if err != nil {
			return fmt.Errorf("failed to decode ride %s: %w", storedRides[i].ID, err)
		}
		rides[r.ID] = r
		fingerprints[r.Fingerprint] = r.ID
	}

	contributions, err := e.store.GetAllContributions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load contributions: %w", err)
	}
	contribs := make(map[string]map[string][]coverage.Interval)
	for _, c := range contributions {
		intervals, err := (&schema.RidePath{Intervals: c.Intervals}).DecodeIntervals()
		if err != nil {
			return fmt.Errorf("failed to decode contribution for path %s: %w", c.PathID, err)
		}
		byRide := contribs[c.PathID]
		if byRide == nil {
			byRide = make(map[string][]coverage.Interval)
			contribs[c.PathID] = byRide
		}
		byRide[c.RideID] = intervals
	}

	m := e.newMatcher(paths)

	e.mu.Lock()
	e.matcher = m
	e.paths = paths
	e.rides = rides
	e.fingerprints = fingerprints
	e.contribs = contribs
	e.mu.Unlock()

	logger.InfoCtx(ctx, "Coverage state loaded",
		zap.Int("paths", len(paths)),
		zap.Int("rides", len(rides)))

	return nil
}

// newMatcher builds a matcher snapshot over the given network
func (e *engine) newMatcher(paths map[string]*domain.Path) *matcher.Matcher {
	list := make([]domain.Path, 0, len(paths))
	for _, p := range paths {
		list = append(list, *p)
	}
	return matcher.New(e.cfg.Matching, list)
}

// Paths returns the current coverage state of the network, optionally filtered
func (e *engine) Paths(filter domain.PathFilter) []domain.Path {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]domain.Path, 0, len(e.paths))
	for _, p := range e.paths {
		if !matchesFilter(p, filter) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Path returns the current state of a single path
func (e *engine) Path(pathID string) (*domain.Path, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	p, ok := e.paths[pathID]
	if !ok {
		return nil, domain.ErrUnknownPath
	}
	clone := *p
	return &clone, nil
}

// Rides lists the stored rides, most recently recorded first. Rides without
// a recorded date sort last.
func (e *engine) Rides() []domain.Ride {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]domain.Ride, 0, len(e.rides))
	for _, r := range e.rides {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].DateRecorded, out[j].DateRecorded
		switch {
		case a == nil && b == nil:
			return out[i].ID < out[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case a.Equal(*b):
			return out[i].ID < out[j].ID
		default:
			return a.After(*b)
		}
	})
	return out
}

// Ride returns a single stored ride
func (e *engine) Ride(rideID string) (*domain.Ride, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	r, ok := e.rides[rideID]
	if !ok {
		return nil, domain.ErrUnknownRide
	}
	clone := *r
	return &clone, nil
}

// Statistics summarizes network coverage overall and per group
func (e *engine) Statistics() *domain.Statistics {
	e.mu.RLock()
	defer e.mu.RUnlock()

	paths := make([]domain.Path, 0, len(e.paths))
	for _, p := range e.paths {
		paths = append(paths, *p)
	}
	return coverage.Summarize(paths)
}

// Areas lists the distinct areas present in the network
func (e *engine) Areas() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, p := range e.paths {
		if p.Area != nil && *p.Area != "" {
			seen[*p.Area] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// PathTypes lists the distinct path types present in the network
func (e *engine) PathTypes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, p := range e.paths {
		if p.PathType != "" {
			seen[p.PathType] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// matchesFilter reports whether a path passes the filter. Paths without an
// area or type match the unknown group key.
func matchesFilter(p *domain.Path, f domain.PathFilter) bool {
	if len(f.Areas) > 0 {
		area := domain.UNKNOWN_GROUP_KEY
		if p.Area != nil && *p.Area != "" {
			area = *p.Area
		}
		if !containsString(f.Areas, area) {
			return false
		}
	}
	if len(f.PathTypes) > 0 {
		pathType := p.PathType
		if pathType == "" {
			pathType = domain.UNKNOWN_GROUP_KEY
		}
		if !containsString(f.PathTypes, pathType) {
			return false
		}
	}
	if f.Ridden != nil && p.IsRidden != *f.Ridden {
		return false
	}
	if f.MinCoverage != nil && p.CoverageFraction < *f.MinCoverage {
		return false
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// contributionList builds the coverage inputs for one path from a
// contribution set, attaching each ride's recorded date. A ride ID may be
// excluded, for recomputation without it.
func (e *engine) contributionList(byRide map[string][]coverage.Interval, exclude string) []coverage.Contribution {
	out := make([]coverage.Contribution, 0, len(byRide))
	for rideID, intervals := range byRide {
		if rideID == exclude {
			continue
		}
		var riddenAt *time.Time
		if r := e.rides[rideID]; r != nil {
			riddenAt = r.DateRecorded
		}
		out = append(out, coverage.Contribution{
			RideID:    rideID,
			Intervals: intervals,
			RiddenAt:  riddenAt,
		})
	}
	return out
}

// coverageUpdate translates a derived state into its store representation
func coverageUpdate(pathID string, s domain.CoverageState) store.PathCoverageUpdate {
	return store.PathCoverageUpdate{
		PathID:           pathID,
		CoverageFraction: s.CoverageFraction,
		RiddenKM:         s.RiddenKM,
		IsRidden:         s.IsRidden,
		LastRiddenDate:   s.LastRiddenDate,
	}
}

// publishEvent reports a committed coverage change. Delivery failures are
// logged and do not roll back the committed change.
func (e *engine) publishEvent(ctx context.Context, eventType domain.CoverageEventType, rideID string, changed []string) {
	if e.pub == nil {
		return
	}

	now := e.clock.Now()
	event := &domain.CoverageEvent{
		ID:           ulid.MustNewDefault(now).String(),
		Type:         eventType,
		RideID:       rideID,
		ChangedPaths: changed,
		OccurredAt:   now,
	}
	if err := e.pub.PublishEvent(ctx, event); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("event_type", string(eventType)))
	}
}
