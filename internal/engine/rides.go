package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/waycover/waycover/internal/coverage"
	"github.com/waycover/waycover/internal/domain"
	"github.com/waycover/waycover/internal/logger"
	"github.com/waycover/waycover/internal/matcher"
	"github.com/waycover/waycover/internal/store"
	"github.com/waycover/waycover/internal/store/schema"
)

// fingerprintPoint is the per-point content that identifies a trace
type fingerprintPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// fingerprintPayload is canonicalized and hashed to detect duplicate
// submissions. Two traces with the same coordinates and start time are the
// same ride regardless of file name or format.
type fingerprintPayload struct {
	StartTime *time.Time         `json:"start_time,omitempty"`
	Points    []fingerprintPoint `json:"points"`
}

// fingerprint returns the canonical content hash of a trace
func (e *engine) fingerprint(t *domain.Trace) (string, error) {
	payload := fingerprintPayload{
		StartTime: t.StartTime(),
		Points:    make([]fingerprintPoint, len(t.Points)),
	}
	for i, p := range t.Points {
		payload.Points[i] = fingerprintPoint{Lat: p.Lat, Lon: p.Lon}
	}

	raw, err := e.json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal trace fingerprint: %w", err)
	}
	canonical, err := e.jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize trace fingerprint: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// pendingRide carries one submission through the match and apply phases
type pendingRide struct {
	sub     domain.RideSubmission
	fp      string
	matches map[string][]coverage.Interval
	reason  string // non-empty when the submission is rejected
}

// AddRide validates, matches and stores a single ride trace
func (e *engine) AddRide(ctx context.Context, sub domain.RideSubmission) (*domain.AddRideResult, error) {
	results, err := e.AddRides(ctx, []domain.RideSubmission{sub})
	if err != nil {
		return nil, err
	}
	return &results[0], nil
}

// AddRides processes a batch of submissions in submission order. Matching
// runs in parallel against the current network snapshot; results are then
// applied one by one, so a duplicate of an earlier batch entry is reported
// as such. A returned error aborts the batch; the results accumulated before
// the failing entry are returned with it, each of them already committed.
func (e *engine) AddRides(ctx context.Context, subs []domain.RideSubmission) ([]domain.AddRideResult, error) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	if e.matcher == nil || e.matcher.Len() == 0 {
		return nil, domain.ErrNetworkNotLoaded
	}

	pending := make([]*pendingRide, len(subs))
	for i := range subs {
		pending[i] = &pendingRide{sub: subs[i]}
	}

	e.matchPending(e.matcher, pending)

	results := make([]domain.AddRideResult, 0, len(pending))
	for _, p := range pending {
		result, err := e.applyRide(ctx, p)
		if err != nil {
			return results, err
		}
		results = append(results, *result)
	}
	return results, nil
}

// matchPending fingerprints and matches every submission against the given
// network snapshot. Rejections are recorded per submission.
func (e *engine) matchPending(m *matcher.Matcher, pending []*pendingRide) {
	workers := e.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	pool := pond.NewPool(workers)
	for _, p := range pending {
		pool.Submit(func() {
			fp, err := e.fingerprint(&p.sub.Trace)
			if err != nil {
				p.reason = err.Error()
				return
			}
			p.fp = fp

			matches, err := m.Match(p.sub.Trace.Polyline())
			if err != nil {
				p.reason = err.Error()
				return
			}
			p.matches = matches
		})
	}
	pool.StopAndWait()
}

// applyRide commits a single prepared submission
func (e *engine) applyRide(ctx context.Context, p *pendingRide) (*domain.AddRideResult, error) {
	if p.reason != "" {
		return &domain.AddRideResult{Status: domain.AddRideRejected, Reason: p.reason}, nil
	}

	// Duplicate of a stored ride or of an earlier entry in the batch
	if rideID, ok := e.fingerprints[p.fp]; ok {
		clone := *e.rides[rideID]
		return &domain.AddRideResult{Status: domain.AddRideDuplicate, Ride: &clone}, nil
	}

	ride := e.buildRide(p)

	updates, changed, states := e.recomputeWith(ride, p.matches)

	stored, err := schema.RideFromDomain(ride)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ride: %w", err)
	}
	ridePaths := make([]schema.RidePath, 0, len(p.matches))
	for _, pathID := range sortedMatchIDs(p.matches) {
		rp, err := schema.NewRidePath(ride.ID, pathID, p.matches[pathID])
		if err != nil {
			return nil, fmt.Errorf("failed to encode contribution: %w", err)
		}
		ridePaths = append(ridePaths, *rp)
	}

	created, err := e.store.CreateRide(ctx, stored, ridePaths, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to store ride: %w", err)
	}
	if !created {
		// The store knows this fingerprint even though memory does not.
		// Report the duplicate; Reload reconciles the drift.
		existing, err := e.store.GetRideByFingerprint(ctx, ride.Fingerprint)
		if err != nil {
			return nil, fmt.Errorf("failed to load duplicate ride: %w", err)
		}
		if existing == nil {
			return nil, fmt.Errorf("ride %s conflicted on fingerprint but no ride carries it", ride.ID)
		}
		dup, err := existing.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("failed to decode duplicate ride: %w", err)
		}
		logger.WarnCtx(ctx, "Fingerprint known to store but not in memory",
			zap.String("fingerprint", ride.Fingerprint),
			zap.String("ride_id", dup.ID))
		return &domain.AddRideResult{Status: domain.AddRideDuplicate, Ride: dup}, nil
	}

	e.commitRide(ride, p.matches, states)
	e.publishEvent(ctx, domain.CoverageEventRideAdded, ride.ID, changed)

	logger.InfoCtx(ctx, "Ride added",
		zap.String("ride_id", ride.ID),
		zap.Int("paths_touched", len(p.matches)),
		zap.Int("paths_changed", len(changed)))

	return &domain.AddRideResult{Status: domain.AddRideCreated, Ride: ride, ChangedPaths: changed}, nil
}

// buildRide assembles the stored form of a new submission. The recorded date
// falls back to the first trace timestamp and the distance to the trace's
// own length.
func (e *engine) buildRide(p *pendingRide) *domain.Ride {
	sub := p.sub

	recorded := sub.DateRecorded
	if recorded == nil {
		recorded = sub.Trace.StartTime()
	}
	distance := sub.DistanceKM
	if distance <= 0 {
		distance = sub.Trace.Polyline().LengthKM(e.cfg.Matching.DistanceMode)
	}

	return &domain.Ride{
		ID:             uuid.New().String(),
		Fingerprint:    p.fp,
		Filename:       sub.Filename,
		Name:           sub.Name,
		DateRecorded:   recorded,
		DistanceKM:     distance,
		ElevationGainM: sub.ElevationGainM,
		Trace:          sub.Trace,
	}
}

// recomputeWith derives the coverage every matched path would have with the
// new ride's contribution added. It returns store updates and the changed
// path IDs for the paths whose state actually moves, and the derived state
// of every matched path for the in-memory commit.
func (e *engine) recomputeWith(ride *domain.Ride, matches map[string][]coverage.Interval) ([]store.PathCoverageUpdate, []string, map[string]domain.CoverageState) {
	pathIDs := sortedMatchIDs(matches)

	updates := make([]store.PathCoverageUpdate, 0, len(pathIDs))
	changed := make([]string, 0, len(pathIDs))
	states := make(map[string]domain.CoverageState, len(pathIDs))
	for _, pathID := range pathIDs {
		path := e.paths[pathID]
		if path == nil {
			continue
		}
		list := e.contributionList(e.contribs[pathID], "")
		list = append(list, coverage.Contribution{
			RideID:    ride.ID,
			Intervals: matches[pathID],
			RiddenAt:  ride.DateRecorded,
		})
		state := coverage.Derive(path.LengthKM, list)
		states[pathID] = state
		if state.Equal(path.Coverage()) {
			continue
		}
		changed = append(changed, pathID)
		updates = append(updates, coverageUpdate(pathID, state))
	}
	return updates, changed, states
}

// commitRide applies a stored ride to the in-memory state
func (e *engine) commitRide(ride *domain.Ride, matches map[string][]coverage.Interval, states map[string]domain.CoverageState) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rides[ride.ID] = ride
	e.fingerprints[ride.Fingerprint] = ride.ID
	for pathID, intervals := range matches {
		path := e.paths[pathID]
		if path == nil {
			continue
		}
		byRide := e.contribs[pathID]
		if byRide == nil {
			byRide = make(map[string][]coverage.Interval)
			e.contribs[pathID] = byRide
		}
		byRide[ride.ID] = intervals
		path.SetCoverage(states[pathID])
	}
}

// DeleteRide removes a ride and recomputes the coverage of the paths it
// touched. Paths the ride did not contribute to are left alone.
func (e *engine) DeleteRide(ctx context.Context, rideID string) (*domain.DeleteRideResult, error) {
	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	ride := e.rides[rideID]
	if ride == nil {
		return nil, domain.ErrUnknownRide
	}

	affected := make([]string, 0)
	for pathID, byRide := range e.contribs {
		if _, ok := byRide[rideID]; ok {
			affected = append(affected, pathID)
		}
	}
	sort.Strings(affected)

	updates := make([]store.PathCoverageUpdate, 0, len(affected))
	changed := make([]string, 0, len(affected))
	states := make(map[string]domain.CoverageState, len(affected))
	for _, pathID := range affected {
		path := e.paths[pathID]
		if path == nil {
			continue
		}
		state := coverage.Derive(path.LengthKM, e.contributionList(e.contribs[pathID], rideID))
		states[pathID] = state
		if state.Equal(path.Coverage()) {
			continue
		}
		changed = append(changed, pathID)
		updates = append(updates, coverageUpdate(pathID, state))
	}

	deleted, err := e.store.DeleteRide(ctx, rideID, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to delete ride: %w", err)
	}
	if !deleted {
		return nil, domain.ErrUnknownRide
	}

	e.mu.Lock()
	delete(e.rides, rideID)
	delete(e.fingerprints, ride.Fingerprint)
	for _, pathID := range affected {
		byRide := e.contribs[pathID]
		delete(byRide, rideID)
		if len(byRide) == 0 {
			delete(e.contribs, pathID)
		}
		if path := e.paths[pathID]; path != nil {
			path.SetCoverage(states[pathID])
		}
	}
	e.mu.Unlock()

	e.publishEvent(ctx, domain.CoverageEventRideDeleted, rideID, changed)

	logger.InfoCtx(ctx, "Ride deleted",
		zap.String("ride_id", rideID),
		zap.Int("paths_changed", len(changed)))

	return &domain.DeleteRideResult{ChangedPaths: changed}, nil
}

func sortedMatchIDs(matches map[string][]coverage.Interval) []string {
	out := make([]string, 0, len(matches))
	for pathID := range matches {
		out = append(out, pathID)
	}
	sort.Strings(out)
	return out
}
