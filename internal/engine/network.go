package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/waycover/waycover/internal/coverage"
	"github.com/waycover/waycover/internal/domain"
	"github.com/waycover/waycover/internal/logger"
	"github.com/waycover/waycover/internal/matcher"
	"github.com/waycover/waycover/internal/store/schema"
)

// ImportNetwork installs a path network and rematches every stored ride
// against it. Path lengths are measured here; any coverage state on the
// input is discarded and derived fresh from the rematch. Records with invalid
// or degenerate geometry are skipped, not fatal; an import where every record
// is unusable fails with ErrEmptyNetwork.
func (e *engine) ImportNetwork(ctx context.Context, paths []domain.Path, replace bool) (*domain.ImportResult, error) {
	if len(paths) == 0 {
		return nil, domain.ErrEmptyNetwork
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	skipped := 0
	incoming := make(map[string]*domain.Path, len(paths))
	for i := range paths {
		p := paths[i]
		if len(p.Geometry) < 2 || !p.Geometry.Valid() {
			logger.WarnCtx(ctx, "Skipping path with malformed geometry",
				zap.String("path_id", p.ID),
				zap.Int("points", len(p.Geometry)))
			skipped++
			continue
		}
		p.LengthKM = p.Geometry.LengthKM(e.cfg.Matching.DistanceMode)
		p.SetCoverage(domain.CoverageState{})
		incoming[p.ID] = &p
	}
	if len(incoming) == 0 {
		return nil, domain.ErrEmptyNetwork
	}

	// Merge into the current network unless this import replaces it
	next := incoming
	if !replace {
		next = make(map[string]*domain.Path, len(e.paths)+len(incoming))
		for id, p := range e.paths {
			kept := *p
			kept.SetCoverage(domain.CoverageState{})
			next[id] = &kept
		}
		for id, p := range incoming {
			next[id] = p
		}
	}

	m := e.newMatcher(next)

	rideIDs := make([]string, 0, len(e.rides))
	for id := range e.rides {
		rideIDs = append(rideIDs, id)
	}
	sort.Strings(rideIDs)

	contribs, err := e.rematch(m, rideIDs)
	if err != nil {
		return nil, err
	}

	// Derive the coverage of every path from its rematched contributions
	for id, p := range next {
		byRide := contribs[id]
		if len(byRide) == 0 {
			continue
		}
		p.SetCoverage(coverage.Derive(p.LengthKM, e.contributionList(byRide, "")))
	}

	// A path counts as changed when its state differs from what it had
	// before the import; paths new to the network compare against zero
	changed := make([]string, 0)
	for id, p := range next {
		var before domain.CoverageState
		if old := e.paths[id]; old != nil {
			before = old.Coverage()
		}
		if !p.Coverage().Equal(before) {
			changed = append(changed, id)
		}
	}
	sort.Strings(changed)

	storedPaths := make([]schema.Path, 0, len(next))
	for _, id := range sortedPathIDs(next) {
		sp, err := schema.PathFromDomain(next[id])
		if err != nil {
			return nil, fmt.Errorf("failed to encode path %s: %w", id, err)
		}
		storedPaths = append(storedPaths, *sp)
	}

	storedRidePaths := make([]schema.RidePath, 0)
	for _, pathID := range sortedContribPathIDs(contribs) {
		byRide := contribs[pathID]
		rideIDs := make([]string, 0, len(byRide))
		for rideID := range byRide {
			rideIDs = append(rideIDs, rideID)
		}
		sort.Strings(rideIDs)
		for _, rideID := range rideIDs {
			rp, err := schema.NewRidePath(rideID, pathID, byRide[rideID])
			if err != nil {
				return nil, fmt.Errorf("failed to encode contribution: %w", err)
			}
			storedRidePaths = append(storedRidePaths, *rp)
		}
	}

	if err := e.store.CommitNetworkImport(ctx, storedPaths, storedRidePaths); err != nil {
		return nil, fmt.Errorf("failed to commit network import: %w", err)
	}

	e.mu.Lock()
	e.matcher = m
	e.paths = next
	e.contribs = contribs
	e.mu.Unlock()

	e.publishEvent(ctx, domain.CoverageEventNetworkImported, "", changed)

	logger.InfoCtx(ctx, "Network imported",
		zap.Int("paths", len(next)),
		zap.Int("paths_skipped", skipped),
		zap.Int("rides_rematched", len(rideIDs)),
		zap.Int("paths_changed", len(changed)),
		zap.Bool("replace", replace))

	return &domain.ImportResult{
		PathsImported:  len(next),
		PathsSkipped:   skipped,
		RidesRematched: len(rideIDs),
		ChangedPaths:   changed,
	}, nil
}

// rematch matches every given ride against a new network snapshot and
// returns the resulting contribution set
func (e *engine) rematch(m *matcher.Matcher, rideIDs []string) (map[string]map[string][]coverage.Interval, error) {
	workers := e.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]map[string][]coverage.Interval, len(rideIDs))
	errs := make([]error, len(rideIDs))

	pool := pond.NewPool(workers)
	for i, rideID := range rideIDs {
		ride := e.rides[rideID]
		pool.Submit(func() {
			results[i], errs[i] = m.Match(ride.Trace.Polyline())
		})
	}
	pool.StopAndWait()

	contribs := make(map[string]map[string][]coverage.Interval)
	for i, rideID := range rideIDs {
		if errs[i] != nil {
			// Stored rides were validated when they came in
			return nil, fmt.Errorf("failed to rematch ride %s: %w", rideID, errs[i])
		}
		for pathID, intervals := range results[i] {
			byRide := contribs[pathID]
			if byRide == nil {
				byRide = make(map[string][]coverage.Interval)
				contribs[pathID] = byRide
			}
			byRide[rideID] = intervals
		}
	}
	return contribs, nil
}

func sortedPathIDs(paths map[string]*domain.Path) []string {
	out := make([]string, 0, len(paths))
	for id := range paths {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func sortedContribPathIDs(contribs map[string]map[string][]coverage.Interval) []string {
	out := make([]string, 0, len(contribs))
	for id := range contribs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
