package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/waycover/waycover/internal/adapter"
	"github.com/waycover/waycover/internal/coverage"
	"github.com/waycover/waycover/internal/domain"
	"github.com/waycover/waycover/internal/logger"
	"github.com/waycover/waycover/internal/messaging"
	"github.com/waycover/waycover/internal/store"
	"github.com/waycover/waycover/internal/store/schema"
)

const (
	SWEEP_CYCLE_INTERVAL = 15 * time.Minute // Time to sleep between sweep cycles
)

// CoverageAuditSweeperConfig holds configuration for the coverage audit sweeper
type CoverageAuditSweeperConfig struct {
	PageSize       int // Paths to audit per page
	WorkerPoolSize int // Concurrent workers
}

// coverageAuditSweeper implements the Sweeper interface for coverage drift
// detection. It re-derives the coverage of every path from the stored ride
// contributions and repairs rows that no longer match, e.g. after a crash
// between matching and persistence or a manual database edit.
type coverageAuditSweeper struct {
	config    *CoverageAuditSweeperConfig
	store     store.Store
	publisher messaging.Publisher
	clock     adapter.Clock
	pool      pond.Pool
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewCoverageAuditSweeper creates a new coverage audit sweeper. The publisher
// may be nil when eventing is disabled.
func NewCoverageAuditSweeper(
	config *CoverageAuditSweeperConfig,
	st store.Store,
	publisher messaging.Publisher,
	clock adapter.Clock,
) Sweeper {
	return &coverageAuditSweeper{
		config:    config,
		store:     st,
		publisher: publisher,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *coverageAuditSweeper) Name() string {
	return "coverage-audit-sweeper"
}

// Start begins the sweeper's main loop
func (s *coverageAuditSweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh) // Signal that we've stopped
	}()

	logger.InfoCtx(ctx, "Starting coverage audit sweeper",
		zap.Int("page_size", s.config.PageSize),
		zap.Int("worker_pool_size", s.config.WorkerPoolSize),
	)

	// Create worker pool
	s.pool = pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithQueueSize(s.config.PageSize),
		pond.WithContext(ctx),
	)

	// Continuous loop - stops when context is canceled or stop is requested
	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Coverage audit sweeper stopping due to context cancellation", zap.Error(ctx.Err()))
			s.cleanup()
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Coverage audit sweeper stop requested")
			s.cleanup()
			return nil
		default:
			if err := s.runSweepCycle(ctx); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.ErrorCtx(ctx, err)
				}
			}
		}
	}
}

// cleanup stops the worker pool and waits for tasks to complete
func (s *coverageAuditSweeper) cleanup() {
	if s.pool != nil {
		s.pool.StopAndWait()
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *coverageAuditSweeper) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	logger.InfoCtx(ctx, "Stopping coverage audit sweeper")

	// Signal stop to the main loop
	close(s.stopChan)

	// Wait for main loop to exit, but respect context cancellation
	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Coverage audit sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Coverage audit sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runSweepCycle audits every stored path against its re-derived coverage
func (s *coverageAuditSweeper) runSweepCycle(ctx context.Context) error {
	startTime := s.clock.Now()
	logger.InfoCtx(ctx, "Starting audit cycle")

	contribs, err := s.loadContributions(ctx)
	if err != nil {
		return err
	}

	// Collect drifted rows found by the workers
	drift := sync.Map{}
	var audited int
	for offset := 0; ; offset += s.config.PageSize {
		paths, err := s.store.ListPaths(ctx, offset, s.config.PageSize)
		if err != nil {
			return fmt.Errorf("failed to list paths for audit: %w", err)
		}
		if len(paths) == 0 {
			break
		}
		audited += len(paths)

		for _, p := range paths {
			s.pool.Submit(func() {
				s.auditPath(ctx, p, contribs[p.ID], &drift)
			})
		}

		if len(paths) < s.config.PageSize {
			break
		}
	}

	// Wait for all audits to complete
	s.pool.StopAndWait()

	var updates []store.PathCoverageUpdate
	drift.Range(func(key, value interface{}) bool {
		updates = append(updates, value.(store.PathCoverageUpdate))
		return true
	})
	sort.Slice(updates, func(i, j int) bool { return updates[i].PathID < updates[j].PathID })

	// Repair all drifted rows in one batch with retry
	if err := s.flushRepairsWithRetry(ctx, updates); err != nil {
		// After all retries failed, log with high severity for monitoring/alerting
		logger.ErrorCtx(ctx, fmt.Errorf("CRITICAL: failed to flush coverage repairs after retries: %w", err),
			zap.Int("path_count", len(updates)),
		)
	} else if len(updates) > 0 {
		s.publishRepairEvent(ctx, updates)
	}

	// Recreate pool for next cycle
	s.pool = pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithQueueSize(s.config.PageSize),
		pond.WithContext(ctx),
	)

	duration := s.clock.Since(startTime)
	logger.InfoCtx(ctx, "Audit cycle completed",
		zap.Duration("duration", duration),
		zap.Int("paths_audited", audited),
		zap.Int("drift_found", len(updates)),
	)

	// Sleep for a while to avoid tight loop
	// Use context-aware sleep so we can be interrupted
	if !s.sleep(ctx, SWEEP_CYCLE_INTERVAL) {
		return ctx.Err() // Context canceled during sleep
	}

	return nil
}

// sleep sleeps for the given duration but can be interrupted by context cancellation
// Returns true if sleep completed normally, false if interrupted by context
func (s *coverageAuditSweeper) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true // Sleep completed
	case <-ctx.Done():
		return false // Interrupted by context cancellation
	case <-s.stopChan:
		return false // Interrupted by stop signal
	}
}

// loadContributions groups every stored ride contribution by path
func (s *coverageAuditSweeper) loadContributions(ctx context.Context) (map[string][]coverage.Contribution, error) {
	rows, err := s.store.GetAllContributions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load contributions: %w", err)
	}

	contribs := make(map[string][]coverage.Contribution)
	for _, row := range rows {
		intervals, err := (&schema.RidePath{Intervals: row.Intervals}).DecodeIntervals()
		if err != nil {
			return nil, fmt.Errorf("failed to decode contribution for path %s: %w", row.PathID, err)
		}
		contribs[row.PathID] = append(contribs[row.PathID], coverage.Contribution{
			RideID:    row.RideID,
			Intervals: intervals,
			RiddenAt:  row.DateRecorded,
		})
	}
	return contribs, nil
}

// auditPath compares the stored coverage of a path against the state derived
// from its contributions and records a repair when they differ
func (s *coverageAuditSweeper) auditPath(ctx context.Context, row schema.Path, contribs []coverage.Contribution, drift *sync.Map) {
	stored := domain.CoverageState{
		CoverageFraction: row.CoverageFraction,
		RiddenKM:         row.RiddenKM,
		IsRidden:         row.IsRidden,
		LastRiddenDate:   row.LastRiddenDate,
	}
	expected := coverage.Derive(row.LengthKM, contribs)
	if stored.Equal(expected) {
		return
	}

	logger.WarnCtx(ctx, "Stored coverage drifted from derived state",
		zap.String("path_id", row.ID),
		zap.Float64("stored_fraction", stored.CoverageFraction),
		zap.Float64("derived_fraction", expected.CoverageFraction),
	)

	drift.Store(row.ID, store.PathCoverageUpdate{
		PathID:           row.ID,
		CoverageFraction: expected.CoverageFraction,
		RiddenKM:         expected.RiddenKM,
		IsRidden:         expected.IsRidden,
		LastRiddenDate:   expected.LastRiddenDate,
	})
}

// flushRepairsWithRetry attempts to persist the repairs with exponential backoff retry
func (s *coverageAuditSweeper) flushRepairsWithRetry(ctx context.Context, updates []store.PathCoverageUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	// Configure exponential backoff
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 15 * time.Second
	b.MaxInterval = 2 * time.Minute
	b.MaxElapsedTime = 1 * time.Hour // Total retry time limit
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5 // Add jitter to prevent thundering herd

	// Wrap with context to respect cancellation
	backoffWithContext := backoff.WithContext(b, ctx)

	operation := func() error {
		return s.store.UpdatePathCoverage(ctx, updates)
	}

	// Execute with retry and detailed logging
	var attemptCount int
	notifyOnError := func(err error, duration time.Duration) {
		attemptCount++
		logger.WarnCtx(ctx, "Coverage repair flush failed, retrying",
			zap.Error(err),
			zap.Int("attempt", attemptCount),
			zap.Duration("next_retry_in", duration),
		)
	}

	err := backoff.RetryNotify(operation, backoffWithContext, notifyOnError)
	if err != nil {
		return fmt.Errorf("failed after %d attempts: %w", attemptCount, err)
	}

	if attemptCount > 0 {
		logger.InfoCtx(ctx, "Coverage repair flush succeeded after retries",
			zap.Int("total_attempts", attemptCount+1),
		)
	}

	logger.InfoCtx(ctx, "Repaired drifted coverage rows", zap.Int("num_paths", len(updates)))
	return nil
}

// publishRepairEvent notifies downstream consumers about repaired paths
func (s *coverageAuditSweeper) publishRepairEvent(ctx context.Context, updates []store.PathCoverageUpdate) {
	if s.publisher == nil {
		return
	}

	changed := make([]string, 0, len(updates))
	for _, u := range updates {
		changed = append(changed, u.PathID)
	}

	now := s.clock.Now()
	event := &domain.CoverageEvent{
		ID:           ulid.MustNewDefault(now).String(),
		Type:         domain.CoverageEventDriftRepaired,
		ChangedPaths: changed,
		OccurredAt:   now,
	}
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("event_type", string(event.Type)))
	}
}
