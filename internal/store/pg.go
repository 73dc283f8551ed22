package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/waycover/waycover/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	// Set defaults if not provided
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// calculateSafeBatchSize computes the optimal batch size for bulk inserts to avoid
// PostgreSQL's "extended protocol limited to 65535 parameters" error.
//
// PostgreSQL's extended protocol has a hard limit of 65535 parameters per query.
// When doing batch inserts with GORM, each record consumes multiple parameters
// (one per field being inserted), and ON CONFLICT clauses may add additional parameters.
//
// Parameters:
//   - totalRecords: total number of records to insert
//   - fieldsPerRecord: number of fields/parameters per record
//
// Returns the safe batch size that won't exceed the parameter limit.
//
// Example with headroom of 1000:
//   - Path struct: 14 fields → (65,535 - 1,000) / 14 = 4,609 records/batch
//   - RidePath struct: 5 fields → (65,535 - 1,000) / 5 = 12,907 records/batch
//
// The function uses a total headroom to account for batch-level overhead:
//   - GORM-added timestamp fields (created_at, updated_at) across all records
//   - ON CONFLICT clause parameters (can be significant with multi-column conflicts)
//   - Query metadata and internal GORM bookkeeping
//
// Total headroom is more accurate than per-record overhead because some costs
// are fixed per batch, not scaled per record.
func calculateSafeBatchSize(totalRecords int, fieldsPerRecord int) int {
	const maxParams = 65535
	const totalHeadroom = 1000 // Total parameter headroom for batch-level overhead

	// Reserve headroom from total available parameters
	availableParams := maxParams - totalHeadroom
	safeBatchSize := max(availableParams/fieldsPerRecord, 1)

	if safeBatchSize > totalRecords {
		return totalRecords
	}

	return safeBatchSize
}

// applyCoverageUpdates writes recomputed coverage state for each path inside
// the given transaction. GORM sets updated_at on every touched row.
func applyCoverageUpdates(tx *gorm.DB, updates []PathCoverageUpdate) error {
	for _, u := range updates {
		values := map[string]interface{}{
			"coverage_fraction": u.CoverageFraction,
			"ridden_km":         u.RiddenKM,
			"is_ridden":         u.IsRidden,
			"last_ridden_date":  u.LastRiddenDate,
		}
		if err := tx.Model(&schema.Path{}).Where("id = ?", u.PathID).Updates(values).Error; err != nil {
			return fmt.Errorf("failed to update coverage for path %s: %w", u.PathID, err)
		}
	}
	return nil
}

// GetPaths retrieves all paths in the network
func (s *pgStore) GetPaths(ctx context.Context) ([]schema.Path, error) {
	var paths []schema.Path
	if err := s.db.WithContext(ctx).Find(&paths).Error; err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	return paths, nil
}

// GetPathByID retrieves a single path by its ID
func (s *pgStore) GetPathByID(ctx context.Context, pathID string) (*schema.Path, error) {
	var path schema.Path
	err := s.db.WithContext(ctx).Where("id = ?", pathID).First(&path).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get path by ID: %w", err)
	}
	return &path, nil
}

// ListPaths retrieves a page of paths ordered by ID
func (s *pgStore) ListPaths(ctx context.Context, offset, limit int) ([]schema.Path, error) {
	var paths []schema.Path
	err := s.db.WithContext(ctx).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&paths).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list paths: %w", err)
	}
	return paths, nil
}

// CountPaths returns the total number of paths
func (s *pgStore) CountPaths(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&schema.Path{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count paths: %w", err)
	}
	return count, nil
}

// CommitNetworkImport atomically replaces the path network and the rematched
// ride contributions. Rides themselves are untouched; their contributions are
// recomputed against the new network by the caller and passed in wholesale.
func (s *pgStore) CommitNetworkImport(ctx context.Context, paths []schema.Path, ridePaths []schema.RidePath) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Drop all existing contributions; they reference the old network
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&schema.RidePath{}).Error; err != nil {
			return fmt.Errorf("failed to delete ride contributions: %w", err)
		}

		// 2. Drop the old network
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&schema.Path{}).Error; err != nil {
			return fmt.Errorf("failed to delete paths: %w", err)
		}

		// 3. Insert the new network in parameter-safe batches
		if len(paths) > 0 {
			batchSize := calculateSafeBatchSize(len(paths), 14)
			if err := tx.CreateInBatches(paths, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert paths: %w", err)
			}
		}

		// 4. Insert the rematched contributions
		if len(ridePaths) > 0 {
			batchSize := calculateSafeBatchSize(len(ridePaths), 5)
			if err := tx.CreateInBatches(ridePaths, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert ride contributions: %w", err)
			}
		}

		return nil
	})
}

// UpdatePathCoverage applies recomputed coverage state to paths
func (s *pgStore) UpdatePathCoverage(ctx context.Context, updates []PathCoverageUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyCoverageUpdates(tx, updates)
	})
}

// GetRides retrieves all stored rides
func (s *pgStore) GetRides(ctx context.Context) ([]schema.Ride, error) {
	var rides []schema.Ride
	if err := s.db.WithContext(ctx).Find(&rides).Error; err != nil {
		return nil, fmt.Errorf("failed to get rides: %w", err)
	}
	return rides, nil
}

// GetRideByID retrieves a single ride by its ID
func (s *pgStore) GetRideByID(ctx context.Context, rideID string) (*schema.Ride, error) {
	var ride schema.Ride
	err := s.db.WithContext(ctx).Where("id = ?", rideID).First(&ride).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ride by ID: %w", err)
	}
	return &ride, nil
}

// GetRideByFingerprint retrieves a ride by its content fingerprint
func (s *pgStore) GetRideByFingerprint(ctx context.Context, fingerprint string) (*schema.Ride, error) {
	var ride schema.Ride
	err := s.db.WithContext(ctx).Where("fingerprint = ?", fingerprint).First(&ride).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ride by fingerprint: %w", err)
	}
	return &ride, nil
}

// CreateRide atomically persists a ride, its path contributions and the
// resulting coverage updates. Returns false when a ride with the same
// fingerprint already exists; nothing is written in that case.
func (s *pgStore) CreateRide(ctx context.Context, ride *schema.Ride, ridePaths []schema.RidePath, updates []PathCoverageUpdate) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Insert the ride, relying on the fingerprint unique constraint
		// to detect resubmissions of the same trace
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "fingerprint"}},
			DoNothing: true,
		}).Create(ride)
		if res.Error != nil {
			return fmt.Errorf("failed to create ride: %w", res.Error)
		}

		// A duplicate fingerprint inserts nothing; leave existing state alone
		if res.RowsAffected == 0 {
			return nil
		}
		created = true

		// 2. Record which paths the ride touched and where
		if len(ridePaths) > 0 {
			batchSize := calculateSafeBatchSize(len(ridePaths), 5)
			if err := tx.CreateInBatches(ridePaths, batchSize).Error; err != nil {
				return fmt.Errorf("failed to create ride contributions: %w", err)
			}
		}

		// 3. Apply the recomputed coverage of the touched paths
		if err := applyCoverageUpdates(tx, updates); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// DeleteRide atomically removes a ride and applies the recomputed coverage of
// the paths it touched. Contributions are removed by the ride_paths cascade.
// Returns false when the ride does not exist.
func (s *pgStore) DeleteRide(ctx context.Context, rideID string, updates []PathCoverageUpdate) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Remove the ride; ride_paths rows go with it
		res := tx.Where("id = ?", rideID).Delete(&schema.Ride{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete ride: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true

		// 2. Apply the recomputed coverage of the paths it contributed to
		if err := applyCoverageUpdates(tx, updates); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// GetContributionsByPathIDs retrieves the ride contributions for the given
// paths joined with each ride's recorded date
func (s *pgStore) GetContributionsByPathIDs(ctx context.Context, pathIDs []string) ([]PathContribution, error) {
	if len(pathIDs) == 0 {
		return nil, nil
	}
	var contributions []PathContribution
	err := s.db.WithContext(ctx).
		Table("ride_paths").
		Select("ride_paths.path_id, ride_paths.ride_id, ride_paths.intervals, rides.date_recorded").
		Joins("JOIN rides ON rides.id = ride_paths.ride_id").
		Where("ride_paths.path_id IN ?", pathIDs).
		Scan(&contributions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get contributions by path IDs: %w", err)
	}
	return contributions, nil
}

// GetAllContributions retrieves every ride contribution in the store
func (s *pgStore) GetAllContributions(ctx context.Context) ([]PathContribution, error) {
	var contributions []PathContribution
	err := s.db.WithContext(ctx).
		Table("ride_paths").
		Select("ride_paths.path_id, ride_paths.ride_id, ride_paths.intervals, rides.date_recorded").
		Joins("JOIN rides ON rides.id = ride_paths.ride_id").
		Scan(&contributions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all contributions: %w", err)
	}
	return contributions, nil
}
