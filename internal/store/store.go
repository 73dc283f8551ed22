package store

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/waycover/waycover/internal/store/schema"
)

//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore

// PathCoverageUpdate carries the recomputed coverage state for a single path.
type PathCoverageUpdate struct {
	PathID           string
	CoverageFraction float64
	RiddenKM         float64
	IsRidden         bool
	LastRiddenDate   *time.Time
}

// PathContribution is a flat projection of a ride_paths row joined with the
// owning ride's recorded date. It avoids loading ride traces during coverage
// recomputation.
type PathContribution struct {
	PathID       string         `gorm:"column:path_id"`
	RideID       string         `gorm:"column:ride_id"`
	Intervals    datatypes.JSON `gorm:"column:intervals"`
	DateRecorded *time.Time     `gorm:"column:date_recorded"`
}

// Store defines the interface for database operations
type Store interface {
	// GetPaths retrieves all paths in the network
	GetPaths(ctx context.Context) ([]schema.Path, error)
	// GetPathByID retrieves a single path by its ID
	GetPathByID(ctx context.Context, pathID string) (*schema.Path, error)
	// ListPaths retrieves a page of paths ordered by ID
	ListPaths(ctx context.Context, offset, limit int) ([]schema.Path, error)
	// CountPaths returns the total number of paths
	CountPaths(ctx context.Context) (int64, error)
	// CommitNetworkImport atomically replaces the path network and the
	// rematched ride contributions
	CommitNetworkImport(ctx context.Context, paths []schema.Path, ridePaths []schema.RidePath) error
	// UpdatePathCoverage applies recomputed coverage state to paths
	UpdatePathCoverage(ctx context.Context, updates []PathCoverageUpdate) error

	// GetRides retrieves all stored rides
	GetRides(ctx context.Context) ([]schema.Ride, error)
	// GetRideByID retrieves a single ride by its ID
	GetRideByID(ctx context.Context, rideID string) (*schema.Ride, error)
	// GetRideByFingerprint retrieves a ride by its content fingerprint
	GetRideByFingerprint(ctx context.Context, fingerprint string) (*schema.Ride, error)
	// CreateRide atomically persists a ride, its path contributions and the
	// resulting coverage updates. Returns false when a ride with the same
	// fingerprint already exists.
	CreateRide(ctx context.Context, ride *schema.Ride, ridePaths []schema.RidePath, updates []PathCoverageUpdate) (bool, error)
	// DeleteRide atomically removes a ride and applies the recomputed
	// coverage of the paths it touched. Returns false when the ride does
	// not exist.
	DeleteRide(ctx context.Context, rideID string, updates []PathCoverageUpdate) (bool, error)

	// GetContributionsByPathIDs retrieves the ride contributions for the
	// given paths joined with each ride's recorded date
	GetContributionsByPathIDs(ctx context.Context, pathIDs []string) ([]PathContribution, error)
	// GetAllContributions retrieves every ride contribution in the store
	GetAllContributions(ctx context.Context) ([]PathContribution, error)
}
