package schema

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/waycover/waycover/internal/coverage"
)

// RidePath represents the ride_paths table - the cached contribution of one
// ride to one path. Rows are the inputs for coverage recomputation, so a
// path's state can be rebuilt without rematching traces.
type RidePath struct {
	// RideID references the contributing ride
	RideID string `gorm:"column:ride_id;primaryKey;type:text"`
	// PathID references the covered path
	PathID string `gorm:"column:path_id;primaryKey;type:text;index:idx_ride_paths_path_id"`
	// Intervals is a JSON array of the matched stretches of the path's arc length
	Intervals datatypes.JSON `gorm:"column:intervals;not null"`
	// CoveredKM is the summed length of the intervals in kilometers
	CoveredKM float64 `gorm:"column:covered_km;not null;default:0"`
	// CreatedAt is the timestamp when the contribution was stored
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
}

// TableName specifies the table name for the RidePath model
func (RidePath) TableName() string {
	return "ride_paths"
}

// NewRidePath builds the storage representation of one ride's contribution
// to one path
func NewRidePath(rideID, pathID string, intervals []coverage.Interval) (*RidePath, error) {
	data, err := json.Marshal(intervals)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal contribution intervals: %w", err)
	}

	return &RidePath{
		RideID:    rideID,
		PathID:    pathID,
		Intervals: data,
		CoveredKM: coverage.TotalLength(intervals),
	}, nil
}

// DecodeIntervals returns the matched stretches stored on the contribution
func (rp *RidePath) DecodeIntervals() ([]coverage.Interval, error) {
	var intervals []coverage.Interval
	if err := json.Unmarshal(rp.Intervals, &intervals); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contribution intervals: %w", err)
	}
	return intervals, nil
}
