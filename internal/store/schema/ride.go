package schema

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/waycover/waycover/internal/domain"
)

// Ride represents the rides table - one row per accepted ride trace
type Ride struct {
	// ID is the ride identifier (UUID)
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Fingerprint is the canonical content hash used to detect duplicate submissions
	Fingerprint string `gorm:"column:fingerprint;not null;uniqueIndex;type:text"`
	// Filename is the name of the trace file the ride was decoded from
	Filename string `gorm:"column:filename;not null;type:text"`
	// Name is the display name of the ride, if any
	Name *string `gorm:"column:name;type:text"`
	// DateRecorded is when the ride was recorded, if known
	DateRecorded *time.Time `gorm:"column:date_recorded;index:idx_rides_date_recorded"`
	// DistanceKM is the total recorded distance in kilometers
	DistanceKM float64 `gorm:"column:distance_km;not null;default:0"`
	// ElevationGainM is the total elevation gain in meters, if known
	ElevationGainM *float64 `gorm:"column:elevation_gain_m"`
	// Trace is the recorded track as a JSON array of trace points
	Trace datatypes.JSON `gorm:"column:trace;not null"`
	// CreatedAt is the timestamp when the ride was stored
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`

	// Associations
	RidePaths []RidePath `gorm:"foreignKey:RideID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Ride model
func (Ride) TableName() string {
	return "rides"
}

// tracePointJSON is the storage encoding of a single trace point
type tracePointJSON struct {
	Lat        float64    `json:"lat"`
	Lon        float64    `json:"lon"`
	ElevationM *float64   `json:"ele,omitempty"`
	Time       *time.Time `json:"time,omitempty"`
}

// RideFromDomain converts a domain ride to its storage representation
func RideFromDomain(r *domain.Ride) (*Ride, error) {
	points := make([]tracePointJSON, len(r.Trace.Points))
	for i, p := range r.Trace.Points {
		points[i] = tracePointJSON{
			Lat:        p.Lat,
			Lon:        p.Lon,
			ElevationM: p.ElevationM,
			Time:       p.Time,
		}
	}

	trace, err := json.Marshal(points)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ride trace: %w", err)
	}

	return &Ride{
		ID:             r.ID,
		Fingerprint:    r.Fingerprint,
		Filename:       r.Filename,
		Name:           r.Name,
		DateRecorded:   r.DateRecorded,
		DistanceKM:     r.DistanceKM,
		ElevationGainM: r.ElevationGainM,
		Trace:          trace,
	}, nil
}

// ToDomain converts a stored ride back to its domain representation
func (r *Ride) ToDomain() (*domain.Ride, error) {
	var points []tracePointJSON
	if err := json.Unmarshal(r.Trace, &points); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ride trace: %w", err)
	}

	trace := domain.Trace{Points: make([]domain.TracePoint, len(points))}
	for i, p := range points {
		trace.Points[i] = domain.TracePoint{
			Lat:        p.Lat,
			Lon:        p.Lon,
			ElevationM: p.ElevationM,
			Time:       p.Time,
		}
	}

	return &domain.Ride{
		ID:             r.ID,
		Fingerprint:    r.Fingerprint,
		Filename:       r.Filename,
		Name:           r.Name,
		DateRecorded:   r.DateRecorded,
		DistanceKM:     r.DistanceKM,
		ElevationGainM: r.ElevationGainM,
		Trace:          trace,
	}, nil
}
