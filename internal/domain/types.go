package domain

import (
	"time"

	"github.com/waycover/waycover/internal/geo"
)

// Well-known path type designations found in imported network data. The
// network may carry other designations; they are stored as-is.
const (
	PathTypeFootpath        = "Footpath"
	PathTypeBridleway       = "Bridleway"
	PathTypeRestrictedByway = "Restricted Byway"
	PathTypeByway           = "Byway Open to All Traffic"
)

// Path is a single path in the network together with its derived coverage state
type Path struct {
	// ID uniquely identifies the path within the network
	ID string
	// SourceFID is the feature identifier carried over from the imported network data
	SourceFID string
	// RouteCode is the official route designation, if any
	RouteCode *string
	// Name is the display name of the path, if any
	Name *string
	// PathType classifies the path, e.g. "Footpath" or "Bridleway"
	PathType string
	// Area is the administrative area the path belongs to, if known
	Area *string
	// Geometry is the path centerline
	Geometry geo.Polyline
	// LengthKM is the arc length of the geometry in kilometers
	LengthKM float64
	// CoverageFraction is the ridden share of the path in [0, 1]
	CoverageFraction float64
	// RiddenKM is the ridden length of the path in kilometers
	RiddenKM float64
	// IsRidden reports whether any part of the path has been ridden
	IsRidden bool
	// LastRiddenDate is the most recent recorded date among rides covering
	// the path, or nil when no covering ride carries a date
	LastRiddenDate *time.Time
}

// CoverageState is the derived coverage of a single path
type CoverageState struct {
	CoverageFraction float64
	RiddenKM         float64
	IsRidden         bool
	LastRiddenDate   *time.Time
}

// Coverage returns the current coverage state of the path
func (p *Path) Coverage() CoverageState {
	return CoverageState{
		CoverageFraction: p.CoverageFraction,
		RiddenKM:         p.RiddenKM,
		IsRidden:         p.IsRidden,
		LastRiddenDate:   p.LastRiddenDate,
	}
}

// SetCoverage applies a derived coverage state to the path
func (p *Path) SetCoverage(c CoverageState) {
	p.CoverageFraction = c.CoverageFraction
	p.RiddenKM = c.RiddenKM
	p.IsRidden = c.IsRidden
	p.LastRiddenDate = c.LastRiddenDate
}

// Equal reports whether two coverage states are effectively the same.
// Fractions and lengths are compared with a small epsilon so float noise
// from recomputation does not register as a change.
func (c CoverageState) Equal(other CoverageState) bool {
	const eps = 1e-9
	if c.IsRidden != other.IsRidden {
		return false
	}
	if diff := c.CoverageFraction - other.CoverageFraction; diff > eps || diff < -eps {
		return false
	}
	if diff := c.RiddenKM - other.RiddenKM; diff > eps || diff < -eps {
		return false
	}
	if (c.LastRiddenDate == nil) != (other.LastRiddenDate == nil) {
		return false
	}
	if c.LastRiddenDate != nil && !c.LastRiddenDate.Equal(*other.LastRiddenDate) {
		return false
	}
	return true
}

// TracePoint is a single recorded sample of a ride trace
type TracePoint struct {
	Lat float64
	Lon float64
	// ElevationM is the recorded elevation in meters, if present
	ElevationM *float64
	// Time is the recorded timestamp, if present
	Time *time.Time
}

// Trace is an ordered sequence of recorded points from a single ride
type Trace struct {
	Points []TracePoint
}

// Polyline returns the coordinates of the trace without elevation or time
func (t *Trace) Polyline() geo.Polyline {
	line := make(geo.Polyline, len(t.Points))
	for i, p := range t.Points {
		line[i] = geo.Point{Lat: p.Lat, Lon: p.Lon}
	}
	return line
}

// StartTime returns the timestamp of the first point carrying one, or nil
func (t *Trace) StartTime() *time.Time {
	for _, p := range t.Points {
		if p.Time != nil {
			return p.Time
		}
	}
	return nil
}

// Ride is a recorded activity that has been matched against the network
type Ride struct {
	// ID uniquely identifies the ride
	ID string
	// Fingerprint is the canonical content hash used to detect duplicates
	Fingerprint string
	// Filename is the name of the trace file the ride was decoded from
	Filename string
	// Name is the display name of the ride, if any
	Name *string
	// DateRecorded is when the ride was recorded, if known
	DateRecorded *time.Time
	// DistanceKM is the total recorded distance in kilometers
	DistanceKM float64
	// ElevationGainM is the total elevation gain in meters, if known
	ElevationGainM *float64
	// Trace is the recorded track
	Trace Trace
}

// RideSubmission is a decoded trace submitted for matching
type RideSubmission struct {
	// Trace is the decoded track
	Trace Trace
	// Filename is the name of the trace file
	Filename string
	// Name is an optional display name for the ride
	Name *string
	// DateRecorded overrides the trace timestamps when set
	DateRecorded *time.Time
	// DistanceKM is the total recorded distance in kilometers
	DistanceKM float64
	// ElevationGainM is the total elevation gain in meters, if known
	ElevationGainM *float64
}

// AddRideStatus describes the outcome of submitting a single ride trace
type AddRideStatus string

const (
	// AddRideCreated means the ride was new and has been matched and stored
	AddRideCreated AddRideStatus = "created"
	// AddRideDuplicate means an identical ride already exists and nothing changed
	AddRideDuplicate AddRideStatus = "duplicate"
	// AddRideRejected means the trace was malformed and nothing changed
	AddRideRejected AddRideStatus = "rejected"
)

// AddRideResult is the outcome of submitting a single ride trace
type AddRideResult struct {
	// Status is the submission outcome
	Status AddRideStatus
	// Ride is the stored ride for created outcomes and the preexisting ride
	// for duplicate outcomes
	Ride *Ride
	// ChangedPaths lists the IDs of paths whose coverage state changed
	ChangedPaths []string
	// Reason explains a rejected outcome
	Reason string
}

// DeleteRideResult is the outcome of deleting a ride
type DeleteRideResult struct {
	// ChangedPaths lists the IDs of paths whose coverage state changed
	ChangedPaths []string
}

// ImportResult is the outcome of importing a path network
type ImportResult struct {
	// PathsImported is the number of paths now in the network
	PathsImported int
	// PathsSkipped is the number of records dropped for malformed geometry
	PathsSkipped int
	// RidesRematched is the number of stored rides matched against the new network
	RidesRematched int
	// ChangedPaths lists the IDs of paths whose coverage state changed
	ChangedPaths []string
}

// PathFilter narrows a path state query. Zero-valued fields do not filter.
type PathFilter struct {
	// Areas keeps only paths in one of the given areas
	Areas []string
	// PathTypes keeps only paths of one of the given types
	PathTypes []string
	// Ridden keeps only ridden or only unridden paths
	Ridden *bool
	// MinCoverage keeps only paths with at least the given coverage fraction
	MinCoverage *float64
}

// GroupStatistics aggregates the paths sharing a grouping key
type GroupStatistics struct {
	// Count is the number of paths in the group
	Count int
	// LengthKM is the total length of the group in kilometers
	LengthKM float64
	// RiddenCount is the number of ridden paths in the group
	RiddenCount int
	// RiddenKM is the ridden length of the group in kilometers
	RiddenKM float64
	// UnriddenCount is the number of paths in the group without any coverage
	UnriddenCount int
	// UnriddenKM is the length of the group not yet ridden, in kilometers
	UnriddenKM float64
}

// Statistics is the network-wide coverage roll-up
type Statistics struct {
	// TotalPaths is the number of paths in the network
	TotalPaths int
	// TotalLengthKM is the total network length in kilometers
	TotalLengthKM float64
	// RiddenPaths is the number of paths with any coverage
	RiddenPaths int
	// RiddenKM is the ridden length across the network in kilometers
	RiddenKM float64
	// UnriddenPaths is the number of paths without any coverage
	UnriddenPaths int
	// UnriddenKM is the network length not yet ridden, in kilometers
	UnriddenKM float64
	// ByType groups the roll-up by path type
	ByType map[string]GroupStatistics
	// ByArea groups the roll-up by area
	ByArea map[string]GroupStatistics
}

// CoverageEventType classifies a coverage change event
type CoverageEventType string

const (
	// CoverageEventRideAdded is published after a new ride is matched and stored
	CoverageEventRideAdded CoverageEventType = "ride_added"
	// CoverageEventRideDeleted is published after a ride and its contributions are removed
	CoverageEventRideDeleted CoverageEventType = "ride_deleted"
	// CoverageEventNetworkImported is published after a network import and rematch
	CoverageEventNetworkImported CoverageEventType = "network_imported"
	// CoverageEventDriftRepaired is published after the audit sweeper repairs stored state
	CoverageEventDriftRepaired CoverageEventType = "drift_repaired"
)

// CoverageEvent notifies downstream consumers that coverage state changed
type CoverageEvent struct {
	// ID uniquely identifies the event
	ID string `json:"id"`
	// Type classifies the event
	Type CoverageEventType `json:"type"`
	// RideID is the ride that triggered the event, if any
	RideID string `json:"ride_id,omitempty"`
	// ChangedPaths lists the IDs of paths whose coverage state changed
	ChangedPaths []string `json:"changed_paths"`
	// OccurredAt is when the change was committed
	OccurredAt time.Time `json:"occurred_at"`
}
