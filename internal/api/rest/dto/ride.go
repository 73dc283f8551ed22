package dto

import (
	"math"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/waycover/waycover/internal/domain"
)

// RideResponse represents a stored ride without its trace geometry
type RideResponse struct {
	ID             string     `json:"id"`
	Filename       string     `json:"filename"`
	Name           *string    `json:"name"`
	DateRecorded   *time.Time `json:"date_recorded"`
	DistanceKM     float64    `json:"distance_km"`
	ElevationGainM *float64   `json:"elevation_gain_m,omitempty"`
}

// RideDetailResponse represents a single ride with its trace as GeoJSON
type RideDetailResponse struct {
	RideResponse
	Trace *geojson.Feature `json:"trace"`
}

// RideListResponse represents a paginated list of rides
type RideListResponse struct {
	Rides  []RideResponse `json:"items"`
	Offset *int           `json:"offset,omitempty"`
	Total  int            `json:"total"`
}

// AddRideResponse represents the outcome of one ride submission
type AddRideResponse struct {
	Status       domain.AddRideStatus `json:"status"`
	Ride         *RideResponse        `json:"ride,omitempty"`
	ChangedPaths []string             `json:"changed_paths"`
	Reason       string               `json:"reason,omitempty"`
}

// BatchAddRidesResponse represents per-submission outcomes in request order
type BatchAddRidesResponse struct {
	Results []AddRideResponse `json:"results"`
}

// DeleteRideResponse represents the outcome of removing a ride
type DeleteRideResponse struct {
	Status       string   `json:"status"`
	ChangedPaths []string `json:"changed_paths"`
}

// ImportNetworkResponse represents the outcome of a network import
type ImportNetworkResponse struct {
	PathsImported  int      `json:"paths_imported"`
	PathsSkipped   int      `json:"paths_skipped"`
	RidesRematched int      `json:"rides_rematched"`
	ChangedPaths   []string `json:"changed_paths"`
}

// MapRideToDTO maps a domain.Ride to RideResponse
func MapRideToDTO(r *domain.Ride) *RideResponse {
	dto := &RideResponse{
		ID:           r.ID,
		Filename:     r.Filename,
		Name:         r.Name,
		DateRecorded: r.DateRecorded,
		DistanceKM:   RoundKM(r.DistanceKM),
	}
	if r.ElevationGainM != nil {
		gain := math.Round(*r.ElevationGainM*10) / 10
		dto.ElevationGainM = &gain
	}
	return dto
}

// MapRideToDetailDTO maps a domain.Ride to RideDetailResponse. The trace
// travels as a GeoJSON LineString feature so the frontend can draw it
// straight onto the map.
func MapRideToDetailDTO(r *domain.Ride) *RideDetailResponse {
	f := geojson.NewFeature(r.Trace.Polyline().LineString())
	f.Properties = geojson.Properties{"id": r.ID}
	if r.Name != nil {
		f.Properties["name"] = *r.Name
	}
	return &RideDetailResponse{
		RideResponse: *MapRideToDTO(r),
		Trace:        f,
	}
}

// MapRidesToListDTO maps a page of rides to RideListResponse. Total counts
// the whole collection, not the page.
func MapRidesToListDTO(rides []domain.Ride, offset int, total int) *RideListResponse {
	items := make([]RideResponse, 0, len(rides))
	for i := range rides {
		items = append(items, *MapRideToDTO(&rides[i]))
	}
	return &RideListResponse{
		Rides:  items,
		Offset: &offset,
		Total:  total,
	}
}

// MapAddRideResultToDTO maps a domain.AddRideResult to AddRideResponse
func MapAddRideResultToDTO(res *domain.AddRideResult) *AddRideResponse {
	dto := &AddRideResponse{
		Status:       res.Status,
		ChangedPaths: res.ChangedPaths,
		Reason:       res.Reason,
	}
	if res.Ride != nil {
		dto.Ride = MapRideToDTO(res.Ride)
	}
	if dto.ChangedPaths == nil {
		dto.ChangedPaths = []string{}
	}
	return dto
}
