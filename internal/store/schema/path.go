package schema

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"gorm.io/datatypes"

	"github.com/waycover/waycover/internal/domain"
	"github.com/waycover/waycover/internal/geo"
)

// Path represents the paths table - one row per path in the imported network
// together with its derived coverage state
type Path struct {
	// ID is the stable path identifier derived from the network source
	ID string `gorm:"column:id;primaryKey;type:text"`
	// SourceFID is the feature identifier carried over from the imported network data
	SourceFID string `gorm:"column:source_fid;not null;uniqueIndex;type:text"`
	// RouteCode is the official route designation, if any
	RouteCode *string `gorm:"column:route_code;type:text"`
	// Name is the display name of the path, if any
	Name *string `gorm:"column:name;type:text"`
	// PathType classifies the path (e.g. "Footpath", "Bridleway")
	PathType string `gorm:"column:path_type;type:text;index:idx_paths_path_type"`
	// Area is the administrative area the path belongs to, if known
	Area *string `gorm:"column:area;type:text;index:idx_paths_area"`
	// Geometry is the path centerline as a JSON array of [lon, lat] positions
	Geometry datatypes.JSON `gorm:"column:geometry;not null"`
	// LengthKM is the arc length of the geometry in kilometers
	LengthKM float64 `gorm:"column:length_km;not null;default:0"`
	// CoverageFraction is the ridden share of the path in [0, 1]
	CoverageFraction float64 `gorm:"column:coverage_fraction;not null;default:0"`
	// RiddenKM is the ridden length of the path in kilometers
	RiddenKM float64 `gorm:"column:ridden_km;not null;default:0"`
	// IsRidden indicates whether any part of the path has been ridden
	IsRidden bool `gorm:"column:is_ridden;not null;default:false;index:idx_paths_is_ridden"`
	// LastRiddenDate is the most recent recorded date among rides covering the path
	LastRiddenDate *time.Time `gorm:"column:last_ridden_date"`
	// CreatedAt is the timestamp when this record was first imported
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()"`
	// UpdatedAt is the timestamp of the last coverage or import update
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`

	// Associations
	RidePaths []RidePath `gorm:"foreignKey:PathID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Path model
func (Path) TableName() string {
	return "paths"
}

// PathFromDomain converts a domain path to its storage representation
func PathFromDomain(p *domain.Path) (*Path, error) {
	geometry, err := json.Marshal(p.Geometry.LineString())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal path geometry: %w", err)
	}

	return &Path{
		ID:               p.ID,
		SourceFID:        p.SourceFID,
		RouteCode:        p.RouteCode,
		Name:             p.Name,
		PathType:         p.PathType,
		Area:             p.Area,
		Geometry:         geometry,
		LengthKM:         p.LengthKM,
		CoverageFraction: p.CoverageFraction,
		RiddenKM:         p.RiddenKM,
		IsRidden:         p.IsRidden,
		LastRiddenDate:   p.LastRiddenDate,
	}, nil
}

// ToDomain converts a stored path back to its domain representation
func (p *Path) ToDomain() (*domain.Path, error) {
	var ls orb.LineString
	if err := json.Unmarshal(p.Geometry, &ls); err != nil {
		return nil, fmt.Errorf("failed to unmarshal path geometry: %w", err)
	}

	return &domain.Path{
		ID:               p.ID,
		SourceFID:        p.SourceFID,
		RouteCode:        p.RouteCode,
		Name:             p.Name,
		PathType:         p.PathType,
		Area:             p.Area,
		Geometry:         geo.FromLineString(ls),
		LengthKM:         p.LengthKM,
		CoverageFraction: p.CoverageFraction,
		RiddenKM:         p.RiddenKM,
		IsRidden:         p.IsRidden,
		LastRiddenDate:   p.LastRiddenDate,
	}, nil
}
