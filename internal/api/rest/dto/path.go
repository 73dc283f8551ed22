package dto

import (
	"math"

	"github.com/paulmach/orb/geojson"

	"github.com/waycover/waycover/internal/domain"
)

// MapPathToFeature maps a domain.Path to a GeoJSON feature carrying the
// path attributes and its coverage state as properties.
func MapPathToFeature(p *domain.Path) *geojson.Feature {
	f := geojson.NewFeature(p.Geometry.LineString())
	f.Properties = geojson.Properties{
		"id":                p.ID,
		"source_fid":        p.SourceFID,
		"route_code":        p.RouteCode,
		"name":              p.Name,
		"path_type":         p.PathType,
		"area":              p.Area,
		"length_km":         RoundKM(p.LengthKM),
		"coverage_fraction": RoundFraction(p.CoverageFraction),
		"ridden_km":         RoundKM(p.RiddenKM),
		"is_ridden":         p.IsRidden,
		"last_ridden_date":  p.LastRiddenDate,
	}
	return f
}

// MapPathsToCollection maps paths to a GeoJSON feature collection
func MapPathsToCollection(paths []domain.Path) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i := range paths {
		fc.Append(MapPathToFeature(&paths[i]))
	}
	return fc
}

// RoundKM rounds a distance for presentation to three decimals (meter
// precision). Stored values stay unrounded.
func RoundKM(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// RoundFraction rounds a coverage fraction for presentation to four decimals
func RoundFraction(v float64) float64 {
	return math.Round(v*10000) / 10000
}
