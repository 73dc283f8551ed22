package geo

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	// EarthRadiusKM is the mean Earth radius used for spherical distance calculations
	EarthRadiusKM = 6371.0

	// kmPerDegree is the length of one degree of latitude in kilometers
	kmPerDegree = 111.32
)

// DistanceMode selects how distances between coordinates are measured.
type DistanceMode string

const (
	// DistanceModeHaversine measures great-circle distances on a spherical Earth
	DistanceModeHaversine DistanceMode = "haversine"
	// DistanceModePlanar measures distances on a local equirectangular projection
	DistanceModePlanar DistanceMode = "planar"
)

// IsValidDistanceMode checks if the distance mode is supported
func IsValidDistanceMode(mode DistanceMode) bool {
	switch mode {
	case DistanceModeHaversine, DistanceModePlanar:
		return true
	default:
		return false
	}
}

// Point is a geographic coordinate in decimal degrees
type Point struct {
	Lat float64
	Lon float64
}

// Valid checks that the coordinate is a real position on Earth
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Orb converts the point to an orb.Point in lon/lat order
func (p Point) Orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// FromOrb converts an orb.Point in lon/lat order to a Point
func FromOrb(p orb.Point) Point {
	return Point{Lat: p.Lat(), Lon: p.Lon()}
}

// HaversineKM returns the great-circle distance between two points in kilometers
func HaversineKM(a, b Point) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKM * c
}

// PlanarKM returns the distance between two points in kilometers on a local
// equirectangular projection centered between them. It is cheaper than
// HaversineKM and accurate enough at the scale of a path network.
func PlanarKM(a, b Point) float64 {
	midLat := (a.Lat + b.Lat) / 2 * math.Pi / 180
	dx := (b.Lon - a.Lon) * kmPerDegree * math.Cos(midLat)
	dy := (b.Lat - a.Lat) * kmPerDegree
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceKM returns the distance between two points in kilometers using the
// given distance mode. Unknown modes fall back to haversine.
func DistanceKM(a, b Point, mode DistanceMode) float64 {
	if mode == DistanceModePlanar {
		return PlanarKM(a, b)
	}
	return HaversineKM(a, b)
}

// ClosestPointOnSegment returns the point on the segment from a to b that is
// closest to p, together with the fraction t in [0, 1] of the segment at which
// it lies. The projection is evaluated on a local equirectangular plane
// centered on a, which keeps the clamping exact for segments of path scale.
func ClosestPointOnSegment(p, a, b Point) (Point, float64) {
	refLat := a.Lat * math.Pi / 180
	cosRef := math.Cos(refLat)

	ax, ay := 0.0, 0.0
	bx := (b.Lon - a.Lon) * kmPerDegree * cosRef
	by := (b.Lat - a.Lat) * kmPerDegree
	px := (p.Lon - a.Lon) * kmPerDegree * cosRef
	py := (p.Lat - a.Lat) * kmPerDegree

	dx := bx - ax
	dy := by - ay
	segLenSq := dx*dx + dy*dy
	if segLenSq == 0 {
		return a, 0
	}

	t := ((px-ax)*dx + (py-ay)*dy) / segLenSq
	t = math.Max(0, math.Min(1, t))

	return Point{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lon: a.Lon + (b.Lon-a.Lon)*t,
	}, t
}

// PointSegmentDistanceKM returns the distance in kilometers from p to the
// nearest point on the segment from a to b.
func PointSegmentDistanceKM(p, a, b Point, mode DistanceMode) (float64, float64) {
	closest, t := ClosestPointOnSegment(p, a, b)
	return DistanceKM(p, closest, mode), t
}

// Polyline is an ordered sequence of geographic points
type Polyline []Point

// Valid checks that every vertex of the polyline is a real position on Earth
func (l Polyline) Valid() bool {
	for _, p := range l {
		if !p.Valid() {
			return false
		}
	}
	return true
}

// LengthKM returns the total length of the polyline in kilometers
func (l Polyline) LengthKM(mode DistanceMode) float64 {
	var total float64
	for i := 1; i < len(l); i++ {
		total += DistanceKM(l[i-1], l[i], mode)
	}
	return total
}

// CumulativeKM returns the running arc length in kilometers at each vertex.
// The first element is always 0 and the last equals LengthKM.
func (l Polyline) CumulativeKM(mode DistanceMode) []float64 {
	if len(l) == 0 {
		return nil
	}
	cum := make([]float64, len(l))
	for i := 1; i < len(l); i++ {
		cum[i] = cum[i-1] + DistanceKM(l[i-1], l[i], mode)
	}
	return cum
}

// Bound returns the bounding box of the polyline
func (l Polyline) Bound() orb.Bound {
	ls := l.LineString()
	return ls.Bound()
}

// LineString converts the polyline to an orb.LineString in lon/lat order
func (l Polyline) LineString() orb.LineString {
	ls := make(orb.LineString, len(l))
	for i, p := range l {
		ls[i] = p.Orb()
	}
	return ls
}

// FromLineString converts an orb.LineString in lon/lat order to a Polyline
func FromLineString(ls orb.LineString) Polyline {
	line := make(Polyline, len(ls))
	for i, p := range ls {
		line[i] = FromOrb(p)
	}
	return line
}
