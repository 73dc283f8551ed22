package geo

import (
	"math"
)

// SegmentRef identifies a single segment of an indexed polyline
type SegmentRef struct {
	// PathID is the identifier the polyline was indexed under
	PathID string
	// Segment is the zero-based index of the segment within the polyline
	Segment int
}

type cellKey struct {
	x int32
	y int32
}

// Index is a uniform grid over geographic space used to find polyline
// segments near a query point without scanning the whole network. Cells are
// sized in degrees so that a cell spans roughly cellSizeKM kilometers of
// latitude. The index is built once per network snapshot and is safe for
// concurrent reads after Insert calls have finished.
type Index struct {
	cellDeg float64
	cells   map[cellKey][]SegmentRef
	count   int
}

// NewIndex creates an empty grid index with cells spanning roughly
// cellSizeKM kilometers
func NewIndex(cellSizeKM float64) *Index {
	if cellSizeKM <= 0 {
		cellSizeKM = 0.1
	}
	return &Index{
		cellDeg: cellSizeKM / kmPerDegree,
		cells:   make(map[cellKey][]SegmentRef),
	}
}

// Len returns the number of segments in the index
func (idx *Index) Len() int {
	return idx.count
}

func (idx *Index) cellOf(lat, lon float64) cellKey {
	return cellKey{
		x: int32(math.Floor(lon / idx.cellDeg)),
		y: int32(math.Floor(lat / idx.cellDeg)),
	}
}

// Insert registers every segment of the polyline under the given path ID
func (idx *Index) Insert(pathID string, line Polyline) {
	for i := 1; i < len(line); i++ {
		a := line[i-1]
		b := line[i]
		minCell := idx.cellOf(math.Min(a.Lat, b.Lat), math.Min(a.Lon, b.Lon))
		maxCell := idx.cellOf(math.Max(a.Lat, b.Lat), math.Max(a.Lon, b.Lon))

		ref := SegmentRef{PathID: pathID, Segment: i - 1}
		for x := minCell.x; x <= maxCell.x; x++ {
			for y := minCell.y; y <= maxCell.y; y++ {
				key := cellKey{x: x, y: y}
				idx.cells[key] = append(idx.cells[key], ref)
			}
		}
		idx.count++
	}
}

// Near returns the segments whose grid cells fall within radiusKM of the
// query point. The result is a superset of the segments actually within the
// radius, so callers must still apply an exact distance test. Each segment
// appears at most once.
func (idx *Index) Near(p Point, radiusKM float64) []SegmentRef {
	latRad := radiusKM / kmPerDegree
	cosLat := math.Cos(p.Lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lonRad := radiusKM / (kmPerDegree * cosLat)

	minCell := idx.cellOf(p.Lat-latRad, p.Lon-lonRad)
	maxCell := idx.cellOf(p.Lat+latRad, p.Lon+lonRad)

	var refs []SegmentRef
	seen := make(map[SegmentRef]struct{})
	for x := minCell.x; x <= maxCell.x; x++ {
		for y := minCell.y; y <= maxCell.y; y++ {
			for _, ref := range idx.cells[cellKey{x: x, y: y}] {
				if _, ok := seen[ref]; ok {
					continue
				}
				seen[ref] = struct{}{}
				refs = append(refs, ref)
			}
		}
	}
	return refs
}
