package trace

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb/geojson"

	"github.com/waycover/waycover/internal/domain"
	"github.com/waycover/waycover/internal/geo"
)

// DecodeNetwork parses a GeoJSON rights-of-way export into network paths.
// Features identify themselves through a source_fid (or fid) property; a
// feature without one is keyed by its position in the collection. A
// MultiLineString feature becomes one path per part with the part index
// suffixed onto the ID, so every path carries a single centerline. A feature
// without line geometry decodes to a path with an empty centerline, left for
// the import to skip record by record.
func DecodeNetwork(data []byte) ([]domain.Path, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse network GeoJSON: %w", err)
	}

	paths := make([]domain.Path, 0, len(fc.Features))
	for i, f := range fc.Features {
		sourceFID := propString(f.Properties, "source_fid", "fid")
		if sourceFID == "" {
			sourceFID = fmt.Sprintf("feature-%d", i)
		}

		base := domain.Path{
			ID:        sourceFID,
			SourceFID: sourceFID,
			RouteCode: optString(f.Properties, "route_code", "PROW_ref"),
			Name:      optString(f.Properties, "name"),
			PathType:  propString(f.Properties, "path_type", "PROW_type"),
			Area:      optString(f.Properties, "area", "district"),
		}

		lines := lineStrings(f.Geometry)
		if len(lines) == 0 {
			// No usable centerline. Keep the record so the import
			// reports the skip instead of refusing the collection.
			paths = append(paths, base)
			continue
		}
		if len(lines) == 1 {
			p := base
			p.Geometry = geo.FromLineString(lines[0])
			paths = append(paths, p)
			continue
		}
		for j, ls := range lines {
			p := base
			p.ID = fmt.Sprintf("%s-%d", sourceFID, j+1)
			p.SourceFID = p.ID
			p.Geometry = geo.FromLineString(ls)
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// propString returns the first non-empty property among keys, stringifying
// numeric identifiers the way exports commonly carry them
func propString(props geojson.Properties, keys ...string) string {
	for _, key := range keys {
		switch v := props[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		}
	}
	return ""
}

func optString(props geojson.Properties, keys ...string) *string {
	if s := propString(props, keys...); s != "" {
		return &s
	}
	return nil
}
