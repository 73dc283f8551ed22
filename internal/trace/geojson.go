package trace

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/waycover/waycover/internal/domain"
)

// DecodeGeoJSON parses a GeoJSON trace into a ride submission. The payload
// may be a FeatureCollection, a single Feature or a bare geometry; line
// features are concatenated in order and MultiLineString parts surface as
// recording gaps. GeoJSON positions carry no elevation or time.
func DecodeGeoJSON(filename string, data []byte) (*domain.RideSubmission, error) {
	var doc struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON trace: %w", err)
	}

	var name *string
	var lines []orb.LineString
	switch doc.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GeoJSON trace: %w", err)
		}
		for _, f := range fc.Features {
			lines = append(lines, lineStrings(f.Geometry)...)
			if name == nil {
				name = featureName(f)
			}
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GeoJSON trace: %w", err)
		}
		lines = lineStrings(f.Geometry)
		name = featureName(f)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GeoJSON trace: %w", err)
		}
		lines = lineStrings(g.Geometry())
	}

	points := make([]domain.TracePoint, 0)
	for _, ls := range lines {
		for _, pos := range ls {
			points = append(points, domain.TracePoint{Lat: pos.Lat(), Lon: pos.Lon()})
		}
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("GeoJSON file %s carries no line geometry", filename)
	}

	trace := domain.Trace{Points: points}
	distance, _ := Summarize(&trace)

	return &domain.RideSubmission{
		Trace:      trace,
		Filename:   filename,
		Name:       name,
		DistanceKM: distance,
	}, nil
}

// lineStrings flattens a geometry into its line parts. Non-line geometries
// contribute nothing.
func lineStrings(g orb.Geometry) []orb.LineString {
	switch geom := g.(type) {
	case orb.LineString:
		return []orb.LineString{geom}
	case orb.MultiLineString:
		out := make([]orb.LineString, 0, len(geom))
		out = append(out, geom...)
		return out
	}
	return nil
}

func featureName(f *geojson.Feature) *string {
	if n, ok := f.Properties["name"].(string); ok && n != "" {
		return &n
	}
	return nil
}
