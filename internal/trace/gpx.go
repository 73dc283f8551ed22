package trace

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/waycover/waycover/internal/domain"
)

// gpxFile mirrors the GPX 1.1 elements the decoder reads
type gpxFile struct {
	Tracks []gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Name     string       `xml:"name"`
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat  float64  `xml:"lat,attr"`
	Lon  float64  `xml:"lon,attr"`
	Ele  *float64 `xml:"ele"`
	Time string   `xml:"time"`
}

// DecodeGPX parses a GPX 1.1 track file into a ride submission. Track
// segments are concatenated in order; the jump between segments surfaces as
// a recording gap in the trace. Unparseable point timestamps are dropped
// rather than failing the file.
func DecodeGPX(filename string, data []byte) (*domain.RideSubmission, error) {
	var file gpxFile
	if err := xml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse GPX: %w", err)
	}

	var name *string
	points := make([]domain.TracePoint, 0)
	for _, trk := range file.Tracks {
		if name == nil && trk.Name != "" {
			n := trk.Name
			name = &n
		}
		for _, seg := range trk.Segments {
			for _, pt := range seg.Points {
				point := domain.TracePoint{
					Lat:        pt.Lat,
					Lon:        pt.Lon,
					ElevationM: pt.Ele,
				}
				if pt.Time != "" {
					if ts, err := time.Parse(time.RFC3339, pt.Time); err == nil {
						point.Time = &ts
					}
				}
				points = append(points, point)
			}
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("GPX file %s carries no track points", filename)
	}

	trace := domain.Trace{Points: points}
	distance, gain := Summarize(&trace)

	return &domain.RideSubmission{
		Trace:          trace,
		Filename:       filename,
		Name:           name,
		DistanceKM:     distance,
		ElevationGainM: gain,
	}, nil
}
