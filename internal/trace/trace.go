package trace

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/waycover/waycover/internal/domain"
	"github.com/waycover/waycover/internal/geo"
)

// ErrUnknownFormat reports a trace payload in no supported encoding
var ErrUnknownFormat = errors.New("unknown trace format")

// Format identifies a supported trace encoding
type Format string

const (
	FormatGPX     Format = "gpx"
	FormatGeoJSON Format = "geojson"
	FormatUnknown Format = "unknown"
)

// DetectFormat sniffs the encoding of a trace payload, falling back to the
// file extension for payloads the content detector cannot place
func DetectFormat(filename string, data []byte) Format {
	m := mimetype.Detect(data)
	switch {
	case m.Is("application/gpx+xml"):
		return FormatGPX
	case m.Is("application/geo+json"):
		return FormatGeoJSON
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gpx":
		return FormatGPX
	case ".geojson", ".json":
		return FormatGeoJSON
	}
	return FormatUnknown
}

// Decode sniffs the encoding of a trace file and parses it into a ride
// submission
func Decode(filename string, data []byte) (*domain.RideSubmission, error) {
	switch DetectFormat(filename, data) {
	case FormatGPX:
		return DecodeGPX(filename, data)
	case FormatGeoJSON:
		return DecodeGeoJSON(filename, data)
	default:
		return nil, ErrUnknownFormat
	}
}

// Summarize computes the recorded distance and the elevation gain of a
// trace. The gain accumulates positive deltas between consecutive points
// carrying elevation; it is nil when no point does.
func Summarize(t *domain.Trace) (float64, *float64) {
	distance := t.Polyline().LengthKM(geo.DistanceModeHaversine)

	var gain *float64
	var total float64
	var last *float64
	for _, p := range t.Points {
		if p.ElevationM == nil {
			continue
		}
		if last != nil && *p.ElevationM > *last {
			total += *p.ElevationM - *last
		}
		last = p.ElevationM
		if gain == nil {
			gain = &total
		}
	}
	return distance, gain
}
