package trace

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/waycover/waycover/internal/domain"
)

// Activity is one row of a Strava export activities CSV
type Activity struct {
	ID         string
	Name       *string
	Type       string
	Date       *time.Time
	DistanceKM *float64
}

// activityDateLayouts are the timestamp layouts seen in Strava exports
var activityDateLayouts = []string{
	"Jan 2, 2006, 3:04:05 PM",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseActivities reads a Strava export activities CSV and indexes its rows
// by trace filename. The export prefixes filenames with "activities/" and
// may point at compressed files; both are stripped so the index keys match
// decoded files on disk. Rows without a filename are skipped; unparseable
// dates and distances leave the field unset rather than failing the file.
func ParseActivities(r io.Reader) (map[string]Activity, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read activities header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["Filename"]; !ok {
		return nil, errors.New("activities CSV has no Filename column")
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	index := make(map[string]Activity)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read activities row: %w", err)
		}

		filename := strings.TrimPrefix(field(row, "Filename"), "activities/")
		filename = strings.TrimSuffix(filename, ".gz")
		if filename == "" {
			continue
		}

		activity := Activity{
			ID:   field(row, "Activity ID"),
			Type: field(row, "Activity Type"),
		}
		if name := field(row, "Activity Name"); name != "" {
			activity.Name = &name
		}
		if raw := field(row, "Activity Date"); raw != "" {
			for _, layout := range activityDateLayouts {
				if ts, err := time.Parse(layout, raw); err == nil {
					activity.Date = &ts
					break
				}
			}
		}
		if raw := field(row, "Distance"); raw != "" {
			if km, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64); err == nil {
				activity.DistanceKM = &km
			}
		}

		index[filename] = activity
	}
	return index, nil
}

// Apply overlays the activity metadata onto a decoded submission. Export
// fields win over what the trace file carries since the export is curated.
func (a Activity) Apply(sub *domain.RideSubmission) {
	if a.Name != nil {
		sub.Name = a.Name
	}
	if a.Date != nil {
		sub.DateRecorded = a.Date
	}
	if a.DistanceKM != nil {
		sub.DistanceKM = *a.DistanceKM
	}
}
