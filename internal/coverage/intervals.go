package coverage

import (
	"math"
	"sort"
)

// Interval is a half-open stretch [Start, End) of a path's arc length in
// kilometers, measured from the start of the path geometry.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Length returns the length of the interval in kilometers
func (iv Interval) Length() float64 {
	if iv.End <= iv.Start {
		return 0
	}
	return iv.End - iv.Start
}

// Merge sorts the intervals and unions every overlapping or touching pair.
// Empty and inverted intervals are dropped. The input is not modified.
func Merge(intervals []Interval) []Interval {
	valid := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.End > iv.Start {
			valid = append(valid, iv)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].Start < valid[j].Start
	})

	merged := []Interval{valid[0]}
	for _, iv := range valid[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Clip restricts every interval to [0, limit] and drops what falls outside
func Clip(intervals []Interval, limit float64) []Interval {
	if limit <= 0 {
		return nil
	}
	clipped := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		iv.Start = math.Max(0, iv.Start)
		iv.End = math.Min(limit, iv.End)
		if iv.End > iv.Start {
			clipped = append(clipped, iv)
		}
	}
	return clipped
}

// TotalLength returns the summed length of the intervals in kilometers.
// Overlapping input intervals are counted once.
func TotalLength(intervals []Interval) float64 {
	var total float64
	for _, iv := range Merge(intervals) {
		total += iv.Length()
	}
	return total
}
