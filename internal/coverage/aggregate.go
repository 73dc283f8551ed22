package coverage

import (
	"time"

	"github.com/waycover/waycover/internal/domain"
)

// Contribution is one ride's matched stretch set against a single path
type Contribution struct {
	// RideID identifies the contributing ride
	RideID string
	// Intervals are the matched stretches of the path's arc length
	Intervals []Interval
	// RiddenAt is the recorded date of the contributing ride, if known
	RiddenAt *time.Time
}

// Derive computes the coverage state of a path of the given length from the
// live contributions against it. Stretches covered by several rides count
// once. The returned fraction is clamped to [0, 1] and the ridden flag is
// true exactly when the fraction is positive. Contributions without a
// recorded date never set the last ridden date.
func Derive(lengthKM float64, contributions []Contribution) domain.CoverageState {
	var all []Interval
	var lastRidden *time.Time
	for _, c := range contributions {
		if TotalLength(c.Intervals) <= 0 {
			continue
		}
		all = append(all, c.Intervals...)
		if c.RiddenAt != nil && (lastRidden == nil || c.RiddenAt.After(*lastRidden)) {
			t := *c.RiddenAt
			lastRidden = &t
		}
	}

	covered := TotalLength(Clip(all, lengthKM))
	if covered <= 0 {
		return domain.CoverageState{}
	}
	// Summing many merged intervals can overshoot the length by float error
	if covered > lengthKM {
		covered = lengthKM
	}

	return domain.CoverageState{
		CoverageFraction: covered / lengthKM,
		RiddenKM:         covered,
		IsRidden:         true,
		LastRiddenDate:   lastRidden,
	}
}
