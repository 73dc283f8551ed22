package matcher

import (
	"math"

	"github.com/waycover/waycover/internal/coverage"
	"github.com/waycover/waycover/internal/domain"
	"github.com/waycover/waycover/internal/geo"
)

const (
	defaultToleranceKM = 0.025
	defaultGapFactor   = 4.0
)

// Config holds the tolerances that drive trace matching
type Config struct {
	// ToleranceKM is the maximum distance in kilometers between a trace
	// point and a path for the point to count as on the path
	ToleranceKM float64
	// SampleStepKM is the spacing in kilometers of the samples taken along
	// each trace segment. It never exceeds the tolerance.
	SampleStepKM float64
	// GapFactor, multiplied by the tolerance, is the largest recording gap
	// in kilometers the matcher will interpolate across
	GapFactor float64
	// DistanceMode selects how distances are measured
	DistanceMode geo.DistanceMode
}

func (c Config) withDefaults() Config {
	if c.ToleranceKM <= 0 {
		c.ToleranceKM = defaultToleranceKM
	}
	if c.SampleStepKM <= 0 || c.SampleStepKM > c.ToleranceKM {
		c.SampleStepKM = c.ToleranceKM
	}
	if c.GapFactor < 1 {
		c.GapFactor = defaultGapFactor
	}
	if !geo.IsValidDistanceMode(c.DistanceMode) {
		c.DistanceMode = geo.DistanceModeHaversine
	}
	return c
}

type pathGeometry struct {
	line     geo.Polyline
	cum      []float64
	lengthKM float64
}

// Matcher matches ride traces against an immutable snapshot of the path
// network. Building the snapshot indexes every path segment in a grid, so
// matching a trace only ever touches the segments near it. A Matcher is safe
// for concurrent use once built.
type Matcher struct {
	cfg   Config
	paths map[string]*pathGeometry
	index *geo.Index
}

// New builds a matcher over the given paths. Paths with fewer than two
// geometry points cannot be matched and are left out of the snapshot.
func New(cfg Config, paths []domain.Path) *Matcher {
	cfg = cfg.withDefaults()

	cellKM := math.Min(math.Max(cfg.ToleranceKM*10, 0.1), 1.0)
	m := &Matcher{
		cfg:   cfg,
		paths: make(map[string]*pathGeometry, len(paths)),
		index: geo.NewIndex(cellKM),
	}

	for i := range paths {
		p := &paths[i]
		if len(p.Geometry) < 2 {
			continue
		}
		cum := p.Geometry.CumulativeKM(cfg.DistanceMode)
		m.paths[p.ID] = &pathGeometry{
			line:     p.Geometry,
			cum:      cum,
			lengthKM: cum[len(cum)-1],
		}
		m.index.Insert(p.ID, p.Geometry)
	}
	return m
}

// Len returns the number of matchable paths in the snapshot
func (m *Matcher) Len() int {
	return len(m.paths)
}

// Match walks the trace and returns, per path, the merged stretches of that
// path's arc length the trace covered. Traces with any invalid coordinate
// are rejected whole with ErrMalformedGeometry. Traces with fewer than two
// points match nothing. Trace segments longer than the gap limit are treated
// as recording gaps: their endpoints still count, but the matcher does not
// interpolate between them.
func (m *Matcher) Match(trace geo.Polyline) (map[string][]coverage.Interval, error) {
	if !trace.Valid() {
		return nil, domain.ErrMalformedGeometry
	}

	hits := make(map[string][]float64)
	if len(trace) >= 2 {
		gapLimitKM := m.cfg.ToleranceKM * m.cfg.GapFactor
		for i := 1; i < len(trace); i++ {
			a := trace[i-1]
			b := trace[i]

			d := geo.DistanceKM(a, b, m.cfg.DistanceMode)
			if d > gapLimitKM {
				m.sample(a, hits)
				m.sample(b, hits)
				continue
			}

			steps := int(math.Ceil(d / m.cfg.SampleStepKM))
			if steps < 1 {
				steps = 1
			}
			for s := 0; s <= steps; s++ {
				f := float64(s) / float64(steps)
				m.sample(geo.Point{
					Lat: a.Lat + (b.Lat-a.Lat)*f,
					Lon: a.Lon + (b.Lon-a.Lon)*f,
				}, hits)
			}
		}
	}

	result := make(map[string][]coverage.Interval, len(hits))
	pad := m.cfg.SampleStepKM
	for pathID, positions := range hits {
		pg := m.paths[pathID]
		intervals := make([]coverage.Interval, 0, len(positions))
		for _, pos := range positions {
			intervals = append(intervals, coverage.Interval{Start: pos - pad, End: pos + pad})
		}
		merged := coverage.Clip(coverage.Merge(intervals), pg.lengthKM)
		if len(merged) > 0 {
			result[pathID] = merged
		}
	}
	return result, nil
}

// sample records the arc-length position of every path segment within
// tolerance of the point
func (m *Matcher) sample(p geo.Point, hits map[string][]float64) {
	for _, ref := range m.index.Near(p, m.cfg.ToleranceKM) {
		pg := m.paths[ref.PathID]
		segStart := pg.line[ref.Segment]
		segEnd := pg.line[ref.Segment+1]

		dist, frac := geo.PointSegmentDistanceKM(p, segStart, segEnd, m.cfg.DistanceMode)
		if dist > m.cfg.ToleranceKM {
			continue
		}

		segLen := pg.cum[ref.Segment+1] - pg.cum[ref.Segment]
		hits[ref.PathID] = append(hits[ref.PathID], pg.cum[ref.Segment]+frac*segLen)
	}
}
