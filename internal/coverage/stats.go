package coverage

import (
	"github.com/waycover/waycover/internal/domain"
)

// Summarize rolls the coverage state of every path up into network-wide
// statistics in a single pass. The unridden length counts the uncovered
// remainder of partially ridden paths, not just untouched ones. Paths
// without a path type or area are grouped under the unknown key.
func Summarize(paths []domain.Path) *domain.Statistics {
	stats := &domain.Statistics{
		ByType: make(map[string]domain.GroupStatistics),
		ByArea: make(map[string]domain.GroupStatistics),
	}

	for i := range paths {
		p := &paths[i]

		stats.TotalPaths++
		stats.TotalLengthKM += p.LengthKM
		if p.IsRidden {
			stats.RiddenPaths++
			stats.RiddenKM += p.RiddenKM
		}

		typeKey := p.PathType
		if typeKey == "" {
			typeKey = domain.UNKNOWN_GROUP_KEY
		}
		areaKey := domain.UNKNOWN_GROUP_KEY
		if p.Area != nil && *p.Area != "" {
			areaKey = *p.Area
		}

		accumulate(stats.ByType, typeKey, p)
		accumulate(stats.ByArea, areaKey, p)
	}

	stats.UnriddenPaths = stats.TotalPaths - stats.RiddenPaths
	stats.UnriddenKM = stats.TotalLengthKM - stats.RiddenKM
	fillUnridden(stats.ByType)
	fillUnridden(stats.ByArea)

	return stats
}

func accumulate(groups map[string]domain.GroupStatistics, key string, p *domain.Path) {
	g := groups[key]
	g.Count++
	g.LengthKM += p.LengthKM
	if p.IsRidden {
		g.RiddenCount++
		g.RiddenKM += p.RiddenKM
	}
	groups[key] = g
}

func fillUnridden(groups map[string]domain.GroupStatistics) {
	for key, g := range groups {
		g.UnriddenCount = g.Count - g.RiddenCount
		g.UnriddenKM = g.LengthKM - g.RiddenKM
		groups[key] = g
	}
}
