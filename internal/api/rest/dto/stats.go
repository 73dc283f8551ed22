package dto

import (
	"github.com/waycover/waycover/internal/domain"
)

// GroupStatisticsResponse represents the coverage roll-up for one
// grouping key (a path type or an area).
type GroupStatisticsResponse struct {
	Count         int     `json:"count"`
	LengthKM      float64 `json:"length_km"`
	RiddenCount   int     `json:"ridden_count"`
	RiddenKM      float64 `json:"ridden_km"`
	UnriddenCount int     `json:"unridden_count"`
	UnriddenKM    float64 `json:"unridden_km"`
}

// StatisticsResponse represents the network-wide coverage roll-up
type StatisticsResponse struct {
	TotalPaths    int                                `json:"total_paths"`
	TotalLengthKM float64                            `json:"total_length_km"`
	RiddenPaths   int                                `json:"ridden_paths"`
	RiddenKM      float64                            `json:"ridden_km"`
	UnriddenPaths int                                `json:"unridden_paths"`
	UnriddenKM    float64                            `json:"unridden_km"`
	ByType        map[string]GroupStatisticsResponse `json:"by_type"`
	ByArea        map[string]GroupStatisticsResponse `json:"by_area"`
}

// AreasResponse represents the distinct areas present in the network
type AreasResponse struct {
	Areas []string `json:"areas"`
}

// PathTypesResponse represents the distinct path types in the network
type PathTypesResponse struct {
	PathTypes []string `json:"path_types"`
}

// MapStatisticsToDTO maps domain.Statistics to StatisticsResponse
func MapStatisticsToDTO(s *domain.Statistics) *StatisticsResponse {
	dto := &StatisticsResponse{
		TotalPaths:    s.TotalPaths,
		TotalLengthKM: RoundKM(s.TotalLengthKM),
		RiddenPaths:   s.RiddenPaths,
		RiddenKM:      RoundKM(s.RiddenKM),
		UnriddenPaths: s.UnriddenPaths,
		UnriddenKM:    RoundKM(s.UnriddenKM),
		ByType:        mapGroups(s.ByType),
		ByArea:        mapGroups(s.ByArea),
	}
	return dto
}

func mapGroups(groups map[string]domain.GroupStatistics) map[string]GroupStatisticsResponse {
	out := make(map[string]GroupStatisticsResponse, len(groups))
	for key, g := range groups {
		out[key] = GroupStatisticsResponse{
			Count:         g.Count,
			LengthKM:      RoundKM(g.LengthKM),
			RiddenCount:   g.RiddenCount,
			RiddenKM:      RoundKM(g.RiddenKM),
			UnriddenCount: g.UnriddenCount,
			UnriddenKM:    RoundKM(g.UnriddenKM),
		}
	}
	return out
}
