package domain

const (
	// UNKNOWN_GROUP_KEY is the grouping key used in statistics for paths
	// without a path type or area
	UNKNOWN_GROUP_KEY = "Unknown"
)
