package rest

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/waycover/waycover/internal/domain"
)

const MAX_PAGE_SIZE = 100

// ListPathsQueryParams holds query parameters for GET /paths.
// Repeated filters are OR-ed within a key and AND-ed across keys, so
// ?area=A&area=B&ridden=false keeps unridden paths in either area.
type ListPathsQueryParams struct {
	// Filters
	Areas       []string `form:"area"`
	PathTypes   []string `form:"path_type"`
	Ridden      *bool    `form:"ridden"`
	MinCoverage *float64 `form:"min_coverage"`
}

// ListRidesQueryParams holds query parameters for GET /rides
type ListRidesQueryParams struct {
	// Pagination
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ImportNetworkQueryParams holds query parameters for POST /network
type ImportNetworkQueryParams struct {
	// Replace swaps the whole network for the uploaded collection instead
	// of merging it into the current one.
	Replace bool `form:"replace,default=false"`
}

// ParseListPathsQuery parses query parameters for GET /paths
func ParseListPathsQuery(c *gin.Context) (*ListPathsQueryParams, error) {
	var params ListPathsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	// Validate coverage bound
	if params.MinCoverage != nil && (*params.MinCoverage < 0 || *params.MinCoverage > 1) {
		return nil, fmt.Errorf("min_coverage must be between 0 and 1")
	}

	return &params, nil
}

// Filter converts the parsed parameters into a domain path filter
func (p *ListPathsQueryParams) Filter() domain.PathFilter {
	return domain.PathFilter{
		Areas:       p.Areas,
		PathTypes:   p.PathTypes,
		Ridden:      p.Ridden,
		MinCoverage: p.MinCoverage,
	}
}

// ParseListRidesQuery parses query parameters for GET /rides
func ParseListRidesQuery(c *gin.Context) (*ListRidesQueryParams, error) {
	var params ListRidesQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	// Cap limit
	if params.Limit > MAX_PAGE_SIZE {
		params.Limit = MAX_PAGE_SIZE
	}
	if params.Limit < 0 {
		params.Limit = 0
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	return &params, nil
}

// ParseImportNetworkQuery parses query parameters for POST /network
func ParseImportNetworkQuery(c *gin.Context) (*ImportNetworkQueryParams, error) {
	var params ImportNetworkQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	return &params, nil
}
