package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/waycover/waycover/internal/api/rest/dto"
	"github.com/waycover/waycover/internal/api/shared/constants"
	"github.com/waycover/waycover/internal/domain"
	"github.com/waycover/waycover/internal/engine"
	"github.com/waycover/waycover/internal/trace"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// ListPaths retrieves the network with per-path coverage state as a
	// GeoJSON feature collection, optionally filtered
	// GET /api/paths?area=<area>&path_type=<type>&ridden=<bool>&min_coverage=<fraction>
	ListPaths(c *gin.Context)

	// GetPath retrieves a single path with its coverage state
	// GET /api/paths/:id
	GetPath(c *gin.Context)

	// GetStatistics retrieves the network-wide coverage roll-up
	// GET /api/stats
	GetStatistics(c *gin.Context)

	// ListAreas retrieves the distinct areas present in the network
	// GET /api/areas
	ListAreas(c *gin.Context)

	// ListPathTypes retrieves the distinct path types present in the network
	// GET /api/path-types
	ListPathTypes(c *gin.Context)

	// ListRides retrieves stored rides, most recently recorded first
	// GET /api/rides?limit=<limit>&offset=<offset>
	ListRides(c *gin.Context)

	// GetRide retrieves a single ride including its trace geometry
	// GET /api/rides/:id
	GetRide(c *gin.Context)

	// AddRide submits one trace file (requires authentication)
	// POST /api/rides
	AddRide(c *gin.Context)

	// AddRides submits several trace files in one call (requires authentication)
	// POST /api/rides/batch
	AddRides(c *gin.Context)

	// DeleteRide removes a ride and rolls its coverage back (requires authentication)
	// DELETE /api/rides/:id
	DeleteRide(c *gin.Context)

	// ImportNetwork installs a path network from a GeoJSON body (requires authentication)
	// POST /api/network?replace=<bool>
	ImportNetwork(c *gin.Context)

	// HealthCheck reports liveness and whether a path network is loaded
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	engine engine.Engine
}

// NewHandler creates a new REST API handler on top of the coverage engine
func NewHandler(eng engine.Engine) Handler {
	return &handler{
		engine: eng,
	}
}

// ListPaths retrieves the network with per-path coverage state
func (h *handler) ListPaths(c *gin.Context) {
	// Parse query parameters
	queryParams, err := ParseListPathsQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	paths := h.engine.Paths(queryParams.Filter())

	c.JSON(http.StatusOK, dto.MapPathsToCollection(paths))
}

// GetPath retrieves a single path with its coverage state
func (h *handler) GetPath(c *gin.Context) {
	pathID := c.Param("id")
	if pathID == "" {
		respondBadRequest(c, "Path ID is required")
		return
	}

	path, err := h.engine.Path(pathID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownPath) {
			respondNotFound(c, "Path not found")
			return
		}
		respondInternalError(c, err, "Failed to get path")
		return
	}

	c.JSON(http.StatusOK, dto.MapPathToFeature(path))
}

// GetStatistics retrieves the network-wide coverage roll-up
func (h *handler) GetStatistics(c *gin.Context) {
	stats := h.engine.Statistics()

	c.JSON(http.StatusOK, dto.MapStatisticsToDTO(stats))
}

// ListAreas retrieves the distinct areas present in the network
func (h *handler) ListAreas(c *gin.Context) {
	c.JSON(http.StatusOK, dto.AreasResponse{Areas: h.engine.Areas()})
}

// ListPathTypes retrieves the distinct path types present in the network
func (h *handler) ListPathTypes(c *gin.Context) {
	c.JSON(http.StatusOK, dto.PathTypesResponse{PathTypes: h.engine.PathTypes()})
}

// ListRides retrieves stored rides, most recently recorded first
func (h *handler) ListRides(c *gin.Context) {
	// Parse query parameters
	queryParams, err := ParseListRidesQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	rides := h.engine.Rides()
	total := len(rides)

	// Page in memory, the whole collection is already loaded
	offset := queryParams.Offset
	if offset > total {
		offset = total
	}
	end := offset + queryParams.Limit
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, dto.MapRidesToListDTO(rides[offset:end], queryParams.Offset, total))
}

// GetRide retrieves a single ride including its trace geometry
func (h *handler) GetRide(c *gin.Context) {
	rideID := c.Param("id")
	if rideID == "" {
		respondBadRequest(c, "Ride ID is required")
		return
	}

	ride, err := h.engine.Ride(rideID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownRide) {
			respondNotFound(c, "Ride not found")
			return
		}
		respondInternalError(c, err, "Failed to get ride")
		return
	}

	c.JSON(http.StatusOK, dto.MapRideToDetailDTO(ride))
}

// AddRide submits one trace file
func (h *handler) AddRide(c *gin.Context) {
	req, err := readAddRideRequest(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	// Validate request body
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	// Decode the trace file. Files that cannot be decoded are reported as
	// rejected submissions, same as traces the engine refuses.
	sub, err := trace.Decode(req.Filename, req.Content)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, &dto.AddRideResponse{
			Status:       domain.AddRideRejected,
			ChangedPaths: []string{},
			Reason:       err.Error(),
		})
		return
	}
	applyOverrides(sub, req)

	result, err := h.engine.AddRide(c.Request.Context(), *sub)
	if err != nil {
		if errors.Is(err, domain.ErrNetworkNotLoaded) {
			respondBadRequest(c, "No path network has been imported yet")
			return
		}
		respondInternalError(c, err, "Failed to add ride")
		return
	}

	c.JSON(addRideStatusCode(result.Status), dto.MapAddRideResultToDTO(result))
}

// AddRides submits several trace files in one call
func (h *handler) AddRides(c *gin.Context) {
	var req dto.BatchAddRidesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	// Validate request body
	err := req.Validate()
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	// Decode every entry first. Entries that fail validation or decoding
	// become rejected outcomes in place, the rest go to the engine as one
	// batch. subIndex maps batch positions back to request positions.
	results := make([]dto.AddRideResponse, len(req.Rides))
	subs := make([]domain.RideSubmission, 0, len(req.Rides))
	subIndex := make([]int, 0, len(req.Rides))
	for i := range req.Rides {
		entry := &req.Rides[i]
		if err := entry.Validate(); err != nil {
			results[i] = dto.AddRideResponse{
				Status:       domain.AddRideRejected,
				ChangedPaths: []string{},
				Reason:       err.Error(),
			}
			continue
		}
		sub, err := trace.Decode(entry.Filename, entry.Content)
		if err != nil {
			results[i] = dto.AddRideResponse{
				Status:       domain.AddRideRejected,
				ChangedPaths: []string{},
				Reason:       err.Error(),
			}
			continue
		}
		applyOverrides(sub, entry)
		subs = append(subs, *sub)
		subIndex = append(subIndex, i)
	}

	if len(subs) > 0 {
		engineResults, err := h.engine.AddRides(c.Request.Context(), subs)
		if err != nil {
			if errors.Is(err, domain.ErrNetworkNotLoaded) {
				respondBadRequest(c, "No path network has been imported yet")
				return
			}
			respondInternalError(c, err, "Failed to add rides")
			return
		}
		for j := range engineResults {
			results[subIndex[j]] = *dto.MapAddRideResultToDTO(&engineResults[j])
		}
	}

	c.JSON(http.StatusOK, &dto.BatchAddRidesResponse{Results: results})
}

// DeleteRide removes a ride and rolls its coverage back
func (h *handler) DeleteRide(c *gin.Context) {
	rideID := c.Param("id")
	if rideID == "" {
		respondBadRequest(c, "Ride ID is required")
		return
	}

	result, err := h.engine.DeleteRide(c.Request.Context(), rideID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownRide) {
			respondNotFound(c, "Ride not found")
			return
		}
		respondInternalError(c, err, "Failed to delete ride", zap.String("ride_id", rideID))
		return
	}

	changed := result.ChangedPaths
	if changed == nil {
		changed = []string{}
	}
	c.JSON(http.StatusOK, &dto.DeleteRideResponse{
		Status:       "deleted",
		ChangedPaths: changed,
	})
}

// ImportNetwork installs a path network from a GeoJSON body
func (h *handler) ImportNetwork(c *gin.Context) {
	// Parse query parameters
	queryParams, err := ParseImportNetworkQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, constants.MAX_NETWORK_BYTES+1))
	if err != nil {
		respondBadRequest(c, "Failed to read request body")
		return
	}
	if len(body) == 0 {
		respondValidationError(c, "Request body is required")
		return
	}
	if len(body) > constants.MAX_NETWORK_BYTES {
		respondValidationError(c, fmt.Sprintf("network exceeds %d bytes", constants.MAX_NETWORK_BYTES))
		return
	}

	paths, err := trace.DecodeNetwork(body)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	result, err := h.engine.ImportNetwork(c.Request.Context(), paths, queryParams.Replace)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyNetwork) {
			respondValidationError(c, err.Error())
			return
		}
		respondInternalError(c, err, "Failed to import network")
		return
	}

	changed := result.ChangedPaths
	if changed == nil {
		changed = []string{}
	}
	c.JSON(http.StatusOK, &dto.ImportNetworkResponse{
		PathsImported:  result.PathsImported,
		PathsSkipped:   result.PathsSkipped,
		RidesRematched: result.RidesRematched,
		ChangedPaths:   changed,
	})
}

// HealthCheck reports liveness and whether a path network is loaded.
// Probes only need the status field; network_loaded tells callers that
// reads will serve an empty state until a network is imported.
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"network_loaded": h.engine.Statistics().TotalPaths > 0,
	})
}

// readAddRideRequest accepts the three upload shapes: a JSON envelope with
// base64 content, a multipart form carrying the file, and the raw trace
// bytes as the body. Format detection works on content, so raw uploads may
// omit the filename.
func readAddRideRequest(c *gin.Context) (*dto.AddRideRequest, error) {
	switch c.ContentType() {
	case "application/json":
		var req dto.AddRideRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, fmt.Errorf("Invalid request body: %v", err)
		}
		return &req, nil
	case "multipart/form-data":
		return readMultipartRide(c)
	default:
		return readRawRide(c)
	}
}

// readMultipartRide reads the "file" part plus the optional name and
// date_recorded form fields
func readMultipartRide(c *gin.Context) (*dto.AddRideRequest, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, errors.New("multipart upload requires a part named \"file\"")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, constants.MAX_TRACE_BYTES+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %v", err)
	}

	req := &dto.AddRideRequest{Filename: fh.Filename, Content: content}
	if name := c.PostForm("name"); name != "" {
		req.Name = &name
	}
	if raw := c.PostForm("date_recorded"); raw != "" {
		recorded, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("date_recorded must be an RFC 3339 timestamp: %v", err)
		}
		req.DateRecorded = &recorded
	}
	return req, nil
}

// readRawRide treats the whole body as the trace file. The filename query
// parameter is optional and only aids format detection for payloads the
// content sniffer cannot place.
func readRawRide(c *gin.Context) (*dto.AddRideRequest, error) {
	content, err := io.ReadAll(io.LimitReader(c.Request.Body, constants.MAX_TRACE_BYTES+1))
	if err != nil {
		return nil, errors.New("failed to read request body")
	}
	filename := c.Query("filename")
	if filename == "" {
		filename = "upload"
	}
	return &dto.AddRideRequest{Filename: filename, Content: content}, nil
}

// applyOverrides lets request fields win over what the trace file carries
func applyOverrides(sub *domain.RideSubmission, req *dto.AddRideRequest) {
	if req.Name != nil {
		sub.Name = req.Name
	}
	if req.DateRecorded != nil {
		sub.DateRecorded = req.DateRecorded
	}
}

// addRideStatusCode maps a submission outcome to its HTTP status. The
// outcome itself always travels in the body.
func addRideStatusCode(status domain.AddRideStatus) int {
	switch status {
	case domain.AddRideCreated:
		return http.StatusCreated
	case domain.AddRideDuplicate:
		return http.StatusOK
	default:
		return http.StatusUnprocessableEntity
	}
}
