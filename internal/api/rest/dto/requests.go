package dto

import (
	"fmt"
	"time"

	"github.com/waycover/waycover/internal/api/shared/constants"
	apierrors "github.com/waycover/waycover/internal/api/shared/errors"
)

// AddRideRequest represents the request body for submitting one trace file.
// Content carries the raw file bytes, base64-encoded on the wire. Name and
// DateRecorded override whatever the trace itself carries.
type AddRideRequest struct {
	Filename     string     `json:"filename"`
	Content      []byte     `json:"content"`
	Name         *string    `json:"name,omitempty"`
	DateRecorded *time.Time `json:"date_recorded,omitempty"`
}

// Validate validates the request body
func (r *AddRideRequest) Validate() error {
	// Validate: filename must be provided, it drives format detection
	if r.Filename == "" {
		return apierrors.NewValidationError("filename is required")
	}

	// Validate: content must be provided
	if len(r.Content) == 0 {
		return apierrors.NewValidationError("content is required")
	}

	// Validate: content must fit the upload cap
	if len(r.Content) > constants.MAX_TRACE_BYTES {
		return apierrors.NewValidationError(fmt.Sprintf("content exceeds %d bytes", constants.MAX_TRACE_BYTES))
	}

	return nil
}

// BatchAddRidesRequest represents the request body for submitting several
// trace files in one call
type BatchAddRidesRequest struct {
	Rides []AddRideRequest `json:"rides"`
}

// Validate validates the request body
func (r *BatchAddRidesRequest) Validate() error {
	// Validate: rides must be provided
	if len(r.Rides) == 0 {
		return apierrors.NewValidationError("rides is required and must not be empty")
	}

	// Validate: maximum number of rides allowed. Invalid entries are not
	// rejected here, they surface as per-item outcomes instead.
	if len(r.Rides) > constants.MAX_RIDES_PER_BATCH {
		return apierrors.NewValidationError(fmt.Sprintf("maximum %d rides allowed", constants.MAX_RIDES_PER_BATCH))
	}

	return nil
}
