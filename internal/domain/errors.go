package domain

import "errors"

var (
	// ErrMalformedGeometry is returned when a trace or path geometry contains
	// coordinates outside valid ranges or non-finite values
	ErrMalformedGeometry = errors.New("malformed geometry")

	// ErrUnknownPath is returned when a referenced path does not exist
	ErrUnknownPath = errors.New("unknown path")

	// ErrUnknownRide is returned when a referenced ride does not exist
	ErrUnknownRide = errors.New("unknown ride")

	// ErrNetworkNotLoaded is returned when an operation requires a path
	// network and none has been imported
	ErrNetworkNotLoaded = errors.New("path network not loaded")

	// ErrEmptyNetwork is returned when a network import contains no usable paths
	ErrEmptyNetwork = errors.New("network contains no usable paths")
)
