package selector

import "errors"

// Sentinel errors for the selector package.
var (
	// ErrInvalidRoot is returned when the scan root is missing or not a directory.
	ErrInvalidRoot = errors.New("root path does not exist or is not a directory")

	// ErrDownstreamClosed is returned when the consumer of the emitted list
	// stopped reading before the run finished.
	ErrDownstreamClosed = errors.New("downstream consumer closed")
)
