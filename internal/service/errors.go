package service

import "errors"

var (
	ErrWashMachineNotFound = errors.New("wash machine not found")
	ErrInvalidPhaseOrder   = errors.New("phases must be a permutation of the current phases")

	// Event history filters.
	ErrInvalidTimeRange = errors.New("from must not be after to")
	ErrUnknownEventType = errors.New("unknown event type")
)
