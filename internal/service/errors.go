package service

import "errors"

// Common service errors
var (
	// ErrForbidden is returned when a principal attempts an operation
	// its role does not permit. Whole-call; no partial effect.
	ErrForbidden = errors.New("operation not permitted for this role")
)
