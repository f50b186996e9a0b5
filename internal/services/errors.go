// internal/services/errors.go
package services

import "errors"

// Validation errors are caller-input errors: surfaced synchronously and
// never retried. Each one names the exact precondition that failed.
var (
	ErrInvalidCategory    = errors.New("category is not in the supported set")
	ErrMissingPhoto       = errors.New("photo reference is required")
	ErrMissingLocation    = errors.New("location needs coordinates or an address")
	ErrDescriptionTooLong = errors.New("description exceeds the maximum length")
	ErrInvalidStatus      = errors.New("status is not in the supported set")
	ErrNoRecipients       = errors.New("recipient list is empty")
)
