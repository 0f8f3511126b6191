package service

import (
	"errors"

	"github.com/mmynk/allotment/internal/allocation"
)

var (
	// ErrNotFound is returned when the requested participant does not exist.
	ErrNotFound = allocation.ErrNotFound

	// ErrDuplicate is returned when adding a participant whose name pair is taken.
	ErrDuplicate = allocation.ErrDuplicate

	// ErrInvalidPercentage is returned for a share that is missing, not
	// numeric or outside [0, 100].
	ErrInvalidPercentage error = &ValidationError{Message: "percentage must be a number between 0 and 100"}

	errNamesRequired = &ValidationError{Message: "first_name and last_name are required"}
)

// ValidationError is a user-correctable problem with the request input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is an expected rejection of the request:
// bad input, a duplicate name pair or an over-allocation.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	var overErr *allocation.OverAllocationError
	return errors.As(err, &validationErr) ||
		errors.As(err, &overErr) ||
		errors.Is(err, ErrDuplicate)
}
