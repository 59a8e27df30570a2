package shift

import "errors"

var (
	// ErrInvalidConfiguration covers contradictory or out-of-range settings,
	// such as a shift that ends before it starts.
	ErrInvalidConfiguration = errors.New("invalid shift configuration")

	// ErrMissingPolicy means no organization settings could be found.
	ErrMissingPolicy = errors.New("no shift settings found for organization")

	ErrOverrideNotFound = errors.New("employee shift override not found")
)
