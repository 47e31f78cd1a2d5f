package subset

import "errors"

// Solver errors.
var (
	// ErrInvalidModulus is returned when k < 1 or k > MaxModulus.
	ErrInvalidModulus = errors.New("invalid modulus")

	// ErrInvalidCounts is returned when bucket counts contain a negative value.
	ErrInvalidCounts = errors.New("invalid bucket counts")

	// ErrDuplicateElement is returned when an input set repeats a value.
	ErrDuplicateElement = errors.New("duplicate element")
)
