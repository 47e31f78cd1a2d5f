package problem

import "errors"

// ErrInvalidInput is returned when an element, modulus or file does not
// parse as the expected integers.
var ErrInvalidInput = errors.New("invalid input")
