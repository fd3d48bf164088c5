package compensation

import "errors"

// ErrInvalidTolerance is returned when the tolerance ratio is negative or not finite.
var ErrInvalidTolerance = errors.New("compensation tolerance must be a finite non-negative ratio")
