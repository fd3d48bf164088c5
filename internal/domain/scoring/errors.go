package scoring

import "errors"

// ErrInvalidPolicy is returned when a Policy fails validation.
var ErrInvalidPolicy = errors.New("invalid scoring policy")
