package learning

import "errors"

var (
	// ErrDuplicateModule is returned when two catalog entries share an id.
	ErrDuplicateModule = errors.New("duplicate module id")
	// ErrEmptyCatalog is returned when a catalog document lists no modules.
	ErrEmptyCatalog = errors.New("catalog has no modules")
	// ErrInvalidThreshold is returned for a gap threshold outside (0, 5].
	ErrInvalidThreshold = errors.New("gap threshold must be within (0, 5]")
	// ErrInvalidLimit is returned for a non-positive recommendation limit.
	ErrInvalidLimit = errors.New("recommendation limit must be positive")
)
