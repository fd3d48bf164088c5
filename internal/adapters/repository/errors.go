package repository

import "errors"

// Sentinel kinds for match store errors.
var (
	ErrNotFound     = errors.New("match not found")
	ErrInvalidLimit = errors.New("invalid match limit")
	ErrInvalidKey   = errors.New("match key must name a talent and an opportunity")
)
