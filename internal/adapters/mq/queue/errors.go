package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrQueueFull   = errors.New("recompute queue is full")
	ErrQueueClosed = errors.New("recompute queue is closed")
)
