package worker

import (
	"github.com/okian/maison/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithOnDone registers a callback invoked after each job.
func WithOnDone(fn DoneFunc) Option {
	return func(w *InMemoryWorker) {
		w.onDone = fn
	}
}
