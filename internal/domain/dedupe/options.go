package dedupe

// Option applies a configuration option to the in-memory Deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize bounds the number of tracked keys. When full the oldest key is
// evicted. Values <= 0 make the deduper unbounded.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
