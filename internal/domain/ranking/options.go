package ranking

// Option applies a configuration option to a Rank call.
type Option func(*rankOptions)

type rankOptions struct {
	limit    int
	minScore int
}

// WithLimit caps the number of returned matches. Values <= 0 disable the cap.
func WithLimit(n int) Option {
	return func(o *rankOptions) {
		o.limit = n
	}
}

// WithMinScore drops matches scoring below score.
func WithMinScore(score int) Option {
	return func(o *rankOptions) {
		o.minScore = score
	}
}
