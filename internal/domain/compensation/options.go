package compensation

// DefaultTolerance is the share of the budget width accepted on either side.
const DefaultTolerance = 0.10

// Option configures an Aligner.
type Option func(*Aligner)

// WithTolerance sets the tolerance as a fraction of the budget width.
func WithTolerance(ratio float64) Option {
	return func(a *Aligner) {
		a.tolerance = ratio
	}
}
