package scoring

import (
	"time"

	"github.com/okian/maison/internal/domain/compensation"
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithPolicy replaces the default policy. The policy is copied.
func WithPolicy(p Policy) Option {
	return func(s *Scorer) {
		s.policy = p.Clone()
	}
}

// WithClock sets the source of Match.ComputedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithAligner sets the compensation aligner attached to each match.
func WithAligner(a *compensation.Aligner) Option {
	return func(s *Scorer) {
		if a != nil {
			s.aligner = a
		}
	}
}
