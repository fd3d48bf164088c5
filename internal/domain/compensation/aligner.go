// Package compensation classifies a talent's expected pay against an
// opportunity's budget band.
package compensation

import (
	"math"
	"strings"

	model "github.com/okian/maison/internal/domain/model"
)

// Aligner compares compensation bands. It is immutable after construction.
type Aligner struct {
	tolerance float64
}

// NewAligner builds an Aligner, applying opts over the defaults.
func NewAligner(opts ...Option) (*Aligner, error) {
	a := &Aligner{tolerance: DefaultTolerance}
	for _, opt := range opts {
		opt(a)
	}
	if math.IsNaN(a.tolerance) || math.IsInf(a.tolerance, 0) || a.tolerance < 0 {
		return nil, ErrInvalidTolerance
	}
	return a, nil
}

// Tolerance returns the configured tolerance ratio.
func (a *Aligner) Tolerance() float64 { return a.tolerance }

// Align classifies the midpoint of expected against budget widened by the
// tolerance. Missing bands, blank or differing currencies yield unknown.
func (a *Aligner) Align(expected, budget *model.CompensationRange) (model.Alignment, error) {
	if expected != nil {
		if err := expected.Validate("expected_compensation"); err != nil {
			return model.AlignmentUnknown, err
		}
	}
	if budget != nil {
		if err := budget.Validate("compensation_range"); err != nil {
			return model.AlignmentUnknown, err
		}
	}
	if expected == nil || budget == nil {
		return model.AlignmentUnknown, nil
	}
	ec := strings.TrimSpace(expected.Currency)
	bc := strings.TrimSpace(budget.Currency)
	if ec == "" || bc == "" || !strings.EqualFold(ec, bc) {
		return model.AlignmentUnknown, nil
	}

	tol := budget.Width() * a.tolerance
	mid := expected.Midpoint()
	switch {
	case mid > budget.Max+tol:
		return model.AlignmentAbove, nil
	case mid < budget.Min-tol:
		return model.AlignmentBelow, nil
	default:
		return model.AlignmentWithin, nil
	}
}

var defaultAligner = &Aligner{tolerance: DefaultTolerance}

// Align classifies expected against budget with the default tolerance.
func Align(expected, budget *model.CompensationRange) (model.Alignment, error) {
	return defaultAligner.Align(expected, budget)
}
