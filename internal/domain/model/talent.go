// Package model contains the typed records exchanged between the matching
// engine and its callers.
package model

import (
	"math"
	"time"
)

// Location is a city within a region.
type Location struct {
	City   string `json:"city" mapstructure:"city"`
	Region string `json:"region" mapstructure:"region"`
}

// CompensationRange is an annual amount band in one currency.
type CompensationRange struct {
	Min      float64 `json:"min" mapstructure:"min"`
	Max      float64 `json:"max" mapstructure:"max"`
	Currency string  `json:"currency" mapstructure:"currency"`
}

// Validate rejects inverted, negative or non-finite bands.
func (r CompensationRange) Validate(field string) error {
	if !finite(r.Min) || !finite(r.Max) {
		return Invalid(field, "bounds must be finite")
	}
	if r.Min < 0 || r.Max < 0 {
		return Invalid(field, "bounds must not be negative")
	}
	if r.Min > r.Max {
		return Invalid(field, "min %.2f exceeds max %.2f", r.Min, r.Max)
	}
	return nil
}

// Midpoint returns the centre of the band.
func (r CompensationRange) Midpoint() float64 { return (r.Min + r.Max) / 2 }

// Width returns max - min.
func (r CompensationRange) Width() float64 { return r.Max - r.Min }

// MaxAssessmentScore is the top of the 0-5 assessment scale.
const MaxAssessmentScore = 5.0

// AssessmentSummary holds the four assessment axes. A nil axis has not been
// assessed yet, which is not the same as a zero score.
type AssessmentSummary struct {
	ServiceExcellence *float64   `json:"service_excellence,omitempty" mapstructure:"service_excellence"`
	Clienteling       *float64   `json:"clienteling,omitempty" mapstructure:"clienteling"`
	Operations        *float64   `json:"operations,omitempty" mapstructure:"operations"`
	LeadershipSignals *float64   `json:"leadership_signals,omitempty" mapstructure:"leadership_signals"`
	CompletedAt       *time.Time `json:"completed_at,omitempty" mapstructure:"completed_at"`
}

// Score returns the value of one axis and whether it was assessed.
func (a AssessmentSummary) Score(d SkillDimension) (float64, bool) {
	var v *float64
	switch d {
	case SkillServiceExcellence:
		v = a.ServiceExcellence
	case SkillClienteling:
		v = a.Clienteling
	case SkillOperations:
		v = a.Operations
	case SkillLeadershipSignals:
		v = a.LeadershipSignals
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Completed reports whether the assessment flow has finished.
func (a AssessmentSummary) Completed() bool {
	return a.CompletedAt != nil && !a.CompletedAt.IsZero()
}

// Validate rejects axes outside [0, 5].
func (a AssessmentSummary) Validate() error {
	for _, d := range SkillDimensions {
		v, ok := a.Score(d)
		if !ok {
			continue
		}
		if !finite(v) || v < 0 || v > MaxAssessmentScore {
			return Invalid("assessment."+string(d), "score %v outside [0, 5]", v)
		}
	}
	return nil
}

// Talent is the scoring-relevant snapshot of a candidate profile.
type Talent struct {
	ID                   string             `json:"id"`
	CurrentRoleLevel     RoleLevel          `json:"current_role_level"`
	CurrentStoreTier     StoreTier          `json:"current_store_tier"`
	Divisions            []string           `json:"divisions"`
	YearsInLuxury        float64            `json:"years_in_luxury"`
	Mobility             Mobility           `json:"mobility"`
	Timeline             Timeline           `json:"timeline"`
	TargetRoleLevels     []RoleLevel        `json:"target_role_levels"`
	TargetLocations      []string           `json:"target_locations"`
	CurrentLocation      *Location          `json:"current_location,omitempty"`
	ExpectedCompensation *CompensationRange `json:"expected_compensation,omitempty"`
	Assessment           *AssessmentSummary `json:"assessment,omitempty"`
}

// Validate checks structural rules. Blank enums are treated as missing data,
// not as errors.
func (t Talent) Validate() error {
	if !finite(t.YearsInLuxury) || t.YearsInLuxury < 0 {
		return Invalid("years_in_luxury", "must be a non-negative number, got %v", t.YearsInLuxury)
	}
	if t.CurrentRoleLevel != "" && !t.CurrentRoleLevel.Valid() {
		return Invalid("current_role_level", "unknown role level %q", t.CurrentRoleLevel)
	}
	if t.CurrentStoreTier != "" && !t.CurrentStoreTier.Valid() {
		return Invalid("current_store_tier", "unknown store tier %q", t.CurrentStoreTier)
	}
	if !t.Mobility.OrDefault().Valid() {
		return Invalid("mobility", "unknown mobility %q", t.Mobility)
	}
	if !t.Timeline.OrDefault().Valid() {
		return Invalid("timeline", "unknown timeline %q", t.Timeline)
	}
	for _, l := range t.TargetRoleLevels {
		if !l.Valid() {
			return Invalid("target_role_levels", "unknown role level %q", l)
		}
	}
	if t.ExpectedCompensation != nil {
		if err := t.ExpectedCompensation.Validate("expected_compensation"); err != nil {
			return err
		}
	}
	if t.Assessment != nil {
		if err := t.Assessment.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
