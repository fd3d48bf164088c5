package scoring

import (
	"fmt"
	"math"

	model "github.com/okian/maison/internal/domain/model"
)

// weightSumTolerance bounds floating-point drift when checking that weights sum to one.
const weightSumTolerance = 1e-9

// Policy holds every constant the scorer uses. Weights are keyed by
// dimension and must sum to 1.
type Policy struct {
	Weights       map[model.Dimension]float64
	RoleLevelStep float64
	StoreTierStep float64
	// Neutral is the sub-score used when talent data for a dimension is missing.
	Neutral         float64
	CityMatch       float64
	RegionMatch     float64
	RelocateMatch   float64
	TimelineFactors map[model.Timeline]float64
}

// DefaultPolicy returns the production weights and factors.
func DefaultPolicy() Policy {
	return Policy{
		Weights: map[model.Dimension]float64{
			model.DimensionRoleLevel:  0.20,
			model.DimensionStoreTier:  0.10,
			model.DimensionDivision:   0.15,
			model.DimensionExperience: 0.15,
			model.DimensionLocation:   0.15,
			model.DimensionTimeline:   0.10,
			model.DimensionAssessment: 0.15,
		},
		RoleLevelStep: 0.25,
		StoreTierStep: 0.3,
		Neutral:       0.5,
		CityMatch:     1.0,
		RegionMatch:   0.6,
		RelocateMatch: 0.3,
		TimelineFactors: map[model.Timeline]float64{
			model.TimelineActive:     1.0,
			model.TimelinePassive:    0.6,
			model.TimelineNotLooking: 0.1,
		},
	}
}

// Clone returns a deep copy of p.
func (p Policy) Clone() Policy {
	c := p
	c.Weights = make(map[model.Dimension]float64, len(p.Weights))
	for k, v := range p.Weights {
		c.Weights[k] = v
	}
	c.TimelineFactors = make(map[model.Timeline]float64, len(p.TimelineFactors))
	for k, v := range p.TimelineFactors {
		c.TimelineFactors[k] = v
	}
	return c
}

// Validate checks weights, steps and factors.
func (p Policy) Validate() error {
	if len(p.Weights) != len(model.Dimensions) {
		return fmt.Errorf("%w: expected %d weights, got %d", ErrInvalidPolicy, len(model.Dimensions), len(p.Weights))
	}
	sum := 0.0
	for _, d := range model.Dimensions {
		w, ok := p.Weights[d]
		if !ok {
			return fmt.Errorf("%w: missing weight for %s", ErrInvalidPolicy, d)
		}
		if !unit(w) {
			return fmt.Errorf("%w: weight %s=%v outside [0, 1]", ErrInvalidPolicy, d, w)
		}
		sum += w
	}
	if math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %v, want 1", ErrInvalidPolicy, sum)
	}

	for name, v := range map[string]float64{
		"role_level_step": p.RoleLevelStep,
		"store_tier_step": p.StoreTierStep,
	} {
		if !unit(v) || v == 0 {
			return fmt.Errorf("%w: %s=%v outside (0, 1]", ErrInvalidPolicy, name, v)
		}
	}
	for name, v := range map[string]float64{
		"neutral":        p.Neutral,
		"city_match":     p.CityMatch,
		"region_match":   p.RegionMatch,
		"relocate_match": p.RelocateMatch,
	} {
		if !unit(v) {
			return fmt.Errorf("%w: %s=%v outside [0, 1]", ErrInvalidPolicy, name, v)
		}
	}
	for _, tl := range []model.Timeline{model.TimelineActive, model.TimelinePassive, model.TimelineNotLooking} {
		v, ok := p.TimelineFactors[tl]
		if !ok || !unit(v) {
			return fmt.Errorf("%w: timeline factor %s missing or outside [0, 1]", ErrInvalidPolicy, tl)
		}
	}
	return nil
}

func unit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
