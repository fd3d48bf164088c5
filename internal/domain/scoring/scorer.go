// Package scoring computes the weighted fit between one talent and one
// opportunity.
package scoring

import (
	"math"
	"slices"
	"time"

	"github.com/okian/maison/internal/domain/compensation"
	model "github.com/okian/maison/internal/domain/model"
)

const maxScore = 100

// Scorer turns a (talent, opportunity) pair into a Match. It holds no
// mutable state and is safe for concurrent use.
type Scorer struct {
	policy  Policy
	aligner *compensation.Aligner
	now     func() time.Time
}

// New creates a Scorer with the default policy, then applies opts.
func New(opts ...Option) (*Scorer, error) {
	aligner, err := compensation.NewAligner()
	if err != nil {
		return nil, err
	}
	s := &Scorer{
		policy:  DefaultPolicy(),
		aligner: aligner,
		now:     time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if err := s.policy.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Policy returns a copy of the active policy.
func (s *Scorer) Policy() Policy { return s.policy.Clone() }

// Score validates both records and computes the match. Incomplete talent
// data never fails; the affected dimensions fall back to Policy.Neutral.
func (s *Scorer) Score(t model.Talent, o model.Opportunity) (model.Match, error) {
	if err := t.Validate(); err != nil {
		return model.Match{}, err
	}
	if err := o.Validate(); err != nil {
		return model.Match{}, err
	}
	alignment, err := s.aligner.Align(t.ExpectedCompensation, o.CompensationRange)
	if err != nil {
		return model.Match{}, err
	}

	breakdown := s.Breakdown(t, o)
	total := 0.0
	// Fixed order keeps the float sum reproducible.
	for _, d := range model.Dimensions {
		total += s.policy.Weights[d] * breakdown[d]
	}

	return model.Match{
		TalentID:      t.ID,
		OpportunityID: o.ID,
		Score:         toScore(total),
		Breakdown:     breakdown,
		Compensation:  alignment,
		ComputedAt:    s.now().UTC(),
	}, nil
}

// Breakdown returns the per-dimension sub-scores without validating input.
func (s *Scorer) Breakdown(t model.Talent, o model.Opportunity) map[model.Dimension]float64 {
	return map[model.Dimension]float64{
		model.DimensionRoleLevel:  s.roleLevel(t, o),
		model.DimensionStoreTier:  s.storeTier(t, o),
		model.DimensionDivision:   s.division(t, o),
		model.DimensionExperience: experience(t, o),
		model.DimensionLocation:   s.location(t, o),
		model.DimensionTimeline:   s.timeline(t),
		model.DimensionAssessment: s.assessment(t),
	}
}

func (s *Scorer) roleLevel(t model.Talent, o model.Opportunity) float64 {
	required := o.RequiredRoleLevel.Ordinal()
	levels := make([]int, 0, len(t.TargetRoleLevels)+1)
	if t.CurrentRoleLevel.Valid() {
		levels = append(levels, t.CurrentRoleLevel.Ordinal())
	}
	for _, l := range t.TargetRoleLevels {
		if l.Valid() {
			levels = append(levels, l.Ordinal())
		}
	}
	if len(levels) == 0 {
		return s.policy.Neutral
	}
	nearest := math.MaxInt
	for _, l := range levels {
		nearest = min(nearest, abs(l-required))
	}
	return stepScore(nearest, s.policy.RoleLevelStep)
}

func (s *Scorer) storeTier(t model.Talent, o model.Opportunity) float64 {
	if !t.CurrentStoreTier.Valid() {
		return s.policy.Neutral
	}
	return stepScore(abs(t.CurrentStoreTier.Ordinal()-o.StoreTier.Ordinal()), s.policy.StoreTierStep)
}

// division is the Jaccard index of the talent's divisions and the
// opportunity's single division.
func (s *Scorer) division(t model.Talent, o model.Opportunity) float64 {
	want := model.NormalizeDivision(o.Division)
	if want == "" {
		return 1
	}
	have := make(map[string]struct{}, len(t.Divisions))
	for _, d := range t.Divisions {
		if n := model.NormalizeDivision(d); n != "" {
			have[n] = struct{}{}
		}
	}
	if len(have) == 0 {
		return s.policy.Neutral
	}
	if _, ok := have[want]; ok {
		return 1 / float64(len(have))
	}
	return 0
}

func experience(t model.Talent, o model.Opportunity) float64 {
	if o.RequiredExperienceYears <= 0 || t.YearsInLuxury >= o.RequiredExperienceYears {
		return 1
	}
	return t.YearsInLuxury / o.RequiredExperienceYears
}

func (s *Scorer) location(t model.Talent, o model.Opportunity) float64 {
	city := model.NormalizePlace(o.Location.City)
	region := model.NormalizePlace(o.Location.Region)
	if city == "" && region == "" {
		return s.policy.Neutral
	}

	var cities, regions []string
	if t.CurrentLocation != nil {
		cities = appendPlace(cities, t.CurrentLocation.City)
		regions = appendPlace(regions, t.CurrentLocation.Region)
	}
	// A target entry may name either a city or a region.
	for _, l := range t.TargetLocations {
		cities = appendPlace(cities, l)
		regions = appendPlace(regions, l)
	}
	if len(cities) == 0 && len(regions) == 0 {
		return s.policy.Neutral
	}

	switch {
	case city != "" && slices.Contains(cities, city):
		return s.policy.CityMatch
	case region != "" && slices.Contains(regions, region):
		return s.policy.RegionMatch
	case t.Mobility.OrDefault() == model.MobilityRelocate:
		return s.policy.RelocateMatch
	default:
		return 0
	}
}

func (s *Scorer) timeline(t model.Talent) float64 {
	if v, ok := s.policy.TimelineFactors[t.Timeline.OrDefault()]; ok {
		return v
	}
	return s.policy.Neutral
}

func (s *Scorer) assessment(t model.Talent) float64 {
	if t.Assessment == nil {
		return s.policy.Neutral
	}
	sum, n := 0.0, 0
	for _, d := range model.SkillDimensions {
		if v, ok := t.Assessment.Score(d); ok {
			sum += v / model.MaxAssessmentScore
			n++
		}
	}
	if n == 0 {
		return s.policy.Neutral
	}
	return sum / float64(n)
}

func stepScore(distance int, step float64) float64 {
	return math.Max(0, 1-step*float64(distance))
}

func toScore(total float64) int {
	v := int(math.Round(total * maxScore))
	return max(0, min(maxScore, v))
}

func appendPlace(list []string, place string) []string {
	if n := model.NormalizePlace(place); n != "" {
		return append(list, n)
	}
	return list
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
