package model

import "strings"

// Dimension names one axis of the match breakdown.
type Dimension string

const (
	DimensionRoleLevel  Dimension = "role_level"
	DimensionStoreTier  Dimension = "store_tier"
	DimensionDivision   Dimension = "division"
	DimensionExperience Dimension = "experience"
	DimensionLocation   Dimension = "location"
	DimensionTimeline   Dimension = "timeline"
	DimensionAssessment Dimension = "assessment"
)

// Dimensions lists the match dimensions in their fixed summation order.
var Dimensions = []Dimension{
	DimensionRoleLevel,
	DimensionStoreTier,
	DimensionDivision,
	DimensionExperience,
	DimensionLocation,
	DimensionTimeline,
	DimensionAssessment,
}

// SkillDimension is one of the four assessment axes scored 0-5.
type SkillDimension string

const (
	SkillServiceExcellence SkillDimension = "service_excellence"
	SkillClienteling       SkillDimension = "clienteling"
	SkillOperations        SkillDimension = "operations"
	SkillLeadershipSignals SkillDimension = "leadership_signals"
)

// SkillDimensions lists the assessment axes in display order.
var SkillDimensions = []SkillDimension{
	SkillServiceExcellence,
	SkillClienteling,
	SkillOperations,
	SkillLeadershipSignals,
}

var skillDisplayNames = map[SkillDimension]string{
	SkillServiceExcellence: "Service Excellence",
	SkillClienteling:       "Clienteling",
	SkillOperations:        "Operations",
	SkillLeadershipSignals: "Leadership Signals",
}

// DisplayName returns the human-readable label, e.g. "Leadership Signals".
func (s SkillDimension) DisplayName() string {
	if name, ok := skillDisplayNames[s]; ok {
		return name
	}
	return string(s)
}

// Category tags a learning module. It is either a SkillDimension or a
// general topic such as "product_knowledge".
type Category string

// Skill returns the assessment axis the category targets, if any.
func (c Category) Skill() (SkillDimension, bool) {
	s := SkillDimension(c)
	_, ok := skillDisplayNames[s]
	return s, ok
}

// Valid reports whether c is a non-blank snake_case tag.
func (c Category) Valid() bool {
	return c != "" && normalizeEnum(string(c)) == string(c)
}

// NormalizeDivision folds case and inner whitespace so "Leather  goods"
// and "leather goods" compare equal.
func NormalizeDivision(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NormalizePlace folds a city or region name for comparison.
func NormalizePlace(s string) string {
	return NormalizeDivision(s)
}
