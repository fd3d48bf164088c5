package model

import "time"

// Alignment classifies expected compensation against a budget.
type Alignment string

const (
	AlignmentWithin  Alignment = "within_range"
	AlignmentAbove   Alignment = "above_range"
	AlignmentBelow   Alignment = "below_range"
	AlignmentUnknown Alignment = "unknown"
)

// MatchKey identifies a Match. At most one Match exists per key.
type MatchKey struct {
	TalentID      string
	OpportunityID string
}

func (k MatchKey) String() string { return k.TalentID + "/" + k.OpportunityID }

// Match is the derived result of scoring one talent against one opportunity.
// It is recomputed, never hand-edited.
type Match struct {
	TalentID      string                `json:"talent_id"`
	OpportunityID string                `json:"opportunity_id"`
	Score         int                   `json:"score"`
	Breakdown     map[Dimension]float64 `json:"breakdown"`
	Compensation  Alignment             `json:"compensation"`
	ComputedAt    time.Time             `json:"computed_at"`
}

// Key returns the upsert key of m.
func (m Match) Key() MatchKey {
	return MatchKey{TalentID: m.TalentID, OpportunityID: m.OpportunityID}
}

// RecomputeJob asks the background pool to rescore one pair.
type RecomputeJob struct {
	ID          string
	Talent      Talent
	Opportunity Opportunity
	EnqueuedAt  time.Time
}

// Key returns the match key the job recomputes.
func (j RecomputeJob) Key() MatchKey {
	return MatchKey{TalentID: j.Talent.ID, OpportunityID: j.Opportunity.ID}
}
