package model

import (
	"slices"
	"strings"
)

// RoleLevel is an ordinal seniority classification.
type RoleLevel string

const (
	RoleAssociate        RoleLevel = "associate"
	RoleSeniorAssociate  RoleLevel = "senior_associate"
	RoleTeamLead         RoleLevel = "team_lead"
	RoleAssistantManager RoleLevel = "assistant_manager"
	RoleStoreManager     RoleLevel = "store_manager"
	RoleAreaManager      RoleLevel = "area_manager"
	RoleRegionalDirector RoleLevel = "regional_director"
)

// RoleLevels lists every role level from most junior to most senior.
var RoleLevels = []RoleLevel{
	RoleAssociate,
	RoleSeniorAssociate,
	RoleTeamLead,
	RoleAssistantManager,
	RoleStoreManager,
	RoleAreaManager,
	RoleRegionalDirector,
}

// Ordinal returns the seniority position of l, or -1 when l is unknown.
func (l RoleLevel) Ordinal() int { return slices.Index(RoleLevels, l) }

// Valid reports whether l is a known role level.
func (l RoleLevel) Valid() bool { return l.Ordinal() >= 0 }

// StoreTier is an ordinal store-prestige classification.
type StoreTier string

const (
	TierFlagship   StoreTier = "flagship"
	TierBoutique   StoreTier = "boutique"
	TierConcession StoreTier = "concession"
	TierOutlet     StoreTier = "outlet"
)

// StoreTiers lists every tier from most to least prestigious.
var StoreTiers = []StoreTier{TierFlagship, TierBoutique, TierConcession, TierOutlet}

// Ordinal returns the prestige position of t, or -1 when t is unknown.
func (t StoreTier) Ordinal() int { return slices.Index(StoreTiers, t) }

// Valid reports whether t is a known tier.
func (t StoreTier) Valid() bool { return t.Ordinal() >= 0 }

// Mobility describes how far a talent is willing to move.
type Mobility string

const (
	MobilityLocal    Mobility = "local"
	MobilityRegional Mobility = "regional"
	MobilityRelocate Mobility = "relocate"
)

// Valid reports whether m is a known mobility.
func (m Mobility) Valid() bool {
	return m == MobilityLocal || m == MobilityRegional || m == MobilityRelocate
}

// OrDefault maps a blank mobility to local.
func (m Mobility) OrDefault() Mobility {
	if m == "" {
		return MobilityLocal
	}
	return m
}

// Timeline describes a talent's job-search availability.
type Timeline string

const (
	TimelineActive     Timeline = "active"
	TimelinePassive    Timeline = "passive"
	TimelineNotLooking Timeline = "not_looking"
)

// Valid reports whether t is a known timeline.
func (t Timeline) Valid() bool {
	return t == TimelineActive || t == TimelinePassive || t == TimelineNotLooking
}

// OrDefault maps a blank timeline to passive.
func (t Timeline) OrDefault() Timeline {
	if t == "" {
		return TimelinePassive
	}
	return t
}

// OpportunityStatus is the publication state of an opportunity.
type OpportunityStatus string

const (
	StatusDraft  OpportunityStatus = "draft"
	StatusActive OpportunityStatus = "active"
	StatusPaused OpportunityStatus = "paused"
	StatusClosed OpportunityStatus = "closed"
)

// Valid reports whether s is a known status.
func (s OpportunityStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusPaused, StatusClosed:
		return true
	}
	return false
}

// Difficulty is the ordinal level of a learning module.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Difficulties lists every difficulty from easiest to hardest.
var Difficulties = []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

// Ordinal returns the position of d, or -1 when d is unknown.
func (d Difficulty) Ordinal() int { return slices.Index(Difficulties, d) }

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool { return d.Ordinal() >= 0 }

// ProgressStatus is a talent's state on one learning module.
type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

// Valid reports whether s is a known progress status.
func (s ProgressStatus) Valid() bool {
	return s == ProgressNotStarted || s == ProgressInProgress || s == ProgressCompleted
}

// ContentType is the delivery format of a learning module.
type ContentType string

const (
	ContentVideo    ContentType = "video"
	ContentArticle  ContentType = "article"
	ContentCourse   ContentType = "course"
	ContentWorkshop ContentType = "workshop"
	ContentPodcast  ContentType = "podcast"
)

// Valid reports whether c is a known content type.
func (c ContentType) Valid() bool {
	switch c {
	case ContentVideo, ContentArticle, ContentCourse, ContentWorkshop, ContentPodcast:
		return true
	}
	return false
}

// normalizeEnum folds case and separators so "Store Manager", "store-manager"
// and "STORE_MANAGER" all read as store_manager.
func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// ParseRoleLevel parses a role level. A blank value yields "" without error.
func ParseRoleLevel(s string) (RoleLevel, error) {
	l := RoleLevel(normalizeEnum(s))
	if l == "" || l.Valid() {
		return l, nil
	}
	return "", Invalid("role_level", "unknown role level %q", s)
}

// ParseStoreTier parses a store tier. A blank value yields "" without error.
func ParseStoreTier(s string) (StoreTier, error) {
	t := StoreTier(normalizeEnum(s))
	if t == "" || t.Valid() {
		return t, nil
	}
	return "", Invalid("store_tier", "unknown store tier %q", s)
}

// ParseMobility parses a mobility, coercing blank to local.
func ParseMobility(s string) (Mobility, error) {
	m := Mobility(normalizeEnum(s)).OrDefault()
	if m.Valid() {
		return m, nil
	}
	return "", Invalid("mobility", "unknown mobility %q", s)
}

// ParseTimeline parses a timeline, coercing blank to passive.
func ParseTimeline(s string) (Timeline, error) {
	t := Timeline(normalizeEnum(s)).OrDefault()
	if t.Valid() {
		return t, nil
	}
	return "", Invalid("timeline", "unknown timeline %q", s)
}

// ParseOpportunityStatus parses a status, coercing blank to draft.
func ParseOpportunityStatus(s string) (OpportunityStatus, error) {
	st := OpportunityStatus(normalizeEnum(s))
	if st == "" {
		return StatusDraft, nil
	}
	if st.Valid() {
		return st, nil
	}
	return "", Invalid("status", "unknown opportunity status %q", s)
}

// ParseProgressStatus parses a progress status, coercing blank to not_started.
func ParseProgressStatus(s string) (ProgressStatus, error) {
	st := ProgressStatus(normalizeEnum(s))
	if st == "" {
		return ProgressNotStarted, nil
	}
	if st.Valid() {
		return st, nil
	}
	return "", Invalid("status", "unknown progress status %q", s)
}
