package model

import (
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Records arriving from storage or JSON bodies are loosely typed. The
// Decode* functions coerce them into typed values (numeric strings, RFC3339
// timestamps, comma-separated lists) and reject unknown enum values.

type talentRecord struct {
	ID                   string             `mapstructure:"id"`
	CurrentRoleLevel     string             `mapstructure:"current_role_level"`
	CurrentStoreTier     string             `mapstructure:"current_store_tier"`
	Divisions            []string           `mapstructure:"divisions"`
	YearsInLuxury        float64            `mapstructure:"years_in_luxury"`
	Mobility             string             `mapstructure:"mobility"`
	Timeline             string             `mapstructure:"timeline"`
	TargetRoleLevels     []string           `mapstructure:"target_role_levels"`
	TargetLocations      []string           `mapstructure:"target_locations"`
	CurrentLocation      *Location          `mapstructure:"current_location"`
	ExpectedCompensation *CompensationRange `mapstructure:"expected_compensation"`
	Assessment           *AssessmentSummary `mapstructure:"assessment"`
}

type opportunityRecord struct {
	ID                      string             `mapstructure:"id"`
	RequiredRoleLevel       string             `mapstructure:"required_role_level"`
	StoreTier               string             `mapstructure:"store_tier"`
	Division                string             `mapstructure:"division"`
	RequiredExperienceYears float64            `mapstructure:"required_experience_years"`
	Location                Location           `mapstructure:"location"`
	CompensationRange       *CompensationRange `mapstructure:"compensation_range"`
	Status                  string             `mapstructure:"status"`
	PostedAt                time.Time          `mapstructure:"posted_at"`
}

type progressRecord struct {
	TalentID    string `mapstructure:"talent_id"`
	ModuleID    string `mapstructure:"module_id"`
	Status      string `mapstructure:"status"`
	ProgressPct int    `mapstructure:"progress_pct"`
}

func decodeRecord(field string, raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return Invalid(field, "%v", err)
	}
	return nil
}

// DecodeTalent builds a validated Talent from a loosely typed record.
func DecodeTalent(raw map[string]any) (Talent, error) {
	if raw == nil {
		return Talent{}, Invalid("talent", "record is missing")
	}
	var rec talentRecord
	if err := decodeRecord("talent", raw, &rec); err != nil {
		return Talent{}, err
	}

	role, err := ParseRoleLevel(rec.CurrentRoleLevel)
	if err != nil {
		return Talent{}, err
	}
	tier, err := ParseStoreTier(rec.CurrentStoreTier)
	if err != nil {
		return Talent{}, err
	}
	mobility, err := ParseMobility(rec.Mobility)
	if err != nil {
		return Talent{}, err
	}
	timeline, err := ParseTimeline(rec.Timeline)
	if err != nil {
		return Talent{}, err
	}
	targets := make([]RoleLevel, 0, len(rec.TargetRoleLevels))
	for _, s := range rec.TargetRoleLevels {
		l, err := ParseRoleLevel(s)
		if err != nil {
			return Talent{}, err
		}
		if l != "" {
			targets = append(targets, l)
		}
	}

	t := Talent{
		ID:                   strings.TrimSpace(rec.ID),
		CurrentRoleLevel:     role,
		CurrentStoreTier:     tier,
		Divisions:            trimAll(rec.Divisions),
		YearsInLuxury:        rec.YearsInLuxury,
		Mobility:             mobility,
		Timeline:             timeline,
		TargetRoleLevels:     targets,
		TargetLocations:      trimAll(rec.TargetLocations),
		CurrentLocation:      rec.CurrentLocation,
		ExpectedCompensation: rec.ExpectedCompensation,
		Assessment:           rec.Assessment,
	}
	if err := t.Validate(); err != nil {
		return Talent{}, err
	}
	return t, nil
}

// DecodeOpportunity builds a validated Opportunity from a loosely typed record.
func DecodeOpportunity(raw map[string]any) (Opportunity, error) {
	if raw == nil {
		return Opportunity{}, Invalid("opportunity", "record is missing")
	}
	var rec opportunityRecord
	if err := decodeRecord("opportunity", raw, &rec); err != nil {
		return Opportunity{}, err
	}

	role, err := ParseRoleLevel(rec.RequiredRoleLevel)
	if err != nil {
		return Opportunity{}, err
	}
	tier, err := ParseStoreTier(rec.StoreTier)
	if err != nil {
		return Opportunity{}, err
	}
	status, err := ParseOpportunityStatus(rec.Status)
	if err != nil {
		return Opportunity{}, err
	}

	o := Opportunity{
		ID:                      strings.TrimSpace(rec.ID),
		RequiredRoleLevel:       role,
		StoreTier:               tier,
		Division:                strings.TrimSpace(rec.Division),
		RequiredExperienceYears: rec.RequiredExperienceYears,
		Location:                rec.Location,
		CompensationRange:       rec.CompensationRange,
		Status:                  status,
		PostedAt:                rec.PostedAt,
	}
	if err := o.Validate(); err != nil {
		return Opportunity{}, err
	}
	return o, nil
}

// DecodeProgress builds a validated Progress row from a loosely typed record.
func DecodeProgress(raw map[string]any) (Progress, error) {
	var rec progressRecord
	if err := decodeRecord("progress", raw, &rec); err != nil {
		return Progress{}, err
	}
	status, err := ParseProgressStatus(rec.Status)
	if err != nil {
		return Progress{}, err
	}
	p := Progress{
		TalentID:    strings.TrimSpace(rec.TalentID),
		ModuleID:    strings.TrimSpace(rec.ModuleID),
		Status:      status,
		ProgressPct: rec.ProgressPct,
	}
	if p.ModuleID == "" {
		return Progress{}, Invalid("progress.module_id", "must not be empty")
	}
	if err := p.Validate(); err != nil {
		return Progress{}, err
	}
	return p, nil
}

// DecodeRange builds a validated compensation band. A nil record yields nil.
func DecodeRange(field string, raw map[string]any) (*CompensationRange, error) {
	if raw == nil {
		return nil, nil
	}
	var r CompensationRange
	if err := decodeRecord(field, raw, &r); err != nil {
		return nil, err
	}
	r.Currency = strings.TrimSpace(r.Currency)
	if err := r.Validate(field); err != nil {
		return nil, err
	}
	return &r, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
