package model

import "time"

// Opportunity is an employer's open position.
type Opportunity struct {
	ID                      string             `json:"id"`
	RequiredRoleLevel       RoleLevel          `json:"required_role_level"`
	StoreTier               StoreTier          `json:"store_tier"`
	Division                string             `json:"division,omitempty"`
	RequiredExperienceYears float64            `json:"required_experience_years"`
	Location                Location           `json:"location"`
	CompensationRange       *CompensationRange `json:"compensation_range,omitempty"`
	Status                  OpportunityStatus  `json:"status"`
	PostedAt                time.Time          `json:"posted_at"`
}

// Active reports whether the opportunity is open for matching.
func (o Opportunity) Active() bool { return o.Status == StatusActive }

// Validate checks structural rules. Unlike a talent, an opportunity must
// state the level and tier it hires for.
func (o Opportunity) Validate() error {
	if !o.RequiredRoleLevel.Valid() {
		return Invalid("required_role_level", "unknown role level %q", o.RequiredRoleLevel)
	}
	if !o.StoreTier.Valid() {
		return Invalid("store_tier", "unknown store tier %q", o.StoreTier)
	}
	if !finite(o.RequiredExperienceYears) || o.RequiredExperienceYears < 0 {
		return Invalid("required_experience_years", "must be a non-negative number, got %v", o.RequiredExperienceYears)
	}
	if o.Status != "" && !o.Status.Valid() {
		return Invalid("status", "unknown opportunity status %q", o.Status)
	}
	if o.CompensationRange != nil {
		if err := o.CompensationRange.Validate("compensation_range"); err != nil {
			return err
		}
	}
	return nil
}
