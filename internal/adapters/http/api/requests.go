package api

import (
	model "github.com/okian/maison/internal/domain/model"
)

// Bodies carry records as loose JSON objects; model.Decode* types them.

type pairRequest struct {
	Talent      map[string]any `json:"talent"`
	Opportunity map[string]any `json:"opportunity"`
}

func (p pairRequest) decode() (model.Talent, model.Opportunity, error) {
	t, err := model.DecodeTalent(p.Talent)
	if err != nil {
		return model.Talent{}, model.Opportunity{}, err
	}
	o, err := model.DecodeOpportunity(p.Opportunity)
	if err != nil {
		return model.Talent{}, model.Opportunity{}, err
	}
	return t, o, nil
}

type rankRequest struct {
	Talent        map[string]any   `json:"talent"`
	Opportunities []map[string]any `json:"opportunities"`
	Limit         int              `json:"limit"`
	MinScore      int              `json:"min_score"`
}

func (r rankRequest) decode() (model.Talent, []model.Opportunity, error) {
	t, err := model.DecodeTalent(r.Talent)
	if err != nil {
		return model.Talent{}, nil, err
	}
	opps := make([]model.Opportunity, 0, len(r.Opportunities))
	for _, raw := range r.Opportunities {
		o, err := model.DecodeOpportunity(raw)
		if err != nil {
			return model.Talent{}, nil, err
		}
		opps = append(opps, o)
	}
	return t, opps, nil
}

type alignRequest struct {
	Expected map[string]any `json:"expected"`
	Budget   map[string]any `json:"budget"`
}

type alignResponse struct {
	Alignment model.Alignment `json:"alignment"`
}

type recommendRequest struct {
	Talent   map[string]any   `json:"talent"`
	Progress []map[string]any `json:"progress"`
}

func (r recommendRequest) decode() (model.Talent, []model.Progress, error) {
	t, err := model.DecodeTalent(r.Talent)
	if err != nil {
		return model.Talent{}, nil, err
	}
	progress := make([]model.Progress, 0, len(r.Progress))
	for _, raw := range r.Progress {
		p, err := model.DecodeProgress(raw)
		if err != nil {
			return model.Talent{}, nil, err
		}
		progress = append(progress, p)
	}
	return t, progress, nil
}

type matchesResponse struct {
	TalentID string        `json:"talent_id,omitempty"`
	Matches  []model.Match `json:"matches"`
}

type recomputeResponse struct {
	Status    string `json:"status"`
	JobID     string `json:"job_id,omitempty"`
	Key       string `json:"key"`
	Duplicate bool   `json:"duplicate"`
}

type recommendationsResponse struct {
	TalentID        string                 `json:"talent_id,omitempty"`
	Recommendations []model.Recommendation `json:"recommendations"`
}

type catalogResponse struct {
	Modules []model.LearningModule `json:"modules"`
}
