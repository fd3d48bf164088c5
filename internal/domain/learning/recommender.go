package learning

import (
	"sort"

	model "github.com/okian/maison/internal/domain/model"
)

// Default recommender policy.
const (
	DefaultGapThreshold = 3.5
	DefaultLimit        = 3
)

const fallbackReason = "Keep sharpening your skills"

// Outcome reports which branch produced a recommendation list.
type Outcome string

const (
	// OutcomeGap means modules were chosen to close assessment gaps.
	OutcomeGap Outcome = "gap"
	// OutcomeFallback means no gap existed and unstarted modules were offered.
	OutcomeFallback Outcome = "fallback"
	// OutcomePrecondition means the assessment was missing or unfinished.
	OutcomePrecondition Outcome = "precondition"
)

// ModuleSource supplies the modules to choose from.
type ModuleSource interface {
	Modules() []model.LearningModule
}

// Result is a recommendation list together with the branch that built it.
type Result struct {
	Recommendations []model.Recommendation
	Outcome         Outcome
}

// Option applies a configuration option to the Recommender.
type Option func(*Recommender)

// WithGapThreshold sets the score a dimension must reach to have no gap.
func WithGapThreshold(threshold float64) Option {
	return func(r *Recommender) {
		r.threshold = threshold
	}
}

// WithLimit caps the number of recommendations.
func WithLimit(n int) Option {
	return func(r *Recommender) {
		r.limit = n
	}
}

// Recommender turns an assessment and progress history into ranked modules.
type Recommender struct {
	threshold float64
	limit     int
}

// NewRecommender creates a Recommender with defaults overridden by opts.
func NewRecommender(opts ...Option) (*Recommender, error) {
	r := &Recommender{threshold: DefaultGapThreshold, limit: DefaultLimit}
	for _, opt := range opts {
		opt(r)
	}
	if !(r.threshold > 0 && r.threshold <= model.MaxAssessmentScore) {
		return nil, ErrInvalidThreshold
	}
	if r.limit <= 0 {
		return nil, ErrInvalidLimit
	}
	return r, nil
}

// ImpliedDifficulty maps a role level to the module difficulty it suits.
// Unknown or blank levels map to intermediate.
func ImpliedDifficulty(level model.RoleLevel) model.Difficulty {
	switch level {
	case model.RoleAssociate, model.RoleSeniorAssociate:
		return model.DifficultyBeginner
	case model.RoleTeamLead, model.RoleAssistantManager:
		return model.DifficultyIntermediate
	case model.RoleStoreManager, model.RoleAreaManager, model.RoleRegionalDirector:
		return model.DifficultyAdvanced
	default:
		return model.DifficultyIntermediate
	}
}

// Recommend returns at most limit modules for t. See Evaluate.
func (r *Recommender) Recommend(t model.Talent, progress []model.Progress, source ModuleSource) ([]model.Recommendation, error) {
	res, err := r.Evaluate(t, progress, source)
	if err != nil {
		return nil, err
	}
	return res.Recommendations, nil
}

type candidate struct {
	module    model.LearningModule
	skill     model.SkillDimension
	gap       float64
	levelDist int
}

// Evaluate ranks modules by assessment gap. Without a completed assessment
// the list is empty. Progress rows naming another talent are ignored; rows
// with a blank talent id are taken to belong to t.
func (r *Recommender) Evaluate(t model.Talent, progress []model.Progress, source ModuleSource) (Result, error) {
	empty := Result{Recommendations: []model.Recommendation{}, Outcome: OutcomePrecondition}
	if t.Assessment == nil || !t.Assessment.Completed() {
		return empty, nil
	}
	if err := t.Assessment.Validate(); err != nil {
		return Result{}, err
	}

	status := make(map[string]model.ProgressStatus, len(progress))
	for _, p := range progress {
		if p.TalentID != "" && p.TalentID != t.ID {
			continue
		}
		if err := p.Validate(); err != nil {
			return Result{}, err
		}
		// Repeated rows for one module keep the furthest progress.
		if cur, ok := status[p.ModuleID]; !ok || advance(p.Status) > advance(cur) {
			status[p.ModuleID] = p.Status
		}
	}

	gaps := make(map[model.SkillDimension]float64, len(model.SkillDimensions))
	for _, d := range model.SkillDimensions {
		v, ok := t.Assessment.Score(d)
		if !ok {
			continue
		}
		if gap := r.threshold - v; gap > 0 {
			gaps[d] = gap
		}
	}

	modules := source.Modules()
	if len(gaps) == 0 {
		return r.fallback(modules, status), nil
	}

	implied := ImpliedDifficulty(t.CurrentRoleLevel).Ordinal()
	candidates := make([]candidate, 0, len(modules))
	for _, m := range modules {
		if status[m.ID] == model.ProgressCompleted {
			continue
		}
		skill, ok := m.Category.Skill()
		if !ok {
			continue
		}
		gap, ok := gaps[skill]
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{
			module:    m,
			skill:     skill,
			gap:       gap,
			levelDist: abs(m.Difficulty.Ordinal() - implied),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.gap != b.gap {
			return a.gap > b.gap
		}
		if a.levelDist != b.levelDist {
			return a.levelDist < b.levelDist
		}
		if a.module.DurationMinutes != b.module.DurationMinutes {
			return a.module.DurationMinutes < b.module.DurationMinutes
		}
		return a.module.ID < b.module.ID
	})

	out := make([]model.Recommendation, 0, min(len(candidates), r.limit))
	for _, c := range candidates {
		if len(out) == r.limit {
			break
		}
		out = append(out, model.Recommendation{
			ModuleID: c.module.ID,
			Reason:   "Strengthen your " + c.skill.DisplayName(),
			Rank:     len(out) + 1,
			Category: c.module.Category,
			Gap:      c.gap,
		})
	}
	return Result{Recommendations: out, Outcome: OutcomeGap}, nil
}

// fallback offers the shortest modules the talent has not started.
func (r *Recommender) fallback(modules []model.LearningModule, status map[string]model.ProgressStatus) Result {
	fresh := make([]model.LearningModule, 0, len(modules))
	for _, m := range modules {
		if s, ok := status[m.ID]; !ok || s == model.ProgressNotStarted {
			fresh = append(fresh, m)
		}
	}
	sort.Slice(fresh, func(i, j int) bool {
		if fresh[i].DurationMinutes != fresh[j].DurationMinutes {
			return fresh[i].DurationMinutes < fresh[j].DurationMinutes
		}
		return fresh[i].ID < fresh[j].ID
	})

	out := make([]model.Recommendation, 0, min(len(fresh), r.limit))
	for _, m := range fresh {
		if len(out) == r.limit {
			break
		}
		out = append(out, model.Recommendation{
			ModuleID: m.ID,
			Reason:   fallbackReason,
			Rank:     len(out) + 1,
			Category: m.Category,
		})
	}
	return Result{Recommendations: out, Outcome: OutcomeFallback}
}

func advance(st model.ProgressStatus) int {
	switch st {
	case model.ProgressCompleted:
		return 2
	case model.ProgressInProgress:
		return 1
	default:
		return 0
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
