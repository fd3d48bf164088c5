package model

// LearningModule is one entry of the static module catalog.
type LearningModule struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Category        Category    `json:"category"`
	Difficulty      Difficulty  `json:"difficulty"`
	DurationMinutes int         `json:"duration_minutes"`
	ContentType     ContentType `json:"content_type"`
}

// Validate checks the catalog rules for one module.
func (m LearningModule) Validate() error {
	field := "module." + m.ID
	switch {
	case m.ID == "":
		return Invalid("module.id", "must not be empty")
	case !m.Category.Valid():
		return Invalid(field+".category", "invalid category %q", m.Category)
	case !m.Difficulty.Valid():
		return Invalid(field+".difficulty", "unknown difficulty %q", m.Difficulty)
	case m.DurationMinutes <= 0:
		return Invalid(field+".duration_minutes", "must be positive, got %d", m.DurationMinutes)
	case !m.ContentType.Valid():
		return Invalid(field+".content_type", "unknown content type %q", m.ContentType)
	}
	return nil
}

// Progress is a talent's state on one module, keyed by (TalentID, ModuleID).
// The recommender only reads it.
type Progress struct {
	TalentID    string         `json:"talent_id"`
	ModuleID    string         `json:"module_id"`
	Status      ProgressStatus `json:"status"`
	ProgressPct int            `json:"progress_pct"`
}

// Validate checks status and percentage bounds.
func (p Progress) Validate() error {
	if !p.Status.Valid() {
		return Invalid("progress."+p.ModuleID+".status", "unknown progress status %q", p.Status)
	}
	if p.ProgressPct < 0 || p.ProgressPct > 100 {
		return Invalid("progress."+p.ModuleID+".progress_pct", "%d outside [0, 100]", p.ProgressPct)
	}
	return nil
}

// Recommendation is one ranked learning suggestion.
type Recommendation struct {
	ModuleID string   `json:"module_id"`
	Reason   string   `json:"reason"`
	Rank     int      `json:"rank"`
	Category Category `json:"category"`
	Gap      float64  `json:"gap"`
}
