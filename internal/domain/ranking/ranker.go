// Package ranking scores a talent against a set of opportunities and orders
// the results.
package ranking

import (
	"fmt"
	"sort"
	"time"

	model "github.com/okian/maison/internal/domain/model"
)

// MatchScorer scores one pair.
type MatchScorer interface {
	Score(t model.Talent, o model.Opportunity) (model.Match, error)
}

// Ranker orders matches for one talent. It has no side effects.
type Ranker struct {
	scorer MatchScorer
}

// New creates a Ranker backed by scorer.
func New(scorer MatchScorer) *Ranker {
	return &Ranker{scorer: scorer}
}

type ranked struct {
	match    model.Match
	postedAt time.Time
}

// Rank keeps active opportunities, keeps the most recently posted copy of
// each opportunity id, and returns matches ordered by score desc, postedAt
// desc, opportunity id asc. Any scoring error aborts the whole call.
func (r *Ranker) Rank(t model.Talent, opportunities []model.Opportunity, opts ...Option) ([]model.Match, error) {
	o := rankOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	latest := make(map[string]int, len(opportunities))
	unique := make([]model.Opportunity, 0, len(opportunities))
	for _, opp := range opportunities {
		if !opp.Active() {
			continue
		}
		if i, seen := latest[opp.ID]; seen {
			// Ties keep the first occurrence.
			if opp.PostedAt.After(unique[i].PostedAt) {
				unique[i] = opp
			}
			continue
		}
		latest[opp.ID] = len(unique)
		unique = append(unique, opp)
	}

	results := make([]ranked, 0, len(unique))
	for _, opp := range unique {
		m, err := r.scorer.Score(t, opp)
		if err != nil {
			return nil, fmt.Errorf("score opportunity %s: %w", opp.ID, err)
		}
		if m.Score < o.minScore {
			continue
		}
		results = append(results, ranked{match: m, postedAt: opp.PostedAt})
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.match.Score != b.match.Score {
			return a.match.Score > b.match.Score
		}
		if !a.postedAt.Equal(b.postedAt) {
			return a.postedAt.After(b.postedAt)
		}
		return a.match.OpportunityID < b.match.OpportunityID
	})

	if o.limit > 0 && len(results) > o.limit {
		results = results[:o.limit]
	}
	out := make([]model.Match, len(results))
	for i, rk := range results {
		out[i] = rk.match
	}
	return out, nil
}
