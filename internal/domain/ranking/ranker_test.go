package ranking_test

import (
	"errors"
	"testing"
	"time"

	model "github.com/okian/maison/internal/domain/model"
	"github.com/okian/maison/internal/domain/ranking"
	"github.com/okian/maison/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

var base = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

// fixedScorer returns a preset score per opportunity id.
type fixedScorer struct {
	scores map[string]int
	fail   string
}

func (f fixedScorer) Score(t model.Talent, o model.Opportunity) (model.Match, error) {
	if o.ID == f.fail {
		return model.Match{}, model.Invalid("opportunity", "boom")
	}
	return model.Match{TalentID: t.ID, OpportunityID: o.ID, Score: f.scores[o.ID]}, nil
}

func opp(id string, status model.OpportunityStatus, posted time.Duration) model.Opportunity {
	return model.Opportunity{
		ID:                id,
		RequiredRoleLevel: model.RoleTeamLead,
		StoreTier:         model.TierBoutique,
		Status:            status,
		PostedAt:          base.Add(posted),
	}
}

func ids(ms []model.Match) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.OpportunityID
	}
	return out
}

func TestRanker_Rank(t *testing.T) {
	Convey("Given a ranker with preset scores", t, func() {
		r := ranking.New(fixedScorer{scores: map[string]int{
			"a": 80, "b": 80, "b2": 80, "c": 80, "d": 95, "e": 40, "closed": 100,
		}})
		talent := model.Talent{ID: "t-1"}

		Convey("When opportunities include inactive and tied entries", func() {
			got, err := r.Rank(talent, []model.Opportunity{
				opp("c", model.StatusActive, time.Hour),
				opp("b", model.StatusActive, time.Hour),
				opp("a", model.StatusActive, 2*time.Hour),
				opp("closed", model.StatusClosed, 0),
				opp("draft", model.StatusDraft, 0),
				opp("d", model.StatusActive, 0),
				opp("e", model.StatusActive, 0),
			})

			Convey("Then only active ones are ranked by score, recency and id", func() {
				So(err, ShouldBeNil)
				So(ids(got), ShouldResemble, []string{"d", "a", "b", "c", "e"})
			})
		})

		Convey("When posting dates are missing or far outside the nanosecond range", func() {
			undated := opp("a", model.StatusActive, 0)
			undated.PostedAt = time.Time{}
			ancient := opp("b", model.StatusActive, 0)
			ancient.PostedAt = time.Date(1500, 1, 1, 0, 0, 0, 0, time.UTC)
			future := opp("c", model.StatusActive, 0)
			future.PostedAt = time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)
			got, err := r.Rank(talent, []model.Opportunity{undated, ancient, opp("b2", model.StatusActive, 0), future})

			Convey("Then ties still order newest first", func() {
				So(err, ShouldBeNil)
				So(ids(got), ShouldResemble, []string{"c", "b2", "b", "a"})
			})
		})

		Convey("When the same opportunity id appears twice", func() {
			older := opp("a", model.StatusActive, 0)
			newer := opp("a", model.StatusActive, time.Hour)
			newer.Division = "Watches"
			got, err := r.Rank(talent, []model.Opportunity{older, newer})

			Convey("Then only one match is returned", func() {
				So(err, ShouldBeNil)
				So(got, ShouldHaveLength, 1)
			})
		})

		Convey("When the newest duplicate is inactive", func() {
			got, err := r.Rank(talent, []model.Opportunity{
				opp("a", model.StatusActive, 0),
				opp("a", model.StatusPaused, time.Hour),
			})
			So(err, ShouldBeNil)
			So(ids(got), ShouldResemble, []string{"a"})
		})

		Convey("When a limit and a minimum score are set", func() {
			opps := []model.Opportunity{
				opp("a", model.StatusActive, 0),
				opp("d", model.StatusActive, 0),
				opp("e", model.StatusActive, 0),
			}
			got, err := r.Rank(talent, opps, ranking.WithLimit(1))
			So(err, ShouldBeNil)
			So(ids(got), ShouldResemble, []string{"d"})

			got, err = r.Rank(talent, opps, ranking.WithMinScore(50))
			So(err, ShouldBeNil)
			So(ids(got), ShouldResemble, []string{"d", "a"})
		})

		Convey("When there are no opportunities", func() {
			got, err := r.Rank(talent, nil)
			So(err, ShouldBeNil)
			So(got, ShouldNotBeNil)
			So(got, ShouldBeEmpty)
		})

		Convey("When scoring fails", func() {
			failing := ranking.New(fixedScorer{fail: "a"})
			_, err := failing.Rank(talent, []model.Opportunity{opp("a", model.StatusActive, 0)})
			So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func TestRanker_WithScorer(t *testing.T) {
	Convey("Given the production scorer", t, func() {
		s, err := scoring.New(scoring.WithClock(func() time.Time { return base }))
		So(err, ShouldBeNil)
		r := ranking.New(s)

		talent := model.Talent{
			ID:               "t-1",
			CurrentRoleLevel: model.RoleTeamLead,
			CurrentStoreTier: model.TierBoutique,
			Timeline:         model.TimelineActive,
		}
		near := opp("near", model.StatusActive, 0)
		far := opp("far", model.StatusActive, 0)
		far.RequiredRoleLevel = model.RoleRegionalDirector

		Convey("When ranking twice", func() {
			first, err := r.Rank(talent, []model.Opportunity{far, near})
			So(err, ShouldBeNil)
			second, err := r.Rank(talent, []model.Opportunity{near, far})
			So(err, ShouldBeNil)

			Convey("Then the order is deterministic and the closer role wins", func() {
				So(ids(first), ShouldResemble, []string{"near", "far"})
				So(first, ShouldResemble, second)
				So(first[0].Score, ShouldBeGreaterThan, first[1].Score)
			})
		})
	})
}
