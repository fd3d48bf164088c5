package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	model "github.com/okian/maison/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

const talentDoc = `{
	"id": "t-1",
	"current_role_level": "senior_associate",
	"current_store_tier": "flagship",
	"divisions": ["Leather Goods"],
	"years_in_luxury": 4,
	"mobility": "regional",
	"timeline": "active",
	"target_role_levels": ["team_lead"],
	"target_locations": ["Paris"],
	"current_location": {"city": "Paris", "region": "Ile-de-France"},
	"expected_compensation": {"min": 50000, "max": 60000, "currency": "EUR"},
	"assessment": {"leadership_signals": 2, "operations": 4, "completed_at": "2026-02-01T10:00:00Z"}
}`

const opportunityDoc = `{
	"id": "o-1",
	"required_role_level": "team_lead",
	"store_tier": "flagship",
	"division": "leather goods",
	"required_experience_years": 3,
	"location": {"city": "Paris", "region": "Ile-de-France"},
	"compensation_range": {"min": 55000, "max": 65000, "currency": "EUR"},
	"status": "active",
	"posted_at": "2026-02-20T09:00:00Z"
}`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(ctx context.Context, stdin string, args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func TestEngineCommands(t *testing.T) {
	convey.Convey("Given talent and opportunity files", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		talent := writeFile(t, dir, "talent.json", talentDoc)
		opp := writeFile(t, dir, "opportunity.json", opportunityDoc)
		closed := strings.Replace(strings.Replace(opportunityDoc, `"o-1"`, `"o-2"`, 1), `"active"`, `"closed"`, 1)
		opps := writeFile(t, dir, "opportunities.json", "["+opportunityDoc+","+closed+"]")

		convey.Convey("When running score", func() {
			out, _, err := run(ctx, "", "score", "--talent", talent, "--opportunity", opp)

			convey.Convey("Then the match should be printed as JSON", func() {
				convey.So(err, convey.ShouldBeNil)
				var m model.Match
				convey.So(json.Unmarshal([]byte(out), &m), convey.ShouldBeNil)
				convey.So(m.TalentID, convey.ShouldEqual, "t-1")
				convey.So(m.OpportunityID, convey.ShouldEqual, "o-1")
				convey.So(m.Score, convey.ShouldBeBetweenOrEqual, 0, 100)
				convey.So(m.Compensation, convey.ShouldEqual, model.AlignmentWithin)
			})
		})

		convey.Convey("When the talent is read from stdin", func() {
			out, _, err := run(ctx, talentDoc, "score", "--talent", "-", "--opportunity", opp)

			convey.Convey("Then it should score the same pair", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, `"talent_id": "t-1"`)
			})
		})

		convey.Convey("When running rank", func() {
			out, _, err := run(ctx, "", "rank", "--talent", talent, "--opportunities", opps)

			convey.Convey("Then only the active opportunity should be ranked", func() {
				convey.So(err, convey.ShouldBeNil)
				var ms []model.Match
				convey.So(json.Unmarshal([]byte(out), &ms), convey.ShouldBeNil)
				convey.So(ms, convey.ShouldHaveLength, 1)
				convey.So(ms[0].OpportunityID, convey.ShouldEqual, "o-1")
			})
		})

		convey.Convey("When running rank with an unreachable min score", func() {
			out, _, err := run(ctx, "", "rank", "--talent", talent, "--opportunities", opps, "--min-score", "101")

			convey.Convey("Then an empty array should be printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(strings.TrimSpace(out), convey.ShouldEqual, "[]")
			})
		})

		convey.Convey("When running align", func() {
			expected := writeFile(t, dir, "expected.json", `{"min": 80000, "max": 90000, "currency": "EUR"}`)
			budget := writeFile(t, dir, "budget.json", `{"min": 55000, "max": 65000, "currency": "EUR"}`)
			out, _, err := run(ctx, "", "align", "--expected", expected, "--budget", budget)

			convey.Convey("Then the alignment should be printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, `"alignment": "above_range"`)
			})

			convey.Convey("And a missing budget should be unknown", func() {
				out, _, err := run(ctx, "", "align", "--expected", expected)
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, `"alignment": "unknown"`)
			})
		})

		convey.Convey("When running recommend", func() {
			out, _, err := run(ctx, "", "recommend", "--talent", talent)

			convey.Convey("Then leadership modules should come first", func() {
				convey.So(err, convey.ShouldBeNil)
				var recs []model.Recommendation
				convey.So(json.Unmarshal([]byte(out), &recs), convey.ShouldBeNil)
				convey.So(recs, convey.ShouldNotBeEmpty)
				convey.So(recs[0].Reason, convey.ShouldEqual, "Strengthen your Leadership Signals")
			})
		})

		convey.Convey("When running catalog", func() {
			out, _, err := run(ctx, "", "catalog", "--category", "clienteling")

			convey.Convey("Then only that category should be printed", func() {
				convey.So(err, convey.ShouldBeNil)
				var modules []model.LearningModule
				convey.So(json.Unmarshal([]byte(out), &modules), convey.ShouldBeNil)
				convey.So(modules, convey.ShouldNotBeEmpty)
				for _, m := range modules {
					convey.So(m.Category, convey.ShouldEqual, model.Category("clienteling"))
				}
			})
		})
	})
}

func TestEngineCommandErrors(t *testing.T) {
	convey.Convey("Given invalid inputs", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		opp := writeFile(t, dir, "opportunity.json", opportunityDoc)

		convey.Convey("When the talent has negative years", func() {
			talent := writeFile(t, dir, "talent.json", `{"id": "t-1", "years_in_luxury": -2}`)
			_, errOut, err := run(ctx, "", "score", "--talent", talent, "--opportunity", opp)

			convey.Convey("Then the command should fail with the field name", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errOut, convey.ShouldContainSubstring, "years_in_luxury")
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, _, err := run(ctx, "", "score", "--talent", filepath.Join(dir, "nope.json"), "--opportunity", opp)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When a required flag is missing", func() {
			_, _, err := run(ctx, "", "score", "--opportunity", opp)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the config file is invalid", func() {
			cfg := writeFile(t, dir, "config.yaml", "store_driver: mongo\n")
			_, _, err := run(ctx, "", "catalog", "--config", cfg)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the log format is unknown", func() {
			_, _, err := run(ctx, "", "catalog", "--log-format", "xml")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestConfigFlag(t *testing.T) {
	convey.Convey("Given a config that caps ranking at one match", t, func() {
		dir := t.TempDir()
		cfg := writeFile(t, dir, "config.yaml", "max_match_limit: 1\nrecommendation_limit: 1\n")
		talent := writeFile(t, dir, "talent.json", talentDoc)

		convey.Convey("When running recommend with it", func() {
			out, _, err := run(context.Background(), "", "recommend", "--config", cfg, "--talent", talent)

			convey.Convey("Then the configured limit should apply", func() {
				convey.So(err, convey.ShouldBeNil)
				var recs []model.Recommendation
				convey.So(json.Unmarshal([]byte(out), &recs), convey.ShouldBeNil)
				convey.So(recs, convey.ShouldHaveLength, 1)
			})
		})
	})
}

func TestServeCommand(t *testing.T) {
	convey.Convey("Given the serve command on an ephemeral port", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		defer cancel()

		convey.Convey("When its context ends", func() {
			_, _, err := run(ctx, "", "serve", "--addr", "127.0.0.1:0", "--log-level", "error")

			convey.Convey("Then it should shut down cleanly", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)
	})
}
