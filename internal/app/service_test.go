package service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/maison/internal/adapters/mq/queue"
	repository "github.com/okian/maison/internal/adapters/repository"
	service "github.com/okian/maison/internal/app"
	"github.com/okian/maison/internal/config"
	model "github.com/okian/maison/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc, err := service.New()

		Convey("Then it should be built from the default config", func() {
			So(err, ShouldBeNil)
			So(svc, ShouldNotBeNil)
			So(svc.Catalog().Len(), ShouldBeGreaterThan, 0)
			So(svc.Policy().RoleLevelStep, ShouldEqual, 0.25)
		})

		Convey("And stats should report a stopped service", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldBeFalse)
			So(stats["storeDriver"], ShouldEqual, config.StoreMemory)
		})
	})

	Convey("Given an invalid config", t, func() {
		cfg := config.New()
		cfg.Weights["timeline"] = 0.9

		Convey("Then New should fail with ErrInvalidConfig", func() {
			_, err := service.New(service.WithConfig(cfg))
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})

	Convey("Given a nil config", t, func() {
		_, err := service.New(service.WithConfig(nil))
		So(errors.Is(err, service.ErrNilConfig), ShouldBeTrue)
	})

	Convey("Given a catalog path", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "catalog.yaml")
		doc := `modules:
  - id: m-only
    title: Only module
    category: clienteling
    difficulty: beginner
    duration_minutes: 10
    content_type: video
`
		So(os.WriteFile(path, []byte(doc), 0o600), ShouldBeNil)
		cfg := config.New()
		cfg.CatalogPath = path

		Convey("Then the catalog should be loaded from it", func() {
			svc, err := service.New(service.WithConfig(cfg))
			So(err, ShouldBeNil)
			So(svc.Catalog().Len(), ShouldEqual, 1)
		})

		Convey("And a missing file should fail", func() {
			cfg.CatalogPath = filepath.Join(dir, "missing.yaml")
			_, err := service.New(service.WithConfig(cfg))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestService_ScoreMatch(t *testing.T) {
	Convey("Given a service with a fixed clock", t, func() {
		svc, err := service.New(service.WithClock(clock))
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("When scoring the same pair twice", func() {
			a, errA := svc.ScoreMatch(ctx, talent("t-1"), opportunity("o-1", model.RoleTeamLead))
			b, errB := svc.ScoreMatch(ctx, talent("t-1"), opportunity("o-1", model.RoleTeamLead))

			Convey("Then the results should be identical", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldResemble, b)
				So(a.Score, ShouldBeBetweenOrEqual, 0, 100)
				So(a.ComputedAt, ShouldEqual, fixedNow)
				So(a.Compensation, ShouldEqual, model.AlignmentWithin)
				So(a.Breakdown, ShouldHaveLength, len(model.Dimensions))
			})
		})

		Convey("When the talent has negative years", func() {
			tl := talent("t-1")
			tl.YearsInLuxury = -1
			_, err := svc.ScoreMatch(ctx, tl, opportunity("o-1", model.RoleTeamLead))

			Convey("Then it should fail with ErrInvalidInput", func() {
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
			})
		})
	})
}

func TestService_RankMatches(t *testing.T) {
	Convey("Given a service and a mixed opportunity set", t, func() {
		cfg := config.New()
		cfg.MaxMatchLimit = 2
		svc, err := service.New(service.WithConfig(cfg), service.WithClock(clock))
		So(err, ShouldBeNil)
		ctx := context.Background()

		closed := opportunity("o-closed", model.RoleTeamLead)
		closed.Status = model.StatusClosed
		opps := []model.Opportunity{
			opportunity("o-far", model.RoleRegionalDirector),
			opportunity("o-fit", model.RoleTeamLead),
			closed,
			opportunity("o-mid", model.RoleStoreManager),
		}

		Convey("When ranking without a limit", func() {
			matches, err := svc.RankMatches(ctx, talent("t-1"), opps, 0, 0)

			Convey("Then every active opportunity should come back, best first", func() {
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 3)
				So(matches[0].OpportunityID, ShouldEqual, "o-fit")
				for i := 1; i < len(matches); i++ {
					So(matches[i-1].Score, ShouldBeGreaterThanOrEqualTo, matches[i].Score)
					So(matches[i].OpportunityID, ShouldNotEqual, "o-closed")
				}
			})
		})

		Convey("When ranking more opportunities than the maximum without a limit", func() {
			many := make([]model.Opportunity, 0, 150)
			for i := range 150 {
				many = append(many, opportunity(fmt.Sprintf("o-%03d", i), model.RoleTeamLead))
			}
			matches, err := svc.RankMatches(ctx, talent("t-1"), many, 0, 0)

			Convey("Then nothing should be dropped", func() {
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 150)
			})
		})

		Convey("When ranking with a limit above the maximum", func() {
			matches, err := svc.RankMatches(ctx, talent("t-1"), opps, 10, 0)

			Convey("Then the configured maximum should cap the result", func() {
				So(err, ShouldBeNil)
				So(matches, ShouldHaveLength, 2)
				So(matches[0].OpportunityID, ShouldEqual, "o-fit")
			})
		})

		Convey("When ranking with a min score above every match", func() {
			matches, err := svc.RankMatches(ctx, talent("t-1"), opps, 1, 101)

			Convey("Then nothing should be returned", func() {
				So(err, ShouldBeNil)
				So(matches, ShouldBeEmpty)
			})
		})
	})
}

func TestService_AlignCompensation(t *testing.T) {
	Convey("Given a service", t, func() {
		svc, err := service.New()
		So(err, ShouldBeNil)
		ctx := context.Background()
		budget := &model.CompensationRange{Min: 55_000, Max: 65_000, Currency: "EUR"}

		Convey("Then overlapping bands should be within range", func() {
			a, err := svc.AlignCompensation(ctx, &model.CompensationRange{Min: 50_000, Max: 60_000, Currency: "eur"}, budget)
			So(err, ShouldBeNil)
			So(a, ShouldEqual, model.AlignmentWithin)
		})

		Convey("Then a higher expectation should be above range", func() {
			a, err := svc.AlignCompensation(ctx, &model.CompensationRange{Min: 80_000, Max: 90_000, Currency: "EUR"}, budget)
			So(err, ShouldBeNil)
			So(a, ShouldEqual, model.AlignmentAbove)
		})

		Convey("Then a missing side should be unknown", func() {
			a, err := svc.AlignCompensation(ctx, nil, budget)
			So(err, ShouldBeNil)
			So(a, ShouldEqual, model.AlignmentUnknown)
		})

		Convey("Then an inverted band should be rejected", func() {
			_, err := svc.AlignCompensation(ctx, &model.CompensationRange{Min: 9, Max: 1, Currency: "EUR"}, budget)
			So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func TestService_RecommendModules(t *testing.T) {
	Convey("Given a service with the default catalog", t, func() {
		svc, err := service.New()
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("When the talent has a leadership gap", func() {
			recs, err := svc.RecommendModules(ctx, talent("t-1"), nil)

			Convey("Then leadership modules should lead the list", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldNotBeEmpty)
				So(len(recs), ShouldBeLessThanOrEqualTo, 3)
				So(recs[0].Category, ShouldEqual, model.Category(model.SkillLeadershipSignals))
				So(recs[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When the assessment is unfinished", func() {
			tl := talent("t-1")
			tl.Assessment.CompletedAt = nil
			recs, err := svc.RecommendModules(ctx, tl, nil)

			Convey("Then the list should be empty", func() {
				So(err, ShouldBeNil)
				So(recs, ShouldBeEmpty)
			})
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc, err := service.New()
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("Then store-backed calls should fail before Start", func() {
			_, err := svc.Matches(ctx, "t-1", 10)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			_, err = svc.EnqueueRecompute(ctx, talent("t-1"), opportunity("o-1", model.RoleTeamLead))
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})

		Convey("When starting with a short-lived context", func() {
			startCtx, cancel := context.WithTimeout(ctx, time.Second)
			So(svc.Start(startCtx), ShouldBeNil)
			So(svc.Start(startCtx), ShouldBeNil)
			cancel()
			defer svc.Stop()

			Convey("Then it should keep running after the context ends", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["queueLength"], ShouldEqual, 0)
				So(stats["storedMatches"], ShouldEqual, 0)

				_, err := svc.Matches(ctx, "nobody", 10)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When stopping twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()
			svc.Stop()

			Convey("Then the service should be stopped", func() {
				So(svc.GetStats()["started"], ShouldBeFalse)
			})
		})
	})
}

func TestService_EnqueueRecompute(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, err := service.New(service.WithClock(clock))
		So(err, ShouldBeNil)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When recomputing a pair", func() {
			res, err := svc.EnqueueRecompute(ctx, talent("t-1"), opportunity("o-1", model.RoleTeamLead))

			Convey("Then a job should be accepted and its match stored", func() {
				So(err, ShouldBeNil)
				So(res.Duplicate, ShouldBeFalse)
				So(res.JobID, ShouldNotBeEmpty)
				So(res.Key, ShouldEqual, "t-1/o-1")

				ok := waitFor(2*time.Second, func() bool {
					ms, err := svc.Matches(ctx, "t-1", 10)
					return err == nil && len(ms) == 1
				})
				So(ok, ShouldBeTrue)

				direct, err := svc.ScoreMatch(ctx, talent("t-1"), opportunity("o-1", model.RoleTeamLead))
				So(err, ShouldBeNil)
				stored, _ := svc.Matches(ctx, "t-1", 10)
				So(stored[0], ShouldResemble, direct)
			})
		})

		Convey("When the pair has no ids", func() {
			_, err := svc.EnqueueRecompute(ctx, talent(""), opportunity("o-1", model.RoleTeamLead))

			Convey("Then it should be rejected as invalid input", func() {
				So(errors.Is(err, model.ErrInvalidInput), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service whose store blocks", t, func() {
		store := newGatedStore()
		cfg := config.New()
		cfg.WorkerCount = 1
		cfg.QueueSize = 1
		svc, err := service.New(service.WithConfig(cfg), service.WithStore(store), service.WithClock(clock))
		So(err, ShouldBeNil)
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()
		defer store.open()

		first, err := svc.EnqueueRecompute(ctx, talent("t-1"), opportunity("o-1", model.RoleTeamLead))
		So(err, ShouldBeNil)
		<-store.entered

		Convey("When the same pair is recomputed while pending", func() {
			res, err := svc.EnqueueRecompute(ctx, talent("t-1"), opportunity("o-1", model.RoleTeamLead))

			Convey("Then it should be coalesced", func() {
				So(err, ShouldBeNil)
				So(res.Duplicate, ShouldBeTrue)
				So(res.JobID, ShouldBeEmpty)
				So(res.Key, ShouldEqual, first.Key)
			})

			Convey("And it should be accepted again once the job finishes", func() {
				store.open()
				ok := waitFor(2*time.Second, func() bool {
					return svc.GetStats()["pendingRecomputes"] == int64(0)
				})
				So(ok, ShouldBeTrue)
				res, err := svc.EnqueueRecompute(ctx, talent("t-1"), opportunity("o-1", model.RoleTeamLead))
				So(err, ShouldBeNil)
				So(res.Duplicate, ShouldBeFalse)
			})
		})

		Convey("When distinct pairs keep arriving", func() {
			var full error
			for i := 0; i < 10 && full == nil; i++ {
				_, err := svc.EnqueueRecompute(ctx, talent("t-1"), opportunity("o-extra-"+string(rune('a'+i)), model.RoleTeamLead))
				full = err
			}

			Convey("Then the queue should push back", func() {
				So(errors.Is(full, queue.ErrQueueFull), ShouldBeTrue)
			})
		})
	})
}
