package service_test

import (
	"context"
	"sync"
	"time"

	repository "github.com/okian/maison/internal/adapters/repository"
	model "github.com/okian/maison/internal/domain/model"
)

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func ptr(v float64) *float64 { return &v }

func talent(id string) model.Talent {
	completed := fixedNow.Add(-24 * time.Hour)
	return model.Talent{
		ID:               id,
		CurrentRoleLevel: model.RoleSeniorAssociate,
		CurrentStoreTier: model.TierFlagship,
		Divisions:        []string{"Leather Goods", "Jewelry"},
		YearsInLuxury:    4,
		Mobility:         model.MobilityRegional,
		Timeline:         model.TimelineActive,
		TargetRoleLevels: []model.RoleLevel{model.RoleTeamLead},
		TargetLocations:  []string{"Paris"},
		CurrentLocation:  &model.Location{City: "Paris", Region: "Ile-de-France"},
		ExpectedCompensation: &model.CompensationRange{
			Min: 50_000, Max: 60_000, Currency: "EUR",
		},
		Assessment: &model.AssessmentSummary{
			ServiceExcellence: ptr(4.5),
			Clienteling:       ptr(4),
			Operations:        ptr(3),
			LeadershipSignals: ptr(2),
			CompletedAt:       &completed,
		},
	}
}

func opportunity(id string, level model.RoleLevel) model.Opportunity {
	return model.Opportunity{
		ID:                      id,
		RequiredRoleLevel:       level,
		StoreTier:               model.TierFlagship,
		Division:                "leather goods",
		RequiredExperienceYears: 3,
		Location:                model.Location{City: "Paris", Region: "Ile-de-France"},
		CompensationRange:       &model.CompensationRange{Min: 55_000, Max: 65_000, Currency: "EUR"},
		Status:                  model.StatusActive,
		PostedAt:                fixedNow.Add(-time.Hour),
	}
}

// gatedStore blocks every Upsert until the gate is opened.
type gatedStore struct {
	repository.Store
	entered chan struct{}
	gate    chan struct{}
	once    sync.Once
}

func newGatedStore() *gatedStore {
	return &gatedStore{
		Store:   repository.NewMemoryStore(context.Background()),
		entered: make(chan struct{}, 64),
		gate:    make(chan struct{}),
	}
}

func (g *gatedStore) Upsert(ctx context.Context, m model.Match) error {
	g.entered <- struct{}{}
	<-g.gate
	return g.Store.Upsert(ctx, m)
}

func (g *gatedStore) open() { g.once.Do(func() { close(g.gate) }) }

// waitFor polls cond until it holds or the timeout elapses.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
