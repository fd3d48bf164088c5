package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	model "github.com/okian/maison/internal/domain/model"
)

func TestBreakdownEncoding(t *testing.T) {
	in := map[model.Dimension]float64{
		model.DimensionDivision:   0.5,
		model.DimensionAssessment: 0.875,
	}
	data, err := encodeBreakdown(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := decodeBreakdown(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[model.DimensionDivision] != 0.5 || out[model.DimensionAssessment] != 0.875 {
		t.Errorf("unexpected breakdown %v", out)
	}

	if data, _ := encodeBreakdown(nil); string(data) != "{}" {
		t.Errorf("expected {} for nil breakdown, got %s", data)
	}
	if out, err := decodeBreakdown(nil); err != nil || len(out) != 0 {
		t.Errorf("expected empty breakdown, got %v %v", out, err)
	}
	if _, err := decodeBreakdown([]byte("[")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

// TestPostgresStore runs against a real database when MAISON_TEST_POSTGRES_DSN is set.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("MAISON_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MAISON_TEST_POSTGRES_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	store, err := NewPostgresStore(ctx, pool)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()

	talent := "pg-test-" + time.Now().Format("150405.000000")
	if err := store.Upsert(ctx, match(talent, "o1", 40)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.Upsert(ctx, match(talent, "o2", 70)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.Upsert(ctx, match(talent, "o1", 90)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := store.Get(ctx, model.MatchKey{TalentID: talent, OpportunityID: "o1"})
	if err != nil || got.Score != 90 {
		t.Fatalf("expected replaced score 90, got %v %v", got.Score, err)
	}
	list, err := store.ListByTalent(ctx, talent, 10)
	if err != nil || len(list) != 2 || list[0].OpportunityID != "o1" {
		t.Fatalf("unexpected list %v %v", list, err)
	}
	if _, err := store.Get(ctx, model.MatchKey{TalentID: talent, OpportunityID: "none"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	_, _ = pool.Exec(ctx, `DELETE FROM matches WHERE talent_id = $1`, talent)
}
