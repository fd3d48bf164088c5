// Package repository persists derived matches keyed by (talent, opportunity).
package repository

import (
	"context"

	model "github.com/okian/maison/internal/domain/model"
)

// Store provides read/write access to computed matches.
//
// Upsert is last-write-wins per key. Scoring is deterministic, so two
// writers racing on the same key store equivalent matches.
type Store interface {
	// Upsert inserts m or replaces the match stored under m.Key().
	Upsert(ctx context.Context, m model.Match) error

	// Get returns the match stored under key.
	// Returns ErrNotFound if no match exists.
	Get(ctx context.Context, key model.MatchKey) (model.Match, error)

	// ListByTalent returns up to limit matches for a talent ordered by
	// score desc, then opportunity id asc.
	// Returns ErrNotFound if the talent has no matches.
	ListByTalent(ctx context.Context, talentID string, limit int) ([]model.Match, error)

	// Count returns the number of stored matches.
	Count(ctx context.Context) (int, error)

	// Close releases background goroutines or connections.
	Close() error
}
