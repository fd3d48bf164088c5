package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	model "github.com/okian/maison/internal/domain/model"
	"github.com/okian/maison/pkg/metrics"
)

const matchesSchema = `
CREATE TABLE IF NOT EXISTS matches (
	talent_id      TEXT        NOT NULL,
	opportunity_id TEXT        NOT NULL,
	score          SMALLINT    NOT NULL CHECK (score BETWEEN 0 AND 100),
	breakdown      JSONB       NOT NULL,
	compensation   TEXT        NOT NULL,
	computed_at    TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (talent_id, opportunity_id)
);
CREATE INDEX IF NOT EXISTS matches_talent_score_idx ON matches (talent_id, score DESC, opportunity_id);
`

const upsertMatch = `
INSERT INTO matches (talent_id, opportunity_id, score, breakdown, compensation, computed_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (talent_id, opportunity_id) DO UPDATE SET
	score        = EXCLUDED.score,
	breakdown    = EXCLUDED.breakdown,
	compensation = EXCLUDED.compensation,
	computed_at  = EXCLUDED.computed_at
`

const selectMatch = `
SELECT talent_id, opportunity_id, score, breakdown, compensation, computed_at
FROM matches WHERE talent_id = $1 AND opportunity_id = $2
`

const selectByTalent = `
SELECT talent_id, opportunity_id, score, breakdown, compensation, computed_at
FROM matches WHERE talent_id = $1
ORDER BY score DESC, opportunity_id ASC
LIMIT $2
`

// Connect opens a pgx connection pool and performs a Ping to ensure connectivity.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 0
	config.MaxConnLifetime = time.Hour
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("open pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// PostgresStore keeps matches in a PostgreSQL table keyed by
// (talent_id, opportunity_id).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps pool and creates the matches table if needed.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	s := &PostgresStore{pool: pool}
	if _, err := pool.Exec(ctx, matchesSchema); err != nil {
		return nil, fmt.Errorf("ensure matches schema: %w", err)
	}
	return s, nil
}

// Upsert implements Store.Upsert with INSERT ... ON CONFLICT DO UPDATE.
func (s *PostgresStore) Upsert(ctx context.Context, m model.Match) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if m.TalentID == "" || m.OpportunityID == "" {
		return ErrInvalidKey
	}
	breakdown, err := encodeBreakdown(m.Breakdown)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, upsertMatch,
		m.TalentID, m.OpportunityID, m.Score, breakdown, string(m.Compensation), m.ComputedAt.UTC(),
	); err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("upsert match %s: %w", m.Key(), err)
	}
	metrics.RecordStoreUpsert()
	return nil
}

// Get returns the match stored under key.
func (s *PostgresStore) Get(ctx context.Context, key model.MatchKey) (model.Match, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	m, err := scanMatch(s.pool.QueryRow(ctx, selectMatch, key.TalentID, key.OpportunityID))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Match{}, ErrNotFound
	}
	if err != nil {
		metrics.RecordStoreError()
		return model.Match{}, fmt.Errorf("get match %s: %w", key, err)
	}
	return m, nil
}

// ListByTalent returns the talent's best matches first.
func (s *PostgresStore) ListByTalent(ctx context.Context, talentID string, limit int) ([]model.Match, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	rows, err := s.pool.Query(ctx, selectByTalent, talentID, limit)
	if err != nil {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("list matches for %s: %w", talentID, err)
	}
	defer rows.Close()

	out := make([]model.Match, 0, limit)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// Count returns the number of stored matches.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM matches`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return n, nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanMatch(row pgx.Row) (model.Match, error) {
	var (
		m            model.Match
		score        int16
		breakdown    []byte
		compensation string
		computedAt   time.Time
	)
	if err := row.Scan(&m.TalentID, &m.OpportunityID, &score, &breakdown, &compensation, &computedAt); err != nil {
		return model.Match{}, err
	}
	b, err := decodeBreakdown(breakdown)
	if err != nil {
		return model.Match{}, err
	}
	m.Score = int(score)
	m.Breakdown = b
	m.Compensation = model.Alignment(compensation)
	m.ComputedAt = computedAt.UTC()
	return m, nil
}

func encodeBreakdown(b map[model.Dimension]float64) ([]byte, error) {
	if b == nil {
		b = map[model.Dimension]float64{}
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode breakdown: %w", err)
	}
	return data, nil
}

func decodeBreakdown(data []byte) (map[model.Dimension]float64, error) {
	b := make(map[model.Dimension]float64)
	if len(data) == 0 {
		return b, nil
	}
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode breakdown: %w", err)
	}
	return b, nil
}
