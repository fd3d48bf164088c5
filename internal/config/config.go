// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with production defaults.
// - Load(ctx) layers a YAML file and MAISON_ environment variables on top.
// - Validation errors wrap ErrInvalidConfig; loading errors wrap ErrLoadConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/okian/maison/internal/domain/compensation"
	"github.com/okian/maison/internal/domain/learning"
	model "github.com/okian/maison/internal/domain/model"
	"github.com/okian/maison/internal/domain/scoring"
)

// Supported match store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the encoder: console or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory recompute queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of recompute workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the number of pending recompute keys tracked.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the memory match store.
	ShardCount int `koanf:"shard_count"`

	// MaxMatchLimit caps GET /matches/{talent_id}?limit and ranking limits.
	MaxMatchLimit int `koanf:"max_match_limit"`

	// StoreDriver selects the match store: memory or postgres.
	StoreDriver string `koanf:"store_driver"`

	// PostgresDSN is required when StoreDriver is postgres.
	PostgresDSN string `koanf:"postgres_dsn"`

	// CatalogPath overrides the embedded learning module catalog.
	CatalogPath string `koanf:"catalog_path"`

	// Weights maps dimension names to their share of the match score.
	Weights map[string]float64 `koanf:"weights"`

	// RoleLevelStep is the score lost per role level of distance.
	RoleLevelStep float64 `koanf:"role_level_step"`

	// StoreTierStep is the score lost per store tier of distance.
	StoreTierStep float64 `koanf:"store_tier_step"`

	// GapThreshold is the assessment score below which a dimension has a gap.
	GapThreshold float64 `koanf:"gap_threshold"`

	// CompensationTolerance widens the budget band by this share of its width.
	CompensationTolerance float64 `koanf:"compensation_tolerance"`

	// RecommendationLimit caps the number of recommended modules.
	RecommendationLimit int `koanf:"recommendation_limit"`
}

// New creates a Config with defaults.
func New() *Config {
	policy := scoring.DefaultPolicy()
	weights := make(map[string]float64, len(policy.Weights))
	for d, w := range policy.Weights {
		weights[string(d)] = w
	}
	return &Config{
		LogLevel:              "info",
		LogFormat:             "console",
		Addr:                  ":9080",
		QueueSize:             10_000,
		WorkerCount:           runtime.NumCPU() * 2,
		DedupeSize:            50_000,
		ShardCount:            8,
		MaxMatchLimit:         100,
		StoreDriver:           StoreMemory,
		Weights:               weights,
		RoleLevelStep:         policy.RoleLevelStep,
		StoreTierStep:         policy.StoreTierStep,
		GapThreshold:          learning.DefaultGapThreshold,
		CompensationTolerance: compensation.DefaultTolerance,
		RecommendationLimit:   learning.DefaultLimit,
	}
}

// ScoringPolicy builds the scorer policy described by the config.
func (c *Config) ScoringPolicy() scoring.Policy {
	p := scoring.DefaultPolicy()
	if len(c.Weights) > 0 {
		p.Weights = make(map[model.Dimension]float64, len(c.Weights))
		for name, w := range c.Weights {
			p.Weights[model.Dimension(strings.ToLower(strings.TrimSpace(name)))] = w
		}
	}
	p.RoleLevelStep = c.RoleLevelStep
	p.StoreTierStep = c.StoreTierStep
	return p
}

// Validate checks every field that would otherwise fail deep inside the service.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.QueueSize <= 0 || c.WorkerCount <= 0 || c.ShardCount <= 0 {
		return fmt.Errorf("%w: queue_size, worker_count and shard_count must be positive", ErrInvalidConfig)
	}
	if c.MaxMatchLimit <= 0 {
		return fmt.Errorf("%w: max_match_limit must be positive", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("%w: postgres_dsn is required for the postgres store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if err := c.ScoringPolicy().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.GapThreshold <= 0 || c.GapThreshold > model.MaxAssessmentScore {
		return fmt.Errorf("%w: gap_threshold %v outside (0, 5]", ErrInvalidConfig, c.GapThreshold)
	}
	if c.CompensationTolerance < 0 {
		return fmt.Errorf("%w: compensation_tolerance must not be negative", ErrInvalidConfig)
	}
	if c.RecommendationLimit <= 0 {
		return fmt.Errorf("%w: recommendation_limit must be positive", ErrInvalidConfig)
	}
	return nil
}
