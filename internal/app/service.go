// Package service wires the matching engine, the match store and the async
// recompute pipeline behind one type used by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/maison/internal/adapters/mq/queue"
	"github.com/okian/maison/internal/adapters/mq/worker"
	repository "github.com/okian/maison/internal/adapters/repository"
	"github.com/okian/maison/internal/config"
	"github.com/okian/maison/internal/domain/compensation"
	"github.com/okian/maison/internal/domain/dedupe"
	"github.com/okian/maison/internal/domain/learning"
	model "github.com/okian/maison/internal/domain/model"
	"github.com/okian/maison/internal/domain/ranking"
	"github.com/okian/maison/internal/domain/scoring"
	"github.com/okian/maison/internal/domain/types"
	"github.com/okian/maison/pkg/logger"
	"github.com/okian/maison/pkg/metrics"
)

const stopTimeout = 30 * time.Second

// Service implements the API dependencies for the matching engine.
type Service struct {
	mu sync.RWMutex

	cfg    *config.Config
	logger logger.Logger
	now    func() time.Time

	// Pure components, built by New.
	catalog     *learning.Catalog
	aligner     *compensation.Aligner
	scorer      *scoring.Scorer
	ranker      *ranking.Ranker
	recommender *learning.Recommender

	// Runtime components, built by Start.
	store   repository.Store
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	pool    *worker.Pool

	// State
	started bool
	cancel  context.CancelFunc
}

// New builds the pure matching components from the configuration. The match
// store and the recompute pipeline are created by Start.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		cfg:    config.New(),
		logger: logger.Nop(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.cfg == nil {
		return nil, ErrNilConfig
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	if s.catalog == nil {
		var err error
		if s.cfg.CatalogPath != "" {
			s.catalog, err = learning.LoadCatalog(s.cfg.CatalogPath)
		} else {
			s.catalog, err = learning.DefaultCatalog()
		}
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}

	aligner, err := compensation.NewAligner(compensation.WithTolerance(s.cfg.CompensationTolerance))
	if err != nil {
		return nil, fmt.Errorf("build aligner: %w", err)
	}
	s.aligner = aligner

	scorerOpts := []scoring.Option{
		scoring.WithPolicy(s.cfg.ScoringPolicy()),
		scoring.WithAligner(aligner),
	}
	if s.now != nil {
		scorerOpts = append(scorerOpts, scoring.WithClock(s.now))
	}
	s.scorer, err = scoring.New(scorerOpts...)
	if err != nil {
		return nil, fmt.Errorf("build scorer: %w", err)
	}
	s.ranker = ranking.New(s.scorer)

	s.recommender, err = learning.NewRecommender(
		learning.WithGapThreshold(s.cfg.GapThreshold),
		learning.WithLimit(s.cfg.RecommendationLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("build recommender: %w", err)
	}

	return s, nil
}

// Start creates the match store, the recompute queue and the worker pool.
// The pipeline outlives ctx's cancellation; call Stop to shut it down.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting matching service...")

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	if s.store == nil {
		store, err := s.openStore(ctx, runCtx)
		if err != nil {
			cancel()
			return err
		}
		s.store = store
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.cfg.DedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.cfg.QueueSize))
	s.pool = worker.NewPool(s.cfg.WorkerCount, s.queue, s.scorer, s.store,
		worker.WithLogger(s.logger),
		worker.WithOnDone(s.release),
	)
	s.pool.Start(runCtx)
	s.cancel = cancel

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.Int("workers", s.cfg.WorkerCount),
		logger.Int("queueSize", s.cfg.QueueSize),
		logger.Int("dedupeSize", s.cfg.DedupeSize),
		logger.String("store", s.cfg.StoreDriver),
		logger.Int("modules", s.catalog.Len()),
	)
	return nil
}

func (s *Service) openStore(ctx, runCtx context.Context) (repository.Store, error) {
	switch s.cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := repository.Connect(ctx, s.cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		store, err := repository.NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		s.logger.Info(ctx, "using postgres store")
		return store, nil
	default:
		s.logger.Info(ctx, "using memory store", logger.Int("shards", s.cfg.ShardCount))
		return repository.NewMemoryStore(runCtx, repository.WithShardCount(s.cfg.ShardCount)), nil
	}
}

// release frees the pending key of a finished job so later edits recompute.
func (s *Service) release(ctx context.Context, j worker.Job, err error) {
	s.deduper.Unrecord(ctx, j.Key().String())
	if err != nil && errors.Is(err, model.ErrInvalidInput) {
		s.logger.Warn(ctx, "recompute rejected by scorer", logger.String("job_id", j.ID), logger.Error(err))
	}
}

// Stop drains the recompute queue and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping matching service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "store close failed", logger.Error(err))
	}
	s.cancel()

	// An injected store is closed too, so the next Start opens a fresh one.
	s.store = nil
	s.started = false
	s.logger.Info(ctx, "matching service stopped")
}

// ScoreMatch scores one (talent, opportunity) pair.
func (s *Service) ScoreMatch(ctx context.Context, t model.Talent, o model.Opportunity) (model.Match, error) {
	start := time.Now()
	m, err := s.scorer.Score(t, o)
	if err != nil {
		s.fail(ctx, "score", err)
		return model.Match{}, err
	}
	metrics.RecordMatchScored(m.Score, sinceMs(start))
	metrics.RecordAlignment(string(m.Compensation))
	return m, nil
}

// RankMatches scores t against opportunities and returns the best first.
// limit <= 0 returns every active match; a larger limit than the configured
// maximum is clamped to it.
func (s *Service) RankMatches(ctx context.Context, t model.Talent, opportunities []model.Opportunity, limit, minScore int) ([]model.Match, error) {
	if limit > s.cfg.MaxMatchLimit {
		limit = s.cfg.MaxMatchLimit
	}
	matches, err := s.ranker.Rank(t, opportunities,
		ranking.WithLimit(limit),
		ranking.WithMinScore(minScore),
	)
	if err != nil {
		s.fail(ctx, "rank", err)
		return nil, err
	}
	metrics.RecordRanking(len(matches))
	return matches, nil
}

// AlignCompensation classifies expected against budget.
func (s *Service) AlignCompensation(ctx context.Context, expected, budget *model.CompensationRange) (model.Alignment, error) {
	a, err := s.aligner.Align(expected, budget)
	if err != nil {
		s.fail(ctx, "align", err)
		return "", err
	}
	metrics.RecordAlignment(string(a))
	return a, nil
}

// RecommendModules returns ranked catalog modules for t.
func (s *Service) RecommendModules(ctx context.Context, t model.Talent, progress []model.Progress) ([]model.Recommendation, error) {
	res, err := s.recommender.Evaluate(t, progress, s.catalog)
	if err != nil {
		s.fail(ctx, "recommend", err)
		return nil, err
	}
	metrics.RecordRecommendation(string(res.Outcome))
	s.logger.Debug(ctx, "recommendations built",
		logger.String("talent_id", t.ID),
		logger.String("outcome", string(res.Outcome)),
		logger.Int("count", len(res.Recommendations)),
	)
	return res.Recommendations, nil
}

// Matches returns the stored matches of a talent, best first.
func (s *Service) Matches(ctx context.Context, talentID string, limit int) ([]model.Match, error) {
	store, err := s.runningStore()
	if err != nil {
		return nil, err
	}
	return store.ListByTalent(ctx, talentID, s.clampLimit(limit))
}

// EnqueueRecompute schedules an async rescore of (t, o). A pair that already
// has a pending job is coalesced and reported as a duplicate.
func (s *Service) EnqueueRecompute(ctx context.Context, t model.Talent, o model.Opportunity) (types.RecomputeResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return types.RecomputeResult{}, ErrNotStarted
	}
	if err := validatePair(t, o); err != nil {
		s.fail(ctx, "recompute", err)
		return types.RecomputeResult{}, err
	}

	key := model.MatchKey{TalentID: t.ID, OpportunityID: o.ID}.String()
	if s.deduper.SeenAndRecord(ctx, key) {
		metrics.RecordRecomputeDuplicate()
		s.logger.Debug(ctx, "recompute already pending", logger.String("key", key))
		return types.RecomputeResult{Key: key, Duplicate: true}, nil
	}

	job := model.RecomputeJob{
		ID:          uuid.NewString(),
		Talent:      t,
		Opportunity: o,
		EnqueuedAt:  time.Now().UTC(),
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.deduper.Unrecord(ctx, key)
		metrics.RecordRecomputeRejected()
		s.logger.Warn(ctx, "recompute rejected", logger.String("key", key), logger.Error(err))
		return types.RecomputeResult{}, err
	}
	metrics.RecordRecomputeEnqueued()
	return types.RecomputeResult{JobID: job.ID, Key: key}, nil
}

// Catalog returns the learning module catalog.
func (s *Service) Catalog() *learning.Catalog { return s.catalog }

// Policy returns a copy of the active scoring policy.
func (s *Service) Policy() scoring.Policy { return s.scorer.Policy() }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":        s.started,
		"workerCount":    s.cfg.WorkerCount,
		"queueSize":      s.cfg.QueueSize,
		"dedupeSize":     s.cfg.DedupeSize,
		"storeDriver":    s.cfg.StoreDriver,
		"catalogModules": s.catalog.Len(),
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["pendingRecomputes"] = s.deduper.Size()
		stats["activeWorkers"] = s.pool.Active()
		if n, err := s.store.Count(ctx); err == nil {
			stats["storedMatches"] = n
			metrics.UpdateStoreMatches(n)
		}
		metrics.UpdateQueueSize(queueLen)
	}

	return stats
}

// validatePair checks both records and the ids a stored match is keyed by.
func validatePair(t model.Talent, o model.Opportunity) error {
	switch {
	case t.ID == "":
		return model.Invalid("talent.id", "must not be empty")
	case o.ID == "":
		return model.Invalid("opportunity.id", "must not be empty")
	}
	if err := t.Validate(); err != nil {
		return err
	}
	return o.Validate()
}

func (s *Service) runningStore() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 || limit > s.cfg.MaxMatchLimit {
		return s.cfg.MaxMatchLimit
	}
	return limit
}

// fail records a failed operation.
func (s *Service) fail(ctx context.Context, op string, err error) {
	if errors.Is(err, model.ErrInvalidInput) {
		metrics.RecordInvalidInput(op)
		s.logger.Debug(ctx, "invalid input", logger.String("op", op), logger.Error(err))
		return
	}
	metrics.RecordErrorByComponent("service", op)
	s.logger.Error(ctx, "operation failed", logger.String("op", op), logger.Error(err))
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
