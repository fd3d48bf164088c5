// Package worker rescores queued (talent, opportunity) pairs and upserts the
// resulting matches.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/maison/internal/adapters/mq/queue"
	model "github.com/okian/maison/internal/domain/model"
	"github.com/okian/maison/pkg/logger"
	"github.com/okian/maison/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = queue.Job

// Scorer computes the match for one pair.
type Scorer interface {
	Score(t model.Talent, o model.Opportunity) (model.Match, error)
}

// Upserter persists a match.
type Upserter interface {
	Upsert(ctx context.Context, m model.Match) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// DoneFunc is called after every job, successful or not.
type DoneFunc func(ctx context.Context, j Job, err error)

// Worker processes jobs and writes matches using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing recompute jobs.
type InMemoryWorker struct {
	queue    Queue
	scorer   Scorer
	upserter Upserter
	name     string
	onDone   DoneFunc
	active   *atomic.Int64

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, scorer Scorer, upserter Upserter, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		scorer:   scorer,
		upserter: upserter,
		name:     "worker",
		active:   &atomic.Int64{},
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Nop(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			w.active.Add(1)
			err := w.process(ctx, j)
			w.active.Add(-1)
			if err != nil {
				w.logger.Error(ctx, "error processing recompute job", logger.String("job_id", j.ID), logger.Error(err))
			}
			if w.onDone != nil {
				w.onDone(ctx, j, err)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process scores one job and upserts the match.
func (w *InMemoryWorker) process(ctx context.Context, j Job) error { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	scoreStart := time.Now()
	m, err := w.scorer.Score(j.Talent, j.Opportunity)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordInvalidInput("recompute")
		metrics.RecordErrorByComponent("worker", "scoring_error")
		return fmt.Errorf("score %s: %w", j.Key(), err)
	}
	metrics.RecordMatchScored(m.Score, float64(time.Since(scoreStart).Microseconds())/1000)

	if err := w.upserter.Upsert(ctx, m); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		return fmt.Errorf("upsert %s: %w", j.Key(), err)
	}

	w.logger.Debug(ctx, "match recomputed",
		logger.String("job_id", j.ID),
		logger.String("talent_id", m.TalentID),
		logger.String("opportunity_id", m.OpportunityID),
		logger.Int("score", m.Score),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	active  *atomic.Int64

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool. opts are applied to every worker.
func NewPool(workerCount int, q Queue, scorer Scorer, upserter Upserter, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    q,
		active:   &atomic.Int64{},
		shutdown: make(chan struct{}),
		logger:   logger.Nop(),
	}

	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		w := NewInMemoryWorker(q, scorer, upserter, workerOpts...)
		w.active = pool.active
		pool.workers[i] = w
	}
	// Resolve the logger the same way workers do.
	probe := &InMemoryWorker{logger: logger.Nop()}
	for _, opt := range opts {
		opt(probe)
	}
	pool.logger = probe.logger.Named("pool")

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	metrics.UpdateWorkerIdleCount(workerCount)

	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Active returns the number of workers currently processing a job.
func (p *Pool) Active() int { return int(p.active.Load()) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.startMetricsUpdater(ctx)
}

// startMetricsUpdater periodically publishes active and idle worker counts.
func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

func (p *Pool) updateMetrics() {
	active := p.Active()
	metrics.UpdateWorkerActiveCount(active)
	metrics.UpdateWorkerIdleCount(len(p.workers) - active)
}

// Shutdown closes the queue, lets workers drain what is already queued and
// waits for them to exit or for ctx to expire.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	p.shutdownOnce.Do(func() { close(p.shutdown) })

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut int
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut++
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	p.updateMetrics()
	if timedOut > 0 {
		return fmt.Errorf("%d workers did not stop: %w", timedOut, shutdownCtx.Err())
	}
	return nil
}
