package repository

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	model "github.com/okian/maison/internal/domain/model"
	"github.com/okian/maison/pkg/metrics"
)

// In-memory Store implementation.
//
// Talents are spread over shards by a hash of their id. Each talent keeps a
// treap of its matches ordered by score DESC, then opportunity id ASC, so an
// in-order traversal yields the talent's match list best first.

const defaultShardCount = 8

// treap node
type node struct {
	id    string // opportunity id
	score int
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aScore, aID) should be listed before (bScore, bID).
func less(aScore int, aID string, bScore int, bID string) bool {
	if aScore != bScore {
		return aScore > bScore // higher score lists earlier
	}
	return aID < bID // tie-breaker by id asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// priority derives a stable heap priority from the opportunity id.
func priority(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}

func insert(n *node, id string, score int) *node {
	if n == nil {
		return &node{id: id, score: score, prio: priority(id), size: 1}
	}
	if less(score, id, n.score, n.id) {
		n.left = insert(n.left, id, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, score int) *node {
	if n == nil {
		return nil
	}
	if score == n.score && id == n.id {
		// Rotate the higher-priority child up until the node is a leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
	} else if less(score, id, n.score, n.id) {
		n.left = deleteNode(n.left, id, score)
	} else {
		n.right = deleteNode(n.right, id, score)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit matches in list order.
func collectTopN(n *node, limit int, byOpp map[string]model.Match, out *[]model.Match) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, byOpp, out)
	if len(*out) < limit {
		if m, ok := byOpp[n.id]; ok {
			*out = append(*out, cloneMatch(m))
		}
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, byOpp, out)
	}
}

// talentMatches holds every match of one talent.
type talentMatches struct {
	root  *node
	byOpp map[string]model.Match
}

type shard struct {
	mu      sync.RWMutex
	talents map[string]*talentMatches
	count   int
}

// MemoryStore is a sharded, mutex-guarded Store.
type MemoryStore struct {
	shards                []*shard
	shardCount            int
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore constructs a memory store with configuration options. The
// metrics updater stops when ctx is cancelled or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		shardCount:            defaultShardCount,
		metricsUpdateInterval: 5 * time.Second,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{talents: make(map[string]*talentMatches)}
	}

	s.stopChan = make(chan struct{})
	metrics.UpdateRepositoryShardCount(s.shardCount)
	s.startMetricsUpdater(ctx)

	return s
}

func (s *MemoryStore) shardFor(talentID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(talentID))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// Upsert implements Store.Upsert in O(log n) expected time per talent.
func (s *MemoryStore) Upsert(_ context.Context, m model.Match) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if m.TalentID == "" || m.OpportunityID == "" {
		metrics.RecordErrorByComponent("repository", "invalid_key")
		return ErrInvalidKey
	}

	sh := s.shardFor(m.TalentID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	tm, ok := sh.talents[m.TalentID]
	if !ok {
		tm = &talentMatches{byOpp: make(map[string]model.Match)}
		sh.talents[m.TalentID] = tm
	}
	if old, ok := tm.byOpp[m.OpportunityID]; ok {
		tm.root = deleteNode(tm.root, old.OpportunityID, old.Score)
	} else {
		sh.count++
	}
	tm.byOpp[m.OpportunityID] = cloneMatch(m)
	tm.root = insert(tm.root, m.OpportunityID, m.Score)

	metrics.RecordStoreUpsert()
	return nil
}

// Get returns the match stored under key.
func (s *MemoryStore) Get(_ context.Context, key model.MatchKey) (model.Match, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	sh := s.shardFor(key.TalentID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	if tm, ok := sh.talents[key.TalentID]; ok {
		if m, ok := tm.byOpp[key.OpportunityID]; ok {
			return cloneMatch(m), nil
		}
	}
	metrics.RecordErrorByComponent("repository", "not_found")
	return model.Match{}, ErrNotFound
}

// ListByTalent returns the talent's best matches first.
func (s *MemoryStore) ListByTalent(_ context.Context, talentID string, limit int) ([]model.Match, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if limit < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	sh := s.shardFor(talentID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	tm, ok := sh.talents[talentID]
	if !ok || nsize(tm.root) == 0 {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, ErrNotFound
	}
	out := make([]model.Match, 0, min(limit, nsize(tm.root)))
	collectTopN(tm.root, limit, tm.byOpp, &out)
	return out, nil
}

// Count returns the number of stored matches.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += sh.count
		sh.mu.RUnlock()
	}
	return total, nil
}

// Close stops the metrics updater. It is safe to call more than once.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// startMetricsUpdater starts a background goroutine that updates repository metrics.
func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

// updateMetrics publishes per-shard and total record counts.
func (s *MemoryStore) updateMetrics() {
	total := 0
	for i, sh := range s.shards {
		sh.mu.RLock()
		n := sh.count
		sh.mu.RUnlock()
		total += n
		metrics.UpdateRepositoryRecordsPerShard(strconv.Itoa(i), n)
	}
	metrics.UpdateStoreMatches(total)
}

// cloneMatch copies the breakdown map so callers cannot mutate stored state.
func cloneMatch(m model.Match) model.Match {
	if m.Breakdown != nil {
		b := make(map[model.Dimension]float64, len(m.Breakdown))
		for k, v := range m.Breakdown {
			b[k] = v
		}
		m.Breakdown = b
	}
	return m
}
