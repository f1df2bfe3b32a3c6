package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hearthlabs/ember/internal/metrics"
)

// Entry is one cached prompt/response pair, owned exclusively by the store.
type Entry struct {
	ID           string    `json:"id"`
	Prompt       string    `json:"prompt_text"`
	Embedding    []float64 `json:"embedding"`
	Response     string    `json:"response_text"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessAt time.Time `json:"last_access_at"`
	HitCount     int64     `json:"hit_count"`
}

// Match is a successful lookup: a snapshot of the matched entry plus its
// similarity to the query vector.
type Match struct {
	Entry      Entry
	Similarity float64
}

// Config controls store capacity and freshness policy.
type Config struct {
	// SimilarityThreshold is the minimum cosine similarity for a hit, in (0,1].
	SimilarityThreshold float64

	// MaxSize is the entry capacity; the least recently accessed entry is
	// evicted to make room.
	MaxSize int

	// Dimension is the embedding vector length D. Every stored embedding must
	// have exactly this dimension.
	Dimension int

	// TTL is the maximum entry age. Zero disables expiry.
	TTL time.Duration

	// SweepInterval is the period of the background expiry sweep. Zero
	// disables the sweep; expired entries are then only removed lazily on Get.
	SweepInterval time.Duration
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in (0,1], got %v", c.SimilarityThreshold)
	}
	if c.MaxSize <= 0 {
		return fmt.Errorf("max size must be positive, got %d", c.MaxSize)
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.Dimension)
	}
	if c.TTL < 0 {
		return fmt.Errorf("ttl must be non-negative, got %v", c.TTL)
	}
	return nil
}

// Stats is a point-in-time snapshot of store activity.
type Stats struct {
	Size      int   `json:"size"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Expired   int64 `json:"expired"`
}

// Store is the in-memory semantic cache: an entry map plus a vector index,
// guarded by one RWMutex. Gets run concurrently; Set, Clear, eviction, and
// sweep removals take the write lock for the structural mutation only.
type Store struct {
	mu      sync.RWMutex
	cfg     Config
	entries map[string]*Entry
	index   *VectorIndex
	logger  *zap.Logger
	now     func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
	expired   atomic.Int64

	sweepStop chan struct{}
	sweepDone chan struct{}
}

// NewStore creates a store and starts the background expiry sweep when both
// TTL and SweepInterval are set.
func NewStore(cfg Config, logger *zap.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		mu:        sync.RWMutex{},
		cfg:       cfg,
		entries:   make(map[string]*Entry),
		index:     NewVectorIndex(0),
		logger:    logger.With(zap.String("component", "semantic_cache")),
		now:       time.Now,
		sweepStop: nil,
		sweepDone: nil,
	}

	if cfg.TTL > 0 && cfg.SweepInterval > 0 {
		s.sweepStop = make(chan struct{})
		s.sweepDone = make(chan struct{})
		go s.sweepLoop()
	}

	return s, nil
}

// Get looks up the stored entry nearest to the query embedding. It is a hit
// only when the similarity reaches the configured threshold and the entry has
// not expired; a hit updates last access time and hit count. There is no
// partial credit below the threshold.
func (s *Store) Get(_ context.Context, embedding []float64) (*Match, bool) {
	if err := s.validateEmbedding(embedding); err != nil {
		s.logger.Warn("rejecting query embedding", zap.Error(err))
		return nil, false
	}

	s.mu.RLock()
	if len(s.entries) == 0 {
		s.mu.RUnlock()
		s.miss()
		return nil, false
	}
	id, similarity, ok := s.index.Nearest(embedding)
	s.mu.RUnlock()

	if !ok || similarity < s.cfg.SimilarityThreshold {
		s.miss()
		return nil, false
	}

	now := s.now()

	s.mu.Lock()
	entry, exists := s.entries[id]
	if !exists {
		// Raced with a removal between the read and write sections.
		s.mu.Unlock()
		s.miss()
		return nil, false
	}

	if s.isExpired(entry, now) {
		s.removeLocked(id)
		s.mu.Unlock()
		s.expired.Add(1)
		metrics.CacheExpired.Inc()
		s.miss()
		return nil, false
	}

	entry.LastAccessAt = now
	entry.HitCount++
	snapshot := *entry
	s.mu.Unlock()

	s.hits.Add(1)

	metrics.CacheHits.Inc()
	metrics.CacheSimilarity.Observe(similarity)

	return &Match{Entry: snapshot, Similarity: similarity}, true
}

// Set inserts a new entry, evicting the least recently accessed entry first
// when the store is full. Store and index are updated under one write lock so
// a concurrent Get never observes a torn entry.
func (s *Store) Set(_ context.Context, prompt string, embedding []float64, response string) (*Entry, error) {
	if err := s.validateEmbedding(embedding); err != nil {
		return nil, err
	}

	now := s.now()
	entry := &Entry{
		ID:           uuid.New().String(),
		Prompt:       prompt,
		Embedding:    append([]float64(nil), embedding...),
		Response:     response,
		CreatedAt:    now,
		LastAccessAt: now,
		HitCount:     0,
	}

	s.mu.Lock()
	for len(s.entries) >= s.cfg.MaxSize {
		s.evictLocked()
	}

	s.entries[entry.ID] = entry
	s.index.Insert(entry.ID, entry.Embedding)
	s.verifyLocked()
	size := len(s.entries)
	s.mu.Unlock()

	metrics.CacheEntries.Set(float64(size))

	snapshot := *entry
	return &snapshot, nil
}

// Clear removes every entry from both store and index and returns the count
// removed. The removal is all-or-nothing under the write lock.
func (s *Store) Clear(_ context.Context) (int, error) {
	s.mu.Lock()
	removed := len(s.entries)
	s.entries = make(map[string]*Entry)
	s.index.Reset()
	s.mu.Unlock()

	metrics.CacheEntries.Set(0)
	s.logger.Info("cache cleared", zap.Int("removed", removed))

	return removed, nil
}

// Len returns the current entry count.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats returns a snapshot of store activity counters.
func (s *Store) Stats() Stats {
	return Stats{
		Size:      s.Len(),
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Evictions: s.evictions.Load(),
		Expired:   s.expired.Load(),
	}
}

// Close stops the background sweep, if one is running.
func (s *Store) Close() {
	if s.sweepStop == nil {
		return
	}
	close(s.sweepStop)
	<-s.sweepDone
	s.sweepStop = nil
}

// miss records a cache miss.
func (s *Store) miss() {
	s.misses.Add(1)
	metrics.CacheMisses.Inc()
}

// isExpired reports whether an entry exceeded the TTL at the given time.
func (s *Store) isExpired(entry *Entry, now time.Time) bool {
	if s.cfg.TTL <= 0 {
		return false
	}
	return now.Sub(entry.CreatedAt) > s.cfg.TTL
}

// validateEmbedding enforces the fixed dimension D.
func (s *Store) validateEmbedding(embedding []float64) error {
	if len(embedding) == 0 {
		return errors.New("embedding cannot be empty")
	}
	if len(embedding) != s.cfg.Dimension {
		return fmt.Errorf("embedding dimension mismatch: got %d want %d", len(embedding), s.cfg.Dimension)
	}
	return nil
}

// evictLocked removes the entry with the oldest last access time, breaking
// ties toward the oldest creation time. Caller holds the write lock.
func (s *Store) evictLocked() {
	var victim *Entry
	for _, entry := range s.entries {
		if victim == nil {
			victim = entry
			continue
		}
		switch {
		case entry.LastAccessAt.Before(victim.LastAccessAt):
			victim = entry
		case entry.LastAccessAt.Equal(victim.LastAccessAt) && entry.CreatedAt.Before(victim.CreatedAt):
			victim = entry
		}
	}
	if victim == nil {
		return
	}

	s.removeLocked(victim.ID)
	s.evictions.Add(1)
	metrics.CacheEvictions.Inc()

	s.logger.Debug("evicted cache entry",
		zap.String("id", victim.ID),
		zap.Time("last_access_at", victim.LastAccessAt),
		zap.Int64("hit_count", victim.HitCount))
}

// removeLocked deletes an entry from both store and index. Caller holds the
// write lock.
func (s *Store) removeLocked(id string) {
	delete(s.entries, id)
	s.index.Remove(id)
}

// verifyLocked checks the store/index count invariant after a structural
// mutation. A mismatch is an internal defect; the index is rebuilt from the
// authoritative entry store. Caller holds the write lock.
func (s *Store) verifyLocked() {
	if len(s.entries) == s.index.Len() {
		return
	}

	s.logger.Error("cache index/store count mismatch, rebuilding index",
		zap.Int("store", len(s.entries)),
		zap.Int("index", s.index.Len()))

	s.index.Reset()
	for id, entry := range s.entries {
		s.index.Insert(id, entry.Embedding)
	}
}

// sweepLoop periodically removes expired entries. Each removal takes its own
// short critical section so the sweep never blocks Gets and Sets for the
// whole scan.
func (s *Store) sweepLoop() {
	defer close(s.sweepDone)

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.sweepStop:
			return
		case <-ticker.C:
			if removed := s.sweepOnce(); removed > 0 {
				s.logger.Info("ttl sweep removed expired entries",
					zap.Int("removed", removed))
			}
		}
	}
}

// sweepOnce collects expired entry ids under the read lock, then removes each
// one under its own write-lock critical section.
func (s *Store) sweepOnce() int {
	now := s.now()

	s.mu.RLock()
	stale := make([]string, 0)
	for id, entry := range s.entries {
		if s.isExpired(entry, now) {
			stale = append(stale, id)
		}
	}
	s.mu.RUnlock()

	removed := 0
	for _, id := range stale {
		s.mu.Lock()
		if entry, exists := s.entries[id]; exists && s.isExpired(entry, now) {
			s.removeLocked(id)
			removed++
		}
		s.mu.Unlock()
	}
	s.expired.Add(int64(removed))

	if removed > 0 {
		metrics.CacheExpired.Add(float64(removed))
		metrics.CacheEntries.Set(float64(s.Len()))
	}

	return removed
}
