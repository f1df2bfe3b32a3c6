package cache

import (
	"context"

	"github.com/hearthlabs/ember/internal/domain"
)

// Store implements domain.VectorStore so the semantic cache service can run
// against the in-memory core.

// Search returns the best stored match for the embedding, or nil when nothing
// clears the configured similarity threshold.
func (s *Store) Search(ctx context.Context, embedding []float64) (*domain.SearchResult, error) {
	match, ok := s.Get(ctx, embedding)
	if !ok {
		return nil, nil
	}

	return &domain.SearchResult{
		Key:        match.Entry.ID,
		Similarity: match.Similarity,
		Data:       []byte(match.Entry.Response),
		IndexedAt:  match.Entry.CreatedAt,
	}, nil
}

// Index stores data under the embedding.
func (s *Store) Index(ctx context.Context, prompt string, embedding []float64, data []byte) error {
	_, err := s.Set(ctx, prompt, embedding, string(data))
	return err
}

// StatsSnapshot implements domain.VectorStoreStats.
func (s *Store) StatsSnapshot(_ context.Context) (*domain.CacheStats, error) {
	stats := s.Stats()
	return &domain.CacheStats{
		Size:      stats.Size,
		Hits:      stats.Hits,
		Misses:    stats.Misses,
		Evictions: stats.Evictions,
		Expired:   stats.Expired,
	}, nil
}
