package domain

import (
	"context"
	"time"
)

// SemanticCache provides similarity-based response caching for completion
// requests.
type SemanticCache interface {
	// Get retrieves a cached response for a semantically similar request.
	// Returns ErrCacheMiss when nothing similar enough is stored.
	Get(ctx context.Context, req *CompletionRequest) (*CachedResponse, error)

	// Set stores a response keyed by the request's embedding.
	Set(ctx context.Context, req *CompletionRequest, resp *CompletionResponse) error

	// Clear removes every cached entry and returns the count removed.
	Clear(ctx context.Context) (int, error)

	// Stats returns cache performance metrics.
	Stats(ctx context.Context) (*CacheStats, error)
}

// EmbeddingGenerator creates vector embeddings from text. It is the only
// external dependency of the cache path; when it fails the gateway treats the
// request as a cache miss and proceeds without caching (fail-open).
type EmbeddingGenerator interface {
	// Generate creates a vector embedding from text.
	Generate(ctx context.Context, text string) ([]float64, error)

	// Name returns the generator identifier.
	Name() string

	// Dimension returns the vector dimension.
	Dimension() int
}

// VectorStore is the storage backend of the semantic cache. Similarity
// threshold, capacity, and TTL policy are configured on the backend itself.
type VectorStore interface {
	// Search returns the best match for the embedding, or (nil, nil) when no
	// stored vector clears the backend's similarity threshold.
	Search(ctx context.Context, embedding []float64) (*SearchResult, error)

	// Index stores data under the embedding.
	Index(ctx context.Context, prompt string, embedding []float64, data []byte) error

	// Clear removes every indexed entry and returns the count removed.
	Clear(ctx context.Context) (int, error)
}

// VectorStoreStats is optionally implemented by backends that track activity
// counters.
type VectorStoreStats interface {
	StatsSnapshot(ctx context.Context) (*CacheStats, error)
}

// CachedResponse is a cache hit: the stored completion plus match metadata.
type CachedResponse struct {
	Response        *CompletionResponse
	CachedAt        time.Time
	OriginalModel   string
	SimilarityScore float64
}

// SearchResult is a single vector store match.
type SearchResult struct {
	Key        string
	Similarity float64
	Data       []byte
	IndexedAt  time.Time
}

// CacheStats summarizes cache activity.
type CacheStats struct {
	Size      int   `json:"size"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Expired   int64 `json:"expired"`
}
