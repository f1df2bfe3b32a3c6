package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hearthlabs/ember/internal/observability"
)

// ErrCacheMiss indicates no cached entry was found.
var ErrCacheMiss = errors.New("cache miss")

// SemanticCacheService implements SemanticCache on top of an embedding
// generator and a vector store backend. Embedding happens here, outside the
// store's critical sections; the backend only sees the finished vector.
type SemanticCacheService struct {
	embeddingGen EmbeddingGenerator
	store        VectorStore
}

// NewSemanticCacheService creates a new semantic cache service.
func NewSemanticCacheService(embeddingGen EmbeddingGenerator, store VectorStore) *SemanticCacheService {
	return &SemanticCacheService{
		embeddingGen: embeddingGen,
		store:        store,
	}
}

// Get retrieves a cached response for a semantically similar request.
func (s *SemanticCacheService) Get(ctx context.Context, req *CompletionRequest) (*CachedResponse, error) {
	logger := observability.FromContext(ctx)

	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	queryText := s.buildQueryText(req)

	embedding, err := s.embeddingGen.Generate(ctx, queryText)
	if err != nil {
		logger.Error("failed to generate embedding",
			observability.Error(err))
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	result, err := s.store.Search(ctx, embedding)
	if err != nil {
		logger.Error("similarity search failed",
			observability.Error(err))
		return nil, fmt.Errorf("failed to search similar vectors: %w", err)
	}

	if result == nil {
		logger.Info("no similar results found in cache")
		return nil, ErrCacheMiss
	}

	logger.Info("found similar cached entry",
		observability.Float64("similarity", result.Similarity),
		observability.String("cache_key", result.Key))

	//nolint:exhaustruct // Response field is populated via json.Unmarshal below
	cached := &CachedResponse{
		SimilarityScore: result.Similarity,
		CachedAt:        result.IndexedAt,
		OriginalModel:   req.Model,
	}

	if unmarshalErr := json.Unmarshal(result.Data, &cached.Response); unmarshalErr != nil {
		logger.Error("failed to unmarshal cached response",
			observability.Error(unmarshalErr))
		return nil, fmt.Errorf("failed to unmarshal cached response: %w", unmarshalErr)
	}

	return cached, nil
}

// Set stores a response with its embedding in the cache.
func (s *SemanticCacheService) Set(ctx context.Context, req *CompletionRequest, resp *CompletionResponse) error {
	logger := observability.FromContext(ctx)

	if req == nil {
		return errors.New("request cannot be nil")
	}

	if resp == nil {
		return errors.New("response cannot be nil")
	}

	queryText := s.buildQueryText(req)

	embedding, err := s.embeddingGen.Generate(ctx, queryText)
	if err != nil {
		logger.Error("failed to generate embedding for cache storage",
			observability.Error(err))
		return fmt.Errorf("failed to generate embedding: %w", err)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		logger.Error("failed to marshal response",
			observability.Error(err))
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if indexErr := s.store.Index(ctx, queryText, embedding, data); indexErr != nil {
		logger.Error("failed to index in cache",
			observability.Error(indexErr))
		return fmt.Errorf("failed to index in cache: %w", indexErr)
	}

	logger.Info("indexed response in cache",
		observability.Int("data_size", len(data)))
	return nil
}

// Clear removes every cached entry and returns the count removed.
func (s *SemanticCacheService) Clear(ctx context.Context) (int, error) {
	removed, err := s.store.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cache: %w", err)
	}

	observability.FromContext(ctx).Info("semantic cache cleared",
		observability.Int("removed", removed))
	return removed, nil
}

// Stats returns cache performance metrics. Backends without counters report
// zeros.
func (s *SemanticCacheService) Stats(ctx context.Context) (*CacheStats, error) {
	if provider, ok := s.store.(VectorStoreStats); ok {
		return provider.StatsSnapshot(ctx)
	}
	return &CacheStats{}, nil
}

// buildQueryText constructs a consistent text representation of the request
// for embedding.
func (s *SemanticCacheService) buildQueryText(req *CompletionRequest) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("model: %s", req.Model))

	var messages []string
	for _, msg := range req.Messages {
		messages = append(messages, fmt.Sprintf("%s: %s", msg.Role, msg.Content))
	}
	parts = append(parts, fmt.Sprintf("messages: %s", strings.Join(messages, " ")))

	return strings.Join(parts, " | ")
}
