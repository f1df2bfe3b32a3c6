// Package redis implements the semantic cache vector store on Redis Stack's
// FT.SEARCH KNN support. It is an alternative to the in-memory core for
// deployments that want the cache shared across processes.
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hearthlabs/ember/internal/domain"
	"github.com/hearthlabs/ember/internal/observability"
)

const (
	redisDialectVersion = 2
	keyPrefix           = "cache:"
)

// VectorSearch implements domain.VectorStore using Redis.
type VectorSearch struct {
	client             *redis.Client
	indexName          string
	embeddingDimension int
	threshold          float64
	ttl                time.Duration
}

// NewVectorSearch creates a new Redis vector store. The similarity threshold
// and TTL policy live here, mirroring the in-memory backend.
func NewVectorSearch(
	client *redis.Client,
	indexName string,
	embeddingDimension int,
	threshold float64,
	ttl time.Duration,
) (*VectorSearch, error) {
	v := &VectorSearch{
		client:             client,
		indexName:          indexName,
		embeddingDimension: embeddingDimension,
		threshold:          threshold,
		ttl:                ttl,
	}

	if err := v.createIndex(); err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return v, nil
}

// floatsToBytes converts float64 slice to binary byte representation.
func floatsToBytes(fs []float64) []byte {
	const bytesPerFloat32 = 4
	buf := make([]byte, len(fs)*bytesPerFloat32)

	for i, f := range fs {
		// Convert float64 to float32 for Redis compatibility
		f32 := float32(f)
		u := math.Float32bits(f32)
		binary.LittleEndian.PutUint32(buf[i*bytesPerFloat32:], u)
	}

	return buf
}

// Search returns the nearest stored vector above the threshold, or nil when
// no stored vector qualifies.
func (v *VectorSearch) Search(ctx context.Context, embedding []float64) (*domain.SearchResult, error) {
	embeddingBytes := floatsToBytes(embedding)

	logger := observability.FromContext(ctx)
	logger.Debug("starting vector search",
		observability.String("index", v.indexName),
		observability.Int("embedding_dim", len(embedding)),
		observability.Float64("threshold", v.threshold))

	query := "*=>[KNN 1 @embedding $vec AS score]"

	results, err := v.client.FTSearchWithArgs(ctx, v.indexName, query,
		&redis.FTSearchOptions{
			Return: []redis.FTSearchReturn{
				{FieldName: "data"},
				{FieldName: "indexed_at"},
				{FieldName: "score"},
			},
			DialectVersion: redisDialectVersion,
			Params: map[string]any{
				"vec": embeddingBytes,
			},
		},
	).Result()
	if err != nil {
		logger.Error("vector search failed",
			observability.Error(err))
		return nil, fmt.Errorf("search failed: %w", err)
	}

	for _, doc := range results.Docs {
		if result := v.parseSearchResult(ctx, doc); result != nil {
			return result, nil
		}
	}

	return nil, nil
}

// Index stores data under a key derived from the prompt text, with the
// backend TTL applied.
func (v *VectorSearch) Index(ctx context.Context, prompt string, embedding []float64, data []byte) error {
	key := cacheKey(prompt)

	logger := observability.FromContext(ctx)
	logger.Debug("starting vector index",
		observability.String("key", key),
		observability.Int("embedding_dim", len(embedding)),
		observability.Int("data_size", len(data)))

	embeddingBytes := floatsToBytes(embedding)

	pipe := v.client.Pipeline()

	pipe.HSet(ctx, key,
		"embedding", embeddingBytes,
		"data", string(data),
		"indexed_at", time.Now().Unix(),
	)

	if v.ttl > 0 {
		pipe.Expire(ctx, key, v.ttl)
	}

	if _, execErr := pipe.Exec(ctx); execErr != nil {
		logger.Error("vector index failed",
			observability.Error(execErr))
		return fmt.Errorf("failed to index: %w", execErr)
	}

	return nil
}

// Clear removes every cached entry and returns the count removed.
func (v *VectorSearch) Clear(ctx context.Context) (int, error) {
	var (
		cursor  uint64
		removed int
	)

	for {
		keys, next, err := v.client.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, delErr := v.client.Del(ctx, keys...).Result()
			if delErr != nil {
				return removed, fmt.Errorf("failed to delete cache keys: %w", delErr)
			}
			removed += int(deleted)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return removed, nil
}

// cacheKey derives a stable cache key from prompt text.
func cacheKey(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return keyPrefix + hex.EncodeToString(hash[:])
}

// createIndex creates the Redis search index if it doesn't exist.
func (v *VectorSearch) createIndex() error {
	ctx := context.Background()
	logger := observability.FromContext(ctx)

	// Check if index already exists
	_, err := v.client.FTInfo(ctx, v.indexName).Result()
	if err == nil {
		logger.Info("redis search index already exists, skipping creation",
			observability.String("index_name", v.indexName))
		return nil
	}

	logger.Info("creating redis search index",
		observability.String("index_name", v.indexName),
		observability.Int("embedding_dimension", v.embeddingDimension))

	_, err = v.client.FTCreate(ctx, v.indexName,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []any{keyPrefix},
		},
		&redis.FieldSchema{
			FieldName: "embedding",
			FieldType: redis.SearchFieldTypeVector,
			VectorArgs: &redis.FTVectorArgs{
				FlatOptions: &redis.FTFlatOptions{
					Type:           "FLOAT32",
					Dim:            v.embeddingDimension,
					DistanceMetric: "COSINE",
				},
			},
		},
		&redis.FieldSchema{
			FieldName: "data",
			FieldType: redis.SearchFieldTypeText,
		},
		&redis.FieldSchema{
			FieldName: "indexed_at",
			FieldType: redis.SearchFieldTypeNumeric,
			Sortable:  true,
		},
	).Result()
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	logger.Info("successfully created redis search index",
		observability.String("index_name", v.indexName))

	return nil
}

// parseSearchResult parses a single Document into a domain SearchResult,
// applying the similarity threshold.
func (v *VectorSearch) parseSearchResult(ctx context.Context, doc redis.Document) *domain.SearchResult {
	logger := observability.FromContext(ctx)

	// Extract score from fields (it's returned as "score" field, not doc.Score)
	scoreStr, scoreOk := doc.Fields["score"]
	if !scoreOk {
		return nil
	}

	score, err := strconv.ParseFloat(scoreStr, 64)
	if err != nil {
		return nil
	}

	// Convert distance to similarity (1.0 - distance for cosine)
	similarity := 1.0 - score

	if similarity < v.threshold {
		return nil
	}

	dataStr, dataOk := doc.Fields["data"]
	if !dataOk {
		logger.Warn("data field not found in search result",
			observability.String("key", doc.ID))
		return nil
	}

	var indexedAt time.Time
	if tsStr, tsOk := doc.Fields["indexed_at"]; tsOk {
		if ts, parseErr := strconv.ParseInt(tsStr, 10, 64); parseErr == nil {
			indexedAt = time.Unix(ts, 0)
		}
	}

	return &domain.SearchResult{
		Key:        doc.ID,
		Similarity: similarity,
		Data:       []byte(dataStr),
		IndexedAt:  indexedAt,
	}
}
