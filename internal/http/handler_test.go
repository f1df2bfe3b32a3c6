package http

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hearthlabs/ember/internal/cache"
	"github.com/hearthlabs/ember/internal/compression"
	"github.com/hearthlabs/ember/internal/config"
	"github.com/hearthlabs/ember/internal/domain"
	"github.com/hearthlabs/ember/internal/provider/echo"
	"github.com/hearthlabs/ember/internal/provider/registry"
)

const testEmbeddingDim = 8

// hashEmbedder is a deterministic embedding generator: identical text always
// produces the identical vector, which is all the cache integration here
// needs.
type hashEmbedder struct{}

func (hashEmbedder) Generate(_ context.Context, text string) ([]float64, error) {
	sum := sha256.Sum256([]byte(text))
	vec := make([]float64, testEmbeddingDim)
	for i := range vec {
		vec[i] = float64(sum[i]) - 127.5
	}
	return vec, nil
}

func (hashEmbedder) Name() string { return "hash" }

func (hashEmbedder) Dimension() int { return testEmbeddingDim }

func newTestHandler(t *testing.T, withCache bool) *Handler {
	t.Helper()

	ctx := context.Background()

	reg := registry.NewRegistry()
	require.NoError(t, reg.Register(ctx, echo.NewProvider()))

	pricing := domain.NewInMemoryPricingRegistry()
	require.NoError(t, echo.RegisterPricing(ctx, pricing))
	calculator := domain.NewStandardCostCalculator(pricing)

	var semanticCache domain.SemanticCache
	if withCache {
		store, err := cache.NewStore(cache.Config{
			SimilarityThreshold: 0.90,
			MaxSize:             100,
			Dimension:           testEmbeddingDim,
			TTL:                 time.Hour,
			SweepInterval:       0,
		}, zap.NewNop())
		require.NoError(t, err)
		t.Cleanup(store.Close)

		semanticCache = domain.NewSemanticCacheService(hashEmbedder{}, store)
	}

	gateway := domain.NewGatewayService(reg, calculator, semanticCache, nil, nil)

	return NewHandler(gateway, semanticCache, compression.NewRegistry(), &config.CompressionConfig{
		Enabled:            true,
		PipelineNames:      nil,
		UseByteCompression: false,
		MinWordLength:      4,
	})
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	h := newTestHandler(t, false)

	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "healthy", body["status"])
}

func TestHandleCompletion_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, false)

	rec := httptest.NewRecorder()
	h.HandleCompletion(rec, httptest.NewRequest(http.MethodGet, "/v1/completions", nil))

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleCompletion_InvalidBody(t *testing.T) {
	h := newTestHandler(t, false)

	req := httptest.NewRequest(http.MethodPost, "/v1/completions", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.HandleCompletion(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCompletion_ExplicitProvider(t *testing.T) {
	h := newTestHandler(t, false)

	rec := postJSON(t, h.HandleCompletion, "/v1/completions", domain.CompletionRequest{
		Model: "echo4",
		Messages: []domain.Message{
			{Role: "user", Content: "Hello"},
		},
	}, map[string]string{"X-Provider": "echo"})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.CompletionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "echo", resp.Provider)
	require.Contains(t, resp.Content, "Hello")
	require.False(t, resp.Cached)
}

func TestHandleCompletion_UnknownProvider(t *testing.T) {
	h := newTestHandler(t, false)

	rec := postJSON(t, h.HandleCompletion, "/v1/completions", domain.CompletionRequest{
		Model: "echo4",
		Messages: []domain.Message{
			{Role: "user", Content: "Hello"},
		},
	}, map[string]string{"X-Provider": "nonexistent"})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleCompletion_ModelRouting_CachesSecondRequest(t *testing.T) {
	h := newTestHandler(t, true)

	body := domain.CompletionRequest{
		Model: "echo4",
		Messages: []domain.Message{
			{Role: "user", Content: "What is the capital of France?"},
		},
	}

	first := postJSON(t, h.HandleCompletion, "/v1/completions", body, nil)
	require.Equal(t, http.StatusOK, first.Code)

	var firstResp domain.CompletionResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstResp))
	require.False(t, firstResp.Cached)

	second := postJSON(t, h.HandleCompletion, "/v1/completions", body, nil)
	require.Equal(t, http.StatusOK, second.Code)

	var secondResp domain.CompletionResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondResp))
	require.True(t, secondResp.Cached)
	require.InDelta(t, 1.0, secondResp.Similarity, 1e-6)
	require.Equal(t, firstResp.Content, secondResp.Content)
}

func TestHandleCompletion_Stream(t *testing.T) {
	h := newTestHandler(t, false)

	rec := postJSON(t, h.HandleCompletion, "/v1/completions", domain.CompletionRequest{
		Model: "echo4",
		Messages: []domain.Message{
			{Role: "user", Content: "Hello world"},
		},
		Stream: true,
	}, map[string]string{"X-Provider": "echo"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "data: ")
	require.Contains(t, rec.Body.String(), `"done":true`)
}

func TestHandleCompress_DefaultPipeline(t *testing.T) {
	h := newTestHandler(t, false)

	rec := postJSON(t, h.HandleCompress, "/v1/compress", CompressRequest{
		Text: "thank you for the information about the application",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp CompressResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, []string{compression.StrategySymbol, compression.StrategyAbbreviation}, resp.Pipeline)
	require.Less(t, resp.Stats.CompressedBytes, resp.Stats.OriginalBytes)
	require.Less(t, resp.Stats.Ratio, 1.0)
}

func TestHandleCompress_UnknownStrategy(t *testing.T) {
	h := newTestHandler(t, false)

	rec := postJSON(t, h.HandleCompress, "/v1/compress", CompressRequest{
		Text:     "anything",
		Pipeline: []string{"bogus"},
	}, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "unknown compression strategy")
}

func TestCompressDecompress_RoundTrip(t *testing.T) {
	h := newTestHandler(t, false)

	original := "could you explain the configuration, because the documentation is unclear"
	spec := []string{compression.StrategySymbol, compression.StrategyAbbreviation, compression.StrategyByteCompress}

	compressRec := postJSON(t, h.HandleCompress, "/v1/compress", CompressRequest{
		Text:     original,
		Pipeline: spec,
	}, nil)
	require.Equal(t, http.StatusOK, compressRec.Code)

	var compressed CompressResponse
	require.NoError(t, json.Unmarshal(compressRec.Body.Bytes(), &compressed))

	decompressRec := postJSON(t, h.HandleDecompress, "/v1/decompress", CompressRequest{
		Text:     compressed.Text,
		Pipeline: spec,
	}, nil)
	require.Equal(t, http.StatusOK, decompressRec.Code)

	var restored DecompressResponse
	require.NoError(t, json.Unmarshal(decompressRec.Body.Bytes(), &restored))
	require.True(t, restored.FullyReversible)
	require.Equal(t, original, restored.Text)
}

func TestHandleDecompress_LossyPipeline(t *testing.T) {
	h := newTestHandler(t, false)

	spec := []string{compression.StrategyVowelRemoval}

	compressRec := postJSON(t, h.HandleCompress, "/v1/compress", CompressRequest{
		Text:     "wonderful documentation",
		Pipeline: spec,
	}, nil)
	require.Equal(t, http.StatusOK, compressRec.Code)

	var compressed CompressResponse
	require.NoError(t, json.Unmarshal(compressRec.Body.Bytes(), &compressed))

	decompressRec := postJSON(t, h.HandleDecompress, "/v1/decompress", CompressRequest{
		Text:     compressed.Text,
		Pipeline: spec,
	}, nil)
	require.Equal(t, http.StatusOK, decompressRec.Code)

	var restored DecompressResponse
	require.NoError(t, json.Unmarshal(decompressRec.Body.Bytes(), &restored))
	require.False(t, restored.FullyReversible)
}

func TestHandleDecompress_MalformedByteStream(t *testing.T) {
	h := newTestHandler(t, false)

	rec := postJSON(t, h.HandleDecompress, "/v1/decompress", CompressRequest{
		Text:     "!!!not a byte stream!!!",
		Pipeline: []string{compression.StrategyByteCompress},
	}, nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleCacheStats(t *testing.T) {
	h := newTestHandler(t, true)

	rec := httptest.NewRecorder()
	h.HandleCacheStats(rec, httptest.NewRequest(http.MethodGet, "/v1/cache/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var stats domain.CacheStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Zero(t, stats.Size)
}

func TestHandleCacheStats_CacheDisabled(t *testing.T) {
	h := newTestHandler(t, false)

	rec := httptest.NewRecorder()
	h.HandleCacheStats(rec, httptest.NewRequest(http.MethodGet, "/v1/cache/stats", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleCacheStats_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, true)

	rec := httptest.NewRecorder()
	h.HandleCacheStats(rec, httptest.NewRequest(http.MethodPost, "/v1/cache/stats", nil))

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleCacheClear(t *testing.T) {
	h := newTestHandler(t, true)

	// Populate the cache through a routed completion.
	rec := postJSON(t, h.HandleCompletion, "/v1/completions", domain.CompletionRequest{
		Model: "echo4",
		Messages: []domain.Message{
			{Role: "user", Content: "seed the cache"},
		},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	clearRec := httptest.NewRecorder()
	h.HandleCacheClear(clearRec, httptest.NewRequest(http.MethodDelete, "/v1/cache", nil))

	require.Equal(t, http.StatusOK, clearRec.Code)

	var body map[string]int
	require.NoError(t, json.Unmarshal(clearRec.Body.Bytes(), &body))
	require.Equal(t, 1, body["removed"])
}

func TestHandleCacheClear_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, true)

	rec := httptest.NewRecorder()
	h.HandleCacheClear(rec, httptest.NewRequest(http.MethodGet, "/v1/cache", nil))

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
