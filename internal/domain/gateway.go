package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/hearthlabs/ember/internal/compression"
	"github.com/hearthlabs/ember/internal/metrics"
	"github.com/hearthlabs/ember/internal/observability"
)

// GatewayService orchestrates requests to providers. For non-streaming
// requests it optionally compresses the prompt before transmission and
// consults the semantic cache before calling the provider.
type GatewayService struct {
	registry       ProviderRegistry
	costCalculator CostCalculator
	cache          SemanticCache
	pipeline       *compression.Pipeline
	events         EventPublisher
}

// NewGatewayService creates a new gateway service (DI constructor). Both
// cache and pipeline may be nil, disabling the respective optimization.
func NewGatewayService(
	registry ProviderRegistry,
	costCalculator CostCalculator,
	cache SemanticCache,
	pipeline *compression.Pipeline,
	events EventPublisher,
) *GatewayService {
	return &GatewayService{
		registry:       registry,
		costCalculator: costCalculator,
		cache:          cache,
		pipeline:       pipeline,
		events:         events,
	}
}

// Complete handles a completion request against an explicitly named provider.
// It bypasses cache and compression.
func (g *GatewayService) Complete(
	ctx context.Context,
	providerName string,
	req *CompletionRequest,
) (*CompletionResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if providerName == "" {
		return nil, errors.New("provider name cannot be empty")
	}

	provider, err := g.registry.Get(ctx, providerName)
	if err != nil {
		return nil, fmt.Errorf("provider not found: %w", err)
	}

	response, err := provider.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	cost, _ := g.costCalculator.Calculate(ctx, response.Model, response.Usage)
	response.Usage.Cost = cost

	return response, nil
}

// Stream handles streaming completion requests against an explicitly named
// provider.
func (g *GatewayService) Stream(
	ctx context.Context,
	providerName string,
	req *CompletionRequest,
) (<-chan StreamChunk, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if providerName == "" {
		return nil, errors.New("provider name cannot be empty")
	}

	provider, err := g.registry.Get(ctx, providerName)
	if err != nil {
		return nil, fmt.Errorf("provider not found: %w", err)
	}

	chunks, err := provider.Stream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to stream from provider: %w", err)
	}
	return chunks, nil
}

// CompleteByModel handles a completion request with automatic provider
// routing, prompt compression, and semantic caching.
func (g *GatewayService) CompleteByModel(
	ctx context.Context,
	req *CompletionRequest,
) (*CompletionResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if req.Model == "" {
		return nil, errors.New("model cannot be empty")
	}

	logger := observability.FromContext(ctx)

	// Shrink the prompt before it goes anywhere: the compressed text is what
	// gets embedded, cached, and transmitted to the provider.
	working := req
	var info *CompressionInfo
	if g.pipeline != nil && !req.Stream {
		working, info = g.compressRequest(req)
		logger.Info("prompt compressed",
			observability.Int("original_bytes", info.OriginalBytes),
			observability.Int("prompt_bytes", info.PromptBytes))
	}

	// Check cache for non-streaming requests.
	switch {
	case req.Stream:
		logger.Info("cache bypassed for streaming request")
	case g.cache == nil:
		logger.Info("cache is disabled (nil cache)")
	default:
		cached, cacheErr := g.cache.Get(ctx, working)
		if cacheErr != nil && !errors.Is(cacheErr, ErrCacheMiss) {
			// Fail-open: a broken cache or embedding step never fails the
			// request.
			logger.Warn("cache get failed, continuing without cache",
				observability.Error(cacheErr))
		}
		if cached != nil {
			logger.Info("cache HIT - returning cached response",
				observability.Float64("similarity_score", cached.SimilarityScore),
				observability.String("cached_model", cached.Response.Model))
			g.publish(ctx, "cache_hit", map[string]interface{}{
				"model":      req.Model,
				"similarity": cached.SimilarityScore,
				"saved_cost": cached.Response.Usage.Cost,
			})

			response := *cached.Response
			response.Cached = true
			response.Similarity = cached.SimilarityScore
			response.Compression = info
			return &response, nil
		}
		logger.Info("cache MISS - calling provider")
		g.publish(ctx, "cache_miss", map[string]interface{}{
			"model": req.Model,
		})
	}

	provider, err := g.registry.GetByModel(ctx, req.Model)
	if err != nil {
		return nil, fmt.Errorf("provider routing failed: %w", err)
	}

	response, err := provider.Complete(ctx, working)
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	cost, _ := g.costCalculator.Calculate(ctx, response.Model, response.Usage)
	response.Usage.Cost = cost
	response.Compression = info

	// Store in cache (only for non-streaming requests).
	if !req.Stream && g.cache != nil {
		if setErr := g.cache.Set(ctx, working, response); setErr != nil {
			logger.Warn("failed to store in cache",
				observability.Error(setErr))
		}
	}

	return response, nil
}

// StreamByModel handles streaming completion requests with automatic provider
// routing. Streaming bypasses cache and compression.
func (g *GatewayService) StreamByModel(
	ctx context.Context,
	req *CompletionRequest,
) (<-chan StreamChunk, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if req.Model == "" {
		return nil, errors.New("model cannot be empty")
	}

	provider, err := g.registry.GetByModel(ctx, req.Model)
	if err != nil {
		return nil, fmt.Errorf("provider routing failed: %w", err)
	}

	chunks, err := provider.Stream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to stream from provider: %w", err)
	}
	return chunks, nil
}

// compressRequest returns a copy of the request with every message content
// passed through the compression pipeline, plus the resulting byte and
// approximate token accounting.
func (g *GatewayService) compressRequest(req *CompletionRequest) (*CompletionRequest, *CompressionInfo) {
	compressed := *req
	compressed.Messages = make([]Message, len(req.Messages))

	info := &CompressionInfo{
		Pipeline:       g.pipeline.Names(),
		OriginalBytes:  0,
		PromptBytes:    0,
		OriginalTokens: 0,
		PromptTokens:   0,
	}

	for i, msg := range req.Messages {
		out := g.pipeline.Compress(msg.Content)
		stats := compression.MeasureStats(msg.Content, out)

		info.OriginalBytes += stats.OriginalBytes
		info.PromptBytes += stats.CompressedBytes
		info.OriginalTokens += stats.OriginalTokens
		info.PromptTokens += stats.CompressedTokens

		compressed.Messages[i] = Message{Role: msg.Role, Content: out}
	}

	if info.OriginalBytes > 0 {
		metrics.CompressionRatio.Observe(float64(info.PromptBytes) / float64(info.OriginalBytes))
	}
	if saved := info.OriginalTokens - info.PromptTokens; saved > 0 {
		metrics.TokensSaved.Add(float64(saved))
	}

	return &compressed, info
}

// publish forwards an event when a publisher is configured.
func (g *GatewayService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if g.events == nil {
		return
	}
	g.events.Publish(ctx, eventType, data)
}
