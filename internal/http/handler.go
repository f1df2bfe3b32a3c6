package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/hearthlabs/ember/internal/compression"
	"github.com/hearthlabs/ember/internal/config"
	"github.com/hearthlabs/ember/internal/domain"
	"github.com/hearthlabs/ember/internal/observability"
)

// Handler handles HTTP requests.
type Handler struct {
	gateway    *domain.GatewayService
	cache      domain.SemanticCache
	strategies *compression.Registry
	compCfg    *config.CompressionConfig
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(
	gateway *domain.GatewayService,
	cache domain.SemanticCache,
	strategies *compression.Registry,
	compCfg *config.CompressionConfig,
) *Handler {
	return &Handler{
		gateway:    gateway,
		cache:      cache,
		strategies: strategies,
		compCfg:    compCfg,
	}
}

// HandleCompletion processes completion requests. Requests with an X-Provider
// header go straight to that provider; without it the gateway routes by model
// with compression and caching applied.
func (h *Handler) HandleCompletion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	provider := r.Header.Get("X-Provider")
	if provider != "" {
		ctx = observability.WithProvider(ctx, provider)
	}

	var req domain.CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	ctx = observability.WithModel(ctx, req.Model)

	logger := observability.FromContext(ctx)
	logger.Info("completion request received",
		zap.String("provider", provider),
		zap.String("model", req.Model),
		zap.Bool("stream", req.Stream),
	)

	if req.Stream {
		h.handleStream(ctx, w, provider, &req)
		return
	}

	var (
		response *domain.CompletionResponse
		err      error
	)
	if provider != "" {
		response, err = h.gateway.Complete(ctx, provider, &req)
	} else {
		response, err = h.gateway.CompleteByModel(ctx, &req)
	}
	if err != nil {
		logger.Error("completion failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Info("completion succeeded",
		zap.Int("tokens", response.Usage.TotalTokens),
		zap.Float64("cost", response.Usage.Cost),
		zap.Bool("cached", response.Cached),
	)

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) handleStream(
	ctx context.Context,
	w http.ResponseWriter,
	provider string,
	req *domain.CompletionRequest,
) {
	logger := observability.FromContext(ctx)
	logger.Info("stream request started")

	// Set headers for SSE.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var (
		chunks <-chan domain.StreamChunk
		err    error
	)
	if provider != "" {
		chunks, err = h.gateway.Stream(ctx, provider, req)
	} else {
		chunks, err = h.gateway.StreamByModel(ctx, req)
	}
	if err != nil {
		logger.Error("stream failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.Error("streaming not supported")
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	for chunk := range chunks {
		if chunk.Error != nil {
			logger.Error("stream chunk error", zap.Error(chunk.Error))
			fmt.Fprintf(w, "event: error\ndata: %s\n\n", chunk.Error.Error())
			flusher.Flush()
			return
		}

		data, _ := json.Marshal(chunk)
		fmt.Fprintf(w, "data: %s\n\n", string(data))
		flusher.Flush()

		if chunk.Done {
			logger.Info("stream completed")
			break
		}
	}
}

// CompressRequest is the body of compress and decompress requests.
type CompressRequest struct {
	Text               string   `json:"text"`
	Pipeline           []string `json:"pipeline,omitempty"`
	UseByteCompression bool     `json:"use_byte_compression,omitempty"`
}

// CompressResponse is the result of a compress call.
type CompressResponse struct {
	Text     string            `json:"text"`
	Pipeline []string          `json:"pipeline"`
	Stats    compression.Stats `json:"stats"`
}

// DecompressResponse is the result of a decompress call.
type DecompressResponse struct {
	Text            string   `json:"text"`
	Pipeline        []string `json:"pipeline"`
	FullyReversible bool     `json:"fully_reversible"`
}

// HandleCompress compresses text with the requested pipeline, or the default
// pipeline when none is named.
func (h *Handler) HandleCompress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, pipeline, ok := h.decodeCompressRequest(w, r)
	if !ok {
		return
	}

	compressed := pipeline.Compress(req.Text)

	writeJSON(w, http.StatusOK, CompressResponse{
		Text:     compressed,
		Pipeline: pipeline.Names(),
		Stats:    compression.MeasureStats(req.Text, compressed),
	})
}

// HandleDecompress reverses a compression run. The pipeline spec must match
// the one used to compress; callers that used the implicit default can omit
// it.
func (h *Handler) HandleDecompress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, pipeline, ok := h.decodeCompressRequest(w, r)
	if !ok {
		return
	}

	result, err := pipeline.Decompress(req.Text)
	if err != nil {
		if errors.Is(err, compression.ErrMalformedByteStream) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, DecompressResponse{
		Text:            result.Text,
		Pipeline:        pipeline.Names(),
		FullyReversible: result.FullyReversible,
	})
}

// HandleCacheStats reports semantic cache metrics.
func (h *Handler) HandleCacheStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.cache == nil {
		http.Error(w, "cache is disabled", http.StatusNotFound)
		return
	}

	stats, err := h.cache.Stats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// HandleCacheClear removes every cached entry.
func (h *Handler) HandleCacheClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.cache == nil {
		http.Error(w, "cache is disabled", http.StatusNotFound)
		return
	}

	removed, err := h.cache.Clear(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Error("cache clear failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// decodeCompressRequest parses the request body and resolves its pipeline
// spec against the strategy registry.
func (h *Handler) decodeCompressRequest(
	w http.ResponseWriter,
	r *http.Request,
) (*CompressRequest, *compression.Pipeline, bool) {
	var req CompressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return nil, nil, false
	}

	var (
		pipeline *compression.Pipeline
		err      error
	)
	if len(req.Pipeline) > 0 {
		names := req.Pipeline
		if req.UseByteCompression {
			names = append(append([]string(nil), names...), compression.StrategyByteCompress)
		}
		pipeline, err = compression.NewPipeline(h.strategies, names...)
	} else {
		pipeline, err = compression.DefaultPipeline(h.strategies, req.UseByteCompression || h.compCfg.UseByteCompression)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}

	return &req, pipeline, true
}

// writeJSON encodes a JSON response body.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Already written status, can't change it, just log.
		return
	}
}
