package config_test

import (
	"os"
	"testing"

	"github.com/hearthlabs/ember/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should load config with defaults", func(t *testing.T) {
		// Clear environment
		os.Clearenv()

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify defaults
		require.Equal(t, 8080, cfg.Server.Port)
		require.Equal(t, 30, cfg.Server.ReadTimeout)
		require.Equal(t, 30, cfg.Server.WriteTimeout)
		require.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.BaseURL)
		require.Equal(t, 60, cfg.OpenAI.Timeout)
		require.Equal(t, 3, cfg.OpenAI.MaxRetries)
		require.Empty(t, cfg.OpenAI.APIKey)

		require.True(t, cfg.Cache.Enabled)
		require.Equal(t, "memory", cfg.Cache.Backend)
		require.InDelta(t, 0.90, cfg.Cache.SimilarityThreshold, 0.0001)
		require.Equal(t, 1000, cfg.Cache.MaxSize)
		require.Equal(t, 3600, cfg.Cache.TTLSeconds)
		require.Equal(t, 60, cfg.Cache.SweepSeconds)

		require.True(t, cfg.Compression.Enabled)
		require.Empty(t, cfg.Compression.PipelineNames)
		require.False(t, cfg.Compression.UseByteCompression)
		require.Equal(t, 4, cfg.Compression.MinWordLength)
	})

	t.Run("should load cache and compression settings from environment", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "false")
		t.Setenv("CACHE_BACKEND", "redis")
		t.Setenv("CACHE_SIMILARITY_THRESHOLD", "0.95")
		t.Setenv("CACHE_MAX_SIZE", "50")
		t.Setenv("CACHE_TTL_SECONDS", "0")
		t.Setenv("COMPRESSION_PIPELINE", "symbol,vowelremoval")
		t.Setenv("COMPRESSION_USE_BYTE", "true")

		cfg := config.Load()

		require.False(t, cfg.Cache.Enabled)
		require.Equal(t, "redis", cfg.Cache.Backend)
		require.InDelta(t, 0.95, cfg.Cache.SimilarityThreshold, 0.0001)
		require.Equal(t, 50, cfg.Cache.MaxSize)
		require.Zero(t, cfg.Cache.TTLSeconds)
		require.Equal(t, []string{"symbol", "vowelremoval"}, cfg.Compression.PipelineNames)
		require.True(t, cfg.Compression.UseByteCompression)
	})

	t.Run("should load config from environment variables", func(t *testing.T) {
		// Set environment variables using t.Setenv for automatic cleanup
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("SERVER_READ_TIMEOUT", "60")
		t.Setenv("SERVER_WRITE_TIMEOUT", "60")
		t.Setenv("OPENAI_API_KEY", "sk-test-key")
		t.Setenv("OPENAI_BASE_URL", "https://test.openai.com")
		t.Setenv("OPENAI_TIMEOUT", "120")
		t.Setenv("OPENAI_MAX_RETRIES", "5")

		cfg := config.Load()

		require.NotNil(t, cfg)

		// Verify loaded values
		require.Equal(t, 9000, cfg.Server.Port)
		require.Equal(t, 60, cfg.Server.ReadTimeout)
		require.Equal(t, 60, cfg.Server.WriteTimeout)
		require.Equal(t, "sk-test-key", cfg.OpenAI.APIKey)
		require.Equal(t, "https://test.openai.com", cfg.OpenAI.BaseURL)
		require.Equal(t, 120, cfg.OpenAI.Timeout)
		require.Equal(t, 5, cfg.OpenAI.MaxRetries)
	})
}
