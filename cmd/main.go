package main

import (
	"context"
	"fmt"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/hearthlabs/ember/internal/cache"
	rediscache "github.com/hearthlabs/ember/internal/cache/redis"
	"github.com/hearthlabs/ember/internal/compression"
	"github.com/hearthlabs/ember/internal/config"
	"github.com/hearthlabs/ember/internal/domain"
	embeddingopenai "github.com/hearthlabs/ember/internal/embedding/openai"
	"github.com/hearthlabs/ember/internal/http"
	"github.com/hearthlabs/ember/internal/http/middleware"
	"github.com/hearthlabs/ember/internal/observability"
	"github.com/hearthlabs/ember/internal/provider/echo"
	"github.com/hearthlabs/ember/internal/provider/openai"
	"github.com/hearthlabs/ember/internal/provider/registry"
)

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *http.Server) {
		if err := server.Start(); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

//nolint:funlen // Wiring is long but linear.
func buildContainer() *dig.Container {
	container := dig.New()

	provide := func(constructor interface{}) {
		if err := container.Provide(constructor); err != nil {
			log.Fatalf("Failed to provide dependency: %v", err)
		}
	}

	// Configuration
	provide(config.Load)
	provide(config.ParseDependenciesConfig)

	// Observability
	provide(observability.InitLogger)
	provide(func() domain.EventPublisher {
		return observability.NewEventBus()
	})

	// Compression
	provide(func(cfg *config.CompressionConfig) *compression.Registry {
		reg := compression.NewRegistry()
		if cfg.MinWordLength > 0 {
			reg.Replace(compression.NewVowelRemoval(cfg.MinWordLength))
		}
		return reg
	})
	provide(func(cfg *config.CompressionConfig, reg *compression.Registry) (*compression.Pipeline, error) {
		if !cfg.Enabled {
			return nil, nil
		}
		if len(cfg.PipelineNames) > 0 {
			return compression.NewPipeline(reg, cfg.PipelineNames...)
		}
		return compression.DefaultPipeline(reg, cfg.UseByteCompression)
	})

	// Embedding generator (nil when OpenAI is not configured; the cache is
	// then disabled and requests pass straight through).
	provide(func(cfg *embeddingopenai.Config) *embeddingopenai.Generator {
		if cfg.APIKey == "" {
			return nil
		}
		generator, err := embeddingopenai.NewGenerator(*cfg)
		if err != nil {
			log.Printf("Embedding generator unavailable: %v", err)
			return nil
		}
		return generator
	})

	// Semantic cache
	provide(func(
		cfg *config.CacheConfig,
		generator *embeddingopenai.Generator,
		logger *zap.Logger,
	) (domain.SemanticCache, error) {
		if !cfg.Enabled || generator == nil {
			return nil, nil
		}

		store, err := buildVectorStore(cfg, generator.Dimension(), logger)
		if err != nil {
			return nil, err
		}

		return domain.NewSemanticCacheService(generator, store), nil
	})

	// Provider Registry
	provide(func() domain.ProviderRegistry {
		return registry.NewRegistry()
	})

	// OpenAI Provider (nil when no API key is configured; the echo provider
	// remains available for development).
	provide(func(cfg *openai.Config) *openai.Provider {
		if cfg.APIKey == "" {
			return nil
		}
		provider, err := openai.NewProvider(*cfg)
		if err != nil {
			log.Printf("OpenAI provider unavailable: %v", err)
			return nil
		}
		return provider
	})

	// Pricing and cost calculation
	provide(func() domain.PricingRegistry {
		return domain.NewInMemoryPricingRegistry()
	})
	provide(func(pricing domain.PricingRegistry) domain.CostCalculator {
		return domain.NewStandardCostCalculator(pricing)
	})

	// Register providers with registry (invoked for side effects)
	if err := container.Invoke(func(
		reg domain.ProviderRegistry,
		pricing domain.PricingRegistry,
		openaiProvider *openai.Provider,
	) error {
		ctx := context.Background()

		echoProvider := echo.NewProvider()
		if err := reg.Register(ctx, echoProvider); err != nil {
			return fmt.Errorf("failed to register echo provider: %w", err)
		}
		if err := echo.RegisterPricing(ctx, pricing); err != nil {
			return err
		}

		if openaiProvider != nil {
			if err := reg.Register(ctx, openaiProvider); err != nil {
				return fmt.Errorf("failed to register OpenAI provider: %w", err)
			}
			if err := openai.RegisterPricing(ctx, pricing); err != nil {
				return err
			}
		}

		return nil
	}); err != nil {
		log.Fatalf("Failed to register providers: %v", err)
	}

	// Domain Services
	provide(domain.NewGatewayService)

	// HTTP Layer
	provide(func(corsCfg *config.CORSConfig) middleware.Middleware {
		return middleware.Chain(
			middleware.Trace(),
			middleware.CORS(corsCfg),
		)
	})
	provide(http.NewHandler)
	provide(http.NewServer)

	return container
}

// buildVectorStore selects the cache backend from configuration.
func buildVectorStore(cfg *config.CacheConfig, dimension int, logger *zap.Logger) (domain.VectorStore, error) {
	switch cfg.Backend {
	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		return rediscache.NewVectorSearch(
			client,
			cfg.RedisIndexName,
			dimension,
			cfg.SimilarityThreshold,
			time.Duration(cfg.TTLSeconds)*time.Second,
		)
	case "memory", "":
		return cache.NewStore(cache.Config{
			SimilarityThreshold: cfg.SimilarityThreshold,
			MaxSize:             cfg.MaxSize,
			Dimension:           dimension,
			TTL:                 time.Duration(cfg.TTLSeconds) * time.Second,
			SweepInterval:       time.Duration(cfg.SweepSeconds) * time.Second,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
	}
}
