package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	embeddingopenai "github.com/hearthlabs/ember/internal/embedding/openai"
	"github.com/hearthlabs/ember/internal/provider/openai"
)

// Config represents the gateway configuration.
type Config struct {
	Server      ServerConfig
	CORS        CORSConfig
	Cache       CacheConfig
	Compression CompressionConfig
	OpenAI      openai.Config
	Embedding   embeddingopenai.Config
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"30"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// CacheConfig contains semantic cache settings.
type CacheConfig struct {
	Enabled             bool    `env:"CACHE_ENABLED"              envDefault:"true"`
	Backend             string  `env:"CACHE_BACKEND"              envDefault:"memory"` // memory or redis
	SimilarityThreshold float64 `env:"CACHE_SIMILARITY_THRESHOLD" envDefault:"0.90"`
	MaxSize             int     `env:"CACHE_MAX_SIZE"             envDefault:"1000"`
	TTLSeconds          int     `env:"CACHE_TTL_SECONDS"          envDefault:"3600"` // 0 disables expiry
	SweepSeconds        int     `env:"CACHE_SWEEP_SECONDS"        envDefault:"60"`   // 0 disables the sweep
	RedisAddr           string  `env:"CACHE_REDIS_ADDR"           envDefault:"localhost:6379"`
	RedisIndexName      string  `env:"CACHE_REDIS_INDEX"          envDefault:"ember_cache_idx"`
}

// CompressionConfig contains prompt compression settings.
type CompressionConfig struct {
	Enabled            bool     `env:"COMPRESSION_ENABLED"         envDefault:"true"`
	PipelineNames      []string `env:"COMPRESSION_PIPELINE"        envSeparator:","` // empty selects the default pipeline
	UseByteCompression bool     `env:"COMPRESSION_USE_BYTE"        envDefault:"false"`
	MinWordLength      int      `env:"COMPRESSION_MIN_WORD_LENGTH" envDefault:"4"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*ServerConfig
	*CORSConfig
	*CacheConfig
	*CompressionConfig
	OpenAI    *openai.Config
	Embedding *embeddingopenai.Config
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Server,
		&cfg.CORS,
		&cfg.Cache,
		&cfg.Compression,
		&cfg.OpenAI,
		&cfg.Embedding,
	}
}
