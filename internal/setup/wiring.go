package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/povarna/ai-output-validator/internal/config"
	"github.com/povarna/ai-output-validator/internal/llm"
	"github.com/povarna/ai-output-validator/internal/llm/bedrock"
	"github.com/povarna/ai-output-validator/internal/llm/gpt"
	"github.com/povarna/ai-output-validator/internal/pipeline"
	"github.com/povarna/ai-output-validator/internal/repository"
	"github.com/povarna/ai-output-validator/internal/schema"
	"github.com/povarna/ai-output-validator/internal/semantic"
	"github.com/povarna/ai-output-validator/internal/structural"
	"github.com/rs/zerolog"
)

const (
	ServiceName    = "ai-output-validator"
	ServiceVersion = "0.1.0"
)

type Config struct {
	Port            string
	LogLevel        string
	LLMProvider     string
	AWSRegion       string
	BedrockModelID  string
	OpenAIKey       string
	OpenAIModelID   string
	SemanticEnabled bool
	StrictFields    bool
	AuthEnabled     bool
	APIKey          string
	SchemaBackend   string
	SchemaDir       string
	Postgres        repository.PostgresConfig
	RedisAddr       string
	RedisPassword   string
	RedisCacheTTL   time.Duration
}

type Dependencies struct {
	Pipeline        *pipeline.Pipeline
	Store           repository.Store
	Compiler        *schema.Compiler
	SemanticEnabled bool
	Provider        string
	Logger          *zerolog.Logger

	closers []func()
}

// Close releases pooled connections held by the wired dependencies.
func (d *Dependencies) Close() {
	for _, closeFn := range d.closers {
		closeFn()
	}
}

func LoadConfig() *Config {
	return &Config{
		Port:            getEnv("PORT", "8090"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LLMProvider:     getEnv("LLM_PROVIDER", "bedrock"),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		BedrockModelID:  getEnv("BEDROCK_MODEL_ID", ""),
		OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModelID:   getEnv("OPENAI_MODEL_ID", ""),
		SemanticEnabled: getEnvBool("SEMANTIC_ENABLED", true),
		StrictFields:    getEnvBool("STRICT_FIELDS", false),
		AuthEnabled:     getEnvBool("AUTH_ENABLED", false),
		APIKey:          getEnv("API_KEY", ""),
		SchemaBackend:   getEnv("SCHEMA_BACKEND", "file"),
		SchemaDir:       getEnv("SCHEMA_DIR", "data/schemas"),
		Postgres: repository.PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "validator"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisCacheTTL: getEnvDuration("REDIS_CACHE_TTL", 5*time.Minute),
	}
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	validatorConfig, err := config.LoadValidatorConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load validator config: %w", err)
	}

	compiler := schema.NewCompiler(schema.NewNameChecker(validatorConfig.NameHeuristic))
	validator := structural.NewValidator(cfg.StrictFields)

	// The semantic stage is optional: a missing provider downgrades the
	// service to structural validation instead of refusing to start.
	var assessor *semantic.Assessor
	semanticEnabled := cfg.SemanticEnabled
	if semanticEnabled {
		llmClient, err := createLLMClient(ctx, cfg.LLMProvider, cfg)
		if err != nil {
			logger.Warn().Err(err).Str("provider", cfg.LLMProvider).
				Msg("LLM client unavailable, semantic validation disabled")
			semanticEnabled = false
		} else {
			assessor, err = semantic.NewAssessor(validatorConfig, llmClient, logger)
			if err != nil {
				return nil, fmt.Errorf("failed to create semantic assessor: %w", err)
			}
		}
	}

	deps := &Dependencies{
		Compiler:        compiler,
		SemanticEnabled: semanticEnabled,
		Provider:        cfg.LLMProvider,
		Logger:          logger,
	}

	store, err := createStore(ctx, cfg, deps)
	if err != nil {
		return nil, err
	}

	if cfg.RedisAddr != "" {
		client, err := repository.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, 3)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, schema cache disabled")
		} else {
			store = repository.NewCachedStore(store, client, cfg.RedisCacheTTL)
			deps.closers = append(deps.closers, func() { client.Close() })
		}
	}

	deps.Store = store
	deps.Pipeline = pipeline.NewPipeline(compiler, validator, assessor, semanticEnabled, logger)

	return deps, nil
}

func createStore(ctx context.Context, cfg *Config, deps *Dependencies) (repository.Store, error) {
	switch cfg.SchemaBackend {
	case "postgres":
		store, err := repository.NewPostgresStore(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres schema store: %w", err)
		}
		if err := store.Init(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to prepare postgres schema store: %w", err)
		}
		deps.closers = append(deps.closers, store.Close)
		return store, nil
	case "file":
		store, err := repository.NewFileStore(cfg.SchemaDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create file schema store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown schema backend %q (expected 'file' or 'postgres')", cfg.SchemaBackend)
	}
}

func createLLMClient(ctx context.Context, provider string, cfg *Config) (llm.Client, error) {
	switch provider {
	case "openai":
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
	case "bedrock", "":
		if cfg.BedrockModelID == "" {
			return nil, fmt.Errorf("BEDROCK_MODEL_ID is not set")
		}
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.BedrockModelID)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q (expected 'bedrock' or 'openai')", provider)
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}
