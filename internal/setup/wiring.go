package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/cache"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/config"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/loop"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/redis"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/task"
	"github.com/povarna/generative-ai-agents/loop-agent/internal/validator"
)

type Config struct {
	AWSRegion       string
	ClaudeModelID   string
	OpenAIKey       string
	OpenAIModelID   string
	DefaultProvider string
	CacheProvider   string
	CacheMaxSize    int
	CacheTTL        time.Duration
	RedisAddr       string
	RedisPassword   string
}

type Dependencies struct {
	Loop   *loop.ValidationLoop
	Tasks  *task.Set
	Cache  cache.Cache
	Logger *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:   getEnv("CLAUDE_MODEL_ID", ""),
		OpenAIKey:       getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID:   getEnv("OPEN_AI_MODEL_ID", ""),
		DefaultProvider: getEnv("DEFAULT_LLM_PROVIDER", "bedrock"),
		CacheProvider:   getEnv("CACHE_PROVIDER", "memory"),
		CacheMaxSize:    getEnvInt("CACHE_MAX_SIZE", cache.DefaultMaxSize),
		CacheTTL:        getEnvDuration("CACHE_TTL", cache.DefaultTTL),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
	}
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	llmClient, err := createLLMClient(ctx, cfg.DefaultProvider, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	validationCache, err := createCache(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create validation cache: %w", err)
	}

	// Load task catalog from YAML
	tasksConfig, err := config.LoadTasksConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks config: %w", err)
	}

	// Build tasks and their validator trees
	pool := task.NewPool(validator.Builtin(), validationCache, logger)
	tasks, err := pool.BuildFromConfig(tasksConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build tasks from config: %w", err)
	}

	// Retry loop
	validationLoop := loop.NewValidationLoop(llmClient, loop.Config{
		MaxRetries:  tasksConfig.Loop.MaxRetries,
		MaxTokens:   tasksConfig.Defaults.MaxTokens,
		Temperature: tasksConfig.Defaults.Temperature,
		Retry:       tasksConfig.Defaults.Retry,
	}, logger)

	return &Dependencies{
		Loop:   validationLoop,
		Tasks:  tasks,
		Cache:  validationCache,
		Logger: logger,
	}, nil
}

func createLLMClient(ctx context.Context, provider string, cfg *Config) (llm.LLMClient, error) {
	switch provider {
	case "bedrock":
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	case "openai":
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
	default:
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	}
}

func createCache(ctx context.Context, cfg *Config, logger *zerolog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "redis":
		client, err := redis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, 5)
		if err != nil {
			return nil, err
		}
		return cache.NewRedisCache(client, "validation", cfg.CacheTTL, logger), nil
	default:
		return cache.NewMemoryCache(cfg.CacheMaxSize, cfg.CacheTTL), nil
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}
