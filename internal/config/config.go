package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	// Environment
	Environment string
	Port        string

	// LLM API Keys for suggestion providers
	OpenAIAPIKey string
	GeminiAPIKey string

	// Default provider and model for suggestion-enhanced compositions.
	// An empty provider is inferred from the model name.
	SuggestionProvider string
	SuggestionModel    string

	// Observability
	SentryDSN string

	// Composition cache. An empty RedisURL disables caching.
	RedisURL string
	CacheTTL time.Duration

	// Request limits
	DefaultBars int
	MaxBars     int
}

func Load() *Config {
	return &Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		Port:               getEnv("PORT", "8080"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		SuggestionProvider: getEnv("SUGGESTION_PROVIDER", ""),
		SuggestionModel:    getEnv("SUGGESTION_MODEL", ""),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		CacheTTL:           getEnvDuration("CACHE_TTL", time.Hour),
		DefaultBars:        getEnvInt("DEFAULT_BARS", 32),
		MaxBars:            getEnvInt("MAX_BARS", 256),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt falls back to the default for missing, malformed or non-positive values
func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CacheEnabled reports whether a Redis URL was configured
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}
