package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ENVIRONMENT", "PORT", "OPENAI_API_KEY", "GEMINI_API_KEY", "SUGGESTION_PROVIDER",
		"SUGGESTION_MODEL", "SENTRY_DSN", "REDIS_URL", "CACHE_TTL", "DEFAULT_BARS", "MAX_BARS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 32, cfg.DefaultBars)
	assert.Equal(t, 256, cfg.MaxBars)
	assert.False(t, cfg.CacheEnabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("SUGGESTION_PROVIDER", "gemini")
	t.Setenv("SUGGESTION_MODEL", "gemini-2.5-flash")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("DEFAULT_BARS", "16")
	t.Setenv("MAX_BARS", "64")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "gemini", cfg.SuggestionProvider)
	assert.Equal(t, "gemini-2.5-flash", cfg.SuggestionModel)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 16, cfg.DefaultBars)
	assert.Equal(t, 64, cfg.MaxBars)
	assert.True(t, cfg.CacheEnabled())
	assert.True(t, cfg.IsProduction())
}

func TestLoad_MalformedNumbersUseDefaults(t *testing.T) {
	tests := []struct {
		name string
		bars string
		ttl  string
	}{
		{name: "not a number", bars: "lots", ttl: "forever"},
		{name: "negative", bars: "-4", ttl: "-1m"},
		{name: "zero", bars: "0", ttl: "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DEFAULT_BARS", tt.bars)
			t.Setenv("MAX_BARS", tt.bars)
			t.Setenv("CACHE_TTL", tt.ttl)

			cfg := Load()
			assert.Equal(t, 32, cfg.DefaultBars)
			assert.Equal(t, 256, cfg.MaxBars)
			assert.Equal(t, time.Hour, cfg.CacheTTL)
		})
	}
}
