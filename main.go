package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/api"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/cache"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/config"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/genres"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/llm"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	sentryFlushTimeout  = 2 * time.Second
	cacheConnectTimeout = 5 * time.Second
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "genremidi@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			EnableLogs:       true,
			Debug:            !cfg.IsProduction(),
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("Sentry not configured (SENTRY_DSN not set)")
	}

	log.Printf("Loaded %d genres in %d categories", genres.Count(), len(genres.Categories()))

	store := connectCache(cfg)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	providers := llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey)
	if !providers.Available() {
		log.Println("No LLM API keys configured, suggestion-enhanced compositions are disabled")
	}

	router := api.SetupRouter(cfg, api.Dependencies{
		Registry:  genres.Default(),
		Cache:     store,
		Providers: providers,
	}, GetVersion())

	log.Printf("Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
}

// connectCache falls back to no caching when Redis is unset or unreachable
func connectCache(cfg *config.Config) cache.Cache {
	if !cfg.CacheEnabled() {
		log.Println("Composition cache disabled (REDIS_URL not set)")
		return cache.NoopCache{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheConnectTimeout)
	defer cancel()

	store, err := cache.Connect(ctx, cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		sentry.CaptureException(err)
		log.Printf("Composition cache unavailable, continuing without it: %v", err)
		return cache.NoopCache{}
	}
	log.Printf("Composition cache connected (ttl: %s)", cfg.CacheTTL)
	return store
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[strings.ToLower(k)] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
