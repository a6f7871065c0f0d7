package api

import (
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/api/handlers"
	apimiddleware "github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/api/middleware"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/cache"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/config"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/genres"
	"github.com/gin-gonic/gin"
)

// Dependencies are the long-lived services the router hands to its handlers
type Dependencies struct {
	Registry  *genres.Registry
	Cache     cache.Cache
	Providers handlers.SuggestionProviders
}

func SetupRouter(cfg *config.Config, deps Dependencies, version string) *gin.Engine {
	if deps.Registry == nil {
		deps.Registry = genres.Default()
	}
	if deps.Cache == nil {
		deps.Cache = cache.NoopCache{}
	}

	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	router.Use(apimiddleware.CORS())

	healthHandler := handlers.NewHealthHandler(deps.Registry, deps.Cache)
	router.GET("/health", healthHandler.HealthCheck)

	metricsHandler := handlers.NewMetricsHandler(version, deps.Registry, deps.Cache)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	genreGroup := router.Group("/api/genres")
	{
		genreHandler := handlers.NewGenreHandler(deps.Registry)
		genreGroup.GET("", genreHandler.List)
		genreGroup.GET("/categories", genreHandler.Categories)
		genreGroup.GET("/search", genreHandler.Search)
		genreGroup.GET("/:id", genreHandler.Get)
	}

	v1 := router.Group("/api/v1")
	{
		compositionHandler := handlers.NewCompositionHandler(cfg, deps.Registry, deps.Cache, deps.Providers)
		v1.POST("/compositions", compositionHandler.Generate)
		v1.POST("/compositions/midi", compositionHandler.GenerateMIDI)
	}

	return router
}
