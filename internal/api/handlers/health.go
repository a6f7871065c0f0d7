package handlers

import (
	"net/http"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/cache"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/genres"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	registry *genres.Registry
	store    cache.Cache
}

func NewHealthHandler(registry *genres.Registry, store cache.Cache) *HealthHandler {
	return &HealthHandler{registry: registry, store: store}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"genres": h.registry.Count(),
		"cache":  h.store.Stats().Backend,
	})
}
