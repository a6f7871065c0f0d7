package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/genres"
	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	registry *genres.Registry
}

func NewGenreHandler(registry *genres.Registry) *GenreHandler {
	return &GenreHandler{registry: registry}
}

// GenreSummary is the list view of a genre
type GenreSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type GenreListResponse struct {
	Genres []GenreSummary `json:"genres"`
	Count  int            `json:"count"`
}

func (h *GenreHandler) summaries(ids []string) GenreListResponse {
	out := GenreListResponse{Genres: make([]GenreSummary, 0, len(ids))}
	for _, id := range ids {
		g, err := h.registry.Resolve(id)
		if err != nil {
			continue
		}
		out.Genres = append(out.Genres, GenreSummary{ID: g.ID, Name: g.Name, Category: g.Category})
	}
	out.Count = len(out.Genres)
	return out
}

// List returns every genre sorted by id
func (h *GenreHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.summaries(h.registry.List()))
}

// Categories returns the genre ids grouped by category
func (h *GenreHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.registry.ByCategory(),
	})
}

// Search matches ?q= against genre ids, names, descriptions and instruments
func (h *GenreHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}
	resp := h.summaries(h.registry.Search(query))
	c.JSON(http.StatusOK, gin.H{
		"query":  query,
		"genres": resp.Genres,
		"count":  resp.Count,
	})
}

// Get returns the full parameter set of one genre
func (h *GenreHandler) Get(c *gin.Context) {
	id := c.Param("id")
	g, err := h.registry.Resolve(id)
	if errors.Is(err, genres.ErrGenreNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, g)
}
