package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/cache"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/composer"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/config"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/genres"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/llm"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/logger"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/metrics"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/midifile"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/models"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const contentTypeMIDI = "audio/midi"

// SuggestionProviders resolves the LLM provider for a request
type SuggestionProviders interface {
	Available() bool
	GetProvider(ctx context.Context, model, providerName string) (llm.Provider, error)
}

type CompositionHandler struct {
	cfg       *config.Config
	registry  *genres.Registry
	store     cache.Cache
	providers SuggestionProviders
	metrics   *metrics.SentryMetrics
}

func NewCompositionHandler(
	cfg *config.Config, registry *genres.Registry, store cache.Cache, providers SuggestionProviders,
) *CompositionHandler {
	return &CompositionHandler{
		cfg:       cfg,
		registry:  registry,
		store:     store,
		providers: providers,
		metrics:   metrics.NewSentryMetrics(),
	}
}

// requestError carries the HTTP status a failed composition maps to
type requestError struct {
	status int
	err    error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(format string, args ...any) error {
	return &requestError{status: http.StatusBadRequest, err: fmt.Errorf(format, args...)}
}

// Generate renders a composition and returns it as JSON
func (h *CompositionHandler) Generate(c *gin.Context) {
	resp, _, err := h.compose(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GenerateMIDI renders a composition and returns it as a Standard MIDI File
func (h *CompositionHandler) GenerateMIDI(c *gin.Context) {
	resp, comp, err := h.compose(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := midifile.Write(&buf, comp); err != nil {
		logger.Error("MIDI encoding failed", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode MIDI"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s.mid"`, resp.Genre, resp.ID))
	c.Header("X-Composition-ID", resp.ID)
	c.Data(http.StatusOK, contentTypeMIDI, buf.Bytes())
}

func (h *CompositionHandler) compose(c *gin.Context) (*models.CompositionResponse, *composer.Composition, error) {
	var req models.CompositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, nil, badRequest("%s", err.Error())
	}
	c.Set("genre", req.Genre)

	bars := req.Bars
	if bars == 0 {
		bars = h.cfg.DefaultBars
	}
	if bars < 1 || bars > h.cfg.MaxBars {
		return nil, nil, badRequest("bars must be between 1 and %d", h.cfg.MaxBars)
	}

	ctx := c.Request.Context()
	start := time.Now()
	id := uuid.New().String()

	// Only seeded compositions without suggestions are reproducible
	cacheable := req.Seed != nil && !req.UseSuggestions
	var key string
	if cacheable {
		key = cache.Key(req.Genre, *req.Seed, bars)
		cached, ok, err := h.store.Get(ctx, key)
		if err != nil {
			logger.Warn("Cache lookup failed", logger.Fields{"error": err.Error(), "genre": req.Genre})
		}
		if ok {
			resp := cached.Response(id)
			resp.Cached = true
			h.record(ctx, cached, true, false, time.Since(start))
			return &resp, cached, nil
		}
	}

	session, err := composer.NewSessionFromRegistry(h.registry, req.Genre, req.Seed)
	if err != nil {
		if errors.Is(err, genres.ErrGenreNotFound) {
			return nil, nil, &requestError{status: http.StatusNotFound, err: err}
		}
		return nil, nil, err
	}

	if req.UseSuggestions {
		provider, err := h.suggestionProvider(ctx, req)
		if err != nil {
			return nil, nil, err
		}
		session.AttachSuggestionSource(llm.ForGenre(provider, session.Genre()))
	}

	comp, err := session.GenerateAll(ctx, bars)
	if err != nil {
		return nil, nil, err
	}

	if cacheable {
		if err := h.store.Set(ctx, key, comp); err != nil {
			logger.Warn("Cache store failed", logger.Fields{"error": err.Error(), "genre": req.Genre})
		}
	}

	if comp.SuggestionFailures > 0 {
		logger.LogToSentry(sentry.LevelWarning, "Suggestions discarded", logger.Fields{
			"request_id": c.GetString("request_id"),
			"genre":      req.Genre,
			"failures":   comp.SuggestionFailures,
		})
	}

	h.record(ctx, comp, false, req.UseSuggestions, time.Since(start))
	resp := comp.Response(id)
	return &resp, comp, nil
}

func (h *CompositionHandler) suggestionProvider(ctx context.Context, req models.CompositionRequest) (llm.Provider, error) {
	if h.providers == nil || !h.providers.Available() {
		return nil, &requestError{
			status: http.StatusServiceUnavailable,
			err:    errors.New("suggestions are not configured on this server"),
		}
	}

	model, providerName := req.Model, req.Provider
	if model == "" {
		model = h.cfg.SuggestionModel
	}
	if providerName == "" {
		providerName = h.cfg.SuggestionProvider
	}

	provider, err := h.providers.GetProvider(ctx, model, providerName)
	if err != nil {
		return nil, badRequest("suggestion provider: %v", err)
	}
	return provider, nil
}

func (h *CompositionHandler) record(ctx context.Context, comp *composer.Composition, cached, suggestions bool, elapsed time.Duration) {
	logger.LogComposition(ctx, comp.GenreID, comp.Bars, elapsed, logger.Fields{
		"tempo":  comp.Tempo,
		"notes":  comp.NoteCount(),
		"cached": cached,
	})
	h.metrics.RecordComposition(ctx, metrics.CompositionStats{
		Genre:              comp.GenreID,
		Bars:               comp.Bars,
		Notes:              comp.NoteCount(),
		Cached:             cached,
		Suggestions:        suggestions,
		SuggestionFailures: comp.SuggestionFailures,
		Duration:           elapsed,
	})
}

func (h *CompositionHandler) fail(c *gin.Context, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		c.JSON(reqErr.status, gin.H{"error": reqErr.Error()})
		return
	}
	logger.Error("Composition failed", err, logger.WithContext(c))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "composition failed"})
}
