package llm

import (
	"context"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/composer"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/models"
	"github.com/getsentry/sentry-go"
)

// Provider defines the interface for LLM-backed note suggestion.
// Every provider is usable directly as a composer.SuggestionSource.
type Provider interface {
	// SuggestNext asks the model for the note that should follow history
	SuggestNext(ctx context.Context, history []models.Note) (composer.Suggestion, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string

	// Model returns the model the provider sends requests to
	Model() string
}

var _ composer.SuggestionSource = Provider(nil)

// startSuggestSpan opens the span for one suggestion call. It nests under the
// span already carried by ctx (normally the HTTP request transaction).
func startSuggestSpan(ctx context.Context, operation, provider, model string) *sentry.Span {
	span := sentry.StartSpan(ctx, operation)
	span.SetTag("model", model)
	span.SetTag("provider", provider)
	return span
}
