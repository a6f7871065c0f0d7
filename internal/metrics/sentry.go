package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// HTTP status code threshold for considering a request successful
	successStatusCodeThreshold = http.StatusBadRequest
)

// SentryMetrics records request and composition measurements as Sentry spans
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics client
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{
		enabled: true, // Spans are dropped by the SDK when Sentry is not configured
	}
}

// RecordAPIRequest records API request metrics
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "api.request")
	defer span.Finish()

	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", fmt.Sprintf("%d", statusCode))
	span.SetTag("success", fmt.Sprintf("%t", statusCode < successStatusCodeThreshold))

	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("status_code", statusCode)

	span.Status = spanStatus(statusCode < successStatusCodeThreshold)
	span.Description = fmt.Sprintf("API Request: %s", endpoint)
}

// CompositionStats describes one generated composition
type CompositionStats struct {
	Genre              string
	Bars               int
	Notes              int
	Cached             bool
	Suggestions        bool
	SuggestionFailures int64
	Duration           time.Duration
}

// RecordComposition records a composition request
func (m *SentryMetrics) RecordComposition(ctx context.Context, stats CompositionStats) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "composition.generate")
	defer span.Finish()

	span.SetTag("genre", stats.Genre)
	span.SetTag("cached", fmt.Sprintf("%t", stats.Cached))
	span.SetTag("suggestions", fmt.Sprintf("%t", stats.Suggestions))

	span.SetData("bars", stats.Bars)
	span.SetData("notes", stats.Notes)
	span.SetData("duration_ms", stats.Duration.Milliseconds())

	span.Status = sentry.SpanStatusOK
	span.Description = fmt.Sprintf("Composition: %s", stats.Genre)

	if stats.Suggestions {
		m.RecordSuggestionFailures(ctx, stats.Genre, stats.SuggestionFailures)
	}
}

// RecordSuggestionFailures records how many suggestions were discarded for a composition
func (m *SentryMetrics) RecordSuggestionFailures(ctx context.Context, genre string, failures int64) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "composition.suggestions")
	defer span.Finish()

	span.SetTag("genre", genre)
	span.SetTag("degraded", fmt.Sprintf("%t", failures > 0))
	span.SetData("failures", failures)
	span.Status = spanStatus(failures == 0)
}

func spanStatus(ok bool) sentry.SpanStatus {
	if ok {
		return sentry.SpanStatusOK
	}
	return sentry.SpanStatusInternalError
}
