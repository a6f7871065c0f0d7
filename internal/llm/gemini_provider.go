package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/composer"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/logger"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/models"
	"google.golang.org/genai"
)

const (
	providerNameGemini = "gemini"
	defaultGeminiModel = "gemini-2.5-flash"
	mimeTypeJSON       = "application/json"
	geminiUserRole     = "user"
)

// GeminiProvider suggests notes through Google's Gemini API
type GeminiProvider struct {
	client       *genai.Client
	model        string
	instructions string
}

// NewGeminiProvider creates a new Gemini provider. An empty model selects the default.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:       client,
		model:        model,
		instructions: defaultInstructions,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

// Model returns the configured model
func (p *GeminiProvider) Model() string {
	return p.model
}

// SuggestNext asks the model for the note following history
func (p *GeminiProvider) SuggestNext(ctx context.Context, history []models.Note) (composer.Suggestion, error) {
	span := startSuggestSpan(ctx, "gemini.suggest", providerNameGemini, p.model)
	defer span.Finish()

	contents, err := buildGeminiContents(history)
	if err != nil {
		span.SetTag("success", "false")
		return composer.Suggestion{}, err
	}

	apiSpan := span.StartChild("gemini.api_call")
	startTime := time.Now()
	result, err := p.client.Models.GenerateContent(span.Context(), p.model, contents, geminiConfig(p.instructions))
	apiSpan.Finish()
	if err != nil {
		span.SetTag("success", "false")
		return composer.Suggestion{}, fmt.Errorf("gemini request failed: %w", err)
	}

	suggestion, err := parseSuggestion(geminiText(result))
	if err != nil {
		span.SetTag("success", "false")
		return composer.Suggestion{}, err
	}

	fields := logger.Fields{
		"model":       p.model,
		"duration_ms": time.Since(startTime).Milliseconds(),
	}
	if result.UsageMetadata != nil {
		fields["total_tokens"] = result.UsageMetadata.TotalTokenCount
	}
	logger.Debug("Gemini suggestion received", fields)
	span.SetTag("success", "true")
	return suggestion, nil
}

func buildGeminiContents(history []models.Note) ([]*genai.Content, error) {
	prompt, err := buildSuggestionPrompt(history)
	if err != nil {
		return nil, err
	}
	return []*genai.Content{{
		Role:  geminiUserRole,
		Parts: []*genai.Part{{Text: prompt}},
	}}, nil
}

func geminiConfig(instructions string) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: instructions}},
		},
		ResponseMIMEType: mimeTypeJSON,
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"pitch":    {Type: genai.TypeInteger},
				"velocity": {Type: genai.TypeInteger},
				"duration": {Type: genai.TypeNumber},
			},
			Required: []string{"pitch", "velocity", "duration"},
		},
	}
}

// geminiText returns the text of the first candidate, or "" if there is none
func geminiText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 {
		return ""
	}
	candidate := result.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}
	return candidate.Content.Parts[0].Text
}
