package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/composer"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/logger"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/models"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/observability"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

const (
	providerNameOpenAI = "openai"
	defaultOpenAIModel = "gpt-5-mini"
	maxOutputTrunc     = 200
)

// Only the GPT-5 family accepts a reasoning effort; sending it to others is an API error
var modelsWithReasoning = map[string]bool{
	"gpt-5":      true,
	"gpt-5-mini": true,
	"gpt-5-nano": true,
	"gpt-5.1":    true,
	"gpt-5.2":    true,
}

// OpenAIProvider suggests notes through OpenAI's Responses API
type OpenAIProvider struct {
	client       *openai.Client
	model        string
	instructions string
}

// NewOpenAIProvider creates a new OpenAI provider. An empty model selects the default.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{
		client:       &client,
		model:        model,
		instructions: defaultInstructions,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

// Model returns the configured model
func (p *OpenAIProvider) Model() string {
	return p.model
}

// SuggestNext asks the model for the note following history
func (p *OpenAIProvider) SuggestNext(ctx context.Context, history []models.Note) (composer.Suggestion, error) {
	span := startSuggestSpan(ctx, "openai.suggest", providerNameOpenAI, p.model)
	defer span.Finish()

	params, err := p.buildRequestParams(history)
	if err != nil {
		span.SetTag("success", "false")
		return composer.Suggestion{}, err
	}

	apiSpan := span.StartChild("openai.api_call")
	startTime := time.Now()
	resp, err := p.client.Responses.New(span.Context(), params)
	apiSpan.Finish()
	if err != nil {
		span.SetTag("success", "false")
		return composer.Suggestion{}, fmt.Errorf("openai request failed: %w", err)
	}

	suggestion, err := parseSuggestion(resp.OutputText())
	if err != nil {
		span.SetTag("success", "false")
		return composer.Suggestion{}, err
	}

	cost := observability.CalculateOpenAICost(p.model, resp.Usage)
	span.SetData("cost_usd", cost)
	logger.Debug("OpenAI suggestion received", logger.Fields{
		"model":        p.model,
		"duration_ms":  time.Since(startTime).Milliseconds(),
		"total_tokens": resp.Usage.TotalTokens,
		"cost":         observability.FormatCost(cost),
	})
	span.SetTag("success", "true")
	return suggestion, nil
}

func (p *OpenAIProvider) buildRequestParams(history []models.Note) (responses.ResponseNewParams, error) {
	prompt, err := buildSuggestionPrompt(history)
	if err != nil {
		return responses.ResponseNewParams{}, err
	}

	inputItems := responses.ResponseInputParam{
		responses.ResponseInputItemParamOfMessage(prompt, responses.EasyInputMessageRoleUser),
	}

	params := responses.ResponseNewParams{
		Model: p.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: inputItems,
		},
		Instructions: openai.String(p.instructions),
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigParamOfJSONSchema(suggestionSchemaName, suggestionSchema),
		},
	}

	if modelsWithReasoning[p.model] {
		// One note does not need deliberation
		params.Reasoning = shared.ReasoningParam{
			Effort: responses.ReasoningEffortLow,
		}
	}
	return params, nil
}
