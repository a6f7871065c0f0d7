package llm

import (
	"encoding/json"
	"fmt"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/genres"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/models"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/prompt"
)

var defaultInstructions = prompt.NewPromptBuilder().BuildSuggestionPrompt(nil)

// ForGenre returns a copy of p whose instructions describe genre g.
// Providers that carry no instructions are returned unchanged.
func ForGenre(p Provider, g *genres.Genre) Provider {
	instructions := prompt.NewPromptBuilder().BuildSuggestionPrompt(g)
	switch v := p.(type) {
	case *OpenAIProvider:
		c := *v
		c.instructions = instructions
		return &c
	case *GeminiProvider:
		c := *v
		c.instructions = instructions
		return &c
	default:
		return p
	}
}

// suggestionSchema constrains structured output to a single note
var suggestionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"pitch":    map[string]any{"type": "integer", "minimum": 0, "maximum": 127},
		"velocity": map[string]any{"type": "integer", "minimum": 0, "maximum": 127},
		"duration": map[string]any{"type": "number"},
	},
	"required":             []string{"pitch", "velocity", "duration"},
	"additionalProperties": false,
}

const suggestionSchemaName = "next_note"

type suggestionPrompt struct {
	Notes []models.Note `json:"notes"`
}

// buildSuggestionPrompt renders the context notes as the user message
func buildSuggestionPrompt(history []models.Note) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("no context notes to continue from")
	}
	payload, err := json.Marshal(suggestionPrompt{Notes: history})
	if err != nil {
		return "", fmt.Errorf("failed to encode context notes: %w", err)
	}
	return string(payload), nil
}
