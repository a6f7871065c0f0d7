package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/composer"
)

// ErrEmptyResponse is returned when the model produced no text at all
var ErrEmptyResponse = errors.New("model response did not include any output text")

// parseSuggestion extracts the JSON object from a model reply. Markdown code
// fences and surrounding prose are tolerated.
func parseSuggestion(text string) (composer.Suggestion, error) {
	var suggestion composer.Suggestion

	text = strings.TrimSpace(text)
	if text == "" {
		return suggestion, ErrEmptyResponse
	}
	text = stripCodeFence(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return suggestion, fmt.Errorf("no JSON object in model output: %s", truncate(text, maxOutputTrunc))
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), &suggestion); err != nil {
		return suggestion, fmt.Errorf("failed to parse model output: %w", err)
	}
	return suggestion, nil
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Drop the language tag on the opening fence
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
