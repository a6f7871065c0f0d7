package prompt

import (
	"strings"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/pkg/embedded"
)

type Loader struct{}

func NewPromptLoader() *Loader {
	return &Loader{}
}

// GetSystemPrompt loads the main system prompt
func (l *Loader) GetSystemPrompt() string {
	return strings.TrimSpace(string(embedded.SystemPromptTxt))
}

// GetOutputFormatInstructions loads output format instructions
func (l *Loader) GetOutputFormatInstructions() string {
	return strings.TrimSpace(string(embedded.OutputFormatInstructionsTxt))
}
