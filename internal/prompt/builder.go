package prompt

import (
	"fmt"
	"strings"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/genres"
)

// Builder assembles the instructions sent with every suggestion request
type Builder struct {
	loader *Loader
}

// NewPromptBuilder creates a new prompt builder
func NewPromptBuilder() *Builder {
	return &Builder{loader: NewPromptLoader()}
}

// BuildSuggestionPrompt joins the system prompt, the genre context and the
// output format. A nil genre leaves the genre section out.
func (b *Builder) BuildSuggestionPrompt(g *genres.Genre) string {
	sections := []string{b.loader.GetSystemPrompt()}
	if g != nil {
		sections = append(sections, genreContext(g))
	}
	sections = append(sections, b.loader.GetOutputFormatInstructions())
	return strings.Join(sections, "\n\n")
}

func genreContext(g *genres.Genre) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "GENRE: %s (%s)\n", g.Name, g.Category)
	if g.Description != "" {
		fmt.Fprintf(&sb, "%s\n", g.Description)
	}
	fmt.Fprintf(&sb, "Tempo: %d-%d BPM\n", g.TempoRange[0], g.TempoRange[1])
	fmt.Fprintf(&sb, "Velocity range: %d-%d\n", g.VelocityRange[0], g.VelocityRange[1])
	fmt.Fprintf(&sb, "Swing: %.2f, syncopation: %.2f\n", g.Swing, g.Syncopation)
	if len(g.Instruments) > 0 {
		fmt.Fprintf(&sb, "Instruments: %s", strings.Join(g.Instruments, ", "))
	}
	return strings.TrimSpace(sb.String())
}
