package composer

import (
	"context"
	"fmt"
	"math"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/logger"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/models"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/theory"
)

const (
	// Notes of preceding context a suggestion needs
	SuggestionContext = 5

	// Weight of the suggestion against the original note
	suggestionBlend = 0.3
)

// Suggestion is a hint for the next note. It is only ever blended into the
// original note, never used on its own.
type Suggestion struct {
	Pitch    int     `json:"pitch"`
	Velocity int     `json:"velocity"`
	Duration float64 `json:"duration"`
}

// SuggestionSource proposes the note that should follow history
type SuggestionSource interface {
	SuggestNext(ctx context.Context, history []models.Note) (Suggestion, error)
}

// SuggestionFunc adapts a function to SuggestionSource
type SuggestionFunc func(ctx context.Context, history []models.Note) (Suggestion, error)

// SuggestNext calls f
func (f SuggestionFunc) SuggestNext(ctx context.Context, history []models.Note) (Suggestion, error) {
	return f(ctx, history)
}

// Validate reports whether the suggestion is inside the MIDI range and has a usable duration
func (sg Suggestion) Validate() error {
	switch {
	case sg.Pitch < theory.MinPitch || sg.Pitch > theory.MaxPitch:
		return fmt.Errorf("%w: pitch %d", ErrInvalidSuggestion, sg.Pitch)
	case sg.Velocity < 0 || sg.Velocity > theory.MaxVelocity:
		return fmt.Errorf("%w: velocity %d", ErrInvalidSuggestion, sg.Velocity)
	case math.IsNaN(sg.Duration) || math.IsInf(sg.Duration, 0) || sg.Duration <= 0:
		return fmt.Errorf("%w: duration %v", ErrInvalidSuggestion, sg.Duration)
	}
	return nil
}

// Blend mixes the suggestion into original at a fixed 30/70 ratio
func (sg Suggestion) Blend(original models.Note) models.Note {
	keep := 1 - suggestionBlend
	blended := original
	blended.Pitch = theory.ClampPitch(int(float64(original.Pitch)*keep + float64(sg.Pitch)*suggestionBlend))
	blended.Velocity = theory.ClampVelocity(int(float64(original.Velocity)*keep + float64(sg.Velocity)*suggestionBlend))
	blended.Duration = original.Duration*keep + sg.Duration*suggestionBlend
	return blended
}

// enhance blends suggestions into notes from index SuggestionContext onwards.
// Context windows always come from the original notes. Any failure keeps
// the original note and is counted, never returned.
func (s *Session) enhance(ctx context.Context, trackName string, notes []models.Note, snap bool) []models.Note {
	src := s.suggestionSource()
	if src == nil || len(notes) <= SuggestionContext {
		return notes
	}

	out := make([]models.Note, len(notes))
	copy(out, notes)

	for i := SuggestionContext; i < len(notes); i++ {
		if err := ctx.Err(); err != nil {
			remaining := int64(len(notes) - i)
			s.failures.Add(remaining)
			logger.Warn("Suggestion enhancement stopped", logger.Fields{
				"track":     trackName,
				"remaining": remaining,
				"error":     err.Error(),
			})
			break
		}

		window := make([]models.Note, SuggestionContext)
		copy(window, notes[i-SuggestionContext:i])

		suggestion, err := s.suggest(ctx, src, window)
		if err != nil {
			s.failures.Add(1)
			logger.Debug("Suggestion discarded", logger.Fields{
				"track": trackName,
				"index": i,
				"error": err.Error(),
			})
			continue
		}

		blended := suggestion.Blend(notes[i])
		if snap {
			blended.Pitch = theory.SnapToScale(blended.Pitch, s.scale)
		}
		out[i] = blended
	}

	return out
}

// suggest calls the source, turning panics and invalid values into errors
func (s *Session) suggest(ctx context.Context, src SuggestionSource, window []models.Note) (sg Suggestion, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("suggestion source panicked: %v", r)
		}
	}()

	sg, err = src.SuggestNext(ctx, window)
	if err != nil {
		return Suggestion{}, err
	}
	if err := sg.Validate(); err != nil {
		return Suggestion{}, err
	}
	return sg, nil
}
