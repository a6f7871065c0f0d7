package composer

import (
	"context"
	"math/rand"
	"sort"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/models"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/theory"
)

// Probability that the next melody note moves stepwise instead of leaping
const stepProbability = 0.7

var melodySteps = []int{-2, -1, 0, 1, 2}

// GenerateMelody returns a melodic line of the given number of bars
func (s *Session) GenerateMelody(bars int) []models.Note {
	return s.GenerateMelodyContext(context.Background(), bars)
}

// GenerateMelodyContext is GenerateMelody with a context for the suggestion source
func (s *Session) GenerateMelodyContext(ctx context.Context, bars int) []models.Note {
	if bars <= 0 {
		return []models.Note{}
	}

	notes := s.melody(s.stream(trackMelody), bars)
	notes = s.enhance(ctx, "melody", notes, true)
	sortByStart(notes)
	return notes
}

func (s *Session) melody(rng *rand.Rand, bars int) []models.Note {
	total := float64(bars) * s.barLength()
	durations := melodyDurations(s.genre.NoteDensity)

	notes := []models.Note{}
	current := 0.0
	prev := s.scale[rng.Intn(len(s.scale))]

	for current < total {
		duration := durations[rng.Intn(len(durations))]

		var pitch int
		if rng.Float64() < stepProbability {
			step := melodySteps[rng.Intn(len(melodySteps))]
			idx := theory.IndexOf(s.scale, theory.SnapToScale(prev, s.scale))
			if idx < 0 {
				idx = 0
			}
			pitch = s.scale[clampIndex(idx+step, len(s.scale))]
		} else {
			pitch = s.scale[rng.Intn(len(s.scale))]
		}

		beat := theory.ApplySyncopation(rng, current, s.genre.Syncopation, theory.MelodyJitter)
		beat = theory.ApplySwing(beat, s.genre.Swing)

		notes = append(notes, models.Note{
			Pitch:    pitch,
			Velocity: theory.ClampVelocity(s.velocity(rng)),
			Start:    beat,
			Duration: duration,
		})
		prev = pitch
		current += duration
	}

	return notes
}

// melodyDurations picks the duration set for a note density; denser genres
// favour shorter values
func melodyDurations(density float64) []float64 {
	switch {
	case density > 0.7:
		return []float64{0.25, 0.5}
	case density > 0.4:
		return []float64{0.5, 1.0, 0.25}
	default:
		return []float64{1.0, 2.0, 0.5}
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func sortByStart(notes []models.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Start < notes[j].Start
	})
}
