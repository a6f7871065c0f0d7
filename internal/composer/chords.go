package composer

import (
	"math/rand"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/models"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/theory"
)

// Chord progressions as semitone offsets from the session root, one chord per bar
var (
	simpleProgression  = [][]int{{0, 4, 7}, {5, 9, 12}, {7, 11, 14}, {0, 4, 7}}
	mediumProgression  = [][]int{{0, 4, 7}, {9, 12, 16}, {5, 9, 12}, {7, 11, 14}}
	complexProgression = [][]int{{0, 4, 7, 11}, {5, 9, 12, 16}, {7, 11, 14, 17}, {0, 4, 7, 10}}
)

// Chord tones sit this much softer than the melody
const chordVelocityOffset = -10

// progressionFor selects I-IV-V-I, I-vi-IV-V or the extended voicings
func progressionFor(complexity float64) [][]int {
	switch {
	case complexity < 0.3:
		return simpleProgression
	case complexity < 0.6:
		return mediumProgression
	default:
		return complexProgression
	}
}

// GenerateChords returns one block chord per bar, each lasting the whole bar
func (s *Session) GenerateChords(bars int) []models.ChordBar {
	if bars <= 0 {
		return []models.ChordBar{}
	}
	return s.chords(s.stream(trackChords), bars)
}

func (s *Session) chords(rng *rand.Rand, bars int) []models.ChordBar {
	progression := progressionFor(s.genre.ChordComplexity)
	length := s.barLength()

	out := make([]models.ChordBar, 0, bars)
	for bar := 0; bar < bars; bar++ {
		intervals := progression[bar%len(progression)]
		notes := make([]models.Note, 0, len(intervals))
		for _, interval := range intervals {
			notes = append(notes, models.Note{
				Pitch:    theory.ClampPitch(RootPitch + interval),
				Velocity: theory.ClampVelocity(s.velocity(rng) + chordVelocityOffset),
				Start:    float64(bar) * length,
				Duration: length,
			})
		}
		out = append(out, models.ChordBar{Bar: bar, Notes: notes})
	}
	return out
}

// chordPitches returns the bar's chord tones without generating velocities
func chordPitches(complexity float64, bar int) []int {
	progression := progressionFor(complexity)
	intervals := progression[bar%len(progression)]
	pitches := make([]int, len(intervals))
	for i, interval := range intervals {
		pitches[i] = RootPitch + interval
	}
	return pitches
}
