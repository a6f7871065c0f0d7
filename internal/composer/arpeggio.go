package composer

import (
	"math/rand"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/models"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/theory"
)

// Index traversals over a chord: up-down, broken, down-up
var arpeggioPatterns = [][]int{
	{0, 1, 2, 3, 2, 1},
	{0, 2, 1, 3, 2, 0},
	{3, 2, 1, 0, 1, 2},
}

// Arpeggio notes overlap the next step for a legato feel
const arpeggioLegato = 1.5

// Arpeggiate spreads chord over span beats starting at start, using a
// randomly chosen traversal pattern. Velocities are drawn from velRange inclusive.
func Arpeggiate(rng *rand.Rand, chord []int, start, span float64, velRange [2]int) []models.Note {
	if len(chord) == 0 || span <= 0 {
		return []models.Note{}
	}

	pattern := arpeggioPatterns[rng.Intn(len(arpeggioPatterns))]
	step := span / float64(len(pattern))

	lo, hi := velRange[0], velRange[1]
	if hi < lo {
		lo, hi = hi, lo
	}

	notes := make([]models.Note, 0, len(pattern))
	for i, idx := range pattern {
		notes = append(notes, models.Note{
			Pitch:    theory.ClampPitch(chord[idx%len(chord)]),
			Velocity: theory.ClampVelocity(lo + rng.Intn(hi-lo+1)),
			Start:    start + float64(i)*step,
			Duration: step * arpeggioLegato,
		})
	}
	return notes
}

// GenerateArpeggios arpeggiates each bar's chord an octave below the chord track
func (s *Session) GenerateArpeggios(bars int) []models.Note {
	if bars <= 0 {
		return []models.Note{}
	}

	rng := s.stream(trackArpeggio)
	length := s.barLength()

	notes := []models.Note{}
	for bar := 0; bar < bars; bar++ {
		chord := chordPitches(s.genre.ChordComplexity, bar)
		for i := range chord {
			chord[i] -= 12
		}
		notes = append(notes, Arpeggiate(rng, chord, float64(bar)*length, length, s.genre.VelocityRange)...)
	}
	return notes
}
