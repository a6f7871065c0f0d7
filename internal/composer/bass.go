package composer

import (
	"context"
	"math/rand"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/models"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/theory"
)

// BassStyle is a bass-line algorithm family
type BassStyle string

const (
	BassWalking   BassStyle = "walking"
	BassRootFifth BassStyle = "root_fifth"
	BassSustained BassStyle = "sustained"
	BassTumbao    BassStyle = "tumbao"
	BassDownbeat  BassStyle = "default"
)

// bassStyles maps genre bass_style tags to their algorithm family.
// Tags not listed here play BassDownbeat.
var bassStyles = map[string]BassStyle{
	"walking":       BassWalking,
	"walking_swing": BassWalking,
	"blues_walking": BassWalking,
	"root_fifth":    BassRootFifth,
	"root_power":    BassRootFifth,
	"sustained":     BassSustained,
	"808_bass":      BassSustained,
	"trap":          BassSustained,
	"drill_bass":    BassSustained,
	"tumbao":        BassTumbao,
	"salsa_bass":    BassTumbao,
}

// ResolveBassStyle returns the family for a bass_style tag
func ResolveBassStyle(tag string) BassStyle {
	if style, ok := bassStyles[tag]; ok {
		return style
	}
	return BassDownbeat
}

// bassBar carries what one bar of a bass pattern needs
type bassBar struct {
	root     int
	nextRoot int
	start    float64
	length   int
}

type bassPattern func(s *Session, rng *rand.Rand, bar bassBar) []models.Note

var bassPatterns = map[BassStyle]bassPattern{
	BassWalking:   walkingBass,
	BassRootFifth: rootFifthBass,
	BassSustained: sustainedBass,
	BassTumbao:    tumbaoBass,
	BassDownbeat:  downbeatBass,
}

// DefaultBassRoots returns the I-IV-V-I root progression an octave below the session root
func DefaultBassRoots() []int {
	return []int{RootPitch - 12, RootPitch - 7, RootPitch - 5, RootPitch - 12}
}

// GenerateBass returns a bass line over the default root progression
func (s *Session) GenerateBass(bars int) []models.Note {
	return s.GenerateBassContext(context.Background(), bars, nil)
}

// GenerateBassWithRoots returns a bass line over an explicit root progression.
// An empty progression falls back to DefaultBassRoots.
func (s *Session) GenerateBassWithRoots(bars int, roots []int) []models.Note {
	return s.GenerateBassContext(context.Background(), bars, roots)
}

// GenerateBassContext is GenerateBassWithRoots with a context for the suggestion source
func (s *Session) GenerateBassContext(ctx context.Context, bars int, roots []int) []models.Note {
	if bars <= 0 {
		return []models.Note{}
	}
	if len(roots) == 0 {
		roots = DefaultBassRoots()
	}

	notes := s.bass(s.stream(trackBass), bars, roots)
	notes = s.enhance(ctx, "bass", notes, false)
	sortByStart(notes)
	return notes
}

func (s *Session) bass(rng *rand.Rand, bars int, roots []int) []models.Note {
	pattern := bassPatterns[ResolveBassStyle(s.genre.BassStyle)]
	beats := s.BeatsPerBar()

	notes := []models.Note{}
	for bar := 0; bar < bars; bar++ {
		b := bassBar{
			root:     roots[bar%len(roots)],
			nextRoot: roots[(bar+1)%len(roots)],
			start:    float64(bar * beats),
			length:   beats,
		}
		for _, n := range pattern(s, rng, b) {
			if clipped, ok := clipToBar(n, b.start, float64(b.length)); ok {
				notes = append(notes, clipped)
			}
		}
	}
	return notes
}

// walkingBass plays quarter notes: root first, chord tones inside, and a
// chromatic approach to the next root on the last beat
func walkingBass(s *Session, rng *rand.Rand, b bassBar) []models.Note {
	notes := make([]models.Note, 0, b.length)
	for beat := 0; beat < b.length; beat++ {
		var pitch int
		switch {
		case beat == 0:
			pitch = b.root
		case beat == b.length-1:
			pitch = b.nextRoot + []int{-1, 1}[rng.Intn(2)]
		default:
			pitch = b.root + []int{0, 5, 7, 12}[rng.Intn(4)]
		}
		notes = append(notes, s.bassNote(rng, pitch, b.start+float64(beat), 1.0))
	}
	return notes
}

func rootFifthBass(s *Session, rng *rand.Rand, b bassBar) []models.Note {
	return []models.Note{
		s.bassNote(rng, b.root, b.start, 2.0),
		s.bassNote(rng, b.root+7, b.start+2, 2.0),
	}
}

func sustainedBass(s *Session, rng *rand.Rand, b bassBar) []models.Note {
	return []models.Note{s.bassNote(rng, b.root, b.start, float64(b.length))}
}

var tumbaoOffsets = []float64{0, 0.5, 2.5, 3}

func tumbaoBass(s *Session, rng *rand.Rand, b bassBar) []models.Note {
	notes := make([]models.Note, 0, len(tumbaoOffsets))
	for _, offset := range tumbaoOffsets {
		pitch := b.root + 7
		if offset == 0 || offset == 2.5 {
			pitch = b.root
		}
		notes = append(notes, s.bassNote(rng, pitch, b.start+offset, 0.5))
	}
	return notes
}

func downbeatBass(s *Session, rng *rand.Rand, b bassBar) []models.Note {
	notes := []models.Note{}
	for beat := 0; beat < b.length; beat += 2 {
		notes = append(notes, s.bassNote(rng, b.root, b.start+float64(beat), 2.0))
	}
	return notes
}

func (s *Session) bassNote(rng *rand.Rand, pitch int, start, duration float64) models.Note {
	return models.Note{
		Pitch:    theory.ClampPitch(pitch),
		Velocity: theory.ClampVelocity(s.velocity(rng)),
		Start:    start,
		Duration: duration,
	}
}

// clipToBar drops notes that start at or after the bar end and shortens
// notes that would ring past it
func clipToBar(n models.Note, barStart, barLength float64) (models.Note, bool) {
	barEnd := barStart + barLength
	if n.Start >= barEnd {
		return n, false
	}
	if n.End() > barEnd {
		n.Duration = barEnd - n.Start
	}
	return n, n.Duration > 0
}
