package composer

import (
	"context"
	"fmt"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/models"
	"golang.org/x/sync/errgroup"
)

// Composition is every track of one session rendered over the same bar count
type Composition struct {
	GenreID       string               `json:"genre"`
	GenreName     string               `json:"genreName"`
	Instruments   []string             `json:"instruments"`
	BassStyle     string               `json:"bassStyle"`
	Bars          int                  `json:"bars"`
	Seed          *int64               `json:"seed,omitempty"`
	Tempo         int                  `json:"tempo"`
	TimeSignature models.TimeSignature `json:"timeSignature"`
	Scale         []int                `json:"scale"`

	Melody   []models.Note     `json:"melody"`
	Chords   []models.ChordBar `json:"chords"`
	Bass     []models.Note     `json:"bass"`
	Arpeggio []models.Note     `json:"arpeggio"`
	Drums    models.DrumKit    `json:"drums"`

	SuggestionFailures int64 `json:"suggestionFailures"`
}

// TotalBeats is the composition length in beats
func (c *Composition) TotalBeats() float64 {
	return float64(c.Bars * c.TimeSignature.Beats)
}

// DurationSeconds is the playing time at the composition tempo
func (c *Composition) DurationSeconds() float64 {
	if c.Tempo <= 0 {
		return 0
	}
	return c.TotalBeats() * 60 / float64(c.Tempo)
}

// NoteCount is the number of notes across every track
func (c *Composition) NoteCount() int {
	total := len(c.Melody) + len(c.Bass) + len(c.Arpeggio) + c.Drums.Count()
	for _, bar := range c.Chords {
		total += len(bar.Notes)
	}
	return total
}

// Response converts the composition to its wire shape
func (c *Composition) Response(id string) models.CompositionResponse {
	return models.CompositionResponse{
		ID:                 id,
		Genre:              c.GenreID,
		Bars:               c.Bars,
		Seed:               c.Seed,
		Tempo:              c.Tempo,
		TimeSignature:      c.TimeSignature,
		Scale:              c.Scale,
		Melody:             c.Melody,
		Chords:             c.Chords,
		Bass:               c.Bass,
		Arpeggio:           c.Arpeggio,
		Drums:              c.Drums,
		SuggestionFailures: c.SuggestionFailures,
	}
}

// GenerateAll renders all five tracks concurrently. Tracks share only the
// session's read-only scale, tempo and meter, so the result equals calling
// each generator in turn.
func (s *Session) GenerateAll(ctx context.Context, bars int) (*Composition, error) {
	if bars <= 0 {
		return nil, fmt.Errorf("bars must be positive, got %d", bars)
	}

	c := &Composition{
		GenreID:       s.genre.ID,
		GenreName:     s.genre.Name,
		Instruments:   s.genre.Instruments,
		BassStyle:     s.genre.BassStyle,
		Bars:          bars,
		Seed:          s.Seed(),
		Tempo:         s.tempo,
		TimeSignature: s.timeSig,
		Scale:         s.Scale(),
	}
	before := s.SuggestionFailures()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.Melody = s.GenerateMelodyContext(gctx, bars)
		return gctx.Err()
	})
	g.Go(func() error {
		c.Chords = s.GenerateChords(bars)
		return nil
	})
	g.Go(func() error {
		c.Bass = s.GenerateBassContext(gctx, bars, nil)
		return gctx.Err()
	})
	g.Go(func() error {
		c.Arpeggio = s.GenerateArpeggios(bars)
		return nil
	})
	g.Go(func() error {
		c.Drums = s.GenerateDrums(bars)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("composition cancelled: %w", err)
	}

	c.SuggestionFailures = s.SuggestionFailures() - before
	return c, nil
}
