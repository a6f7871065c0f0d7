package genres

import (
	"errors"
	"fmt"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/models"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/theory"
)

// ErrGenreNotFound is returned when a genre id is not in the table
var ErrGenreNotFound = errors.New("genre not found")

// Genre is the immutable parameter bundle that drives composition for one genre
type Genre struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`

	TempoRange     [2]int                 `json:"tempo_range"`
	TimeSignatures []models.TimeSignature `json:"time_signatures"`
	Scales         []theory.ScaleType     `json:"scales"`

	Swing           float64 `json:"swing"`
	VelocityRange   [2]int  `json:"velocity_range"`
	NoteDensity     float64 `json:"note_density"`
	Syncopation     float64 `json:"syncopation"`
	ChordComplexity float64 `json:"chord_complexity"`

	// Pattern family tags; unknown tags resolve to a default pattern
	DrumPattern string `json:"drum_pattern"`
	BassStyle   string `json:"bass_style"`

	Instruments []string `json:"instruments"`
}

// Validate checks the ranges and required fields of a genre definition
func (g *Genre) Validate() error {
	if g.ID == "" {
		return errors.New("genre id is required")
	}
	if g.TempoRange[0] <= 0 || g.TempoRange[0] > g.TempoRange[1] {
		return fmt.Errorf("genre %s: invalid tempo range %v", g.ID, g.TempoRange)
	}
	if len(g.TimeSignatures) == 0 {
		return fmt.Errorf("genre %s: at least one time signature is required", g.ID)
	}
	for _, ts := range g.TimeSignatures {
		if ts.Beats <= 0 || ts.Unit <= 0 {
			return fmt.Errorf("genre %s: invalid time signature %d/%d", g.ID, ts.Beats, ts.Unit)
		}
	}
	if len(g.Scales) == 0 {
		return fmt.Errorf("genre %s: at least one scale is required", g.ID)
	}
	for _, scale := range g.Scales {
		if !theory.IsKnownScale(scale) {
			return fmt.Errorf("genre %s: unknown scale %q", g.ID, scale)
		}
	}
	lo, hi := g.VelocityRange[0], g.VelocityRange[1]
	if lo < 0 || lo > hi || hi > theory.MaxVelocity {
		return fmt.Errorf("genre %s: invalid velocity range %v", g.ID, g.VelocityRange)
	}

	unit := map[string]float64{
		"swing":            g.Swing,
		"note_density":     g.NoteDensity,
		"syncopation":      g.Syncopation,
		"chord_complexity": g.ChordComplexity,
	}
	for name, v := range unit {
		if v < 0 || v > 1 {
			return fmt.Errorf("genre %s: %s must be within [0, 1], got %v", g.ID, name, v)
		}
	}
	return nil
}
