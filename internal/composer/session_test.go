package composer

import (
	"context"
	"errors"
	"testing"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/genres"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/models"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/theory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPtr(v int64) *int64 {
	return &v
}

func newSession(t *testing.T, genreID string, seed int64) *Session {
	t.Helper()
	s, err := NewSession(genreID, seedPtr(seed))
	require.NoError(t, err)
	return s
}

func assertValidNotes(t *testing.T, label string, notes []models.Note) {
	t.Helper()
	for i, n := range notes {
		assert.Greater(t, n.Duration, 0.0, "%s[%d] duration", label, i)
		assert.GreaterOrEqual(t, n.Start, 0.0, "%s[%d] start", label, i)
		assert.True(t, n.Pitch >= 0 && n.Pitch <= 127, "%s[%d] pitch %d", label, i, n.Pitch)
		assert.True(t, n.Velocity >= 1 && n.Velocity <= 127, "%s[%d] velocity %d", label, i, n.Velocity)
		if i > 0 {
			assert.LessOrEqual(t, notes[i-1].Start, n.Start, "%s not ordered at %d", label, i)
		}
	}
}

func TestNewSession_UnknownGenre(t *testing.T) {
	s, err := NewSession("not_a_genre", seedPtr(1))
	require.Error(t, err)
	assert.Nil(t, s)

	var unknown *UnknownGenreError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "not_a_genre", unknown.ID)
	assert.True(t, errors.Is(err, genres.ErrGenreNotFound))
}

func TestNewSession_SharedContext(t *testing.T) {
	s := newSession(t, "jazz", 7)
	g := s.Genre()

	assert.Equal(t, "jazz", g.ID)
	assert.GreaterOrEqual(t, s.Tempo(), g.TempoRange[0])
	assert.LessOrEqual(t, s.Tempo(), g.TempoRange[1])
	assert.Contains(t, g.TimeSignatures, s.TimeSignature())
	assert.Equal(t, s.TimeSignature().Beats, s.BeatsPerBar())

	scale := s.Scale()
	require.NotEmpty(t, scale)
	assert.Equal(t, RootPitch, scale[0])
	for i := 1; i < len(scale); i++ {
		assert.Greater(t, scale[i], scale[i-1])
	}

	require.NotNil(t, s.Seed())
	assert.Equal(t, int64(7), *s.Seed())
}

func TestNewSession_SameSeedSameContext(t *testing.T) {
	for _, id := range genres.List() {
		a := newSession(t, id, 1234)
		b := newSession(t, id, 1234)
		assert.Equal(t, a.Scale(), b.Scale(), id)
		assert.Equal(t, a.Tempo(), b.Tempo(), id)
		assert.Equal(t, a.TimeSignature(), b.TimeSignature(), id)
	}
}

func TestAllGenres_NoteInvariants(t *testing.T) {
	for _, id := range genres.List() {
		for _, seed := range []int64{1, 42, 2024} {
			s := newSession(t, id, seed)
			bars := 4

			assertValidNotes(t, id+"/melody", s.GenerateMelody(bars))
			assertValidNotes(t, id+"/bass", s.GenerateBass(bars))
			assertValidNotes(t, id+"/arpeggio", s.GenerateArpeggios(bars))

			chords := s.GenerateChords(bars)
			require.Len(t, chords, bars)
			for _, c := range chords {
				assertValidNotes(t, id+"/chords", c.Notes)
			}

			drums := s.GenerateDrums(bars)
			for _, voice := range models.DrumVoices {
				notes, ok := drums[voice]
				require.True(t, ok, "%s: missing voice %s", id, voice)
				assertValidNotes(t, id+"/"+voice, notes)
			}
		}
	}
}

func TestMelody_Deterministic(t *testing.T) {
	for _, id := range genres.List() {
		s := newSession(t, id, 42)
		first := s.GenerateMelody(8)
		assert.Equal(t, first, s.GenerateMelody(8), "%s: regenerate on same session", id)
		assert.Equal(t, first, newSession(t, id, 42).GenerateMelody(8), "%s: fresh session", id)
	}
}

func TestTracks_Independent(t *testing.T) {
	a := newSession(t, "funk", 99)
	melody := a.GenerateMelody(4)

	b := newSession(t, "funk", 99)
	b.GenerateDrums(4)
	b.GenerateBass(4)
	b.GenerateChords(4)
	assert.Equal(t, melody, b.GenerateMelody(4))
}

func TestMelody_OnScale(t *testing.T) {
	for _, id := range genres.List() {
		s := newSession(t, id, 5)
		scale := s.Scale()
		for _, n := range s.GenerateMelody(16) {
			assert.True(t, theory.ContainsPitchClass(scale, n.Pitch), "%s: pitch %d off scale", id, n.Pitch)
			assert.Equal(t, n.Pitch, theory.SnapToScale(n.Pitch, scale))
		}
	}
}

func TestMelody_FillsRequestedLength(t *testing.T) {
	s := newSession(t, "pop", 3)
	total := float64(4 * s.BeatsPerBar())

	melody := s.GenerateMelody(4)
	require.NotEmpty(t, melody)

	// The grid position walks by note durations until it reaches the target
	sum, longest := 0.0, 0.0
	for _, n := range melody {
		sum += n.Duration
		if n.Duration > longest {
			longest = n.Duration
		}
	}
	assert.GreaterOrEqual(t, sum, total)
	assert.Less(t, sum-longest, total)
}

func TestGenerators_NonPositiveBars(t *testing.T) {
	s := newSession(t, "house", 1)
	for _, bars := range []int{0, -3} {
		assert.Empty(t, s.GenerateMelody(bars))
		assert.Empty(t, s.GenerateBass(bars))
		assert.Empty(t, s.GenerateChords(bars))
		assert.Empty(t, s.GenerateArpeggios(bars))
		drums := s.GenerateDrums(bars)
		assert.Len(t, drums, len(models.DrumVoices))
		assert.Zero(t, drums.Count())
	}
}

func TestUnseededSession(t *testing.T) {
	s, err := NewSession("techno", nil)
	require.NoError(t, err)
	assert.Nil(t, s.Seed())
	assertValidNotes(t, "melody", s.GenerateMelody(4))
	assert.NotZero(t, s.GenerateDrums(4).Count())
}

func TestGenerateAll(t *testing.T) {
	s := newSession(t, "salsa", 11)
	c, err := s.GenerateAll(context.Background(), 4)
	require.NoError(t, err)

	assert.Equal(t, "salsa", c.GenreID)
	assert.Equal(t, 4, c.Bars)
	assert.Equal(t, s.Tempo(), c.Tempo)
	assert.Equal(t, s.Scale(), c.Scale)

	fresh := newSession(t, "salsa", 11)
	assert.Equal(t, fresh.GenerateMelody(4), c.Melody)
	assert.Equal(t, fresh.GenerateChords(4), c.Chords)
	assert.Equal(t, fresh.GenerateBass(4), c.Bass)
	assert.Equal(t, fresh.GenerateArpeggios(4), c.Arpeggio)
	assert.Equal(t, fresh.GenerateDrums(4), c.Drums)

	assert.InDelta(t, 16*60/float64(c.Tempo), c.DurationSeconds(), 1e-9)

	resp := c.Response("abc")
	assert.Equal(t, "abc", resp.ID)
	assert.Equal(t, c.Melody, resp.Melody)
}

func TestGenerateAll_Errors(t *testing.T) {
	s := newSession(t, "salsa", 11)

	_, err := s.GenerateAll(context.Background(), 0)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.GenerateAll(ctx, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
