package midifile

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/composer"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

func compose(t *testing.T, genreID string, bars int) *composer.Composition {
	t.Helper()
	seed := int64(42)
	s, err := composer.NewSession(genreID, &seed)
	require.NoError(t, err)
	c, err := s.GenerateAll(context.Background(), bars)
	require.NoError(t, err)
	return c
}

func countNoteOns(track smf.Track) (int, map[uint8]bool) {
	count := 0
	channels := map[uint8]bool{}
	for _, ev := range track {
		var ch, key, vel uint8
		if ev.Message.GetNoteOn(&ch, &key, &vel) {
			count++
			channels[ch] = true
		}
	}
	return count, channels
}

func TestWrite_RoundTrip(t *testing.T) {
	c := compose(t, "trap", 4)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, c))
	require.NotZero(t, buf.Len())

	rd, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rd.Tracks, 6)

	ticks, ok := rd.TimeFormat.(smf.MetricTicks)
	require.True(t, ok)
	assert.Equal(t, uint16(TicksPerQuarter), uint16(ticks))

	tempos := rd.TempoChanges()
	require.NotEmpty(t, tempos)
	assert.InDelta(t, float64(c.Tempo), tempos[0].BPM, 0.01)

	chordCount := 0
	for _, bar := range c.Chords {
		chordCount += len(bar.Notes)
	}

	tests := []struct {
		track   int
		notes   int
		channel uint8
	}{
		{1, len(c.Melody), melodyChannel},
		{2, chordCount, chordsChannel},
		{3, len(c.Bass), bassChannel},
		{4, len(c.Arpeggio), arpeggioChannel},
		{5, c.Drums.Count(), drumChannel},
	}
	for _, tt := range tests {
		count, channels := countNoteOns(rd.Tracks[tt.track])
		assert.Equal(t, tt.notes, count, "track %d", tt.track)
		assert.Equal(t, map[uint8]bool{tt.channel: true}, channels, "track %d", tt.track)
	}
}

func TestWriteFile(t *testing.T) {
	c := compose(t, "jazz", 2)
	path := filepath.Join(t.TempDir(), "jazz.mid")

	require.NoError(t, WriteFile(path, c))

	rd, err := smf.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, rd.Tracks, 6)
}

func TestEncode_Nil(t *testing.T) {
	_, err := Encode(nil)
	assert.Error(t, err)
}

func TestNoteTrack_OffBeforeOnAtSameTick(t *testing.T) {
	notes := []models.Note{
		{Pitch: 60, Velocity: 90, Start: 0, Duration: 1},
		{Pitch: 60, Velocity: 90, Start: 1, Duration: 1},
	}
	track := noteTrack("test", 0, 0, notes)

	var kinds []string
	for _, ev := range track {
		var ch, key, vel uint8
		switch {
		case ev.Message.GetNoteOn(&ch, &key, &vel):
			kinds = append(kinds, "on")
		case ev.Message.GetNoteOff(&ch, &key, &vel):
			kinds = append(kinds, "off")
		}
	}
	assert.Equal(t, []string{"on", "off", "on", "off"}, kinds)
}

type keyEvent struct {
	kind string
	key  uint8
	tick uint32
}

func keyEvents(track smf.Track) []keyEvent {
	var out []keyEvent
	var tick uint32
	for _, ev := range track {
		tick += ev.Delta
		var ch, key, vel uint8
		switch {
		case ev.Message.GetNoteOn(&ch, &key, &vel):
			out = append(out, keyEvent{"on", key, tick})
		case ev.Message.GetNoteOff(&ch, &key, &vel):
			out = append(out, keyEvent{"off", key, tick})
		}
	}
	return out
}

func TestNoteTrack_OverlappingSamePitch(t *testing.T) {
	const q = TicksPerQuarter

	tests := []struct {
		name  string
		notes []models.Note
		want  []keyEvent
	}{
		{
			name: "later note outlasts the earlier one",
			notes: []models.Note{
				{Pitch: 60, Velocity: 90, Start: 0, Duration: 2},
				{Pitch: 60, Velocity: 90, Start: 1, Duration: 2},
			},
			want: []keyEvent{
				{"on", 60, 0},
				{"off", 60, q},
				{"on", 60, q},
				{"off", 60, 3 * q},
			},
		},
		{
			name: "later note inside the earlier one",
			notes: []models.Note{
				{Pitch: 60, Velocity: 90, Start: 0, Duration: 4},
				{Pitch: 60, Velocity: 90, Start: 1, Duration: 1},
			},
			want: []keyEvent{
				{"on", 60, 0},
				{"off", 60, q},
				{"on", 60, q},
				{"off", 60, 2 * q},
			},
		},
		{
			name: "other pitches are untouched",
			notes: []models.Note{
				{Pitch: 60, Velocity: 90, Start: 0, Duration: 2},
				{Pitch: 64, Velocity: 90, Start: 1, Duration: 2},
			},
			want: []keyEvent{
				{"on", 60, 0},
				{"on", 64, q},
				{"off", 60, 2 * q},
				{"off", 64, 3 * q},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := noteTrack("test", 0, 0, tt.notes)
			assert.Equal(t, tt.want, keyEvents(track))
		})
	}
}

func TestPrograms(t *testing.T) {
	tests := []struct {
		name        string
		instruments []string
		melody      uint8
		chords      uint8
	}{
		{"guitar lead", []string{"guitar", "organ"}, programAcousticGuitar, programOrgan},
		{"synth", []string{"808", "synth_lead"}, programLeadSynth, programPad},
		{"sax", []string{"saxophone", "piano"}, programTenorSax, programPiano},
		{"violin", []string{"violin", "strings"}, programViolin, programPiano},
		{"empty", nil, programPiano, programPiano},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.melody, melodyProgram(tt.instruments))
			assert.Equal(t, tt.chords, chordsProgram(tt.instruments))
		})
	}

	assert.Equal(t, programSynthBass, bassProgram("808_bass"))
	assert.Equal(t, programSynthBass, bassProgram("synth_bass"))
	assert.Equal(t, programElectricBass, bassProgram("walking"))
}

func TestBeatsToTicks(t *testing.T) {
	assert.Equal(t, uint32(0), beatsToTicks(0))
	assert.Equal(t, uint32(0), beatsToTicks(-1))
	assert.Equal(t, uint32(960), beatsToTicks(1))
	assert.Equal(t, uint32(2160), beatsToTicks(2.25))
	assert.Equal(t, uint32(120), beatsToTicks(0.125))
}
