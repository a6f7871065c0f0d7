package midifile

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/composer"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/models"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// TicksPerQuarter is the file resolution
const TicksPerQuarter = 960

// MIDI channels per part; drums use the General MIDI percussion channel
const (
	melodyChannel   uint8 = 0
	chordsChannel   uint8 = 1
	bassChannel     uint8 = 2
	arpeggioChannel uint8 = 3
	drumChannel     uint8 = 9
)

// General MIDI programs
const (
	programPiano          uint8 = 0
	programOrgan          uint8 = 16
	programAcousticGuitar uint8 = 25
	programElectricBass   uint8 = 33
	programSynthBass      uint8 = 38
	programViolin         uint8 = 40
	programTenorSax       uint8 = 66
	programLeadSynth      uint8 = 81
	programPad            uint8 = 89
)

// Encode renders a composition as a format 1 SMF: a tempo and meter track
// followed by melody, chords, bass, arpeggio and drums
func Encode(c *composer.Composition) (*smf.SMF, error) {
	if c == nil {
		return nil, fmt.Errorf("composition is nil")
	}

	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var conductor smf.Track
	conductor.Add(0, smf.MetaTrackSequenceName(c.GenreName))
	conductor.Add(0, smf.MetaMeter(uint8(c.TimeSignature.Beats), uint8(c.TimeSignature.Unit)))
	conductor.Add(0, smf.MetaTempo(float64(c.Tempo)))
	conductor.Close(0)
	if err := sm.Add(conductor); err != nil {
		return nil, fmt.Errorf("error adding tempo track: %w", err)
	}

	chordNotes := make([]models.Note, 0, len(c.Chords)*4)
	for _, bar := range c.Chords {
		chordNotes = append(chordNotes, bar.Notes...)
	}
	drumNotes := make([]models.Note, 0, c.Drums.Count())
	for _, voice := range models.DrumVoices {
		drumNotes = append(drumNotes, c.Drums[voice]...)
	}

	parts := []struct {
		name    string
		channel uint8
		program uint8
		notes   []models.Note
	}{
		{"Melody", melodyChannel, melodyProgram(c.Instruments), c.Melody},
		{"Chords", chordsChannel, chordsProgram(c.Instruments), chordNotes},
		{"Bass", bassChannel, bassProgram(c.BassStyle), c.Bass},
		{"Arpeggio", arpeggioChannel, programPiano, c.Arpeggio},
		{"Drums", drumChannel, 0, drumNotes},
	}

	for _, p := range parts {
		track := noteTrack(p.name, p.channel, p.program, p.notes)
		if err := sm.Add(track); err != nil {
			return nil, fmt.Errorf("error adding %s track: %w", strings.ToLower(p.name), err)
		}
	}

	return sm, nil
}

// Write encodes the composition to w
func Write(w io.Writer, c *composer.Composition) error {
	sm, err := Encode(c)
	if err != nil {
		return err
	}
	if _, err := sm.WriteTo(w); err != nil {
		return fmt.Errorf("error writing MIDI data: %w", err)
	}
	return nil
}

// WriteFile encodes the composition to a file at path
func WriteFile(path string, c *composer.Composition) error {
	sm, err := Encode(c)
	if err != nil {
		return err
	}
	if err := sm.WriteFile(path); err != nil {
		return fmt.Errorf("error writing MIDI file: %w", err)
	}
	return nil
}

type event struct {
	tick uint32
	off  bool
	note int
	key  uint8
	msg  midi.Message
}

func noteTrack(name string, channel, program uint8, notes []models.Note) smf.Track {
	events := make([]event, 0, len(notes)*2)
	for i, n := range notes {
		on := beatsToTicks(n.Start)
		off := beatsToTicks(n.End())
		if off <= on {
			off = on + 1
		}
		key := uint8(n.Pitch)
		events = append(events,
			event{tick: on, note: i, key: key, msg: midi.NoteOn(channel, key, uint8(n.Velocity))},
			event{tick: off, off: true, note: i, key: key, msg: midi.NoteOff(channel, key)},
		)
	}

	// Releases go first so a repeated pitch is not cut short by its own note-off
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(name))
	if channel != drumChannel {
		track.Add(0, midi.ProgramChange(channel, program))
	}

	// A key sounds for one note at a time. A note-on over a sounding key ends
	// the earlier note there, and only the latest note's release is written.
	sounding := map[uint8]int{}
	var last uint32
	emit := func(tick uint32, msg midi.Message) {
		track.Add(tick-last, msg)
		last = tick
	}
	for _, ev := range events {
		owner, busy := sounding[ev.key]
		if ev.off {
			if busy && owner == ev.note {
				emit(ev.tick, ev.msg)
				delete(sounding, ev.key)
			}
			continue
		}
		if busy {
			emit(ev.tick, midi.NoteOff(channel, ev.key))
		}
		emit(ev.tick, ev.msg)
		sounding[ev.key] = ev.note
	}
	track.Close(0)
	return track
}

func beatsToTicks(beats float64) uint32 {
	if beats <= 0 {
		return 0
	}
	return uint32(math.Round(beats * TicksPerQuarter))
}

func melodyProgram(instruments []string) uint8 {
	all := strings.Join(instruments, " ")
	switch {
	case len(instruments) > 0 && strings.Contains(instruments[0], "guitar"):
		return programAcousticGuitar
	case strings.Contains(all, "synth"):
		return programLeadSynth
	case strings.Contains(all, "saxophone"):
		return programTenorSax
	case strings.Contains(all, "violin"):
		return programViolin
	default:
		return programPiano
	}
}

func chordsProgram(instruments []string) uint8 {
	all := strings.Join(instruments, " ")
	switch {
	case strings.Contains(all, "organ"):
		return programOrgan
	case strings.Contains(all, "synth"):
		return programPad
	default:
		return programPiano
	}
}

func bassProgram(style string) uint8 {
	switch {
	case strings.Contains(style, "808"), strings.Contains(style, "trap"), strings.Contains(style, "synth"):
		return programSynthBass
	default:
		return programElectricBass
	}
}
