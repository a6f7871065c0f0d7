package models

// Note represents a single musical note with timing and pitch information.
// Start and Duration are measured in beats from the start of the track.
type Note struct {
	Pitch    int     `json:"pitch"`
	Velocity int     `json:"velocity"`
	Start    float64 `json:"startBeats"`
	Duration float64 `json:"durationBeats"`
}

// End returns the beat at which the note stops sounding
func (n Note) End() float64 {
	return n.Start + n.Duration
}

// ChordBar holds the simultaneous chord tones for one bar
type ChordBar struct {
	Bar   int    `json:"bar"`
	Notes []Note `json:"notes"`
}

// Drum voice names used as keys of a DrumKit
const (
	VoiceKick  = "kick"
	VoiceSnare = "snare"
	VoiceHiHat = "hihat"
	VoiceOther = "other"
)

// DrumVoices lists the voices of a DrumKit in a stable order
var DrumVoices = []string{VoiceKick, VoiceSnare, VoiceHiHat, VoiceOther}

// DrumKit maps a drum voice name to its ordered note sequence
type DrumKit map[string][]Note

// NewDrumKit returns a kit with every voice present and empty
func NewDrumKit() DrumKit {
	kit := make(DrumKit, len(DrumVoices))
	for _, voice := range DrumVoices {
		kit[voice] = []Note{}
	}
	return kit
}

// Count returns the total number of notes across all voices
func (k DrumKit) Count() int {
	total := 0
	for _, notes := range k {
		total += len(notes)
	}
	return total
}
