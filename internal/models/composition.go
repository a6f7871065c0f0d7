package models

// CompositionRequest wraps the caller's generation parameters
type CompositionRequest struct {
	Genre          string `json:"genre" binding:"required"`
	Bars           int    `json:"bars"`
	Seed           *int64 `json:"seed,omitempty"` // Optional seed for reproducibility
	UseSuggestions bool   `json:"use_suggestions"`

	// Suggestion source overrides (defaults come from config)
	Model    string `json:"model,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// TimeSignature is a (beats per bar, beat unit) pair
type TimeSignature struct {
	Beats int `json:"beats"`
	Unit  int `json:"unit"`
}

// CompositionResponse is the JSON shape of a generated composition
type CompositionResponse struct {
	ID                 string        `json:"id"`
	Genre              string        `json:"genre"`
	Bars               int           `json:"bars"`
	Seed               *int64        `json:"seed,omitempty"`
	Tempo              int           `json:"tempo"`
	TimeSignature      TimeSignature `json:"timeSignature"`
	Scale              []int         `json:"scale"`
	Melody             []Note        `json:"melody"`
	Chords             []ChordBar    `json:"chords"`
	Bass               []Note        `json:"bass"`
	Arpeggio           []Note        `json:"arpeggio"`
	Drums              DrumKit       `json:"drums"`
	SuggestionFailures int64         `json:"suggestionFailures,omitempty"`
	Cached             bool          `json:"cached"`
}
