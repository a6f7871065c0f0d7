package composer

import (
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/genres"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/models"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/rhythm"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/theory"
)

const (
	// RootPitch is middle C; every session scale starts here
	RootPitch = 60

	scaleOctaves = 2
)

// track salts keep the per-track random streams of a seeded session apart
type track int64

const (
	trackMelody track = iota + 1
	trackChords
	trackBass
	trackDrums
	trackArpeggio
)

const streamStride = 1_000_003

// Session holds one composition run's shared, read-only musical context:
// the resolved genre, the concrete scale, tempo and time signature.
// Track generators may be called any number of times and from several
// goroutines at once.
type Session struct {
	genre   *genres.Genre
	scale   []int
	tempo   int
	timeSig models.TimeSignature
	seed    *int64

	// rng feeds per-call seeds to unseeded sessions
	mu  sync.Mutex
	rng *rand.Rand

	source   SuggestionSource
	failures atomic.Int64
}

// NewSession resolves genreID against the embedded genre table and fixes the
// session's scale, tempo and time signature. A nil seed gives a clock-seeded
// session whose output is not reproducible.
func NewSession(genreID string, seed *int64) (*Session, error) {
	return NewSessionFromRegistry(genres.Default(), genreID, seed)
}

// NewSessionFromRegistry is NewSession against an explicit genre table
func NewSessionFromRegistry(registry *genres.Registry, genreID string, seed *int64) (*Session, error) {
	genre, err := registry.Resolve(genreID)
	if err != nil {
		if errors.Is(err, genres.ErrGenreNotFound) {
			return nil, &UnknownGenreError{ID: genreID}
		}
		return nil, err
	}

	s := &Session{
		genre: genre,
		rng:   rhythm.NewRand(seed),
	}
	if seed != nil {
		v := *seed
		s.seed = &v
	}

	// Draw order is part of the reproducibility contract: scale, tempo, meter
	scaleType := genre.Scales[s.rng.Intn(len(genre.Scales))]
	s.scale = theory.ScaleNotes(RootPitch, scaleType, scaleOctaves)
	s.tempo = genre.TempoRange[0] + s.rng.Intn(genre.TempoRange[1]-genre.TempoRange[0]+1)
	s.timeSig = genre.TimeSignatures[s.rng.Intn(len(genre.TimeSignatures))]

	return s, nil
}

// Genre returns the resolved genre parameters
func (s *Session) Genre() *genres.Genre {
	return s.genre
}

// Scale returns a copy of the session scale, ascending absolute pitches
func (s *Session) Scale() []int {
	out := make([]int, len(s.scale))
	copy(out, s.scale)
	return out
}

// Tempo returns the session tempo in BPM
func (s *Session) Tempo() int {
	return s.tempo
}

// TimeSignature returns the session time signature
func (s *Session) TimeSignature() models.TimeSignature {
	return s.timeSig
}

// BeatsPerBar is the numerator of the time signature
func (s *Session) BeatsPerBar() int {
	return s.timeSig.Beats
}

// Seed returns the session seed, or nil for an unseeded session
func (s *Session) Seed() *int64 {
	if s.seed == nil {
		return nil
	}
	v := *s.seed
	return &v
}

// AttachSuggestionSource enables suggestion blending for melody and bass.
// Passing nil disables it.
func (s *Session) AttachSuggestionSource(src SuggestionSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = src
}

// SuggestionFailures counts suggestions that were discarded because the
// source failed, panicked or returned invalid data
func (s *Session) SuggestionFailures() int64 {
	return s.failures.Load()
}

func (s *Session) suggestionSource() SuggestionSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// stream returns the random stream for one generate call. Seeded sessions
// rebuild the same stream for a track every time, so regenerating a track
// repeats it exactly and never disturbs another track.
func (s *Session) stream(t track) *rand.Rand {
	if s.seed != nil {
		return rand.New(rand.NewSource(*s.seed + int64(t)*streamStride))
	}

	s.mu.Lock()
	callSeed := s.rng.Int63()
	s.mu.Unlock()
	return rand.New(rand.NewSource(callSeed))
}

// velocity draws uniformly from the genre's velocity range, inclusive
func (s *Session) velocity(rng *rand.Rand) int {
	lo, hi := s.genre.VelocityRange[0], s.genre.VelocityRange[1]
	return lo + rng.Intn(hi-lo+1)
}

func (s *Session) barLength() float64 {
	return float64(s.timeSig.Beats)
}
