package theory

import (
	"math"
	"math/rand"
)

// MIDI value bounds
const (
	MinPitch    = 0
	MaxPitch    = 127
	MinVelocity = 1
	MaxVelocity = 127
)

// Swing delay per unit of swing amount, in beats
const swingDelay = 0.15

// MelodyJitter is the set of onset shifts used for melodic syncopation
var MelodyJitter = []float64{0.25, -0.25, 0.5}

// ApplySwing delays off-beats (fractional beat part >= 0.5) by swing*0.15 beats.
// On-beats and a zero swing amount leave the beat untouched.
func ApplySwing(beat, swing float64) float64 {
	if swing == 0 {
		return beat
	}
	if beat-math.Floor(beat) >= 0.5 {
		return beat + swing*swingDelay
	}
	return beat
}

// ApplySyncopation shifts beat by one of the jitter choices with the given
// probability. The result never goes below zero.
func ApplySyncopation(rng *rand.Rand, beat, probability float64, jitter []float64) float64 {
	if len(jitter) == 0 {
		return beat
	}
	if rng.Float64() < probability {
		beat += jitter[rng.Intn(len(jitter))]
		if beat < 0 {
			beat = 0
		}
	}
	return beat
}

// ClampVelocity keeps a velocity inside the audible MIDI range 1-127
func ClampVelocity(velocity int) int {
	if velocity < MinVelocity {
		return MinVelocity
	}
	if velocity > MaxVelocity {
		return MaxVelocity
	}
	return velocity
}

// ClampPitch keeps a pitch inside the MIDI range 0-127
func ClampPitch(pitch int) int {
	if pitch < MinPitch {
		return MinPitch
	}
	if pitch > MaxPitch {
		return MaxPitch
	}
	return pitch
}
