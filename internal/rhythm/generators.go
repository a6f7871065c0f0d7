package rhythm

import (
	"math/rand"
	"time"
)

// Intensity is the strength of one rhythmic step: 0 rest, 1 soft, 2 medium, 3 hard
type Intensity int

const (
	Rest Intensity = iota
	Soft
	Medium
	Hard
)

// StepsPerBar is the number of sixteenth-note steps in a 4/4 bar
const StepsPerBar = 16

// StepBeats is the length of one step in beats
const StepBeats = 0.25

// Generator produces intensity sequences
type Generator interface {
	Generate(length int) []Intensity
}

// NewRand returns a stream seeded with seed, or with the clock when seed is nil
func NewRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// transitions[from][to] is the probability of moving between intensities
var transitions = [4][4]float64{
	{0.3, 0.4, 0.2, 0.1}, // rest
	{0.4, 0.2, 0.3, 0.1}, // soft
	{0.3, 0.3, 0.2, 0.2}, // medium
	{0.5, 0.2, 0.2, 0.1}, // hard
}

// MarkovGenerator walks a fixed four-state transition matrix
type MarkovGenerator struct {
	rng   *rand.Rand
	Start Intensity
}

// NewMarkovGenerator creates a chain that starts on a rest
func NewMarkovGenerator(rng *rand.Rand) *MarkovGenerator {
	return &MarkovGenerator{rng: rng, Start: Rest}
}

// Generate returns length states, the first being the start state
func (g *MarkovGenerator) Generate(length int) []Intensity {
	if length <= 0 {
		return []Intensity{}
	}

	state := clampIntensity(g.Start, Rest, Hard)
	pattern := make([]Intensity, 0, length)
	pattern = append(pattern, state)
	for len(pattern) < length {
		state = Intensity(weightedChoice(g.rng, transitions[state][:]))
		pattern = append(pattern, state)
	}
	return pattern
}

var walkSteps = []int{-1, 0, 1}
var walkWeights = []float64{0.3, 0.4, 0.3}

// RandomWalkGenerator produces a bounded random walk over intensities
type RandomWalkGenerator struct {
	rng *rand.Rand
	Min Intensity
	Max Intensity
}

// NewRandomWalkGenerator creates a walk over the full intensity range
func NewRandomWalkGenerator(rng *rand.Rand) *RandomWalkGenerator {
	return &RandomWalkGenerator{rng: rng, Min: Rest, Max: Hard}
}

// Generate starts uniformly inside the bounds and takes weighted steps of -1, 0 or +1
func (g *RandomWalkGenerator) Generate(length int) []Intensity {
	if length <= 0 {
		return []Intensity{}
	}

	lo, hi := g.Min, g.Max
	if lo > hi {
		lo, hi = hi, lo
	}

	value := lo + Intensity(g.rng.Intn(int(hi-lo)+1))
	pattern := make([]Intensity, 0, length)
	pattern = append(pattern, value)
	for len(pattern) < length {
		step := walkSteps[weightedChoice(g.rng, walkWeights)]
		value = clampIntensity(value+Intensity(step), lo, hi)
		pattern = append(pattern, value)
	}
	return pattern
}

// FractalGenerator builds a self-similar cell by repeated subdivision
type FractalGenerator struct {
	rng   *rand.Rand
	Depth int
}

// NewFractalGenerator creates a generator with four subdivision passes
func NewFractalGenerator(rng *rand.Rand) *FractalGenerator {
	return &FractalGenerator{rng: rng, Depth: 4}
}

// Cell returns one bar of StepsPerBar steps. Each pass splits every value v
// into {v, v+jitter} with probability 0.6, otherwise into {v, rest}.
// Splitting stops once a pass has filled the bar, so memory stays bounded
// for any Depth.
func (g *FractalGenerator) Cell() []Intensity {
	pattern := []Intensity{Medium}
	for i := 0; i < g.Depth; i++ {
		next := make([]Intensity, 0, min(len(pattern)*2, StepsPerBar))
		for _, v := range pattern {
			if len(next) >= StepsPerBar {
				break
			}
			if g.rng.Float64() < 0.6 {
				jitter := Intensity(g.rng.Intn(3) - 1)
				next = append(next, v, clampIntensity(v+jitter, Rest, Hard))
			} else {
				next = append(next, v, Rest)
			}
		}
		pattern = next
	}

	cell := make([]Intensity, StepsPerBar)
	copy(cell, pattern)
	return cell
}

// Generate tiles a fresh cell to the requested length
func (g *FractalGenerator) Generate(length int) []Intensity {
	if length <= 0 {
		return []Intensity{}
	}
	cell := g.Cell()
	pattern := make([]Intensity, length)
	for i := range pattern {
		pattern[i] = cell[i%len(cell)]
	}
	return pattern
}

func weightedChoice(rng *rand.Rand, weights []float64) int {
	r := rng.Float64()
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

func clampIntensity(v, lo, hi Intensity) Intensity {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
