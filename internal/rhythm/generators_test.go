package rhythm

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func assertInRange(t *testing.T, pattern []Intensity, lo, hi Intensity) {
	t.Helper()
	for i, v := range pattern {
		assert.GreaterOrEqual(t, v, lo, "step %d", i)
		assert.LessOrEqual(t, v, hi, "step %d", i)
	}
}

func TestGenerators_Length(t *testing.T) {
	generators := map[string]Generator{
		"markov":  NewMarkovGenerator(seeded(1)),
		"walk":    NewRandomWalkGenerator(seeded(2)),
		"fractal": NewFractalGenerator(seeded(3)),
	}

	for name, gen := range generators {
		t.Run(name, func(t *testing.T) {
			for _, length := range []int{1, 7, 16, 64} {
				pattern := gen.Generate(length)
				require.Len(t, pattern, length)
				assertInRange(t, pattern, Rest, Hard)
			}

			assert.Empty(t, gen.Generate(0))
			assert.Empty(t, gen.Generate(-4))
		})
	}
}

func TestMarkovGenerator_StartState(t *testing.T) {
	gen := NewMarkovGenerator(seeded(7))
	assert.Equal(t, Rest, gen.Generate(16)[0])

	gen.Start = Hard
	assert.Equal(t, Hard, gen.Generate(16)[0])
}

func TestMarkovGenerator_Deterministic(t *testing.T) {
	a := NewMarkovGenerator(seeded(42)).Generate(64)
	b := NewMarkovGenerator(seeded(42)).Generate(64)
	assert.Equal(t, a, b)
}

func TestRandomWalkGenerator_StepsByAtMostOne(t *testing.T) {
	gen := NewRandomWalkGenerator(seeded(11))
	pattern := gen.Generate(256)
	for i := 1; i < len(pattern); i++ {
		diff := pattern[i] - pattern[i-1]
		assert.True(t, diff >= -1 && diff <= 1, "step %d jumped by %d", i, diff)
	}
}

func TestRandomWalkGenerator_Bounds(t *testing.T) {
	gen := NewRandomWalkGenerator(seeded(5))
	gen.Min = Soft
	gen.Max = Medium
	assertInRange(t, gen.Generate(128), Soft, Medium)
}

func TestFractalGenerator_Cell(t *testing.T) {
	t.Run("default depth fills the bar", func(t *testing.T) {
		cell := NewFractalGenerator(seeded(9)).Cell()
		require.Len(t, cell, StepsPerBar)
		assert.Equal(t, Medium, cell[0], "first value never changes")
		assertInRange(t, cell, Rest, Hard)
	})

	t.Run("shallow depth pads with rests", func(t *testing.T) {
		gen := NewFractalGenerator(seeded(9))
		gen.Depth = 2
		cell := gen.Cell()
		require.Len(t, cell, StepsPerBar)
		for _, v := range cell[4:] {
			assert.Equal(t, Rest, v)
		}
	})

	t.Run("deep depth truncates", func(t *testing.T) {
		gen := NewFractalGenerator(seeded(9))
		gen.Depth = 6
		assert.Len(t, gen.Cell(), StepsPerBar)
	})

	t.Run("very deep depth stays one bar", func(t *testing.T) {
		gen := NewFractalGenerator(seeded(9))
		gen.Depth = 40
		cell := gen.Cell()
		require.Len(t, cell, StepsPerBar)
		assert.Equal(t, Medium, cell[0])
		assertInRange(t, cell, Rest, Hard)
	})
}

func TestFractalGenerator_GenerateTiles(t *testing.T) {
	pattern := NewFractalGenerator(seeded(21)).Generate(48)
	require.Len(t, pattern, 48)
	assert.Equal(t, pattern[:16], pattern[16:32])
	assert.Equal(t, pattern[:16], pattern[32:48])
}

func TestNewRand(t *testing.T) {
	seed := int64(99)
	a := NewRand(&seed)
	b := NewRand(&seed)
	assert.Equal(t, a.Int63(), b.Int63())

	assert.NotNil(t, NewRand(nil))
}
