package composer

import (
	"math/rand"
	"testing"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/genres"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func starts(notes []models.Note) []float64 {
	out := make([]float64, len(notes))
	for i, n := range notes {
		out[i] = n.Start
	}
	return out
}

func TestDrums_TrapKickTemplate(t *testing.T) {
	s := newSession(t, "trap", 42)
	require.Equal(t, 4, s.BeatsPerBar())

	drums := s.GenerateDrums(4)

	var want []float64
	for bar := 0; bar < 4; bar++ {
		want = append(want, float64(bar*4), float64(bar*4)+2.25)
	}
	assert.Equal(t, want, starts(drums[models.VoiceKick]))
	for _, n := range drums[models.VoiceKick] {
		assert.Equal(t, KickNote, n.Pitch)
	}

	assert.Len(t, drums[models.VoiceHiHat], 64)
	assert.Len(t, drums[models.VoiceSnare], 8)
	assert.Empty(t, drums[models.VoiceOther])
}

func TestDrums_NoneIsEmpty(t *testing.T) {
	s := newSession(t, "ambient", 42)
	require.Equal(t, "none", s.Genre().DrumPattern)

	drums := s.GenerateDrums(4)
	assert.Empty(t, drums[models.VoiceKick])
	assert.Zero(t, drums.Count())
	assert.Len(t, drums, len(models.DrumVoices))
}

func TestDrums_Families(t *testing.T) {
	tests := []struct {
		tag    string
		family DrumFamily
	}{
		{"house", DrumsFourOnFloor},
		{"techno", DrumsFourOnFloor},
		{"rock_heavy", DrumsRock},
		{"drill", DrumsTrap},
		{"hip_hop", DrumsBoomBap},
		{"bebop", DrumsJazz},
		{"latin_clave", DrumsClave},
		{"reggae", DrumsOneDrop},
		{"idm", DrumsAlgorithmic},
		{"none", DrumsNone},
		{"palmas", DrumsDefault},
		{"", DrumsDefault},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.family, ResolveDrumFamily(tt.tag))
		})
	}

	for family := range drumTemplates {
		assert.NotEqual(t, DrumsAlgorithmic, family)
	}
}

func TestDrums_Templates(t *testing.T) {
	t.Run("four on the floor", func(t *testing.T) {
		drums := newSession(t, "house", 1).GenerateDrums(2)
		assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6, 7}, starts(drums[models.VoiceKick]))
		assert.Equal(t, []float64{1, 3, 5, 7}, starts(drums[models.VoiceSnare]))
		assert.Len(t, drums[models.VoiceHiHat], 16)
	})

	t.Run("clave alternates 3-2", func(t *testing.T) {
		drums := newSession(t, "salsa", 1).GenerateDrums(2)
		assert.Equal(t, []float64{0, 1.5, 2.5, 5, 6}, starts(drums[models.VoiceOther]))
		for _, n := range drums[models.VoiceOther] {
			assert.Equal(t, WoodblockNote, n.Pitch)
		}
		assert.Equal(t, []float64{2.5, 6.5}, starts(drums[models.VoiceKick]))
	})

	t.Run("one drop", func(t *testing.T) {
		drums := newSession(t, "reggae", 1).GenerateDrums(1)
		assert.Equal(t, []float64{2}, starts(drums[models.VoiceKick]))
		assert.Equal(t, []float64{2}, starts(drums[models.VoiceSnare]))
	})

	t.Run("jazz rides every beat", func(t *testing.T) {
		s := newSession(t, "bebop", 1)
		drums := s.GenerateDrums(4)
		onBeats := 0
		for _, n := range drums[models.VoiceOther] {
			assert.Equal(t, RideNote, n.Pitch)
			if n.Start == float64(int(n.Start)) {
				onBeats++
			}
		}
		assert.Equal(t, 16, onBeats)
		assert.LessOrEqual(t, len(drums[models.VoiceKick]), 4)
	})

	t.Run("algorithmic", func(t *testing.T) {
		s := newSession(t, "idm", 1)
		drums := s.GenerateDrums(4)
		for _, n := range drums[models.VoiceKick] {
			assert.Equal(t, 0.0, n.Start-float64(int(n.Start)), "kick off the quarter grid at %v", n.Start)
		}
		for _, n := range drums[models.VoiceSnare] {
			offset := n.Start - float64(int(n.Start)/4*4)
			assert.Contains(t, []float64{1, 3}, offset)
		}
		assert.Equal(t, drums, newSession(t, "idm", 1).GenerateDrums(4))
	})
}

func TestDrums_HitsStayInsideBar(t *testing.T) {
	// Templates are written for four beats; shorter meters drop late hits
	for _, id := range genres.List() {
		s := newSession(t, id, 8)
		beats := float64(s.BeatsPerBar())
		bars := 3
		for voice, notes := range s.GenerateDrums(bars) {
			for _, n := range notes {
				assert.Less(t, n.Start, beats*float64(bars), "%s/%s", id, voice)
			}
		}
	}
}

func TestBass_RootFifth(t *testing.T) {
	for _, id := range []string{"rock", "punk"} {
		t.Run(id, func(t *testing.T) {
			s := newSession(t, id, 42)
			require.Equal(t, BassRootFifth, ResolveBassStyle(s.Genre().BassStyle))

			bass := s.GenerateBass(1)
			require.Len(t, bass, 2)

			root := DefaultBassRoots()[0]
			assert.Equal(t, root, bass[0].Pitch)
			assert.Equal(t, 0.0, bass[0].Start)
			assert.Equal(t, 2.0, bass[0].Duration)

			assert.Equal(t, root+7, bass[1].Pitch)
			assert.Equal(t, 2.0, bass[1].Start)
			assert.Equal(t, 2.0, bass[1].Duration)
		})
	}
}

func TestBass_Styles(t *testing.T) {
	roots := []int{40, 45}

	t.Run("walking", func(t *testing.T) {
		s := newSession(t, "jazz", 4)
		beats := s.BeatsPerBar()
		bass := s.GenerateBassWithRoots(2, roots)
		require.Len(t, bass, 2*beats)

		assert.Equal(t, 40, bass[0].Pitch)
		assert.Contains(t, []int{44, 46}, bass[beats-1].Pitch, "approach to the next root")
		assert.Equal(t, 45, bass[beats].Pitch)
		assert.Contains(t, []int{39, 41}, bass[2*beats-1].Pitch, "approach wraps to the first root")
		for _, n := range bass {
			assert.Equal(t, 1.0, n.Duration)
		}
	})

	for _, genreID := range []string{"trap", "generative_ambient"} {
		t.Run("sustained "+genreID, func(t *testing.T) {
			s := newSession(t, genreID, 4)
			assert.Equal(t, BassSustained, ResolveBassStyle(s.Genre().BassStyle))
			bass := s.GenerateBassWithRoots(3, roots)
			require.Len(t, bass, 3)
			assert.Equal(t, []int{40, 45, 40}, []int{bass[0].Pitch, bass[1].Pitch, bass[2].Pitch})
			assert.Equal(t, []float64{0, 4, 8}, starts(bass))
			for _, n := range bass {
				assert.Equal(t, 4.0, n.Duration)
			}
		})
	}

	t.Run("tumbao", func(t *testing.T) {
		s := newSession(t, "salsa", 4)
		bass := s.GenerateBassWithRoots(1, roots)
		require.Len(t, bass, 4)
		assert.Equal(t, []float64{0, 0.5, 2.5, 3}, starts(bass))
		assert.Equal(t, []int{40, 47, 40, 47}, []int{bass[0].Pitch, bass[1].Pitch, bass[2].Pitch, bass[3].Pitch})
	})

	t.Run("unknown style plays downbeats", func(t *testing.T) {
		s := newSession(t, "pop", 4)
		assert.Equal(t, BassDownbeat, ResolveBassStyle(s.Genre().BassStyle))
		bass := s.GenerateBassWithRoots(2, roots)
		assert.Equal(t, []float64{0, 2, 4, 6}, starts(bass))
	})

	t.Run("empty roots use the default progression", func(t *testing.T) {
		s := newSession(t, "pop", 4)
		assert.Equal(t, s.GenerateBass(4), s.GenerateBassWithRoots(4, nil))
	})
}

func TestBass_NeverRingsPastBar(t *testing.T) {
	for _, id := range genres.List() {
		s := newSession(t, id, 21)
		length := s.barLength()
		for _, n := range s.GenerateBass(4) {
			bar := float64(int(n.Start / length))
			assert.LessOrEqual(t, n.End(), (bar+1)*length+1e-9, "%s note at %v", id, n.Start)
		}
	}
}

func TestChords_Progressions(t *testing.T) {
	tests := []struct {
		complexity float64
		want       [][]int
	}{
		{0.1, simpleProgression},
		{0.29, simpleProgression},
		{0.3, mediumProgression},
		{0.59, mediumProgression},
		{0.6, complexProgression},
		{1, complexProgression},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, progressionFor(tt.complexity))
	}

	s := newSession(t, "jazz", 2)
	chords := s.GenerateChords(5)
	require.Len(t, chords, 5)
	length := s.barLength()
	for bar, c := range chords {
		assert.Equal(t, bar, c.Bar)
		want := complexProgression[bar%4]
		require.Len(t, c.Notes, len(want))
		for i, n := range c.Notes {
			assert.Equal(t, RootPitch+want[i], n.Pitch)
			assert.Equal(t, float64(bar)*length, n.Start)
			assert.Equal(t, length, n.Duration)
			assert.LessOrEqual(t, n.Velocity, s.Genre().VelocityRange[1]-10)
		}
	}
}

func TestArpeggiate(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	chord := []int{60, 64, 67}

	notes := Arpeggiate(rng, chord, 8, 4, [2]int{50, 70})
	require.Len(t, notes, 6)

	step := 4.0 / 6
	for i, n := range notes {
		assert.InDelta(t, 8+float64(i)*step, n.Start, 1e-9)
		assert.InDelta(t, step*1.5, n.Duration, 1e-9)
		assert.Contains(t, chord, n.Pitch)
		assert.True(t, n.Velocity >= 50 && n.Velocity <= 70)
	}

	assert.Empty(t, Arpeggiate(rng, nil, 0, 4, [2]int{50, 70}))
	assert.Empty(t, Arpeggiate(rng, chord, 0, 0, [2]int{50, 70}))
}

func TestArpeggio_UsesPatterns(t *testing.T) {
	chord := []int{60, 64, 67, 71}
	seen := map[int]bool{}
	for seed := int64(0); seed < 50; seed++ {
		notes := Arpeggiate(rand.New(rand.NewSource(seed)), chord, 0, 4, [2]int{60, 60})
		for p, pattern := range arpeggioPatterns {
			match := true
			for i, idx := range pattern {
				if notes[i].Pitch != chord[idx] {
					match = false
					break
				}
			}
			if match {
				seen[p] = true
			}
		}
	}
	assert.Len(t, seen, len(arpeggioPatterns))
}

func TestGenerateArpeggios_OctaveBelowChords(t *testing.T) {
	s := newSession(t, "pop", 6)
	chords := s.GenerateChords(2)
	arp := s.GenerateArpeggios(2)
	require.Len(t, arp, 12)

	for i, n := range arp {
		bar := i / 6
		pitches := []int{}
		for _, c := range chords[bar].Notes {
			pitches = append(pitches, c.Pitch-12)
		}
		assert.Contains(t, pitches, n.Pitch)
	}
}
