package composer

import (
	"math/rand"

	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/models"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/rhythm"
	"github.com/DSoftware-Dannekmr/Dneurtrain-Mus/internal/theory"
)

// General MIDI percussion keys
const (
	KickNote      = 36
	SnareNote     = 38
	HiHatNote     = 42
	RideNote      = 51
	WoodblockNote = 76
)

// DrumFamily is a drum pattern template family
type DrumFamily string

const (
	DrumsFourOnFloor DrumFamily = "four_on_floor"
	DrumsRock        DrumFamily = "rock"
	DrumsTrap        DrumFamily = "trap"
	DrumsBoomBap     DrumFamily = "boom_bap"
	DrumsJazz        DrumFamily = "jazz"
	DrumsClave       DrumFamily = "clave"
	DrumsOneDrop     DrumFamily = "one_drop"
	DrumsAlgorithmic DrumFamily = "algorithmic"
	DrumsNone        DrumFamily = "none"
	DrumsDefault     DrumFamily = "default"
)

// drumFamilies maps genre drum_pattern tags to template families.
// Tags not listed here play DrumsDefault.
var drumFamilies = map[string]DrumFamily{
	"four_on_floor": DrumsFourOnFloor,
	"house":         DrumsFourOnFloor,
	"techno":        DrumsFourOnFloor,
	"rock_basic":    DrumsRock,
	"rock_heavy":    DrumsRock,
	"trap":          DrumsTrap,
	"drill":         DrumsTrap,
	"boom_bap":      DrumsBoomBap,
	"hip_hop":       DrumsBoomBap,
	"jazz":          DrumsJazz,
	"bebop":         DrumsJazz,
	"swing":         DrumsJazz,
	"salsa_clave":   DrumsClave,
	"latin_clave":   DrumsClave,
	"reggae":        DrumsOneDrop,
	"one_drop":      DrumsOneDrop,
	"algorithmic":   DrumsAlgorithmic,
	"generative":    DrumsAlgorithmic,
	"idm":           DrumsAlgorithmic,
	"none":          DrumsNone,
}

// ResolveDrumFamily returns the family for a drum_pattern tag
func ResolveDrumFamily(tag string) DrumFamily {
	if family, ok := drumFamilies[tag]; ok {
		return family
	}
	return DrumsDefault
}

// drumWriter collects hits for one bar, dropping any that land at or past the bar end
type drumWriter struct {
	s     *Session
	rng   *rand.Rand
	kit   models.DrumKit
	bar   int
	start float64
	beats int
}

func (w *drumWriter) hit(voice string, pitch, velocity int, offset, duration float64) {
	if offset < 0 || offset >= float64(w.beats) {
		return
	}
	w.kit[voice] = append(w.kit[voice], models.Note{
		Pitch:    pitch,
		Velocity: theory.ClampVelocity(velocity),
		Start:    w.start + offset,
		Duration: duration,
	})
}

// vel draws a genre velocity shifted by offset
func (w *drumWriter) vel(offset int) int {
	return w.s.velocity(w.rng) + offset
}

type drumBarTemplate func(w *drumWriter)

var drumTemplates = map[DrumFamily]drumBarTemplate{
	DrumsFourOnFloor: fourOnFloorBar,
	DrumsRock:        rockBar,
	DrumsTrap:        trapBar,
	DrumsBoomBap:     boomBapBar,
	DrumsJazz:        jazzBar,
	DrumsClave:       claveBar,
	DrumsOneDrop:     oneDropBar,
	DrumsNone:        func(*drumWriter) {},
	DrumsDefault:     backbeatBar,
}

// GenerateDrums returns a drum kit whose voices each hold time-ordered notes
func (s *Session) GenerateDrums(bars int) models.DrumKit {
	kit := models.NewDrumKit()
	if bars <= 0 {
		return kit
	}

	rng := s.stream(trackDrums)
	family := ResolveDrumFamily(s.genre.DrumPattern)

	if family == DrumsAlgorithmic {
		s.algorithmicDrums(rng, bars, kit)
	} else {
		template := drumTemplates[family]
		for bar := 0; bar < bars; bar++ {
			template(&drumWriter{
				s:     s,
				rng:   rng,
				kit:   kit,
				bar:   bar,
				start: float64(bar) * s.barLength(),
				beats: s.BeatsPerBar(),
			})
		}
	}

	for _, voice := range models.DrumVoices {
		sortByStart(kit[voice])
	}
	return kit
}

func fourOnFloorBar(w *drumWriter) {
	for beat := 0; beat < w.beats; beat++ {
		b := float64(beat)
		w.hit(models.VoiceKick, KickNote, w.vel(0), b, 0.5)
		if beat%2 == 1 {
			w.hit(models.VoiceSnare, SnareNote, w.vel(0), b, 0.5)
		}
		w.hit(models.VoiceHiHat, HiHatNote, w.vel(-20), b, 0.25)
		w.hit(models.VoiceHiHat, HiHatNote, w.vel(-30), b+0.5, 0.25)
	}
}

func rockBar(w *drumWriter) {
	w.hit(models.VoiceKick, KickNote, w.vel(0), 0, 0.5)
	w.hit(models.VoiceKick, KickNote, w.vel(0), 2.5, 0.5)
	w.hit(models.VoiceSnare, SnareNote, w.vel(0), 1, 0.5)
	w.hit(models.VoiceSnare, SnareNote, w.vel(0), 3, 0.5)
	eighthHats(w)
}

// trapBar is a sparse kick and backbeat under sixteenth-note hi-hat rolls
func trapBar(w *drumWriter) {
	w.hit(models.VoiceKick, KickNote, w.vel(0), 0, 1.0)
	w.hit(models.VoiceKick, KickNote, w.vel(0), 2.25, 0.5)
	w.hit(models.VoiceSnare, SnareNote, w.vel(0), 1, 0.5)
	w.hit(models.VoiceSnare, SnareNote, w.vel(0), 3, 0.5)
	for i := 0; i < rhythm.StepsPerBar; i++ {
		velocity := w.vel(-30) + w.rng.Intn(20) - 10
		w.hit(models.VoiceHiHat, HiHatNote, velocity, float64(i)*rhythm.StepBeats, 0.125)
	}
}

func boomBapBar(w *drumWriter) {
	w.hit(models.VoiceKick, KickNote, w.vel(0), 0, 0.5)
	w.hit(models.VoiceKick, KickNote, w.vel(0), 2.5, 0.5)
	w.hit(models.VoiceSnare, SnareNote, w.vel(0), 1, 0.5)
	w.hit(models.VoiceSnare, SnareNote, w.vel(0), 3.25, 0.5)
	for i := 0; i < 4; i++ {
		w.hit(models.VoiceHiHat, HiHatNote, w.vel(-20), float64(i), 0.5)
	}
}

// jazzBar rides every beat with an occasional skip note and sparse kick comping
func jazzBar(w *drumWriter) {
	for beat := 0; beat < w.beats; beat++ {
		b := float64(beat)
		w.hit(models.VoiceOther, RideNote, w.vel(-10), b, 0.5)
		if w.rng.Float64() < 0.5 {
			w.hit(models.VoiceOther, RideNote, w.vel(-20), b+0.66, 0.25)
		}
	}
	if w.rng.Float64() < 0.3 {
		velocity := w.vel(-20)
		offset := []float64{0, 2}[w.rng.Intn(2)]
		w.hit(models.VoiceKick, KickNote, velocity, offset, 0.5)
	}
}

// claveBar plays a 3-2 son clave on woodblock across bar pairs
func claveBar(w *drumWriter) {
	pattern := []float64{1, 2}
	if w.bar%2 == 0 {
		pattern = []float64{0, 1.5, 2.5}
	}
	for _, offset := range pattern {
		w.hit(models.VoiceOther, WoodblockNote, w.vel(0), offset, 0.25)
	}
	w.hit(models.VoiceKick, KickNote, w.vel(0), 2.5, 0.5)
}

func oneDropBar(w *drumWriter) {
	w.hit(models.VoiceSnare, SnareNote, w.vel(0), 2, 0.5)
	w.hit(models.VoiceKick, KickNote, w.vel(0), 2, 0.5)
	eighthHats(w)
}

func backbeatBar(w *drumWriter) {
	w.hit(models.VoiceKick, KickNote, w.vel(0), 0, 0.5)
	w.hit(models.VoiceKick, KickNote, w.vel(0), 2, 0.5)
	w.hit(models.VoiceSnare, SnareNote, w.vel(0), 1, 0.5)
	w.hit(models.VoiceSnare, SnareNote, w.vel(0), 3, 0.5)
	eighthHats(w)
}

func eighthHats(w *drumWriter) {
	for i := 0; i < 8; i++ {
		w.hit(models.VoiceHiHat, HiHatNote, w.vel(-20), float64(i)*0.5, 0.25)
	}
}

// algorithmicDrums places the kick from a Markov chain on quarter-note steps,
// hi-hats from a random walk, and the backbeat snare from a fractal cell
func (s *Session) algorithmicDrums(rng *rand.Rand, bars int, kit models.DrumKit) {
	stepsPerBar := s.BeatsPerBar() * 4
	steps := stepsPerBar * bars

	kicks := rhythm.NewMarkovGenerator(rng).Generate(steps)
	hats := rhythm.NewRandomWalkGenerator(rng).Generate(steps)
	cell := rhythm.NewFractalGenerator(rng).Cell()

	for i, v := range kicks {
		if v > rhythm.Rest && i%4 == 0 {
			kit[models.VoiceKick] = append(kit[models.VoiceKick], drumStep(KickNote, 60+int(v)*20, float64(i)*rhythm.StepBeats))
		}
	}
	for i, v := range hats {
		if v > rhythm.Rest {
			kit[models.VoiceHiHat] = append(kit[models.VoiceHiHat], drumStep(HiHatNote, 40+int(v)*15, float64(i)*rhythm.StepBeats))
		}
	}
	for bar := 0; bar < bars; bar++ {
		for _, i := range []int{4, 12} {
			if i >= stepsPerBar || cell[i] <= rhythm.Soft {
				continue
			}
			start := float64(bar)*s.barLength() + float64(i)*rhythm.StepBeats
			kit[models.VoiceSnare] = append(kit[models.VoiceSnare], drumStep(SnareNote, 70+int(cell[i])*15, start))
		}
	}
}

func drumStep(pitch, velocity int, start float64) models.Note {
	return models.Note{
		Pitch:    pitch,
		Velocity: theory.ClampVelocity(velocity),
		Start:    start,
		Duration: rhythm.StepBeats,
	}
}
