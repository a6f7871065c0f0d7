package theory

// ScaleType identifies a scale by name
type ScaleType string

// Supported scale types
const (
	ScaleMajor            ScaleType = "major"
	ScaleMinor            ScaleType = "minor"
	ScaleHarmonicMinor    ScaleType = "harmonic_minor"
	ScaleMelodicMinor     ScaleType = "melodic_minor"
	ScaleDorian           ScaleType = "dorian"
	ScalePhrygian         ScaleType = "phrygian"
	ScaleLydian           ScaleType = "lydian"
	ScaleMixolydian       ScaleType = "mixolydian"
	ScaleLocrian          ScaleType = "locrian"
	ScalePentatonicMajor  ScaleType = "pentatonic_major"
	ScalePentatonicMinor  ScaleType = "pentatonic_minor"
	ScaleBlues            ScaleType = "blues"
	ScaleChromatic        ScaleType = "chromatic"
	ScaleWholeTone        ScaleType = "whole_tone"
	ScalePhrygianDominant ScaleType = "phrygian_dominant"
	ScaleHungarianMinor   ScaleType = "hungarian_minor"
	ScaleHirajoshi        ScaleType = "hirajoshi"
)

// Scale intervals (semitones from root)
var scaleIntervals = map[ScaleType][]int{
	ScaleMajor:            {0, 2, 4, 5, 7, 9, 11},
	ScaleMinor:            {0, 2, 3, 5, 7, 8, 10},
	ScaleHarmonicMinor:    {0, 2, 3, 5, 7, 8, 11},
	ScaleMelodicMinor:     {0, 2, 3, 5, 7, 9, 11},
	ScaleDorian:           {0, 2, 3, 5, 7, 9, 10},
	ScalePhrygian:         {0, 1, 3, 5, 7, 8, 10},
	ScaleLydian:           {0, 2, 4, 6, 7, 9, 11},
	ScaleMixolydian:       {0, 2, 4, 5, 7, 9, 10},
	ScaleLocrian:          {0, 1, 3, 5, 6, 8, 10},
	ScalePentatonicMajor:  {0, 2, 4, 7, 9},
	ScalePentatonicMinor:  {0, 3, 5, 7, 10},
	ScaleBlues:            {0, 3, 5, 6, 7, 10},
	ScaleChromatic:        {0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	ScaleWholeTone:        {0, 2, 4, 6, 8, 10},
	ScalePhrygianDominant: {0, 1, 4, 5, 7, 8, 10},
	ScaleHungarianMinor:   {0, 2, 3, 6, 7, 8, 11},
	ScaleHirajoshi:        {0, 2, 3, 7, 8},
}

// IsKnownScale reports whether the scale type has an interval table
func IsKnownScale(scale ScaleType) bool {
	_, ok := scaleIntervals[scale]
	return ok
}

// ScaleIntervals returns a copy of the interval table for a scale type.
// Unknown scale types fall back to major.
func ScaleIntervals(scale ScaleType) []int {
	intervals, ok := scaleIntervals[scale]
	if !ok {
		intervals = scaleIntervals[ScaleMajor]
	}
	out := make([]int, len(intervals))
	copy(out, intervals)
	return out
}

// ScaleNotes returns the ascending absolute pitches of a scale starting at root
// and spanning the given number of octaves. Pitches outside 0-127 are skipped.
func ScaleNotes(root int, scale ScaleType, octaves int) []int {
	if octaves < 1 {
		octaves = 1
	}
	intervals := ScaleIntervals(scale)
	notes := make([]int, 0, len(intervals)*octaves)
	for octave := 0; octave < octaves; octave++ {
		for _, interval := range intervals {
			pitch := root + octave*12 + interval
			if pitch < MinPitch || pitch > MaxPitch {
				continue
			}
			notes = append(notes, pitch)
		}
	}
	return notes
}

// PitchClasses returns the pitch class (0-11) of each scale pitch, in scale order
func PitchClasses(scale []int) []int {
	classes := make([]int, len(scale))
	for i, pitch := range scale {
		classes[i] = pitchClass(pitch)
	}
	return classes
}

// ContainsPitchClass reports whether pitch's pitch class is a member of the scale
func ContainsPitchClass(scale []int, pitch int) bool {
	pc := pitchClass(pitch)
	for _, p := range scale {
		if pitchClass(p) == pc {
			return true
		}
	}
	return false
}

// IndexOf returns the position of pitch in scale, or -1
func IndexOf(scale []int, pitch int) int {
	for i, p := range scale {
		if p == pitch {
			return i
		}
	}
	return -1
}

// SnapToScale returns the pitch in the same octave as note whose pitch class is
// closest to note's pitch class among the scale's pitch classes. Distance is
// circular (mod 12) and ties go to the first match in scale order.
func SnapToScale(note int, scale []int) int {
	if len(scale) == 0 {
		return note
	}

	octave := floorDiv(note, 12) * 12
	pc := note - octave

	closest := pitchClass(scale[0])
	best := circularDistance(closest, pc)
	for _, p := range scale[1:] {
		candidate := pitchClass(p)
		if d := circularDistance(candidate, pc); d < best {
			best = d
			closest = candidate
		}
	}

	return octave + closest
}

func circularDistance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if 12-d < d {
		return 12 - d
	}
	return d
}

func pitchClass(pitch int) int {
	return pitch - floorDiv(pitch, 12)*12
}

// floorDiv is integer division rounding toward negative infinity
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
