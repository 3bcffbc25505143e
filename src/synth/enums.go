package synth

// ----- Wave Kind ----- //

const (
	waveTriangle = iota
	waveTriSaw
	waveSaw
	waveSawRev
	waveSquare
	wavePulseWide
	wavePulseNarrow
)

var waveKindNames = map[int]string{
	waveTriangle:    "triangle",
	waveTriSaw:      "tri-saw",
	waveSaw:         "saw",
	waveSawRev:      "saw-rev",
	waveSquare:      "square",
	wavePulseWide:   "pulse-wide",
	wavePulseNarrow: "pulse-narrow",
}

func waveKindFromString(s string) int {
	for kind, name := range waveKindNames {
		if name == s {
			return kind
		}
	}
	return waveTriangle
}
func waveKindToString(kind int) string {
	if name, ok := waveKindNames[kind]; ok {
		return name
	}
	return "triangle"
}

// ----- Range ----- //

// Octave selectors named after organ pipe lengths. rangeLo drops the
// oscillator into sub-audio territory for modulation duty.
const (
	rangeLo = iota
	range32
	range16
	range8
	range4
	range2
)

var rangeNames = map[int]string{
	rangeLo: "lo",
	range32: "32",
	range16: "16",
	range8:  "8",
	range4:  "4",
	range2:  "2",
}

var rangeOctaves = map[int]float64{
	rangeLo: -5,
	range32: -2,
	range16: -1,
	range8:  0,
	range4:  1,
	range2:  2,
}

func rangeFromString(s string) int {
	for r, name := range rangeNames {
		if name == s {
			return r
		}
	}
	return range8
}
func rangeToString(r int) string {
	if name, ok := rangeNames[r]; ok {
		return name
	}
	return "8"
}

// ----- Noise Color ----- //

const (
	noiseWhite = iota
	noisePink
	noiseBrown
	noiseBlue
	noiseViolet
	noiseGrey
)

var noiseColorNames = map[int]string{
	noiseWhite:  "white",
	noisePink:   "pink",
	noiseBrown:  "brown",
	noiseBlue:   "blue",
	noiseViolet: "violet",
	noiseGrey:   "grey",
}

func noiseColorFromString(s string) int {
	for c, name := range noiseColorNames {
		if name == s {
			return c
		}
	}
	return noiseWhite
}
func noiseColorToString(c int) string {
	if name, ok := noiseColorNames[c]; ok {
		return name
	}
	return "white"
}

// ----- Modulation Destination ----- //

const (
	modDestOscPitch = iota
	modDestFilterCutoff
)

func modDestFromString(s string) int {
	if s == "filter-cutoff" {
		return modDestFilterCutoff
	}
	return modDestOscPitch
}
func modDestToString(d int) string {
	if d == modDestFilterCutoff {
		return "filter-cutoff"
	}
	return "osc-pitch"
}
