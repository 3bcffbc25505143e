package synth

import "math"

const (
	channelNum      = 2
	bitDepthInBytes = 2
	samplesPerCycle = 1024
	scopeSize       = 2048 // multiple of samplesPerCycle
	numOscs         = 3
)
const bytesPerSample = bitDepthInBytes * channelNum
const bufferSizeInBytes = samplesPerCycle * bytesPerSample // should be >= 4096

// baseFreq is the frequency at zero key voltage (A1), following the
// 1 V/oct convention of the modeled instrument.
const baseFreq = 55.0

const (
	minStageTime        = 0.0001 // s, floor for envelope segments
	minCutoffHz         = 20.0
	maxCutoffHz         = 20000.0
	contourSpanHz       = 8000.0
	modCutoffSpanHz     = 4000.0
	modPitchSemis       = 7.0
	maxEmphasisFeedback = 3.6 // below the 4.0 self-oscillation threshold
)

// ----- Utility ----- //

func positiveMod(a float64, b float64) float64 {
	m := math.Mod(a, b)
	if m < 0 {
		m += b
	}
	return m
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// noteToVolts maps a MIDI note onto the key CV. MIDI 33 (A1) sits at 0 V.
func noteToVolts(note int) float64 {
	return float64(note-33) / 12
}

// sanitize replaces non-finite samples with silence and bounds the result
// to [-1, 1] before it reaches the output buffer.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return clamp(v, -1, 1)
}
