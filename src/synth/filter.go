package synth

import "math"

// ----- Ladder Filter ----- //

// ladderFilter is the classic four-pole low-pass: four cascaded one-pole
// stages with a resonance feedback tap from the last stage. The input of
// the cascade is tanh-bounded and the feedback gain stays below the 4.0
// self-oscillation threshold, so the state cannot diverge at emphasis 1.0.
// Stage memories persist across notes; they reset only with the voice.
type ladderFilter struct {
	sampleRate float64
	stages     [4]float64
}

func newLadderFilter(sampleRate float64) *ladderFilter {
	return &ladderFilter{sampleRate: sampleRate}
}

func (f *ladderFilter) process(in float64, cutoffHz float64, emphasis float64) float64 {
	fc := clamp(cutoffHz, minCutoffHz, f.sampleRate*0.45)
	g := 1 - math.Exp(-2*math.Pi*fc/f.sampleRate)
	k := clamp01(emphasis) * maxEmphasisFeedback
	x := math.Tanh(in - k*f.stages[3])
	f.stages[0] += g * (x - f.stages[0])
	f.stages[1] += g * (f.stages[0] - f.stages[1])
	f.stages[2] += g * (f.stages[1] - f.stages[2])
	f.stages[3] += g * (f.stages[2] - f.stages[3])
	return f.stages[3]
}
