package synth

// ----- Modulation Router ----- //

// modRouter blends the noise source with oscillator 3's raw output and
// smooths the result. rate sets the one-pole coefficient: 1 follows the
// sources sample by sample, values near 0 drift slowly, which is what
// makes the signal LFO-like.
type modRouter struct {
	value float64
}

// compute returns the modulation scalar for this tick. Exactly one
// destination consumes it; the voice switches on p.destination.
func (m *modRouter) compute(p *modParams, noiseSample float64, osc3Sample float64) float64 {
	blend := (1-p.mix)*noiseSample + p.mix*osc3Sample
	target := blend * p.amount
	rate := p.rate
	if rate < 0.0001 {
		rate = 0.0001
	}
	m.value += rate * (target - m.value)
	return m.value
}

// pitchSemis converts the scalar for the oscillator-pitch destination.
func pitchSemis(scalar float64) float64 {
	return scalar * modPitchSemis
}

// cutoffOffsetHz converts the scalar for the filter-cutoff destination.
func cutoffOffsetHz(scalar float64) float64 {
	return scalar * modCutoffSpanHz
}
