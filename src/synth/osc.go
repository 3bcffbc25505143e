package synth

import "math"

// ----- Waveforms ----- //

// The waveform set is closed, so dispatch goes through a table of pure
// phase-to-sample functions keyed by the wave kind.
var waveFuncs = [...]func(p float64) float64{
	waveTriangle:    waveformTriangle,
	waveTriSaw:      waveformTriSaw,
	waveSaw:         waveformSaw,
	waveSawRev:      waveformSawRev,
	waveSquare:      makePulse(0.5),
	wavePulseWide:   makePulse(0.25),
	wavePulseNarrow: makePulse(0.1),
}

func waveformTriangle(p float64) float64 {
	if p < 0.5 {
		return p*4 - 1
	}
	return p*(-4) + 3
}
func waveformSaw(p float64) float64 {
	return p*2 - 1
}
func waveformSawRev(p float64) float64 {
	return p*(-2) + 1
}

// The second panel position on the modeled instrument is a triangle/saw
// hybrid ("sharkfin"), an even blend of the two.
func waveformTriSaw(p float64) float64 {
	return (waveformTriangle(p) + waveformSaw(p)) / 2
}

// Pulse width comes in fixed duty cycles, not a continuous knob.
func makePulse(duty float64) func(float64) float64 {
	return func(p float64) float64 {
		if p < duty {
			return 1
		}
		return -1
	}
}

// ----- Oscillator Bank ----- //

// oscillatorBank renders the three voices from one shared key CV. Phase
// accumulators persist across calls; a disabled voice keeps advancing so
// re-enabling it is phase-continuous.
type oscillatorBank struct {
	sampleRate float64
	phases     [numOscs]float64
	raw        [numOscs]float64 // last raw samples, pre-level; raw[2] feeds the mod router

	volts     float64 // current key CV after glide
	glideTo   float64
	glideFrom float64
	glidePos  int
	gliding   bool
	primed    bool
}

func newOscillatorBank(sampleRate float64) *oscillatorBank {
	return &oscillatorBank{sampleRate: sampleRate}
}

func (b *oscillatorBank) stepGlide(p *patch) {
	if !b.primed {
		b.volts = p.keyVolts
		b.glideTo = p.keyVolts
		b.primed = true
	}
	if p.keyVolts != b.glideTo {
		if p.glideTime < minStageTime {
			b.volts = p.keyVolts
			b.glideTo = p.keyVolts
			b.gliding = false
		} else {
			b.glideFrom = b.volts
			b.glideTo = p.keyVolts
			b.glidePos = 0
			b.gliding = true
		}
	}
	if b.gliding {
		b.glidePos++
		t := float64(b.glidePos) / b.sampleRate / p.glideTime
		if t >= 1 {
			b.volts = b.glideTo
			b.gliding = false
		} else {
			b.volts = t*b.glideTo + (1-t)*b.glideFrom
		}
	}
}

// render advances all voices by one tick. out receives silence for
// disabled voices; raw keeps the unmuted samples for the modulation
// router.
func (b *oscillatorBank) render(p *patch, pitchModSemis float64, out *[numOscs]float64) {
	b.stepGlide(p)
	nyquistCap := b.sampleRate * 0.45
	for i := range b.phases {
		o := &p.oscs[i]
		kind := o.kind
		if kind < 0 || kind >= len(waveFuncs) {
			kind = waveTriangle
		}
		if i < numOscs-1 && kind == waveSawRev {
			// reverse saw is a third-voice-only panel position
			kind = waveSaw
		}
		freq := baseFreq * math.Pow(2, b.volts+rangeOctaves[o.rng]+o.fine/12+pitchModSemis/12)
		if freq > nyquistCap {
			freq = nyquistCap
		}
		b.raw[i] = waveFuncs[kind](b.phases[i])
		b.phases[i] = positiveMod(b.phases[i]+freq/b.sampleRate, 1)
		if o.enabled {
			out[i] = b.raw[i]
		} else {
			out[i] = 0
		}
	}
}
