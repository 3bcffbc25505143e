package synth

// ----- Voice ----- //

// voice owns every piece of mutable per-sample state: envelope stages,
// phase accumulators, filter memory, noise seed. It is touched only by the
// audio thread; the control side reaches it exclusively through published
// patch snapshots. step runs in bounded constant time and never allocates.
type voice struct {
	sampleRate  float64
	filterEnv   *envelope
	loudnessEnv *envelope
	bank        *oscillatorBank
	noise       *noiseGenerator
	router      *modRouter
	mix         *mixer
	ladder      *ladderFilter
	out         *outputStage

	oscSamples [numOscs]float64
	lastSerial uint64
	prevMain   float64 // feeds the external input when enabled
}

func newVoice(sampleRate float64, noiseSeed uint64) *voice {
	return &voice{
		sampleRate:  sampleRate,
		filterEnv:   newEnvelope(sampleRate),
		loudnessEnv: newEnvelope(sampleRate),
		bank:        newOscillatorBank(sampleRate),
		noise:       newNoiseGenerator(noiseSeed),
		router:      &modRouter{},
		mix:         &mixer{},
		ladder:      newLadderFilter(sampleRate),
		out:         &outputStage{},
	}
}

// step renders one sample pair: envelopes advance, the router computes the
// modulation scalar, the bank renders, the mixer combines, the ladder
// filters, the output stage applies the VCA and gains.
func (v *voice) step(p *patch) (float64, float64) {
	retrigger := p.gate.retrigger && p.gate.serial != v.lastSerial
	v.lastSerial = p.gate.serial

	filterEnvOut := v.filterEnv.advance(&p.filterEnv, p.gate.on, retrigger, p.decaySwitch)
	loudnessOut := v.loudnessEnv.advance(&p.loudnessEnv, p.gate.on, retrigger, p.decaySwitch)

	// the router sees osc 3's raw output from the previous tick; one noise
	// sample per tick is shared between the router and the mixer
	noiseSample := v.noise.next(p.noise.color)
	scalar := v.router.compute(&p.mod, noiseSample, v.bank.raw[2])
	pitchMod := 0.0
	cutoffMod := 0.0
	if p.mod.destination == modDestOscPitch {
		pitchMod = pitchSemis(scalar)
	} else {
		cutoffMod = cutoffOffsetHz(scalar)
	}

	v.bank.render(p, pitchMod, &v.oscSamples)
	mixed := v.mix.combine(&v.oscSamples, noiseSample, v.prevMain, p)

	cutoff := p.filter.cutoff + p.filter.contour*filterEnvOut*contourSpanHz + cutoffMod
	filtered := v.ladder.process(mixed, cutoff, p.filter.emphasis)

	main, phones := v.out.finalize(filtered, loudnessOut, &p.output)
	main = sanitize(main)
	phones = sanitize(phones)
	v.prevMain = main
	return main, phones
}

// render fills one buffer with the same snapshot. A nil patch means the
// control side has not published yet; the voice plays silence with idle
// envelopes rather than reading uninitialized state.
func (v *voice) render(p *patch, main []float64, phones []float64) {
	if p == nil {
		for i := range main {
			main[i] = 0
			phones[i] = 0
		}
		return
	}
	for i := range main {
		main[i], phones[i] = v.step(p)
	}
}

// overloaded reports and clears the mixer's sticky clip flag.
func (v *voice) overloaded() bool {
	o := v.mix.overload
	v.mix.overload = false
	return o
}
