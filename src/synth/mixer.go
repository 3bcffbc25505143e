package synth

// ----- Mixer ----- //

// mixer sums the leveled sources and hard-clamps the result to [-1, 1].
// overload sticks once set; the engine copies it out for the panel lamp
// after each buffer.
type mixer struct {
	overload bool
}

func (mx *mixer) combine(oscSamples *[numOscs]float64, noiseSample float64, externalSample float64, p *patch) float64 {
	sum := 0.0
	for i := range oscSamples {
		if p.oscs[i].enabled {
			sum += oscSamples[i] * p.oscs[i].level
		}
	}
	if p.noise.enabled {
		sum += noiseSample * p.noise.level
	}
	if p.external.enabled {
		sum += externalSample * p.external.level
	}
	if sum > 1 {
		mx.overload = true
		sum = 1
	} else if sum < -1 {
		mx.overload = true
		sum = -1
	}
	return sum
}
