package synth

import "testing"

func TestMixerOverload(t *testing.T) {
	p := newPatch()
	for i := range p.oscs {
		p.oscs[i].enabled = true
		p.oscs[i].level = 1
	}
	mx := &mixer{}
	samples := [numOscs]float64{1, 1, 1}
	out := mx.combine(&samples, 0, 0, p)
	// constructive peaks clamp to full scale and latch the lamp
	expectNearlyEqual(t, out, 1)
	expectEqual(t, mx.overload, true)

	samples = [numOscs]float64{-1, -1, -1}
	out = mx.combine(&samples, 0, 0, p)
	expectNearlyEqual(t, out, -1)
}

func TestMixerOverloadSticky(t *testing.T) {
	p := newPatch()
	mx := &mixer{}
	samples := [numOscs]float64{1, 1, 1}
	for i := range p.oscs {
		p.oscs[i].enabled = true
		p.oscs[i].level = 1
	}
	mx.combine(&samples, 0, 0, p)
	quiet := [numOscs]float64{0, 0, 0}
	mx.combine(&quiet, 0, 0, p)
	expectEqual(t, mx.overload, true)
}

func TestMixerDisabledSources(t *testing.T) {
	p := newPatch()
	for i := range p.oscs {
		p.oscs[i].enabled = false
		p.oscs[i].level = 1
	}
	p.noise.enabled = false
	p.noise.level = 1
	p.external.enabled = false
	p.external.level = 1
	mx := &mixer{}
	samples := [numOscs]float64{1, 1, 1}
	out := mx.combine(&samples, 1, 1, p)
	expectNearlyEqual(t, out, 0)
	expectEqual(t, mx.overload, false)
}

func TestMixerLevels(t *testing.T) {
	p := newPatch()
	p.oscs[0].enabled = true
	p.oscs[0].level = 0.25
	p.oscs[1].enabled = false
	p.oscs[2].enabled = false
	p.noise.enabled = true
	p.noise.level = 0.5
	mx := &mixer{}
	samples := [numOscs]float64{1, 1, 1}
	out := mx.combine(&samples, 0.5, 0, p)
	expectNearlyEqual(t, out, 0.25+0.25)
	expectEqual(t, mx.overload, false)
}
