package synth

import (
	"math"
	"testing"
)

func expectWithin(t *testing.T, actual, expected, eps float64) {
	t.Helper()
	if math.Abs(actual-expected) > eps {
		t.Errorf("expected %v (±%v), but got: %v", expected, eps, actual)
	}
}

func TestEnvelopeTiming(t *testing.T) {
	env := newEnvelope(1000)
	p := &envelopeParams{attack: 0.1, decay: 0.2, sustain: 0.5}

	v := env.advance(p, true, true, false)
	expectNearlyEqual(t, v, 0)
	for i := 0; i < 100; i++ {
		v = env.advance(p, true, false, false)
	}
	// attack complete after 0.1 s
	expectNearlyEqual(t, v, 1)
	for i := 0; i < 100; i++ {
		v = env.advance(p, true, false, false)
	}
	// halfway down the decay ramp
	expectWithin(t, v, 0.75, 0.01)
	for i := 0; i < 101; i++ {
		v = env.advance(p, true, false, false)
	}
	expectNearlyEqual(t, v, 0.5)
	for i := 0; i < 500; i++ {
		v = env.advance(p, true, false, false)
	}
	// sustain holds while the gate stays on
	expectNearlyEqual(t, v, 0.5)
}

func TestEnvelopeRetriggerFromSustain(t *testing.T) {
	env := newEnvelope(1000)
	p := &envelopeParams{attack: 0.1, decay: 0.1, sustain: 0.5}

	env.advance(p, true, true, false)
	for i := 0; i < 500; i++ {
		env.advance(p, true, false, false)
	}
	expectNearlyEqual(t, env.value, 0.5)

	// retrigger while the gate is held: attack restarts from the current
	// level, not from zero
	prev := env.advance(p, true, true, false)
	expectWithin(t, prev, 0.5, 0.01)
	for i := 0; i < 100; i++ {
		v := env.advance(p, true, false, false)
		if v < prev-0.0001 {
			t.Fatalf("attack not monotonic: %v after %v", v, prev)
		}
		prev = v
	}
	expectNearlyEqual(t, prev, 1)
}

func TestEnvelopeReleaseRamp(t *testing.T) {
	env := newEnvelope(1000)
	p := &envelopeParams{attack: 0.01, decay: 0.2, sustain: 0.5}

	env.advance(p, true, true, true)
	for i := 0; i < 500; i++ {
		env.advance(p, true, false, true)
	}
	expectNearlyEqual(t, env.value, 0.5)

	// decay switch on: the gate drop re-enters the decay ramp
	v := env.advance(p, false, false, true)
	for i := 0; i < 100; i++ {
		next := env.advance(p, false, false, true)
		if next > v+0.0001 {
			t.Fatalf("release not monotonic: %v after %v", next, v)
		}
		v = next
	}
	expectWithin(t, v, 0.25, 0.01)
	for i := 0; i < 101; i++ {
		v = env.advance(p, false, false, true)
	}
	expectNearlyEqual(t, v, 0)
	expectEqual(t, env.stage, stageIdle)
}

func TestEnvelopeInstantCut(t *testing.T) {
	env := newEnvelope(1000)
	p := &envelopeParams{attack: 0.01, decay: 0.2, sustain: 0.8}

	env.advance(p, true, true, false)
	for i := 0; i < 500; i++ {
		env.advance(p, true, false, false)
	}
	expectNearlyEqual(t, env.value, 0.8)

	// decay switch off: the gate drop silences immediately
	v := env.advance(p, false, false, false)
	expectNearlyEqual(t, v, 0)
	expectEqual(t, env.stage, stageIdle)
}

func TestEnvelopeUngatedRetrigger(t *testing.T) {
	// a retrigger with no key held must not park the envelope at sustain
	for _, decaySwitch := range []bool{false, true} {
		env := newEnvelope(1000)
		p := &envelopeParams{attack: 0.1, decay: 0.2, sustain: 0.5}
		v := env.advance(p, false, true, decaySwitch)
		for i := 0; i < 1000; i++ {
			v = env.advance(p, false, false, decaySwitch)
		}
		expectNearlyEqual(t, v, 0)
		expectEqual(t, env.stage, stageIdle)
	}
}

func TestEnvelopeZeroTimes(t *testing.T) {
	env := newEnvelope(44100)
	p := &envelopeParams{attack: 0, decay: 0, sustain: 0.7}

	v := env.advance(p, true, true, false)
	for i := 0; i < 100; i++ {
		v = env.advance(p, true, false, false)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite value at sample %d", i)
		}
	}
	expectNearlyEqual(t, v, 0.7)
}
