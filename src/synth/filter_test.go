package synth

import (
	"math"
	"testing"
)

func rms(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x * x
	}
	return math.Sqrt(sum / float64(len(xs)))
}

func TestLadderStabilityAtFullEmphasis(t *testing.T) {
	f := newLadderFilter(44100)
	out := make([]float64, 10000)
	out[0] = f.process(1, 1000, 1)
	for i := 1; i < len(out); i++ {
		out[i] = f.process(0, 1000, 1)
	}
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite output at sample %d", i)
		}
		if math.Abs(v) > 2 {
			t.Fatalf("unbounded output %v at sample %d", v, i)
		}
	}
	head := rms(out[:1000])
	tail := rms(out[9000:])
	if tail >= head {
		t.Fatalf("impulse response does not decay: head %v, tail %v", head, tail)
	}
}

func TestLadderLowpass(t *testing.T) {
	const sr = 44100.0
	const cutoff = 500.0

	run := func(freq float64) float64 {
		f := newLadderFilter(sr)
		out := make([]float64, 8192)
		for i := range out {
			in := math.Sin(2 * math.Pi * freq * float64(i) / sr)
			out[i] = f.process(in, cutoff, 0)
		}
		return rms(out[2048:]) // skip the transient
	}

	low := run(100)
	high := run(5000)
	// the cascade input is tanh-bounded, so the pass band sits a little
	// under the raw sine RMS of 0.707
	if low < 0.45 {
		t.Fatalf("pass band attenuated too much: rms %v", low)
	}
	if high > 0.1 {
		t.Fatalf("stop band leaks: rms %v", high)
	}
}

func TestLadderCutoffClamp(t *testing.T) {
	a := newLadderFilter(44100)
	b := newLadderFilter(44100)
	for i := 0; i < 100; i++ {
		in := math.Sin(float64(i) * 0.1)
		va := a.process(in, 1e6, 0.5)
		vb := b.process(in, 44100*0.45, 0.5)
		expectNearlyEqual(t, va, vb)
		if math.IsNaN(va) || math.IsInf(va, 0) {
			t.Fatalf("non-finite output at sample %d", i)
		}
	}
}
