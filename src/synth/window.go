package synth

import "math"

// Han applies a Hann window in place; the scope tap is windowed before the
// spectrum transform to keep buffer edges from smearing the display.
func Han(data []float64) {
	n := len(data)
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n)
		w := 0.5 - 0.5*math.Cos(2.0*math.Pi*x)
		data[i] = data[i] * w
	}
}
