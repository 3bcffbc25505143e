package synth

// ----- Noise Generator ----- //

// noiseGenerator is a seedable LCG white source with per-color shaping
// filters. The same seed reproduces the same stream, which the tests rely
// on. Every color stays in [-1, 1]; next never allocates.
type noiseGenerator struct {
	seed      uint64
	pink      [7]float64
	brown     float64
	lastWhite float64
	prevWhite float64
}

func newNoiseGenerator(seed uint64) *noiseGenerator {
	if seed == 0 {
		seed = 0x5EED
	}
	return &noiseGenerator{seed: seed}
}

func (n *noiseGenerator) next(color int) float64 {
	white := n.white()
	last := n.lastWhite
	prev := n.prevWhite
	n.prevWhite = last
	n.lastWhite = white
	pink := n.pinkSample(white)
	switch color {
	case noisePink:
		return clamp(pink, -1, 1)
	case noiseBrown:
		n.brown = clamp(n.brown+white*0.02, -1, 1)
		return n.brown
	case noiseBlue:
		return clamp(white-last, -1, 1)
	case noiseViolet:
		return clamp(white-2*last+prev, -1, 1)
	case noiseGrey:
		return clamp(white*0.35+pink*0.65, -1, 1)
	default:
		return white
	}
}

// Numerical Recipes LCG constants; the top 53 bits become the mantissa.
func (n *noiseGenerator) white() float64 {
	n.seed = n.seed*6364136223846793005 + 1
	bits := n.seed >> 11
	return float64(bits)/float64(uint64(1)<<53)*2 - 1
}

// Paul Kellet's pink noise approximation.
func (n *noiseGenerator) pinkSample(white float64) float64 {
	n.pink[0] = 0.99886*n.pink[0] + white*0.0555179
	n.pink[1] = 0.99332*n.pink[1] + white*0.0750759
	n.pink[2] = 0.96900*n.pink[2] + white*0.1538520
	n.pink[3] = 0.86650*n.pink[3] + white*0.3104856
	n.pink[4] = 0.55000*n.pink[4] + white*0.5329522
	n.pink[5] = -0.7616*n.pink[5] - white*0.0168980
	out := (n.pink[0] + n.pink[1] + n.pink[2] + n.pink[3] + n.pink[4] + n.pink[5] + n.pink[6] + white*0.5362) * 0.11
	n.pink[6] = white * 0.115926
	return out
}
