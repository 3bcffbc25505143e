package synth

// ----- Output Stage ----- //

// outputStage is pure linear gain: the loudness envelope acts as the VCA,
// then the main and phones volumes apply. The phones path rides on the
// already-attenuated main signal, it is not a separate mix. Clipping is
// the mixer's job, not this stage's.
type outputStage struct{}

func (o *outputStage) finalize(filtered float64, loudness float64, p *outputParams) (float64, float64) {
	main := filtered * loudness * p.volume
	phones := main * p.phones
	return main, phones
}
