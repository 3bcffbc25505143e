package synth

import (
	"fmt"
	"io"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// RenderWAV renders the current patch offline into a 16-bit stereo WAV,
// main output on the left and phones on the right. It plays one note: gate
// opens at t=0 with a retrigger and closes at 70% of dur so the release
// tail is audible. A fresh voice with a fixed noise seed keeps renders
// reproducible and leaves live playback untouched.
func (e *Engine) RenderWAV(w io.WriteSeeker, note int, dur time.Duration) error {
	if dur <= 0 {
		return fmt.Errorf("invalid render duration %v", dur)
	}
	e.mu.Lock()
	p := e.params.clone()
	e.mu.Unlock()
	p.keyVolts = noteToVolts(note)
	p.gate = gateState{on: true, retrigger: true, serial: 1}

	total := int(float64(e.sampleRate) * dur.Seconds())
	gateOff := total * 7 / 10
	v := newVoice(float64(e.sampleRate), 1)

	enc := wav.NewEncoder(w, e.sampleRate, 16, channelNum, 1)
	data := make([]int, 2*samplesPerCycle)
	main := make([]float64, samplesPerCycle)
	phones := make([]float64, samplesPerCycle)
	released := p.clone()
	released.gate = gateState{on: false, retrigger: false, serial: 1}

	for pos := 0; pos < total; pos += samplesPerCycle {
		n := samplesPerCycle
		if pos+n > total {
			n = total - pos
		}
		snap := p
		if pos >= gateOff {
			snap = released
		}
		v.render(snap, main[:n], phones[:n])
		for i := 0; i < n; i++ {
			data[2*i] = int(int16(main[i] * 32767))
			data[2*i+1] = int(int16(phones[i] * 32767))
		}
		buf := &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channelNum, SampleRate: e.sampleRate},
			Data:           data[:2*n],
			SourceBitDepth: 16,
		}
		if err := enc.Write(buf); err != nil {
			return err
		}
	}
	return enc.Close()
}
