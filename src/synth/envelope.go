package synth

// ----- Envelope ----- //

const (
	stageIdle = iota
	stageAttack
	stageDecay
	stageSustain
	stageRelease
)

/*
  1 +    x
    |   / \
  s +  /   x------x
    | /            \
  0 +-----+--+-----+---
    |a    |d |     |r |

  No separate release time: release reuses the decay ramp when the decay
  switch is on, otherwise it cuts straight to idle.
*/
type envelope struct {
	sampleRate float64
	stage      int
	phasePos   int
	value      float64
	from       float64 // value at stage entry, attack restarts from here
	prevGate   bool
}

func newEnvelope(sampleRate float64) *envelope {
	return &envelope{sampleRate: sampleRate}
}

// advance steps the state machine by one sample and returns the amplitude
// in [0,1]. Segments are linear in time; stage durations are floored so a
// zero-length knob setting cannot divide by zero. Release keys off the
// gate level, not just the falling edge, so a retrigger without a held key
// cannot sustain forever.
func (e *envelope) advance(p *envelopeParams, gateOn bool, retrigger bool, decaySwitch bool) float64 {
	active := e.stage == stageAttack || e.stage == stageDecay || e.stage == stageSustain
	if retrigger || (gateOn && !e.prevGate) {
		e.stage = stageAttack
		e.phasePos = 0
		e.from = e.value
	} else if !gateOn && active {
		if decaySwitch {
			e.stage = stageRelease
			e.phasePos = 0
			e.from = e.value
		} else {
			e.stage = stageIdle
			e.phasePos = 0
			e.value = 0
		}
	}
	e.prevGate = gateOn

	phaseTime := float64(e.phasePos) / e.sampleRate
	switch e.stage {
	case stageAttack:
		attack := p.attack
		if attack < minStageTime {
			attack = minStageTime
		}
		if phaseTime >= attack {
			e.stage = stageDecay
			e.phasePos = 0
			e.value = 1
			e.from = 1
		} else {
			t := phaseTime / attack
			e.value = t + (1-t)*e.from
			e.phasePos++
		}
	case stageDecay:
		decay := p.decay
		if decay < minStageTime {
			decay = minStageTime
		}
		sustain := clamp01(p.sustain)
		if phaseTime >= decay {
			e.stage = stageSustain
			e.phasePos = 0
			e.value = sustain
		} else {
			t := phaseTime / decay
			e.value = t*sustain + (1-t)*e.from
			e.phasePos++
		}
	case stageSustain:
		e.value = clamp01(p.sustain)
	case stageRelease:
		decay := p.decay
		if decay < minStageTime {
			decay = minStageTime
		}
		if phaseTime >= decay {
			e.stage = stageIdle
			e.phasePos = 0
			e.value = 0
		} else {
			t := phaseTime / decay
			e.value = (1 - t) * e.from
			e.phasePos++
		}
	default:
		e.value = 0
	}
	return e.value
}
