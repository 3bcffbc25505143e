package synth

import (
	"encoding/json"
	"log"
	"strconv"
)

func toRawMessage(v interface{}) json.RawMessage {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return json.RawMessage(bytes)
}

// ----- OSC Params ----- //

type oscParams struct {
	enabled bool
	kind    int
	rng     int
	fine    float64 // semitones, -7 ~ 7
	level   float64 // 0 ~ 1
}
type oscJSON struct {
	Enabled bool    `json:"enabled"`
	Kind    string  `json:"kind"`
	Range   string  `json:"range"`
	Fine    float64 `json:"fine"`
	Level   float64 `json:"level"`
}

func (o *oscParams) applyJSON(data json.RawMessage) {
	var j oscJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to oscParams")
		return
	}
	o.enabled = j.Enabled
	o.kind = waveKindFromString(j.Kind)
	o.rng = rangeFromString(j.Range)
	o.fine = clamp(j.Fine, -7, 7)
	o.level = clamp01(j.Level)
}
func (o *oscParams) toJSON() json.RawMessage {
	return toRawMessage(&oscJSON{
		Enabled: o.enabled,
		Kind:    waveKindToString(o.kind),
		Range:   rangeToString(o.rng),
		Fine:    o.fine,
		Level:   o.level,
	})
}
func (o *oscParams) set(key string, value string) error {
	switch key {
	case "enabled":
		o.enabled = value == "true"
	case "kind":
		o.kind = waveKindFromString(value)
	case "range":
		o.rng = rangeFromString(value)
	case "fine":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		o.fine = clamp(v, -7, 7)
	case "level":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		o.level = clamp01(v)
	}
	return nil
}

// ----- Noise Params ----- //

type noiseParams struct {
	enabled bool
	color   int
	level   float64
}
type noiseJSON struct {
	Enabled bool    `json:"enabled"`
	Color   string  `json:"color"`
	Level   float64 `json:"level"`
}

func (n *noiseParams) applyJSON(data json.RawMessage) {
	var j noiseJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to noiseParams")
		return
	}
	n.enabled = j.Enabled
	n.color = noiseColorFromString(j.Color)
	n.level = clamp01(j.Level)
}
func (n *noiseParams) toJSON() json.RawMessage {
	return toRawMessage(&noiseJSON{
		Enabled: n.enabled,
		Color:   noiseColorToString(n.color),
		Level:   n.level,
	})
}
func (n *noiseParams) set(key string, value string) error {
	switch key {
	case "enabled":
		n.enabled = value == "true"
	case "color":
		n.color = noiseColorFromString(value)
	case "level":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		n.level = clamp01(v)
	}
	return nil
}

// ----- External Input Params ----- //

type externalParams struct {
	enabled bool
	level   float64
}
type externalJSON struct {
	Enabled bool    `json:"enabled"`
	Level   float64 `json:"level"`
}

func (e *externalParams) applyJSON(data json.RawMessage) {
	var j externalJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to externalParams")
		return
	}
	e.enabled = j.Enabled
	e.level = clamp01(j.Level)
}
func (e *externalParams) toJSON() json.RawMessage {
	return toRawMessage(&externalJSON{Enabled: e.enabled, Level: e.level})
}
func (e *externalParams) set(key string, value string) error {
	switch key {
	case "enabled":
		e.enabled = value == "true"
	case "level":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		e.level = clamp01(v)
	}
	return nil
}

// ----- Filter Params ----- //

type filterParams struct {
	cutoff   float64 // Hz
	emphasis float64 // 0 ~ 1
	contour  float64 // 0 ~ 1
}
type filterJSON struct {
	Cutoff   float64 `json:"cutoff"`
	Emphasis float64 `json:"emphasis"`
	Contour  float64 `json:"contour"`
}

func (f *filterParams) applyJSON(data json.RawMessage) {
	var j filterJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to filterParams")
		return
	}
	f.cutoff = clamp(j.Cutoff, minCutoffHz, maxCutoffHz)
	f.emphasis = clamp01(j.Emphasis)
	f.contour = clamp01(j.Contour)
}
func (f *filterParams) toJSON() json.RawMessage {
	return toRawMessage(&filterJSON{
		Cutoff:   f.cutoff,
		Emphasis: f.emphasis,
		Contour:  f.contour,
	})
}
func (f *filterParams) set(key string, value string) error {
	switch key {
	case "cutoff":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		f.cutoff = clamp(v, minCutoffHz, maxCutoffHz)
	case "emphasis":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		f.emphasis = clamp01(v)
	case "contour":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		f.contour = clamp01(v)
	}
	return nil
}

// ----- Envelope Params ----- //

type envelopeParams struct {
	attack  float64 // s
	decay   float64 // s
	sustain float64 // 0 ~ 1
}
type envelopeJSON struct {
	Attack  float64 `json:"attack"`
	Decay   float64 `json:"decay"`
	Sustain float64 `json:"sustain"`
}

func (a *envelopeParams) applyJSON(data json.RawMessage) {
	var j envelopeJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to envelopeParams")
		return
	}
	a.attack = clamp(j.Attack, 0, 10)
	a.decay = clamp(j.Decay, 0, 10)
	a.sustain = clamp01(j.Sustain)
}
func (a *envelopeParams) toJSON() json.RawMessage {
	return toRawMessage(&envelopeJSON{
		Attack:  a.attack,
		Decay:   a.decay,
		Sustain: a.sustain,
	})
}
func (a *envelopeParams) set(key string, value string) error {
	switch key {
	case "attack":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.attack = clamp(v, 0, 10)
	case "decay":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.decay = clamp(v, 0, 10)
	case "sustain":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		a.sustain = clamp01(v)
	}
	return nil
}

// ----- Modulation Params ----- //

type modParams struct {
	mix         float64 // 0 = noise, 1 = osc3
	rate        float64 // 0 ~ 1, smoothing coefficient
	amount      float64 // 0 ~ 1
	destination int
}
type modJSON struct {
	Mix         float64 `json:"mix"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
	Destination string  `json:"destination"`
}

func (m *modParams) applyJSON(data json.RawMessage) {
	var j modJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to modParams")
		return
	}
	m.mix = clamp01(j.Mix)
	m.rate = clamp01(j.Rate)
	m.amount = clamp01(j.Amount)
	m.destination = modDestFromString(j.Destination)
}
func (m *modParams) toJSON() json.RawMessage {
	return toRawMessage(&modJSON{
		Mix:         m.mix,
		Rate:        m.rate,
		Amount:      m.amount,
		Destination: modDestToString(m.destination),
	})
}
func (m *modParams) set(key string, value string) error {
	switch key {
	case "mix":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		m.mix = clamp01(v)
	case "rate":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		m.rate = clamp01(v)
	case "amount":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		m.amount = clamp01(v)
	case "destination":
		m.destination = modDestFromString(value)
	}
	return nil
}

// ----- Output Params ----- //

type outputParams struct {
	volume float64 // 0 ~ 1
	phones float64 // 0 ~ 1
}
type outputJSON struct {
	Volume float64 `json:"volume"`
	Phones float64 `json:"phones"`
}

func (o *outputParams) applyJSON(data json.RawMessage) {
	var j outputJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to outputParams")
		return
	}
	o.volume = clamp01(j.Volume)
	o.phones = clamp01(j.Phones)
}
func (o *outputParams) toJSON() json.RawMessage {
	return toRawMessage(&outputJSON{Volume: o.volume, Phones: o.phones})
}
func (o *outputParams) set(key string, value string) error {
	switch key {
	case "volume":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		o.volume = clamp01(v)
	case "phones":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		o.phones = clamp01(v)
	}
	return nil
}

// ----- Gate ----- //

// gateState is edge-triggered: retrigger fires the envelopes exactly once
// per serial. Key events that land between two audio reads coalesce into
// the final gate state; only the last edge is observable.
type gateState struct {
	on        bool
	retrigger bool
	serial    uint64
}

// ----- Patch ----- //

// patch is the control snapshot: the full panel state captured at one
// instant. The control side mutates its working copy and publishes clones;
// the audio thread only ever loads a published pointer and never writes
// through it.
type patch struct {
	oscs        [numOscs]oscParams
	noise       noiseParams
	external    externalParams
	filter      filterParams
	filterEnv   envelopeParams
	loudnessEnv envelopeParams
	mod         modParams
	output      outputParams
	decaySwitch bool    // release re-enters the decay ramp when set
	glideTime   float64 // s
	keyVolts    float64 // key CV, octaves above baseFreq
	gate        gateState
}

type patchJSON struct {
	Oscs        []json.RawMessage `json:"oscs"`
	Noise       json.RawMessage   `json:"noise"`
	External    json.RawMessage   `json:"external"`
	Filter      json.RawMessage   `json:"filter"`
	FilterEnv   json.RawMessage   `json:"filterEnv"`
	LoudnessEnv json.RawMessage   `json:"loudnessEnv"`
	Mod         json.RawMessage   `json:"mod"`
	Output      json.RawMessage   `json:"output"`
	DecaySwitch bool              `json:"decaySwitch"`
	GlideTime   float64           `json:"glideTime"`
}

func newPatch() *patch {
	p := &patch{}
	p.oscs[0] = oscParams{enabled: true, kind: waveSaw, rng: range8, level: 1.0}
	p.oscs[1] = oscParams{enabled: false, kind: waveSaw, rng: range8, level: 1.0}
	p.oscs[2] = oscParams{enabled: false, kind: waveSawRev, rng: range8, level: 1.0}
	p.noise = noiseParams{enabled: false, color: noiseWhite, level: 0}
	p.external = externalParams{enabled: false, level: 0}
	p.filter = filterParams{cutoff: 2000, emphasis: 0, contour: 0}
	p.filterEnv = envelopeParams{attack: 0.02, decay: 0.2, sustain: 0.5}
	p.loudnessEnv = envelopeParams{attack: 0.02, decay: 0.2, sustain: 0.8}
	p.mod = modParams{mix: 0, rate: 1, amount: 0, destination: modDestOscPitch}
	p.output = outputParams{volume: 0.7, phones: 0.5}
	p.decaySwitch = false
	p.glideTime = 0
	p.keyVolts = 0
	return p
}

func (p *patch) applyJSON(data json.RawMessage) {
	var j patchJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to patch")
		return
	}
	if len(j.Oscs) == numOscs {
		for i := range p.oscs {
			p.oscs[i].applyJSON(j.Oscs[i])
		}
	} else {
		log.Println("failed to apply JSON to osc params")
	}
	p.noise.applyJSON(j.Noise)
	p.external.applyJSON(j.External)
	p.filter.applyJSON(j.Filter)
	p.filterEnv.applyJSON(j.FilterEnv)
	p.loudnessEnv.applyJSON(j.LoudnessEnv)
	p.mod.applyJSON(j.Mod)
	p.output.applyJSON(j.Output)
	p.decaySwitch = j.DecaySwitch
	p.glideTime = clamp(j.GlideTime, 0, 10)
}
func (p *patch) toJSON() json.RawMessage {
	oscJsons := make([]json.RawMessage, numOscs)
	for i := range p.oscs {
		oscJsons[i] = p.oscs[i].toJSON()
	}
	return toRawMessage(&patchJSON{
		Oscs:        oscJsons,
		Noise:       p.noise.toJSON(),
		External:    p.external.toJSON(),
		Filter:      p.filter.toJSON(),
		FilterEnv:   p.filterEnv.toJSON(),
		LoudnessEnv: p.loudnessEnv.toJSON(),
		Mod:         p.mod.toJSON(),
		Output:      p.output.toJSON(),
		DecaySwitch: p.decaySwitch,
		GlideTime:   p.glideTime,
	})
}

// clone produces the immutable value handed to the audio thread.
func (p *patch) clone() *patch {
	c := *p
	return &c
}
