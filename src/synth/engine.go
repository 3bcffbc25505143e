package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/oto"
)

// ----- Changes ----- //

// Changes collects dirty flags for the panel process.
type Changes struct {
	sync.Mutex
	dict map[string]struct{}
}

func (c *Changes) Add(key string) {
	c.Lock()
	c.dict[key] = struct{}{}
	c.Unlock()
}

func (c *Changes) Has(key string) bool {
	c.Lock()
	_, ok := c.dict[key]
	c.Unlock()
	return ok
}

func (c *Changes) Delete(key string) {
	c.Lock()
	delete(c.dict, key)
	c.Unlock()
}

// ----- Engine ----- //

// Engine drives the voice. The control side (commands, MIDI, JSON) works
// on a guarded patch copy and publishes immutable clones through an atomic
// pointer; Read, called on the audio path, only ever loads that pointer.
// The audio path never locks, allocates or blocks, except for a TryLock
// handoff of the scope tap that skips the frame when contended.
type Engine struct {
	ctx        context.Context
	otoContext *oto.Context
	CommandCh  chan []string
	Changes    *Changes
	sampleRate int

	mu        sync.Mutex // guards params and heldNotes (control side only)
	params    *patch
	heldNotes []int

	snapshot atomic.Pointer[patch]
	voice    *voice
	overload atomic.Bool

	mainBuf   []float64
	phonesBuf []float64
	scope     []float64 // ring, audio thread only
	scopePos  int

	scopeMu     sync.Mutex
	scopeShared []float64 // linearized copy for GetScope/GetSpectrum

	fft       *FFT
	fftResult []float64
}

type engineJSON struct {
	Patch json.RawMessage `json:"patch"`
}

// NewEngine creates a stopped engine. The audio device is opened by Start,
// so construction works on headless machines and in tests. noiseSeed
// pins the noise stream; pass 0 for a fixed default.
func NewEngine(sampleRate int, noiseSeed uint64) (*Engine, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	commandCh := make(chan []string, 256)
	e := &Engine{
		ctx:         context.Background(),
		CommandCh:   commandCh,
		Changes:     &Changes{dict: make(map[string]struct{})},
		sampleRate:  sampleRate,
		params:      newPatch(),
		heldNotes:   make([]int, 0, 128),
		voice:       newVoice(float64(sampleRate), noiseSeed),
		mainBuf:     make([]float64, samplesPerCycle),
		phonesBuf:   make([]float64, samplesPerCycle),
		scope:       make([]float64, scopeSize),
		scopeShared: make([]float64, scopeSize),
		fft:         NewFFT(scopeSize),
		fftResult:   make([]float64, scopeSize),
	}
	go processCommands(e, commandCh)
	return e, nil
}

func processCommands(e *Engine, commandCh <-chan []string) {
	for command := range commandCh {
		if err := e.update(command); err != nil {
			log.Printf("command %v failed: %v\n", command, err)
		}
	}
	log.Println("processCommands() ended.")
}

var _ io.Reader = (*Engine)(nil)

// Read renders one buffer: main on the left channel, phones on the right.
// If no snapshot was ever published the voice plays silence.
func (e *Engine) Read(buf []byte) (int, error) {
	select {
	case <-e.ctx.Done():
		log.Println("Read() interrupted.")
		return 0, io.EOF
	default:
	}
	bufSamples := len(buf) / bytesPerSample
	if bufSamples > samplesPerCycle {
		bufSamples = samplesPerCycle
	}
	main := e.mainBuf[:bufSamples]
	phones := e.phonesBuf[:bufSamples]
	e.voice.render(e.snapshot.Load(), main, phones)
	if e.voice.overloaded() {
		e.overload.Store(true)
	}
	for i := 0; i < bufSamples; i++ {
		e.scope[e.scopePos] = main[i]
		e.scopePos = (e.scopePos + 1) % scopeSize
	}
	e.publishScope()
	writeBuffer(main, buf, 0)
	writeBuffer(phones, buf, 1)
	return bufSamples * bytesPerSample, nil
}

// publishScope hands the linearized ring to the reporting side without
// ever blocking the audio thread; a contended frame is simply skipped.
func (e *Engine) publishScope() {
	if !e.scopeMu.TryLock() {
		return
	}
	n := copy(e.scopeShared, e.scope[e.scopePos:])
	copy(e.scopeShared[n:], e.scope[:e.scopePos])
	e.scopeMu.Unlock()
}

func writeBuffer(out []float64, buf []byte, ch int) {
	for i, value := range out {
		const max = 32767
		b := int16(value * max)
		buf[bytesPerSample*i+2*ch] = byte(b)
		buf[bytesPerSample*i+2*ch+1] = byte(b >> 8)
	}
}

// Overloaded reports and clears the mixer clip lamp.
func (e *Engine) Overloaded() bool {
	return e.overload.Swap(false)
}

// GetScope returns the most recent main-output samples, oldest first.
func (e *Engine) GetScope() []float64 {
	out := make([]float64, scopeSize)
	e.scopeMu.Lock()
	copy(out, e.scopeShared)
	e.scopeMu.Unlock()
	return out
}

// GetSpectrum returns the magnitude spectrum of the scope tap.
func (e *Engine) GetSpectrum() []float64 {
	e.scopeMu.Lock()
	copy(e.fftResult, e.scopeShared)
	e.scopeMu.Unlock()
	Han(e.fftResult)
	e.fft.CalcAbs(e.fftResult)
	for i, value := range e.fftResult {
		e.fftResult[i] = value * 2 / scopeSize
	}
	return e.fftResult[:scopeSize/2]
}

// ----- Control surface ----- //

// publish stores an immutable clone for the audio thread.
func (e *Engine) publish() {
	e.snapshot.Store(e.params.clone())
}

func (e *Engine) update(command []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(command) == 0 {
		return fmt.Errorf("empty command")
	}
	switch command[0] {
	case "set":
		if err := e.set(command[1:]); err != nil {
			return err
		}
		e.Changes.Add("data")
	case "note_on":
		if len(command) != 2 {
			return fmt.Errorf("note_on expects a note number")
		}
		note, err := strconv.ParseInt(command[1], 10, 32)
		if err != nil {
			return err
		}
		e.noteOn(int(note))
	case "note_off":
		if len(command) != 2 {
			return fmt.Errorf("note_off expects a note number")
		}
		note, err := strconv.ParseInt(command[1], 10, 32)
		if err != nil {
			return err
		}
		e.noteOff(int(note))
	case "retrigger":
		// S-TRIG: restart both envelopes regardless of gate state
		e.params.gate.retrigger = true
		e.params.gate.serial++
	default:
		return fmt.Errorf("unknown command %v", command[0])
	}
	e.publish()
	return nil
}

func (e *Engine) set(command []string) error {
	if len(command) < 2 {
		return fmt.Errorf("invalid set command %v", command)
	}
	section := command[0]
	command = command[1:]
	switch section {
	case "osc":
		if len(command) != 3 {
			return fmt.Errorf("set osc expects index key value")
		}
		index, err := strconv.ParseInt(command[0], 10, 64)
		if err != nil {
			return err
		}
		if index < 0 || index >= numOscs {
			return fmt.Errorf("osc index out of range: %d", index)
		}
		return e.params.oscs[index].set(command[1], command[2])
	case "noise":
		if len(command) != 2 {
			return fmt.Errorf("invalid key-value pair %v", command)
		}
		return e.params.noise.set(command[0], command[1])
	case "external":
		if len(command) != 2 {
			return fmt.Errorf("invalid key-value pair %v", command)
		}
		return e.params.external.set(command[0], command[1])
	case "filter":
		if len(command) != 2 {
			return fmt.Errorf("invalid key-value pair %v", command)
		}
		err := e.params.filter.set(command[0], command[1])
		if err == nil {
			e.Changes.Add("filter-shape")
		}
		return err
	case "filter_env":
		if len(command) != 2 {
			return fmt.Errorf("invalid key-value pair %v", command)
		}
		return e.params.filterEnv.set(command[0], command[1])
	case "loudness_env":
		if len(command) != 2 {
			return fmt.Errorf("invalid key-value pair %v", command)
		}
		return e.params.loudnessEnv.set(command[0], command[1])
	case "mod":
		if len(command) != 2 {
			return fmt.Errorf("invalid key-value pair %v", command)
		}
		return e.params.mod.set(command[0], command[1])
	case "output":
		if len(command) != 2 {
			return fmt.Errorf("invalid key-value pair %v", command)
		}
		return e.params.output.set(command[0], command[1])
	case "decay_switch":
		if len(command) != 1 {
			return fmt.Errorf("decay_switch expects one value")
		}
		e.params.decaySwitch = command[0] == "true"
		return nil
	case "glide_time":
		if len(command) != 1 {
			return fmt.Errorf("glide_time expects one value")
		}
		v, err := strconv.ParseFloat(command[0], 64)
		if err != nil {
			return err
		}
		e.params.glideTime = clamp(v, 0, 10)
		return nil
	default:
		return fmt.Errorf("unknown section %v", section)
	}
}

// noteOn implements last-note priority: the newest key wins, a second key
// while one is held changes pitch legato (glide, no retrigger).
func (e *Engine) noteOn(note int) {
	for i := 0; i < len(e.heldNotes); i++ {
		if e.heldNotes[i] == note {
			e.heldNotes = append(e.heldNotes[:i], e.heldNotes[i+1:]...)
			break
		}
	}
	if len(e.heldNotes) < cap(e.heldNotes) {
		e.heldNotes = append(e.heldNotes, note)
	}
	first := len(e.heldNotes) == 1
	e.params.keyVolts = noteToVolts(note)
	e.params.gate.on = true
	if first {
		e.params.gate.retrigger = true
		e.params.gate.serial++
	}
}

func (e *Engine) noteOff(note int) {
	removed := 0
	for i := 0; i < len(e.heldNotes); i++ {
		if e.heldNotes[i] == note {
			removed++
		} else {
			e.heldNotes[i-removed] = e.heldNotes[i]
		}
	}
	e.heldNotes = e.heldNotes[:len(e.heldNotes)-removed]
	if len(e.heldNotes) > 0 {
		e.params.keyVolts = noteToVolts(e.heldNotes[len(e.heldNotes)-1])
	} else {
		e.params.gate.on = false
		e.params.gate.retrigger = false
	}
}

// AddMidiEvent feeds a raw MIDI message from the input listener.
func (e *Engine) AddMidiEvent(data []byte) {
	if len(data) < 3 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if data[0]>>4 == 8 || data[0]>>4 == 9 && data[2] == 0 {
		e.noteOff(int(data[1]))
	} else if data[0]>>4 == 9 && data[2] > 0 {
		e.noteOn(int(data[1]))
	} else {
		return
	}
	e.publish()
}

// ApplyJSON replaces the whole patch from the panel's saved state.
func (e *Engine) ApplyJSON(data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var j engineJSON
	err := json.Unmarshal(data, &j)
	if err != nil {
		log.Println("failed to apply JSON to Engine", err)
		return
	}
	e.params.applyJSON(j.Patch)
	e.publish()
}

// ToJSON serializes the current patch for the panel.
func (e *Engine) ToJSON() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	bytes, err := json.Marshal(toRawMessage(&engineJSON{Patch: e.params.toJSON()}))
	if err != nil {
		panic(err)
	}
	return bytes
}

// ----- Playback ----- //

// Start opens the audio device and blocks until ctx is cancelled.
func (e *Engine) Start(ctx context.Context) error {
	otoContext, err := oto.NewContext(e.sampleRate, channelNum, bitDepthInBytes, bufferSizeInBytes)
	if err != nil {
		return err
	}
	e.otoContext = otoContext
	p := otoContext.NewPlayer()
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	e.ctx = ctx

	// block until cancel() called
	if _, err := io.CopyBuffer(p, e, make([]byte, bufferSizeInBytes)); err != nil {
		return err
	}
	log.Println("Start() ended.")
	return nil
}

// Close shuts the command stream and the audio device down.
func (e *Engine) Close() error {
	log.Println("Closing Engine...")
	close(e.CommandCh)
	if e.otoContext != nil {
		return e.otoContext.Close()
	}
	return nil
}
