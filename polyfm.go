// Package polyfm is a polyphonic 4-operator FM synthesizer with a master
// effects chain, built for real-time keyboard control. The control surface
// (note events and parameter setters) runs on the caller's goroutine; audio
// rendering runs on the audio driver's goroutine. The two sides share state
// only through single-word atomic cells, so the render path never takes a
// lock and never allocates.
package polyfm

import (
	"errors"
	"math"
	"sync"

	intaudio "github.com/cbegin/polyfm-go/internal/audio"
	intfx "github.com/cbegin/polyfm-go/internal/effects"
	intlfo "github.com/cbegin/polyfm-go/internal/lfo"
	"github.com/cbegin/polyfm-go/internal/param"
	"github.com/cbegin/polyfm-go/internal/scope"
	intvoice "github.com/cbegin/polyfm-go/internal/voice"
)

// Parameter ranges for the patch controls. Setters clamp into these rather
// than returning errors; a hardware knob has end stops, not error codes.
const (
	RatioMin  = intvoice.RatioMin
	RatioMax  = intvoice.RatioMax
	IndexMin  = intvoice.IndexMin
	IndexMax  = intvoice.IndexMax
	CutoffMin = 100.0
	CutoffMax = 8000.0
	QMin      = 0.5
	QMax      = 8.0
)

// NumOperators and NumAlgorithms mirror the voice package for callers that
// build UIs over the patch.
const (
	NumOperators  = intvoice.NumOperators
	NumAlgorithms = intvoice.NumAlgorithms
)

// masterGain scales the voice sum before the effects chain.
const masterGain = 0.4

// Modulation routing targets re-exported for the control surface.
type LFOTarget = intlfo.Target

const (
	LFOTargetOff          = intlfo.TargetOff
	LFOTargetRatio1       = intlfo.TargetRatio1
	LFOTargetRatio2       = intlfo.TargetRatio2
	LFOTargetRatio3       = intlfo.TargetRatio3
	LFOTargetRatio4       = intlfo.TargetRatio4
	LFOTargetIndex1       = intlfo.TargetIndex1
	LFOTargetIndex2       = intlfo.TargetIndex2
	LFOTargetIndex3       = intlfo.TargetIndex3
	LFOTargetIndex4       = intlfo.TargetIndex4
	LFOTargetFilterCutoff = intlfo.TargetFilterCutoff
	LFOTargetFilterQ      = intlfo.TargetFilterQ
	LFOTargetChorus       = intlfo.TargetChorus
	LFOTargetReverb       = intlfo.TargetReverb
	LFOTargetCount        = intlfo.TargetCount
)

type ModTarget = intlfo.ModTarget

const (
	ModTargetOff          = intlfo.ModTargetOff
	ModTargetIndex1       = intlfo.ModTargetIndex1
	ModTargetIndex2       = intlfo.ModTargetIndex2
	ModTargetIndex3       = intlfo.ModTargetIndex3
	ModTargetIndex4       = intlfo.ModTargetIndex4
	ModTargetFilterCutoff = intlfo.ModTargetFilterCutoff
	ModTargetCount        = intlfo.ModTargetCount
)

// FilterType re-exports the effects filter modes.
type FilterType = intfx.FilterType

const (
	FilterOff      = intfx.FilterOff
	FilterLowPass  = intfx.FilterLowPass
	FilterHighPass = intfx.FilterHighPass
)

type Option func(*config)

type config struct {
	voices    int
	scopeSize int
	sampleTap func([]float32)
}

func defaultConfig() config {
	return config{voices: intvoice.DefaultPoolSize, scopeSize: scope.DefaultSize}
}

// WithVoices sets the polyphony (default 8).
func WithVoices(n int) Option {
	return func(cfg *config) {
		cfg.voices = n
	}
}

// WithScopeSize sets the waveform tap length in samples (default 512).
func WithScopeSize(n int) Option {
	return func(cfg *config) {
		cfg.scopeSize = n
	}
}

// WithSampleTap installs a callback invoked with each rendered stereo buffer.
// The callback runs on the audio thread; keep work brief and non-blocking.
func WithSampleTap(tap func([]float32)) Option {
	return func(cfg *config) {
		cfg.sampleTap = tap
	}
}

// lfoState is one global LFO: its oscillator plus the atomically shared
// rate, depth and routing target.
type lfoState struct {
	osc    intlfo.LFO
	rate   param.Float
	depth  param.Float
	target param.Int
}

// Synth is the instrument. Create one with New, wire it to the speakers with
// Start (or pull samples yourself via Process), and drive it with NoteOn and
// the parameter setters.
type Synth struct {
	mu         sync.Mutex
	sampleRate int

	params *intvoice.Params
	pool   *intvoice.Pool

	filterType   param.Int
	filterCutoff param.Float
	filterQ      param.Float
	chorusMix    param.Float
	reverbMix    param.Float

	lfo1   lfoState
	lfo2   lfoState
	modEnv *intlfo.ModEnvelope
	modTgt param.Int

	// Render-goroutine-only effect state.
	filter      *intfx.Filter
	chorus      *intfx.Chorus
	reverbL     *intfx.Reverb
	reverbR     *intfx.Reverb
	lastCutoff  float64
	lastQ       float64
	lastFilType FilterType

	scope     *scope.Buffer
	sampleTap func([]float32)

	audio *intaudio.Player
}

// New builds a synth rendering at sampleRate Hz.
func New(sampleRate int, opts ...Option) (*Synth, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	sr := float64(sampleRate)
	params := intvoice.NewParams()
	s := &Synth{
		sampleRate: sampleRate,
		params:     params,
		pool:       intvoice.NewPool(cfg.voices, sr, params),
		modEnv:     intlfo.NewModEnvelope(sr),
		filter:     intfx.NewFilter(sr),
		chorus:     intfx.NewChorus(sr),
		reverbL:    intfx.NewReverb(sr),
		reverbR:    intfx.NewReverb(sr),
		scope:      scope.New(cfg.scopeSize),
		sampleTap:  cfg.sampleTap,
	}
	s.lfo1.osc = intlfo.New(sr)
	s.lfo2.osc = intlfo.New(sr)
	s.lfo1.rate.Store(2)
	s.lfo2.rate.Store(0.5)
	s.filterCutoff.Store(2000)
	s.filterQ.Store(0.7)
	s.lastCutoff = -1
	s.lastQ = -1
	return s, nil
}

// MidiToFreq converts a MIDI note number to Hz with A4 (note 69) at 440.
func MidiToFreq(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}

// NoteOn strikes a note at the given frequency. Striking a note that is
// already held is a no-op. The first held note also retriggers the
// modulation envelope. Most callers pass MidiToFreq(note) as the frequency;
// the split lets alternate tunings in without another code path.
func (s *Synth) NoteOn(note int, freq float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if freq <= 0 {
		return
	}
	if s.pool.HeldCount() == 0 {
		s.modEnv.NoteOn()
	}
	s.pool.NoteOn(note, freq)
}

// NoteOff releases a MIDI note. Releasing the last held note also releases
// the modulation envelope.
func (s *Synth) NoteOff(note int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pool.NoteOff(note)
	if s.pool.HeldCount() == 0 {
		s.modEnv.NoteOff()
	}
}

// ActiveVoices reports how many voices are currently producing signal,
// release tails included.
func (s *Synth) ActiveVoices() int {
	return s.pool.ActiveCount()
}

// Polyphony returns the voice count.
func (s *Synth) Polyphony() int { return s.pool.Size() }

// Scope exposes the waveform tap for display code.
func (s *Synth) Scope() *scope.Buffer { return s.scope }

// SampleRate returns the render rate in Hz.
func (s *Synth) SampleRate() int { return s.sampleRate }

// --- Patch setters. All clamp; none error. ---

func (s *Synth) SetRatio(op int, ratio float64) {
	if op < 0 || op >= NumOperators {
		return
	}
	s.params.Ratio[op].Store(clamp(ratio, RatioMin, RatioMax))
}

func (s *Synth) SetIndex(op int, index float64) {
	if op < 0 || op >= NumOperators {
		return
	}
	s.params.Index[op].Store(clamp(index, IndexMin, IndexMax))
}

func (s *Synth) SetAlgorithm(alg int) {
	if alg < 0 || alg >= NumAlgorithms {
		return
	}
	s.params.Alg.Store(int32(alg))
}

func (s *Synth) SetAttack(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.pool.Voices() {
		v.Envelope().SetAttack(seconds)
	}
}

func (s *Synth) SetDecay(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.pool.Voices() {
		v.Envelope().SetDecay(seconds)
	}
}

func (s *Synth) SetSustain(level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.pool.Voices() {
		v.Envelope().SetSustain(level)
	}
}

func (s *Synth) SetRelease(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.pool.Voices() {
		v.Envelope().SetRelease(seconds)
	}
}

func (s *Synth) SetFilterType(t FilterType) {
	switch t {
	case FilterOff, FilterLowPass, FilterHighPass:
		s.filterType.Store(int32(t))
	}
}

func (s *Synth) SetFilterCutoff(hz float64) { s.filterCutoff.Store(clamp(hz, CutoffMin, CutoffMax)) }
func (s *Synth) SetFilterQ(q float64)       { s.filterQ.Store(clamp(q, QMin, QMax)) }
func (s *Synth) SetChorusMix(mix float64)   { s.chorusMix.Store(clamp(mix, 0, 1)) }
func (s *Synth) SetReverbMix(mix float64)   { s.reverbMix.Store(clamp(mix, 0, 1)) }

func (s *Synth) SetLFO1Rate(hz float64)    { s.lfo1.rate.Store(max(0, hz)) }
func (s *Synth) SetLFO1Depth(d float64)    { s.lfo1.depth.Store(clamp(d, 0, 1)) }
func (s *Synth) SetLFO1Target(t LFOTarget) { s.setLFOTarget(&s.lfo1, t) }
func (s *Synth) SetLFO2Rate(hz float64)    { s.lfo2.rate.Store(max(0, hz)) }
func (s *Synth) SetLFO2Depth(d float64)    { s.lfo2.depth.Store(clamp(d, 0, 1)) }
func (s *Synth) SetLFO2Target(t LFOTarget) { s.setLFOTarget(&s.lfo2, t) }

func (s *Synth) setLFOTarget(l *lfoState, t LFOTarget) {
	if t < 0 || t >= LFOTargetCount {
		return
	}
	l.target.Store(int32(t))
}

func (s *Synth) SetModEnvAttack(seconds float64)  { s.modEnv.SetAttack(seconds) }
func (s *Synth) SetModEnvDecay(seconds float64)   { s.modEnv.SetDecay(seconds) }
func (s *Synth) SetModEnvSustain(level float64)   { s.modEnv.SetSustain(level) }
func (s *Synth) SetModEnvRelease(seconds float64) { s.modEnv.SetRelease(seconds) }
func (s *Synth) SetModEnvAmount(amount float64)   { s.modEnv.SetAmount(amount) }
func (s *Synth) SetModEnvTarget(t ModTarget) {
	if t < 0 || t >= ModTargetCount {
		return
	}
	s.modTgt.Store(int32(t))
}

// --- Patch getters, for preset capture and UI display. ---

func (s *Synth) Ratio(op int) float64 {
	if op < 0 || op >= NumOperators {
		return 0
	}
	return s.params.Ratio[op].Load()
}

func (s *Synth) Index(op int) float64 {
	if op < 0 || op >= NumOperators {
		return 0
	}
	return s.params.Index[op].Load()
}

func (s *Synth) Algorithm() int { return int(s.params.Alg.Load()) }

func (s *Synth) Attack() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Voices()[0].Envelope().Attack()
}

func (s *Synth) Decay() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Voices()[0].Envelope().Decay()
}

func (s *Synth) Sustain() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Voices()[0].Envelope().Sustain()
}

func (s *Synth) Release() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Voices()[0].Envelope().Release()
}

func (s *Synth) FilterType() FilterType { return FilterType(s.filterType.Load()) }
func (s *Synth) FilterCutoff() float64  { return s.filterCutoff.Load() }
func (s *Synth) FilterQ() float64       { return s.filterQ.Load() }
func (s *Synth) ChorusMix() float64     { return s.chorusMix.Load() }
func (s *Synth) ReverbMix() float64     { return s.reverbMix.Load() }

func (s *Synth) LFO1Rate() float64      { return s.lfo1.rate.Load() }
func (s *Synth) LFO1Depth() float64     { return s.lfo1.depth.Load() }
func (s *Synth) LFO1Target() LFOTarget  { return LFOTarget(s.lfo1.target.Load()) }
func (s *Synth) LFO2Rate() float64      { return s.lfo2.rate.Load() }
func (s *Synth) LFO2Depth() float64     { return s.lfo2.depth.Load() }
func (s *Synth) LFO2Target() LFOTarget  { return LFOTarget(s.lfo2.target.Load()) }
func (s *Synth) ModEnvAttack() float64  { return s.modEnv.Attack() }
func (s *Synth) ModEnvDecay() float64   { return s.modEnv.Decay() }
func (s *Synth) ModEnvSustain() float64 { return s.modEnv.Sustain() }
func (s *Synth) ModEnvRelease() float64 { return s.modEnv.Release() }
func (s *Synth) ModEnvAmount() float64  { return s.modEnv.Amount() }
func (s *Synth) ModEnvTarget() ModTarget {
	return ModTarget(s.modTgt.Load())
}

// Process renders len(dst)/2 frames of interleaved stereo into dst. It is
// the SampleSource hook for the audio backend and may also be called
// directly for offline rendering. It runs lock-free and allocation-free.
func (s *Synth) Process(dst []float32) {
	lfo1Tgt := LFOTarget(s.lfo1.target.Load())
	lfo2Tgt := LFOTarget(s.lfo2.target.Load())
	modTgt := ModTarget(s.modTgt.Load())
	lfo1Rate, lfo1Depth := s.lfo1.rate.Load(), s.lfo1.depth.Load()
	lfo2Rate, lfo2Depth := s.lfo2.rate.Load(), s.lfo2.depth.Load()
	filType := FilterType(s.filterType.Load())

	var mods intvoice.Mods
	for i := 0; i+1 < len(dst); i += 2 {
		lfo1Val := s.lfo1.osc.Process(lfo1Rate, lfo1Depth)
		lfo2Val := s.lfo2.osc.Process(lfo2Rate, lfo2Depth)
		modVal := s.modEnv.Process()

		for op := 0; op < NumOperators; op++ {
			ratio := s.params.Ratio[op].Load()
			ratio = intlfo.Apply(ratio, intlfo.TargetRatio1+LFOTarget(op), lfo1Tgt, lfo1Val, RatioMin, RatioMax)
			ratio = intlfo.Apply(ratio, intlfo.TargetRatio1+LFOTarget(op), lfo2Tgt, lfo2Val, RatioMin, RatioMax)
			mods.Ratio[op] = ratio

			index := s.params.Index[op].Load()
			index = intlfo.Apply(index, intlfo.TargetIndex1+LFOTarget(op), lfo1Tgt, lfo1Val, IndexMin, IndexMax)
			index = intlfo.Apply(index, intlfo.TargetIndex1+LFOTarget(op), lfo2Tgt, lfo2Val, IndexMin, IndexMax)
			index = intlfo.ApplyMod(index, intlfo.ModTargetIndex1+ModTarget(op), modTgt, modVal, IndexMin, IndexMax)
			mods.Index[op] = index
		}

		mono := s.pool.Process(&mods) * masterGain

		if filType != FilterOff {
			cutoff := s.filterCutoff.Load()
			cutoff = intlfo.Apply(cutoff, intlfo.TargetFilterCutoff, lfo1Tgt, lfo1Val, CutoffMin, CutoffMax)
			cutoff = intlfo.Apply(cutoff, intlfo.TargetFilterCutoff, lfo2Tgt, lfo2Val, CutoffMin, CutoffMax)
			cutoff = intlfo.ApplyMod(cutoff, intlfo.ModTargetFilterCutoff, modTgt, modVal, CutoffMin, CutoffMax)
			q := s.filterQ.Load()
			q = intlfo.Apply(q, intlfo.TargetFilterQ, lfo1Tgt, lfo1Val, QMin, QMax)
			q = intlfo.Apply(q, intlfo.TargetFilterQ, lfo2Tgt, lfo2Val, QMin, QMax)
			if cutoff != s.lastCutoff || q != s.lastQ || filType != s.lastFilType {
				s.lastCutoff, s.lastQ, s.lastFilType = cutoff, q, filType
				if filType == FilterLowPass {
					s.filter.SetLowPass(cutoff, q)
				} else {
					s.filter.SetHighPass(cutoff, q)
				}
			}
			mono = s.filter.Process(mono)
		}

		s.scope.Write(float32(mono))

		chorusMix := s.chorusMix.Load()
		chorusMix = intlfo.Apply(chorusMix, intlfo.TargetChorus, lfo1Tgt, lfo1Val, 0, 1)
		chorusMix = intlfo.Apply(chorusMix, intlfo.TargetChorus, lfo2Tgt, lfo2Val, 0, 1)
		l, r := s.chorus.Process(mono, chorusMix)

		reverbMix := s.reverbMix.Load()
		reverbMix = intlfo.Apply(reverbMix, intlfo.TargetReverb, lfo1Tgt, lfo1Val, 0, 1)
		reverbMix = intlfo.Apply(reverbMix, intlfo.TargetReverb, lfo2Tgt, lfo2Val, 0, 1)
		l = s.reverbL.Process(l, reverbMix)
		r = s.reverbR.Process(r, reverbMix)

		dst[i] = float32(math.Tanh(l))
		dst[i+1] = float32(math.Tanh(r))
	}

	if s.sampleTap != nil {
		s.sampleTap(dst)
	}
}

// Start opens the audio device and begins pulling samples from Process.
func (s *Synth) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.audio != nil {
		s.audio.Play()
		return nil
	}
	backend, err := intaudio.NewPlayer(s.sampleRate, s)
	if err != nil {
		return err
	}
	s.audio = backend
	s.audio.Play()
	return nil
}

// Pause stops pulling samples without tearing down the device.
func (s *Synth) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.audio != nil {
		s.audio.Pause()
	}
}

// Stop tears down the audio device.
func (s *Synth) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.audio == nil {
		return nil
	}
	err := s.audio.Stop()
	s.audio = nil
	return err
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
