// Package voice implements the 4-operator FM voice and the fixed-size
// polyphony pool.
package voice

import (
	"github.com/cbegin/polyfm-go/internal/env"
	"github.com/cbegin/polyfm-go/internal/osc"
	"github.com/cbegin/polyfm-go/internal/param"
)

// NumOperators is the operator count per voice.
const NumOperators = 4

// NumAlgorithms is the count of valid operator wirings.
const NumAlgorithms = 6

// Algorithm indices. Operator 1 is always a carrier; operator 1 also owns
// the self-feedback path.
const (
	AlgStack    = 0 // 4→3→2→1
	AlgTwin     = 1 // (4→3)+2 → 1
	AlgBranch   = 2 // 4→3→1 and 4→2→1
	AlgParallel = 3 // (2+3+4) → 1
	AlgDual     = 4 // 4→3 carrier, 2→1 carrier
	AlgTriple   = 5 // 4 → (1,2,3) all carriers
)

// Parameter ranges shared by the control surface and the modulation routing.
const (
	RatioMin = 0.5
	RatioMax = 8.0
	IndexMin = 0.0
	IndexMax = 10.0
)

// voiceAmplitude keeps a single full-level voice well inside headroom.
const voiceAmplitude = 0.3

// Params is the patch state shared by every voice in a pool. The control
// context stores into it and the audio context loads from it each sample, so
// every field is a single-word atomic cell.
type Params struct {
	Ratio [NumOperators]param.Float
	Index [NumOperators]param.Float
	Alg   param.Int
}

// NewParams returns a patch with all operators at ratio 1 and only the
// carrier audible.
func NewParams() *Params {
	p := &Params{}
	for i := 0; i < NumOperators; i++ {
		p.Ratio[i].Store(1)
	}
	p.Alg.Store(AlgStack)
	return p
}

// Mods carries the per-sample effective operator parameters, after global
// LFO and modulation-envelope offsets have been applied and clamped. The
// render loop builds one per sample and hands it to every active voice.
type Mods struct {
	Ratio [NumOperators]float64
	Index [NumOperators]float64
}

// Voice is one note: four phase-modulation operators, an amplitude envelope
// and the feedback history for operator 1.
//
// The oscillators, baseFreq, lastRatio and prev1 belong to the audio context
// alone. The control context never writes them: NoteOn only arms the atomic
// trigger, and Process consumes it before rendering, so a re-strike on a
// still-sounding voice stays race-free.
type Voice struct {
	ops      [NumOperators]osc.Oscillator
	env      *env.ADSR
	params   *Params
	baseFreq float64
	// lastRatio lets Process retune only when a ratio actually moved, so an
	// LFO on a ratio glides the operator without resetting its phase.
	lastRatio [NumOperators]float64
	prev1     float64

	pendingFreq param.Float
	trigger     param.Int
}

func NewVoice(sampleRate float64, params *Params) *Voice {
	v := &Voice{env: env.New(sampleRate), params: params}
	for i := range v.ops {
		v.ops[i] = osc.New(440, sampleRate)
	}
	return v
}

// NoteOn schedules a strike. The retune and phase reset happen at the top of
// the next Process call, on the audio context; here the control context only
// stores the frequency, arms the trigger and restarts the envelope, all
// through atomic cells. The trigger is armed before the envelope restarts so
// the new attack never sounds at the old pitch.
func (v *Voice) NoteOn(freq float64) {
	v.pendingFreq.Store(freq)
	v.trigger.Store(1)
	v.env.NoteOn()
}

// NoteOff releases the envelope; the voice keeps sounding through the
// release tail.
func (v *Voice) NoteOff() {
	v.env.NoteOff()
}

// Active reports whether the envelope still produces signal.
func (v *Voice) Active() bool {
	return v.env.Active()
}

// Envelope exposes the amplitude envelope for patch edits.
func (v *Voice) Envelope() *env.ADSR { return v.env }

// Process renders one sample. An idle voice returns 0 without advancing any
// oscillator phase, so silent slots cost almost nothing.
func (v *Voice) Process(mods *Mods) float64 {
	// Consume a pending strike: retune every operator to the new base
	// frequency, reset all phases and the feedback history. Resetting phase
	// keeps the attack transient identical from strike to strike.
	if v.trigger.Swap(0) != 0 {
		v.baseFreq = v.pendingFreq.Load()
		for i := range v.ops {
			ratio := clamp(mods.Ratio[i], RatioMin, RatioMax)
			v.lastRatio[i] = ratio
			v.ops[i].SetFrequency(v.baseFreq * ratio)
			v.ops[i].Reset()
		}
		v.prev1 = 0
	}

	if !v.env.Active() {
		return 0
	}

	for i := range v.ops {
		if mods.Ratio[i] != v.lastRatio[i] {
			v.lastRatio[i] = mods.Ratio[i]
			v.ops[i].SetFrequency(v.baseFreq * mods.Ratio[i])
		}
	}

	i1 := mods.Index[0]
	i2 := mods.Index[1]
	i3 := mods.Index[2]
	i4 := mods.Index[3]
	fb := i1 * v.prev1

	var out float64
	switch v.params.Alg.Load() {
	case AlgStack:
		s4 := v.ops[3].Process(0)
		s3 := v.ops[2].Process(i4 * s4)
		s2 := v.ops[1].Process(i3 * s3)
		s1 := v.ops[0].Process(i2*s2 + fb)
		v.prev1 = s1
		out = s1

	case AlgTwin:
		s4 := v.ops[3].Process(0)
		s3 := v.ops[2].Process(i4 * s4)
		s2 := v.ops[1].Process(0)
		s1 := v.ops[0].Process(i3*s3 + i2*s2 + fb)
		v.prev1 = s1
		out = s1

	case AlgBranch:
		s4 := v.ops[3].Process(0)
		s3 := v.ops[2].Process(i4 * s4)
		s2 := v.ops[1].Process(i4 * s4)
		s1 := v.ops[0].Process(i3*s3 + i2*s2 + fb)
		v.prev1 = s1
		out = s1

	case AlgParallel:
		s4 := v.ops[3].Process(0)
		s3 := v.ops[2].Process(0)
		s2 := v.ops[1].Process(0)
		s1 := v.ops[0].Process(i2*s2 + i3*s3 + i4*s4 + fb)
		v.prev1 = s1
		out = s1

	case AlgDual:
		s4 := v.ops[3].Process(0)
		s3 := v.ops[2].Process(i4 * s4)
		s2 := v.ops[1].Process(0)
		s1 := v.ops[0].Process(i2*s2 + fb)
		v.prev1 = s1
		out = (s1 + 0.7*s3) * 0.7

	case AlgTriple:
		s4 := v.ops[3].Process(0)
		mod := i4 * s4
		s3 := v.ops[2].Process(mod)
		s2 := v.ops[1].Process(mod)
		s1 := v.ops[0].Process(mod + fb)
		v.prev1 = s1
		out = (s1 + 0.6*s2 + 0.4*s3) * 0.5

	default:
		out = 0
	}

	return out * voiceAmplitude * v.env.Process()
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
