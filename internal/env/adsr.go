// Package env implements the per-voice ADSR amplitude envelope.
package env

import "github.com/cbegin/polyfm-go/internal/param"

// State enumerates the envelope stages.
type State int32

const (
	StateIdle State = iota
	StateAttack
	StateDecay
	StateSustain
	StateRelease
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAttack:
		return "attack"
	case StateDecay:
		return "decay"
	case StateSustain:
		return "sustain"
	case StateRelease:
		return "release"
	default:
		return "unknown"
	}
}

// minStageTime floors every time constant so increment computation never
// divides by zero.
const minStageTime = 0.001

// ADSR is a four-stage envelope. Process runs on the audio context; the
// setters, NoteOn and NoteOff run on the control context. Everything the two
// contexts share lives in atomic cells.
type ADSR struct {
	sampleRate float64

	// Control-context-only copies of the stage parameters.
	attackTime  float64
	decayTime   float64
	sustainLvl  float64
	releaseTime float64

	state      param.Int
	level      param.Float
	attackInc  param.Float
	decayInc   param.Float
	releaseInc param.Float
	sustain    param.Float
}

// New returns an envelope with the original instrument's defaults
// (A 10ms, D 100ms, S 0.7, R 300ms).
func New(sampleRate float64) *ADSR {
	e := &ADSR{
		sampleRate:  sampleRate,
		attackTime:  0.01,
		decayTime:   0.1,
		sustainLvl:  0.7,
		releaseTime: 0.3,
	}
	e.sustain.Store(e.sustainLvl)
	e.updateIncrements()
	return e
}

// NoteOn (re)starts the attack stage. The level is deliberately not reset:
// retriggering a still-sounding voice ramps from the current level, which
// avoids a click.
func (e *ADSR) NoteOn() {
	e.state.Store(int32(StateAttack))
}

// NoteOff starts the release stage. The release increment is recomputed from
// the current level rather than from 1.0 so the release always takes
// releaseTime seconds regardless of where the envelope was interrupted.
func (e *ADSR) NoteOff() {
	if State(e.state.Load()) == StateIdle {
		return
	}
	e.releaseInc.Store(e.level.Load() / (e.releaseTime * e.sampleRate))
	e.state.Store(int32(StateRelease))
}

// Process advances the envelope by one sample and returns the new level.
func (e *ADSR) Process() float64 {
	level := e.level.Load()
	switch State(e.state.Load()) {
	case StateIdle:
		level = 0

	case StateAttack:
		level += e.attackInc.Load()
		if level >= 1 {
			level = 1
			e.state.Store(int32(StateDecay))
		}

	case StateDecay:
		sustain := e.sustain.Load()
		level -= e.decayInc.Load()
		if level <= sustain {
			level = sustain
			e.state.Store(int32(StateSustain))
		}

	case StateSustain:
		level = e.sustain.Load()

	case StateRelease:
		level -= e.releaseInc.Load()
		if level <= 0 {
			level = 0
			e.state.Store(int32(StateIdle))
		}
	}
	e.level.Store(level)
	return level
}

// Active reports whether the envelope still produces signal. This is the
// test the voice uses to decide whether to render and the pool uses to
// reclaim slots.
func (e *ADSR) Active() bool {
	return State(e.state.Load()) != StateIdle
}

func (e *ADSR) State() State   { return State(e.state.Load()) }
func (e *ADSR) Level() float64 { return e.level.Load() }

func (e *ADSR) SetAttack(seconds float64) {
	e.attackTime = max(minStageTime, seconds)
	e.updateIncrements()
}

func (e *ADSR) SetDecay(seconds float64) {
	e.decayTime = max(minStageTime, seconds)
	e.updateIncrements()
}

func (e *ADSR) SetSustain(level float64) {
	e.sustainLvl = min(1, max(0, level))
	e.sustain.Store(e.sustainLvl)
	e.updateIncrements()
}

func (e *ADSR) SetRelease(seconds float64) {
	e.releaseTime = max(minStageTime, seconds)
	e.updateIncrements()
}

func (e *ADSR) Attack() float64  { return e.attackTime }
func (e *ADSR) Decay() float64   { return e.decayTime }
func (e *ADSR) Sustain() float64 { return e.sustainLvl }
func (e *ADSR) Release() float64 { return e.releaseTime }

func (e *ADSR) updateIncrements() {
	e.attackInc.Store(1 / (e.attackTime * e.sampleRate))
	e.decayInc.Store((1 - e.sustainLvl) / (e.decayTime * e.sampleRate))
}
