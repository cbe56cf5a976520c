// Package lfo implements the global low-frequency oscillator and modulation
// envelope of the extended build, plus their routing targets.
package lfo

import (
	"math"

	"github.com/cbegin/polyfm-go/internal/env"
	"github.com/cbegin/polyfm-go/internal/param"
)

// Target selects the parameter a global LFO perturbs.
type Target int32

const (
	TargetOff Target = iota
	TargetRatio1
	TargetRatio2
	TargetRatio3
	TargetRatio4
	TargetIndex1
	TargetIndex2
	TargetIndex3
	TargetIndex4
	TargetFilterCutoff
	TargetFilterQ
	TargetChorus
	TargetReverb
	TargetCount
)

var targetNames = [TargetCount]string{
	"OFF", "Ratio1", "Ratio2", "Ratio3", "Ratio4",
	"Index1", "Index2", "Index3", "Index4",
	"Filter", "Res", "Chorus", "Reverb",
}

func (t Target) String() string {
	if t < 0 || t >= TargetCount {
		return "unknown"
	}
	return targetNames[t]
}

// ModTarget selects the parameter the modulation envelope drives.
type ModTarget int32

const (
	ModTargetOff ModTarget = iota
	ModTargetIndex1
	ModTargetIndex2
	ModTargetIndex3
	ModTargetIndex4
	ModTargetFilterCutoff
	ModTargetCount
)

var modTargetNames = [ModTargetCount]string{
	"OFF", "Idx1", "Idx2", "Idx3", "Idx4", "Filter",
}

func (t ModTarget) String() string {
	if t < 0 || t >= ModTargetCount {
		return "unknown"
	}
	return modTargetNames[t]
}

// LFO is a free-running sine modulator shared by all voices. It is sampled
// once per frame on the audio context.
type LFO struct {
	phase      float64
	sampleRate float64
}

func New(sampleRate float64) LFO {
	return LFO{sampleRate: sampleRate}
}

// Process advances the LFO by one sample and returns sin(2π·phase)·depth.
func (l *LFO) Process(rateHz, depth float64) float64 {
	out := math.Sin(l.phase*2*math.Pi) * depth
	l.phase += rateHz / l.sampleRate
	if l.phase >= 1 {
		l.phase -= 1
	}
	return out
}

func (l *LFO) Reset() { l.phase = 0 }

// Apply offsets base by value scaled to half the target's range, clamped to
// [minVal, maxVal]. Destinations whose target does not match the active one
// get base back untouched.
func Apply(base float64, target, active Target, value, minVal, maxVal float64) float64 {
	if target != active || active == TargetOff {
		return base
	}
	out := base + value*(maxVal-minVal)*0.5
	return min(maxVal, max(minVal, out))
}

// ApplyMod is the modulation-envelope counterpart of Apply.
func ApplyMod(base float64, target, active ModTarget, value, minVal, maxVal float64) float64 {
	if target != active || active == ModTargetOff {
		return base
	}
	out := base + value*(maxVal-minVal)*0.5
	return min(maxVal, max(minVal, out))
}

// ModEnvelope is a global ADSR scaled by an amount, retriggered on note-on
// and released when the last held note goes away.
type ModEnvelope struct {
	env    *env.ADSR
	amount param.Float
}

func NewModEnvelope(sampleRate float64) *ModEnvelope {
	m := &ModEnvelope{env: env.New(sampleRate)}
	m.env.SetAttack(0.01)
	m.env.SetDecay(0.3)
	m.env.SetSustain(0)
	m.env.SetRelease(0.2)
	return m
}

func (m *ModEnvelope) NoteOn()  { m.env.NoteOn() }
func (m *ModEnvelope) NoteOff() { m.env.NoteOff() }

// Process advances the envelope and returns level·amount.
func (m *ModEnvelope) Process() float64 {
	if !m.env.Active() {
		return 0
	}
	return m.env.Process() * m.amount.Load()
}

func (m *ModEnvelope) SetAttack(seconds float64)  { m.env.SetAttack(seconds) }
func (m *ModEnvelope) SetDecay(seconds float64)   { m.env.SetDecay(seconds) }
func (m *ModEnvelope) SetSustain(level float64)   { m.env.SetSustain(level) }
func (m *ModEnvelope) SetRelease(seconds float64) { m.env.SetRelease(seconds) }
func (m *ModEnvelope) SetAmount(amount float64)   { m.amount.Store(min(1, max(0, amount))) }

func (m *ModEnvelope) Attack() float64  { return m.env.Attack() }
func (m *ModEnvelope) Decay() float64   { return m.env.Decay() }
func (m *ModEnvelope) Sustain() float64 { return m.env.Sustain() }
func (m *ModEnvelope) Release() float64 { return m.env.Release() }
func (m *ModEnvelope) Amount() float64  { return m.amount.Load() }
