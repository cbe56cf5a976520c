// Package osc implements the phase-accumulating sine oscillator used for
// every FM operator.
package osc

import "math"

const twoPi = 2 * math.Pi

// Oscillator generates a phase-continuous sine. It is owned exclusively by
// its containing voice and only ever touched from the audio context.
type Oscillator struct {
	phase          float64
	phaseIncrement float64
	frequency      float64
	sampleRate     float64
}

// New returns an oscillator at the given frequency. Frequency must be
// positive; the caller is responsible for never passing zero or less.
func New(freq, sampleRate float64) Oscillator {
	o := Oscillator{frequency: freq, sampleRate: sampleRate}
	o.phaseIncrement = twoPi * freq / sampleRate
	return o
}

// SetFrequency retunes the oscillator. The phase is left untouched so a
// retune mid-note does not click.
func (o *Oscillator) SetFrequency(freq float64) {
	o.frequency = freq
	o.phaseIncrement = twoPi * freq / o.sampleRate
}

func (o *Oscillator) Frequency() float64 { return o.frequency }

// Process returns sin(phase + mod) and advances the phase by one sample,
// wrapping it back into [0, 2π).
func (o *Oscillator) Process(mod float64) float64 {
	out := math.Sin(o.phase + mod)
	o.phase += o.phaseIncrement
	if o.phase >= twoPi {
		o.phase -= twoPi
	}
	return out
}

// Phase reports the current phase, for tests and diagnostics.
func (o *Oscillator) Phase() float64 { return o.phase }

// Reset zeroes the phase. Only called when a strike is consumed, where a
// deterministic starting waveform matters more than continuity.
func (o *Oscillator) Reset() { o.phase = 0 }
