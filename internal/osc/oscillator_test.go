package osc

import (
	"math"
	"testing"
)

func TestProcessMatchesSine(t *testing.T) {
	const sr = 44100.0
	const freq = 440.0
	o := New(freq, sr)
	inc := 2 * math.Pi * freq / sr
	for n := 0; n < 1000; n++ {
		got := o.Process(0)
		want := math.Sin(float64(n) * inc)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("sample %d: got %v want %v", n, got, want)
		}
	}
}

func TestPhaseStaysWrapped(t *testing.T) {
	o := New(10000, 44100)
	for n := 0; n < 100000; n++ {
		o.Process(0)
		if p := o.Phase(); p < 0 || p >= 2*math.Pi {
			t.Fatalf("phase %v out of [0, 2pi) at sample %d", p, n)
		}
	}
}

func TestPhaseModulationShiftsOutput(t *testing.T) {
	o := New(440, 44100)
	o.Process(0)
	got := o.Process(math.Pi / 2)
	want := math.Sin(2*math.Pi*440/44100 + math.Pi/2)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %v want %v", got, want)
	}
}

func TestSetFrequencyKeepsPhase(t *testing.T) {
	o := New(440, 44100)
	for i := 0; i < 100; i++ {
		o.Process(0)
	}
	before := o.Phase()
	o.SetFrequency(880)
	if o.Phase() != before {
		t.Errorf("phase changed on retune: %v -> %v", before, o.Phase())
	}
	if o.Frequency() != 880 {
		t.Errorf("frequency = %v, want 880", o.Frequency())
	}
}
