package lfo

import (
	"math"
	"testing"
)

func TestProcessIsScaledSine(t *testing.T) {
	l := New(4)
	// 1 Hz at 4 Hz sample rate hits the quarter-cycle points exactly.
	want := []float64{0, 0.5, 0, -0.5}
	for i, w := range want {
		got := l.Process(1, 0.5)
		if math.Abs(got-w) > 1e-9 {
			t.Errorf("sample %d: got %v want %v", i, got, w)
		}
	}
}

func TestZeroDepthIsSilent(t *testing.T) {
	l := New(44100)
	for i := 0; i < 1000; i++ {
		if out := l.Process(5, 0); out != 0 {
			t.Fatalf("sample %d: got %v with zero depth", i, out)
		}
	}
}

func TestApplyOffsetsByHalfRange(t *testing.T) {
	got := Apply(1, TargetRatio1, TargetRatio1, 1, 0.5, 8)
	want := 1 + (8-0.5)*0.5
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("got %v want %v", got, want)
	}
}

func TestApplyClampsToRange(t *testing.T) {
	if got := Apply(7, TargetRatio1, TargetRatio1, 1, 0.5, 8); got != 8 {
		t.Errorf("upper clamp: got %v want 8", got)
	}
	if got := Apply(1, TargetRatio1, TargetRatio1, -1, 0.5, 8); got != 0.5 {
		t.Errorf("lower clamp: got %v want 0.5", got)
	}
}

func TestApplyIgnoresOtherTargets(t *testing.T) {
	if got := Apply(1, TargetRatio2, TargetRatio1, 1, 0.5, 8); got != 1 {
		t.Errorf("mismatched target: got %v want 1", got)
	}
	if got := Apply(1, TargetOff, TargetOff, 1, 0.5, 8); got != 1 {
		t.Errorf("off target: got %v want 1", got)
	}
}

func TestModEnvelopeScalesByAmount(t *testing.T) {
	m := NewModEnvelope(44100)
	m.SetAttack(0.001)
	m.SetSustain(1)
	m.SetAmount(0.5)
	m.NoteOn()
	var out float64
	for i := 0; i < 200; i++ {
		out = m.Process()
	}
	if math.Abs(out-0.5) > 1e-9 {
		t.Errorf("settled output = %v, want 0.5", out)
	}
}

func TestModEnvelopeIdleIsZero(t *testing.T) {
	m := NewModEnvelope(44100)
	m.SetAmount(1)
	if m.Process() != 0 {
		t.Error("idle modulation envelope should output 0")
	}
}
