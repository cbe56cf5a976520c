package env

import (
	"math"
	"testing"
)

const testRate = 44100.0

func TestAttackRampsToOne(t *testing.T) {
	e := New(testRate)
	e.SetAttack(0.01)
	e.NoteOn()
	prev := 0.0
	for i := 0; i < 441; i++ {
		level := e.Process()
		if level < prev {
			t.Fatalf("attack not monotonic at sample %d: %v < %v", i, level, prev)
		}
		prev = level
	}
	// One attack time has elapsed; the envelope should be at or past the peak.
	if e.Level() < 0.99 {
		t.Errorf("level %v after full attack, want ~1", e.Level())
	}
}

func TestDecaySettlesAtSustain(t *testing.T) {
	e := New(testRate)
	e.SetAttack(0.001)
	e.SetDecay(0.05)
	e.SetSustain(0.5)
	e.NoteOn()
	// Attack (~44 samples) + decay (~2205 samples) with margin.
	for i := 0; i < 4000; i++ {
		e.Process()
	}
	if e.State() != StateSustain {
		t.Fatalf("state = %v, want sustain", e.State())
	}
	if math.Abs(e.Level()-0.5) > 1e-9 {
		t.Errorf("level = %v, want 0.5", e.Level())
	}
}

func TestReleaseDurationIndependentOfLevel(t *testing.T) {
	// Release from half level must still take the full release time: the
	// increment is recomputed from the current level at note-off.
	e := New(testRate)
	e.SetAttack(0.001)
	e.SetDecay(0.05)
	e.SetSustain(0.5)
	e.SetRelease(0.1)
	e.NoteOn()
	for i := 0; i < 4000; i++ {
		e.Process()
	}
	e.NoteOff()
	releaseSamples := int(0.1 * testRate)
	for i := 0; i < releaseSamples-100; i++ {
		e.Process()
	}
	if !e.Active() {
		t.Fatal("envelope finished release early")
	}
	for i := 0; i < 300; i++ {
		e.Process()
	}
	if e.Active() {
		t.Error("envelope still active after full release time")
	}
}

func TestRetriggerContinuesFromCurrentLevel(t *testing.T) {
	e := New(testRate)
	e.SetAttack(0.1)
	e.NoteOn()
	for i := 0; i < 1000; i++ {
		e.Process()
	}
	e.NoteOff()
	for i := 0; i < 100; i++ {
		e.Process()
	}
	mid := e.Level()
	if mid <= 0 {
		t.Fatal("expected partial level before retrigger")
	}
	e.NoteOn()
	level := e.Process()
	if level < mid {
		t.Errorf("retrigger dropped level: %v -> %v", mid, level)
	}
}

func TestNoteOffWhileIdleIsNoOp(t *testing.T) {
	e := New(testRate)
	e.NoteOff()
	if e.State() != StateIdle {
		t.Errorf("state = %v, want idle", e.State())
	}
	if e.Process() != 0 {
		t.Error("idle envelope should output 0")
	}
}

func TestTimeFloorsPreventDivideByZero(t *testing.T) {
	e := New(testRate)
	e.SetAttack(0)
	e.SetDecay(-1)
	e.SetRelease(0)
	e.NoteOn()
	for i := 0; i < 100; i++ {
		level := e.Process()
		if math.IsInf(level, 0) || math.IsNaN(level) {
			t.Fatalf("level %v with zero stage times", level)
		}
	}
}

func TestSustainClampedToUnitRange(t *testing.T) {
	e := New(testRate)
	e.SetSustain(1.5)
	if e.Sustain() != 1 {
		t.Errorf("sustain = %v, want 1", e.Sustain())
	}
	e.SetSustain(-0.2)
	if e.Sustain() != 0 {
		t.Errorf("sustain = %v, want 0", e.Sustain())
	}
}
