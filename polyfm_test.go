package polyfm

import (
	"math"
	"testing"
)

const testRate = 44100

func TestMidiToFreq(t *testing.T) {
	if f := MidiToFreq(69); f != 440 {
		t.Errorf("A4 = %v, want 440", f)
	}
	if f := MidiToFreq(81); math.Abs(f-880) > 1e-9 {
		t.Errorf("A5 = %v, want 880", f)
	}
	if f := MidiToFreq(60); math.Abs(f-261.6255653005986) > 1e-9 {
		t.Errorf("C4 = %v", f)
	}
	for n := 0; n < 127; n++ {
		if MidiToFreq(n) >= MidiToFreq(n+1) {
			t.Fatalf("not monotonic at note %d", n)
		}
	}
}

func TestNoteOnProducesSound(t *testing.T) {
	s, err := New(testRate)
	if err != nil {
		t.Fatal(err)
	}
	s.NoteOn(69, MidiToFreq(69))
	buf := make([]float32, 4096)
	s.Process(buf)
	var peak float32
	for _, v := range buf {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		t.Error("no output while a note is held")
	}
}

func TestOutputStaysBounded(t *testing.T) {
	s, err := New(testRate)
	if err != nil {
		t.Fatal(err)
	}
	// Worst case: every operator screaming into a full chord.
	for op := 0; op < NumOperators; op++ {
		s.SetIndex(op, IndexMax)
	}
	s.SetAlgorithm(3)
	for _, note := range []int{48, 52, 55, 60, 64, 67, 72, 76} {
		s.NoteOn(note, MidiToFreq(note))
	}
	buf := make([]float32, 8192)
	s.Process(buf)
	for i, v := range buf {
		if v < -1 || v > 1 {
			t.Fatalf("sample %d = %v, outside [-1, 1]", i, v)
		}
	}
}

func TestSilenceWhenIdle(t *testing.T) {
	s, err := New(testRate)
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]float32, 1024)
	s.Process(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("sample %d = %v with no notes", i, v)
		}
	}
}

func TestReleaseTailThenSilence(t *testing.T) {
	s, err := New(testRate)
	if err != nil {
		t.Fatal(err)
	}
	s.SetRelease(0.05)
	s.NoteOn(69, MidiToFreq(69))
	buf := make([]float32, 2*testRate/10) // 0.1s
	s.Process(buf)
	s.NoteOff(69)
	if s.ActiveVoices() != 1 {
		t.Fatalf("voices = %d right after release, want 1", s.ActiveVoices())
	}
	s.Process(buf) // another 0.1s, past the 50ms release
	if s.ActiveVoices() != 0 {
		t.Errorf("voices = %d after release tail, want 0", s.ActiveVoices())
	}
}

func TestSettersClampToRange(t *testing.T) {
	s, err := New(testRate)
	if err != nil {
		t.Fatal(err)
	}
	s.SetRatio(0, 100)
	if got := s.Ratio(0); got != RatioMax {
		t.Errorf("ratio = %v, want %v", got, RatioMax)
	}
	s.SetIndex(0, -5)
	if got := s.Index(0); got != IndexMin {
		t.Errorf("index = %v, want %v", got, IndexMin)
	}
	s.SetFilterCutoff(1)
	if got := s.FilterCutoff(); got != CutoffMin {
		t.Errorf("cutoff = %v, want %v", got, CutoffMin)
	}
	s.SetChorusMix(2)
	if got := s.ChorusMix(); got != 1 {
		t.Errorf("chorus mix = %v, want 1", got)
	}
	s.SetAlgorithm(-1)
	s.SetAlgorithm(NumAlgorithms)
	if got := s.Algorithm(); got != 0 {
		t.Errorf("algorithm = %d after out-of-range sets, want 0", got)
	}
}

func TestPresetRoundTrip(t *testing.T) {
	s, err := New(testRate)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range FactoryPresets() {
		s.ApplyPreset(p)
		got := s.CapturePreset(p.Name)
		if got != p {
			t.Errorf("preset %s did not survive apply/capture:\n got %+v\nwant %+v", p.Name, got, p)
		}
	}
}

func TestFactoryPresetBank(t *testing.T) {
	presets := FactoryPresets()
	if len(presets) != 8 {
		t.Fatalf("bank size = %d, want 8", len(presets))
	}
	if presets[0].Name != "Init" {
		t.Errorf("first preset = %s, want Init", presets[0].Name)
	}
	seen := map[string]bool{}
	for _, p := range presets {
		if seen[p.Name] {
			t.Errorf("duplicate preset name %s", p.Name)
		}
		seen[p.Name] = true
		if p.Algorithm < 0 || p.Algorithm >= NumAlgorithms {
			t.Errorf("%s: algorithm %d out of range", p.Name, p.Algorithm)
		}
	}
}

func TestRenderNoteLengthAndTail(t *testing.T) {
	presets := FactoryPresets()
	out, err := RenderNote(presets[0], 69, testRate, 0.2, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	wantLen := int(0.7*testRate) * 2
	if len(out) != wantLen {
		t.Fatalf("length = %d, want %d", len(out), wantLen)
	}
	var heldPeak, endPeak float32
	for _, v := range out[:1000] {
		if v < 0 {
			v = -v
		}
		if v > heldPeak {
			heldPeak = v
		}
	}
	for _, v := range out[len(out)-1000:] {
		if v < 0 {
			v = -v
		}
		if v > endPeak {
			endPeak = v
		}
	}
	if heldPeak == 0 {
		t.Error("no output during held note")
	}
	if endPeak > heldPeak/10 {
		t.Errorf("tail did not decay: held peak %v, end peak %v", heldPeak, endPeak)
	}
}

func TestScopeTracksOutput(t *testing.T) {
	s, err := New(testRate, WithScopeSize(256))
	if err != nil {
		t.Fatal(err)
	}
	if s.Scope().Size() != 256 {
		t.Fatalf("scope size = %d, want 256", s.Scope().Size())
	}
	s.NoteOn(69, MidiToFreq(69))
	buf := make([]float32, 4096)
	s.Process(buf)
	snap := make([]float32, 256)
	s.Scope().CopyTo(snap)
	var peak float32
	for _, v := range snap {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		t.Error("scope saw no signal while a note was held")
	}
}

func TestSampleTapReceivesBuffers(t *testing.T) {
	var tapped int
	s, err := New(testRate, WithSampleTap(func(buf []float32) {
		tapped += len(buf)
	}))
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]float32, 1024)
	s.Process(buf)
	s.Process(buf)
	if tapped != 2048 {
		t.Errorf("tap received %d samples, want 2048", tapped)
	}
}

func TestLFOVibratoModulatesPitch(t *testing.T) {
	// With LFO1 routed to the carrier ratio, two renders with different
	// depths must diverge.
	render := func(depth float64) []float32 {
		s, err := New(testRate)
		if err != nil {
			t.Fatal(err)
		}
		s.SetLFO1Rate(5)
		s.SetLFO1Depth(depth)
		s.SetLFO1Target(LFOTargetRatio1)
		s.NoteOn(69, MidiToFreq(69))
		buf := make([]float32, 8192)
		s.Process(buf)
		return buf
	}
	plain := render(0)
	vibrato := render(0.2)
	same := true
	for i := range plain {
		if plain[i] != vibrato[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("LFO on carrier ratio had no audible effect")
	}
}

func TestModEnvSweepsIndex(t *testing.T) {
	render := func(amount float64) []float32 {
		s, err := New(testRate)
		if err != nil {
			t.Fatal(err)
		}
		s.SetIndex(1, 2)
		s.SetModEnvAmount(amount)
		s.SetModEnvTarget(ModTargetIndex2)
		s.NoteOn(69, MidiToFreq(69))
		buf := make([]float32, 8192)
		s.Process(buf)
		return buf
	}
	plain := render(0)
	swept := render(0.8)
	same := true
	for i := range plain {
		if plain[i] != swept[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("modulation envelope on index had no audible effect")
	}
}

func TestPolyphonyOption(t *testing.T) {
	s, err := New(testRate, WithVoices(4))
	if err != nil {
		t.Fatal(err)
	}
	if s.Polyphony() != 4 {
		t.Fatalf("polyphony = %d, want 4", s.Polyphony())
	}
	for note := 60; note < 66; note++ {
		s.NoteOn(note, MidiToFreq(note))
	}
	if active := s.ActiveVoices(); active > 4 {
		t.Errorf("active = %d voices, more than the pool holds", active)
	}
}

func TestInvalidSampleRate(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Error("expected error for zero sample rate")
	}
}
