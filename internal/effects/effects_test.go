package effects

import (
	"math"
	"testing"
)

const testRate = 44100.0

func TestLowPassAttenuatesHighFrequencies(t *testing.T) {
	f := NewFilter(testRate)
	f.SetLowPass(500, 0.707)
	var inRMS, outRMS float64
	n := 4410
	for i := 0; i < n; i++ {
		in := math.Sin(2 * math.Pi * 8000 * float64(i) / testRate)
		out := f.Process(in)
		inRMS += in * in
		outRMS += out * out
	}
	inRMS = math.Sqrt(inRMS / float64(n))
	outRMS = math.Sqrt(outRMS / float64(n))
	if outRMS > inRMS*0.1 {
		t.Errorf("8kHz through 500Hz low-pass: in RMS %v, out RMS %v", inRMS, outRMS)
	}
}

func TestLowPassPassesDC(t *testing.T) {
	f := NewFilter(testRate)
	f.SetLowPass(1000, 0.707)
	var out float64
	for i := 0; i < 2000; i++ {
		out = f.Process(0.5)
	}
	if math.Abs(out-0.5) > 0.01 {
		t.Errorf("DC through low-pass: got %v want ~0.5", out)
	}
}

func TestHighPassBlocksDC(t *testing.T) {
	f := NewFilter(testRate)
	f.SetHighPass(1000, 0.707)
	var out float64
	for i := 0; i < 4410; i++ {
		out = f.Process(0.5)
	}
	if math.Abs(out) > 0.01 {
		t.Errorf("DC through high-pass: got %v want ~0", out)
	}
}

func TestChorusDryAtZeroMix(t *testing.T) {
	c := NewChorus(testRate)
	for i := 0; i < 1000; i++ {
		in := math.Sin(2 * math.Pi * 440 * float64(i) / testRate)
		l, r := c.Process(in, 0)
		if l != in || r != in {
			t.Fatalf("sample %d: mix 0 not dry: in %v got l=%v r=%v", i, in, l, r)
		}
	}
}

func TestChorusDecorrelatesChannels(t *testing.T) {
	c := NewChorus(testRate)
	differs := false
	for i := 0; i < 44100; i++ {
		in := math.Sin(2 * math.Pi * 440 * float64(i) / testRate)
		l, r := c.Process(in, 1)
		if math.Abs(l-r) > 1e-6 {
			differs = true
		}
	}
	if !differs {
		t.Error("fully wet chorus never diverged between channels")
	}
}

func TestReverbDryAtZeroMix(t *testing.T) {
	r := NewReverb(testRate)
	for i := 0; i < 1000; i++ {
		in := math.Sin(2 * math.Pi * 440 * float64(i) / testRate)
		if out := r.Process(in, 0); out != in {
			t.Fatalf("sample %d: mix 0 not dry: in %v got %v", i, in, out)
		}
	}
}

func TestReverbProducesTail(t *testing.T) {
	r := NewReverb(testRate)
	r.Process(1, 1)
	var maxOut float64
	for i := 0; i < 10000; i++ {
		out := r.Process(0, 1)
		if math.Abs(out) > maxOut {
			maxOut = math.Abs(out)
		}
	}
	if maxOut < 0.001 {
		t.Error("expected reverb tail after impulse")
	}
}

func TestReverbTailDecays(t *testing.T) {
	r := NewReverb(testRate)
	r.Process(1, 1)
	var early, late float64
	for i := 0; i < 44100; i++ {
		out := math.Abs(r.Process(0, 1))
		if i < 11025 {
			early += out
		} else if i >= 33075 {
			late += out
		}
	}
	if late >= early {
		t.Errorf("tail not decaying: early %v late %v", early, late)
	}
}
