package effects

import "math"

// FilterType selects the optional pre-chorus filter mode.
type FilterType int32

const (
	FilterOff FilterType = iota
	FilterLowPass
	FilterHighPass
)

func (t FilterType) String() string {
	switch t {
	case FilterOff:
		return "OFF"
	case FilterLowPass:
		return "LP"
	case FilterHighPass:
		return "HP"
	default:
		return "unknown"
	}
}

// Filter is a 2-pole biquad with RBJ cookbook low-pass and high-pass
// coefficient sets. It processes the mono mix before stereo spreading.
type Filter struct {
	x1, x2, y1, y2     float64
	a0, a1, a2, b1, b2 float64
	sampleRate         float64
}

func NewFilter(sampleRate float64) *Filter {
	return &Filter{sampleRate: sampleRate, a0: 1}
}

// SetLowPass derives coefficients for the given cutoff and Q using
// alpha = sin(w0)/(2Q), w0 = 2π·cutoff/sr.
func (f *Filter) SetLowPass(cutoff, q float64) {
	w0 := 2 * math.Pi * cutoff / f.sampleRate
	cosw0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b0 := (1 - cosw0) / 2
	b1 := 1 - cosw0
	b2 := (1 - cosw0) / 2
	a0 := 1 + alpha
	a1 := -2 * cosw0
	a2 := 1 - alpha

	f.a0, f.a1, f.a2 = b0/a0, b1/a0, b2/a0
	f.b1, f.b2 = a1/a0, a2/a0
}

// SetHighPass derives the high-pass coefficient set for cutoff and Q.
func (f *Filter) SetHighPass(cutoff, q float64) {
	w0 := 2 * math.Pi * cutoff / f.sampleRate
	cosw0 := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b0 := (1 + cosw0) / 2
	b1 := -(1 + cosw0)
	b2 := (1 + cosw0) / 2
	a0 := 1 + alpha
	a1 := -2 * cosw0
	a2 := 1 - alpha

	f.a0, f.a1, f.a2 = b0/a0, b1/a0, b2/a0
	f.b1, f.b2 = a1/a0, a2/a0
}

func (f *Filter) Process(in float64) float64 {
	out := f.a0*in + f.a1*f.x1 + f.a2*f.x2 - f.b1*f.y1 - f.b2*f.y2
	f.x2, f.x1 = f.x1, in
	f.y2, f.y1 = f.y1, out
	return out
}

func (f *Filter) Reset() {
	f.x1, f.x2, f.y1, f.y2 = 0, 0, 0, 0
}
