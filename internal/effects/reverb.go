package effects

// Reverb is a Schroeder reverberator: 4 parallel damped comb filters into 2
// serial allpass diffusers. Left and right channels each get their own
// instance so the tails decorrelate.
type Reverb struct {
	combs   [numCombs]combFilter
	allpass [numAllpass]allpassFilter
	decay   float64
	damping float64
}

const (
	numCombs   = 4
	numAllpass = 2
	allpassG   = 0.5
)

// Delay lengths at 44.1 kHz, scaled to the actual rate. Chosen without
// common factors to avoid stacked resonances.
var (
	combDelays    = [numCombs]int{1687, 1931, 2053, 2251}
	allpassDelays = [numAllpass]int{547, 331}
)

type combFilter struct {
	buf    []float64
	pos    int
	filter float64 // one-pole damping state in the feedback path
}

type allpassFilter struct {
	buf []float64
	pos int
}

func NewReverb(sampleRate float64) *Reverb {
	r := &Reverb{decay: 0.85, damping: 0.3}
	ratio := sampleRate / 44100
	for i := range r.combs {
		n := int(float64(combDelays[i]) * ratio)
		if n < 1 {
			n = 1
		}
		r.combs[i].buf = make([]float64, n)
	}
	for i := range r.allpass {
		n := int(float64(allpassDelays[i]) * ratio)
		if n < 1 {
			n = 1
		}
		r.allpass[i].buf = make([]float64, n)
	}
	return r
}

// Process runs one sample through the network and returns the dry/wet blend
// for the given mix in [0,1].
func (r *Reverb) Process(in, mix float64) float64 {
	var wet float64
	for i := range r.combs {
		c := &r.combs[i]
		delayed := c.buf[c.pos]
		c.filter = delayed*(1-r.damping) + c.filter*r.damping
		c.buf[c.pos] = in + c.filter*r.decay
		wet += delayed
		c.pos++
		if c.pos >= len(c.buf) {
			c.pos = 0
		}
	}
	wet /= numCombs

	for i := range r.allpass {
		a := &r.allpass[i]
		delayed := a.buf[a.pos]
		out := -allpassG*wet + delayed
		a.buf[a.pos] = wet + allpassG*out
		wet = out
		a.pos++
		if a.pos >= len(a.buf) {
			a.pos = 0
		}
	}

	return in*(1-mix) + wet*mix
}

func (r *Reverb) Reset() {
	for i := range r.combs {
		for j := range r.combs[i].buf {
			r.combs[i].buf[j] = 0
		}
		r.combs[i].pos = 0
		r.combs[i].filter = 0
	}
	for i := range r.allpass {
		for j := range r.allpass[i].buf {
			r.allpass[i].buf[j] = 0
		}
		r.allpass[i].pos = 0
	}
}
