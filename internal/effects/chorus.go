package effects

import "math"

// Chorus spreads the mono mix into stereo with two modulated delay lines,
// Juno-106 style. Each channel reads its line at a delay that swings around
// 5 ms with 3 ms depth; the channel LFOs run at distinct rates (0.513 Hz and
// 0.863 Hz, 90° apart). The mismatched rates are what make the image wide —
// do not synchronize them.
type Chorus struct {
	delayL, delayR []float64
	writeIndex     int
	lfoPhase1      float64
	lfoPhase2      float64
	sampleRate     float64
}

const (
	chorusMinLen   = 2048
	chorusRate1    = 0.513
	chorusRate2    = 0.863
	chorusBaseSec  = 0.005
	chorusDepthSec = 0.003
)

func NewChorus(sampleRate float64) *Chorus {
	// 2048 covers base+depth up to 48k; higher rates get a longer line.
	size := chorusMinLen
	if need := int((chorusBaseSec+chorusDepthSec)*sampleRate) + 2; need > size {
		size = need
	}
	return &Chorus{
		delayL:     make([]float64, size),
		delayR:     make([]float64, size),
		sampleRate: sampleRate,
	}
}

// Process writes the mono input into both delay lines and returns the
// dry/wet stereo pair for the given mix in [0,1].
func (c *Chorus) Process(in, mix float64) (outL, outR float64) {
	size := len(c.delayL)
	c.delayL[c.writeIndex] = in
	c.delayR[c.writeIndex] = in

	lfo1 := math.Sin(c.lfoPhase1 * 2 * math.Pi)
	lfo2 := math.Sin(c.lfoPhase2*2*math.Pi + math.Pi/2)

	delaySamplesL := (chorusBaseSec + chorusDepthSec*lfo1) * c.sampleRate
	delaySamplesR := (chorusBaseSec + chorusDepthSec*lfo2) * c.sampleRate

	readPosL := float64(c.writeIndex) - delaySamplesL
	readPosR := float64(c.writeIndex) - delaySamplesR
	if readPosL < 0 {
		readPosL += float64(size)
	}
	if readPosR < 0 {
		readPosR += float64(size)
	}

	idxL := int(readPosL)
	fracL := readPosL - float64(idxL)
	idxL2 := (idxL + 1) % size

	idxR := int(readPosR)
	fracR := readPosR - float64(idxR)
	idxR2 := (idxR + 1) % size

	wetL := c.delayL[idxL]*(1-fracL) + c.delayL[idxL2]*fracL
	wetR := c.delayR[idxR]*(1-fracR) + c.delayR[idxR2]*fracR

	c.lfoPhase1 += chorusRate1 / c.sampleRate
	c.lfoPhase2 += chorusRate2 / c.sampleRate
	if c.lfoPhase1 >= 1 {
		c.lfoPhase1 -= 1
	}
	if c.lfoPhase2 >= 1 {
		c.lfoPhase2 -= 1
	}

	c.writeIndex = (c.writeIndex + 1) % size

	return in*(1-mix) + wetL*mix, in*(1-mix) + wetR*mix
}

func (c *Chorus) Reset() {
	for i := range c.delayL {
		c.delayL[i] = 0
		c.delayR[i] = 0
	}
	c.writeIndex = 0
	c.lfoPhase1 = 0
	c.lfoPhase2 = 0
}
