package polyfm

// Preset is a complete patch snapshot. Applying one sets every parameter the
// control surface exposes; capturing one reads them all back.
type Preset struct {
	Name string

	Ratio [NumOperators]float64
	Index [NumOperators]float64

	Attack, Decay, Sustain, Release float64

	Algorithm int

	FilterType   FilterType
	FilterCutoff float64
	FilterQ      float64

	ChorusMix float64
	ReverbMix float64

	LFO1Rate, LFO1Depth float64
	LFO1Target          LFOTarget
	LFO2Rate, LFO2Depth float64
	LFO2Target          LFOTarget

	ModEnvAttack, ModEnvDecay, ModEnvSustain, ModEnvRelease float64
	ModEnvAmount                                            float64
	ModEnvTarget                                            ModTarget
}

// basePreset is the neutral patch every factory preset starts from.
func basePreset(name string) Preset {
	return Preset{
		Name:          name,
		Ratio:         [NumOperators]float64{1, 1, 1, 1},
		Attack:        0.01,
		Decay:         0.1,
		Sustain:       0.7,
		Release:       0.3,
		FilterCutoff:  2000,
		FilterQ:       0.707,
		LFO1Rate:      2,
		LFO2Rate:      4,
		ModEnvAttack:  0.01,
		ModEnvDecay:   0.3,
		ModEnvRelease: 0.2,
	}
}

// FactoryPresets returns the built-in bank: a neutral init patch plus seven
// classic FM timbres.
func FactoryPresets() []Preset {
	initPatch := basePreset("Init")
	initPatch.Sustain = 1
	initPatch.Release = 0.2

	bass := basePreset("Bass")
	bass.Index = [NumOperators]float64{0.8, 2.5, 1.5, 0.5}
	bass.Attack, bass.Decay, bass.Sustain, bass.Release = 0.001, 0.15, 0.6, 0.1
	bass.ModEnvAttack, bass.ModEnvDecay, bass.ModEnvRelease = 0.001, 0.2, 0.1
	bass.ModEnvAmount = 0.6
	bass.ModEnvTarget = ModTargetIndex2

	lead := basePreset("Lead")
	lead.Ratio = [NumOperators]float64{1, 2, 3, 4}
	lead.Index = [NumOperators]float64{0.5, 3, 2, 1}
	lead.Attack, lead.Decay, lead.Sustain, lead.Release = 0.01, 0.2, 0.8, 0.3
	lead.LFO1Rate, lead.LFO1Depth = 5, 0.15
	lead.LFO1Target = LFOTargetIndex2

	pad := basePreset("Pad")
	pad.Ratio = [NumOperators]float64{1, 2, 1, 0.5}
	pad.Index = [NumOperators]float64{0.3, 1.5, 0.8, 0.4}
	pad.Attack, pad.Decay, pad.Sustain, pad.Release = 0.8, 0.5, 0.7, 1.2
	pad.Algorithm = 4
	pad.ChorusMix, pad.ReverbMix = 0.4, 0.3
	pad.LFO1Rate, pad.LFO1Depth = 0.8, 0.1
	pad.LFO1Target = LFOTargetIndex2

	keys := basePreset("Keys")
	keys.Ratio = [NumOperators]float64{1, 8, 1, 1}
	keys.Index = [NumOperators]float64{0, 1.8, 0, 0}
	keys.Attack, keys.Decay, keys.Sustain, keys.Release = 0.001, 0.8, 0.2, 0.4
	keys.ModEnvAttack, keys.ModEnvDecay, keys.ModEnvRelease = 0.001, 0.5, 0.2
	keys.ModEnvAmount = 0.8
	keys.ModEnvTarget = ModTargetIndex2
	keys.ReverbMix = 0.15

	bell := basePreset("Bell")
	bell.Ratio = [NumOperators]float64{1, 3.5, 1, 7}
	bell.Index = [NumOperators]float64{0, 2.5, 0, 1.5}
	bell.Attack, bell.Decay, bell.Sustain, bell.Release = 0.001, 2, 0, 1.5
	bell.Algorithm = 4
	bell.ReverbMix = 0.4

	brass := basePreset("Brass")
	brass.Ratio = [NumOperators]float64{1, 1, 2, 3}
	brass.Index = [NumOperators]float64{0.5, 2, 1.8, 1.2}
	brass.Attack, brass.Decay, brass.Sustain, brass.Release = 0.08, 0.1, 0.9, 0.15
	brass.ModEnvAttack, brass.ModEnvDecay, brass.ModEnvSustain, brass.ModEnvRelease = 0.1, 0.2, 0.7, 0.1
	brass.ModEnvAmount = 0.5
	brass.ModEnvTarget = ModTargetIndex2

	strings := basePreset("Strings")
	strings.Ratio = [NumOperators]float64{1, 2, 1, 3}
	strings.Index = [NumOperators]float64{0.2, 1, 0.3, 0.8}
	strings.Attack, strings.Decay, strings.Sustain, strings.Release = 0.4, 0.3, 0.8, 0.5
	strings.Algorithm = 4
	strings.ChorusMix, strings.ReverbMix = 0.5, 0.25
	strings.LFO1Rate, strings.LFO1Depth = 5.5, 0.08
	strings.LFO1Target = LFOTargetRatio1

	return []Preset{initPatch, bass, lead, pad, keys, bell, brass, strings}
}

// ApplyPreset sets every synth parameter from p. Held notes keep sounding
// and pick up the new timbre immediately.
func (s *Synth) ApplyPreset(p Preset) {
	for op := 0; op < NumOperators; op++ {
		s.SetRatio(op, p.Ratio[op])
		s.SetIndex(op, p.Index[op])
	}
	s.SetAlgorithm(p.Algorithm)
	s.SetAttack(p.Attack)
	s.SetDecay(p.Decay)
	s.SetSustain(p.Sustain)
	s.SetRelease(p.Release)
	s.SetFilterType(p.FilterType)
	s.SetFilterCutoff(p.FilterCutoff)
	s.SetFilterQ(p.FilterQ)
	s.SetChorusMix(p.ChorusMix)
	s.SetReverbMix(p.ReverbMix)
	s.SetLFO1Rate(p.LFO1Rate)
	s.SetLFO1Depth(p.LFO1Depth)
	s.SetLFO1Target(p.LFO1Target)
	s.SetLFO2Rate(p.LFO2Rate)
	s.SetLFO2Depth(p.LFO2Depth)
	s.SetLFO2Target(p.LFO2Target)
	s.SetModEnvAttack(p.ModEnvAttack)
	s.SetModEnvDecay(p.ModEnvDecay)
	s.SetModEnvSustain(p.ModEnvSustain)
	s.SetModEnvRelease(p.ModEnvRelease)
	s.SetModEnvAmount(p.ModEnvAmount)
	s.SetModEnvTarget(p.ModEnvTarget)
}

// CapturePreset snapshots the current patch under the given name.
func (s *Synth) CapturePreset(name string) Preset {
	p := Preset{Name: name}
	for op := 0; op < NumOperators; op++ {
		p.Ratio[op] = s.Ratio(op)
		p.Index[op] = s.Index(op)
	}
	p.Algorithm = s.Algorithm()
	p.Attack = s.Attack()
	p.Decay = s.Decay()
	p.Sustain = s.Sustain()
	p.Release = s.Release()
	p.FilterType = s.FilterType()
	p.FilterCutoff = s.FilterCutoff()
	p.FilterQ = s.FilterQ()
	p.ChorusMix = s.ChorusMix()
	p.ReverbMix = s.ReverbMix()
	p.LFO1Rate = s.LFO1Rate()
	p.LFO1Depth = s.LFO1Depth()
	p.LFO1Target = s.LFO1Target()
	p.LFO2Rate = s.LFO2Rate()
	p.LFO2Depth = s.LFO2Depth()
	p.LFO2Target = s.LFO2Target()
	p.ModEnvAttack = s.ModEnvAttack()
	p.ModEnvDecay = s.ModEnvDecay()
	p.ModEnvSustain = s.ModEnvSustain()
	p.ModEnvRelease = s.ModEnvRelease()
	p.ModEnvAmount = s.ModEnvAmount()
	p.ModEnvTarget = s.ModEnvTarget()
	return p
}
