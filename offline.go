package polyfm

// RenderNote renders a single note offline: the patch is applied, the note
// held for holdSeconds, then released and rendered for tailSeconds more so
// the envelope release and effect tails are captured. The result is
// interleaved stereo at sampleRate.
func RenderNote(p Preset, midiNote int, sampleRate int, holdSeconds, tailSeconds float64) ([]float32, error) {
	s, err := New(sampleRate)
	if err != nil {
		return nil, err
	}
	s.ApplyPreset(p)

	holdFrames := int(float64(sampleRate) * holdSeconds)
	tailFrames := int(float64(sampleRate) * tailSeconds)
	out := make([]float32, (holdFrames+tailFrames)*2)

	s.NoteOn(midiNote, MidiToFreq(midiNote))
	s.Process(out[:holdFrames*2])
	s.NoteOff(midiNote)
	s.Process(out[holdFrames*2:])
	return out, nil
}
