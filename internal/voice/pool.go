package voice

import "github.com/cbegin/polyfm-go/internal/param"

// noNote marks a free slot.
const noNote = -1

// DefaultPoolSize is the polyphony of the original instrument.
const DefaultPoolSize = 8

// Pool maps MIDI notes onto a fixed set of voices. Assignments are written
// from the control context and read from both contexts, so each slot's note
// number lives in an atomic cell.
type Pool struct {
	voices []*Voice
	notes  []param.Int
}

func NewPool(size int, sampleRate float64, params *Params) *Pool {
	if size <= 0 {
		size = DefaultPoolSize
	}
	p := &Pool{
		voices: make([]*Voice, size),
		notes:  make([]param.Int, size),
	}
	for i := range p.voices {
		p.voices[i] = NewVoice(sampleRate, params)
		p.notes[i].Store(noNote)
	}
	return p
}

// NoteOn assigns the note to a voice and strikes it. A note that is already
// assigned is left alone rather than retriggered; releasing and re-striking
// is the caller's job. Allocation prefers a slot that is both unassigned and
// fully silent, then any unassigned slot (its release tail gets cut), and
// steals slot 0 when everything is held.
func (p *Pool) NoteOn(note int, freq float64) {
	for i := range p.notes {
		if int(p.notes[i].Load()) == note {
			return
		}
	}
	slot := -1
	for i := range p.notes {
		if p.notes[i].Load() == noNote {
			if slot == -1 {
				slot = i
			}
			if !p.voices[i].Active() {
				slot = i
				break
			}
		}
	}
	if slot == -1 {
		slot = 0
	}
	p.notes[slot].Store(int32(note))
	p.voices[slot].NoteOn(freq)
}

// NoteOff releases the voice holding note and frees its slot immediately;
// the release tail keeps sounding from the now-unassigned voice.
func (p *Pool) NoteOff(note int) {
	for i := range p.notes {
		if int(p.notes[i].Load()) == note {
			p.voices[i].NoteOff()
			p.notes[i].Store(noNote)
			return
		}
	}
}

// Process sums every active voice for one sample.
func (p *Pool) Process(mods *Mods) float64 {
	var sum float64
	for _, v := range p.voices {
		sum += v.Process(mods)
	}
	return sum
}

// ActiveCount reports how many voices are still producing signal, held or
// releasing.
func (p *Pool) ActiveCount() int {
	n := 0
	for _, v := range p.voices {
		if v.Active() {
			n++
		}
	}
	return n
}

// HeldCount reports how many slots have a note assigned.
func (p *Pool) HeldCount() int {
	n := 0
	for i := range p.notes {
		if p.notes[i].Load() != noNote {
			n++
		}
	}
	return n
}

// Size returns the polyphony.
func (p *Pool) Size() int { return len(p.voices) }

// Voices exposes the slots so the control surface can push envelope edits to
// every voice.
func (p *Pool) Voices() []*Voice { return p.voices }
