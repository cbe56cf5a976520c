// Package scope provides a lock-free waveform tap for oscilloscope-style
// displays. One writer (the audio context) and one reader (the UI) share a
// fixed ring; the reader sees a consistent snapshot without ever blocking
// the writer.
package scope

import (
	"math"
	"sync/atomic"
)

// DefaultSize is enough samples to draw a few cycles of a bass note.
const DefaultSize = 512

// Buffer is a single-writer single-reader sample ring.
type Buffer struct {
	samples  []atomic.Uint32
	writePos atomic.Int64
}

func New(size int) *Buffer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Buffer{samples: make([]atomic.Uint32, size)}
}

// Write appends one sample, overwriting the oldest.
func (b *Buffer) Write(sample float32) {
	pos := b.writePos.Load()
	b.samples[pos%int64(len(b.samples))].Store(math.Float32bits(sample))
	b.writePos.Store(pos + 1)
}

// CopyTo fills dst with the most recent samples, oldest first, and returns
// the number written (min of len(dst) and the ring size).
func (b *Buffer) CopyTo(dst []float32) int {
	size := int64(len(b.samples))
	n := len(dst)
	if int64(n) > size {
		n = int(size)
	}
	start := b.writePos.Load() - int64(n)
	for i := 0; i < n; i++ {
		idx := (start + int64(i)) % size
		if idx < 0 {
			idx += size
		}
		dst[i] = math.Float32frombits(b.samples[idx].Load())
	}
	return n
}

func (b *Buffer) Size() int { return len(b.samples) }
