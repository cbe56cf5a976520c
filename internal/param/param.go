// Package param provides single-word atomic parameter cells shared between
// the control context and the audio render context. Each cell is read
// independently; no multi-cell consistency is provided or needed, since every
// parameter is consumed once per sample and inter-parameter skew within a
// render callback is inaudible.
package param

import (
	"math"
	"sync/atomic"
)

// Float is a lock-free float64 cell.
type Float struct {
	bits atomic.Uint64
}

func (f *Float) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *Float) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// Int is a lock-free int32 cell (enums, note numbers).
type Int struct {
	v atomic.Int32
}

func (i *Int) Load() int32        { return i.v.Load() }
func (i *Int) Store(v int32)      { i.v.Store(v) }
func (i *Int) Swap(v int32) int32 { return i.v.Swap(v) }
