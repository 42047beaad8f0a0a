package instruments

import (
	"math"
	"sync/atomic"
)

// atomicFloat is a float64 stored as its IEEE 754 bits.
type atomicFloat struct {
	bits atomic.Uint64
}

func (f *atomicFloat) Load() float64 { return math.Float64frombits(f.bits.Load()) }

func (f *atomicFloat) Store(v float64) { f.bits.Store(math.Float64bits(v)) }

// Swap stores v and returns the previous value.
func (f *atomicFloat) Swap(v float64) float64 {
	return math.Float64frombits(f.bits.Swap(math.Float64bits(v)))
}

func (f *atomicFloat) Add(delta float64) {
	for {
		old := f.bits.Load()
		next := math.Float64bits(math.Float64frombits(old) + delta)
		if f.bits.CompareAndSwap(old, next) {
			return
		}
	}
}

// Max raises the stored value to v if v is greater.
func (f *atomicFloat) Max(v float64) {
	for {
		old := f.bits.Load()
		if !(v > math.Float64frombits(old)) {
			return
		}
		if f.bits.CompareAndSwap(old, math.Float64bits(v)) {
			return
		}
	}
}
