package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat is a float64 metric stored as bits
// Zero value is ready to use and reads 0.0
type AtomicFloat struct {
	bits atomic.Uint64
	set  atomic.Bool
}

// Set stores val
func (f *AtomicFloat) Set(val float64) {
	f.bits.Store(math.Float64bits(val))
	f.set.Store(true)
}

// Get loads the current value
func (f *AtomicFloat) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Smooth folds sample into an exponential moving average with weight alpha
// The first sample seeds the average; returns the new value
func (f *AtomicFloat) Smooth(sample, alpha float64) float64 {
	if f.set.CompareAndSwap(false, true) {
		f.bits.Store(math.Float64bits(sample))
		return sample
	}
	for {
		old := f.bits.Load()
		next := math.Float64frombits(old) + alpha*(sample-math.Float64frombits(old))
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}
