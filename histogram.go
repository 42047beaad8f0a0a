package instruments

import (
	"math"
	"slices"
	"sort"
	"strconv"
	"sync/atomic"

	"github.com/ygrebnov/errorc"
)

// Histogram counts observations into buckets with fixed upper bounds.
// Methods are safe for concurrent use.
type Histogram struct {
	bounds []float64       // shared by all series of a family; never mutated
	counts []atomic.Uint64 // per bucket, plus the +Inf overflow slot
	sum    atomicFloat
}

func newHistogram(bounds []float64) *Histogram {
	return &Histogram{bounds: bounds, counts: make([]atomic.Uint64, len(bounds)+1)}
}

// Observe records v in the first bucket whose bound is >= v. Cumulative counts are
// derived on read, so every bucket with a bound >= v includes the observation.
func (h *Histogram) Observe(v float64) {
	h.counts[sort.SearchFloat64s(h.bounds, v)].Add(1)
	h.sum.Add(v)
}

// Bounds returns the configured bucket upper bounds, without the implicit +Inf.
func (h *Histogram) Bounds() []float64 { return slices.Clone(h.bounds) }

// Count returns the number of observations.
func (h *Histogram) Count() uint64 {
	var n uint64
	for i := range h.counts {
		n += h.counts[i].Load()
	}
	return n
}

// Sum returns the sum of all observations.
func (h *Histogram) Sum() float64 { return h.sum.Load() }

// Snapshot returns cumulative bucket counts. Count equals the +Inf bucket.
func (h *Histogram) Snapshot() HistogramSnapshot {
	snap := HistogramSnapshot{
		Bounds:  slices.Clone(h.bounds),
		Buckets: make([]uint64, len(h.bounds)),
	}
	var cumulative uint64
	for i := range h.bounds {
		cumulative += h.counts[i].Load()
		snap.Buckets[i] = cumulative
	}
	snap.Count = cumulative + h.counts[len(h.bounds)].Load()
	snap.Sum = h.sum.Load()
	return snap
}

func (h *Histogram) read() Series {
	snap := h.Snapshot()
	return Series{Histogram: &snap}
}

// normalizeBuckets validates bucket bounds and returns a private copy. A trailing +Inf is
// dropped since the +Inf bucket is always implicit.
func normalizeBuckets(bounds []float64) ([]float64, error) {
	out := slices.Clone(bounds)
	if n := len(out); n > 0 && math.IsInf(out[n-1], 1) {
		out = out[:n-1]
	}
	if len(out) == 0 {
		return nil, errorc.With(ErrInvalidArgument, errorc.String("", "histogram requires at least one finite bucket bound"))
	}
	for i, b := range out {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, errorc.With(
				ErrInvalidArgument,
				errorc.String("", "bucket bounds must be finite"),
				errorc.String("bound", formatFloat(b)),
			)
		}
		if i > 0 && b <= out[i-1] {
			return nil, errorc.With(
				ErrInvalidArgument,
				errorc.String("", "bucket bounds must be strictly ascending"),
				errorc.String("index", strconv.Itoa(i)),
			)
		}
	}
	return out, nil
}
