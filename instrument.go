package instruments

import (
	"math"

	"github.com/ygrebnov/errorc"
)

// Instrument is the closed set of instrument variants: *Counter, *Gauge, *PeakGauge,
// *Histogram and *Summary. Every variant can be read into a Series.
type Instrument interface {
	*Counter | *Gauge | *PeakGauge | *Histogram | *Summary
	read() Series
}

// reader is the non-generic view of an Instrument used by families.
type reader interface {
	read() Series
}

// Counter is a monotonically non-decreasing value. Methods are safe for concurrent use.
type Counter struct {
	val atomicFloat
}

// Inc adds 1.
func (c *Counter) Inc() { c.val.Add(1) }

// Add adds v, which must not be negative.
func (c *Counter) Add(v float64) error {
	if v < 0 || math.IsNaN(v) {
		return errorc.With(ErrInvalidArgument, errorc.String("increment", formatFloat(v)))
	}
	c.val.Add(v)
	return nil
}

// Value returns the accumulated value.
func (c *Counter) Value() float64 { return c.val.Load() }

func (c *Counter) read() Series { return Series{Value: c.Value()} }

// Gauge is a value that can be set arbitrarily. Methods are safe for concurrent use.
type Gauge struct {
	val atomicFloat
}

// Set replaces the current value.
func (g *Gauge) Set(v float64) { g.val.Store(v) }

// Add adds v (positive or negative).
func (g *Gauge) Add(v float64) { g.val.Add(v) }

// Inc adds 1.
func (g *Gauge) Inc() { g.val.Add(1) }

// Dec subtracts 1.
func (g *Gauge) Dec() { g.val.Add(-1) }

// Value returns the last value, 0 before the first update.
func (g *Gauge) Value() float64 { return g.val.Load() }

func (g *Gauge) read() Series { return Series{Value: g.Value()} }

// PeakGauge reports the largest value recorded since it was last read.
// Reading it resets the pending peak to 0, so every registry read consumes the peak.
type PeakGauge struct {
	pending atomicFloat
}

// Record raises the pending peak to v if v is larger.
func (p *PeakGauge) Record(v float64) { p.pending.Max(v) }

// Value returns the pending peak and resets it to 0 in one atomic step.
func (p *PeakGauge) Value() float64 { return p.pending.Swap(0) }

func (p *PeakGauge) read() Series { return Series{Value: p.Value()} }
