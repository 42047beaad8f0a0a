package instruments

import (
	"math"
	"sync"

	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/instruments/quantile"
)

// Summary tracks count, sum and estimated quantiles of observations.
// Methods are safe for concurrent use.
type Summary struct {
	mu    sync.Mutex
	est   *quantile.Estimator
	count uint64
	sum   float64
}

func newSummary(quantiles []float64) (*Summary, error) {
	est, err := quantile.New(quantiles...)
	if err != nil {
		return nil, errorc.With(ErrInvalidArgument, errorc.String("quantiles", err.Error()))
	}
	return &Summary{est: est}, nil
}

// Observe records v. NaN is counted and summed but carries no rank.
func (s *Summary) Observe(v float64) {
	s.mu.Lock()
	s.count++
	s.sum += v
	s.est.Insert(v)
	s.mu.Unlock()
}

// Count returns the number of observations.
func (s *Summary) Count() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Sum returns the sum of all observations.
func (s *Summary) Sum() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sum
}

// Mean returns sum/count, or NaN when nothing was observed.
func (s *Summary) Mean() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count == 0 {
		return math.NaN()
	}
	return s.sum / float64(s.count)
}

// Quantile estimates the q-th quantile, q in [0, 1]. It returns NaN when nothing was observed.
func (s *Summary) Quantile(q float64) (float64, error) {
	v, err := s.est.Query(q)
	if err != nil {
		return 0, errorc.With(ErrInvalidArgument, errorc.String("quantile", formatFloat(q)))
	}
	return v, nil
}

// Snapshot returns count, sum and the configured quantiles, read together.
func (s *Summary) Snapshot() SummarySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SummarySnapshot{Quantiles: s.est.Snapshot(), Count: s.count, Sum: s.sum}
}

func (s *Summary) read() Series {
	snap := s.Snapshot()
	return Series{Summary: &snap}
}
