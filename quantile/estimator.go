package quantile

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"sync"

	perks "github.com/beorn7/perks/quantile"
	"github.com/ygrebnov/errorc"
)

// ErrInvalidQuantile is returned for quantiles outside [0, 1].
var ErrInvalidQuantile = errors.New("quantile: value must be within [0, 1]")

const minAllowedError = 0.0001

// Value is an estimate of a single quantile.
type Value struct {
	Quantile float64
	Value    float64
}

// Estimator tracks approximate quantiles of an observation stream.
// Methods are safe for concurrent use.
type Estimator struct {
	mu        sync.Mutex
	quantiles []float64
	stream    *perks.Stream
}

// New creates an Estimator targeting the given quantiles. Duplicates are ignored.
func New(qs ...float64) (*Estimator, error) {
	if err := Validate(qs...); err != nil {
		return nil, err
	}

	targets := make(map[float64]float64, len(qs))
	for _, q := range qs {
		targets[q] = allowedError(q)
	}

	quantiles := make([]float64, 0, len(targets))
	for q := range targets {
		quantiles = append(quantiles, q)
	}
	sort.Float64s(quantiles)

	return &Estimator{quantiles: quantiles, stream: perks.NewTargeted(targets)}, nil
}

// Validate reports whether every q is a valid quantile.
func Validate(qs ...float64) error {
	for _, q := range qs {
		if math.IsNaN(q) || q < 0 || q > 1 {
			return errorc.With(ErrInvalidQuantile, errorc.String("quantile", strconv.FormatFloat(q, 'g', -1, 64)))
		}
	}
	return nil
}

// allowedError is the rank error tolerated for target q.
func allowedError(q float64) float64 {
	return math.Max(math.Min(q, 1-q)/10, minAllowedError)
}

// Quantiles returns the targeted quantiles in ascending order.
func (e *Estimator) Quantiles() []float64 {
	return append([]float64(nil), e.quantiles...)
}

// Insert adds an observation. NaN has no rank and is not inserted.
func (e *Estimator) Insert(v float64) {
	if math.IsNaN(v) {
		return
	}
	e.mu.Lock()
	e.stream.Insert(v)
	e.mu.Unlock()
}

// Count returns the number of observations held by the sketch.
func (e *Estimator) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stream.Count()
}

// Query returns the estimate for q, or NaN if nothing was inserted yet.
// Any q in [0, 1] may be queried; accuracy is only guaranteed for targeted quantiles.
func (e *Estimator) Query(q float64) (float64, error) {
	if err := Validate(q); err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.query(q), nil
}

// Snapshot returns estimates for every targeted quantile, taken under one lock.
func (e *Estimator) Snapshot() []Value {
	out := make([]Value, len(e.quantiles))
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, q := range e.quantiles {
		out[i] = Value{Quantile: q, Value: e.query(q)}
	}
	return out
}

// query must be called with e.mu held.
func (e *Estimator) query(q float64) float64 {
	if e.stream.Count() == 0 {
		return math.NaN()
	}
	return e.stream.Query(q)
}
