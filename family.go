package instruments

import (
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/ygrebnov/errorc"
)

// family is the untyped core shared by every Family[T] handle for one metric name.
type family struct {
	name       string
	help       string
	kind       Kind
	labelNames []string
	buckets    []float64 // histogram only
	quantiles  []float64 // summary only

	newInstrument func() (reader, error)

	children sync.Map // map[string]*child, keyed by seriesKey(labelValues)

	mu    sync.RWMutex
	order []*child // binding order
}

type child struct {
	labelValues []string
	inst        reader
}

// seriesKey encodes label values unambiguously: each value is prefixed with its length.
func seriesKey(values []string) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}

func (f *family) checkArity(values []string) error {
	if len(values) != len(f.labelNames) {
		return errorc.With(
			ErrInvalidArgument,
			errorc.String("family", f.name),
			errorc.String("", "expected "+strconv.Itoa(len(f.labelNames))+" label values, got "+strconv.Itoa(len(values))),
		)
	}
	return nil
}

// bind returns the instrument for values, creating it on first use.
// Racing binders of equal values all receive the instance stored first.
func (f *family) bind(values []string) (reader, error) {
	if err := f.checkArity(values); err != nil {
		return nil, err
	}
	key := seriesKey(values)

	// fast path: already bound
	if v, ok := f.children.Load(key); ok {
		return v.(*child).inst, nil
	}

	inst, err := f.newInstrument()
	if err != nil {
		return nil, err
	}
	c := &child{labelValues: slices.Clone(values), inst: inst}
	v, loaded := f.children.LoadOrStore(key, c)
	if !loaded {
		f.mu.Lock()
		f.order = append(f.order, c)
		f.mu.Unlock()
	}
	return v.(*child).inst, nil
}

func (f *family) lookup(values []string) (*child, bool) {
	if len(values) != len(f.labelNames) {
		return nil, false
	}
	v, ok := f.children.Load(seriesKey(values))
	if !ok {
		return nil, false
	}
	return v.(*child), true
}

// boundChildren returns a copy of the binding-ordered children so reads happen off-lock.
func (f *family) boundChildren() []*child {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.order)
}

func (f *family) readChild(c *child) Series {
	s := c.inst.read()
	s.LabelValues = slices.Clone(c.labelValues)
	return s
}

// gather reads every series once.
func (f *family) gather() MetricFamily {
	mf := MetricFamily{
		Name:       f.name,
		Help:       f.help,
		Kind:       f.kind,
		LabelNames: slices.Clone(f.labelNames),
	}
	children := f.boundChildren()
	mf.Series = make([]Series, 0, len(children))
	for _, c := range children {
		mf.Series = append(mf.Series, f.readChild(c))
	}
	return mf
}

// eachSample reads series lazily, one at a time, stopping when yield returns false.
func (f *family) eachSample(yield func(Sample) bool) bool {
	for _, c := range f.boundChildren() {
		if !seriesSamples(f.name, f.kind, f.labelNames, f.readChild(c), yield) {
			return false
		}
	}
	return true
}

// Family is a named group of instruments sharing a label schema.
// Handles returned for the same name by a Registry share their instruments.
type Family[T Instrument] struct {
	f *family
}

// Name returns the metric name.
func (fm *Family[T]) Name() string { return fm.f.name }

// Help returns the help text.
func (fm *Family[T]) Help() string { return fm.f.help }

// Kind returns the instrument kind.
func (fm *Family[T]) Kind() Kind { return fm.f.kind }

// LabelNames returns a copy of the label names.
func (fm *Family[T]) LabelNames() []string { return slices.Clone(fm.f.labelNames) }

// Labels returns the instrument bound to values, creating it on first use.
// The number of values must match the family's label names.
func (fm *Family[T]) Labels(values ...string) (T, error) {
	inst, err := fm.f.bind(values)
	if err != nil {
		var zero T
		return zero, err
	}
	return inst.(T), nil
}

// MustLabels is like Labels but panics on a label arity mismatch.
func (fm *Family[T]) MustLabels(values ...string) T {
	inst, err := fm.Labels(values...)
	if err != nil {
		panic(err)
	}
	return inst
}

// Get returns the instrument bound to values without creating it.
func (fm *Family[T]) Get(values ...string) (T, bool) {
	c, ok := fm.f.lookup(values)
	if !ok {
		var zero T
		return zero, false
	}
	return c.inst.(T), true
}

// Gather reads every series of the family.
func (fm *Family[T]) Gather() MetricFamily { return fm.f.gather() }
