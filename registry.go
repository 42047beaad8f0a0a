package instruments

import (
	"iter"
	"slices"
	"strings"
	"sync"

	"github.com/ygrebnov/errorc"
)

// Registry is an in-memory collection of metric families keyed by name.
// Registry is a concrete struct; methods are safe for concurrent use.
// Construct one per process (or per test) with New and pass it to instrumentation sites.
type Registry struct {
	// noCopy prevents accidental copying of the registry.
	//go:nocopy
	nc noCopy

	cfg    *config
	logger Logger

	families sync.Map // map[string]*family
	// per-name init mutexes: serialize first-time registration of the same name
	inits sync.Map // map[string]*sync.Mutex

	mu     sync.RWMutex
	order  []*family          // registration order
	claims map[string]*family // exported sample name -> owning family
}

// noCopy is a vet-recognized marker to discourage copying types with this field embedded.
// It works with the "-copylocks" analyzer via the presence of Lock/Unlock methods.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New creates a new Registry using functional options.
func New(opts ...Option) (*Registry, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &Registry{cfg: &cfg, logger: cfg.Logger, claims: make(map[string]*family)}, nil
}

// familySpec describes a family to register.
type familySpec struct {
	name       string
	help       string
	kind       Kind
	labelNames []string
	buckets    []float64
	quantiles  []float64
}

// Counter registers (or returns the existing) counter family.
func (r *Registry) Counter(name, help string, labelNames ...string) (*Family[*Counter], error) {
	f, err := r.register(familySpec{name: name, help: help, kind: KindCounter, labelNames: labelNames})
	if err != nil {
		return nil, err
	}
	return &Family[*Counter]{f: f}, nil
}

// Gauge registers (or returns the existing) gauge family.
func (r *Registry) Gauge(name, help string, labelNames ...string) (*Family[*Gauge], error) {
	f, err := r.register(familySpec{name: name, help: help, kind: KindGauge, labelNames: labelNames})
	if err != nil {
		return nil, err
	}
	return &Family[*Gauge]{f: f}, nil
}

// PeakGauge registers (or returns the existing) peak gauge family.
func (r *Registry) PeakGauge(name, help string, labelNames ...string) (*Family[*PeakGauge], error) {
	f, err := r.register(familySpec{name: name, help: help, kind: KindPeakGauge, labelNames: labelNames})
	if err != nil {
		return nil, err
	}
	return &Family[*PeakGauge]{f: f}, nil
}

// Histogram registers (or returns the existing) histogram family. Without buckets the
// registry default buckets are used.
func (r *Registry) Histogram(name, help string, labelNames []string, buckets ...float64) (*Family[*Histogram], error) {
	f, err := r.register(familySpec{
		name: name, help: help, kind: KindHistogram, labelNames: labelNames, buckets: buckets,
	})
	if err != nil {
		return nil, err
	}
	return &Family[*Histogram]{f: f}, nil
}

// Summary registers (or returns the existing) summary family. Without quantiles the
// registry default quantiles (0.5 and 0.99 unless configured) are exported.
func (r *Registry) Summary(name, help string, labelNames []string, quantiles ...float64) (*Family[*Summary], error) {
	f, err := r.register(familySpec{
		name: name, help: help, kind: KindSummary, labelNames: labelNames, quantiles: quantiles,
	})
	if err != nil {
		return nil, err
	}
	return &Family[*Summary]{f: f}, nil
}

// keyMu returns a per-name mutex, creating one if necessary.
func (r *Registry) keyMu(name string) *sync.Mutex {
	m, _ := r.inits.LoadOrStore(name, &sync.Mutex{})
	return m.(*sync.Mutex)
}

func (r *Registry) load(name string) (*family, bool) {
	v, ok := r.families.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*family), true
}

// register implements a fast read path, builds the family off-lock, and uses a per-name
// mutex to deduplicate concurrent registrations.
func (r *Registry) register(spec familySpec) (*family, error) {
	if err := validateSchema(spec.name, spec.kind, spec.labelNames); err != nil {
		return nil, err
	}

	// fast read path
	if f, ok := r.load(spec.name); ok {
		return r.reuse(f, spec)
	}

	// build the candidate off-lock
	candidate, err := r.newFamily(spec)
	if err != nil {
		return nil, err
	}

	km := r.keyMu(spec.name)
	km.Lock()
	defer km.Unlock()

	// re-check after acquiring per-name mutex
	if f, ok := r.load(spec.name); ok {
		return r.reuse(f, spec)
	}

	err = r.publish(candidate)

	// Later registrations of this name take the fast path or fail publish again, so the
	// init mutex is no longer needed. A goroutine still waiting on it re-checks families
	// after Lock.
	r.inits.Delete(spec.name)
	if err != nil {
		return nil, err
	}

	r.logger.Debugf("registered %s %q with labels %v", spec.kind, spec.name, spec.labelNames)
	return candidate, nil
}

// publish claims the exported names of f and makes it visible to lookups and reads.
// Names already exported by another family fail with ErrSchemaMismatch, whatever the
// family names are: counter "foo" owns "foo_total", histogram "h" owns "h_count".
func (r *Registry) publish(f *family) error {
	names := exportedNames(f.name, f.kind)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range names {
		if owner, taken := r.claims[n]; taken {
			r.logger.Warnf("%s %q exports %q, already exported by %s %q", f.kind, f.name, n, owner.kind, owner.name)
			return errorc.With(
				ErrSchemaMismatch,
				errorc.String("name", f.name),
				errorc.String("sample", n),
				errorc.String("owner", owner.name),
			)
		}
	}
	for _, n := range names {
		r.claims[n] = f
	}
	r.families.Store(f.name, f)
	r.order = append(r.order, f)
	return nil
}

// owner returns the family exporting sampleName. Exported names are unique per
// registry, so there is at most one.
func (r *Registry) owner(sampleName string) (*family, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.claims[sampleName]
	return f, ok
}

// reuse returns f if spec matches its schema.
func (r *Registry) reuse(f *family, spec familySpec) (*family, error) {
	if f.kind != spec.kind || !slices.Equal(f.labelNames, spec.labelNames) {
		r.logger.Warnf(
			"schema mismatch for %q: registered as %s%v, requested %s%v",
			spec.name, f.kind, f.labelNames, spec.kind, spec.labelNames,
		)
		return nil, errorc.With(
			ErrSchemaMismatch,
			errorc.String("name", spec.name),
			errorc.String("registered", f.kind.String()+"("+strings.Join(f.labelNames, ",")+")"),
			errorc.String("requested", spec.kind.String()+"("+strings.Join(spec.labelNames, ",")+")"),
		)
	}

	switch {
	case len(spec.buckets) > 0 && !slices.Equal(f.buckets, normalizedOrRaw(spec.buckets)):
		r.logger.Warnf("histogram %q re-registered with buckets %v; keeping %v", spec.name, spec.buckets, f.buckets)
	case len(spec.quantiles) > 0 && !sameSet(f.quantiles, spec.quantiles):
		r.logger.Warnf("summary %q re-registered with quantiles %v; keeping %v", spec.name, spec.quantiles, f.quantiles)
	}
	return f, nil
}

func (r *Registry) newFamily(spec familySpec) (*family, error) {
	f := &family{
		name:       spec.name,
		help:       spec.help,
		kind:       spec.kind,
		labelNames: slices.Clone(spec.labelNames),
	}

	switch spec.kind {
	case KindCounter:
		f.newInstrument = func() (reader, error) { return &Counter{}, nil }
	case KindGauge:
		f.newInstrument = func() (reader, error) { return &Gauge{}, nil }
	case KindPeakGauge:
		f.newInstrument = func() (reader, error) { return &PeakGauge{}, nil }
	case KindHistogram:
		bounds := spec.buckets
		if len(bounds) == 0 {
			bounds = r.cfg.Buckets
		}
		normalized, err := normalizeBuckets(bounds)
		if err != nil {
			return nil, errorc.With(err, errorc.String("name", spec.name))
		}
		f.buckets = normalized
		f.newInstrument = func() (reader, error) { return newHistogram(normalized), nil }
	case KindSummary:
		qs := spec.quantiles
		if len(qs) == 0 {
			qs = r.cfg.Quantiles
		}
		// validate once so binding never fails on a bad quantile
		probe, err := newSummary(qs)
		if err != nil {
			return nil, errorc.With(err, errorc.String("name", spec.name))
		}
		f.quantiles = probe.est.Quantiles()
		f.newInstrument = func() (reader, error) { return newSummary(f.quantiles) }
	default:
		return nil, errorc.With(ErrInvalidArgument, errorc.String("kind", spec.kind.String()))
	}
	return f, nil
}

// familiesInOrder returns a copy of the registration-ordered families.
func (r *Registry) familiesInOrder() []*family {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Gather reads every series of every family, in registration order and then binding
// order. Each instrument is read exactly once, so peak gauges are reset.
func (r *Registry) Gather() []MetricFamily {
	families := r.familiesInOrder()
	out := make([]MetricFamily, 0, len(families))
	for _, f := range families {
		out = append(out, f.gather())
	}
	return out
}

// Samples lazily yields every sample of every family. Instruments are read only as the
// iteration reaches them; stopping early leaves the remaining instruments untouched.
func (r *Registry) Samples() iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		for _, f := range r.familiesInOrder() {
			if !f.eachSample(yield) {
				return
			}
		}
	}
}

// Snapshot collects Samples into a slice.
func (r *Registry) Snapshot() []Sample {
	return slices.Collect(r.Samples())
}

func normalizedOrRaw(bounds []float64) []float64 {
	if out, err := normalizeBuckets(bounds); err == nil {
		return out
	}
	return bounds
}

// sameSet reports whether a and b hold the same values, ignoring order and duplicates.
func sameSet(a, b []float64) bool {
	in := func(xs []float64, v float64) bool { return slices.Contains(xs, v) }
	for _, v := range a {
		if !in(b, v) {
			return false
		}
	}
	for _, v := range b {
		if !in(a, v) {
			return false
		}
	}
	return true
}
