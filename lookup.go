package instruments

import "math"

// Label is a single label name/value pair used for lookups.
type Label struct {
	Name  string
	Value string
}

// L is shorthand for Label{Name: name, Value: value}.
func L(name, value string) Label { return Label{Name: name, Value: value} }

// Get returns the value of the sample named sampleName whose labels are exactly labels
// (in any order). sampleName may be a family name or one of its exported forms
// (<name>_total, <name>_bucket, <name>_count, <name>_sum); registration guarantees a
// single family owns each of them.
//
// Only the matching series is read, so a peak gauge is reset by Get but other series are
// not. An unknown family or series is reported as ok == false.
func (r *Registry) Get(sampleName string, labels ...Label) (float64, bool) {
	f, ok := r.owner(sampleName)
	if !ok {
		return 0, false
	}
	return r.getFrom(f, sampleName, labels)
}

func (r *Registry) getFrom(f *family, sampleName string, labels []Label) (float64, bool) {
	values := make([]string, len(f.labelNames))
	for i, n := range f.labelNames {
		v, ok := labelValue(labels, n)
		if !ok {
			return 0, false
		}
		values[i] = v
	}

	c, ok := f.lookup(values)
	if !ok {
		return 0, false
	}

	var (
		out   float64
		found bool
	)
	seriesSamples(f.name, f.kind, f.labelNames, f.readChild(c), func(s Sample) bool {
		if s.Name == sampleName && sameLabels(s, labels) {
			out, found = s.Value, true
			return false
		}
		return true
	})
	return out, found
}

func labelValue(labels []Label, name string) (string, bool) {
	for _, l := range labels {
		if l.Name == name {
			return l.Value, true
		}
	}
	return "", false
}

func sameLabels(s Sample, labels []Label) bool {
	if len(s.LabelNames) != len(labels) {
		return false
	}
	for i, n := range s.LabelNames {
		if v, ok := labelValue(labels, n); !ok || v != s.LabelValues[i] {
			return false
		}
	}
	return true
}

// SummaryCount returns the observation count of a summary series.
func (r *Registry) SummaryCount(name string, labels ...Label) (float64, bool) {
	return r.Get(name+suffixCount, labels...)
}

// SummarySum returns the observation sum of a summary series.
func (r *Registry) SummarySum(name string, labels ...Label) (float64, bool) {
	return r.Get(name+suffixSum, labels...)
}

// SummaryMean returns sum/count of a summary series; NaN when it has no observations.
func (r *Registry) SummaryMean(name string, labels ...Label) (float64, bool) {
	count, ok := r.SummaryCount(name, labels...)
	if !ok {
		return 0, false
	}
	sum, ok := r.SummarySum(name, labels...)
	if !ok {
		return 0, false
	}
	if count == 0 {
		return math.NaN(), true
	}
	return sum / count, true
}

// SummaryQuantile returns the exported estimate of quantile q of a summary series.
// q must be one of the quantiles the family was registered with.
func (r *Registry) SummaryQuantile(name string, q float64, labels ...Label) (float64, bool) {
	withQ := make([]Label, 0, len(labels)+1)
	withQ = append(withQ, labels...)
	withQ = append(withQ, L(labelQuantile, formatFloat(q)))
	return r.Get(name, withQ...)
}

// SummaryP50 returns the exported median of a summary series.
func (r *Registry) SummaryP50(name string, labels ...Label) (float64, bool) {
	return r.SummaryQuantile(name, 0.5, labels...)
}

// SummaryP99 returns the exported 99th percentile of a summary series.
func (r *Registry) SummaryP99(name string, labels ...Label) (float64, bool) {
	return r.SummaryQuantile(name, 0.99, labels...)
}
