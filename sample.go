package instruments

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/ygrebnov/instruments/quantile"
)

const (
	labelBucketBound = "le"
	labelQuantile    = "quantile"

	suffixTotal  = "_total"
	suffixBucket = "_bucket"
	suffixCount  = "_count"
	suffixSum    = "_sum"
)

// Sample is one flattened export record. Samples are produced at read time and never mutated.
type Sample struct {
	Name        string
	LabelNames  []string
	LabelValues []string
	Value       float64
}

// Series is a point-in-time reading of one bound instrument.
// Value is set for counters, gauges and peak gauges; Histogram or Summary for the other kinds.
type Series struct {
	LabelValues []string
	Value       float64
	Histogram   *HistogramSnapshot
	Summary     *SummarySnapshot
}

// HistogramSnapshot holds cumulative bucket counts; Buckets[i] counts observations <= Bounds[i].
type HistogramSnapshot struct {
	Bounds  []float64
	Buckets []uint64
	Count   uint64
	Sum     float64
}

// SummarySnapshot holds the estimated quantiles of a summary.
type SummarySnapshot struct {
	Quantiles []quantile.Value
	Count     uint64
	Sum       float64
}

// MetricFamily is a point-in-time reading of a family and all of its series.
type MetricFamily struct {
	Name       string
	Help       string
	Kind       Kind
	LabelNames []string
	Series     []Series
}

// Samples flattens the family into export samples.
func (mf MetricFamily) Samples() []Sample {
	var out []Sample
	for _, s := range mf.Series {
		seriesSamples(mf.Name, mf.Kind, mf.LabelNames, s, func(smp Sample) bool {
			out = append(out, smp)
			return true
		})
	}
	return out
}

// seriesSamples expands one series into samples, stopping early if yield returns false.
func seriesSamples(name string, kind Kind, labelNames []string, s Series, yield func(Sample) bool) bool {
	emit := func(n string, extraName, extraValue string, v float64) bool {
		smp := Sample{
			Name:        n,
			LabelNames:  slices.Clone(labelNames),
			LabelValues: slices.Clone(s.LabelValues),
			Value:       v,
		}
		if extraName != "" {
			smp.LabelNames = append(smp.LabelNames, extraName)
			smp.LabelValues = append(smp.LabelValues, extraValue)
		}
		return yield(smp)
	}

	switch kind {
	case KindCounter:
		if !emit(name, "", "", s.Value) {
			return false
		}
		if !strings.HasSuffix(name, suffixTotal) {
			return emit(name+suffixTotal, "", "", s.Value)
		}
		return true

	case KindGauge, KindPeakGauge:
		return emit(name, "", "", s.Value)

	case KindHistogram:
		h := s.Histogram
		if h == nil {
			return true
		}
		for i, b := range h.Bounds {
			if !emit(name+suffixBucket, labelBucketBound, formatFloat(b), float64(h.Buckets[i])) {
				return false
			}
		}
		return emit(name+suffixBucket, labelBucketBound, formatFloat(math.Inf(1)), float64(h.Count)) &&
			emit(name+suffixCount, "", "", float64(h.Count)) &&
			emit(name+suffixSum, "", "", h.Sum)

	case KindSummary:
		sm := s.Summary
		if sm == nil {
			return true
		}
		for _, q := range sm.Quantiles {
			if !emit(name, labelQuantile, formatFloat(q.Quantile), q.Value) {
				return false
			}
		}
		return emit(name+suffixSum, "", "", sm.Sum) &&
			emit(name+suffixCount, "", "", float64(sm.Count))
	}
	return true
}

// formatFloat renders label values for bounds and quantiles: whole numbers keep a ".0"
// fraction ("1.0", "2.0"), infinities are "+Inf" and "-Inf".
func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEN") {
		s += ".0"
	}
	return s
}
