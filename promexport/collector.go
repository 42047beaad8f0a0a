// Package promexport exposes an instruments.Registry as a prometheus.Collector so it can
// be registered with a prometheus.Registry and served by promhttp or any other exporter.
package promexport

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ygrebnov/instruments"
)

// Collector implements prometheus.Collector on top of an instruments.Registry.
// Every Collect reads the registry once, which resets peak gauges.
type Collector struct {
	reg *instruments.Registry
}

// NewCollector creates a Collector reading from reg.
func NewCollector(reg *instruments.Registry) *Collector {
	return &Collector{reg: reg}
}

// Describe implements prometheus.Collector. It sends no descriptors: families are added
// to the registry at any time, so the collector is registered as an unchecked collector.
// Describing by collecting would also consume peak gauges.
func (c *Collector) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, mf := range c.reg.Gather() {
		d := desc(mf)
		for _, s := range mf.Series {
			m, err := constMetric(d, mf.Kind, s)
			if err != nil {
				m = prometheus.NewInvalidMetric(d, err)
			}
			ch <- m
		}
	}
}

func desc(mf instruments.MetricFamily) *prometheus.Desc {
	return prometheus.NewDesc(mf.Name, mf.Help, mf.LabelNames, nil)
}

func constMetric(d *prometheus.Desc, kind instruments.Kind, s instruments.Series) (prometheus.Metric, error) {
	switch kind {
	case instruments.KindCounter:
		return prometheus.NewConstMetric(d, prometheus.CounterValue, s.Value, s.LabelValues...)

	case instruments.KindHistogram:
		h := s.Histogram
		buckets := make(map[float64]uint64, len(h.Bounds))
		for i, b := range h.Bounds {
			buckets[b] = h.Buckets[i]
		}
		return prometheus.NewConstHistogram(d, h.Count, h.Sum, buckets, s.LabelValues...)

	case instruments.KindSummary:
		sm := s.Summary
		quantiles := make(map[float64]float64, len(sm.Quantiles))
		for _, q := range sm.Quantiles {
			quantiles[q.Quantile] = q.Value
		}
		return prometheus.NewConstSummary(d, sm.Count, sm.Sum, quantiles, s.LabelValues...)

	default:
		return prometheus.NewConstMetric(d, prometheus.GaugeValue, s.Value, s.LabelValues...)
	}
}
