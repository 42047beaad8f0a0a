// Package instruments provides an in-process metric registry: named, labeled counters,
// gauges, peak gauges, histograms and summaries that are safe to mutate from many
// goroutines and can be read as flat samples by an exporter.
//
// Registry
//   - New(opts ...Option) creates an explicit registry. Construct one at process start and
//     pass it to instrumentation sites; tests construct a fresh one each.
//   - Counter, Gauge, PeakGauge, Histogram and Summary register a family (name, help,
//     label names) or return the existing one. Re-registering a name with a different
//     kind or label names fails with ErrSchemaMismatch.
//   - Family.Labels(values...) binds label values to an instrument. Equal values always
//     return the same instrument, also under concurrent binding.
//
// Reading
//   - Samples lazily yields every sample, families in registration order and series in
//     binding order. Snapshot collects them; Gather returns typed per-family readings.
//   - Counters are exported as <name> and, unless the name already ends in "_total", as
//     <name>_total. Histograms are exported as <name>_bucket (with an "le" label),
//     <name>_count and <name>_sum. Summaries are exported as <name> (with a "quantile"
//     label), <name>_sum and <name>_count.
//   - A peak gauge reports the largest value recorded since its previous read, and each
//     read resets it to 0. Every read path (Samples, Snapshot, Gather, Get) consumes it.
//   - Get looks up a single sample by name and labels and reports absent series with
//     ok == false.
//
// Defaults
//   - Histogram buckets: DefaultBuckets
//   - Summary quantiles: 0.5 and 0.99
//   - Logger: no-op (see NewZerologLogger)
package instruments
