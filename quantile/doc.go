// Package quantile provides a concurrency-safe, bounded-memory estimator of rank
// statistics over a stream of float64 observations.
//
// The estimator is a targeted CKMS sketch: each configured quantile q is tracked with an
// allowed rank error of max(min(q, 1-q)/10, 0.0001), so the median is kept within 5% and
// the 99th percentile within 0.1% of the true rank. Until the sketch compresses its first
// buffer of observations, queries are answered exactly using the nearest-rank method
// (the value at position ceil(q*n) of the sorted observations).
package quantile
