package instruments

import (
	"github.com/ygrebnov/errorc"

	"github.com/ygrebnov/instruments/quantile"
)

// DefaultBuckets are the histogram bucket upper bounds used when neither the family nor
// the registry configures any. They suit latencies measured in seconds.
var DefaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// DefaultQuantiles are the summary quantiles exported when a family configures none.
var DefaultQuantiles = []float64{0.5, 0.99}

// config holds Registry configuration.
type config struct {
	// Logger receives registration diagnostics.
	// Default: no-op logger.
	Logger Logger

	// Buckets are the histogram bounds used for families registered without explicit ones.
	// Default: DefaultBuckets.
	Buckets []float64

	// Quantiles are the summary quantiles used for families registered without explicit ones.
	// Default: DefaultQuantiles.
	Quantiles []float64
}

// defaultConfig centralizes default values for config.
func defaultConfig() config {
	return config{
		Logger:    newNoopLogger(),
		Buckets:   DefaultBuckets,
		Quantiles: DefaultQuantiles,
	}
}

// validateConfig checks that the registry defaults would produce valid families.
func validateConfig(cfg *config) error {
	if cfg.Logger == nil {
		return errorc.With(ErrInvalidConfig, errorc.String("", "logger must not be nil"))
	}
	if _, err := normalizeBuckets(cfg.Buckets); err != nil {
		return errorc.With(ErrInvalidConfig, errorc.String("buckets", err.Error()))
	}
	if err := quantile.Validate(cfg.Quantiles...); err != nil {
		return errorc.With(ErrInvalidConfig, errorc.String("quantiles", err.Error()))
	}
	return nil
}

// Option configures a Registry. Use New(opts...) to construct a Registry via options.
type Option func(*config) error

// WithLogger sets the logger used for registration diagnostics.
func WithLogger(l Logger) Option {
	return func(cfg *config) error {
		if l == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithLogger requires a non-nil logger"))
		}
		cfg.Logger = l
		return nil
	}
}

// WithDefaultBuckets sets the histogram bounds used when a family is registered without any.
func WithDefaultBuckets(bounds ...float64) Option {
	return func(cfg *config) error {
		if len(bounds) == 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithDefaultBuckets requires at least one bound"))
		}
		cfg.Buckets = append([]float64(nil), bounds...)
		return nil
	}
}

// WithDefaultQuantiles sets the summary quantiles used when a family is registered without any.
func WithDefaultQuantiles(qs ...float64) Option {
	return func(cfg *config) error {
		if len(qs) == 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithDefaultQuantiles requires at least one quantile"))
		}
		cfg.Quantiles = append([]float64(nil), qs...)
		return nil
	}
}
