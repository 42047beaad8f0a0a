package instruments

import (
	"regexp"
	"strings"

	"github.com/ygrebnov/errorc"
)

var (
	metricNameRE = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)
	labelNameRE  = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// validateSchema checks the metric name and label names of a family.
// "le" is reserved for histogram buckets and "quantile" for summary quantiles.
func validateSchema(name string, kind Kind, labelNames []string) error {
	if !metricNameRE.MatchString(name) {
		return errorc.With(ErrInvalidArgument, errorc.String("", "invalid metric name"), errorc.String("name", name))
	}

	seen := make(map[string]struct{}, len(labelNames))
	for _, l := range labelNames {
		switch {
		case !labelNameRE.MatchString(l), strings.HasPrefix(l, "__"):
			return errorc.With(ErrInvalidArgument, errorc.String("", "invalid label name"), errorc.String("label", l))
		case kind == KindHistogram && l == labelBucketBound,
			kind == KindSummary && l == labelQuantile:
			return errorc.With(
				ErrInvalidArgument,
				errorc.String("", "label name is reserved for "+kind.String()),
				errorc.String("label", l),
			)
		}
		if _, dup := seen[l]; dup {
			return errorc.With(ErrInvalidArgument, errorc.String("", "duplicate label name"), errorc.String("label", l))
		}
		seen[l] = struct{}{}
	}
	return nil
}

// exportedNames returns every sample name a family of kind exports, plus the family name
// itself. Histogram and summary names are reserved even though no sample carries them,
// since exposition formats key the whole family by that name.
func exportedNames(name string, kind Kind) []string {
	switch kind {
	case KindCounter:
		if strings.HasSuffix(name, suffixTotal) {
			return []string{name}
		}
		return []string{name, name + suffixTotal}
	case KindHistogram:
		return []string{name, name + suffixBucket, name + suffixCount, name + suffixSum}
	case KindSummary:
		return []string{name, name + suffixSum, name + suffixCount}
	default:
		return []string{name}
	}
}
