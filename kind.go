package instruments

import "strings"

// Kind identifies an instrument variant.
type Kind uint8

const (
	KindCounter Kind = iota + 1
	KindGauge
	KindPeakGauge
	KindHistogram
	KindSummary
)

var kindNames = map[Kind]string{
	KindCounter:   "counter",
	KindGauge:     "gauge",
	KindPeakGauge: "peak_gauge",
	KindHistogram: "histogram",
	KindSummary:   "summary",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind looks up a Kind by its (case-insensitive) name.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}
