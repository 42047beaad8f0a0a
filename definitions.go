package instruments

import (
	"errors"
	"io"
	"strconv"

	"github.com/ygrebnov/errorc"
	"gopkg.in/yaml.v3"
)

// Definition declares a family. It is the YAML shape read by RegisterDefinitions.
type Definition struct {
	Name      string    `yaml:"name"`
	Help      string    `yaml:"help"`
	Kind      string    `yaml:"kind"`
	Labels    []string  `yaml:"labels"`
	Buckets   []float64 `yaml:"buckets"`   // histogram only
	Quantiles []float64 `yaml:"quantiles"` // summary only
}

type definitions struct {
	Families []Definition `yaml:"families"`
}

// Register registers the family described by d, following the same rules as the typed
// constructors (Counter, Gauge, ...).
func (r *Registry) Register(d Definition) error {
	kind, ok := ParseKind(d.Kind)
	if !ok {
		return errorc.With(ErrInvalidDefinition, errorc.String("name", d.Name), errorc.String("kind", d.Kind))
	}
	if len(d.Buckets) > 0 && kind != KindHistogram {
		return errorc.With(ErrInvalidDefinition, errorc.String("name", d.Name), errorc.String("", "buckets are only valid for histograms"))
	}
	if len(d.Quantiles) > 0 && kind != KindSummary {
		return errorc.With(ErrInvalidDefinition, errorc.String("name", d.Name), errorc.String("", "quantiles are only valid for summaries"))
	}

	_, err := r.register(familySpec{
		name:       d.Name,
		help:       d.Help,
		kind:       kind,
		labelNames: d.Labels,
		buckets:    d.Buckets,
		quantiles:  d.Quantiles,
	})
	return err
}

// RegisterDefinitions reads a YAML document of the form
//
//	families:
//	  - name: http_requests
//	    help: HTTP requests served
//	    kind: counter
//	    labels: [method, status]
//
// and registers every family in order. Unknown fields are rejected. Registration stops at
// the first failing entry; earlier entries stay registered.
func (r *Registry) RegisterDefinitions(rd io.Reader) error {
	dec := yaml.NewDecoder(rd)
	dec.KnownFields(true)

	var defs definitions
	if err := dec.Decode(&defs); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errorc.With(ErrInvalidDefinition, errorc.String("yaml", err.Error()))
	}

	for i, d := range defs.Families {
		if err := r.Register(d); err != nil {
			return errorc.With(err, errorc.String("index", strconv.Itoa(i)))
		}
	}
	return nil
}
