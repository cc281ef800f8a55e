package vector

import (
	"fmt"
	"strings"
)

// Domain selects the parameter schema and naming template of a test
// vector request.
type Domain int

const (
	// DomainTime requests a time domain impulse, parameterized by
	// (offset, width).
	DomainTime Domain = iota
	// DomainFreq requests a complex sinusoid, parameterized by
	// (frequency, phase, bin_offset).
	DomainFreq
)

// String returns the domain name used in cache paths and on the command
// line.
func (d Domain) String() string {
	switch d {
	case DomainTime:
		return "time"
	case DomainFreq:
		return "freq"
	default:
		return "unknown"
	}
}

// ParseDomain parses a domain name.
func ParseDomain(s string) (Domain, error) {
	switch strings.ToLower(s) {
	case "time":
		return DomainTime, nil
	case "freq":
		return DomainFreq, nil
	default:
		return 0, fmt.Errorf("unknown domain %q (available: time, freq)", s)
	}
}

// ParamNames returns the domain's parameter names in their fixed
// positional order. The order is significant: it defines both the
// canonical cache key and the positional argument order handed to the
// generator stage.
func (d Domain) ParamNames() []string {
	switch d {
	case DomainTime:
		return []string{"offset", "width"}
	default:
		return []string{"frequency", "phase", "bin_offset"}
	}
}

// GeneratorName returns the handler name of the domain's generator, as
// used both in canonical file names and as the first positional argument
// of the external generator tool.
func (d Domain) GeneratorName() string {
	switch d {
	case DomainTime:
		return "time_domain_impulse"
	default:
		return "complex_sinusoid"
	}
}

// ParameterSet is an ordered set of named numeric parameters for one
// domain. It is constructed once per request and immutable afterwards.
type ParameterSet struct {
	domain Domain
	values []float64
}

// NewParameterSet builds a ParameterSet from positional values in the
// domain's fixed parameter order.
func NewParameterSet(d Domain, values ...float64) (ParameterSet, error) {
	names := d.ParamNames()
	if len(values) != len(names) {
		return ParameterSet{}, fmt.Errorf("domain %s takes %d parameters %v, got %d",
			d, len(names), names, len(values))
	}
	out := make([]float64, len(values))
	copy(out, values)
	return ParameterSet{domain: d, values: out}, nil
}

// ParameterSetFromMap builds a ParameterSet from named values. The result
// is identical to the positional form: both resolve to the same key.
func ParameterSetFromMap(d Domain, params map[string]float64) (ParameterSet, error) {
	names := d.ParamNames()
	if len(params) != len(names) {
		return ParameterSet{}, fmt.Errorf("domain %s takes parameters %v, got %d values",
			d, names, len(params))
	}
	values := make([]float64, len(names))
	for i, name := range names {
		v, ok := params[name]
		if !ok {
			return ParameterSet{}, fmt.Errorf("domain %s requires parameter %q", d, name)
		}
		values[i] = v
	}
	return ParameterSet{domain: d, values: values}, nil
}

// Domain returns the domain the parameters belong to.
func (p ParameterSet) Domain() Domain { return p.domain }

// Values returns the parameter values in positional order.
func (p ParameterSet) Values() []float64 {
	out := make([]float64, len(p.values))
	copy(out, p.values)
	return out
}

// Named returns the parameters as a name-to-value map.
func (p ParameterSet) Named() map[string]float64 {
	out := make(map[string]float64, len(p.values))
	for i, name := range p.domain.ParamNames() {
		out[name] = p.values[i]
	}
	return out
}

// Key returns the canonical cache subdirectory name for the parameters.
// Values are formatted at fixed 3 decimal places, so two parameter sets
// that agree to that precision share a cache entry. The freq template
// orders (frequency, bin_offset, phase) even though the positional order
// is (frequency, phase, bin_offset); the layout is kept for compatibility
// with existing vector corpora.
func (p ParameterSet) Key() string {
	switch p.domain {
	case DomainTime:
		return fmt.Sprintf("o-%.3f_w-%.3f", p.values[0], p.values[1])
	default:
		return fmt.Sprintf("f-%.3f_b-%.3f_p-%.3f", p.values[0], p.values[2], p.values[1])
	}
}
