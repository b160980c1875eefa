package grammar

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Sampler draws jitter for a Number.
// *rnd.Source satisfies it.
type Sampler interface {
	Symmetric(r float64) float64
	Positive(r float64) float64
}

// Number is a literal or a jittered value: Base plus a symmetric draw in
// [-Rnd, Rnd] plus a positive draw in [0, Prnd], sampled on every execution.
//
// It decodes from a bare number (`0.5`) or a mapping (`{base: 0.5, rnd: 0.1}`).
type Number struct {
	Base float64 `json:"base,omitempty" yaml:"base,omitempty"`
	Rnd  float64 `json:"rnd,omitempty" yaml:"rnd,omitempty"`
	Prnd float64 `json:"prnd,omitempty" yaml:"prnd,omitempty"`
}

// Lit is a literal Number.
func Lit(v float64) Number { return Number{Base: v} }

// Jittered reports whether sampling can vary.
func (n Number) Jittered() bool { return n.Rnd != 0 || n.Prnd != 0 }

// Sample evaluates the number. A nil sampler ignores the jitter.
func (n Number) Sample(s Sampler) float64 {
	v := n.Base
	if s == nil {
		return v
	}
	if n.Rnd != 0 {
		v += s.Symmetric(n.Rnd)
	}
	if n.Prnd != 0 {
		v += s.Positive(n.Prnd)
	}
	return v
}

func (n Number) String() string {
	if !n.Jittered() {
		return strconv.FormatFloat(n.Base, 'g', -1, 64)
	}
	return fmt.Sprintf("%g±%g+%g", n.Base, n.Rnd, n.Prnd)
}

type numberFields Number

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		f, err := strconv.ParseFloat(value.Value, 64)
		if err != nil {
			return fmt.Errorf("line %d: expected number, got %q", value.Line, value.Value)
		}
		*n = Number{Base: f}
		return nil
	}
	var fields numberFields
	if err := value.Decode(&fields); err != nil {
		return err
	}
	*n = Number(fields)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (n Number) MarshalYAML() (any, error) {
	if !n.Jittered() {
		return n.Base, nil
	}
	return numberFields(n), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = Number{Base: f}
		return nil
	}
	var fields numberFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("expected number or {base, rnd, prnd}: %w", err)
	}
	*n = Number(fields)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Jittered() {
		return json.Marshal(n.Base)
	}
	return json.Marshal(numberFields(n))
}
