package grammar

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/algorist/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Document is a declarative grammar: named rules, each a list of weighted
// variants, each a list of steps run inside their own transform scope.
type Document struct {
	Name       string               `json:"name,omitempty" yaml:"name,omitempty"`
	Start      string               `json:"start" yaml:"start"`
	Background *domain.HSVA         `json:"background,omitempty" yaml:"background,omitempty"`
	Limits     Limits               `json:"limits,omitempty" yaml:"limits,omitempty"`
	Rules      map[string][]Variant `json:"rules" yaml:"rules"`
}

// Limits bound each guarded variant. Zero values take the guard defaults.
type Limits struct {
	MaxDepth   int      `json:"max_depth,omitempty" yaml:"max_depth,omitempty" mapstructure:"max_depth"`
	MaxObjects int      `json:"max_objects,omitempty" yaml:"max_objects,omitempty" mapstructure:"max_objects"`
	MinScale   *float64 `json:"min_scale,omitempty" yaml:"min_scale,omitempty" mapstructure:"min_scale"`
}

// Merge returns l with every field set in override replacing it.
func (l Limits) Merge(override *Limits) Limits {
	if override == nil {
		return l
	}
	out := l
	if override.MaxDepth != 0 {
		out.MaxDepth = override.MaxDepth
	}
	if override.MaxObjects != 0 {
		out.MaxObjects = override.MaxObjects
	}
	if override.MinScale != nil {
		out.MinScale = override.MinScale
	}
	return out
}

// Variant is one weighted alternative of a rule.
type Variant struct {
	// Weight defaults to 1 when omitted.
	Weight float64 `json:"weight,omitempty" yaml:"weight,omitempty" mapstructure:"weight"`
	Limits *Limits `json:"limits,omitempty" yaml:"limits,omitempty" mapstructure:"limits"`
	Steps  []Step  `json:"steps" yaml:"steps" mapstructure:"steps"`
}

// EffectiveWeight is Weight, or 1 when unset.
func (v Variant) EffectiveWeight() float64 {
	if v.Weight == 0 {
		return 1
	}
	return v.Weight
}

// Step applies its transform ops, then places its shape and calls its rules,
// all inside one scope.
type Step struct {
	// Chance is the number of sides of a coin that must land on 1 for the
	// step to run. Zero always runs.
	Chance int `json:"chance,omitempty" yaml:"chance,omitempty" mapstructure:"chance"`
	// Repeat runs the step body this many times, compounding the transform
	// ops on every iteration. Zero runs it once; at most MaxRepeat.
	Repeat    int       `json:"repeat,omitempty" yaml:"repeat,omitempty" mapstructure:"repeat"`
	Transform []Op      `json:"transform,omitempty" yaml:"transform,omitempty" mapstructure:"transform"`
	Shape     *ShapeRef `json:"shape,omitempty" yaml:"shape,omitempty" mapstructure:"shape"`
	Call      []string  `json:"call,omitempty" yaml:"call,omitempty" mapstructure:"call"`
}

// MaxRepeat bounds Step.Repeat. It matches the default object budget of a
// guard, so one step cannot place more than a whole guarded run would.
const MaxRepeat = 10000

// Times is the effective repeat count.
func (s Step) Times() int {
	if s.Repeat <= 0 {
		return 1
	}
	return s.Repeat
}

// ShapeRef names a primitive to place.
type ShapeRef struct {
	Name   string         `json:"name" yaml:"name" mapstructure:"name"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
	// Material defaults to true; false places the object without a material.
	Material *bool `json:"material,omitempty" yaml:"material,omitempty" mapstructure:"material"`
}

// WantsMaterial reports whether the placed object gets a material.
func (s ShapeRef) WantsMaterial() bool {
	return s.Material == nil || *s.Material
}

// Op is a single transform operation. Exactly one field is set.
type Op struct {
	Translate *Vec      `json:"translate,omitempty" yaml:"translate,omitempty" mapstructure:"translate"`
	Scale     *ScaleOp  `json:"scale,omitempty" yaml:"scale,omitempty" mapstructure:"scale"`
	Rotate    *RotateOp `json:"rotate,omitempty" yaml:"rotate,omitempty" mapstructure:"rotate"`
	Color     *ColorOp  `json:"color,omitempty" yaml:"color,omitempty" mapstructure:"color"`
}

// Kind names the operation, or "" when none or several fields are set.
func (o Op) Kind() string {
	var kind string
	n := 0
	if o.Translate != nil {
		kind, n = "translate", n+1
	}
	if o.Scale != nil {
		kind, n = "scale", n+1
	}
	if o.Rotate != nil {
		kind, n = "rotate", n+1
	}
	if o.Color != nil {
		kind, n = "color", n+1
	}
	if n != 1 {
		return ""
	}
	return kind
}

// Vec is an (x, y, z) triple of Numbers.
type Vec [3]Number

// ScaleOp is a per-axis scale. A bare number, or a bare {base, rnd, prnd}
// mapping, is shorthand for {xyz: n}.
type ScaleOp struct {
	X   Number `json:"x,omitempty" yaml:"x,omitempty"`
	Y   Number `json:"y,omitempty" yaml:"y,omitempty"`
	Z   Number `json:"z,omitempty" yaml:"z,omitempty"`
	XYZ Number `json:"xyz,omitempty" yaml:"xyz,omitempty"`
}

type scaleFields ScaleOp

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *ScaleOp) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var n Number
		if err := value.Decode(&n); err != nil {
			return err
		}
		*s = ScaleOp{XYZ: n}
		return nil
	}
	var fields scaleFields
	if err := value.Decode(&fields); err != nil {
		return err
	}
	if fields == (scaleFields{}) {
		var n Number
		if err := value.Decode(&n); err == nil && n != (Number{}) {
			*s = ScaleOp{XYZ: n}
			return nil
		}
	}
	*s = ScaleOp(fields)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *ScaleOp) UnmarshalJSON(data []byte) error {
	var n Number
	if len(data) > 0 && data[0] != '{' {
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*s = ScaleOp{XYZ: n}
		return nil
	}
	var fields scaleFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == (scaleFields{}) {
		if err := json.Unmarshal(data, &n); err == nil && n != (Number{}) {
			*s = ScaleOp{XYZ: n}
			return nil
		}
	}
	*s = ScaleOp(fields)
	return nil
}

// RotateOp turns the frame around an axis. Angle is in radians and Degrees in
// degrees; both may be given and add up.
type RotateOp struct {
	Axis      string `json:"axis,omitempty" yaml:"axis,omitempty"`
	Direction *Vec   `json:"direction,omitempty" yaml:"direction,omitempty"`
	Angle     Number `json:"angle,omitempty" yaml:"angle,omitempty"`
	Degrees   Number `json:"degrees,omitempty" yaml:"degrees,omitempty"`
}

// ColorOp adjusts the colour. Nil fields pass the inherited value through.
type ColorOp struct {
	Hue        *Number      `json:"hue,omitempty" yaml:"hue,omitempty"`
	Saturation *Number      `json:"saturation,omitempty" yaml:"saturation,omitempty"`
	Value      *Number      `json:"value,omitempty" yaml:"value,omitempty"`
	Alpha      *Number      `json:"alpha,omitempty" yaml:"alpha,omitempty"`
	Base       *domain.HSVA `json:"base,omitempty" yaml:"base,omitempty"`
}

// Format is a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Parse decodes a document. It does not validate it.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidGrammar, err)
		}
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidGrammar, err)
		}
	default:
		return nil, fmt.Errorf("unsupported grammar format %q", format)
	}
	return &doc, nil
}

// Marshal encodes a document.
func Marshal(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML, "":
		return yaml.Marshal(doc)
	}
	return nil, fmt.Errorf("unsupported grammar format %q", format)
}
