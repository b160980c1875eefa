package dsl

import (
	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/grammar"
)

// N is a jittered number: base plus a symmetric draw in [-rnd, rnd].
func N(base, rnd float64) grammar.Number {
	return grammar.Number{Base: base, Rnd: rnd}
}

// StepBuilder provides a fluent API for configuring a step.
type StepBuilder struct {
	step    grammar.Step
	variant *VariantBuilder
}

func (s *StepBuilder) op(op grammar.Op) *StepBuilder {
	s.step.Transform = append(s.step.Transform, op)
	return s
}

// Translate moves the frame by a fixed offset.
func (s *StepBuilder) Translate(x, y, z float64) *StepBuilder {
	return s.TranslateN(grammar.Lit(x), grammar.Lit(y), grammar.Lit(z))
}

// TranslateN moves the frame by a jittered offset.
func (s *StepBuilder) TranslateN(x, y, z grammar.Number) *StepBuilder {
	return s.op(grammar.Op{Translate: &grammar.Vec{x, y, z}})
}

// Scale scales the frame uniformly.
func (s *StepBuilder) Scale(f float64) *StepBuilder {
	return s.ScaleN(grammar.Lit(f))
}

// ScaleN scales the frame uniformly by a jittered factor.
func (s *StepBuilder) ScaleN(f grammar.Number) *StepBuilder {
	return s.op(grammar.Op{Scale: &grammar.ScaleOp{XYZ: f}})
}

// ScaleXYZ scales each axis separately.
func (s *StepBuilder) ScaleXYZ(x, y, z float64) *StepBuilder {
	return s.op(grammar.Op{Scale: &grammar.ScaleOp{X: grammar.Lit(x), Y: grammar.Lit(y), Z: grammar.Lit(z)}})
}

// Rotate turns the frame around axis x, y or z.
func (s *StepBuilder) Rotate(axis string, degrees float64) *StepBuilder {
	return s.RotateN(axis, grammar.Lit(degrees))
}

// RotateN turns the frame by a jittered number of degrees.
func (s *StepBuilder) RotateN(axis string, degrees grammar.Number) *StepBuilder {
	return s.op(grammar.Op{Rotate: &grammar.RotateOp{Axis: axis, Degrees: degrees}})
}

// RotateAround turns the frame around an arbitrary direction.
func (s *StepBuilder) RotateAround(dx, dy, dz, degrees float64) *StepBuilder {
	dir := grammar.Vec{grammar.Lit(dx), grammar.Lit(dy), grammar.Lit(dz)}
	return s.op(grammar.Op{Rotate: &grammar.RotateOp{Direction: &dir, Degrees: grammar.Lit(degrees)}})
}

// Hue shifts the hue, wrapping around 1.
func (s *StepBuilder) Hue(d float64) *StepBuilder {
	n := grammar.Lit(d)
	return s.op(grammar.Op{Color: &grammar.ColorOp{Hue: &n}})
}

// Saturation multiplies the saturation.
func (s *StepBuilder) Saturation(f float64) *StepBuilder {
	n := grammar.Lit(f)
	return s.op(grammar.Op{Color: &grammar.ColorOp{Saturation: &n}})
}

// Value multiplies the brightness.
func (s *StepBuilder) Value(f float64) *StepBuilder {
	n := grammar.Lit(f)
	return s.op(grammar.Op{Color: &grammar.ColorOp{Value: &n}})
}

// Alpha multiplies the opacity.
func (s *StepBuilder) Alpha(f float64) *StepBuilder {
	n := grammar.Lit(f)
	return s.op(grammar.Op{Color: &grammar.ColorOp{Alpha: &n}})
}

// Paint replaces the colour outright.
func (s *StepBuilder) Paint(c domain.HSVA) *StepBuilder {
	return s.op(grammar.Op{Color: &grammar.ColorOp{Base: &c}})
}

// Shape places a primitive.
func (s *StepBuilder) Shape(name string, params map[string]any) *StepBuilder {
	s.step.Shape = &grammar.ShapeRef{Name: name, Params: params}
	return s
}

// NoMaterial places the step's shape without a material.
func (s *StepBuilder) NoMaterial() *StepBuilder {
	if s.step.Shape != nil {
		off := false
		s.step.Shape.Material = &off
	}
	return s
}

// Call invokes rules after the shape is placed.
func (s *StepBuilder) Call(rules ...string) *StepBuilder {
	s.step.Call = append(s.step.Call, rules...)
	return s
}

// Repeat runs the step n times with compounding transforms.
func (s *StepBuilder) Repeat(n int) *StepBuilder {
	s.step.Repeat = n
	return s
}

// Chance makes the step run only when a die with this many sides lands on 1.
func (s *StepBuilder) Chance(sides int) *StepBuilder {
	s.step.Chance = sides
	return s
}

// Step starts the next step of the same variant.
func (s *StepBuilder) Step() *StepBuilder {
	return s.variant.Step()
}

// Variant adds another alternative to the same rule.
func (s *StepBuilder) Variant(weight float64) *VariantBuilder {
	return s.variant.rule.Variant(weight)
}

// Rule switches to another rule of the same grammar.
func (s *StepBuilder) Rule(name string) *RuleBuilder {
	return s.variant.rule.builder.Rule(name)
}
