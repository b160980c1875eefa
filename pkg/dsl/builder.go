package dsl

import (
	"fmt"

	"github.com/aretw0/algorist/pkg/adapters/memory"
	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/grammar"
)

// Builder manages the grammar construction.
type Builder struct {
	doc   grammar.Document
	order []string
	rules map[string]*RuleBuilder
}

// New creates a new grammar builder. The first rule added becomes the start
// rule unless Start says otherwise.
func New(name string) *Builder {
	return &Builder{
		doc:   grammar.Document{Name: name},
		rules: make(map[string]*RuleBuilder),
	}
}

// Start names the rule a run begins with.
func (b *Builder) Start(rule string) *Builder {
	b.doc.Start = rule
	return b
}

// Background sets the scene background colour.
func (b *Builder) Background(c domain.HSVA) *Builder {
	b.doc.Background = &c
	return b
}

// MaxDepth bounds the nesting of every variant.
func (b *Builder) MaxDepth(n int) *Builder {
	b.doc.Limits.MaxDepth = n
	return b
}

// MaxObjects bounds the lifetime entries of every variant.
func (b *Builder) MaxObjects(n int) *Builder {
	b.doc.Limits.MaxObjects = n
	return b
}

// MinScale stops every variant once the frame shrinks below s.
func (b *Builder) MinScale(s float64) *Builder {
	b.doc.Limits.MinScale = &s
	return b
}

// Rule returns the builder for a rule, creating it on first use.
func (b *Builder) Rule(name string) *RuleBuilder {
	if rb, ok := b.rules[name]; ok {
		return rb
	}
	rb := &RuleBuilder{name: name, builder: b}
	b.rules[name] = rb
	b.order = append(b.order, name)
	return rb
}

// Document assembles and validates the grammar.
func (b *Builder) Document() (*grammar.Document, error) {
	doc := b.doc
	if doc.Start == "" && len(b.order) > 0 {
		doc.Start = b.order[0]
	}
	doc.Rules = make(map[string][]grammar.Variant, len(b.rules))
	for name, rb := range b.rules {
		variants := make([]grammar.Variant, 0, len(rb.variants))
		for _, vb := range rb.variants {
			variants = append(variants, vb.variant())
		}
		doc.Rules[name] = variants
	}
	if err := grammar.Validate(&doc); err != nil {
		return nil, fmt.Errorf("dsl %q: %w", doc.Name, err)
	}
	return &doc, nil
}

// Build compiles the grammar into a memory Loader.
func (b *Builder) Build() (*memory.Loader, error) {
	doc, err := b.Document()
	if err != nil {
		return nil, err
	}
	loader, err := memory.NewLoader(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}

// RuleBuilder collects the variants of one rule.
type RuleBuilder struct {
	name     string
	builder  *Builder
	variants []*VariantBuilder
}

// Variant adds an alternative with the given weight. Zero means 1.
func (r *RuleBuilder) Variant(weight float64) *VariantBuilder {
	vb := &VariantBuilder{v: grammar.Variant{Weight: weight}, rule: r}
	r.variants = append(r.variants, vb)
	return vb
}

// VariantBuilder provides a fluent API for configuring a variant.
type VariantBuilder struct {
	v     grammar.Variant
	steps []*StepBuilder
	rule  *RuleBuilder
}

func (v *VariantBuilder) limits() *grammar.Limits {
	if v.v.Limits == nil {
		v.v.Limits = &grammar.Limits{}
	}
	return v.v.Limits
}

// MaxDepth overrides the document depth budget for this variant.
func (v *VariantBuilder) MaxDepth(n int) *VariantBuilder {
	v.limits().MaxDepth = n
	return v
}

// MaxObjects overrides the document entry budget for this variant.
func (v *VariantBuilder) MaxObjects(n int) *VariantBuilder {
	v.limits().MaxObjects = n
	return v
}

// MinScale overrides the document scale floor for this variant.
func (v *VariantBuilder) MinScale(s float64) *VariantBuilder {
	v.limits().MinScale = &s
	return v
}

// Step starts a new step.
func (v *VariantBuilder) Step() *StepBuilder {
	sb := &StepBuilder{variant: v}
	v.steps = append(v.steps, sb)
	return sb
}

func (v *VariantBuilder) variant() grammar.Variant {
	out := v.v
	out.Steps = make([]grammar.Step, 0, len(v.steps))
	for _, sb := range v.steps {
		out.Steps = append(out.Steps, sb.step)
	}
	return out
}
