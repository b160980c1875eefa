package grammar

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/primitives"
)

// ShapeValidator checks a shape request. primitives.Validate is the default.
type ShapeValidator func(name string, params domain.Params) error

// ValidateOption configures Validate.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	shapes ShapeValidator
}

// WithShapeValidator replaces the shape check, for hosts with custom builders.
func WithShapeValidator(v ShapeValidator) ValidateOption {
	return func(c *validateConfig) {
		c.shapes = v
	}
}

// Issue is one validation failure, located by rule, variant and step.
type Issue struct {
	Rule    string `json:"rule,omitempty"`
	Variant int    `json:"variant"`
	Step    int    `json:"step"`
	Message string `json:"message"`
}

func (i Issue) Error() string {
	if i.Rule == "" {
		return i.Message
	}
	return fmt.Sprintf("rule %q variant %d step %d: %s", i.Rule, i.Variant, i.Step, i.Message)
}

// Validate reports every structural problem in doc. The returned error wraps
// domain.ErrInvalidGrammar and every Issue found.
func Validate(doc *Document, opts ...ValidateOption) error {
	cfg := validateConfig{shapes: primitives.Validate}
	for _, opt := range opts {
		opt(&cfg)
	}

	var issues []error
	add := func(rule string, v, s int, format string, args ...any) {
		issues = append(issues, Issue{Rule: rule, Variant: v, Step: s, Message: fmt.Sprintf(format, args...)})
	}

	if doc == nil {
		return fmt.Errorf("%w: empty document", domain.ErrInvalidGrammar)
	}
	if len(doc.Rules) == 0 {
		add("", 0, 0, "no rules defined")
	}
	switch {
	case doc.Start == "":
		add("", 0, 0, "missing start rule")
	case len(doc.Rules[doc.Start]) == 0:
		add("", 0, 0, "start rule %q is not defined", doc.Start)
	}
	checkLimits(doc.Limits, func(msg string) { add("", 0, 0, "limits: %s", msg) })

	for _, name := range RuleNames(doc) {
		for vi, v := range doc.Rules[name] {
			if v.Weight < 0 || math.IsNaN(v.Weight) || math.IsInf(v.Weight, 0) {
				add(name, vi, 0, "weight must be positive, got %v", v.Weight)
			}
			if v.Limits != nil {
				checkLimits(*v.Limits, func(msg string) { add(name, vi, 0, "limits: %s", msg) })
			}
			for si, step := range v.Steps {
				validateStep(doc, cfg, step, func(format string, args ...any) {
					add(name, vi, si, format, args...)
				})
			}
		}
	}

	if len(issues) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidGrammar, errors.Join(issues...))
	}
	return nil
}

func validateStep(doc *Document, cfg validateConfig, step Step, report func(string, ...any)) {
	if step.Chance < 0 {
		report("chance must not be negative, got %d", step.Chance)
	}
	if step.Repeat < 0 || step.Repeat > MaxRepeat {
		report("repeat must be between 0 and %d, got %d", MaxRepeat, step.Repeat)
	}
	for oi, op := range step.Transform {
		if op.Kind() == "" {
			report("transform %d must set exactly one of translate, scale, rotate, color", oi)
			continue
		}
		if op.Rotate != nil {
			if op.Rotate.Direction == nil && op.Rotate.Axis == "" {
				report("transform %d: rotate needs an axis or a direction", oi)
			}
			if op.Rotate.Axis != "" {
				switch strings.ToLower(op.Rotate.Axis) {
				case "x", "y", "z":
				default:
					report("transform %d: unknown axis %q", oi, op.Rotate.Axis)
				}
			}
		}
	}
	if step.Shape != nil {
		if step.Shape.Name == "" {
			report("shape without a name")
		} else if err := cfg.shapes(step.Shape.Name, step.Shape.Params); err != nil {
			report("%v", err)
		}
	}
	for _, call := range step.Call {
		if len(doc.Rules[call]) == 0 {
			report("call to undefined rule %q", call)
		}
	}
	if step.Shape == nil && len(step.Call) == 0 {
		report("step neither places a shape nor calls a rule")
	}
}

func checkLimits(l Limits, report func(string)) {
	if l.MaxDepth < 0 {
		report(fmt.Sprintf("max_depth must not be negative, got %d", l.MaxDepth))
	}
	if l.MaxObjects < 0 {
		report(fmt.Sprintf("max_objects must not be negative, got %d", l.MaxObjects))
	}
	if l.MinScale != nil && (*l.MinScale < 0 || math.IsNaN(*l.MinScale)) {
		report(fmt.Sprintf("min_scale must not be negative, got %v", *l.MinScale))
	}
}

// Issues extracts the individual issues from a Validate error.
func Issues(err error) []Issue {
	var out []Issue
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if is, ok := e.(Issue); ok {
			out = append(out, is)
			return
		}
		if multi, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range multi.Unwrap() {
				walk(inner)
			}
			return
		}
		walk(errors.Unwrap(e))
	}
	walk(err)
	return out
}

// RuleNames returns the rule names of doc, sorted.
func RuleNames(doc *Document) []string {
	names := make([]string, 0, len(doc.Rules))
	for name := range doc.Rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Edge is a call from one rule variant to another rule.
type Edge struct {
	From    string
	To      string
	Variant int
	Weight  float64
}

// Edges lists every rule call in doc, in rule name order.
func Edges(doc *Document) []Edge {
	var edges []Edge
	for _, name := range RuleNames(doc) {
		for vi, v := range doc.Rules[name] {
			seen := make(map[string]bool)
			for _, step := range v.Steps {
				for _, call := range step.Call {
					if seen[call] {
						continue
					}
					seen[call] = true
					edges = append(edges, Edge{From: name, To: call, Variant: vi, Weight: v.EffectiveWeight()})
				}
			}
		}
	}
	return edges
}

// Shapes lists, per rule, the shape names its variants place.
func Shapes(doc *Document) map[string][]string {
	out := make(map[string][]string)
	for name, variants := range doc.Rules {
		seen := make(map[string]bool)
		for _, v := range variants {
			for _, step := range v.Steps {
				if step.Shape != nil && !seen[step.Shape.Name] {
					seen[step.Shape.Name] = true
					out[name] = append(out[name], step.Shape.Name)
				}
			}
		}
		sort.Strings(out[name])
	}
	return out
}
