// Package rules implements weighted, call-by-name rule dispatch.
//
// Several productions registered under one name are alternatives of the same
// grammar symbol; invoking the name picks exactly one of them with probability
// proportional to its weight.
package rules

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/aretw0/algorist/internal/logging"
	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/rnd"
)

type variant struct {
	cumulative float64
	weight     float64
	production domain.Production
}

// Registry maps rule names to their weighted variants.
// It is append-only while a grammar is being declared and read-only while it runs.
type Registry struct {
	rules  map[string][]variant
	rand   *rnd.Source
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithRand injects the random source used for dispatch.
func WithRand(src *rnd.Source) Option {
	return func(r *Registry) {
		r.rand = src
	}
}

// WithHooks sets the lifecycle hooks fired on every dispatch.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(r *Registry) {
		r.hooks = h
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// NewRegistry creates a new empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		rules:  make(map[string][]variant),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rand == nil {
		r.rand = rnd.New(nil)
	}
	return r
}

// Rule dispatches to a registered name.
type Rule struct {
	name string
	reg  *Registry
}

// Name returns the rule name.
func (r Rule) Name() string { return r.name }

// Invoke dispatches to one variant of the rule.
func (r Rule) Invoke(ctx context.Context, args domain.Args) (any, error) {
	return r.reg.Invoke(ctx, r.name, args)
}

// Production returns the rule as a plain production, so rules can be nested
// inside other wrappers.
func (r Rule) Production() domain.Production {
	return r.Invoke
}

// Register appends a variant to name with the given relative weight.
// Weights must be positive and finite.
func (r *Registry) Register(name string, weight float64, p domain.Production) (Rule, error) {
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return Rule{}, fmt.Errorf("rule %q weight %v: %w", name, weight, domain.ErrInvalidWeight)
	}
	if p == nil {
		return Rule{}, fmt.Errorf("rule %q: nil production", name)
	}

	variants := r.rules[name]
	var total float64
	if n := len(variants); n > 0 {
		total = variants[n-1].cumulative
	}
	r.rules[name] = append(variants, variant{
		cumulative: total + weight,
		weight:     weight,
		production: p,
	})
	return Rule{name: name, reg: r}, nil
}

// MustRegister is Register for static grammars; it panics on an invalid weight.
func (r *Registry) MustRegister(name string, weight float64, p domain.Production) Rule {
	rule, err := r.Register(name, weight, p)
	if err != nil {
		panic(err)
	}
	return rule
}

// Invoke selects one variant of name and calls it with args.
// It returns domain.ErrRuleNotFound when name has no variants.
func (r *Registry) Invoke(ctx context.Context, name string, args domain.Args) (any, error) {
	variants, ok := r.rules[name]
	if !ok || len(variants) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrRuleNotFound, name)
	}

	draw := r.rand.Float64() * variants[len(variants)-1].cumulative
	idx := sort.Search(len(variants), func(i int) bool {
		return variants[i].cumulative >= draw
	})
	if idx == len(variants) {
		idx = len(variants) - 1
	}

	r.logger.Debug("rule dispatch", "rule", name, "variant", idx, "draw", draw)
	if r.hooks.OnRuleInvoke != nil {
		r.hooks.OnRuleInvoke(ctx, &domain.RuleEvent{
			EventBase: domain.NewEventBase(domain.EventRuleInvoke),
			Rule:      name,
			Variant:   idx,
			Draw:      draw,
		})
	}

	return variants[idx].production(ctx, args)
}

// Has reports whether name has at least one variant.
func (r *Registry) Has(name string) bool {
	return len(r.rules[name]) > 0
}

// Names returns the registered rule names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Weights returns the relative weight of every variant of name, in registration order.
func (r *Registry) Weights(name string) []float64 {
	variants := r.rules[name]
	out := make([]float64, len(variants))
	for i, v := range variants {
		out[i] = v.weight
	}
	return out
}

// Cumulative returns the cumulative weights of name, in registration order.
func (r *Registry) Cumulative(name string) []float64 {
	variants := r.rules[name]
	out := make([]float64, len(variants))
	for i, v := range variants {
		out[i] = v.cumulative
	}
	return out
}
